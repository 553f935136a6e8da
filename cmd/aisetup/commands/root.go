package commands

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/arthur-debert/aisetup/internal/version"
	"github.com/arthur-debert/aisetup/pkg/cobrax/topics"
	"github.com/arthur-debert/aisetup/pkg/config"
	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/filesystem"
	"github.com/arthur-debert/aisetup/pkg/installer"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/paths"
	"github.com/arthur-debert/aisetup/pkg/plugin"
	"github.com/arthur-debert/aisetup/pkg/reconcile"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/arthur-debert/aisetup/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed help/*.md
var helpFiles embed.FS

// targetAliases maps command line target names to targets
var targetAliases = map[string]types.TargetName{
	"code":    types.TargetClaudeCode,
	"desktop": types.TargetClaudeDesktop,
	"cursor":  types.TargetCursor,
}

// Deps are the collaborators a run talks to. Tests swap them for fakes.
type Deps struct {
	FS       types.FS
	Host     func(cfg *config.Config) plugin.HostCLI
	Resolver func() (*paths.Resolver, error)

	// Confirmer overrides the interactive prompt on stdin
	Confirmer reconcile.Confirmer
}

// DefaultDeps talks to the real filesystem, the claude CLI and the current user
func DefaultDeps() Deps {
	return Deps{
		FS: filesystem.NewOS(),
		Host: func(cfg *config.Config) plugin.HostCLI {
			return plugin.NewClientWithPath(cfg.Host.CLI)
		},
		Resolver: paths.NewResolver,
	}
}

type rootOptions struct {
	verbosity  int
	check      bool
	dryRun     bool
	uninstall  bool
	source     string
	configFile string
	format     string
}

// NewRootCmd creates the aisetup command
func NewRootCmd() *cobra.Command {
	return newRootCmd(DefaultDeps())
}

func newRootCmd(deps Deps) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     MsgRootUse,
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.String(),
		Args:    validateArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}
	rootCmd.SetVersionTemplate(MsgVersionTemplate)

	global := rootCmd.PersistentFlags()
	global.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	global.StringVar(&opts.source, "source", "", MsgFlagSource)
	global.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	global.StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.check, "check", false, MsgFlagCheck)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.BoolVar(&opts.uninstall, "uninstall", false, MsgFlagUninstall)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, errors.Wrap(err, errors.ErrPrecondition, "invalid flags"))
	})

	helpFS, err := fs.Sub(helpFiles, "help")
	if err == nil {
		_, err = topics.InitializeWithOptions(rootCmd, helpFS, topics.Options{Renderer: helpRenderer()})
	}
	if err != nil {
		log.Debug().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// Execute runs the command line and returns the process exit code. ctx is
// passed to host CLI invocations so an interrupt stops a running child.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("Run failed")
		return 1
	}
	return 0
}

func helpRenderer() topics.Renderer {
	if ui.DetectFormat(os.Stdout) == ui.FormatTerminal {
		return topics.NewGlamourRenderer()
	}
	return &topics.PlainRenderer{}
}

// validateArgs accepts no arguments, a target, or cursor and a PATH
func validateArgs(cmd *cobra.Command, args []string) error {
	_, _, err := parseTarget(args)
	if err != nil {
		return usageError(cmd, err)
	}
	return nil
}

func parseTarget(args []string) (types.TargetName, string, error) {
	if len(args) == 0 {
		return types.TargetClaudeCode, "", nil
	}

	name, ok := targetAliases[args[0]]
	if !ok {
		return "", "", errors.Newf(errors.ErrPrecondition, MsgErrUnknownTarget, args[0])
	}

	switch {
	case len(args) == 1:
		return name, "", nil
	case len(args) == 2 && name == types.TargetCursor:
		return name, args[1], nil
	case len(args) == 2:
		return "", "", errors.New(errors.ErrPrecondition, MsgErrPathArg)
	default:
		return "", "", errors.Newf(errors.ErrPrecondition, MsgErrTooManyArgs, strings.Join(args[1:], " "))
	}
}

// usageError prints err followed by the usage text and returns err
func usageError(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()
	ui.NewPrinter(w, ui.FormatText).Error(err)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, cmd.UsageString())
	return err
}

func run(cmd *cobra.Command, args []string, opts *rootOptions, deps Deps) error {
	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return usageError(cmd, errors.Wrap(err, errors.ErrPrecondition, "invalid --format"))
	}
	out := cmd.OutOrStdout()
	printer := ui.NewPrinter(out, format)
	errPrinter := ui.NewPrinter(cmd.ErrOrStderr(), format)

	mode, conflict := types.ModeFromFlags(opts.check, opts.dryRun, opts.uninstall)
	if conflict {
		errPrinter.Warn(MsgModeConflict, mode)
	}

	name, projectPath, err := parseTarget(args)
	if err != nil {
		return usageError(cmd, err)
	}

	overrides := map[string]interface{}{}
	if opts.source != "" {
		overrides["source.root"] = opts.source
	}
	cfg, err := config.Load(config.LoadOptions{ConfigFile: opts.configFile, Overrides: overrides})
	if err != nil {
		errPrinter.Error(err)
		return err
	}

	source, err := paths.FindSourceRoot(cfg.Source.Root)
	if err != nil {
		errPrinter.Error(err)
		return err
	}
	if source.UsedFallback {
		errPrinter.Warn(MsgSourceFallback, source.Path)
	}

	resolver, err := deps.Resolver()
	if err != nil {
		errPrinter.Error(err)
		return err
	}
	target, err := resolver.Resolve(name, projectPath)
	if err != nil {
		return usageError(cmd, err)
	}

	confirmer := deps.Confirmer
	if confirmer == nil {
		confirmer = promptConfirmer(cmd.InOrStdin(), out)
	}

	printer.Header(target, mode)
	summary, err := installer.Run(cmd.Context(), installer.Options{
		Config:     cfg,
		SourceRoot: source.Path,
		Target:     target,
		Mode:       mode,
		FS:         deps.FS,
		Host:       deps.Host(cfg),
		Confirmer:  confirmer,
	})
	if summary != nil {
		printSummary(printer, summary)
	}
	if err != nil {
		errPrinter.Error(err)
		return err
	}

	if err := summary.Err(); err != nil {
		errPrinter.Error(err)
		return err
	}
	return nil
}

func printSummary(p *ui.Printer, s *installer.Summary) {
	p.Reconcile(s.Reconcile)

	if s.Plugin != nil {
		p.Section("Plugin lifecycle")
		p.PluginSteps(*s.Plugin)
		p.Info("")
	}
	if s.Facts != nil {
		p.PluginFacts(s.PluginID, *s.Facts)
	}
	if s.Hooks != nil {
		p.Hooks(*s.Hooks)
	}
	for _, w := range s.AllWarnings() {
		p.Warn("%s", w.Error())
	}
	if n := len(s.Reconcile.Declined()); n > 0 {
		p.Info(MsgDeclined, n)
	}

	name := s.Target.DisplayName()
	switch {
	case s.Mode == types.ModeCheck && s.Healthy():
		p.Success(MsgHealthy, name)
	case s.Mode == types.ModeCheck:
		p.Warn(MsgUnhealthy, name)
	case s.Err() != nil:
		p.Warn(MsgFailed, name)
	default:
		p.Success(MsgDone, name)
	}
}

// promptConfirmer asks before overwriting when stdin is a terminal.
// Anything else declines, so piped runs never block or guess.
func promptConfirmer(in io.Reader, out io.Writer) reconcile.Confirmer {
	if f, ok := in.(*os.File); ok && ui.IsInteractive(f) {
		return ui.NewConsoleConfirmer(in, out)
	}
	return reconcile.Decline
}

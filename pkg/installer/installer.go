// Package installer runs one aisetup invocation end to end: enumerate the
// artifacts for a target, reconcile them, then drive the plugin lifecycle
// and the settings hooks when the target is Claude Code.
package installer

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/aisetup/pkg/artifacts"
	"github.com/arthur-debert/aisetup/pkg/config"
	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/hooks"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/plugin"
	"github.com/arthur-debert/aisetup/pkg/reconcile"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// Options defines the inputs of a run
type Options struct {
	Config *config.Config

	// SourceRoot is the absolute path of the artifact repository
	SourceRoot string

	Target types.InstallationTarget
	Mode   types.Mode

	FS        types.FS
	Host      plugin.HostCLI
	Confirmer reconcile.Confirmer
}

// Run executes one invocation. The returned error is set only when the run
// could not start or had to stop early (a precondition failure); everything
// else, including per-artifact errors and plugin verification, is carried in
// the Summary.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	log := logging.GetLogger("installer")
	log.Debug().
		Str("target", string(opts.Target.Name)).
		Str("mode", opts.Mode.String()).
		Str("source", opts.SourceRoot).
		Msg("Executing run")

	if opts.Config == nil {
		return nil, errors.New(errors.ErrInvalidInput, "configuration is required")
	}
	cfg := opts.Config

	src := artifacts.New(opts.FS, artifacts.Options{
		Root:        opts.SourceRoot,
		PersonalDir: cfg.Source.PersonalDir,
		Personal: map[types.TargetName][]string{
			types.TargetClaudeCode:    cfg.Personal.ClaudeCode,
			types.TargetClaudeDesktop: cfg.Personal.ClaudeDesktop,
			types.TargetCursor:        cfg.Personal.Cursor,
		},
		HookScript: cfg.Hooks.Script,
		Exclude:    cfg.Source.Exclude,
	})

	list, err := src.ListAll(opts.Target)
	if err != nil {
		return nil, err
	}
	log.Info().Int("artifacts", len(list)).Msg("Enumerated artifacts")

	rec := reconcile.New(opts.FS, reconcile.Options{
		Confirmer:  opts.Confirmer,
		SourceRoot: opts.SourceRoot,
		Legacy: map[types.TargetName][]string{
			types.TargetClaudeCode: cfg.Legacy.ClaudeCode,
		},
	})

	summary := &Summary{
		Target:    opts.Target,
		Mode:      opts.Mode,
		Reconcile: rec.Reconcile(opts.Target, list, opts.Mode),
	}

	if !opts.Target.SupportsPlugin {
		return summary, nil
	}

	claudeDir := opts.Target.RootDir
	manager := plugin.NewManager(opts.Host, opts.FS, plugin.NewLayout(claudeDir), registration(opts.FS, opts.SourceRoot, cfg))
	summary.PluginID = manager.Registration().ID()
	injector := hooks.NewInjector(opts.FS,
		filepath.Join(claudeDir, hooks.SettingsFile),
		src.HookScriptPath(),
		hooks.DefaultSpecs(hooks.HookCommand(cfg.Hooks.Interpreter, src.HookScriptPath()), cfg.Hooks.Timeout, cfg.Hooks.Async),
	)

	switch opts.Mode {
	case types.ModeCheck:
		facts, err := manager.Check()
		summary.Facts = &facts
		summary.PluginErr = err

	case types.ModeInstall:
		report, err := manager.Install(ctx)
		if errors.IsErrorCode(err, errors.ErrPrecondition) {
			return summary, err
		}
		summary.Plugin = &report
		summary.Facts = &report.Facts
		summary.PluginErr = err
		if err != nil {
			log.Warn().Err(err).Msg("Plugin not healthy, skipping hooks")
			return summary, nil
		}
		summary.runHooks(injector.Apply(opts.Mode))

	case types.ModeDryRun:
		summary.runHooks(injector.Apply(opts.Mode))

	case types.ModeUninstall:
		report, err := manager.Uninstall(ctx)
		summary.Plugin = &report
		if err != nil {
			summary.Warnings = append(summary.Warnings, err)
		}
		summary.runHooks(injector.Remove(opts.Mode))
	}

	return summary, nil
}

// registration names the plugin from the source repository's marketplace
// manifest, falling back to the configured names
func registration(fsys types.FS, root string, cfg *config.Config) plugin.Registration {
	return plugin.ResolveRegistration(fsys, root, plugin.Registration{
		Marketplace: cfg.Plugin.Marketplace,
		Plugin:      cfg.Plugin.Name,
		Scope:       plugin.Scope(cfg.Plugin.Scope),
		Source:      cfg.Plugin.Source,
	})
}

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/hooks"
	"github.com/arthur-debert/aisetup/pkg/plugin"
	"github.com/arthur-debert/aisetup/pkg/reconcile"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/arthur-debert/aisetup/pkg/ui/styles"
	"github.com/pterm/pterm"
)

// Printer writes user-facing output in one format
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a Printer. FormatAuto is resolved against out when it
// is a file, and falls back to plain text otherwise.
func NewPrinter(out io.Writer, format Format) *Printer {
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}
	return &Printer{out: out, format: format}
}

// Format returns the resolved output format
func (p *Printer) Format() Format {
	return p.format
}

func (p *Printer) style(name, s string) string {
	if p.format != FormatTerminal {
		return s
	}
	return styles.GetStyle(name).Render(s)
}

func (p *Printer) println(s string) {
	_, _ = fmt.Fprintln(p.out, s)
}

// Header prints the run banner for a target and mode
func (p *Printer) Header(target types.InstallationTarget, mode types.Mode) {
	p.println(p.style("Header", fmt.Sprintf("aisetup %s: %s", mode, target.DisplayName())))
	p.println(p.style("Muted", "target root: "+target.RootDir))
	if mode == types.ModeDryRun {
		p.println(p.style("DryRunBanner", "dry run: nothing will be written"))
	}
	p.println("")
}

// Section prints a titled divider
func (p *Printer) Section(title string) {
	p.println(p.style("SubHeader", title))
}

// Success prints a positive one-liner
func (p *Printer) Success(format string, args ...interface{}) {
	p.println(p.style("Success", fmt.Sprintf(format, args...)))
}

// Info prints a neutral one-liner
func (p *Printer) Info(format string, args ...interface{}) {
	p.println(fmt.Sprintf(format, args...))
}

// Warn prints a warning one-liner
func (p *Printer) Warn(format string, args ...interface{}) {
	p.println(p.style("Warning", "warning: "+fmt.Sprintf(format, args...)))
}

// Error prints an error
func (p *Printer) Error(err error) {
	p.println(p.style("Error", "error: "+err.Error()))
}

// Reconcile prints one row per artifact, and the legacy cleanup before it
func (p *Printer) Reconcile(report *reconcile.Report) {
	if len(report.Legacy) > 0 {
		p.Section("Legacy cleanup")
		rows := [][]string{{"PATH", "ACTION", "DETAIL"}}
		for _, res := range report.Legacy {
			rows = append(rows, []string{p.style("FilePath", res.Path), p.actionLabel(res, report.Mode), p.detail(res)})
		}
		p.table(rows)
	}

	if len(report.Results) == 0 {
		p.println(p.style("Muted", "No artifacts for this target."))
		p.orphans(report)
		return
	}

	p.Section("Artifacts")
	if report.Mode == types.ModeCheck {
		rows := [][]string{{"PATH", "STATE"}}
		for _, res := range report.Results {
			rows = append(rows, []string{p.style("FilePath", res.Path), p.stateLabel(res.State)})
		}
		p.table(rows)
	} else {
		rows := [][]string{{"PATH", "STATE", "ACTION", "DETAIL"}}
		for _, res := range report.Results {
			rows = append(rows, []string{p.style("FilePath", res.Path), p.stateLabel(res.State), p.actionLabel(res, report.Mode), p.detail(res)})
		}
		p.table(rows)
	}
	p.orphans(report)

	if report.ManualCommand != "" {
		p.println("")
		p.println("Nothing was removed. To remove the installed files run:")
		p.println("  " + p.style("Command", report.ManualCommand))
	}
	p.println("")
}

func (p *Printer) orphans(report *reconcile.Report) {
	if len(report.Orphans) == 0 {
		return
	}
	p.Section("Exports without a source")
	rows := [][]string{{"PATH", "DETAIL"}}
	for _, res := range report.Orphans {
		rows = append(rows, []string{p.style("FilePath", res.Path), p.style("Muted", res.Message)})
	}
	p.table(rows)
}

func (p *Printer) stateLabel(s types.LinkState) string {
	switch s {
	case types.LinkCorrect:
		return p.style("Success", s.String())
	case types.LinkOccupied:
		return p.style("Warning", s.String())
	case types.LinkStale:
		return p.style("Info", s.String())
	default:
		return p.style("Muted", s.String())
	}
}

func (p *Printer) actionLabel(res reconcile.Result, mode types.Mode) string {
	switch {
	case res.Err != nil && res.Action == reconcile.ActionSkip:
		return p.style("Warning", "skipped")
	case res.Err != nil:
		return p.style("Error", "failed")
	case res.Action == reconcile.ActionNone || res.Action == reconcile.ActionKeep:
		return p.style("Muted", string(res.Action))
	case res.Action == reconcile.ActionManual:
		return p.style("Warning", "manual")
	case mode == types.ModeDryRun:
		return p.style("Info", "would "+string(res.Action))
	default:
		return p.style("Success", pastTense(res.Action))
	}
}

func (p *Printer) detail(res reconcile.Result) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	return res.Message
}

func pastTense(a reconcile.Action) string {
	switch a {
	case reconcile.ActionCreate:
		return "created"
	case reconcile.ActionUpdate:
		return "updated"
	case reconcile.ActionReplace:
		return "replaced"
	case reconcile.ActionRemove:
		return "removed"
	default:
		return string(a)
	}
}

// PluginFacts prints PASS or FAIL for each health fact
func (p *Printer) PluginFacts(id string, facts plugin.Facts) {
	p.Section("Plugin " + id)
	rows := [][]string{{"CHECK", "RESULT"}}
	for _, f := range facts.List() {
		result := p.style("Pass", "PASS")
		if !f.OK {
			result = p.style("Fail", "FAIL")
		}
		rows = append(rows, []string{f.Name, result})
	}
	p.table(rows)
	if facts.Healthy() {
		p.Success("plugin healthy")
	} else {
		p.println(p.style("Fail", "plugin unhealthy: "+strings.Join(facts.Failed(), ", ")))
	}
	p.println("")
}

// PluginSteps prints the steps of an install or uninstall run
func (p *Printer) PluginSteps(report plugin.Report) {
	for _, s := range report.Steps {
		line := s.Name
		if s.Message != "" {
			line += " (" + s.Message + ")"
		}
		if s.OK() {
			p.println(p.style("Success", "ok   ") + line)
		} else {
			p.println(p.style("Warning", "warn ") + line + ": " + s.Err.Error())
		}
	}
}

// Hooks prints the outcome of a settings merge, with the diff when nothing
// was written
func (p *Printer) Hooks(res hooks.Result) {
	p.Section("Hooks " + res.Path)
	switch {
	case !res.Changed:
		p.println(p.style("Muted", "up to date"))
	case res.Applied:
		p.Success("settings updated")
	default:
		p.println(p.colorDiff(res.Diff))
	}
	p.println("")
}

func (p *Printer) colorDiff(diff string) string {
	if p.format != FormatTerminal {
		return strings.TrimRight(diff, "\n")
	}
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, l := range lines {
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines[i] = p.style("SubHeader", l)
		case strings.HasPrefix(l, "+"):
			lines[i] = p.style("Success", l)
		case strings.HasPrefix(l, "-"):
			lines[i] = p.style("Error", l)
		case strings.HasPrefix(l, "@@"):
			lines[i] = p.style("Info", l)
		}
	}
	return strings.Join(lines, "\n")
}

// table renders rows with the first row as header
func (p *Printer) table(rows [][]string) {
	tp := pterm.DefaultTable.WithHasHeader().WithData(rows)
	if p.format != FormatTerminal {
		plain := pterm.NewStyle()
		tp = tp.WithStyle(plain).WithHeaderStyle(plain).WithSeparatorStyle(plain)
	}
	out, err := tp.Srender()
	if err != nil {
		for _, r := range rows {
			p.println(strings.Join(r, "  "))
		}
		return
	}
	p.println(out)
}

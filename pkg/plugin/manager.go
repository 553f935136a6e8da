package plugin

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// Step names recorded in a Report
const (
	StepOrphanCleanup  = "remove orphan markers"
	StepMarketplaceAdd = "register marketplace"
	StepInstall        = "install plugin"
	StepUninstall      = "uninstall plugin"
	StepVerify         = "verify"
)

// Step is one stage of a lifecycle run
type Step struct {
	Name    string
	Err     error
	Message string
}

// OK reports whether the step completed without error
func (s Step) OK() bool {
	return s.Err == nil
}

// Report is what a lifecycle run did and what it observed afterwards
type Report struct {
	Steps []Step
	Facts Facts
}

// Warnings returns the errors of steps that did not abort the run
func (r Report) Warnings() []error {
	var out []error
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, s.Err)
		}
	}
	return out
}

// Manager drives the plugin lifecycle through the host CLI. It holds no
// state between calls.
type Manager struct {
	host   HostCLI
	fs     types.FS
	layout Layout
	reg    Registration
}

// NewManager creates a Manager
func NewManager(host HostCLI, fsys types.FS, layout Layout, reg Registration) *Manager {
	if reg.Scope == "" {
		reg.Scope = ScopeUser
	}
	return &Manager{host: host, fs: fsys, layout: layout, reg: reg}
}

// Registration returns the plugin this manager acts on
func (m *Manager) Registration() Registration {
	return m.reg
}

// Observe reads the four health facts from the host's manifest files
func (m *Manager) Observe() Facts {
	cacheDir := m.layout.CacheDir(m.reg.Marketplace, m.reg.Plugin)

	facts := Facts{
		MarketplaceRegistered: m.fileContains(m.layout.KnownMarketplaces(), m.reg.Marketplace),
		PluginInstalled:       m.fileContains(m.layout.InstalledPlugins(), `"`+m.reg.ID()+`"`),
		NotOrphaned:           len(m.orphanMarkers(cacheDir)) == 0,
	}
	if info, err := m.fs.Stat(cacheDir); err == nil && info.IsDir() {
		facts.CacheDirExists = true
	}

	logger := logging.GetLogger("plugin")
	logger.Debug().
		Bool("marketplace_registered", facts.MarketplaceRegistered).
		Bool("plugin_installed", facts.PluginInstalled).
		Bool("not_orphaned", facts.NotOrphaned).
		Bool("cache_dir_exists", facts.CacheDirExists).
		Msg("Observed plugin facts")
	return facts
}

// Check observes the facts and returns an Unhealthy error when any fails
func (m *Manager) Check() (Facts, error) {
	facts := m.Observe()
	if !facts.Healthy() {
		return facts, errors.Newf(errors.ErrUnhealthy,
			"plugin %s is not healthy: %s", m.reg.ID(), strings.Join(facts.Failed(), ", ")).
			WithDetail("failed", facts.Failed())
	}
	return facts, nil
}

// Install converges the plugin to installed and not orphaned. A missing host
// CLI aborts before anything is touched. A failing marketplace registration
// is only a warning since the marketplace may already be known. A failing
// install falls through to verification, which decides the outcome.
func (m *Manager) Install(ctx context.Context) (Report, error) {
	logger := logging.GetLogger("plugin")
	done := logging.LogOperationStart(logger, "plugin install")
	defer done()

	var report Report
	if err := m.host.Available(); err != nil {
		return report, err
	}

	report.Steps = append(report.Steps, m.removeOrphanMarkers())

	step := Step{Name: StepMarketplaceAdd, Message: m.reg.Source}
	if err := m.host.MarketplaceAdd(ctx, m.reg.Source); err != nil {
		if errors.IsErrorCode(err, errors.ErrPrecondition) {
			return report, err
		}
		step.Err = errors.Wrap(err, errors.ErrSoftWarning, "marketplace registration failed")
		logger.Warn().Err(err).Str("source", m.reg.Source).Msg("Marketplace add failed, continuing")
	}
	report.Steps = append(report.Steps, step)

	step = Step{Name: StepInstall, Message: m.reg.ID()}
	if err := m.host.Install(ctx, m.reg.ID(), m.reg.Scope); err != nil {
		if errors.IsErrorCode(err, errors.ErrPrecondition) {
			return report, err
		}
		step.Err = err
		logger.Warn().Err(err).Str("plugin", m.reg.ID()).Msg("Plugin install failed, verifying anyway")
	}
	report.Steps = append(report.Steps, step)

	report.Facts = m.Observe()
	if !report.Facts.Healthy() {
		err := errors.Newf(errors.ErrVerification,
			"plugin %s failed verification: %s", m.reg.ID(), strings.Join(report.Facts.Failed(), ", ")).
			WithDetail("failed", report.Facts.Failed())
		report.Steps = append(report.Steps, Step{Name: StepVerify, Err: err})
		return report, err
	}
	report.Steps = append(report.Steps, Step{Name: StepVerify})
	return report, nil
}

// Uninstall asks the host to remove the plugin. Failure is a warning only;
// the marketplace registration is left alone.
func (m *Manager) Uninstall(ctx context.Context) (Report, error) {
	var report Report
	if err := m.host.Available(); err != nil {
		return report, errors.Wrap(err, errors.ErrSoftWarning, "skipping plugin uninstall")
	}

	step := Step{Name: StepUninstall, Message: m.reg.ID()}
	if err := m.host.Uninstall(ctx, m.reg.ID(), m.reg.Scope); err != nil {
		step.Err = errors.Wrap(err, errors.ErrSoftWarning, "plugin uninstall failed")
		logger := logging.GetLogger("plugin")
		logger.Warn().Err(err).Msg("Plugin uninstall failed")
	}
	report.Steps = append(report.Steps, step)
	report.Facts = m.Observe()
	return report, nil
}

func (m *Manager) removeOrphanMarkers() Step {
	step := Step{Name: StepOrphanCleanup}
	markers := m.orphanMarkers(m.layout.CacheDir(m.reg.Marketplace, m.reg.Plugin))
	for _, marker := range markers {
		if err := m.fs.Remove(marker); err != nil {
			step.Err = errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", marker)
			return step
		}
		logger := logging.GetLogger("plugin")
		logger.Info().Str("path", marker).Msg("Removed orphan marker")
	}
	if len(markers) > 0 {
		step.Message = pluralize(len(markers), "marker")
	}
	return step
}

// orphanMarkers finds every orphan marker below dir
func (m *Manager) orphanMarkers(dir string) []string {
	var found []string
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		switch {
		case e.Name() == OrphanMarker && e.Type()&fs.ModeDir == 0:
			found = append(found, p)
		case e.IsDir():
			found = append(found, m.orphanMarkers(p)...)
		}
	}
	return found
}

func (m *Manager) fileContains(path, needle string) bool {
	if needle == "" {
		return false
	}
	data, err := m.fs.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Contains(data, []byte(needle))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

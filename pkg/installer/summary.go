package installer

import (
	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/hooks"
	"github.com/arthur-debert/aisetup/pkg/plugin"
	"github.com/arthur-debert/aisetup/pkg/reconcile"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/hashicorp/go-multierror"
)

// Summary is everything one run did and observed
type Summary struct {
	Target types.InstallationTarget
	Mode   types.Mode

	Reconcile *reconcile.Report

	// PluginID is the "<plugin>@<marketplace>" identifier for plugin targets
	PluginID string

	// Plugin is set when the host CLI was driven
	Plugin *plugin.Report

	// Facts is set in check and install for plugin targets
	Facts *plugin.Facts

	// PluginErr is the unhealthy or verification error, if any
	PluginErr error

	// Hooks is set when the settings file was evaluated
	Hooks   *hooks.Result
	HookErr error

	// Warnings never affect the exit code
	Warnings []error
}

func (s *Summary) runHooks(res hooks.Result, err error) {
	s.Hooks = &res
	s.HookErr = err
}

// Healthy reports the check outcome. For plugin targets health is the
// plugin facts; for the others it is every artifact being linked.
func (s *Summary) Healthy() bool {
	if s.Target.SupportsPlugin {
		return s.Facts != nil && s.Facts.Healthy()
	}
	return s.Reconcile != nil && s.Reconcile.AllCorrect()
}

// Err aggregates every error that makes the run fail
func (s *Summary) Err() error {
	var merr *multierror.Error
	if s.Mode == types.ModeCheck {
		if !s.Healthy() {
			if s.PluginErr != nil {
				return s.PluginErr
			}
			return errors.Newf(errors.ErrUnhealthy, "%s is not fully installed", s.Target.DisplayName())
		}
		return nil
	}

	if s.Reconcile != nil {
		if err := s.Reconcile.Err(); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	if s.PluginErr != nil {
		merr = multierror.Append(merr, s.PluginErr)
	}
	if s.HookErr != nil {
		merr = multierror.Append(merr, s.HookErr)
	}
	return merr.ErrorOrNil()
}

// ExitCode is 0 when the run succeeded, or in check mode was healthy
func (s *Summary) ExitCode() int {
	if s.Err() != nil {
		return 1
	}
	return 0
}

// AllWarnings returns run warnings plus the soft plugin step failures
func (s *Summary) AllWarnings() []error {
	out := append([]error(nil), s.Warnings...)
	if s.Plugin != nil {
		out = append(out, s.Plugin.Warnings()...)
	}
	return out
}

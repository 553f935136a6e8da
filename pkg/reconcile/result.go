package reconcile

import (
	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/hashicorp/go-multierror"
)

// Action is what the reconciler did, or in dry-run would do, to one path
type Action string

const (
	ActionNone    Action = "none"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionReplace Action = "replace"
	ActionSkip    Action = "skip"
	ActionRemove  Action = "remove"
	ActionKeep    Action = "keep"
	ActionManual  Action = "manual"
)

// Result is the outcome for one artifact or legacy path
type Result struct {
	Artifact types.Artifact
	Path     string

	// State is the state observed before acting
	State  types.LinkState
	Action Action

	// Applied is false in dry-run and check, and whenever Err is set
	Applied  bool
	Rendered bool
	Message  string
	Err      error
}

// Report collects the results of one reconciliation run
type Report struct {
	Target types.InstallationTarget
	Mode   types.Mode

	// Legacy holds cleanup of paths left behind by earlier layouts
	Legacy  []Result
	Results []Result

	// Orphans are rendered files no artifact maps to. They are listed
	// for the user and never touched.
	Orphans []Result

	// ManualCommand is set when uninstall leaves removal to the user
	ManualCommand string
}

// All returns legacy results followed by artifact results
func (r *Report) All() []Result {
	all := make([]Result, 0, len(r.Legacy)+len(r.Results))
	all = append(all, r.Legacy...)
	return append(all, r.Results...)
}

// Err aggregates every fatal per-path error. Declined overwrites are not
// fatal and are reported through Declined.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, res := range r.All() {
		if errors.IsFatal(res.Err) {
			merr = multierror.Append(merr, res.Err)
		}
	}
	return merr.ErrorOrNil()
}

// Declined returns the artifacts skipped because the overwrite was refused
func (r *Report) Declined() []Result {
	var out []Result
	for _, res := range r.Results {
		if errors.IsErrorCode(res.Err, errors.ErrUserDeclined) {
			out = append(out, res)
		}
	}
	return out
}

// AllCorrect reports whether every artifact was observed already linked
func (r *Report) AllCorrect() bool {
	for _, res := range r.Results {
		if res.State != types.LinkCorrect {
			return false
		}
	}
	return true
}

// Count returns how many artifact results carry the action
func (r *Report) Count(a Action) int {
	n := 0
	for _, res := range r.Results {
		if res.Action == a {
			n++
		}
	}
	return n
}

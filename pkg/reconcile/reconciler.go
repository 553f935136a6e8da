package reconcile

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/filesystem"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/render"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a Reconciler
type Options struct {
	Confirmer Confirmer

	// SourceRoot bounds legacy cleanup: only symlinks resolving inside it
	// are removed from legacy directories
	SourceRoot string

	// Legacy lists paths from earlier layouts, relative to the target root
	Legacy map[types.TargetName][]string
}

// Reconciler converges target paths to artifacts
type Reconciler struct {
	fs      types.FS
	opts    Options
	confirm Confirmer
	logger  zerolog.Logger
}

// New creates a Reconciler
func New(fsys types.FS, opts Options) *Reconciler {
	confirm := opts.Confirmer
	if confirm == nil {
		confirm = Decline
	}
	return &Reconciler{
		fs:      fsys,
		opts:    opts,
		confirm: confirm,
		logger:  logging.GetLogger("reconcile"),
	}
}

// observation is the derived state of one target path
type observation struct {
	state types.LinkState

	// staleAncestor is a symlinked directory between the target root and
	// the path. Acting through it would write into whatever it points at.
	staleAncestor string
	want          []byte
	message       string
}

// Inspect derives the state of an artifact's target path
func (r *Reconciler) Inspect(target types.InstallationTarget, a types.Artifact) (types.LinkState, error) {
	obs, err := r.observe(target, a)
	return obs.state, err
}

func (r *Reconciler) observe(target types.InstallationTarget, a types.Artifact) (observation, error) {
	path := target.TargetPath(a)

	if anc := r.symlinkedAncestor(target.RootDir, path); anc != "" {
		return observation{state: types.LinkStale, staleAncestor: anc,
			message: "parent " + anc + " is a symlink"}, nil
	}

	var obs observation
	if target.Renders(a.Category) {
		fn, _ := render.For(a.Category)
		src, err := r.fs.ReadFile(a.SourcePath())
		if err != nil {
			return obs, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", a.SourcePath())
		}
		obs.want = fn(a, src)
	}

	info, err := r.fs.Lstat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		obs.state = types.LinkAbsent
		return obs, nil
	case err != nil:
		return obs, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if obs.want != nil {
			obs.state = types.LinkStale
			obs.message = "symlink where a rendered file belongs"
			return obs, nil
		}
		dest, err := filesystem.ResolveLink(r.fs, path)
		if err != nil {
			return obs, errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", path)
		}
		if dest == filepath.Clean(a.SourcePath()) {
			obs.state = types.LinkCorrect
			return obs, nil
		}
		obs.state = types.LinkStale
		obs.message = "points to " + dest
		return obs, nil
	}

	if obs.want != nil && info.Mode().IsRegular() {
		current, err := r.fs.ReadFile(path)
		if err != nil {
			return obs, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
		}
		if bytes.Equal(current, obs.want) {
			obs.state = types.LinkCorrect
			return obs, nil
		}
	}

	obs.state = types.LinkOccupied
	if info.IsDir() {
		obs.message = "a directory is in the way"
	} else {
		obs.message = "a file is in the way"
	}
	return obs, nil
}

// symlinkedAncestor returns the first directory strictly between root and
// path that is a symlink. The root itself may be a symlink.
func (r *Reconciler) symlinkedAncestor(root, path string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	cur := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		if filesystem.IsSymlink(r.fs, cur) {
			return cur
		}
	}
	return ""
}

// Reconcile applies mode to every artifact and returns the per-path report
func (r *Reconciler) Reconcile(target types.InstallationTarget, artifacts []types.Artifact, mode types.Mode) *Report {
	done := logging.LogOperationStart(r.logger, "reconcile "+string(target.Name)+" "+mode.String())
	defer done()

	report := &Report{Target: target, Mode: mode}
	if mode != types.ModeCheck {
		report.Legacy = r.cleanupLegacy(target, mode)
	}

	for _, a := range artifacts {
		var res Result
		switch mode {
		case types.ModeUninstall:
			res = r.uninstallOne(target, a)
		default:
			res = r.installOne(target, a, mode)
		}
		r.log(res)
		report.Results = append(report.Results, res)
	}

	if mode != types.ModeUninstall {
		report.Orphans = r.findOrphans(target, artifacts)
		for _, res := range report.Orphans {
			r.logger.Info().Str("path", res.Path).Msg("Rendered file has no source")
		}
	}

	if mode == types.ModeUninstall && manualUninstall(target) {
		report.ManualCommand = removalCommand(report.Results)
	}
	return report
}

func (r *Reconciler) installOne(target types.InstallationTarget, a types.Artifact, mode types.Mode) Result {
	path := target.TargetPath(a)
	res := Result{Artifact: a, Path: path, Rendered: target.Renders(a.Category)}

	obs, err := r.observe(target, a)
	res.State = obs.state
	res.Message = obs.message
	if err != nil {
		res.Err = err
		res.Action = ActionSkip
		return res
	}

	switch obs.state {
	case types.LinkCorrect:
		res.Action = ActionNone
		res.Message = "already linked"
		if res.Rendered {
			res.Message = "up to date"
		}
		return res
	case types.LinkAbsent:
		res.Action = ActionCreate
	case types.LinkStale:
		res.Action = ActionUpdate
	case types.LinkOccupied:
		res.Action = ActionReplace
	}

	if !mode.Writes() {
		if obs.state == types.LinkOccupied && mode == types.ModeDryRun {
			res.Message = obs.message + ", would ask before replacing"
		}
		return res
	}

	plan := filesystem.NewPlan(r.fs)
	if obs.state == types.LinkOccupied {
		ok, err := r.confirm.ConfirmOverwrite(path, a)
		if err != nil || !ok {
			declined := errors.Newf(errors.ErrUserDeclined, "kept existing %s", path).
				WithDetail("artifact", a.String())
			declined.Wrapped = err
			res.Action = ActionSkip
			res.Err = declined
			return res
		}
		plan.RemoveAll(path)
	}

	if obs.staleAncestor != "" {
		plan.Remove(obs.staleAncestor)
	} else if obs.state == types.LinkStale {
		plan.Remove(path)
	}
	plan.MkdirAll(filepath.Dir(path), 0755)

	if res.Rendered {
		if obs.want == nil {
			// observed through a stale ancestor, render now
			src, err := r.fs.ReadFile(a.SourcePath())
			if err != nil {
				res.Err = errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", a.SourcePath())
				return res
			}
			fn, _ := render.For(a.Category)
			obs.want = fn(a, src)
		}
		plan.WriteFile(path, obs.want, 0644)
	} else {
		plan.Symlink(a.SourcePath(), path)
	}

	if err := plan.Run(context.Background()); err != nil {
		res.Err = err
		return res
	}

	res.Applied = true
	return res
}

func (r *Reconciler) uninstallOne(target types.InstallationTarget, a types.Artifact) Result {
	path := target.TargetPath(a)
	res := Result{Artifact: a, Path: path, Rendered: target.Renders(a.Category), Action: ActionKeep}

	obs, err := r.observe(target, a)
	res.State = obs.state
	if err != nil {
		res.Err = err
		return res
	}

	switch {
	case obs.state == types.LinkAbsent:
		res.Action = ActionNone
		res.Message = "not installed"
		return res
	case obs.state != types.LinkCorrect:
		// stale links and occupied paths are not ours to remove
		res.Message = "not owned by aisetup"
		return res
	case manualUninstall(target):
		res.Action = ActionManual
		return res
	}

	if err := filesystem.NewPlan(r.fs).Remove(path).Run(context.Background()); err != nil {
		res.Err = err
		return res
	}
	res.Action = ActionRemove
	res.Applied = true
	return res
}

// manualUninstall is true for targets whose directories are commonly shared
// with hand-written content; nothing is deleted there automatically
func manualUninstall(target types.InstallationTarget) bool {
	return target.Name == types.TargetCursor
}

// removalCommand builds the shell command that removes every path the
// installer owns on a manual-uninstall target
func removalCommand(results []Result) string {
	var paths []string
	for _, res := range results {
		if res.Action == ActionManual {
			paths = append(paths, shellQuote(res.Path))
		}
	}
	if len(paths) == 0 {
		return ""
	}
	return "rm -rf " + strings.Join(paths, " ")
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(c rune) bool {
		return !(c == '/' || c == '.' || c == '-' || c == '_' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func (r *Reconciler) log(res Result) {
	ev := r.logger.Debug()
	if res.Err != nil {
		ev = r.logger.Warn().Err(res.Err)
	}
	ev.Str("artifact", res.Artifact.String()).
		Str("path", res.Path).
		Str("state", res.State.String()).
		Str("action", string(res.Action)).
		Bool("applied", res.Applied).
		Msg("Reconciled artifact")
}

package reconcile

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/filesystem"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// cleanupLegacy removes what earlier installer layouts left under the
// target root. A legacy path that is a symlink is removed. A legacy path
// that is a real directory is kept, and only its immediate children that
// are symlinks into the source root are removed. Nothing else is touched.
func (r *Reconciler) cleanupLegacy(target types.InstallationTarget, mode types.Mode) []Result {
	var results []Result
	for _, rel := range r.opts.Legacy[target.Name] {
		path := filepath.Join(target.RootDir, filepath.FromSlash(rel))
		if anc := r.symlinkedAncestor(target.RootDir, path); anc != "" {
			// reached through a link, possibly into the source tree itself
			continue
		}

		info, err := r.fs.Lstat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				results = append(results, Result{Path: path, Action: ActionSkip,
					Err: errors.Wrapf(err, errors.ErrFileAccess, "cannot stat legacy path %s", path)})
			}
			continue
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			results = append(results, r.removeLegacy(path, mode, "legacy symlink"))
		case info.IsDir():
			results = append(results, r.cleanupLegacyDir(path, mode)...)
		}
	}
	return results
}

func (r *Reconciler) cleanupLegacyDir(dir string, mode types.Mode) []Result {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return []Result{{Path: dir, Action: ActionSkip,
			Err: errors.Wrapf(err, errors.ErrFileAccess, "cannot read legacy directory %s", dir)}}
	}

	var results []Result
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		child := filepath.Join(dir, e.Name())
		dest, err := filesystem.ResolveLink(r.fs, child)
		if err != nil || !r.insideSource(dest) {
			continue
		}
		results = append(results, r.removeLegacy(child, mode, "legacy link into source"))
	}
	return results
}

func (r *Reconciler) removeLegacy(path string, mode types.Mode, why string) Result {
	res := Result{Path: path, State: types.LinkStale, Action: ActionRemove, Message: why}
	if !mode.Writes() {
		return res
	}
	if err := filesystem.NewPlan(r.fs).Remove(path).Run(context.Background()); err != nil {
		res.Err = err
		return res
	}
	res.Applied = true
	r.logger.Info().Str("path", path).Msg("Removed legacy path")
	return res
}

func (r *Reconciler) insideSource(path string) bool {
	if r.opts.SourceRoot == "" {
		return false
	}
	root := filepath.Clean(r.opts.SourceRoot)
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

package reconcile

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// findOrphans lists files under the target's rendered category directories
// that no artifact maps to, such as the export of a command since deleted
// from the source. They are reported and never removed: the directories may
// also hold files the user wrote by hand.
func (r *Reconciler) findOrphans(target types.InstallationTarget, artifacts []types.Artifact) []Result {
	owned := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		owned[filepath.Clean(target.TargetPath(a))] = true
	}

	var results []Result
	for _, c := range target.Rendered {
		if c.Subdir() == "" {
			continue
		}
		dir := filepath.Join(target.RootDir, c.Subdir())
		r.walkRendered(dir, func(path string) {
			if owned[path] {
				return
			}
			results = append(results, Result{
				Path:     path,
				State:    types.LinkOccupied,
				Action:   ActionKeep,
				Rendered: true,
				Message:  "no " + string(c) + " in the source exports this; remove it if it is not yours",
			})
		})
	}
	return results
}

// walkRendered calls fn for every regular, non-hidden file below dir.
// Symlinked entries are not followed.
func (r *Reconciler) walkRendered(dir string, fn func(path string)) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn().Err(err).Str("dir", dir).Msg("Cannot scan for orphaned exports")
		}
		return
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || e.Type()&fs.ModeSymlink != 0 {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			r.walkRendered(path, fn)
			continue
		}
		if e.Type().IsRegular() {
			fn(path)
		}
	}
}

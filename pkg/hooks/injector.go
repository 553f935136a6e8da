package hooks

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/filesystem"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/aymanbagabas/go-udiff"
)

// SettingsFile is Claude Code's user settings file name
const SettingsFile = "settings.json"

// Result describes one injector run
type Result struct {
	Path    string
	Changed bool
	Applied bool

	// Diff is the unified diff from the current file to the merged one
	Diff string
}

// Injector merges the managed hooks into a settings file
type Injector struct {
	fs       types.FS
	settings string
	script   string
	specs    []Spec
}

// NewInjector creates an Injector for settingsPath. script is the hook
// script the commands run; it must exist before anything is written.
func NewInjector(fsys types.FS, settingsPath, script string, specs []Spec) *Injector {
	return &Injector{fs: fsys, settings: settingsPath, script: script, specs: specs}
}

// Path returns the settings file the injector edits
func (i *Injector) Path() string {
	return i.settings
}

// Apply merges the hooks. Install writes the file atomically; dry-run and
// check only compute the diff. A malformed settings file is an error and
// is left untouched.
func (i *Injector) Apply(mode types.Mode) (Result, error) {
	logger := logging.GetLogger("hooks")
	res := Result{Path: i.settings}

	if _, err := i.fs.Stat(i.script); err != nil {
		return res, errors.Wrapf(err, errors.ErrPrecondition, "hook script %s not found", i.script)
	}

	current, perm, err := i.read()
	if err != nil {
		return res, err
	}

	merged, err := MergeHooks(current, i.specs)
	if err != nil {
		logger.Error().Err(err).Str("path", i.settings).Msg("Refusing to edit settings")
		return res, errors.Wrapf(err, errors.ErrHookMalformed, "cannot merge hooks into %s; fix or remove it and re-run", i.settings).
			WithDetail("path", i.settings)
	}
	return i.finish(res, current, merged, perm, mode)
}

// Remove takes the managed hooks back out, if they are still unchanged
func (i *Injector) Remove(mode types.Mode) (Result, error) {
	res := Result{Path: i.settings}

	current, perm, err := i.read()
	if err != nil || current == nil {
		return res, err
	}

	out, changed, err := UnmergeHooks(current, i.specs)
	if err != nil {
		return res, errors.Wrapf(err, errors.ErrHookMalformed, "cannot remove hooks from %s", i.settings)
	}
	if !changed {
		return res, nil
	}
	return i.finish(res, current, out, perm, mode)
}

func (i *Injector) finish(res Result, current, next []byte, perm fs.FileMode, mode types.Mode) (Result, error) {
	if bytes.Equal(current, next) {
		return res, nil
	}
	res.Changed = true
	res.Diff = udiff.Unified(i.settings, i.settings, string(current), string(next))

	if !mode.Writes() {
		return res, nil
	}

	// a symlinked settings file is written through, keeping the link
	path := i.settings
	if filesystem.IsSymlink(i.fs, path) {
		dest, err := filesystem.ResolveLink(i.fs, path)
		if err != nil {
			return res, errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", path)
		}
		path = dest
	}

	plan := filesystem.NewPlan(i.fs).
		MkdirAll(filepath.Dir(path), 0755).
		WriteFile(path, next, perm)
	if err := plan.Run(context.Background()); err != nil {
		return res, err
	}
	res.Applied = true
	logger := logging.GetLogger("hooks")
	logger.Info().Str("path", i.settings).Msg("Settings updated")
	return res, nil
}

// read returns the settings content, or nil when the file does not exist
func (i *Injector) read() ([]byte, fs.FileMode, error) {
	perm := fs.FileMode(0644)
	info, err := i.fs.Stat(i.settings)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, perm, nil
		}
		return nil, perm, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", i.settings)
	}
	perm = info.Mode().Perm()

	data, err := i.fs.ReadFile(i.settings)
	if err != nil {
		return nil, perm, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", i.settings)
	}
	return data, perm, nil
}

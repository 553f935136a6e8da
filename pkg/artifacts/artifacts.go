// Package artifacts enumerates installable artifacts from the source
// repository. Nothing is cached: every call re-reads the filesystem and
// returns artifacts sorted by relative path so output is stable and diffable.
package artifacts

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/logging"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
)

// referencesDir holds satellite files of rules. They are not reachable once
// a rule is installed into the always-loaded location, so they are never
// installed.
const referencesDir = "references"

// Options configures a Source
type Options struct {
	// Root is the absolute path of the artifact repository
	Root string

	// PersonalDir holds personal config files, relative to Root
	PersonalDir string

	// Personal lists personal config file names per target
	Personal map[types.TargetName][]string

	// HookScript is the hook script path relative to Root
	HookScript string

	// Exclude holds doublestar patterns matched against slash paths
	// relative to Root
	Exclude []string
}

// Source enumerates artifacts of one repository
type Source struct {
	fs   types.FS
	opts Options
}

// New creates a Source over the given filesystem
func New(fsys types.FS, opts Options) *Source {
	return &Source{fs: fsys, opts: opts}
}

// Root returns the repository root
func (s *Source) Root() string {
	return s.opts.Root
}

// HookScriptPath returns the absolute path of the hook script
func (s *Source) HookScriptPath() string {
	return filepath.Join(s.opts.Root, s.opts.HookScript)
}

// ListAll returns the artifacts of every category the target accepts,
// grouped by category in reconciliation order
func (s *Source) ListAll(target types.InstallationTarget) ([]types.Artifact, error) {
	var all []types.Artifact
	for _, c := range types.AllCategories {
		if !target.Supports(c) {
			continue
		}
		list, err := s.List(c, target)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	return all, nil
}

// List returns the artifacts of one category valid for the target
func (s *Source) List(category types.Category, target types.InstallationTarget) ([]types.Artifact, error) {
	logger := logging.GetLogger("artifacts")

	var (
		list []types.Artifact
		err  error
	)
	switch category {
	case types.CategorySkill:
		list, err = s.listSkills()
	case types.CategoryRule:
		list, err = s.listRules()
	case types.CategoryCommand:
		list, err = s.listCommands()
	case types.CategoryPersonalConfig:
		list = s.listPersonal(target.Name)
	case types.CategoryHookScript:
		list = s.listHookScript()
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown artifact category %q", category)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool { return list[i].RelPath < list[j].RelPath })

	logger.Debug().
		Str("category", string(category)).
		Str("target", string(target.Name)).
		Int("count", len(list)).
		Msg("Artifacts enumerated")
	return list, nil
}

// listSkills returns each top-level directory under skills/ as one unit.
// Skills resolve relative references from their own root, so they are
// always linked whole.
func (s *Source) listSkills() ([]types.Artifact, error) {
	dir := filepath.Join(s.opts.Root, types.CategorySkill.Subdir())
	entries, err := s.readDirIfExists(dir)
	if err != nil {
		return nil, err
	}

	var list []types.Artifact
	for _, e := range entries {
		if !e.IsDir() || hidden(e.Name()) {
			continue
		}
		if s.excluded(path.Join("skills", e.Name())) {
			continue
		}
		list = append(list, types.Artifact{RelPath: e.Name(), Category: types.CategorySkill, SourceRoot: dir})
	}
	return list, nil
}

// listRules returns every rule file, recursively, skipping references/ subtrees
func (s *Source) listRules() ([]types.Artifact, error) {
	dir := filepath.Join(s.opts.Root, types.CategoryRule.Subdir())
	var list []types.Artifact
	err := s.walkFiles(dir, "", func(rel string) {
		if isUnderReferences(rel) || s.excluded(path.Join("rules", rel)) {
			return
		}
		list = append(list, types.Artifact{RelPath: filepath.FromSlash(rel), Category: types.CategoryRule, SourceRoot: dir})
	})
	return list, err
}

// listCommands returns commands/*.md (not recursive)
func (s *Source) listCommands() ([]types.Artifact, error) {
	dir := filepath.Join(s.opts.Root, types.CategoryCommand.Subdir())
	entries, err := s.readDirIfExists(dir)
	if err != nil {
		return nil, err
	}

	var list []types.Artifact
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || hidden(name) || !strings.HasSuffix(name, ".md") || isReadme(name) {
			continue
		}
		if s.excluded(path.Join("commands", name)) {
			continue
		}
		list = append(list, types.Artifact{RelPath: name, Category: types.CategoryCommand, SourceRoot: dir})
	}
	return list, nil
}

func (s *Source) listPersonal(target types.TargetName) []types.Artifact {
	logger := logging.GetLogger("artifacts")
	dir := filepath.Join(s.opts.Root, s.opts.PersonalDir)

	var list []types.Artifact
	for _, name := range s.opts.Personal[target] {
		if isReadme(name) {
			continue
		}
		if _, err := s.fs.Stat(filepath.Join(dir, name)); err != nil {
			logger.Debug().Str("file", name).Str("dir", dir).Msg("Personal config file not present, skipping")
			continue
		}
		list = append(list, types.Artifact{RelPath: name, Category: types.CategoryPersonalConfig, SourceRoot: dir})
	}
	return list
}

func (s *Source) listHookScript() []types.Artifact {
	if s.opts.HookScript == "" {
		return nil
	}
	if _, err := s.fs.Stat(s.HookScriptPath()); err != nil {
		return nil
	}
	return []types.Artifact{{
		RelPath:    filepath.FromSlash(s.opts.HookScript),
		Category:   types.CategoryHookScript,
		SourceRoot: s.opts.Root,
	}}
}

// walkFiles calls fn with the slash path (relative to base) of every
// non-hidden, non-README regular file under dir
func (s *Source) walkFiles(dir, rel string, fn func(rel string)) error {
	entries, err := s.readDirIfExists(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if hidden(name) {
			continue
		}
		child := path.Join(rel, name)
		if e.IsDir() {
			if err := s.walkFiles(dir, child, fn); err != nil {
				return err
			}
			continue
		}
		if isReadme(name) || !(e.Type().IsRegular() || e.Type()&fs.ModeSymlink != 0) {
			continue
		}
		fn(child)
	}
	return nil
}

func (s *Source) readDirIfExists(dir string) ([]fs.DirEntry, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", dir)
	}
	return entries, nil
}

func (s *Source) excluded(rel string) bool {
	for _, pattern := range s.opts.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func isUnderReferences(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == referencesDir {
			return true
		}
	}
	return false
}

func isReadme(name string) bool {
	return strings.EqualFold(name, "README.md")
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

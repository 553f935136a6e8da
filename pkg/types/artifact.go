package types

import (
	"path/filepath"
)

// Category is the kind of installable artifact
type Category string

const (
	CategorySkill          Category = "skill"
	CategoryRule           Category = "rule"
	CategoryCommand        Category = "command"
	CategoryPersonalConfig Category = "personal_config"
	CategoryHookScript     Category = "hook_script"
)

// AllCategories lists the linked categories in the order they are
// reconciled. The hook script is never linked; it is listed on request as
// the hook injector's precondition.
var AllCategories = []Category{
	CategoryPersonalConfig,
	CategoryRule,
	CategorySkill,
	CategoryCommand,
}

// Subdir returns the directory name the category occupies both in the
// source repository and under a target root. Personal config files and the
// hook script live at the top of their roots.
func (c Category) Subdir() string {
	switch c {
	case CategorySkill:
		return "skills"
	case CategoryRule:
		return "rules"
	case CategoryCommand:
		return "commands"
	default:
		return ""
	}
}

// Artifact is one installable unit: a file, or a whole directory for skills.
// Artifacts are enumerated from the source tree on every run and never cached.
type Artifact struct {
	// RelPath is relative to SourceRoot and is also the path under the
	// category's directory on the target
	RelPath    string
	Category   Category
	SourceRoot string
}

// SourcePath is the absolute path of the artifact in the source tree
func (a Artifact) SourcePath() string {
	return filepath.Join(a.SourceRoot, a.RelPath)
}

// String returns a short display name such as "rule:swe/coding-style.md"
func (a Artifact) String() string {
	return string(a.Category) + ":" + filepath.ToSlash(a.RelPath)
}

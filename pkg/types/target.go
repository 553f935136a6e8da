package types

import (
	"path/filepath"
	"slices"
)

// TargetName identifies an installation target
type TargetName string

const (
	TargetClaudeCode    TargetName = "claude_code"
	TargetClaudeDesktop TargetName = "claude_desktop"
	TargetCursor        TargetName = "cursor"
)

// InstallationTarget is a named deployment profile with its own root
// directory and the artifact categories it accepts.
type InstallationTarget struct {
	Name           TargetName
	RootDir        string
	SupportsPlugin bool
	Categories     []Category

	// Rendered lists categories that are written as generated files
	// instead of symlinks on this target
	Rendered []Category

	// ProjectPath is set for Cursor per-project installs only
	ProjectPath string
}

// Supports reports whether the target accepts artifacts of the category
func (t InstallationTarget) Supports(c Category) bool {
	return slices.Contains(t.Categories, c)
}

// Renders reports whether artifacts of the category are materialized as
// files on this target
func (t InstallationTarget) Renders(c Category) bool {
	return slices.Contains(t.Rendered, c)
}

// TargetPath maps an artifact to its single path under the target root.
// The mapping is purely path-based; nothing is renamed.
func (t InstallationTarget) TargetPath(a Artifact) string {
	return filepath.Join(t.RootDir, a.Category.Subdir(), a.RelPath)
}

// DisplayName returns the human readable target name
func (t InstallationTarget) DisplayName() string {
	switch t.Name {
	case TargetClaudeCode:
		return "Claude Code"
	case TargetClaudeDesktop:
		return "Claude Desktop"
	case TargetCursor:
		if t.ProjectPath != "" {
			return "Cursor (project " + t.ProjectPath + ")"
		}
		return "Cursor"
	default:
		return string(t.Name)
	}
}

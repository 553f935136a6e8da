package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeFromFlags(t *testing.T) {
	tests := []struct {
		name                     string
		check, dryRun, uninstall bool
		mode                     Mode
		conflict                 bool
	}{
		{"none", false, false, false, ModeInstall, false},
		{"check", true, false, false, ModeCheck, false},
		{"dry-run", false, true, false, ModeDryRun, false},
		{"uninstall", false, false, true, ModeUninstall, false},
		{"check beats dry-run", true, true, false, ModeCheck, true},
		{"dry-run beats uninstall", false, true, true, ModeDryRun, true},
		{"all three", true, true, true, ModeCheck, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, conflict := ModeFromFlags(tt.check, tt.dryRun, tt.uninstall)
			assert.Equal(t, tt.mode, mode)
			assert.Equal(t, tt.conflict, conflict)
		})
	}
}

func TestModeWrites(t *testing.T) {
	assert.True(t, ModeInstall.Writes())
	assert.True(t, ModeUninstall.Writes())
	assert.False(t, ModeDryRun.Writes())
	assert.False(t, ModeCheck.Writes())
	assert.Equal(t, "dry-run", ModeDryRun.String())
	assert.Equal(t, "mode(9)", Mode(9).String())
}

func TestTargetPath(t *testing.T) {
	target := InstallationTarget{
		Name:       TargetCursor,
		RootDir:    "/p/.cursor",
		Categories: []Category{CategoryRule, CategorySkill, CategoryPersonalConfig},
		Rendered:   []Category{CategoryRule},
	}

	tests := []struct {
		artifact Artifact
		want     string
	}{
		{Artifact{RelPath: "swe/coding-style.md", Category: CategoryRule, SourceRoot: "/src/rules"}, "/p/.cursor/rules/swe/coding-style.md"},
		{Artifact{RelPath: "review", Category: CategorySkill, SourceRoot: "/src/skills"}, "/p/.cursor/skills/review"},
		{Artifact{RelPath: "mcp.json", Category: CategoryPersonalConfig, SourceRoot: "/src/personal"}, "/p/.cursor/mcp.json"},
	}
	for _, tt := range tests {
		t.Run(tt.artifact.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, target.TargetPath(tt.artifact))
		})
	}

	assert.True(t, target.Supports(CategorySkill))
	assert.False(t, target.Supports(CategoryCommand))
	assert.True(t, target.Renders(CategoryRule))
	assert.False(t, target.Renders(CategorySkill))
}

func TestArtifactSourcePath(t *testing.T) {
	a := Artifact{RelPath: "swe/coding-style.md", Category: CategoryRule, SourceRoot: "/src/rules"}
	assert.Equal(t, "/src/rules/swe/coding-style.md", a.SourcePath())
	assert.Equal(t, "rule:swe/coding-style.md", a.String())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Claude Code", InstallationTarget{Name: TargetClaudeCode}.DisplayName())
	assert.Equal(t, "Cursor", InstallationTarget{Name: TargetCursor}.DisplayName())
	assert.Equal(t, "Cursor (project /p)", InstallationTarget{Name: TargetCursor, ProjectPath: "/p"}.DisplayName())
}

func TestLinkStateString(t *testing.T) {
	assert.Equal(t, "absent", LinkAbsent.String())
	assert.Equal(t, "linked", LinkCorrect.String())
	assert.Equal(t, "stale", LinkStale.String())
	assert.Equal(t, "occupied", LinkOccupied.String())
}

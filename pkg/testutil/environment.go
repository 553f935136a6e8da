package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/filesystem"
	"github.com/arthur-debert/aisetup/pkg/paths"
	"github.com/arthur-debert/aisetup/pkg/types"
)

// TestEnvironment is an isolated installer world: a HOME, a source
// repository and a Cursor project directory, all under one temp directory
type TestEnvironment struct {
	SourceRoot string
	HomeDir    string
	ProjectDir string
	StateDir   string

	FS       types.FS
	Resolver *paths.Resolver

	t *testing.T
}

// NewTestEnvironment creates the directories and points HOME and the XDG
// variables at them for the duration of the test
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	// macOS temp dirs live behind a /var -> /private/var symlink; resolve it
	// so symlink destinations compare equal
	if resolved, err := filepath.EvalSymlinks(tempDir); err == nil {
		tempDir = resolved
	}

	env := &TestEnvironment{
		SourceRoot: filepath.Join(tempDir, "source"),
		HomeDir:    filepath.Join(tempDir, "home"),
		ProjectDir: filepath.Join(tempDir, "project"),
		StateDir:   filepath.Join(tempDir, "state"),
		FS:         filesystem.NewOS(),
		t:          t,
	}
	for _, dir := range []string{env.SourceRoot, env.HomeDir, env.ProjectDir, env.StateDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.HomeDir, ".config"))
	t.Setenv("XDG_STATE_HOME", env.StateDir)

	env.Resolver = &paths.Resolver{Home: env.HomeDir, OS: paths.OSLinux}
	return env
}

// WithSource writes tree into the source repository
func (env *TestEnvironment) WithSource(tree FileTree) *TestEnvironment {
	env.t.Helper()
	WriteTree(env.t, env.SourceRoot, tree)
	return env
}

// Target resolves a target against the environment's HOME
func (env *TestEnvironment) Target(name types.TargetName, projectPath string) types.InstallationTarget {
	env.t.Helper()

	target, err := env.Resolver.Resolve(name, projectPath)
	if err != nil {
		env.t.Fatalf("Failed to resolve target %s: %v", name, err)
	}
	return target
}

// ClaudeDir is ~/.claude inside the environment
func (env *TestEnvironment) ClaudeDir() string {
	return paths.ClaudeCodeDir(env.HomeDir)
}

// SampleSource is a small but complete artifact repository
func SampleSource() FileTree {
	return FileTree{
		"README.md":                            "# assets\n",
		"rules/README.md":                      "# rules\n",
		"rules/swe/coding-style.md":            "---\ndescription: old\n---\n\nWrite small functions.\n",
		"rules/swe/references/long-example.md": "example\n",
		"rules/writing/plain-language.md":      "Use short words.\n",
		"skills/review/SKILL.md":               "---\nname: review\n---\n\nReview code.\n",
		"skills/release/SKILL.md":              "---\nname: release\n---\n\nCut a release.\n",
		"commands/README.md":                   "# commands\n",
		"commands/commit.md":                   "---\ndescription: Create a commit\nargument-hint: \"[message]\"\n---\n\nCommit staged work.\n",
		"personal/CLAUDE.md":                   "# me\n",
		"personal/settings.local.json":         "{}\n",
		"personal/mcp.json":                    "{\"mcpServers\": {}}\n",
		".claude-plugin/marketplace.json":      `{"name": "ai-assets", "plugins": [{"name": "ai-assets", "source": "./"}]}` + "\n",
		".claude-plugin/hooks/send_event.py":   "#!/usr/bin/env python3\n",
	}
}

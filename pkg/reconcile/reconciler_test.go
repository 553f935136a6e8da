package reconcile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/artifacts"
	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/reconcile"
	"github.com/arthur-debert/aisetup/pkg/testutil"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	env    *testutil.TestEnvironment
	target types.InstallationTarget
	list   []types.Artifact
}

func setup(t *testing.T, name types.TargetName, projectPath string) *fixture {
	t.Helper()
	env := testutil.NewTestEnvironment(t).WithSource(testutil.SampleSource())
	if projectPath == "project" {
		projectPath = env.ProjectDir
	}
	target := env.Target(name, projectPath)

	src := artifacts.New(env.FS, artifacts.Options{
		Root:        env.SourceRoot,
		PersonalDir: "personal",
		Personal: map[types.TargetName][]string{
			types.TargetClaudeCode: {"CLAUDE.md", "settings.local.json"},
			types.TargetCursor:     {"mcp.json"},
		},
	})
	list, err := src.ListAll(target)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	return &fixture{env: env, target: target, list: list}
}

func (f *fixture) reconciler(c reconcile.Confirmer) *reconcile.Reconciler {
	return reconcile.New(f.env.FS, reconcile.Options{
		Confirmer:  c,
		SourceRoot: f.env.SourceRoot,
		Legacy: map[types.TargetName][]string{
			types.TargetClaudeCode: {"skills", "commands", "rules/references"},
		},
	})
}

func (f *fixture) artifact(t *testing.T, rel string) types.Artifact {
	t.Helper()
	for _, a := range f.list {
		if filepath.ToSlash(a.RelPath) == rel {
			return a
		}
	}
	t.Fatalf("no artifact %s", rel)
	return types.Artifact{}
}

func mustNotAsk(t *testing.T) reconcile.Confirmer {
	return reconcile.ConfirmerFunc(func(path string, _ types.Artifact) (bool, error) {
		t.Errorf("unexpected confirmation for %s", path)
		return false, nil
	})
}

func answer(yes bool, asked *[]string) reconcile.Confirmer {
	return reconcile.ConfirmerFunc(func(path string, _ types.Artifact) (bool, error) {
		*asked = append(*asked, path)
		return yes, nil
	})
}

func TestInstall_CreatesRuleSymlink(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	target := filepath.Join(f.env.ClaudeDir(), "rules", "swe", "coding-style.md")
	testutil.AssertNoFile(t, target)

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeInstall)
	require.NoError(t, report.Err())

	testutil.AssertSymlink(t, target, filepath.Join(f.env.SourceRoot, "rules", "swe", "coding-style.md"))
	testutil.AssertNoFile(t, filepath.Join(f.env.ClaudeDir(), "rules", "swe", "references"))
	testutil.AssertNoFile(t, filepath.Join(f.env.ClaudeDir(), "rules", "README.md"))
	testutil.AssertSymlink(t, filepath.Join(f.env.ClaudeDir(), "CLAUDE.md"),
		filepath.Join(f.env.SourceRoot, "personal", "CLAUDE.md"))
	assert.Equal(t, len(f.list), report.Count(reconcile.ActionCreate))
}

func TestInstall_Idempotent(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	r := f.reconciler(mustNotAsk(t))

	require.NoError(t, r.Reconcile(f.target, f.list, types.ModeInstall).Err())
	digest := testutil.TreeDigest(t, f.env.HomeDir)

	second := r.Reconcile(f.target, f.list, types.ModeInstall)
	require.NoError(t, second.Err())
	assert.Equal(t, len(f.list), second.Count(reconcile.ActionNone))
	assert.True(t, second.AllCorrect())
	assert.Equal(t, digest, testutil.TreeDigest(t, f.env.HomeDir))
}

func TestInstall_ReplacesStaleLinksWithoutAsking(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	a := f.artifact(t, "swe/coding-style.md")
	path := f.target.TargetPath(a)

	testutil.CreateSymlink(t, filepath.Join(f.env.HomeDir, "gone.md"), path)
	state, err := f.reconciler(nil).Inspect(f.target, a)
	require.NoError(t, err)
	assert.Equal(t, types.LinkStale, state)

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeInstall)
	require.NoError(t, report.Err())
	testutil.AssertSymlink(t, path, a.SourcePath())
}

func TestInstall_OccupiedRequiresConfirmation(t *testing.T) {
	t.Run("declined keeps the file and continues", func(t *testing.T) {
		f := setup(t, types.TargetClaudeCode, "")
		a := f.artifact(t, "swe/coding-style.md")
		path := testutil.CreateFile(t, filepath.Dir(f.target.TargetPath(a)), "coding-style.md", "mine\n")

		var asked []string
		report := f.reconciler(answer(false, &asked)).Reconcile(f.target, f.list, types.ModeInstall)

		assert.Equal(t, []string{path}, asked)
		assert.Equal(t, "mine\n", testutil.ReadFile(t, path))
		require.Len(t, report.Declined(), 1)
		assert.True(t, errors.IsErrorCode(report.Declined()[0].Err, errors.ErrUserDeclined))
		assert.NoError(t, report.Err(), "a refusal is not a failure")
		testutil.AssertSymlink(t, f.target.TargetPath(f.artifact(t, "writing/plain-language.md")),
			f.artifact(t, "writing/plain-language.md").SourcePath())
	})

	t.Run("accepted replaces the file", func(t *testing.T) {
		f := setup(t, types.TargetClaudeCode, "")
		a := f.artifact(t, "swe/coding-style.md")
		testutil.CreateFile(t, filepath.Dir(f.target.TargetPath(a)), "coding-style.md", "mine\n")

		var asked []string
		report := f.reconciler(answer(true, &asked)).Reconcile(f.target, f.list, types.ModeInstall)
		require.NoError(t, report.Err())
		assert.Len(t, asked, 1)
		assert.Equal(t, 1, report.Count(reconcile.ActionReplace))
		testutil.AssertSymlink(t, f.target.TargetPath(a), a.SourcePath())
	})

	t.Run("no confirmer declines", func(t *testing.T) {
		f := setup(t, types.TargetClaudeCode, "")
		a := f.artifact(t, "swe/coding-style.md")
		path := testutil.CreateFile(t, filepath.Dir(f.target.TargetPath(a)), "coding-style.md", "mine\n")

		report := f.reconciler(nil).Reconcile(f.target, f.list, types.ModeInstall)
		assert.Len(t, report.Declined(), 1)
		assert.Equal(t, "mine\n", testutil.ReadFile(t, path))
	})
}

func TestDryRun_WritesNothing(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	a := f.artifact(t, "swe/coding-style.md")
	testutil.CreateFile(t, filepath.Dir(f.target.TargetPath(a)), "coding-style.md", "mine\n")
	testutil.CreateSymlink(t, filepath.Join(f.env.SourceRoot, "skills"), filepath.Join(f.env.ClaudeDir(), "skills"))
	before := testutil.TreeDigest(t, f.env.HomeDir)

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeDryRun)

	assert.Equal(t, before, testutil.TreeDigest(t, f.env.HomeDir))
	require.Len(t, report.Legacy, 1)
	assert.False(t, report.Legacy[0].Applied)
	for _, res := range report.Results {
		assert.False(t, res.Applied, res.Path)
	}
	assert.Equal(t, 1, report.Count(reconcile.ActionReplace))
	assert.Equal(t, len(f.list)-1, report.Count(reconcile.ActionCreate))
}

func TestCheck_ReportsStatesOnly(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	r := f.reconciler(mustNotAsk(t))
	before := testutil.TreeDigest(t, f.env.HomeDir)

	report := r.Reconcile(f.target, f.list, types.ModeCheck)
	assert.False(t, report.AllCorrect())
	assert.Empty(t, report.Legacy)
	assert.Equal(t, before, testutil.TreeDigest(t, f.env.HomeDir))

	require.NoError(t, r.Reconcile(f.target, f.list, types.ModeInstall).Err())
	assert.True(t, r.Reconcile(f.target, f.list, types.ModeCheck).AllCorrect())
}

func TestInstall_BatchContinuesPastErrors(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	// a file where the swe/ directory should be
	testutil.CreateFile(t, filepath.Join(f.env.ClaudeDir(), "rules"), "swe", "not a dir")

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeInstall)
	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coding-style.md")

	plain := f.artifact(t, "writing/plain-language.md")
	testutil.AssertSymlink(t, f.target.TargetPath(plain), plain.SourcePath())
}

func TestInstall_SymlinkedParentIsReplaced(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	// an older layout linked the whole rules tree
	rulesLink := filepath.Join(f.env.ClaudeDir(), "rules")
	testutil.CreateSymlink(t, filepath.Join(f.env.SourceRoot, "rules"), rulesLink)
	srcBefore := testutil.TreeDigest(t, f.env.SourceRoot)

	a := f.artifact(t, "swe/coding-style.md")
	state, err := f.reconciler(nil).Inspect(f.target, a)
	require.NoError(t, err)
	assert.Equal(t, types.LinkStale, state)

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeInstall)
	require.NoError(t, report.Err())
	assert.False(t, testutil.SymlinkExists(t, rulesLink))
	testutil.AssertSymlink(t, f.target.TargetPath(a), a.SourcePath())
	assert.Equal(t, srcBefore, testutil.TreeDigest(t, f.env.SourceRoot), "source tree must be untouched")
}

func TestLegacyCleanup(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	claude := f.env.ClaudeDir()
	elsewhere := testutil.CreateFile(t, f.env.HomeDir, "elsewhere/cmd.md", "x")

	// skills: legacy symlink, removed
	testutil.CreateSymlink(t, filepath.Join(f.env.SourceRoot, "skills"), filepath.Join(claude, "skills"))
	// commands: real dir, only child links into the source are removed
	testutil.CreateSymlink(t, filepath.Join(f.env.SourceRoot, "commands", "commit.md"), filepath.Join(claude, "commands", "commit.md"))
	testutil.CreateSymlink(t, elsewhere, filepath.Join(claude, "commands", "other.md"))
	testutil.CreateFile(t, filepath.Join(claude, "commands"), "mine.md", "keep")

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeInstall)
	require.NoError(t, report.Err())

	testutil.AssertNoFile(t, filepath.Join(claude, "skills"))
	testutil.AssertNoFile(t, filepath.Join(claude, "commands", "commit.md"))
	testutil.AssertSymlink(t, filepath.Join(claude, "commands", "other.md"), elsewhere)
	assert.FileExists(t, filepath.Join(claude, "commands", "mine.md"))
	assert.Len(t, report.Legacy, 2)
	assert.DirExists(t, filepath.Join(f.env.SourceRoot, "skills"), "link removal never follows the link")
}

func TestUninstall_RemovesOnlyOwnedLinks(t *testing.T) {
	f := setup(t, types.TargetClaudeCode, "")
	r := f.reconciler(mustNotAsk(t))
	require.NoError(t, r.Reconcile(f.target, f.list, types.ModeInstall).Err())

	stale := f.artifact(t, "writing/plain-language.md")
	require.NoError(t, os.Remove(f.target.TargetPath(stale)))
	other := testutil.CreateFile(t, f.env.HomeDir, "other.md", "x")
	testutil.CreateSymlink(t, other, f.target.TargetPath(stale))

	report := r.Reconcile(f.target, f.list, types.ModeUninstall)
	require.NoError(t, report.Err())

	rule := f.artifact(t, "swe/coding-style.md")
	testutil.AssertNoFile(t, f.target.TargetPath(rule))
	testutil.AssertSymlink(t, f.target.TargetPath(stale), other)
	assert.FileExists(t, rule.SourcePath())
	assert.Empty(t, report.ManualCommand)
}

func TestCursor_RendersRulesAndCommands(t *testing.T) {
	f := setup(t, types.TargetCursor, "project")
	r := f.reconciler(mustNotAsk(t))

	report := r.Reconcile(f.target, f.list, types.ModeInstall)
	require.NoError(t, report.Err())

	cursor := filepath.Join(f.env.ProjectDir, ".cursor")
	rule := filepath.Join(cursor, "rules", "swe", "coding-style.md")
	assert.False(t, testutil.SymlinkExists(t, rule))
	assert.Equal(t,
		"---\ndescription: \"Swe Coding Style\"\nalwaysApply: false\n---\n\nWrite small functions.\n",
		testutil.ReadFile(t, rule))
	assert.Equal(t,
		"**Description:** Create a commit\n**Arguments:** [message]\n---\nCommit staged work.\n",
		testutil.ReadFile(t, filepath.Join(cursor, "commands", "commit.md")))
	testutil.AssertSymlink(t, filepath.Join(cursor, "skills", "review"), filepath.Join(f.env.SourceRoot, "skills", "review"))
	testutil.AssertSymlink(t, filepath.Join(cursor, "mcp.json"), filepath.Join(f.env.SourceRoot, "personal", "mcp.json"))

	second := r.Reconcile(f.target, f.list, types.ModeInstall)
	assert.True(t, second.AllCorrect())

	// a hand edit makes the rendered file occupied
	require.NoError(t, os.WriteFile(rule, []byte("edited"), 0644))
	var asked []string
	third := f.reconciler(answer(false, &asked)).Reconcile(f.target, f.list, types.ModeInstall)
	assert.Equal(t, []string{rule}, asked)
	assert.Len(t, third.Declined(), 1)
}

func TestCursor_UninstallOnlyPrintsCommand(t *testing.T) {
	f := setup(t, types.TargetCursor, "project")
	r := f.reconciler(mustNotAsk(t))
	require.NoError(t, r.Reconcile(f.target, f.list, types.ModeInstall).Err())
	before := testutil.TreeDigest(t, f.env.ProjectDir)

	report := r.Reconcile(f.target, f.list, types.ModeUninstall)
	require.NoError(t, report.Err())

	assert.Equal(t, before, testutil.TreeDigest(t, f.env.ProjectDir))
	assert.Equal(t, len(f.list), report.Count(reconcile.ActionManual))
	assert.True(t, strings.HasPrefix(report.ManualCommand, "rm -rf "))
	assert.Contains(t, report.ManualCommand, filepath.Join(f.env.ProjectDir, ".cursor", "skills", "review"))
	assert.Contains(t, report.ManualCommand, filepath.Join(f.env.ProjectDir, ".cursor", "mcp.json"))
}

func TestCursor_DryRunOnEmptyProject(t *testing.T) {
	f := setup(t, types.TargetCursor, "project")

	report := f.reconciler(mustNotAsk(t)).Reconcile(f.target, f.list, types.ModeDryRun)
	require.NoError(t, report.Err())

	testutil.AssertNoFile(t, filepath.Join(f.env.ProjectDir, ".cursor"))
	var planned []string
	for _, res := range report.Results {
		assert.Equal(t, reconcile.ActionCreate, res.Action)
		planned = append(planned, res.Path)
	}
	cursor := filepath.Join(f.env.ProjectDir, ".cursor")
	assert.Contains(t, planned, filepath.Join(cursor, "mcp.json"))
	assert.Contains(t, planned, filepath.Join(cursor, "rules", "swe", "coding-style.md"))
	assert.Contains(t, planned, filepath.Join(cursor, "skills", "review"))
	assert.Contains(t, planned, filepath.Join(cursor, "commands", "commit.md"))
}

func TestCursor_ListsExportsWithoutSource(t *testing.T) {
	f := setup(t, types.TargetCursor, "project")
	r := f.reconciler(mustNotAsk(t))
	require.NoError(t, r.Reconcile(f.target, f.list, types.ModeInstall).Err())

	commands := filepath.Join(f.env.ProjectDir, ".cursor", "commands")
	exported := filepath.Join(commands, "commit.md")
	handWritten := testutil.CreateFile(t, commands, "notes/mine.md", "my notes")

	// the command was deleted from the source
	var remaining []types.Artifact
	for _, a := range f.list {
		if a.Category != types.CategoryCommand || filepath.ToSlash(a.RelPath) != "commit.md" {
			remaining = append(remaining, a)
		}
	}
	require.Len(t, remaining, len(f.list)-1)

	for _, mode := range []types.Mode{types.ModeCheck, types.ModeDryRun, types.ModeInstall} {
		before := testutil.TreeDigest(t, f.env.ProjectDir)
		report := r.Reconcile(f.target, remaining, mode)
		require.NoError(t, report.Err(), mode.String())

		var orphans []string
		for _, res := range report.Orphans {
			assert.Equal(t, reconcile.ActionKeep, res.Action)
			orphans = append(orphans, res.Path)
		}
		assert.ElementsMatch(t, []string{exported, handWritten}, orphans, mode.String())
		assert.True(t, report.AllCorrect(), "orphans do not affect health")
		assert.Equal(t, before, testutil.TreeDigest(t, f.env.ProjectDir), "orphans are never removed")
	}

	report := r.Reconcile(f.target, remaining, types.ModeUninstall)
	assert.Empty(t, report.Orphans)
	assert.FileExists(t, exported)
}

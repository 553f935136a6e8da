package hooks_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/hooks"
	"github.com/arthur-debert/aisetup/pkg/testutil"
	"github.com/arthur-debert/aisetup/pkg/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInjector(t *testing.T) (*hooks.Injector, *testutil.TestEnvironment) {
	t.Helper()
	env := testutil.NewTestEnvironment(t).WithSource(testutil.SampleSource())
	script := filepath.Join(env.SourceRoot, ".claude-plugin", "hooks", "send_event.py")
	settings := filepath.Join(env.ClaudeDir(), hooks.SettingsFile)
	specs := hooks.DefaultSpecs(hooks.HookCommand("python3", script), 10, true)
	return hooks.NewInjector(env.FS, settings, script, specs), env
}

func TestInjector_CreatesSettings(t *testing.T) {
	inj, _ := newInjector(t)

	res, err := inj.Apply(types.ModeInstall)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.Applied)
	assert.Contains(t, testutil.ReadFile(t, inj.Path()), `"PostToolUse"`)
	testutil.AssertNoFile(t, inj.Path()+".aisetup-tmp")

	again, err := inj.Apply(types.ModeInstall)
	require.NoError(t, err)
	assert.False(t, again.Changed)
}

func TestInjector_LogsSettingsUpdate(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	defer func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}()

	inj, _ := newInjector(t)
	_, err := inj.Apply(types.ModeInstall)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"component":"hooks"`)
	assert.Contains(t, buf.String(), "Settings updated")
}

func TestInjector_DryRunShowsDiffOnly(t *testing.T) {
	inj, env := newInjector(t)
	testutil.CreateFile(t, env.ClaudeDir(), hooks.SettingsFile, `{"foo": 1}`)
	before := testutil.TreeDigest(t, env.HomeDir)

	res, err := inj.Apply(types.ModeDryRun)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Applied)
	assert.Contains(t, res.Diff, "+    \"SubagentStart\": [")
	assert.Contains(t, res.Diff, "-{\"foo\": 1}")
	assert.Equal(t, before, testutil.TreeDigest(t, env.HomeDir))
}

func TestInjector_MalformedSettingsUntouched(t *testing.T) {
	inj, env := newInjector(t)
	path := testutil.CreateFile(t, env.ClaudeDir(), hooks.SettingsFile, `{"foo": [1, }`)

	_, err := inj.Apply(types.ModeInstall)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHookMalformed))
	assert.Equal(t, `{"foo": [1, }`, testutil.ReadFile(t, path))
}

func TestInjector_MissingScriptIsPrecondition(t *testing.T) {
	inj, env := newInjector(t)
	require.NoError(t, os.Remove(filepath.Join(env.SourceRoot, ".claude-plugin", "hooks", "send_event.py")))

	_, err := inj.Apply(types.ModeInstall)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrecondition))
	testutil.AssertNoFile(t, inj.Path())
}

func TestInjector_WritesThroughSymlinkedSettings(t *testing.T) {
	inj, env := newInjector(t)
	dotfile := testutil.CreateFile(t, env.HomeDir, "dotfiles/claude-settings.json", `{"foo": 1}`)
	testutil.CreateSymlink(t, dotfile, inj.Path())

	_, err := inj.Apply(types.ModeInstall)
	require.NoError(t, err)
	testutil.AssertSymlink(t, inj.Path(), dotfile)
	assert.Contains(t, testutil.ReadFile(t, dotfile), `"SubagentStop"`)
}

func TestInjector_Remove(t *testing.T) {
	inj, env := newInjector(t)
	testutil.CreateFile(t, env.ClaudeDir(), hooks.SettingsFile, `{"foo": 1}`)
	_, err := inj.Apply(types.ModeInstall)
	require.NoError(t, err)

	res, err := inj.Remove(types.ModeUninstall)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "{\n  \"foo\": 1\n}\n", testutil.ReadFile(t, inj.Path()))

	res, err = inj.Remove(types.ModeUninstall)
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestInjector_RemoveWithoutSettings(t *testing.T) {
	inj, _ := newInjector(t)
	res, err := inj.Remove(types.ModeUninstall)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	testutil.AssertNoFile(t, inj.Path())
}

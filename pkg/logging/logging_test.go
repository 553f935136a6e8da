package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLogFilePath_RespectsXDGStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "aisetup", "aisetup.log"), LogFilePath())
}

func TestSetupLogger_CreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	defer zerolog.SetGlobalLevel(zerolog.WarnLevel)

	SetupLogger(1)
	log.Info().Msg("hello from test")

	data, err := os.ReadFile(filepath.Join(dir, "aisetup", "aisetup.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestLogCommand(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(zerolog.WarnLevel)

	LogCommand("claude", []string{"plugin", "install"})

	out := buf.String()
	assert.Contains(t, out, "claude")
	assert.Contains(t, out, "plugin")
	assert.Contains(t, out, "Executing command")
}

func TestGetLogger_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	defer zerolog.SetGlobalLevel(zerolog.WarnLevel)

	logger := GetLogger("reconcile")
	logger.Info().Msg("x")

	assert.Contains(t, buf.String(), `"component":"reconcile"`)
}

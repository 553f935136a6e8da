package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/errors"
	"github.com/arthur-debert/aisetup/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSourceRoot_Explicit(t *testing.T) {
	dir := t.TempDir()

	root, err := paths.FindSourceRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root.Path)
	assert.False(t, root.UsedFallback)

	_, err = paths.FindSourceRoot(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrecondition))
}

func TestLooksLikeSource(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, paths.LooksLikeSource(dir))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0755))
	assert.True(t, paths.LooksLikeSource(dir))
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester", paths.ExpandHome("~"))
	assert.Equal(t, "/home/tester/proj", paths.ExpandHome("~/proj"))
	assert.Equal(t, "/abs/path", paths.ExpandHome("/abs/path"))
	assert.Equal(t, "", paths.ExpandHome(""))
}

func TestDetectOS(t *testing.T) {
	assert.NotEmpty(t, paths.DetectOS())
}

package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aisetup/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeDigest(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, testutil.FileTree{
		"a.txt":     "a",
		"dir/b.txt": "b",
		"empty/":    "",
	})

	before := testutil.TreeDigest(t, root)
	assert.Equal(t, before, testutil.TreeDigest(t, root), "digest must be stable")

	t.Run("content change", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("A"), 0644))
		assert.NotEqual(t, before, testutil.TreeDigest(t, root))
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644))
		assert.Equal(t, before, testutil.TreeDigest(t, root))
	})

	t.Run("symlink destination change", func(t *testing.T) {
		link := filepath.Join(root, "link")
		testutil.CreateSymlink(t, "a.txt", link)
		withLink := testutil.TreeDigest(t, root)
		assert.NotEqual(t, before, withLink)

		require.NoError(t, os.Remove(link))
		testutil.CreateSymlink(t, "dir/b.txt", link)
		assert.NotEqual(t, withLink, testutil.TreeDigest(t, root))
	})
}

func TestTreeDigest_MissingRoot(t *testing.T) {
	assert.Equal(t, "absent", testutil.TreeDigest(t, filepath.Join(t.TempDir(), "nope")))
}

func TestNewTestEnvironment(t *testing.T) {
	env := testutil.NewTestEnvironment(t).WithSource(testutil.FileTree{"rules/x.md": "x"})

	assert.Equal(t, env.HomeDir, os.Getenv("HOME"))
	assert.DirExists(t, env.ProjectDir)
	assert.FileExists(t, filepath.Join(env.SourceRoot, "rules", "x.md"))
	assert.Equal(t, filepath.Join(env.HomeDir, ".claude"), env.ClaudeDir())
}

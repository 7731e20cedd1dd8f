package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{"ts", ".tsx", " TS ", "", "md"})
	assert.Equal(t, []string{".ts", ".tsx", ".md"}, got)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.ts"), "")
	writeFile(t, filepath.Join(root, "a", "deep", "c.ts"), "")
	writeFile(t, filepath.Join(root, "a", "d.tsx"), "")
	writeFile(t, filepath.Join(root, "a", "e.js"), "")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "f.ts"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.ts"), 0755))

	paths, err := Discover(root, []string{"ts"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "deep", "c.ts"),
		filepath.Join(root, "b.ts"),
		filepath.Join(root, "node_modules", "lib", "f.ts"),
	}, paths)

	paths, err = Discover(root, []string{".ts", "tsx"}, []string{"node_modules/**"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "d.tsx"),
		filepath.Join(root, "a", "deep", "c.ts"),
		filepath.Join(root, "b.ts"),
	}, paths)
}

func TestDiscoverHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")
	writeFile(t, filepath.Join(root, ".eslintrc.ts"), "")
	writeFile(t, filepath.Join(root, ".cache", "b.ts"), "")
	writeFile(t, filepath.Join(root, "pkg", ".tmp", "c.ts"), "")

	paths, err := Discover(root, []string{"ts"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.ts")}, paths)

	paths, err = Discover(root, []string{"ts"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, ".cache", "b.ts"),
		filepath.Join(root, ".eslintrc.ts"),
		filepath.Join(root, "a.ts"),
		filepath.Join(root, "pkg", ".tmp", "c.ts"),
	}, paths)
}

func TestDiscoverMissingRoot(t *testing.T) {
	paths, err := Discover(filepath.Join(t.TempDir(), "missing"), []string{"ts"}, nil, false)
	assert.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDiscoverRootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.ts")
	writeFile(t, file, "")

	_, err := Discover(file, []string{"ts"}, nil, false)
	assert.Error(t, err)
}

func TestDiscoverInvalidExclude(t *testing.T) {
	_, err := Discover(t.TempDir(), []string{"ts"}, []string{"[unclosed"}, false)
	assert.Error(t, err)
}

func TestUpdateFile(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		dir := t.TempDir()
		path := filepath.Join(dir, "x.ts")
		writeFile(t, path, "old")
		require.NoError(t, os.Chmod(path, 0600))

		written, err := UpdateFile(path, []byte("old"), []byte("old"), atomic)
		require.NoError(t, err)
		assert.False(t, written)

		written, err = UpdateFile(path, []byte("old"), []byte("new"), atomic)
		require.NoError(t, err)
		assert.True(t, written)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp files must not be left behind")
	}
}

func TestUpdateFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "x.ts")
	for _, atomic := range []bool{false, true} {
		_, err := UpdateFile(path, []byte("a"), []byte("b"), atomic)
		assert.Error(t, err)
	}
}

package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDocs(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	require.NoError(t, err)
	return dir, s
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRead(t *testing.T) {
	dir, s := tempDocs(t)
	writeFile(t, dir, "note.md", "# Hello\nWorld\n")

	got, err := s.Read("note.md")
	require.NoError(t, err)
	assert.Equal(t, "# Hello\nWorld\n", string(got))
}

func TestReadMissing(t *testing.T) {
	_, s := tempDocs(t)
	_, err := s.Read("missing.md")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestList(t *testing.T) {
	dir, s := tempDocs(t)
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "readme.txt", "not md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub"), "b.md", "b")

	entries, err := s.List()
	require.NoError(t, err)
	assert.Len(t, entries, 3, "sub is listed, not descended")
}

func TestStatFollowsSymlink(t *testing.T) {
	dir, s := tempDocs(t)
	writeFile(t, dir, "target.md", "x")
	if err := os.Symlink(filepath.Join(dir, "target.md"), filepath.Join(dir, "link.md")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	info, err := s.Stat("link.md")
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "mode = %v", info.Mode())
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempDocs(t)

	for _, p := range []string{"../../etc/passwd", "../outside.md", "/etc/shadow"} {
		_, err := s.Read(p)
		assert.ErrorIs(t, err, ErrOutsideRoot, "Read(%q)", p)
		_, err = s.Stat(p)
		assert.ErrorIs(t, err, ErrOutsideRoot, "Stat(%q)", p)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestNewFS_FileNotDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := NewFS(path)
	assert.Error(t, err)
}

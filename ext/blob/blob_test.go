package blob

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.exe")
	require.NoError(t, os.WriteFile(path, []byte("MZ\x90\x00"), 0o644))

	source, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, path, source.Path)
	assert.Equal(t, []byte("MZ\x90\x00"), source.Bytes())

	require.NoError(t, source.Close())
	assert.Nil(t, source.Bytes())
	require.NoError(t, source.Close(), "second close is a no-op")
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.exe")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	source, err := Open(path)
	require.NoError(t, err)
	defer source.Close()

	assert.Empty(t, source.Bytes())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.exe"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.exe")
	require.NoError(t, os.WriteFile(path, []byte("stale contents"), 0o600))

	require.NoError(t, WriteFile(path, []byte("MZ"), 0o755))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("MZ"), data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
	assert.Equal(t, "out.exe", entries[0].Name())
}

func TestWriteFileMissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.exe"), []byte("MZ"), 0o755)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

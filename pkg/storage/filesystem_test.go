package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReturnsAbsolutePath(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("roster.csv", []byte("Name,Username\n"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path) || strings.HasPrefix(path, store.baseDir))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Username\n", string(blob))
}

func TestSaveConfinesPathsToBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := store.Save("../../escape.csv", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
}

func TestDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("roster.csv", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("roster.csv"))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Deleting a missing file is not an error.
	require.NoError(t, store.Delete("roster.csv"))
}

func TestTimestampedName(t *testing.T) {
	name := TimestampedName("Roster 5A", "csv")
	assert.True(t, strings.HasPrefix(name, "roster-5a-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.NotContains(t, name, " ")
}

package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		err := os.WriteFile(filepath.Join(dir, name), []byte("parity 3;\n"), 0644)
		require.NoError(t, err)
	}
}

func TestEnumerate_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.gm", "a.gm", "b.gm")

	cases, err := Enumerate(dir)
	require.NoError(t, err)
	require.Len(t, cases, 3)

	// Sorted order regardless of creation order.
	assert.Equal(t, "a.gm", cases[0].Name())
	assert.Equal(t, "b.gm", cases[1].Name())
	assert.Equal(t, "c.gm", cases[2].Name())
}

func TestEnumerate_SkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.gm")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	cases, err := Enumerate(dir)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "a.gm", cases[0].Name())
}

func TestEnumerate_Glob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.gm", "b.gm", "notes.txt")

	cases, err := Enumerate(filepath.Join(dir, "*.gm"))
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "a.gm", cases[0].Name())
	assert.Equal(t, "b.gm", cases[1].Name())
}

func TestEnumerate_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "only.gm")

	cases, err := Enumerate(filepath.Join(dir, "only.gm"))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, filepath.Join(dir, "only.gm"), cases[0].Path)
}

func TestEnumerate_MissingLocation(t *testing.T) {
	_, err := Enumerate(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	var enumErr *EnumerationError
	require.True(t, errors.As(err, &enumErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnumerate_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "z.gm", "m.gm", "a.gm")

	first, err := Enumerate(dir)
	require.NoError(t, err)
	second, err := Enumerate(dir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnumerate_EmptyDirectory(t *testing.T) {
	cases, err := Enumerate(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cases)
}

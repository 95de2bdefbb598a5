package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var console bytes.Buffer
	err := run(&console, dir)
	require.NoError(t, err)
	require.Equal(t, "Hello World!\n", console.String())

	b, err := os.ReadFile(filepath.Join(dir, "result.json"))
	require.NoError(t, err)
	require.Equal(t,
		`{"phase":"Succeeded","message":"Hello","outputs":{"artifacts":[],"parameters":[]}}`+"\n",
		string(b))
}

// TestRunOverwrites checks that an existing result is truncated, not
// appended to.
func TestRunOverwrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 1024), 0o644))

	require.NoError(t, run(&bytes.Buffer{}, dir))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, result+"\n", string(b))
}

func TestRunMissingDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "work")

	var console bytes.Buffer
	err := run(&console, dir)
	require.ErrorContains(t, err, "could not open the file "+filepath.Join(dir, "result.json"))
	require.Equal(t, "Hello World!\n", console.String(), "greeting precedes the open")

	_, err = os.Stat(dir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

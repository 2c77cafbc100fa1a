package context

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "workspace")

	w := New(1000, 4)
	w.Summary = "earlier summary"
	w.Append(RoleUser, "hello", 0, 0, nil)
	w.Append(RoleAssistant, "hi there", 1, 0, []string{"a.go"})

	require.NoError(t, w.Save(dir, root))

	loaded, err := Load(dir, root, 1000, 4)
	require.NoError(t, err)
	assert.Equal(t, "earlier summary", loaded.Summary)
	require.Len(t, loaded.Turns, 2)
	assert.Equal(t, "hi there", loaded.Turns[1].Content)
	assert.Equal(t, []string{"a.go"}, loaded.Turns[1].FilesTouched)
}

func TestLoadMissingReturnsEmptyWindow(t *testing.T) {
	dir := t.TempDir()
	w, err := Load(dir, filepath.Join(dir, "nope"), 1000, 4)
	require.NoError(t, err)
	assert.Empty(t, w.Turns)
	assert.Empty(t, w.Summary)
}

func TestDifferentWorkspacesGetDifferentFiles(t *testing.T) {
	dir := t.TempDir()
	a := New(1000, 4)
	a.Append(RoleUser, "a", 0, 0, nil)
	require.NoError(t, a.Save(dir, filepath.Join(dir, "workspace-a")))

	b := New(1000, 4)
	b.Append(RoleUser, "b", 0, 0, nil)
	require.NoError(t, b.Save(dir, filepath.Join(dir, "workspace-b")))

	loadedA, err := Load(dir, filepath.Join(dir, "workspace-a"), 1000, 4)
	require.NoError(t, err)
	assert.Equal(t, "a", loadedA.Turns[0].Content)
}

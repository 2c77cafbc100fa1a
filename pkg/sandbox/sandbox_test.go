package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWithinRoot(t *testing.T) {
	dir := t.TempDir()
	sb, err := New(dir)
	require.NoError(t, err)

	resolved, err := sb.Resolve("sub/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sb.Root(), "sub", "file.txt"), resolved)
}

func TestResolveRootItself(t *testing.T) {
	dir := t.TempDir()
	sb, err := New(dir)
	require.NoError(t, err)

	resolved, err := sb.Resolve(".")
	require.NoError(t, err)
	assert.Equal(t, sb.Root(), resolved)
}

func TestResolveRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	sb, err := New(dir)
	require.NoError(t, err)

	_, err = sb.Resolve("../etc/passwd")
	require.Error(t, err)
}

func TestResolveRejectsAbsoluteEscape(t *testing.T) {
	dir := t.TempDir()
	sb, err := New(dir)
	require.NoError(t, err)

	_, err = sb.Resolve("/etc/passwd")
	require.Error(t, err)
}

func TestResolveFollowsSymlinkEscape(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), filepath.Join(dir, "link.txt")))

	sb, err := New(dir)
	require.NoError(t, err)

	_, err = sb.Resolve("link.txt")
	require.Error(t, err)
}

func TestResolveAllowsSymlinkWithinRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "real"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real", "f.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "alias")))

	sb, err := New(dir)
	require.NoError(t, err)

	resolved, err := sb.Resolve("alias/f.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sb.Root(), "real", "f.txt"), resolved)
}

func TestResolveNonexistentPathUnderRoot(t *testing.T) {
	dir := t.TempDir()
	sb, err := New(dir)
	require.NoError(t, err)

	resolved, err := sb.Resolve("does/not/exist/yet.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sb.Root(), "does", "not", "exist", "yet.txt"), resolved)
}

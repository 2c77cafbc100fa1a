package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutlineFindsDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.go")
	content := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n\ntype Thing struct {\n\tX int\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := fileOutline(path)
	require.Nil(t, err)
	assert.Contains(t, out, "func main()")
	assert.Contains(t, out, "type Thing struct")
}

func TestFileOutlineMissingFile(t *testing.T) {
	_, err := fileOutline(filepath.Join(t.TempDir(), "missing.go"))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "doesn't exist")
}

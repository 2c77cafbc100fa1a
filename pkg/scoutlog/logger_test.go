package scoutlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	l := Get(dir)
	require.NotNil(t, l)

	l.Logf("hello %s", "world")
	l.LogProcessStep("step one")
	l.LogError(assertError("boom"))

	_, err := os.Stat(filepath.Join(dir, ".scout", "scout.log"))
	assert.NoError(t, err)
}

type assertError string

func (e assertError) Error() string { return string(e) }

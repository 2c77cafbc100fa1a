package tools

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictReplaceSingleMatch(t *testing.T) {
	out, err := strictReplace("f.txt", "const x = 1\nfoo\n", "const x = 1", "const y = 2", false, false)
	require.Nil(t, err)
	assert.Equal(t, "const y = 2\nfoo\n", out)
}

func TestStrictReplaceAmbiguousRejects(t *testing.T) {
	original := "const x\nfoo\nconst x\n"
	_, err := strictReplace("f.txt", original, "const x", "const y", false, false)
	require.NotNil(t, err)
	assert.Equal(t, InvalidArgument, err.Kind)
	assert.Contains(t, err.Error(), "matched 2 locations")
	assert.Contains(t, err.Error(), "f.txt")
}

func TestStrictReplaceAllOccurrences(t *testing.T) {
	original := "a\na\na\n"
	out, err := strictReplace("f.txt", original, "a", "b", true, false)
	require.Nil(t, err)
	assert.Equal(t, "b\nb\nb\n", out)
}

func TestStrictReplaceFuzzyFallback(t *testing.T) {
	original := "func foo() {\n    return 1   \n}\n"
	find := "func foo() {\nreturn 1\n}"
	out, err := strictReplace("f.txt", original, find, "func foo() {\n    return 2\n}", false, false)
	require.Nil(t, err)
	assert.Contains(t, out, "return 2")
}

func TestStrictReplaceNotFound(t *testing.T) {
	_, err := strictReplace("f.txt", "hello\n", "missing", "x", false, false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "pattern not found")
}

func TestStrictReplaceConfirmGate(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 150; i++ {
		b.WriteString("line\n")
	}
	original := b.String()
	find := original
	var replaceBuilder strings.Builder
	for i := 0; i < 150; i++ {
		replaceBuilder.WriteString("changed\n")
	}
	replace := replaceBuilder.String()

	_, err := strictReplace("big.txt", original, find, replace, false, false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "CONFIRM_REQUIRED")
	assert.Contains(t, err.Error(), "big.txt")

	out, err2 := strictReplace("big.txt", original, find, replace, false, true)
	require.Nil(t, err2)
	assert.Equal(t, replace, out)
}

func TestReadWindowBoundedScenario(t *testing.T) {
	data := []byte("hello world")
	first := readWindow(data, 0, 5)
	assert.Equal(t, "hello\n\n[...truncated, more content available]", first)
}

func TestReadWindowOffsetPrefix(t *testing.T) {
	data := []byte("hello world")
	second := readWindow(data, 5, 5)
	assert.Contains(t, second, "[showing bytes 5 to 10 of 11 total]")
}

func TestReadWindowReconstructsWholeFile(t *testing.T) {
	content := "the quick brown fox jumps over the lazy dog"
	data := []byte(content)
	limit := 7
	var reconstructed strings.Builder
	for offset := 0; offset < len(data); offset += limit {
		w := readWindow(data, offset, limit)
		w = strings.TrimPrefix(w, windowPrefixFor(offset, data, limit))
		w = strings.TrimSuffix(w, "\n\n[...truncated, more content available]")
		reconstructed.WriteString(w)
	}
	assert.Equal(t, content, reconstructed.String())
}

func windowPrefixFor(offset int, data []byte, limit int) string {
	if offset == 0 {
		return ""
	}
	total := len(data)
	end := offset + limit
	if end > total {
		end = total
	}
	return fmt.Sprintf("[showing bytes %d to %d of %d total]\n\n", offset, end, total)
}

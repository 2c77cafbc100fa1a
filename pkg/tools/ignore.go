package tools

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFilter curates what list_files surfaces. It is advisory only:
// it never affects sandbox.Resolve's accept/reject decision, so an
// ignored path is still fully readable and writable when named
// explicitly by a tool call.
type IgnoreFilter struct {
	matcher *ignore.GitIgnore
}

// essentialPatterns are always ignored regardless of what .gitignore
// says, matching the teacher's "essential patterns first" precedence.
var essentialPatterns = []string{
	".git",
	".scout",
}

// fallbackPatterns supplement a missing or sparse .gitignore.
var fallbackPatterns = []string{
	"node_modules",
	"vendor",
	"*.log",
	".DS_Store",
}

// NewIgnoreFilter compiles the workspace's .gitignore (if present)
// together with the essential and fallback pattern sets.
func NewIgnoreFilter(rootDir string) *IgnoreFilter {
	var lines []string
	lines = append(lines, essentialPatterns...)

	if content, err := os.ReadFile(filepath.Join(rootDir, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(content), "\n")...)
	}

	lines = append(lines, fallbackPatterns...)

	var filtered []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" && !strings.HasPrefix(l, "#") {
			filtered = append(filtered, l)
		}
	}

	return &IgnoreFilter{matcher: ignore.CompileIgnoreLines(filtered...)}
}

// Ignores reports whether relPath (relative to the workspace root)
// should be hidden from list_files output.
func (f *IgnoreFilter) Ignores(relPath string) bool {
	if f == nil || f.matcher == nil {
		return false
	}
	return f.matcher.MatchesPath(relPath)
}

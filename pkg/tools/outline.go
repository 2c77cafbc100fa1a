package tools

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// outlinePrefixes are the line-prefix heuristics used to recognize a
// declaration worth surfacing in a structural outline, covering the
// handful of languages this corpus's tooling targets (Go, Zig, and
// C-family headers).
var outlinePrefixes = []string{
	"func ", "type ", "struct ", "pub fn ", "fn ", "const ", "var ",
	"class ", "interface ", "enum ",
}

// fileOutline scans a file line by line and returns every line whose
// trimmed content starts with one of the declaration-like prefixes,
// numbered by their 1-based line position.
func fileOutline(path string) (string, *Error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &Error{Kind: IoError, Message: fileMissingMessage(path)}
	}
	defer f.Close()

	var b strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		trimmed := strings.TrimLeft(scanner.Text(), " \t")
		for _, p := range outlinePrefixes {
			if strings.HasPrefix(trimmed, p) {
				fmt.Fprintf(&b, "%d: %s\n", lineNo, trimmed)
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", ioError("scan %s: %v", path, err)
	}
	if b.Len() == 0 {
		return "(no declarations found)", nil
	}
	return b.String(), nil
}

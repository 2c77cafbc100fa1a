package tools

import (
	"fmt"
	"strings"
)

// patchOpKind distinguishes the three block types the envelope supports.
type patchOpKind int

const (
	opAdd patchOpKind = iota
	opDelete
	opUpdate
)

type patchOp struct {
	kind    patchOpKind
	path    string
	moveTo  string
	addText string
	hunks   []patchHunk
}

type patchHunkLine struct {
	kind byte // ' ', '+', '-'
	text string
}

type patchHunk struct {
	lines []patchHunkLine
}

// parsePatch parses the bit-exact envelope grammar: `*** Begin Patch`,
// one or more op-blocks, `*** End Patch`. It never touches the
// filesystem; applying is a separate step so a parse error never has a
// chance to have written anything.
func parsePatch(text string) ([]patchOp, *Error) {
	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || strings.TrimSpace(lines[i]) != "*** Begin Patch" {
		return nil, invalidArgument("malformed patch: missing '*** Begin Patch'")
	}
	i++

	var ops []patchOp
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "*** End Patch":
			return ops, nil
		case strings.TrimSpace(line) == "":
			i++
		case strings.HasPrefix(line, "*** Add File: "):
			op := patchOp{kind: opAdd, path: strings.TrimPrefix(line, "*** Add File: ")}
			i++
			var body strings.Builder
			for i < len(lines) && strings.HasPrefix(lines[i], "+") {
				body.WriteString(strings.TrimPrefix(lines[i], "+"))
				body.WriteString("\n")
				i++
			}
			op.addText = body.String()
			ops = append(ops, op)
		case strings.HasPrefix(line, "*** Delete File: "):
			op := patchOp{kind: opDelete, path: strings.TrimPrefix(line, "*** Delete File: ")}
			i++
			ops = append(ops, op)
		case strings.HasPrefix(line, "*** Update File: "):
			op := patchOp{kind: opUpdate, path: strings.TrimPrefix(line, "*** Update File: ")}
			i++
			if i < len(lines) && strings.HasPrefix(lines[i], "*** Move to: ") {
				op.moveTo = strings.TrimPrefix(lines[i], "*** Move to: ")
				i++
			}
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "@@") {
				i++ // hunk header carries no coordinates we need to parse
				var hunk patchHunk
				for i < len(lines) {
					l := lines[i]
					if l == "" {
						return nil, invalidArgument("empty line inside hunk for %s", op.path)
					}
					if strings.HasPrefix(l, "@@") || strings.HasPrefix(l, "*** ") {
						break
					}
					prefix := l[0]
					if prefix != ' ' && prefix != '+' && prefix != '-' {
						return nil, invalidArgument("invalid hunk line prefix in %s", op.path)
					}
					hunk.lines = append(hunk.lines, patchHunkLine{kind: prefix, text: l[1:]})
					i++
				}
				op.hunks = append(op.hunks, hunk)
			}
			ops = append(ops, op)
		default:
			return nil, invalidArgument("unrecognized patch line: %q", line)
		}
	}
	return nil, invalidArgument("malformed patch: missing '*** End Patch'")
}

// applyHunk applies a single hunk to origLines starting the scan at
// cursor, returning the updated cursor position and the emitted lines
// (context and pre-anchor originals included).
func applyHunk(origLines []string, cursor int, hunk patchHunk) ([]string, int, *Error) {
	if len(hunk.lines) == 0 {
		return nil, cursor, invalidArgument("empty hunk")
	}

	anchor := hunk.lines[0]
	for anchor.kind == '+' {
		hunk.lines = hunk.lines[1:]
		if len(hunk.lines) == 0 {
			return nil, cursor, invalidArgument("hunk has no non-insertion anchor")
		}
		anchor = hunk.lines[0]
	}

	found := -1
	for j := cursor; j < len(origLines); j++ {
		if origLines[j] == anchor.text {
			found = j
			break
		}
	}
	if found == -1 {
		return nil, cursor, invalidArgument("anchor line not found: %q", anchor.text)
	}

	var emitted []string
	emitted = append(emitted, origLines[cursor:found]...)

	pos := found
	for _, hl := range hunk.lines {
		switch hl.kind {
		case ' ':
			if pos >= len(origLines) || origLines[pos] != hl.text {
				return nil, cursor, invalidArgument("context mismatch at line %q", hl.text)
			}
			emitted = append(emitted, origLines[pos])
			pos++
		case '-':
			if pos >= len(origLines) || origLines[pos] != hl.text {
				return nil, cursor, invalidArgument("deletion mismatch at line %q", hl.text)
			}
			pos++
		case '+':
			emitted = append(emitted, hl.text)
		}
	}
	return emitted, pos, nil
}

// applyUpdate applies every hunk of an update op in order against the
// original file content, returning the new content with the original
// trailing-newline convention preserved.
func applyUpdate(original string, op patchOp) (string, *Error) {
	hadTrailingNewline := strings.HasSuffix(original, "\n")
	origLines := strings.Split(strings.TrimSuffix(original, "\n"), "\n")

	var result []string
	cursor := 0
	for _, hunk := range op.hunks {
		emitted, newCursor, err := applyHunk(origLines, cursor, hunk)
		if err != nil {
			return "", err
		}
		result = append(result, emitted...)
		cursor = newCursor
	}
	result = append(result, origLines[cursor:]...)

	out := strings.Join(result, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out, nil
}

// summarizePatch renders the `A|D|M <path>` summary line per applied op.
func summarizePatch(ops []patchOp) string {
	var b strings.Builder
	b.WriteString("Success. Updated the following files:\n")
	for _, op := range ops {
		switch op.kind {
		case opAdd:
			fmt.Fprintf(&b, "A %s\n", op.path)
		case opDelete:
			fmt.Fprintf(&b, "D %s\n", op.path)
		case opUpdate:
			if op.moveTo != "" {
				fmt.Fprintf(&b, "M %s -> %s\n", op.path, op.moveTo)
			} else {
				fmt.Fprintf(&b, "M %s\n", op.path)
			}
		}
	}
	return b.String()
}

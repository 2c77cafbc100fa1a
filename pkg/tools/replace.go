package tools

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const confirmLineLimit = 100

// strictReplace implements the tool's core text-surgery algorithm: an
// exact-count replace, falling back to a line-trimmed fuzzy match when
// no exact occurrence exists, gated by a changed-block size limit.
// It is a pure function of its four inputs (plus confirm), grounded on
// the exact-count-then-fuzzy shape of the teacher's EditFile, extended
// here with the fallback and size gate the spec requires.
func strictReplace(path, original, find, replace string, replaceAll, confirm bool) (string, *Error) {
	if find == "" {
		return "", invalidArgument("empty find pattern")
	}

	count := strings.Count(original, find)

	var updated string
	switch {
	case count == 0:
		fuzzyUpdated, ferr := fuzzyLineReplace(path, original, find, replace)
		if ferr != nil {
			return "", ferr
		}
		updated = fuzzyUpdated
	case count > 1 && !replaceAll:
		return "", invalidArgument("Replace failed: pattern matched %d locations in %s.", count, path)
	case replaceAll:
		updated = strings.ReplaceAll(original, find, replace)
	default:
		updated = strings.Replace(original, find, replace, 1)
	}

	changed := changedBlockSize(original, updated)
	if changed > confirmLineLimit && !confirm {
		return "", &Error{
			Kind: InvalidArgument,
			Message: fmt.Sprintf(
				"CONFIRM_REQUIRED: edit would modify %d lines in %s (limit %d). Re-run with {\"confirm\":true} to proceed.",
				changed, path, confirmLineLimit,
			),
		}
	}

	return updated, nil
}

// fuzzyLineReplace splits find into lines and looks for exactly one
// contiguous slice of original's lines that match after trimming ASCII
// whitespace from each paired line. Exactly one match is required;
// zero or multiple are rejected.
func fuzzyLineReplace(path, original, find, replace string) (string, *Error) {
	origLines := splitLinesKeepEnds(original)
	findLines := strings.Split(find, "\n")
	if len(findLines) == 0 {
		return "", invalidArgument("Replace failed: pattern not found in %s.", path)
	}

	trimmedFind := make([]string, len(findLines))
	for i, l := range findLines {
		trimmedFind[i] = strings.TrimRight(strings.TrimLeft(l, " \t"), " \t")
	}

	var matchStart = -1
	matches := 0
	for start := 0; start+len(findLines) <= len(origLines); start++ {
		ok := true
		for i, fl := range trimmedFind {
			ol := strings.TrimRight(strings.TrimLeft(stripEnd(origLines[start+i]), " \t"), " \t")
			if ol != fl {
				ok = false
				break
			}
		}
		if ok {
			matches++
			matchStart = start
		}
	}

	if matches == 0 {
		return "", invalidArgument("Replace failed: pattern not found in %s.", path)
	}
	if matches > 1 {
		return "", invalidArgument("Replace failed: pattern matched %d locations in %s.", matches, path)
	}

	before := strings.Join(origLines[:matchStart], "")
	after := strings.Join(origLines[matchStart+len(findLines):], "")
	return before + replace + after, nil
}

// splitLinesKeepEnds splits s into lines, each retaining its trailing
// "\n" (the last line may have none), so joining the slice reconstructs
// s exactly.
func splitLinesKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func stripEnd(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// changedBlockSize computes max(removed_lines, added_lines) for the
// before/after text using a line-mode diff, after trimming the common
// prefix/suffix of line arrays: the block runs from the first to the
// last changed line, so unchanged lines lying between two separate
// changes count on both sides.
func changedBlockSize(before, after string) int {
	dmp := diffmatchpatch.New()
	aChars, bChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(aChars, bChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	removed, added, gap := 0, 0, 0
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") && d.Text != "" {
			n++
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed, added, gap = removed+gap+n, added+gap, 0
		case diffmatchpatch.DiffInsert:
			removed, added, gap = removed+gap, added+gap+n, 0
		default:
			if removed+added > 0 {
				gap += n
			}
		}
	}
	if removed > added {
		return removed
	}
	return added
}

// renderUnifiedDiff produces the single-hunk mini diff the write/edit
// tools append to their success output: `@@ -p,bs +p,as @@` followed by
// ' '/'-'/'+' prefixed lines, built from diffmatchpatch's line diff.
func renderUnifiedDiff(path, before, after string) string {
	dmp := diffmatchpatch.New()
	aChars, bChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(aChars, bChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out strings.Builder
	fmt.Fprintf(&out, "--- %s\n+++ %s\n", path, path)

	removed, added, context := 0, 0, 0
	var body strings.Builder
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		if d.Text == "" {
			continue
		}
		for _, l := range lines {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				body.WriteString("-" + l + "\n")
				removed++
			case diffmatchpatch.DiffInsert:
				body.WriteString("+" + l + "\n")
				added++
			default:
				body.WriteString(" " + l + "\n")
				context++
			}
		}
	}

	fmt.Fprintf(&out, "@@ -1,%d +1,%d @@\n", removed+context, added+context)
	out.WriteString(body.String())
	return out.String()
}

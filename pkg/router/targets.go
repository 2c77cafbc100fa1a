package router

import "strings"

var genericTargetWords = map[string]bool{
	"file": true, "folder": true, "directory": true, "named": true, "name": true,
	"this": true, "that": true, "it": true, "the": true, "a": true, "an": true,
	"to": true, "then": true, "and": true, "with": true,
}

func isMutationVerb(token string) bool {
	for _, v := range []string{"create", "edit", "write", "modify", "update", "replace", "add", "refactor"} {
		if token == v {
			return true
		}
	}
	return false
}

func looksLikePath(token string) bool {
	return strings.Contains(token, "/") || strings.Contains(token, ".")
}

// RequiredTargets tokenizes text on whitespace, trims ASCII
// punctuation, and returns the tokens that follow a mutation verb (and
// aren't generic filler words) or that look like a path on their own.
func RequiredTargets(text string) []string {
	tokens := strings.Fields(text)
	trimmed := make([]string, len(tokens))
	for i, t := range tokens {
		trimmed[i] = strings.Trim(t, ".,;:!?\"'()[]{}")
	}

	var targets []string
	seen := map[string]bool{}
	add := func(tok string) {
		if tok == "" || seen[tok] {
			return
		}
		seen[tok] = true
		targets = append(targets, tok)
	}

	for i, tok := range trimmed {
		lower := strings.ToLower(tok)
		if looksLikePath(tok) {
			add(tok)
			continue
		}
		if i > 0 && isMutationVerb(strings.ToLower(trimmed[i-1])) && !genericTargetWords[lower] {
			add(tok)
		}
	}
	return targets
}

// TargetSatisfied reports whether touchedPath satisfies target: either
// case-insensitively contains the other, the path's basename equals
// the target, or the basename is a dotfile form of the target.
func TargetSatisfied(target, touchedPath string) bool {
	lt, lp := strings.ToLower(target), strings.ToLower(touchedPath)
	if strings.Contains(lp, lt) || strings.Contains(lt, lp) {
		return true
	}
	base := lp
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if base == lt {
		return true
	}
	if base == "."+lt {
		return true
	}
	return false
}

// HasUnmetRequiredEdits reports whether any required target extracted
// from text is unsatisfied by every path in touchedPaths.
func HasUnmetRequiredEdits(text string, touchedPaths []string) bool {
	for _, target := range RequiredTargets(text) {
		satisfied := false
		for _, p := range touchedPaths {
			if TargetSatisfied(target, p) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return true
		}
	}
	return false
}

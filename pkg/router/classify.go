// Package router implements the tool router: the staged decision
// process that asks the LLM port for a tool call, escalating through
// stricter prompts and a text fallback when the model won't commit to
// one on its own.
package router

import "strings"

var repoSpecificMarkers = []string{
	"/", "repo", "codebase", "src/", ".zig", "function", "file", "harness", "how does", "where is", "explain",
}

var mutationVerbs = []string{
	"create", "edit", "write", "modify", "update", "replace", "refactor", "add line",
}

var fileMutationMarkers = []string{"file", "src/", ".zig"}

// IsRepoSpecific reports whether text reads as a question about this
// specific repository, warranting a mandatory inspection tool.
func IsRepoSpecific(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range repoSpecificMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsFileMutation reports whether text asks to change a file.
func IsFileMutation(text string) bool {
	lower := strings.ToLower(text)
	hasFileMarker := false
	for _, m := range fileMutationMarkers {
		if strings.Contains(lower, m) {
			hasFileMarker = true
			break
		}
	}
	if !hasFileMarker {
		return false
	}
	for _, v := range mutationVerbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// IsMultiStepMutation reports whether text is a file mutation request
// that additionally chains multiple steps via "then"/"and".
func IsMultiStepMutation(text string) bool {
	if !IsFileMutation(text) {
		return false
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, " then ") || strings.Contains(lower, " and ")
}

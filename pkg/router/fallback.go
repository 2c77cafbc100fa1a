package router

import (
	"strings"

	"github.com/scoutcli/scout/pkg/llmport"
)

// ParseInlineToolCall accepts a response only if its first non-blank
// line starts with the literal "TOOL_CALL " prefix, with the name/json
// split at the first '{'. Any "Tool:"/"tool:" line is treated as
// prose, not a call, matching the spec's text-fallback grammar.
// Grounded on the teacher's FallbackParser content-gating approach
// (check for tool-call patterns before attempting a structured parse)
// but simplified to the single literal line grammar §4.7.1/§6.3 call
// for, rather than the teacher's multi-format (JSON/XML/code-block)
// sweep.
func ParseInlineToolCall(response string, has func(name string) bool) *llmport.ToolCall {
	line := firstNonBlankLine(response)
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, "Tool:") || strings.HasPrefix(line, "tool:") {
		return nil
	}
	if !strings.HasPrefix(line, "TOOL_CALL ") {
		return nil
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, "TOOL_CALL "))
	braceIdx := strings.IndexByte(rest, '{')
	if braceIdx < 0 {
		return nil
	}
	name := strings.TrimSpace(rest[:braceIdx])
	argsJSON := rest[braceIdx:]

	if name == "" || (has != nil && !has(name)) {
		return nil
	}

	return &llmport.ToolCall{Name: name, Arguments: argsJSON}
}

func firstNonBlankLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ExtractAllInlineToolCalls scans every line of a free-text response
// for TOOL_CALL lines (not only the first), used by the agent loop's
// §4.8.1 inline-call handling, which must parse each line rather than
// stopping at the first.
func ExtractAllInlineToolCalls(response string, has func(name string) bool) []*llmport.ToolCall {
	var calls []*llmport.ToolCall
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if call := ParseInlineToolCall(trimmed, has); call != nil {
			calls = append(calls, call)
		}
	}
	return calls
}

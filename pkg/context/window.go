package context

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scoutcli/scout/pkg/llmport"
)

const (
	maxRelevantTurns  = 8
	recencyBonusSpan  = 4
	truncatedTurnChar = 220
)

// Window holds the running conversation: an optional rolling summary
// plus the turns not yet folded into it.
type Window struct {
	Summary         string
	Turns           []Turn
	MaxChars        int
	KeepRecentTurns int
}

// New returns an empty window with the given compaction thresholds.
func New(maxChars, keepRecentTurns int) *Window {
	return &Window{MaxChars: maxChars, KeepRecentTurns: keepRecentTurns}
}

// Append adds a turn, silently dropping it if its content is blank
// after trimming.
func (w *Window) Append(role Role, content string, toolCalls, errorCount int, filesTouched []string) {
	content = strings.TrimSpace(content)
	if trimmedEmpty(content) {
		return
	}
	w.Turns = append(w.Turns, Turn{
		Role:         role,
		Content:      content,
		ToolCalls:    toolCalls,
		ErrorCount:   errorCount,
		FilesTouched: filesTouched,
	})
}

// EstimatedChars approximates the prompt-building cost of the window:
// the summary length plus each turn's content length plus a fixed
// 20-character overhead per turn for role/formatting scaffolding.
func (w *Window) EstimatedChars() int {
	total := len(w.Summary)
	for _, t := range w.Turns {
		total += len(t.Content) + 20
	}
	return total
}

// relevantTurns scores every turn against userInput and returns up to
// maxRelevantTurns of them, restored to chronological order.
func (w *Window) relevantTurns(userInput string) []Turn {
	type scored struct {
		turn  Turn
		index int
		score int
	}

	lowerInput := strings.ToLower(userInput)
	mentionsFile := strings.Contains(lowerInput, "file")

	n := len(w.Turns)
	var candidates []scored
	for i, t := range w.Turns {
		score := 0
		if strings.Contains(strings.ToLower(t.Content), lowerInput) {
			score += 4
		}
		if mentionsFile && len(t.FilesTouched) > 0 {
			score += 2
		}
		if t.Role == RoleAssistant && t.ToolCalls > 0 {
			score += 1
		}
		if n-1-i < recencyBonusSpan {
			score += 3
		}
		if score > 0 {
			candidates = append(candidates, scored{turn: t, index: i, score: score})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].index > candidates[b].index
	})

	if len(candidates) > maxRelevantTurns {
		candidates = candidates[:maxRelevantTurns]
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].index < candidates[b].index
	})

	out := make([]Turn, len(candidates))
	for i, c := range candidates {
		out[i] = c.turn
	}
	return out
}

// Summarizer is the optional model-backed compaction path; nil means
// heuristic-only compaction.
type Summarizer interface {
	Query(ctx context.Context, model, prompt string, tools []llmport.ToolDef) (string, error)
}

// Compact folds the oldest turns into the rolling summary once the
// window exceeds MaxChars, keeping at least KeepRecentTurns turns
// verbatim. It tries a model summary first when summarizer is non-nil,
// falling back to a heuristic summary on any failure or blank result.
func (w *Window) Compact(ctx context.Context, summarizer Summarizer, model string) {
	if len(w.Turns) <= w.KeepRecentTurns || w.EstimatedChars() <= w.MaxChars {
		return
	}

	n := len(w.Turns) - w.KeepRecentTurns
	toCompact := w.Turns[:n]

	newSummary := ""
	if summarizer != nil {
		prompt := buildSummaryPrompt(w.Summary, toCompact)
		if text, err := summarizer.Query(ctx, model, prompt, nil); err == nil && strings.TrimSpace(text) != "" {
			newSummary = strings.TrimSpace(text)
		}
	}
	if newSummary == "" {
		newSummary = heuristicSummary(w.Summary, toCompact)
	}

	w.Summary = newSummary
	w.Turns = append([]Turn{}, w.Turns[n:]...)
}

func buildSummaryPrompt(existing string, turns []Turn) string {
	var b strings.Builder
	if existing != "" {
		b.WriteString(existing)
		b.WriteString("\n\n")
	}
	b.WriteString("Summarize the following conversation turns concisely:\n")
	for _, t := range turns {
		fmt.Fprintf(&b, "- %s: %s\n", t.Role, t.Content)
	}
	return b.String()
}

func heuristicSummary(existing string, turns []Turn) string {
	var b strings.Builder
	if existing != "" {
		b.WriteString(existing)
		b.WriteString("\n")
	}
	b.WriteString("Compacted context notes:\n")
	for _, t := range turns {
		content := t.Content
		if len(content) > truncatedTurnChar {
			content = content[:truncatedTurnChar]
		}
		line := fmt.Sprintf("- %s: %s", t.Role, content)
		if t.Role == RoleAssistant && (t.ToolCalls > 0 || t.ErrorCount > 0 || len(t.FilesTouched) > 0) {
			line += fmt.Sprintf(" [tools=%d errors=%d files=%s]", t.ToolCalls, t.ErrorCount, strings.Join(t.FilesTouched, ","))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// BuildPrompt assembles the full routing prompt: a continuation
// preamble, the rolling summary (if any), up to maxRelevantTurns turns
// selected by relevance, then the current user request.
func (w *Window) BuildPrompt(userInput string) string {
	var b strings.Builder
	b.WriteString("You are continuing an ongoing conversation. Use the context below as needed.\n")

	if w.Summary != "" {
		b.WriteString("\nConversation summary:\n")
		b.WriteString(w.Summary)
		b.WriteString("\n")
	}

	for _, t := range w.relevantTurns(userInput) {
		fmt.Fprintf(&b, "\n[%s] %s", t.Role, t.Content)
	}

	b.WriteString("\n\nCurrent user request:\n")
	b.WriteString(userInput)
	return b.String()
}

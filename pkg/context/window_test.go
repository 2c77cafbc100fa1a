package context

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcli/scout/pkg/llmport"
)

func TestAppendDropsEmptyTurns(t *testing.T) {
	w := New(1000, 4)
	w.Append(RoleUser, "   ", 0, 0, nil)
	assert.Empty(t, w.Turns)

	w.Append(RoleUser, "hello", 0, 0, nil)
	assert.Len(t, w.Turns, 1)
}

func TestEstimatedChars(t *testing.T) {
	w := New(1000, 4)
	w.Append(RoleUser, "hello", 0, 0, nil)
	assert.Equal(t, len("hello")+20, w.EstimatedChars())
}

func TestCompactNoopWhenUnderThreshold(t *testing.T) {
	w := New(100000, 4)
	for i := 0; i < 3; i++ {
		w.Append(RoleUser, "short", 0, 0, nil)
	}
	w.Compact(context.Background(), nil, "")
	assert.Len(t, w.Turns, 3)
	assert.Empty(t, w.Summary)
}

func TestCompactKeepsRecentTurns(t *testing.T) {
	w := New(10, 2)
	for i := 0; i < 10; i++ {
		w.Append(RoleUser, strings.Repeat("x", 50), 0, 0, nil)
	}
	w.Compact(context.Background(), nil, "")

	assert.GreaterOrEqual(t, len(w.Turns), 2)
	assert.LessOrEqual(t, len(w.Turns), 2)
	assert.Contains(t, w.Summary, "Compacted context notes:")
}

type fakeSummarizer struct {
	text string
	err  error
}

func (f *fakeSummarizer) Query(ctx context.Context, model, prompt string, tools []llmport.ToolDef) (string, error) {
	return f.text, f.err
}

func TestCompactUsesModelSummaryWhenAvailable(t *testing.T) {
	w := New(10, 1)
	for i := 0; i < 5; i++ {
		w.Append(RoleUser, strings.Repeat("y", 50), 0, 0, nil)
	}
	w.Compact(context.Background(), &fakeSummarizer{text: "model summary"}, "m")
	assert.Equal(t, "model summary", w.Summary)
}

func TestCompactFallsBackToHeuristicOnModelFailure(t *testing.T) {
	w := New(10, 1)
	for i := 0; i < 5; i++ {
		w.Append(RoleUser, strings.Repeat("y", 50), 0, 0, nil)
	}
	w.Compact(context.Background(), &fakeSummarizer{err: errors.New("boom")}, "m")
	assert.Contains(t, w.Summary, "Compacted context notes:")
}

func TestRelevanceRecencyMonotonic(t *testing.T) {
	w := New(100000, 0)
	for i := 0; i < 10; i++ {
		w.Append(RoleUser, fmt.Sprintf("needle content %d", i), 0, 0, nil)
	}
	relevant := w.relevantTurns("needle")
	require.NotEmpty(t, relevant)
	assert.LessOrEqual(t, len(relevant), maxRelevantTurns)
	// Every turn matches equally, so only the recency bonus and the
	// more-recent-first tie-break decide: the two oldest are cut.
	require.Len(t, relevant, maxRelevantTurns)
	assert.Equal(t, "needle content 2", relevant[0].Content)
	assert.Equal(t, "needle content 9", relevant[maxRelevantTurns-1].Content)
}

func TestRelevantTurnsRestoresChronologicalOrder(t *testing.T) {
	w := New(100000, 0)
	w.Append(RoleUser, "about apple", 0, 0, nil)
	w.Append(RoleAssistant, "irrelevant filler one", 0, 0, nil)
	w.Append(RoleUser, "about banana", 0, 0, nil)
	w.Append(RoleAssistant, "irrelevant filler two", 0, 0, nil)
	w.Append(RoleUser, "about apple again", 0, 0, nil)

	// The last four turns earn the recency bonus, so the fillers and the
	// banana turn are selected too; "about apple again" scores highest
	// but must still come back last.
	relevant := w.relevantTurns("apple")
	require.Len(t, relevant, 5)
	assert.Equal(t, "about apple", relevant[0].Content)
	assert.Equal(t, "about apple again", relevant[4].Content)
}

func TestBuildPromptIncludesSummaryAndRequest(t *testing.T) {
	w := New(100000, 4)
	w.Summary = "previous discussion"
	w.Append(RoleUser, "earlier turn", 0, 0, nil)

	prompt := w.BuildPrompt("what next?")
	assert.Contains(t, prompt, "previous discussion")
	assert.Contains(t, prompt, "earlier turn")
	assert.Contains(t, prompt, "what next?")
}

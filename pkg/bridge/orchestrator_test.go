package bridge

import (
	"context"
	"sync"
	"testing"

	"github.com/scoutcli/scout/pkg/cancel"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeRunner) RunTool(ctx context.Context, name, argumentsJSON string) (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return true, "ok: " + name
}

type capturingPrinter struct {
	mu    sync.Mutex
	lines []string
}

func (p *capturingPrinter) Print(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, text)
}

// scriptedBridge answers each incoming request with the next
// response in script, in order.
func scriptedBridge(t *testing.T, script []Response) string {
	t.Helper()
	i := 0
	return serverConn(t, func(c *Conn) {
		for {
			if _, err := c.ReadRequest(); err != nil {
				return
			}
			if i >= len(script) {
				return
			}
			resp := script[i]
			i++
			if err := c.SendResponse(resp); err != nil {
				return
			}
			if len(resp.ToolCalls) == 0 {
				return
			}
		}
	})
}

func TestOrchestratorEndsOnEmptyToolCalls(t *testing.T) {
	addr := scriptedBridge(t, []Response{
		{Text: "final answer", FinishReason: "stop"},
	})
	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	runner := &fakeRunner{}
	printer := &capturingPrinter{}
	o := &Orchestrator{Conn: conn, Runner: runner, Printer: printer, Cancel: cancel.New()}

	_, text, err := o.Run(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if text != "final answer" {
		t.Fatalf("unexpected final text: %q", text)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no tool calls, got %v", runner.calls)
	}
}

func TestOrchestratorExecutesToolCallsInOrder(t *testing.T) {
	addr := scriptedBridge(t, []Response{
		{Text: "using tools", FinishReason: "tool_calls", ToolCalls: []ToolCall{
			{ID: "1", Name: "read_file", Args: "{}"},
			{ID: "2", Name: "list_files", Args: "{}"},
		}},
		{Text: "done", FinishReason: "stop"},
	})
	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	runner := &fakeRunner{}
	o := &Orchestrator{Conn: conn, Runner: runner, Cancel: cancel.New()}

	messages, text, err := o.Run(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if text != "done" {
		t.Fatalf("unexpected final text: %q", text)
	}
	if len(runner.calls) != 2 || runner.calls[0] != "read_file" || runner.calls[1] != "list_files" {
		t.Fatalf("unexpected call order: %v", runner.calls)
	}
	toolMsgs := 0
	for _, m := range messages {
		if m.Role == "tool" {
			toolMsgs++
		}
	}
	if toolMsgs != 2 {
		t.Fatalf("expected 2 tool-role messages appended, got %d", toolMsgs)
	}
}

func TestOrchestratorRespectsCancellation(t *testing.T) {
	addr := scriptedBridge(t, []Response{
		{Text: "won't get here", FinishReason: "stop"},
	})
	conn, err := Dial(addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	flag := cancel.New()
	flag.Set()
	o := &Orchestrator{Conn: conn, Runner: &fakeRunner{}, Cancel: flag}

	_, text, err := o.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if text != "Operation cancelled by user." {
		t.Fatalf("expected cancellation text, got %q", text)
	}
}

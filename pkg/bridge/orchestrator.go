package bridge

import (
	"context"
	"fmt"

	"github.com/scoutcli/scout/pkg/cancel"
)

// maxIterations bounds the bridge-mode turn loop per spec.md §4.8.2;
// a well-behaved bridge ends a turn well before this by returning an
// empty tool_calls array.
const maxIterations = 15

// ToolRunner executes one tool call and reports its outcome; satisfied
// by *tools.Executor in production and a scripted fake in tests.
type ToolRunner interface {
	RunTool(ctx context.Context, name, argumentsJSON string) (ok bool, payload string)
}

// Printer receives model text for display, the UI port's hook; the
// orchestrator itself never writes to stdout.
type Printer interface {
	Print(text string)
}

// Orchestrator drives the agent side of bridge mode (spec.md §4.8.2):
// it sends the running message list to the bridge, prints whatever
// text came back, executes every tool call the bridge requested in
// order, appends each result as a tool-role message, and repeats until
// the bridge returns no tool calls or maxIterations is reached.
type Orchestrator struct {
	Conn    *Conn
	Runner  ToolRunner
	Printer Printer
	Cancel  *cancel.Flag
}

// Run drives one user request through bridge mode, returning the
// accumulated message history (for the caller to fold back into the
// context window) and the final response text.
func (o *Orchestrator) Run(ctx context.Context, messages []Message) ([]Message, string, error) {
	finalText := ""

	for i := 0; i < maxIterations; i++ {
		if o.Cancel != nil && o.Cancel.IsSet() {
			return messages, "Operation cancelled by user.", nil
		}

		req := Request{Messages: messages, MaxRemaining: maxIterations - i}
		if err := o.Conn.SendRequest(req); err != nil {
			return messages, "", err
		}
		res, err := o.Conn.ReadResponse()
		if err != nil {
			return messages, "", err
		}

		if res.Text != "" && o.Printer != nil {
			o.Printer.Print(res.Text)
		}
		finalText = res.Text

		if len(res.ToolCalls) == 0 {
			return messages, finalText, nil
		}

		for _, call := range res.ToolCalls {
			if o.Cancel != nil && o.Cancel.IsSet() {
				return messages, "Operation cancelled by user.", nil
			}
			ok, payload := o.Runner.RunTool(ctx, call.Name, call.Args)
			content := payload
			if !ok {
				content = fmt.Sprintf("error: %s", payload)
			}
			messages = append(messages, Message{Role: "tool", Content: content})
		}
	}

	return messages, finalText, fmt.Errorf("bridge: exceeded %d iterations without a final response", maxIterations)
}

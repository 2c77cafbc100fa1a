// Package agentloop implements the agent loop: the per-request state
// machine that wires the tool router, the tool executor, and the
// context window together, handling the soft-budget continuation,
// inline tool calls embedded in free text, and cooperative
// cancellation.
package agentloop

import (
	"context"
	"fmt"

	"github.com/scoutcli/scout/pkg/cancel"
	agentcontext "github.com/scoutcli/scout/pkg/context"
	"github.com/scoutcli/scout/pkg/llmport"
	"github.com/scoutcli/scout/pkg/router"
	"github.com/scoutcli/scout/pkg/todo"
	"github.com/scoutcli/scout/pkg/tools"
)

// softLimit is the step count beyond which the loop asks the model
// whether further work is needed instead of continuing silently.
const softLimit = 6

// maxSteps is a runaway backstop, not a behavior the model ever sees;
// a well-behaved request finishes via respond_text or a soft-budget
// return long before this is reached.
const maxSteps = 40

// Loop owns one workspace's routing and execution wiring and runs it
// against successive user requests. It holds no per-request state
// itself; that lives in runState, scoped to a single Run call.
type Loop struct {
	Router   *router.Router
	Executor *tools.Executor
	Todos    *todo.Store
	Cancel   *cancel.Flag
	Tools    []llmport.ToolDef
	Model    string
}

// Result is what one Run call produced.
type Result struct {
	Response     string
	ErrorCount   int
	ToolCalls    int
	TouchedPaths []string
}

type runState struct {
	step                    int
	toolCallCount           int
	justReceivedToolCall    bool
	touchedPaths            []string
	forcedRepoProbeDone     bool
	forcedMutationProbeDone bool
}

func (s *runState) recordTouched(path string) {
	if path == "" {
		return
	}
	for _, p := range s.touchedPaths {
		if p == path {
			return
		}
	}
	s.touchedPaths = append(s.touchedPaths, path)
}

// Run drives one user request to completion: route, execute, append,
// repeat, until a final answer, cancellation, or a provider error ends
// it. window accumulates the conversation and is mutated in place.
func (l *Loop) Run(ctx context.Context, window *agentcontext.Window, userInput string) Result {
	state := &runState{}
	prompt := window.BuildPrompt(userInput)

	for state.step = 0; state.step < maxSteps; state.step++ {
		if l.Cancel != nil && l.Cancel.IsSet() {
			window.Append(agentcontext.RoleAssistant, "Operation cancelled by user.", 0, 0, nil)
			return Result{Response: "Operation cancelled by user.", ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}
		}

		if state.step >= softLimit && !state.justReceivedToolCall {
			note := fmt.Sprintf("You have completed %d steps. Todo status: %s. If more steps are needed, make another tool call; else provide the final answer.", state.step, l.Todos.Render())
			budgetPrompt := prompt + "\n\n" + note
			text, err := l.Router.Client.Query(ctx, l.Model, budgetPrompt, l.Tools)
			if err != nil {
				return l.providerErrorResult(state, err)
			}
			if call := router.ParseInlineToolCall(text, l.hasToolName); call != nil {
				result, done := l.handleCall(ctx, window, state, call)
				if done {
					return result
				}
				prompt = window.BuildPrompt(userInput)
				continue
			}
			window.Append(agentcontext.RoleAssistant, text, 0, 0, nil)
			return Result{Response: text, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}
		}

		res, err := l.Router.Route(ctx, router.Input{
			Step:                    state.step,
			UserInput:               userInput,
			Prompt:                  prompt,
			TouchedPaths:            state.touchedPaths,
			ForcedRepoProbeDone:     state.forcedRepoProbeDone,
			ForcedMutationProbeDone: state.forcedMutationProbeDone,
		})
		if err != nil {
			return l.providerErrorResult(state, err)
		}
		if res.ConsumedRepoProbe {
			state.forcedRepoProbeDone = true
		}
		if res.ConsumedMutationProbe {
			state.forcedMutationProbeDone = true
		}

		if res.Call == nil {
			result, done := l.handleNoCall(ctx, window, state, userInput, prompt)
			if done {
				return result
			}
			prompt = window.BuildPrompt(userInput)
			continue
		}

		result, done := l.handleCall(ctx, window, state, res.Call)
		if done {
			return result
		}
		prompt = window.BuildPrompt(userInput)
	}

	window.Append(agentcontext.RoleAssistant, "Stopped after the maximum number of steps.", 0, 1, nil)
	return Result{Response: "Stopped after the maximum number of steps.", ErrorCount: 1, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}
}

// handleNoCall implements step 4: no tool selected.
func (l *Loop) handleNoCall(ctx context.Context, window *agentcontext.Window, state *runState, userInput, prompt string) (Result, bool) {
	if router.IsFileMutation(userInput) && state.toolCallCount == 0 {
		msg := "request looks like a file edit but I couldn't determine what to write; please describe the intended contents or point me at an example."
		window.Append(agentcontext.RoleAssistant, msg, 0, 1, nil)
		return Result{Response: msg, ErrorCount: 1, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}
	if router.IsMultiStepMutation(userInput) && router.HasUnmetRequiredEdits(userInput, state.touchedPaths) {
		msg := "I completed only part of the requested edits; the remaining targets still need changes."
		window.Append(agentcontext.RoleAssistant, msg, 0, 1, nil)
		return Result{Response: msg, ErrorCount: 1, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}

	text, err := l.Router.Client.Query(ctx, l.Model, prompt, l.Tools)
	if err != nil {
		return l.providerErrorResult(state, err), true
	}

	if calls := router.ExtractAllInlineToolCalls(text, l.hasToolName); len(calls) > 0 {
		l.runInlineCalls(ctx, window, state, calls)
		return Result{}, false
	}

	window.Append(agentcontext.RoleAssistant, text, 0, 0, nil)
	if state.step < softLimit {
		state.justReceivedToolCall = false
		return Result{}, false
	}
	return Result{Response: text, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
}

// handleCall implements step 5: a structured tool call was selected.
func (l *Loop) handleCall(ctx context.Context, window *agentcontext.Window, state *runState, call *llmport.ToolCall) (Result, bool) {
	if !l.hasToolName(call.Name) {
		text, err := l.Router.Client.Query(ctx, l.Model, fmt.Sprintf("The tool %q does not exist. Provide a final answer instead.", call.Name), l.Tools)
		if err != nil {
			return l.providerErrorResult(state, err), true
		}
		window.Append(agentcontext.RoleAssistant, text, 0, 1, nil)
		return Result{Response: text, ErrorCount: 1, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}

	if l.Cancel != nil && l.Cancel.IsSet() {
		window.Append(agentcontext.RoleAssistant, "Operation cancelled by user.", 0, 0, nil)
		return Result{Response: "Operation cancelled by user.", ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}

	res := l.Executor.Execute(ctx, call.Name, call.Arguments)
	state.toolCallCount++

	if res.Status == tools.StatusCancelled {
		window.Append(agentcontext.RoleAssistant, "Operation cancelled by user.", 1, 0, nil)
		return Result{Response: "Operation cancelled by user.", ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}
	if res.Status == tools.StatusError {
		msg := fmt.Sprintf("Tool execution failed at step %d (%s): %s", state.step, call.Name, res.Payload)
		window.Append(agentcontext.RoleAssistant, msg, 1, 1, nil)
		return Result{Response: msg, ErrorCount: 1, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}

	if tools.CanonicalName(call.Name) == "respond_text" {
		window.Append(agentcontext.RoleAssistant, res.Payload, 1, 0, touchedSlice(res.FilePath))
		return Result{Response: res.Payload, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}, true
	}

	state.recordTouched(res.FilePath)
	state.justReceivedToolCall = true
	eventLine := fmt.Sprintf("[tool %s] %dms, %d bytes\n%s", call.Name, res.DurationMs, res.Bytes, res.Payload)
	window.Append(agentcontext.RoleAssistant, eventLine, 1, 0, touchedSlice(res.FilePath))
	return Result{}, false
}

// runInlineCalls implements §4.8.1: every TOOL_CALL line found in a
// free-text response is executed and fed back; the iteration never
// terminates on this path regardless of outcome (P11).
func (l *Loop) runInlineCalls(ctx context.Context, window *agentcontext.Window, state *runState, calls []*llmport.ToolCall) {
	for _, call := range calls {
		res := l.Executor.Execute(ctx, call.Name, call.Arguments)
		state.toolCallCount++
		errCount := 0
		if res.Status != tools.StatusOK {
			errCount = 1
		} else {
			state.recordTouched(res.FilePath)
		}
		eventLine := fmt.Sprintf("[tool %s] %dms, %d bytes\n%s", call.Name, res.DurationMs, res.Bytes, res.Payload)
		window.Append(agentcontext.RoleAssistant, eventLine, 1, errCount, touchedSlice(res.FilePath))
	}
	state.justReceivedToolCall = true
}

func (l *Loop) hasToolName(name string) bool {
	for _, t := range l.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (l *Loop) providerErrorResult(state *runState, err error) Result {
	return Result{Response: err.Error(), ErrorCount: 1, ToolCalls: state.toolCallCount, TouchedPaths: state.touchedPaths}
}

func touchedSlice(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}

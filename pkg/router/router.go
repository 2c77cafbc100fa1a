package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/scoutcli/scout/pkg/llmport"
)

// Input carries everything one routing attempt needs to know about the
// current iteration; it is owned by the caller (the agent loop), never
// mutated here.
type Input struct {
	Step                    int
	UserInput               string
	Prompt                  string
	TouchedPaths            []string
	ForcedRepoProbeDone     bool
	ForcedMutationProbeDone bool
}

// Result is what one routing attempt decided, plus which forced-probe
// stages it consumed so the caller can update its own flags.
type Result struct {
	Call                *llmport.ToolCall
	ConsumedRepoProbe   bool
	ConsumedMutationProbe bool
}

// Router asks an llmport.Client for a tool call, escalating through the
// staged prompts the spec describes when the model won't commit.
type Router struct {
	Client llmport.Client
	Model  string
	Tools  []llmport.ToolDef
}

// Route runs the staged decision process for one iteration.
func (r *Router) Route(ctx context.Context, in Input) (Result, error) {
	// Stage 1: standard routing.
	res, err := r.Client.InferToolCall(ctx, r.Model, in.Prompt, r.Tools, false)
	if err != nil {
		return Result{}, err
	}
	if res.Call != nil {
		return Result{Call: res.Call}, nil
	}

	isFirstStep := in.Step <= 1

	// Stage 2: forced repo-probe on the first step of a repo-specific
	// question.
	if isFirstStep && !in.ForcedRepoProbeDone && IsRepoSpecific(in.UserInput) {
		strict := in.Prompt + "\n\nYou must call an inspection tool (list_files or read_file) before answering."
		res, err := r.Client.InferToolCall(ctx, r.Model, strict, r.Tools, true)
		if err != nil {
			return Result{}, err
		}
		if res.Call != nil {
			return Result{Call: res.Call, ConsumedRepoProbe: true}, nil
		}
		return Result{ConsumedRepoProbe: true}, nil
	}

	// Stage 3: forced mutation-probe on the first step of a
	// file-mutation question.
	if isFirstStep && !in.ForcedMutationProbeDone && IsFileMutation(in.UserInput) {
		strict := in.Prompt + "\n\nYou must call a write-capable tool (write_file, replace_in_file, or apply_patch) before answering."
		res, err := r.Client.InferToolCall(ctx, r.Model, strict, r.Tools, true)
		if err != nil {
			return Result{}, err
		}
		if res.Call != nil {
			return Result{Call: res.Call, ConsumedMutationProbe: true}, nil
		}
		return Result{ConsumedMutationProbe: true}, nil
	}

	// Stage 4: text fallback for mutation requests.
	if IsFileMutation(in.UserInput) {
		if call, err := r.textFallback(ctx, in.Prompt); err != nil {
			return Result{}, err
		} else if call != nil {
			return Result{Call: call}, nil
		}
	}

	// Stage 5: completion probe for multi-step mutations with unmet
	// required targets.
	if IsMultiStepMutation(in.UserInput) && HasUnmetRequiredEdits(in.UserInput, in.TouchedPaths) {
		unmet := unmetTargets(in.UserInput, in.TouchedPaths)
		completion := fmt.Sprintf("%s\n\nThe following targets still need changes: %s. Call another tool to address them.",
			in.Prompt, strings.Join(unmet, ", "))
		res, err := r.Client.InferToolCall(ctx, r.Model, completion, r.Tools, true)
		if err != nil {
			return Result{}, err
		}
		if res.Call != nil {
			return Result{Call: res.Call}, nil
		}
		if call, err := r.textFallback(ctx, completion); err != nil {
			return Result{}, err
		} else if call != nil {
			return Result{Call: call}, nil
		}
	}

	return Result{}, nil
}

// textFallback prompts the model to emit exactly one TOOL_CALL line
// and parses it, rejecting unknown tool names.
func (r *Router) textFallback(ctx context.Context, prompt string) (*llmport.ToolCall, error) {
	instruction := prompt + "\n\nRespond with exactly one line: TOOL_CALL <name> <json-object>. Nothing else."
	text, err := r.Client.Query(ctx, r.Model, instruction, r.Tools)
	if err != nil {
		return nil, err
	}
	return ParseInlineToolCall(text, r.hasToolName), nil
}

func (r *Router) hasToolName(name string) bool {
	for _, t := range r.Tools {
		if t.Name == name {
			return true
		}
	}
	return false
}

func unmetTargets(userInput string, touchedPaths []string) []string {
	var unmet []string
	for _, target := range RequiredTargets(userInput) {
		satisfied := false
		for _, p := range touchedPaths {
			if TargetSatisfied(target, p) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			unmet = append(unmet, target)
		}
	}
	return unmet
}

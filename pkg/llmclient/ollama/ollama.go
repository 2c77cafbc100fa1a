// Package ollama is a concrete, fully-offline implementation of
// llmport.Client (C9) backed by a local Ollama daemon — used for local
// development and deterministic integration tests without network
// credentials (spec.md §4.9a / SPEC_FULL.md C15).
//
// Grounded on the teacher's pkg/llm/ollama_api.go (ClientFromEnvironment,
// ChatRequest/ChatResponse shape, streaming response callback) and
// pkg/agent/fallback_parser.go (recovering a tool call from inline JSON
// when a provider does not reliably emit a structured one).
package ollama

import (
	"context"
	"encoding/json"
	"strings"

	ollamaapi "github.com/ollama/ollama/api"

	"github.com/scoutcli/scout/pkg/llmport"
)

// Client adapts a local Ollama daemon to llmport.Client.
type Client struct {
	api *ollamaapi.Client
}

// New constructs a Client from the OLLAMA_HOST environment (or the
// daemon's default localhost address), matching the teacher's
// ollama.ClientFromEnvironment() usage.
func New() (*Client, error) {
	c, err := ollamaapi.ClientFromEnvironment()
	if err != nil {
		return nil, llmport.NewError(llmport.ProviderError, "could not create ollama client", err)
	}
	return &Client{api: c}, nil
}

// Query asks the model for free-form text given a prompt and the tools
// it may mention (advisory only; Query never forces a tool call).
func (c *Client) Query(ctx context.Context, model, prompt string, tools []llmport.ToolDef) (string, error) {
	req := &ollamaapi.ChatRequest{
		Model:    model,
		Messages: []ollamaapi.Message{{Role: "user", Content: prompt}},
		Tools:    toOllamaTools(tools),
		Options: map[string]interface{}{
			"temperature": 0.1,
		},
	}

	var out strings.Builder
	err := c.api.Chat(ctx, req, func(res ollamaapi.ChatResponse) error {
		out.WriteString(res.Message.Content)
		return nil
	})
	if err != nil {
		return "", llmport.NewError(llmport.ProviderError, "ollama chat failed", err)
	}
	if out.Len() == 0 {
		return "", llmport.NewError(llmport.MissingChoices, "ollama returned no content", nil)
	}
	return out.String(), nil
}

// InferToolCall asks the model to choose a tool call. Ollama's
// tool-calling is best-effort whatever force says, so on a response
// with no structured tool_calls entry this falls back to scanning the
// returned text for an inline TOOL_CALL line (see inlineCallFromText),
// matching the teacher's fallback_parser recovery path for providers
// that don't emit structured calls reliably.
func (c *Client) InferToolCall(ctx context.Context, model, prompt string, tools []llmport.ToolDef, force bool) (llmport.InferResult, error) {
	req := &ollamaapi.ChatRequest{
		Model:    model,
		Messages: []ollamaapi.Message{{Role: "user", Content: prompt}},
		Tools:    toOllamaTools(tools),
		Options: map[string]interface{}{
			"temperature": 0.0,
		},
	}

	var msg ollamaapi.Message
	err := c.api.Chat(ctx, req, func(res ollamaapi.ChatResponse) error {
		if len(res.Message.ToolCalls) > 0 {
			msg.ToolCalls = res.Message.ToolCalls
		}
		msg.Content += res.Message.Content
		return nil
	})
	if err != nil {
		return llmport.InferResult{}, llmport.NewError(llmport.ProviderError, "ollama chat failed", err)
	}

	if len(msg.ToolCalls) > 0 {
		call, perr := toolCallFromOllama(msg.ToolCalls[0])
		if perr != nil {
			return llmport.InferResult{}, perr
		}
		return llmport.InferResult{Call: call}, nil
	}

	if call := inlineCallFromText(msg.Content, tools); call != nil {
		return llmport.InferResult{Call: call, Thinking: msg.Content}, nil
	}

	return llmport.InferResult{Thinking: msg.Content}, nil
}

// ParseFunctionCall decodes a single raw provider-specific tool-call
// payload. Ollama's tool_calls entries are JSON objects shaped like
// {"function": {"name": "...", "arguments": {...}}}.
func (c *Client) ParseFunctionCall(raw string) (*llmport.ToolCall, error) {
	var wire struct {
		Function struct {
			Name      string                 `json:"name"`
			Arguments map[string]interface{} `json:"arguments"`
		} `json:"function"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, llmport.NewError(llmport.ResponseParseError, "could not decode ollama function call", err)
	}
	if wire.Function.Name == "" {
		return nil, llmport.NewError(llmport.ResponseParseError, "ollama function call missing a name", nil)
	}
	argsJSON, err := json.Marshal(wire.Function.Arguments)
	if err != nil {
		return nil, llmport.NewError(llmport.ResponseParseError, "could not re-encode ollama arguments", err)
	}
	return &llmport.ToolCall{Name: wire.Function.Name, Arguments: string(argsJSON)}, nil
}

func toolCallFromOllama(tc ollamaapi.ToolCall) (*llmport.ToolCall, *llmport.Error) {
	argsJSON, err := json.Marshal(tc.Function.Arguments)
	if err != nil {
		return nil, llmport.NewError(llmport.ResponseParseError, "could not encode ollama tool call arguments", err)
	}
	return &llmport.ToolCall{Name: tc.Function.Name, Arguments: string(argsJSON)}, nil
}

func toOllamaTools(tools []llmport.ToolDef) []ollamaapi.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]ollamaapi.Tool, len(tools))
	for i, t := range tools {
		tool := ollamaapi.Tool{Type: "function"}
		tool.Function.Name = t.Name
		tool.Function.Description = t.Description
		if t.Schema != nil {
			if b, err := json.Marshal(t.Schema); err == nil {
				_ = json.Unmarshal(b, &tool.Function.Parameters)
			}
		}
		out[i] = tool
	}
	return out
}

// inlineCallFromText recovers a TOOL_CALL line from free text when the
// daemon answered in prose instead of emitting a structured tool call.
// It uses pkg/router's TOOL_CALL <name> <json> line shape but accepts
// the first such line naming a known tool anywhere in the text, not
// only the first non-blank line as the router's text fallback does.
func inlineCallFromText(text string, tools []llmport.ToolDef) *llmport.ToolCall {
	has := func(name string) bool {
		for _, t := range tools {
			if t.Name == name {
				return true
			}
		}
		return false
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "TOOL_CALL ") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "TOOL_CALL "))
		idx := strings.IndexByte(rest, '{')
		if idx < 0 {
			continue
		}
		name := strings.TrimSpace(rest[:idx])
		if name == "" || !has(name) {
			continue
		}
		return &llmport.ToolCall{Name: name, Arguments: rest[idx:]}
	}
	return nil
}

var _ llmport.Client = (*Client)(nil)

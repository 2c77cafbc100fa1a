// Package llmport defines the boundary between the agent core and
// whatever model provider serves it. Nothing in the core imports a
// concrete provider package; it only depends on Client.
package llmport

import "context"

// ToolDef is the immutable descriptor the router and the local adapters
// hand to a provider so it knows what it may call.
type ToolDef struct {
	Name        string
	Description string
	Schema      map[string]interface{}
}

// ToolCall is what a provider chooses to invoke: a tool name plus its
// UTF-8 JSON argument object, serialized as a string so callers can
// json.Unmarshal into whatever shape they need.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// InferResult is the result of asking a provider to pick a tool call.
type InferResult struct {
	Call     *ToolCall
	Thinking string
}

// Client is the capability the agent core is parameterized over. Every
// concrete provider — remote HTTP APIs, a local Ollama daemon, a
// scripted fake for tests — implements this same three-operation
// surface.
type Client interface {
	// Query asks the model for free-form text given a prompt and the
	// tools it may mention (but not necessarily call).
	Query(ctx context.Context, model, prompt string, tools []ToolDef) (string, error)

	// InferToolCall asks the model to choose a tool call. When force is
	// true the caller is telling the provider a tool call is mandatory
	// if the provider is capable of guaranteeing one.
	InferToolCall(ctx context.Context, model, prompt string, tools []ToolDef, force bool) (InferResult, error)

	// ParseFunctionCall decodes a single raw provider-specific tool-call
	// payload into a ToolCall, used when a provider returns its function
	// call as an opaque JSON blob rather than a structured response.
	ParseFunctionCall(raw string) (*ToolCall, error)
}

// FailureKind classifies the three ways a Client operation can fail, so
// the agent loop can surface a consistent, user-visible error string
// regardless of which concrete Client produced it.
type FailureKind int

const (
	// ProviderError covers transport/auth/rate-limit failures from the
	// provider itself.
	ProviderError FailureKind = iota
	// ResponseParseError covers a response the provider returned but
	// this adapter could not decode.
	ResponseParseError
	// MissingChoices covers a well-formed response with no usable
	// completion/choice in it.
	MissingChoices
)

func (k FailureKind) String() string {
	switch k {
	case ProviderError:
		return "ProviderError"
	case ResponseParseError:
		return "ResponseParseError"
	case MissingChoices:
		return "MissingChoices"
	default:
		return "UnknownFailure"
	}
}

// Error wraps a FailureKind with the underlying cause so callers can
// both pattern-match on the kind and retain the original error chain.
type Error struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError constructs a Client-boundary error of the given kind.
func NewError(kind FailureKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

package tools

import "fmt"

// Kind classifies a tool-execution failure: the executor reports
// Cancelled as StatusCancelled and the other three kinds as
// StatusError.
type Kind int

const (
	InvalidToolName Kind = iota
	InvalidArgument
	IoError
	Cancelled
)

// Error is the error type every tool in this package returns on
// failure, carrying enough structure for the caller to decide whether
// to keep looping.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func invalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: InvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func ioError(format string, args ...interface{}) *Error {
	return &Error{Kind: IoError, Message: fmt.Sprintf(format, args...)}
}

// sandboxEscapeMessage and fileMissingMessage mirror the exact wording
// the registered tool error sentinels use so callers can pattern-match
// on tool output as documented.
func sandboxEscapeMessage(path string) string {
	return fmt.Sprintf("WTF? '%s' is outside the workspace!", path)
}

func fileMissingMessage(path string) string {
	return fmt.Sprintf("Bruh, file '%s' doesn't exist.", path)
}

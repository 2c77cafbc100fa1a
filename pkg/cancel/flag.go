// Package cancel implements the process-wide cooperative cancellation
// flag polled by the agent loop and its tool executions.
package cancel

import "sync/atomic"

// Flag is a cooperative, concurrency-safe cancellation signal. It is not
// tied to a context.Context because it must survive across the several
// sequential LLM/tool round trips of a single user turn and be resettable
// between turns.
type Flag struct {
	v atomic.Bool
}

// New returns a cleared cancellation flag.
func New() *Flag {
	return &Flag{}
}

// Set raises the flag. Safe to call from any goroutine, including a
// terminal escape-key listener running concurrently with the agent loop.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Reset lowers the flag, done once per new user-request cycle.
func (f *Flag) Reset() {
	f.v.Store(false)
}

// IsSet reports whether cancellation has been requested.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

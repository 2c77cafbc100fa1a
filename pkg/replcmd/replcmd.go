// Package replcmd parses slash-commands typed at the REPL (C10). It is
// a small, pure parser the CLI harness consumes directly; the agent
// core never sees raw slash syntax, only the resulting Command.
package replcmd

import "strings"

// Kind identifies which REPL-level action a parsed command requests.
type Kind int

const (
	// None means the input was not a slash-command at all; the caller
	// should treat it as an ordinary user turn.
	None Kind = iota
	Compact
	Clear
	Todo
	Cancel
	Help
	Unknown
)

// Command is the result of parsing one line of REPL input.
type Command struct {
	Kind Kind
	// Raw is the original input, trimmed.
	Raw string
	// Args are the whitespace-split tokens following the command name.
	Args []string
}

var known = map[string]Kind{
	"compact": Compact,
	"clear":   Clear,
	"todo":    Todo,
	"cancel":  Cancel,
	"help":    Help,
}

// Parse inspects one line of REPL input. Supports both "/" and "!"
// prefixes, matching the teacher's command-registry convention. A line
// with no recognized prefix returns Kind == None so the caller routes
// it to the agent loop as an ordinary user turn.
func Parse(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Kind: None, Raw: trimmed}
	}
	if trimmed[0] != '/' && trimmed[0] != '!' {
		return Command{Kind: None, Raw: trimmed}
	}

	body := strings.TrimSpace(trimmed[1:])
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Command{Kind: Unknown, Raw: trimmed}
	}

	name := strings.ToLower(fields[0])
	kind, ok := known[name]
	if !ok {
		return Command{Kind: Unknown, Raw: trimmed, Args: fields[1:]}
	}
	return Command{Kind: kind, Raw: trimmed, Args: fields[1:]}
}

// String names a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Compact:
		return "compact"
	case Clear:
		return "clear"
	case Todo:
		return "todo"
	case Cancel:
		return "cancel"
	case Help:
		return "help"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

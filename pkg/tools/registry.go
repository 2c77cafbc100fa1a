// Package tools implements the tool registry and executor: the static
// catalog of descriptors the router chooses from, and the dispatcher
// that runs a named tool against a sandboxed workspace.
package tools

import (
	"fmt"

	"github.com/scoutcli/scout/pkg/llmport"
)

// Registry is an ordered, name-unique catalog of tool descriptors.
type Registry struct {
	order []string
	defs  map[string]llmport.ToolDef
}

// NewRegistry builds the standard catalog required by the agent: bash,
// bounded reads, directory listing, whole-file writes, strict replace,
// patch application, the todo operations, status publishing, file
// outlining, and a plain-text final answer tool.
func NewRegistry() *Registry {
	r := &Registry{defs: map[string]llmport.ToolDef{}}

	r.add(llmport.ToolDef{
		Name:        "bash",
		Description: "Run a shell command via /bin/sh -c and return its combined output.",
		Schema: schema(map[string]prop{
			"command": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "read_file",
		Description: "Read a bounded window of a file: skip offset bytes, return up to limit bytes.",
		Schema: schema(map[string]prop{
			"path":   {Type: "string", Required: true},
			"offset": {Type: "integer"},
			"limit":  {Type: "integer"},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "list_files",
		Description: "List a directory (ls -la), filtered by workspace ignore rules.",
		Schema: schema(map[string]prop{
			"path": {Type: "string"},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "write_file",
		Description: "Replace a file's contents, creating parent directories as needed.",
		Schema: schema(map[string]prop{
			"path":    {Type: "string", Required: true},
			"content": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "replace_in_file",
		Description: "Strict text replacement with a line-trimmed fuzzy fallback and a size-gated confirmation.",
		Schema: schema(map[string]prop{
			"path":    {Type: "string", Required: true},
			"find":    {Type: "string", Required: true},
			"replace": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "apply_patch",
		Description: "Apply a *** Begin Patch envelope describing Add/Delete/Update/Move operations.",
		Schema: schema(map[string]prop{
			"patchText": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "respond_text",
		Description: "Return a final plain-text answer and end the current turn.",
		Schema: schema(map[string]prop{
			"text": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "todo_add",
		Description: "Add a new pending todo item.",
		Schema: schema(map[string]prop{
			"description": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "todo_update",
		Description: "Update the status of a todo item.",
		Schema: schema(map[string]prop{
			"id":     {Type: "string", Required: true},
			"status": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "todo_list",
		Description: "Render the current todo list.",
		Schema:      schema(map[string]prop{}),
	})
	r.add(llmport.ToolDef{
		Name:        "todo_remove",
		Description: "Remove a todo item by id.",
		Schema: schema(map[string]prop{
			"id": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "todo_clear_done",
		Description: "Remove every completed todo item.",
		Schema:      schema(map[string]prop{}),
	})
	r.add(llmport.ToolDef{
		Name:        "set_status",
		Description: "Publish a human-readable current-activity string.",
		Schema: schema(map[string]prop{
			"status": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "get_file_outline",
		Description: "Return a structural outline of a source file by heuristic line-prefix scan.",
		Schema: schema(map[string]prop{
			"path": {Type: "string", Required: true},
		}),
	})
	r.add(llmport.ToolDef{
		Name:        "web_fetch",
		Description: "HTTP GET a URL and return a cleaned, whitespace-collapsed text extract.",
		Schema: schema(map[string]prop{
			"url": {Type: "string", Required: true},
		}),
	})

	return r
}

func (r *Registry) add(def llmport.ToolDef) {
	if _, exists := r.defs[def.Name]; exists {
		panic(fmt.Sprintf("tool %q registered twice", def.Name))
	}
	r.order = append(r.order, def.Name)
	r.defs[def.Name] = def
}

// Get looks up a tool descriptor by its canonical name; aliases are not
// resolved here (Has and the executor resolve them).
func (r *Registry) Get(name string) (llmport.ToolDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Has reports whether name (or one of its documented aliases) is a
// known tool.
func (r *Registry) Has(name string) bool {
	if _, ok := r.defs[canonicalName(name)]; ok {
		return true
	}
	_, ok := r.defs[name]
	return ok
}

// All returns the descriptors in registration order.
func (r *Registry) All() []llmport.ToolDef {
	out := make([]llmport.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// CanonicalName exposes canonicalName to callers outside this package
// (the agent loop needs it to recognize respond_text regardless of the
// alias the router or model produced).
func CanonicalName(name string) string {
	return canonicalName(name)
}

// canonicalName maps a tool name alias (e.g. "read", "edit", "list",
// "write") onto its registered canonical name.
func canonicalName(name string) string {
	switch name {
	case "read":
		return "read_file"
	case "list":
		return "list_files"
	case "write":
		return "write_file"
	case "edit":
		return "replace_in_file"
	default:
		return name
	}
}

type prop struct {
	Type     string
	Required bool
}

// schema builds a minimal JSON-Schema object type from a property map
// for the descriptors handed to the provider. The executor does not
// validate arguments against it; each tool checks its own arguments.
func schema(props map[string]prop) map[string]interface{} {
	properties := map[string]interface{}{}
	var required []string
	for name, p := range props {
		properties[name] = map[string]interface{}{"type": p.Type}
		if p.Required {
			required = append(required, name)
		}
	}
	s := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

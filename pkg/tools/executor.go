package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/scoutcli/scout/pkg/cancel"
	"github.com/scoutcli/scout/pkg/sandbox"
	"github.com/scoutcli/scout/pkg/scoutlog"
	"github.com/scoutcli/scout/pkg/todo"
)

const maxForwardedPayload = 4096

// Status is the outcome of one tool execution.
type Status string

const (
	StatusOK        Status = "ok"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Result is what the executor hands back to the agent loop.
type Result struct {
	Status     Status
	Bytes      int
	DurationMs int64
	FilePath   string
	Payload    string
}

// StatusPublisher is the UI port's hook for the set_status tool.
type StatusPublisher interface {
	PublishStatus(s string)
}

// Executor dispatches a named tool call with a JSON argument blob
// against one sandboxed workspace.
type Executor struct {
	Registry *Registry
	Sandbox  *sandbox.Sandbox
	Todos    *todo.Store
	Ignore   *IgnoreFilter
	Cancel   *cancel.Flag
	Logger   *scoutlog.Logger
	Status   StatusPublisher
}

// Execute runs the named tool (or alias) with the given JSON argument
// string, returning bytes/duration/touched-path bookkeeping the loop
// needs regardless of success or failure.
func (e *Executor) Execute(ctx context.Context, name, argumentsJSON string) Result {
	start := time.Now()
	name = canonicalName(name)

	if e.Cancel != nil && e.Cancel.IsSet() {
		return Result{Status: StatusCancelled, Payload: "cancelled", DurationMs: sinceMs(start)}
	}
	if !e.Registry.Has(name) {
		return Result{Status: StatusError, Payload: fmt.Sprintf("unknown tool %q", name), DurationMs: sinceMs(start)}
	}

	args, aerr := decodeArgs(argumentsJSON)
	if aerr != nil {
		return e.errResult(aerr, start)
	}

	payload, filePath, err := e.dispatch(ctx, name, args)
	dur := sinceMs(start)
	if err != nil {
		if e.Logger != nil {
			e.Logger.LogError(err)
		}
		return Result{Status: errStatus(err), Payload: err.Error(), DurationMs: dur, FilePath: filePath}
	}

	forwarded := payload
	if len(forwarded) > maxForwardedPayload {
		forwarded = forwarded[:maxForwardedPayload]
	}
	return Result{
		Status:     StatusOK,
		Bytes:      len(payload),
		DurationMs: dur,
		FilePath:   filePath,
		Payload:    forwarded,
	}
}

func (e *Executor) dispatch(ctx context.Context, name string, args map[string]interface{}) (string, string, *Error) {
	switch name {
	case "bash":
		command, err := requireString(args, "command")
		if err != nil {
			return "", "", err
		}
		out, err := runBash(ctx, command, e.Cancel)
		return out, "", err

	case "read_file":
		path, err := requireString(args, "path", "filePath", "file_path")
		if err != nil {
			return "", "", err
		}
		resolved, rerr := e.resolve(path)
		if rerr != nil {
			return "", path, rerr
		}
		offset, err := firstOfInt(args, 0, "offset")
		if err != nil {
			return "", resolved, err
		}
		limit, err := firstOfInt(args, defaultReadLimit, "limit")
		if err != nil {
			return "", resolved, err
		}
		out, err := readFileBounded(resolved, offset, limit)
		return out, resolved, err

	case "list_files":
		path, _ := firstOfString(args, "path")
		if path == "" {
			path = "."
		}
		resolved, rerr := e.resolve(path)
		if rerr != nil {
			return "", path, rerr
		}
		out, err := runBash(ctx, "ls -la "+quoteArg(resolved), e.Cancel)
		if err != nil {
			return "", resolved, err
		}
		return e.filterListing(resolved, out), resolved, nil

	case "write_file":
		path, err := requireString(args, "path")
		if err != nil {
			return "", "", err
		}
		content, err := requireString(args, "content")
		if err != nil {
			return "", "", err
		}
		resolved, rerr := e.resolve(path)
		if rerr != nil {
			return "", path, rerr
		}
		return e.writeFile(resolved, content)

	case "replace_in_file":
		path, err := requireString(args, "path")
		if err != nil {
			return "", "", err
		}
		resolved, rerr := e.resolve(path)
		if rerr != nil {
			return "", path, rerr
		}
		find, err := requireString(args, "find", "oldString", "old_string", "old")
		if err != nil {
			return "", resolved, err
		}
		replace, ok := firstOfString(args, "replace", "newString", "new_string", "new")
		if !ok {
			return "", resolved, invalidArgument("missing required argument %q", "replace")
		}
		replaceAll := firstOfBool(args, false, "replaceAll", "all")
		confirm := firstOfBool(args, false, "confirm")
		return e.replaceInFile(resolved, find, replace, replaceAll, confirm)

	case "apply_patch":
		patchText, err := requireString(args, "patchText")
		if err != nil {
			return "", "", err
		}
		return e.applyPatch(patchText)

	case "respond_text":
		text, err := requireString(args, "text", "message", "summary", "content")
		if err != nil {
			return "", "", err
		}
		return text, "", nil

	case "todo_add":
		desc, err := requireString(args, "description")
		if err != nil {
			return "", "", err
		}
		item := e.Todos.Add(desc)
		return fmt.Sprintf("added todo %s", item.ID), "", nil

	case "todo_update":
		id, err := requireString(args, "id")
		if err != nil {
			return "", "", err
		}
		status, err := requireString(args, "status")
		if err != nil {
			return "", "", err
		}
		_, ok := e.Todos.Update(id, todo.Status(status))
		if !ok {
			return "", "", invalidArgument("no todo with id %q", id)
		}
		return fmt.Sprintf("updated todo %s to %s", id, status), "", nil

	case "todo_list":
		return e.Todos.Render(), "", nil

	case "todo_remove":
		id, err := requireString(args, "id")
		if err != nil {
			return "", "", err
		}
		if !e.Todos.Remove(id) {
			return "", "", invalidArgument("no todo with id %q", id)
		}
		return fmt.Sprintf("removed todo %s", id), "", nil

	case "todo_clear_done":
		n := e.Todos.ClearDone()
		return fmt.Sprintf("cleared %d completed todos", n), "", nil

	case "set_status":
		status, err := requireString(args, "status")
		if err != nil {
			return "", "", err
		}
		if e.Status != nil {
			e.Status.PublishStatus(status)
		}
		return "status published", "", nil

	case "get_file_outline":
		path, err := requireString(args, "path")
		if err != nil {
			return "", "", err
		}
		resolved, rerr := e.resolve(path)
		if rerr != nil {
			return "", path, rerr
		}
		out, err := fileOutline(resolved)
		return out, resolved, err

	case "web_fetch":
		url, err := requireString(args, "url")
		if err != nil {
			return "", "", err
		}
		out, err := webFetch(url, e.Cancel)
		return out, "", err

	default:
		return "", "", &Error{Kind: InvalidToolName, Message: fmt.Sprintf("unknown tool %q", name)}
	}
}

func (e *Executor) resolve(path string) (string, *Error) {
	resolved, err := e.Sandbox.Resolve(path)
	if err != nil {
		return "", &Error{Kind: InvalidArgument, Message: sandboxEscapeMessage(path)}
	}
	return resolved, nil
}

func (e *Executor) writeFile(resolved, content string) (string, string, *Error) {
	before := ""
	if data, err := os.ReadFile(resolved); err == nil {
		before = string(data)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", resolved, ioError("create parent directories for %s: %v", resolved, err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return "", resolved, ioError("write %s: %v", resolved, err)
	}

	diff := renderUnifiedDiff(resolved, before, content)
	out := fmt.Sprintf("Wrote %s.\n\n%s", resolved, diff)

	if strings.HasSuffix(resolved, ".zig") {
		out += zigFmtDiagnostics(resolved)
	}
	return out, resolved, nil
}

func (e *Executor) replaceInFile(resolved, find, replace string, replaceAll, confirm bool) (string, string, *Error) {
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", resolved, &Error{Kind: IoError, Message: fileMissingMessage(resolved)}
	}
	original := string(data)

	updated, rerr := strictReplace(resolved, original, find, replace, replaceAll, confirm)
	if rerr != nil {
		return "", resolved, rerr
	}

	if err := os.WriteFile(resolved, []byte(updated), 0o644); err != nil {
		return "", resolved, ioError("write %s: %v", resolved, err)
	}

	diff := renderUnifiedDiff(resolved, original, updated)
	out := fmt.Sprintf("Edited %s.\n\n%s", resolved, diff)
	if strings.HasSuffix(resolved, ".zig") {
		out += zigFmtDiagnostics(resolved)
	}
	return out, resolved, nil
}

func (e *Executor) applyPatch(patchText string) (string, string, *Error) {
	ops, perr := parsePatch(patchText)
	if perr != nil {
		return "", "", perr
	}

	// Resolve and validate every path before touching disk so a
	// mid-patch failure never leaves a partial write (P5).
	type resolvedOp struct {
		op   patchOp
		path string
	}
	resolvedOps := make([]resolvedOp, 0, len(ops))
	for _, op := range ops {
		resolved, rerr := e.resolve(op.path)
		if rerr != nil {
			return "", "", rerr
		}
		resolvedOps = append(resolvedOps, resolvedOp{op: op, path: resolved})
	}

	type pendingWrite struct {
		path     string
		content  string
		delete   bool
		renameTo string
	}
	var pending []pendingWrite

	for _, ro := range resolvedOps {
		switch ro.op.kind {
		case opAdd:
			pending = append(pending, pendingWrite{path: ro.path, content: ro.op.addText})
		case opDelete:
			pending = append(pending, pendingWrite{path: ro.path, delete: true})
		case opUpdate:
			original, err := os.ReadFile(ro.path)
			if err != nil {
				return "", "", &Error{Kind: IoError, Message: fileMissingMessage(ro.path)}
			}
			updated, uerr := applyUpdate(string(original), ro.op)
			if uerr != nil {
				return "", "", uerr
			}
			w := pendingWrite{path: ro.path, content: updated}
			if ro.op.moveTo != "" {
				newPath, rerr := e.resolve(ro.op.moveTo)
				if rerr != nil {
					return "", "", rerr
				}
				w.renameTo = newPath
			}
			pending = append(pending, w)
		}
	}

	for _, w := range pending {
		switch {
		case w.delete:
			if err := os.Remove(w.path); err != nil {
				return "", "", ioError("delete %s: %v", w.path, err)
			}
		case w.renameTo != "":
			if err := os.MkdirAll(filepath.Dir(w.renameTo), 0o755); err != nil {
				return "", "", ioError("create parent directories for %s: %v", w.renameTo, err)
			}
			if err := os.WriteFile(w.renameTo, []byte(w.content), 0o644); err != nil {
				return "", "", ioError("write %s: %v", w.renameTo, err)
			}
			if err := os.Remove(w.path); err != nil {
				return "", "", ioError("remove old path %s: %v", w.path, err)
			}
		default:
			if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
				return "", "", ioError("create parent directories for %s: %v", w.path, err)
			}
			if err := os.WriteFile(w.path, []byte(w.content), 0o644); err != nil {
				return "", "", ioError("write %s: %v", w.path, err)
			}
		}
	}

	return summarizePatch(ops), "", nil
}

func (e *Executor) filterListing(dir, lsOutput string) string {
	if e.Ignore == nil {
		return lsOutput
	}
	lines := strings.Split(lsOutput, "\n")
	var kept []string
	for _, l := range lines {
		fields := strings.Fields(l)
		name := ""
		if len(fields) > 0 {
			name = fields[len(fields)-1]
		}
		if name == "" || name == "." || name == ".." {
			kept = append(kept, l)
			continue
		}
		rel, err := filepath.Rel(e.Sandbox.Root(), filepath.Join(dir, name))
		if err == nil && e.Ignore.Ignores(rel) {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// zigFmtDiagnostics runs `zig fmt --check` on path and appends the
// result. Per the error handling design, formatter diagnostics are
// never errors; they're informational lines appended to a success
// message.
func zigFmtDiagnostics(path string) string {
	out, err := exec.Command("zig", "fmt", "--check", path).CombinedOutput()
	if err == nil {
		return "\n\n[zig fmt: no issues]"
	}
	return "\n\n[zig fmt --check]\n" + string(out)
}

func quoteArg(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sinceMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func errStatus(err *Error) Status {
	if err.Kind == Cancelled {
		return StatusCancelled
	}
	return StatusError
}

func (e *Executor) errResult(err *Error, start time.Time) Result {
	return Result{Status: errStatus(err), Payload: err.Error(), DurationMs: sinceMs(start)}
}

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scoutcli/scout/pkg/agentloop"
	"github.com/scoutcli/scout/pkg/bridge"
	"github.com/scoutcli/scout/pkg/cancel"
	agentcontext "github.com/scoutcli/scout/pkg/context"
	"github.com/scoutcli/scout/pkg/config"
	"github.com/scoutcli/scout/pkg/llmclient/ollama"
	"github.com/scoutcli/scout/pkg/llmport"
	"github.com/scoutcli/scout/pkg/replcmd"
	"github.com/scoutcli/scout/pkg/router"
	"github.com/scoutcli/scout/pkg/sandbox"
	"github.com/scoutcli/scout/pkg/scoutlog"
	"github.com/scoutcli/scout/pkg/todo"
	"github.com/scoutcli/scout/pkg/tools"
)

// session owns one workspace's wiring: the sandboxed executor, the
// todo store, the context window, and the agent loop driving them,
// matching spec.md §3's ownership split (C8 owns run state, C6 owns
// turns, C4 owns todo items).
type session struct {
	root       string
	cfg        *config.Config
	logger     *scoutlog.Logger
	sandbox    *sandbox.Sandbox
	todos      *todo.Store
	window     *agentcontext.Window
	executor   *tools.Executor
	loop       *agentloop.Loop
	cancel     *cancel.Flag
	client     llmport.Client
	bridgeConn *bridge.Conn
	bridgeOrch *bridge.Orchestrator
}

// toolRunnerAdapter satisfies bridge.ToolRunner by delegating to the
// same tools.Executor the router-mode loop uses, so both orchestrators
// run tools identically (sandboxed, cancellable, logged).
type toolRunnerAdapter struct {
	executor *tools.Executor
}

func (a toolRunnerAdapter) RunTool(ctx context.Context, name, argumentsJSON string) (bool, string) {
	res := a.executor.Execute(ctx, name, argumentsJSON)
	return res.Status == tools.StatusOK, res.Payload
}

// consolePrinter satisfies bridge.Printer by writing bridge-mode model
// text straight to stdout, matching RunOnce/REPL's own printing.
type consolePrinter struct{}

func (consolePrinter) Print(text string) {
	fmt.Println(text)
}

// consoleStatus is the CLI harness's StatusPublisher: it prints every
// set_status call from the tool executor to stderr.
type consoleStatus struct{}

func (consoleStatus) PublishStatus(s string) {
	fmt.Fprintf(os.Stderr, "[status] %s\n", s)
}

func newSession(root string, cfg *config.Config) (*session, error) {
	sb, err := sandbox.New(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	logger := scoutlog.Get(sb.Root())

	configDir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	todos, err := todo.Load(filepath.Join(configDir, todo.FileName(sb.Root())))
	if err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}

	window, err := agentcontext.Load(configDir, sb.Root(), cfg.MaxContextChars, cfg.KeepRecentTurns)
	if err != nil {
		return nil, fmt.Errorf("load context: %w", err)
	}

	registry := tools.NewRegistry()
	ignore := tools.NewIgnoreFilter(sb.Root())
	cancelFlag := cancel.New()

	executor := &tools.Executor{
		Registry: registry,
		Sandbox:  sb,
		Todos:    todos,
		Ignore:   ignore,
		Cancel:   cancelFlag,
		Logger:   logger,
		Status:   consoleStatus{},
	}

	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	r := &router.Router{Client: client, Model: cfg.ModelFor(cfg.DefaultProvider), Tools: registry.All()}

	loop := &agentloop.Loop{
		Router:   r,
		Executor: executor,
		Todos:    todos,
		Cancel:   cancelFlag,
		Tools:    registry.All(),
		Model:    cfg.ModelFor(cfg.DefaultProvider),
	}

	s := &session{
		root:     sb.Root(),
		cfg:      cfg,
		logger:   logger,
		sandbox:  sb,
		todos:    todos,
		window:   window,
		executor: executor,
		loop:     loop,
		cancel:   cancelFlag,
		client:   client,
	}

	if cfg.Orchestrator == config.OrchestratorBridge {
		if cfg.BridgeAddr == "" {
			return nil, fmt.Errorf("orchestrator is %q but bridge_addr is not set", config.OrchestratorBridge)
		}
		conn, err := bridge.Dial(cfg.BridgeAddr)
		if err != nil {
			return nil, fmt.Errorf("dial bridge at %s: %w", cfg.BridgeAddr, err)
		}
		s.bridgeConn = conn
		s.bridgeOrch = &bridge.Orchestrator{
			Conn:    conn,
			Runner:  toolRunnerAdapter{executor: executor},
			Printer: consolePrinter{},
			Cancel:  cancelFlag,
		}
	}

	return s, nil
}

// newClient constructs the LLM Client Port for the configured provider.
// Only the local Ollama adapter (C15) is wired here; remote providers
// are out of scope per spec.md §1 and would be injected by a caller
// that owns credentials.
func newClient(cfg *config.Config) (llmport.Client, error) {
	switch cfg.DefaultProvider {
	case "", "ollama":
		return ollama.New()
	default:
		return nil, fmt.Errorf("provider %q is not wired into this build; only ollama is available locally", cfg.DefaultProvider)
	}
}

// Close persists the todo store and context window, and tears down the
// bridge connection when bridge mode is active.
func (s *session) Close() error {
	if s.bridgeConn != nil {
		_ = s.bridgeConn.Close()
	}
	configDir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := s.todos.Save(); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	if err := s.window.Save(configDir, s.root); err != nil {
		return fmt.Errorf("save context: %w", err)
	}
	return nil
}

// run drives one user request through whichever orchestrator
// cfg.Orchestrator selected: the staged router-mode agent loop
// (pkg/agentloop), or the external bridge (pkg/bridge), gated at this
// single wiring point per SPEC_FULL.md §4.8.2a/§9.
func (s *session) run(ctx context.Context, userInput string) string {
	if s.bridgeOrch != nil {
		messages := []bridge.Message{{Role: "user", Content: s.window.BuildPrompt(userInput)}}
		_, text, err := s.bridgeOrch.Run(ctx, messages)
		if err != nil {
			text = err.Error()
		}
		s.window.Append(agentcontext.RoleAssistant, text, 0, 0, nil)
		return text
	}

	result := s.loop.Run(ctx, s.window, userInput)
	return result.Response
}

// RunOnce drives a single non-interactive request (scout --prompt "...").
func (s *session) RunOnce(prompt string) error {
	fmt.Println(s.run(context.Background(), prompt))
	return nil
}

// REPL drives an interactive session: read a line, parse it as a
// slash-command (pkg/replcmd, C10) or an ordinary user turn, run it
// through the agent loop, print the response, repeat until EOF or
// "/exit"-equivalent (Ctrl+D).
func (s *session) REPL() error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	providerTitle := cases.Title(language.Und).String(s.cfg.DefaultProvider)
	fmt.Printf("Scout (%s) — workspace %s\n", providerTitle, s.root)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmdResult := replcmd.Parse(line)
		switch cmdResult.Kind {
		case replcmd.None:
			s.cancel.Reset()
			stop := watchEscape(s.cancel)
			response := s.run(context.Background(), line)
			stop()
			fmt.Println(response)
		case replcmd.Compact:
			s.window.Compact(context.Background(), s.client, s.loop.Model)
			fmt.Println("context compacted")
		case replcmd.Clear:
			s.window.Turns = nil
			s.window.Summary = ""
			fmt.Println("context cleared")
		case replcmd.Todo:
			fmt.Println(s.todos.Render())
		case replcmd.Cancel:
			s.cancel.Set()
			fmt.Println("cancellation requested")
		case replcmd.Help:
			fmt.Println("available commands: /compact /clear /todo /cancel /help")
		case replcmd.Unknown:
			fmt.Printf("unknown command: %s\n", cmdResult.Raw)
		}
	}
}

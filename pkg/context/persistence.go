package context

import (
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
)

type persistedWindow struct {
	Summary string `json:"summary,omitempty"`
	Turns   []Turn `json:"turns"`
}

// fileName derives the context-<hex crc32(workspace_root)>.json name
// the spec requires, so each workspace gets its own persisted window
// without the caller needing to track a mapping itself.
func fileName(workspaceRoot string) string {
	sum := crc32.ChecksumIEEE([]byte(workspaceRoot))
	return fmt.Sprintf("context-%08x.json", sum)
}

// Save persists the window under configDir, keyed by workspaceRoot, as
// write-temp-then-rename so a crash mid-write never truncates the
// previous save.
func (w *Window) Save(configDir, workspaceRoot string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	payload := persistedWindow{Summary: w.Summary, Turns: w.Turns}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}

	path := filepath.Join(configDir, fileName(workspaceRoot))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write context temp file: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a previously persisted window for workspaceRoot, or
// returns a fresh empty window (same thresholds) if none exists yet.
func Load(configDir, workspaceRoot string, maxChars, keepRecentTurns int) (*Window, error) {
	path := filepath.Join(configDir, fileName(workspaceRoot))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(maxChars, keepRecentTurns), nil
		}
		return nil, fmt.Errorf("read context file: %w", err)
	}

	var payload persistedWindow
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse context file: %w", err)
	}

	return &Window{
		Summary:         payload.Summary,
		Turns:           payload.Turns,
		MaxChars:        maxChars,
		KeepRecentTurns: keepRecentTurns,
	}, nil
}

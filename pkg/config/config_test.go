package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	if cfg.Orchestrator != OrchestratorRouter {
		t.Fatalf("expected router orchestrator by default, got %s", cfg.Orchestrator)
	}
	if cfg.MaxContextChars <= 0 || cfg.KeepRecentTurns <= 0 {
		t.Fatalf("expected positive context thresholds, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg := New()
	cfg.DefaultProvider = "ollama"
	cfg.ProviderModels["ollama"] = "llama3:8b"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(dir, ConfigDirName) {
		t.Fatalf("unexpected config dir: %s", path)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ProviderModels["ollama"] != "llama3:8b" {
		t.Fatalf("expected persisted model, got %q", loaded.ProviderModels["ollama"])
	}
}

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Orchestrator != OrchestratorRouter {
		t.Fatalf("expected default orchestrator on first run, got %s", cfg.Orchestrator)
	}

	path, _ := Path()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file written at %s", path)
	}
}

func TestModelForFallsBackToDefaultProvider(t *testing.T) {
	cfg := New()
	cfg.DefaultProvider = "ollama"
	cfg.ProviderModels["ollama"] = "custom-model"
	if got := cfg.ModelFor(""); got != "custom-model" {
		t.Fatalf("expected default provider model, got %q", got)
	}
	if got := cfg.ModelFor("unknown"); got == "" {
		t.Fatalf("expected a fallback model for unknown provider")
	}
}

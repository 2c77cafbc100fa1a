// Package config loads and saves the per-user Scout configuration: the
// default provider/model, the context window thresholds, and which
// orchestrator (router or bridge, per spec.md §9) drives the agent
// loop. It never touches the workspace root — only the user's home
// config directory — mirroring the teacher's user-level config/
// per-workspace-state split.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Orchestrator selects which agent loop controller the CLI harness
// wires up: the staged router (spec.md §4.7-4.8) or the external
// bridge (spec.md §4.8.2).
type Orchestrator string

const (
	OrchestratorRouter Orchestrator = "router"
	OrchestratorBridge Orchestrator = "bridge"
)

const (
	ConfigVersion  = "1.0"
	ConfigDirName  = ".scout"
	ConfigFileName = "config.json"
)

// Config is the persisted, user-level configuration shared across
// workspaces.
type Config struct {
	Version          string       `json:"version"`
	DefaultProvider  string       `json:"default_provider"`
	ProviderModels   map[string]string `json:"provider_models"`
	Orchestrator     Orchestrator `json:"orchestrator"`
	BridgeAddr       string       `json:"bridge_addr,omitempty"`
	MaxContextChars  int          `json:"max_context_chars"`
	KeepRecentTurns  int          `json:"keep_recent_turns"`
}

// New returns a Config populated with Scout's defaults: the router
// orchestrator, a local Ollama model, and the context thresholds used
// throughout pkg/context's tests and defaults.
func New() *Config {
	return &Config{
		Version:         ConfigVersion,
		DefaultProvider: "ollama",
		ProviderModels: map[string]string{
			"ollama": "qwen2.5-coder:7b",
		},
		Orchestrator:    OrchestratorRouter,
		MaxContextChars: 12000,
		KeepRecentTurns: 6,
	}
}

// Dir returns the user-level config directory, creating it if absent.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ConfigDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the config file, creating and persisting defaults on
// first run.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := New()
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.validate()
	return &cfg, nil
}

// Save persists the config atomically (write temp, rename), matching
// the idiom used by pkg/todo and pkg/context for small state files.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	c.Version = ConfigVersion

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Rename(tmp, path)
}

func (c *Config) validate() {
	if c.ProviderModels == nil {
		c.ProviderModels = map[string]string{}
	}
	if c.Orchestrator == "" {
		c.Orchestrator = OrchestratorRouter
	}
	if c.MaxContextChars <= 0 {
		c.MaxContextChars = 12000
	}
	if c.KeepRecentTurns <= 0 {
		c.KeepRecentTurns = 6
	}
}

// ModelFor returns the configured model name for a provider, falling
// back to the config's default provider's model when provider is
// empty.
func (c *Config) ModelFor(provider string) string {
	if provider == "" {
		provider = c.DefaultProvider
	}
	if m, ok := c.ProviderModels[provider]; ok && m != "" {
		return m
	}
	return "qwen2.5-coder:7b"
}

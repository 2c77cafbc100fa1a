// Package cmd is the CLI harness (C11, SPEC_FULL.md §4.10): a small
// cobra command tree that wires config, logging, the LLM client port,
// and the agent loop into a runnable binary. Grounded on the teacher's
// cmd/root.go layout (a package-level rootCmd, an Execute entry point,
// subcommands added from init).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoutcli/scout/pkg/config"
)

var (
	flagProvider  string
	flagModel     string
	flagPrompt    string
	flagWorkspace string
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "An interactive terminal agent that reads, analyzes and modifies a local source tree",
	Long: `Scout drives a large language model through a tool-augmented loop to read,
analyze and modify a local source tree. Run it with no arguments to start an
interactive session in the current directory, or pass --prompt for a single
non-interactive request.`,
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "LLM provider to use (default: config's default_provider)")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "model name (default: provider's configured model)")
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "workspace root (default: current directory)")
	rootCmd.Flags().StringVar(&flagPrompt, "prompt", "", "run a single non-interactive request instead of the REPL")

	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(todoCmd)
}

// Execute runs the root command; called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func workspaceRoot() (string, error) {
	if flagWorkspace != "" {
		return flagWorkspace, nil
	}
	return os.Getwd()
}

func runRoot(c *cobra.Command, args []string) error {
	root, err := workspaceRoot()
	if err != nil {
		return fmt.Errorf("resolve workspace root: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagProvider != "" {
		cfg.DefaultProvider = flagProvider
	}
	if flagModel != "" {
		if cfg.ProviderModels == nil {
			cfg.ProviderModels = map[string]string{}
		}
		cfg.ProviderModels[cfg.DefaultProvider] = flagModel
	}

	session, err := newSession(root, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if flagPrompt != "" {
		return session.RunOnce(flagPrompt)
	}
	return session.REPL()
}

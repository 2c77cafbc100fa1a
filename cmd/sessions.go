package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	agentcontext "github.com/scoutcli/scout/pkg/context"
	"github.com/scoutcli/scout/pkg/config"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show the persisted context window for the current workspace",
	RunE: func(c *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		configDir, err := config.Dir()
		if err != nil {
			return err
		}
		window, err := agentcontext.Load(configDir, root, cfg.MaxContextChars, cfg.KeepRecentTurns)
		if err != nil {
			return err
		}
		if window.Summary == "" && len(window.Turns) == 0 {
			fmt.Fprintln(os.Stdout, "(no persisted session for this workspace)")
			return nil
		}
		if window.Summary != "" {
			fmt.Println("Summary:")
			fmt.Println(window.Summary)
			fmt.Println()
		}
		fmt.Printf("%d turn(s):\n", len(window.Turns))
		for _, t := range window.Turns {
			fmt.Printf("[%s] %s\n", t.Role, t.Content)
		}
		return nil
	},
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scoutcli/scout/pkg/config"
	"github.com/scoutcli/scout/pkg/todo"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Print the current todo list for this workspace",
	RunE: func(c *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		configDir, err := config.Dir()
		if err != nil {
			return err
		}
		store, err := todo.Load(filepath.Join(configDir, todo.FileName(root)))
		if err != nil {
			return err
		}
		fmt.Println(store.Render())
		return nil
	},
}

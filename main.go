// Command scout is an interactive terminal agent that drives a large
// language model through a tool-augmented loop to read, analyze and
// modify a local source tree.
package main

import (
	"fmt"
	"os"

	"github.com/scoutcli/scout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

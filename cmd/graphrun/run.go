// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"graphrun/internal/shell"
)

// runCmd executes a target and its transitive dependencies.
var runCmd = &cobra.Command{
	Use:   "run [target]",
	Short: "Run a target and its dependencies",
	Long: `Run the named target after recursively running its dependencies.

Each distinct action runs at most once per invocation, regardless of how
many paths reach it through the dependency graph. Without a target
argument, the runfile's default target is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	rf, g, err := loadGraph()
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		if name, err = rf.DefaultTarget(); err != nil {
			return err
		}
	}

	log.Debug("executing target", "target", name)
	if err := g.Execute(cmd.Context(), name); err != nil {
		var cmdErr *shell.CommandError
		if errors.As(err, &cmdErr) {
			fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("✗"), err)
			return &ExitError{Code: cmdErr.ExitCode, Err: err}
		}
		return err
	}

	if verbose {
		fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), name)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// depsCmd prints a target's declared dependencies in declaration order.
var depsCmd = &cobra.Command{
	Use:   "deps <target>",
	Short: "Show a target's declared dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func runDeps(cmd *cobra.Command, args []string) error {
	_, g, err := loadGraph()
	if err != nil {
		return err
	}

	deps, err := g.Dependencies(args[0])
	if err != nil {
		return err
	}
	if len(deps) == 0 {
		fmt.Printf("%s has no dependencies\n", TargetStyle.Render(args[0]))
		return nil
	}

	fmt.Printf("%s depends on:\n", TargetStyle.Render(args[0]))
	for _, dep := range deps {
		fmt.Printf("  %s\n", dep)
	}
	return nil
}

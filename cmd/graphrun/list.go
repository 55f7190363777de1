// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd prints the registered targets in lexicographic order.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all targets in the runfile",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	rf, g, err := loadGraph()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Available Targets"))
	fmt.Println()
	for _, name := range g.Targets() {
		target := rf.Targets[name]
		if target.Command == "" {
			fmt.Printf("  %s\n", TargetStyle.Render(name))
			continue
		}
		fmt.Printf("  %s  %s\n", TargetStyle.Render(name), SubtitleStyle.Render(target.Command))
	}
	return nil
}

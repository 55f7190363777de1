// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"graphrun/internal/runfile"
)

const starterRunfile = `# graphrun targets. Run 'graphrun run <target>' to execute one.
default = "all"

[target.all]
deps = ["build", "test"]

[target.build]
command = "echo building..."

[target.test]
command = "echo testing..."
deps = ["build"]
`

var (
	initForce bool

	// initCmd creates a new runfile
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a new graphrun.toml in the current directory",
		Long: `Create a new graphrun.toml in the current directory with example targets.

This command generates a starter runfile with sample targets to help you
get started quickly.`,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing runfile")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := runfile.DefaultName
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	if err := os.WriteFile(filename, []byte(starterRunfile), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the runfile to add your targets")
	fmt.Println("  2. Run 'graphrun list' to see available targets")
	fmt.Println("  3. Run 'graphrun run <target>' to execute a target")

	return nil
}

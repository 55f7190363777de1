// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for graphrun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"graphrun/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// runfilePath allows specifying a custom runfile
	runfilePath string
	// runnerKind overrides the configured command runner kind
	runnerKind string

	// cfg holds the loaded global settings
	cfg *config.Settings

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "graphrun",
		Short: "A minimal dependency-graph task runner",
		Long: TitleStyle.Render("graphrun") + SubtitleStyle.Render(" - A minimal dependency-graph task runner") + `

graphrun executes named targets after recursively executing their
dependencies, running each distinct action at most once per invocation.
Targets are defined in a 'graphrun.toml' file; each target runs a command
line through the system shell or the embedded virtual shell (mvdan/sh),
or acts as a no-op grouping node for its dependencies.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'graphrun init' to create a graphrun.toml
  2. Define targets with commands and deps
  3. Run targets with: graphrun run <target>

` + SubtitleStyle.Render("Examples:") + `
  graphrun list             List all available targets
  graphrun run build        Run the 'build' target and its deps
  graphrun deps build       Show the 'build' target's dependencies
  graphrun init             Create a starter graphrun.toml`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&runfilePath, "file", "f", "", "runfile to load (default is ./graphrun.toml)")
	rootCmd.PersistentFlags().StringVar(&runnerKind, "runner", "", "command runner to use (system, virtual)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(initCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads global settings and configures logging.
func initRootConfig() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		cfg = &config.Settings{Runner: config.RunnerSystem}
	}
	log.Debug("loaded configuration", "runner", cfg.Runner, "runfile", cfg.Runfile)
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/log"

	"graphrun/internal/config"
	"graphrun/internal/graph"
	"graphrun/internal/runfile"
	"graphrun/internal/shell"
)

// resolveRunfilePath returns the runfile to load: the --file flag if given,
// else the configured name in the working directory.
func resolveRunfilePath() string {
	if runfilePath != "" {
		return runfilePath
	}
	if cfg != nil && cfg.Runfile != "" {
		return cfg.Runfile
	}
	return runfile.DefaultName
}

// newRunner builds the command runner selected by the --runner flag or the
// global configuration.
func newRunner() (graph.CommandRunner, error) {
	kind := cfg.Runner
	if runnerKind != "" {
		kind = config.RunnerKind(runnerKind)
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case config.RunnerVirtual:
		return shell.NewVirtualRunner(), nil
	default:
		runner := shell.NewSystemRunner()
		runner.Shell = cfg.Shell
		return runner, nil
	}
}

// loadGraph loads the runfile and applies it to a fresh engine wired with
// the selected command runner.
func loadGraph() (*runfile.Runfile, *graph.Graph, error) {
	path := resolveRunfilePath()
	rf, err := runfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("loaded runfile", "path", path, "targets", len(rf.Targets))

	runner, err := newRunner()
	if err != nil {
		return nil, nil, err
	}

	g := graph.New(graph.WithRunner(runner))
	if err := rf.Apply(g); err != nil {
		return nil, nil, err
	}
	return rf, g, nil
}

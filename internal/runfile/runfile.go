// SPDX-License-Identifier: MPL-2.0

// Package runfile loads graphrun.toml files and translates their target
// declarations into graph registrations. The runfile is the thin file-based
// front end over the engine; embedding applications may skip it entirely
// and drive the graph package directly.
package runfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"graphrun/internal/graph"
)

// DefaultName is the runfile looked for when none is given explicitly.
const DefaultName = "graphrun.toml"

// ErrNoDefaultTarget is returned by DefaultTarget when the runfile neither
// sets the top-level default key nor defines a target named "default".
var ErrNoDefaultTarget = errors.New("no default target")

type (
	// Runfile is a parsed graphrun.toml document.
	Runfile struct {
		// Default names the target run when the CLI is invoked without one.
		Default string `toml:"default"`
		// Targets maps target names to their declarations.
		Targets map[string]Target `toml:"target"`
	}

	// Target is one [target.<name>] block. An empty Command makes the
	// target a no-op grouping node. Deps entries may each hold several
	// whitespace-delimited names.
	Target struct {
		Command string   `toml:"command"`
		Deps    []string `toml:"deps"`
	}
)

// Load reads and parses the runfile at path.
func Load(path string) (*Runfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read runfile: %w", err)
	}
	rf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse runfile %s: %w", path, err)
	}
	return rf, nil
}

// Parse decodes a runfile document from raw TOML.
func Parse(data []byte) (*Runfile, error) {
	var rf Runfile
	if err := toml.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	return &rf, nil
}

// Apply registers every declared target on g, in lexicographic name order.
// Dependency references may name targets declared later in the file; the
// engine resolves them at execution time.
func (rf *Runfile) Apply(g *graph.Graph) error {
	names := maps.Keys(rf.Targets)
	slices.Sort(names)

	for _, name := range names {
		target := rf.Targets[name]
		action := graph.Noop()
		if target.Command != "" {
			action = graph.Command(target.Command)
		}
		if err := g.Define(name, action, target.Deps); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
	}
	return nil
}

// DefaultTarget resolves the target to run when none was requested: the
// top-level default key if set, else a target literally named "default",
// else ErrNoDefaultTarget listing what is available.
func (rf *Runfile) DefaultTarget() (string, error) {
	if rf.Default != "" {
		return rf.Default, nil
	}
	if _, ok := rf.Targets["default"]; ok {
		return "default", nil
	}
	names := maps.Keys(rf.Targets)
	slices.Sort(names)
	return "", fmt.Errorf("%w: specify one of %v", ErrNoDefaultTarget, names)
}

// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	// MarkBeforeRecurse records a target as done before walking its
	// dependency edges. Back-edges in a cycle are skipped entirely, so each
	// node is visited at most once and termination needs no further
	// machinery. This is the default policy.
	MarkBeforeRecurse CyclePolicy = iota
	// MarkBeforeAction records a target as done only immediately before its
	// own action runs. Termination on cycles is ensured by an active-walk
	// guard; the observable difference from MarkBeforeRecurse is confined to
	// which member of a cycle is recorded done first.
	MarkBeforeAction
)

// ErrNoCommandRunner is returned when a command target executes on a Graph
// built without WithRunner.
var ErrNoCommandRunner = errors.New("no command runner configured")

type (
	// CyclePolicy selects when the traversal records a target as done,
	// which decides how cycles in the dependency graph resolve.
	CyclePolicy int

	// Graph owns the registry of targets and dependency edges and performs
	// the once-only depth-first execution. Actions and edges live in
	// separate maps keyed by target name, so re-defining a target replaces
	// its action while keeping previously declared edges.
	Graph struct {
		runner  CommandRunner
		policy  CyclePolicy
		actions map[string]Action
		edges   map[string][]Dep
	}

	// Option configures a Graph at construction time.
	Option func(*Graph)

	// walkState is the transient per-Execute tracking scope. done spans the
	// combined identity space of target names (string keys) and anonymous
	// callables (*callableCell keys); it is discarded when Execute returns.
	walkState struct {
		done   map[any]bool
		active map[string]bool
	}
)

// WithRunner sets the collaborator that executes command-line actions.
func WithRunner(runner CommandRunner) Option {
	return func(g *Graph) { g.runner = runner }
}

// WithCyclePolicy overrides the default MarkBeforeRecurse policy.
func WithCyclePolicy(policy CyclePolicy) Option {
	return func(g *Graph) { g.policy = policy }
}

// New creates an empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		actions: make(map[string]Action),
		edges:   make(map[string][]Dep),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Define registers name with action, then appends any given dependency
// edges via Depend. A nil action is normalized to Noop. Defining an already
// registered name overwrites its action but keeps its previously declared
// edges, since edges are keyed by name separately from actions.
func (g *Graph) Define(name string, action Action, deps ...any) error {
	if err := validateName(name); err != nil {
		return err
	}
	if action == nil {
		action = Noop()
	}
	g.actions[name] = action
	return g.Depend(name, deps...)
}

// Depend appends dependency edges to name. Each dep may be a Dep, a
// whitespace-delimited name string, a func() error callable, or a slice of
// those (see DepFrom); anything else returns InvalidDependencyError.
// Neither name nor named dependencies need to be registered yet — forward
// references are legal and only Execute validates existence. Appending an
// edge already present for name is a no-op.
func (g *Graph) Depend(name string, deps ...any) error {
	if err := validateName(name); err != nil {
		return err
	}
	for _, raw := range deps {
		dep, err := DepFrom(raw)
		if err != nil {
			return err
		}
		leaves, err := flatten(dep, nil)
		if err != nil {
			return err
		}
		for _, leaf := range leaves {
			g.addEdge(name, leaf)
		}
	}
	return nil
}

// Targets returns all registered target names in lexicographic order.
func (g *Graph) Targets() []string {
	names := maps.Keys(g.actions)
	slices.Sort(names)
	return names
}

// Dependencies returns the ordered dependency references declared for name,
// or an empty slice if none were declared. It returns UnknownTargetError if
// name was never registered via Define.
func (g *Graph) Dependencies(name string) ([]Dep, error) {
	if _, ok := g.actions[name]; !ok {
		return nil, &UnknownTargetError{Name: name}
	}
	return slices.Clone(g.edges[name]), nil
}

// Execute runs the named target after recursively running its transitive
// dependencies, each distinct action at most once. It returns
// UnknownTargetError when name (or any by-name edge reached during the
// walk) is not registered. The first failure — a command exiting non-zero,
// an error from a callable, or context cancellation — aborts the remainder
// of the traversal and propagates unmodified; already-executed actions are
// not undone.
func (g *Graph) Execute(ctx context.Context, name string) error {
	if _, ok := g.actions[name]; !ok {
		return &UnknownTargetError{Name: name}
	}
	st := &walkState{
		done:   make(map[any]bool),
		active: make(map[string]bool),
	}
	return g.walk(ctx, name, st)
}

func (g *Graph) walk(ctx context.Context, name string, st *walkState) error {
	if st.done[name] {
		return nil
	}

	switch g.policy {
	case MarkBeforeRecurse:
		st.done[name] = true
	case MarkBeforeAction:
		if st.active[name] {
			return nil
		}
		st.active[name] = true
		defer delete(st.active, name)
	}

	for _, dep := range g.edges[name] {
		// Honour cancellation promptly between dependency dispatches.
		if err := ctx.Err(); err != nil {
			return err
		}
		switch d := dep.(type) {
		case anonDep:
			if st.done[d.cell] {
				continue
			}
			st.done[d.cell] = true
			if err := d.cell.fn(); err != nil {
				return err
			}
		case namedDep:
			if _, ok := g.actions[d.name]; !ok {
				return &UnknownTargetError{Name: d.name}
			}
			if err := g.walk(ctx, d.name, st); err != nil {
				return err
			}
		}
	}

	if g.policy == MarkBeforeAction {
		if st.done[name] {
			return nil
		}
		st.done[name] = true
	}

	return g.runAction(ctx, name)
}

func (g *Graph) runAction(ctx context.Context, name string) error {
	switch action := g.actions[name].(type) {
	case commandAction:
		if g.runner == nil {
			return fmt.Errorf("target %q: %w", name, ErrNoCommandRunner)
		}
		return g.runner.Run(ctx, action.line)
	case funcAction:
		return action.fn()
	default: // noopAction
		return nil
	}
}

// addEdge appends one leaf edge, skipping duplicates: by-name edges compare
// names, anonymous edges compare callable identity.
func (g *Graph) addEdge(name string, leaf Dep) {
	for _, existing := range g.edges[name] {
		switch d := leaf.(type) {
		case namedDep:
			if e, ok := existing.(namedDep); ok && e.name == d.name {
				return
			}
		case anonDep:
			if e, ok := existing.(anonDep); ok && e.cell == d.cell {
				return
			}
		}
	}
	g.edges[name] = append(g.edges[name], leaf)
}

func validateName(name string) error {
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return &InvalidNameError{Name: name}
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package graph

import "context"

type (
	// Action is the work a target performs once its dependencies have run.
	// It is a sealed three-variant type decided at registration time:
	// Noop, Command, or Func. A nil Action is normalized to Noop by Define.
	Action interface {
		isAction()
	}

	// CommandRunner executes one command line synchronously, blocking until
	// the command exits, and returns a non-nil error if the exit status is
	// non-zero. It is the engine's only external collaborator; see the shell
	// package for the provided implementations.
	CommandRunner interface {
		Run(ctx context.Context, command string) error
	}

	noopAction    struct{}
	commandAction struct{ line string }
	funcAction    struct{ fn func() error }
)

func (noopAction) isAction()    {}
func (commandAction) isAction() {}
func (funcAction) isAction()    {}

// Noop returns an action that performs nothing. Useful for grouping targets
// that exist only to pull in their dependencies.
func Noop() Action { return noopAction{} }

// Command returns an action that delegates the given command line to the
// engine's CommandRunner when the target executes.
func Command(line string) Action { return commandAction{line: line} }

// Func returns an action that invokes fn directly when the target executes.
// Any error fn returns propagates unmodified to the Execute caller, aborting
// the remainder of the traversal.
func Func(fn func() error) Action { return funcAction{fn: fn} }

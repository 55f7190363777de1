// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid target name")
	// ErrInvalidDependency is the sentinel error wrapped by InvalidDependencyError.
	ErrInvalidDependency = errors.New("invalid dependency type")
	// ErrUnknownTarget is the sentinel error wrapped by UnknownTargetError.
	ErrUnknownTarget = errors.New("unknown target")
)

type (
	// InvalidNameError is returned when a target name is empty or contains
	// whitespace. It wraps ErrInvalidName for errors.Is() compatibility.
	InvalidNameError struct {
		Name string
	}

	// InvalidDependencyError is returned when a dependency argument has a
	// shape the registration layer cannot normalize into a Dep. It wraps
	// ErrInvalidDependency for errors.Is() compatibility.
	InvalidDependencyError struct {
		Value any
	}

	// UnknownTargetError is returned when execution or inspection references
	// a name that was never registered via Define. It wraps ErrUnknownTarget
	// for errors.Is() compatibility.
	UnknownTargetError struct {
		Name string
	}
)

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%v: %q must be non-empty and contain no whitespace", ErrInvalidName, e.Name)
}

// Unwrap returns ErrInvalidName so errors.Is(err, ErrInvalidName) matches.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

func (e *InvalidDependencyError) Error() string {
	return fmt.Sprintf("%v: %T is not a dependency, a name string, a callable, or a sequence of those", ErrInvalidDependency, e.Value)
}

// Unwrap returns ErrInvalidDependency so errors.Is(err, ErrInvalidDependency) matches.
func (e *InvalidDependencyError) Unwrap() error { return ErrInvalidDependency }

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("%v: %q is not a registered target", ErrUnknownTarget, e.Name)
}

// Unwrap returns ErrUnknownTarget so errors.Is(err, ErrUnknownTarget) matches.
func (e *UnknownTargetError) Unwrap() error { return ErrUnknownTarget }

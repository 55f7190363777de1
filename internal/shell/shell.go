// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
)

// ErrCommandFailed is the sentinel error wrapped by CommandError.
var ErrCommandFailed = errors.New("command failed")

// CommandError reports a command that ran to completion but exited non-zero.
// It wraps ErrCommandFailed for errors.Is() compatibility.
type CommandError struct {
	Command  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%v: %q exited with code %d", ErrCommandFailed, e.Command, e.ExitCode)
}

// Unwrap returns ErrCommandFailed so errors.Is(err, ErrCommandFailed) matches.
func (e *CommandError) Unwrap() error { return ErrCommandFailed }

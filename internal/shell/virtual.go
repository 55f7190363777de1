// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes command lines in the embedded mvdan/sh interpreter.
// It behaves the same on every host and needs no external shell binary.
type VirtualRunner struct {
	// Dir is the working directory; empty means the process's current dir.
	Dir string
	// Env is extra environment entries in KEY=VALUE form, appended to the
	// process environment.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewVirtualRunner creates a VirtualRunner wired to the standard streams.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run parses command as a shell program and runs it to completion. Syntax
// errors are returned directly; a non-zero exit status is reported as
// *CommandError.
func (r *VirtualRunner) Run(ctx context.Context, command string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", command, err)
	}

	runner, err := interp.New(
		interp.Dir(r.Dir),
		interp.Env(expand.ListEnviron(append(os.Environ(), r.Env...)...)),
		interp.StdIO(r.Stdin, r.Stdout, r.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &CommandError{Command: command, ExitCode: int(exitStatus)}
		}
		return fmt.Errorf("failed to execute %q: %w", command, err)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// SystemRunner executes command lines through the host system's shell.
// Output flows to the process's standard streams unless the writer fields
// are overridden.
type SystemRunner struct {
	// Shell overrides the default shell resolution.
	Shell string
	// ShellArgs are arguments passed to the shell before the command line.
	ShellArgs []string
	// Dir is the working directory; empty means the process's current dir.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewSystemRunner creates a SystemRunner wired to the standard streams.
func NewSystemRunner() *SystemRunner {
	return &SystemRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes command through the shell, blocking until it exits. A
// non-zero exit status is reported as *CommandError; failures to start the
// shell at all are returned as ordinary errors.
func (r *SystemRunner) Run(ctx context.Context, command string) error {
	shell, err := r.getShell()
	if err != nil {
		return err
	}

	args := append(r.getShellArgs(shell), command)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &CommandError{Command: command, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to execute %q: %w", command, err)
	}
	return nil
}

func (r *SystemRunner) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}

	switch runtime.GOOS {
	case "windows":
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", fmt.Errorf("no shell found")
	}
}

func (r *SystemRunner) getShellArgs(shell string) []string {
	if len(r.ShellArgs) > 0 {
		return r.ShellArgs
	}

	base := strings.TrimSuffix(filepath.Base(shell), ".exe")
	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}

// Package sentrycli runs the external sentry-cli uploader.
package sentrycli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	oerrors "github.com/uploadwire/cli/internal/errors"
)

// ExecutableName is the uploader's base name on PATH.
const ExecutableName = "sentry-cli"

// PropertiesEnv is the environment variable the uploader reads its properties file from.
const PropertiesEnv = "SENTRY_PROPERTIES"

// Invocation is one uploader process: working directory, extra environment,
// and the full argument vector (Args[0] is the program).
type Invocation struct {
	Dir  string
	Env  []string
	Args []string
}

// String renders the command line for logs.
func (i Invocation) String() string {
	return strings.Join(i.Args, " ")
}

// Runner starts an uploader process and waits for it.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, inv Invocation) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, inv Invocation) error {
	return f(ctx, inv)
}

// ExitError is returned when the uploader exits with a non-zero status.
type ExitError struct {
	// Args is the failed command line.
	Args []string

	// Code is the process exit status.
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d", strings.Join(e.Args, " "), e.Code)
}

// Unwrap lets callers match the failure with errors.Is(err, errors.ErrUpload).
func (e *ExitError) Unwrap() error {
	return oerrors.ErrUpload
}

// Binary runs uploader invocations as child processes. Output is streamed
// through unmodified.
type Binary struct {
	// Stdout for uploader output. If nil, os.Stdout is used.
	Stdout io.Writer

	// Stderr for uploader errors. If nil, os.Stderr is used.
	Stderr io.Writer
}

var _ Runner = (*Binary)(nil)

// NewBinary creates a Binary writing to the process's stdout and stderr.
func NewBinary() *Binary {
	return &Binary{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the invocation. The child inherits the current environment
// plus inv.Env.
func (b *Binary) Run(ctx context.Context, inv Invocation) error {
	if len(inv.Args) == 0 {
		return fmt.Errorf("empty uploader invocation")
	}

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdout = b.stdout()
	cmd.Stderr = b.stderr()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Args: inv.Args, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("%s: %w", inv.Args[0], err)
	}
	return nil
}

func (b *Binary) stdout() io.Writer {
	if b.Stdout != nil {
		return b.Stdout
	}
	return os.Stdout
}

func (b *Binary) stderr() io.Writer {
	if b.Stderr != nil {
		return b.Stderr
	}
	return os.Stderr
}

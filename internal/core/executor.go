package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultShell interprets every command.
const DefaultShell = "/bin/sh"

// waitDelay bounds how long Run waits for output pipes after the shell is
// killed, so grandchildren holding stdout cannot stall it.
const waitDelay = 500 * time.Millisecond

// Runner executes a shell command and reports what happened.
type Runner interface {
	Run(ctx context.Context, command string) *Result
}

// Executor handles command execution
type Executor struct {
	shell   string
	timeout time.Duration
}

// NewExecutor creates a new executor. A zero timeout disables the limit;
// cancelling ctx still stops the command.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{
		shell:   DefaultShell,
		timeout: timeout,
	}
}

// WithShell returns a copy of the executor using the given interpreter.
func (e *Executor) WithShell(shell string) *Executor {
	ne := *e
	if shell != "" {
		ne.shell = shell
	}
	return &ne
}

// Run invokes the command through the shell, capturing stdout and stderr
// separately. A non-zero exit, a timeout or a cancellation is a failure.
func (e *Executor) Run(ctx context.Context, command string) *Result {
	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(runCtx, e.shell, "-c", command)
	execCmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	start := time.Now()
	err := execCmd.Run()

	result := &Result{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		result.Succeeded = true
		return result
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.ExitCode = -1
		// The caller's deadline may be shorter than our own limit.
		limit := e.timeout
		if limit == 0 || ctx.Err() != nil {
			limit = result.Duration.Round(time.Millisecond)
		}
		result.Stderr = appendLine(result.Stderr, fmt.Sprintf("command timed out after %s", limit))
	case errors.Is(runCtx.Err(), context.Canceled):
		result.ExitCode = -1
		result.Stderr = appendLine(result.Stderr, "command cancelled")
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
		result.Stderr = appendLine(result.Stderr, err.Error())
	}

	return result
}

func appendLine(s, line string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s + line
	}
	return s + "\n" + line
}

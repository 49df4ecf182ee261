package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ExecError wraps a process spawn failure with any output produced.
type ExecError struct {
	Err    error
	Output string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Output)
}

func (e *ExecError) Unwrap() error { return e.Err }

// RealCommandExecutor implements CommandExecutor using the actual os/exec
// package. This is the production implementation that executes real system
// commands.
type RealCommandExecutor struct{}

// LookPath searches for an executable named file in the directories
// named by the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes the command and captures stdout and stderr separately. The
// command's exit code is reported through the Result so callers can apply
// their own success criteria.
func (e *RealCommandExecutor) Run(ctx context.Context, dir string, name string, arg ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The process ran and exited non-zero; that is a result,
			// not an execution error.
			return result, nil
		}
		return result, &ExecError{Err: err, Output: stderr.String()}
	}
	return result, nil
}

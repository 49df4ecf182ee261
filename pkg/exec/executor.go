package exec

import "context"

// Result holds the captured outcome of one external process invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandExecutor defines an interface for running external commands.
// This abstraction allows for easier testing by providing a mockable interface.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// Run executes the command in the given working directory, waits for it
	// to terminate and returns its captured output and exit code. A non-zero
	// exit code is not an error; errors are reserved for failures to start
	// or wait on the process (including context cancellation).
	Run(ctx context.Context, dir string, name string, arg ...string) (*Result, error)
}

package exec

import (
	"context"
	"strings"
	"sync"
)

// MockCommandExecutor is a mock implementation of CommandExecutor for testing.
// It records all commands that would be executed without actually running them.
// Recording is safe for concurrent use so worker-pool tests can share one mock.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Commands records all commands that were executed.
	Commands []string

	// Dirs records the working directory of each invocation.
	Dirs []string

	// LookPathFunc allows custom behavior for LookPath in tests.
	LookPathFunc func(file string) (string, error)

	// RunFunc allows custom behavior for Run in tests.
	RunFunc func(ctx context.Context, dir string, name string, arg ...string) (*Result, error)
}

// LookPath implements the CommandExecutor interface for testing.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	// By default, assume commands exist.
	return "/path/to/" + file, nil
}

// Run implements the CommandExecutor interface for testing. It records the
// command that would be executed.
func (m *MockCommandExecutor) Run(ctx context.Context, dir string, name string, arg ...string) (*Result, error) {
	cmdStr := name
	if len(arg) > 0 {
		cmdStr = name + " " + strings.Join(arg, " ")
	}
	m.mu.Lock()
	m.Commands = append(m.Commands, cmdStr)
	m.Dirs = append(m.Dirs, dir)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, name, arg...)
	}
	return &Result{ExitCode: 0}, nil
}

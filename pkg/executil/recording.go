package executil

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// RecordingExecutor is a test double that records every invocation and
// returns scripted outcomes. Outcomes are keyed by the full command line
// ("name arg1 arg2") with a fallback on the bare name. Commands without a
// scripted outcome behave as if the executable does not exist.
type RecordingExecutor struct {
	mu       sync.Mutex
	Commands []Command
	Outcomes map[string]Outcome
	Paths    map[string]string
}

var _ Executor = (*RecordingExecutor)(nil)

// LookPath returns the scripted path for name, or exec.ErrNotFound.
func (e *RecordingExecutor) LookPath(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.Paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Run records cmd and returns its scripted outcome.
func (e *RecordingExecutor) Run(_ context.Context, cmd Command) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Commands = append(e.Commands, cmd)
	line := strings.Join(append([]string{cmd.Name}, cmd.Args...), " ")
	if out, ok := e.Outcomes[line]; ok {
		return out
	}
	if out, ok := e.Outcomes[cmd.Name]; ok {
		return out
	}
	return Outcome{Err: &exec.Error{Name: cmd.Name, Err: exec.ErrNotFound}}
}

// Ran reports whether a command with the given name was executed.
func (e *RecordingExecutor) Ran(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.Commands {
		if c.Name == name {
			return true
		}
	}
	return false
}

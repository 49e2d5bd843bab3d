// Package detect implements the provider connectivity detection engine:
// it probes each registered agent CLI with a bounded version command,
// classifies the outcome, persists it, and broadcasts the update.
package detect

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/jasonkneen/emdash/pkg/executil"
)

const resolveTimeout = 2 * time.Second

// Resolver locates executables with the platform's lookup utility
// (which/where). Failure here is never fatal to the caller, only
// informative; probes proceed with the bare command name.
type Resolver struct {
	exec executil.Executor
}

// NewResolver creates a resolver backed by the given executor.
func NewResolver(exec executil.Executor) *Resolver {
	return &Resolver{exec: exec}
}

// Resolve returns the absolute path for name, or "" when it cannot be
// determined (non-zero exit, empty output). When the lookup utility itself
// cannot run, a direct PATH search takes its place.
func (r *Resolver) Resolve(ctx context.Context, name string) string {
	out := r.exec.Run(ctx, executil.Command{
		Name:    lookupTool(),
		Args:    []string{name},
		Timeout: resolveTimeout,
	})
	if out.Err != nil {
		if p, err := r.exec.LookPath(name); err == nil {
			return p
		}
		return ""
	}
	if !out.Exited || out.ExitCode != 0 {
		return ""
	}

	// `where` can print multiple matches; the first non-empty line wins.
	for _, line := range strings.Split(out.Stdout, "\n") {
		if p := strings.TrimSpace(line); p != "" {
			return p
		}
	}
	return ""
}

func lookupTool() string {
	if runtime.GOOS == "windows" {
		return "where"
	}
	return "which"
}

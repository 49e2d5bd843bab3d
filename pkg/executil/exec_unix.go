//go:build !windows

package executil

import (
	"context"
	"os/exec"
)

// buildCmd spawns the executable directly with an argument vector. Arguments
// are never interpreted by a shell, so their content cannot inject commands.
func buildCmd(ctx context.Context, name string, args []string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

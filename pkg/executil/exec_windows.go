//go:build windows

package executil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// buildCmd spawns the executable directly, except for cmd/batch scripts,
// which only the command interpreter can run. Script invocations go through
// %ComSpec% with every argument individually quoted (see QuoteCmdArg) so
// argument content cannot split into extra commands.
func buildCmd(ctx context.Context, name string, args []string) *exec.Cmd {
	if !isCmdScript(name) {
		return exec.CommandContext(ctx, name, args...)
	}

	comspec := os.Getenv("ComSpec")
	if comspec == "" {
		comspec = "cmd.exe"
	}

	c := exec.CommandContext(ctx, comspec)
	c.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: `/d /s /c "` + BuildCmdLine(name, args) + `"`,
	}
	return c
}

func isCmdScript(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cmd", ".bat":
		return true
	}
	return false
}

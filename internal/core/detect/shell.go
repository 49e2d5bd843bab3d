package detect

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/jasonkneen/emdash/internal/core/provider"
)

// RunShell re-attempts a probe through the user's login shell. Tools
// installed by version managers are often only on PATH once the shell's
// init files have run, so a direct spawn misses them.
//
// The shell's conventional "command not found" exit code is forced to a
// plain absence result, as is a missing shell itself; any other non-zero
// exit means the tool exists but is unhappy, which the classifier treats
// as presence.
func (p *Prober) RunShell(ctx context.Context, command string, args []string, timeout time.Duration) provider.ProbeResult {
	shell, flags := loginShell()
	line := strings.Join(append([]string{command}, args...), " ")

	res := p.Run(ctx, shell, append(flags, line), timeout)
	res.Command = command
	// The resolved path belongs to the shell, not the probed tool.
	res.Path = ""

	notFound := res.ExitCode != nil && *res.ExitCode == shellNotFoundExit()
	if notFound || isNotFound(res.Err) {
		return provider.ProbeResult{Command: command, Timeout: timeout}
	}
	return res
}

// loginShell returns the user's shell and the flags that make it run a
// single command string non-interactively.
func loginShell() (string, []string) {
	if runtime.GOOS == "windows" {
		comspec := os.Getenv("ComSpec")
		if comspec == "" {
			comspec = "cmd.exe"
		}
		return comspec, []string{"/d", "/c"}
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-l", "-c"}
}

// shellNotFoundExit is the exit code shells use for "command not found".
func shellNotFoundExit() int {
	if runtime.GOOS == "windows" {
		return 9009
	}
	return 127
}

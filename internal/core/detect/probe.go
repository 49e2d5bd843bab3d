package detect

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"regexp"
	"time"

	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/pkg/executil"
)

// DefaultTimeout bounds a single probe attempt unless the caller asks
// otherwise.
const DefaultTimeout = 3 * time.Second

var versionRe = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Prober runs provider probe commands and normalizes every outcome into a
// provider.ProbeResult. No method here returns an error; all failure modes
// are encoded in the result.
type Prober struct {
	exec     executil.Executor
	resolver *Resolver
}

// NewProber creates a prober backed by the given executor.
func NewProber(exec executil.Executor) *Prober {
	return &Prober{exec: exec, resolver: NewResolver(exec)}
}

// Run executes a single probe command with the given timeout. Path
// resolution is best effort; when it fails the bare command name is
// spawned and PATH lookup is left to the OS.
func (p *Prober) Run(ctx context.Context, command string, args []string, timeout time.Duration) provider.ProbeResult {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	res := provider.ProbeResult{
		Command: command,
		Path:    p.resolver.Resolve(ctx, command),
		Timeout: timeout,
	}

	name := command
	if res.Path != "" {
		name = res.Path
	}

	out := p.exec.Run(ctx, executil.Command{Name: name, Args: args, Timeout: timeout})
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	res.TimedOut = out.TimedOut
	res.Err = out.Err
	if out.Exited {
		code := out.ExitCode
		res.ExitCode = &code
	}
	res.Success = !out.TimedOut && out.Exited && out.ExitCode == 0
	res.Version = parseVersion(out.Stdout, out.Stderr)
	return res
}

// Cascade tries each candidate command in order, returning the first
// success. A command that exists but errors is returned immediately, since
// that is more informative than moving on. Only when every candidate is
// plainly absent does the login-shell fallback get a turn, using the last
// candidate in the list.
func (p *Prober) Cascade(ctx context.Context, def provider.Definition, timeout time.Duration) provider.ProbeResult {
	args := def.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}

	var last provider.ProbeResult
	allNotFound := true
	for _, cmd := range def.Commands {
		res := p.Run(ctx, cmd, args, timeout)
		if res.Success {
			return res
		}
		if res.Err != nil && !isNotFound(res.Err) {
			return res
		}
		if res.Err == nil {
			// The command ran (non-zero exit or timed out); that is
			// evidence, not absence.
			allNotFound = false
		}
		last = res
	}

	if allNotFound && len(def.Commands) > 0 {
		return p.RunShell(ctx, def.Commands[len(def.Commands)-1], args, timeout)
	}
	return last
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

func parseVersion(streams ...string) string {
	for _, s := range streams {
		if m := versionRe.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

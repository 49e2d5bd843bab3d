// Package executil provides bounded external-process execution utilities.
package executil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

const (
	// maxCaptureLen caps each captured stream so a runaway process cannot
	// grow probe buffers without bound.
	maxCaptureLen = 1 << 20

	// maxExcerptLen caps output excerpts destined for log fields, to
	// prevent large or ANSI-polluted output from corrupting logs.
	maxExcerptLen = 500
)

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Command describes a single bounded process invocation.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration // zero means no bound
}

// Outcome is the raw result of running a Command. Spawn failures, non-zero
// exits, and timeout kills are all encoded here rather than raised.
type Outcome struct {
	Stdout   string
	Stderr   string
	Exited   bool  // the process ran and exited on its own
	ExitCode int   // valid only when Exited
	TimedOut bool  // the timeout fired and the process was killed
	Err      error // spawn or I/O error; nil for plain non-zero exits
}

// Executor runs external commands. Implementations report every failure
// mode through the Outcome and never panic.
type Executor interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, cmd Command) Outcome
}

// RealExecutor spawns actual processes.
type RealExecutor struct{}

var _ Executor = (*RealExecutor)(nil)

// LookPath searches for an executable in $PATH.
func (e *RealExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes cmd, killing the process once the timeout expires. Output
// written before the kill is still captured.
func (e *RealExecutor) Run(ctx context.Context, cmd Command) Outcome {
	runCtx := ctx
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := buildCmd(runCtx, cmd.Name, cmd.Args)

	var stdout, stderr bytes.Buffer
	c.Stdout = &limitedWriter{buf: &stdout, max: maxCaptureLen}
	c.Stderr = &limitedWriter{buf: &stderr, max: maxCaptureLen}

	var out Outcome
	if err := c.Start(); err != nil {
		out.Err = err
		return out
	}

	waitErr := c.Wait()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	out.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)

	if c.ProcessState != nil && c.ProcessState.Exited() {
		out.Exited = true
		out.ExitCode = c.ProcessState.ExitCode()
	}

	// A plain non-zero exit is not an error here; the signal kill from a
	// timeout isn't either. Anything else (I/O failure mid-run) is.
	if waitErr != nil && !out.TimedOut {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			out.Err = waitErr
		}
	}

	return out
}

// Excerpt trims s and caps it for use as a log field.
func Excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxExcerptLen {
		s = s[:maxExcerptLen]
	}
	return s
}

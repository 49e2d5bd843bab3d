package executil

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Run(t *testing.T) {
	e := &RealExecutor{}
	ctx := context.Background()

	t.Run("captures stdout on success", func(t *testing.T) {
		out := e.Run(ctx, Command{Name: "echo", Args: []string{"hello"}})
		require.NoError(t, out.Err)
		assert.True(t, out.Exited)
		assert.Equal(t, 0, out.ExitCode)
		assert.Equal(t, "hello\n", out.Stdout)
		assert.False(t, out.TimedOut)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		out := e.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
		require.NoError(t, out.Err)
		assert.True(t, out.Exited)
		assert.Equal(t, 3, out.ExitCode)
		assert.Equal(t, "oops\n", out.Stderr)
	})

	t.Run("missing executable surfaces spawn error", func(t *testing.T) {
		out := e.Run(ctx, Command{Name: "definitely-not-a-command-12345"})
		require.Error(t, out.Err)
		assert.ErrorIs(t, out.Err, exec.ErrNotFound)
		assert.False(t, out.Exited)
	})

	t.Run("timeout kills process but keeps partial output", func(t *testing.T) {
		start := time.Now()
		out := e.Run(ctx, Command{
			Name:    "sh",
			Args:    []string{"-c", "echo partial; sleep 10"},
			Timeout: 200 * time.Millisecond,
		})
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.True(t, out.TimedOut)
		assert.False(t, out.Exited, "killed process has no exit code of its own")
		assert.Equal(t, "partial\n", out.Stdout)
		assert.NoError(t, out.Err)
	})
}

func TestLimitedWriter_CapsCapture(t *testing.T) {
	e := &RealExecutor{}

	// Write twice the cap; only the first maxCaptureLen bytes are kept.
	out := e.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "head -c 2097152 /dev/zero | tr '\\0' 'A'"},
	})
	require.NoError(t, out.Err)
	assert.Len(t, out.Stdout, maxCaptureLen)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("  short \n"))

	long := strings.Repeat("B", maxExcerptLen*2)
	assert.Len(t, Excerpt(long), maxExcerptLen)
}

func TestRecordingExecutor(t *testing.T) {
	e := &RecordingExecutor{
		Outcomes: map[string]Outcome{
			"claude": {Stdout: "1.2.3\n", Exited: true},
		},
		Paths: map[string]string{"claude": "/usr/local/bin/claude"},
	}
	ctx := context.Background()

	out := e.Run(ctx, Command{Name: "claude", Args: []string{"--version"}})
	assert.Equal(t, "1.2.3\n", out.Stdout)

	out = e.Run(ctx, Command{Name: "codex"})
	var execErr *exec.Error
	require.True(t, errors.As(out.Err, &execErr))
	assert.ErrorIs(t, out.Err, exec.ErrNotFound)

	require.Len(t, e.Commands, 2)
	assert.True(t, e.Ran("claude"))
	assert.False(t, e.Ran("gemini"))

	path, err := e.LookPath("claude")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/claude", path)

	_, err = e.LookPath("codex")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

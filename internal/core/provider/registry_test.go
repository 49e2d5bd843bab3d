package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry(
		Definition{ID: "claude", Name: "Claude Code"},
		Definition{ID: "codex", Name: "Codex CLI"},
	)

	def, ok := r.Get("claude")
	require.True(t, ok)
	assert.Equal(t, "Claude Code", def.Name)

	_, ok = r.Get("unknown")
	assert.False(t, ok)
}

func TestRegistry_DuplicateIDReplacesInPlace(t *testing.T) {
	r := NewRegistry(
		Definition{ID: "claude", Name: "first"},
		Definition{ID: "codex", Name: "Codex CLI"},
		Definition{ID: "claude", Name: "second"},
	)

	assert.Equal(t, []string{"claude", "codex"}, r.IDs())

	def, ok := r.Get("claude")
	require.True(t, ok)
	assert.Equal(t, "second", def.Name)
}

func TestRegistry_Match(t *testing.T) {
	r := NewRegistry(
		Definition{ID: "claude"},
		Definition{ID: "codex"},
		Definition{ID: "gemini"},
	)

	ids := func(defs []Definition) []string {
		out := make([]string, len(defs))
		for i, d := range defs {
			out[i] = d.ID
		}
		return out
	}

	assert.Equal(t, []string{"claude", "codex"}, ids(r.Match("c*")))
	assert.Equal(t, []string{"gemini"}, ids(r.Match("gemini")))
	assert.Empty(t, r.Match("x*"))
	assert.Empty(t, r.Match("[invalid"))
}

func TestBuiltin_CatalogShape(t *testing.T) {
	defs := Builtin()
	require.NotEmpty(t, defs)

	seen := map[string]bool{}
	for _, def := range defs {
		assert.NotEmpty(t, def.ID)
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Commands, "%s must have at least one command", def.ID)
		assert.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true
	}

	assert.True(t, seen["claude"])
	assert.True(t, seen["codex"])
}

func TestAuthOverrides(t *testing.T) {
	classify, message := authOverrides("Run `tool login`.", "Not logged in")

	t.Run("matches marker in stderr", func(t *testing.T) {
		res := ProbeResult{Stderr: "error: Not logged in\n"}
		code, ok := classify(res)
		require.True(t, ok)
		assert.Equal(t, StatusNeedsKey, code)

		msg, ok := message(res)
		require.True(t, ok)
		assert.Equal(t, "Run `tool login`.", msg)
	})

	t.Run("falls through without marker", func(t *testing.T) {
		_, ok := classify(ProbeResult{Stderr: "boom"})
		assert.False(t, ok)
		_, ok = message(ProbeResult{Stderr: "boom"})
		assert.False(t, ok)
	})

	t.Run("never fires on a successful run", func(t *testing.T) {
		_, ok := classify(ProbeResult{Success: true, Stdout: "Not logged in"})
		assert.False(t, ok)
	})
}

func TestProbeResult_Output(t *testing.T) {
	assert.Equal(t, "err", ProbeResult{Stderr: "err", Stdout: "out"}.Output())
	assert.Equal(t, "out", ProbeResult{Stdout: "out"}.Output())
	assert.Empty(t, ProbeResult{}.Output())
}

package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/internal/data/db"
)

func newTestStatusStore(t *testing.T) *StatusStore {
	t.Helper()
	database, err := db.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewStatusStore(database)
}

func TestStatusStore_SetAndGetAll(t *testing.T) {
	ctx := context.Background()
	store := newTestStatusStore(t)

	checked := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	st := provider.Status{
		Code:      provider.StatusConnected,
		Installed: true,
		Path:      "/usr/local/bin/claude",
		Version:   "2.3.1",
		CheckedAt: checked,
	}
	require.NoError(t, store.Set(ctx, "claude", st))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all["claude"]
	assert.Equal(t, provider.StatusConnected, got.Code)
	assert.True(t, got.Installed)
	assert.Equal(t, "/usr/local/bin/claude", got.Path)
	assert.Equal(t, "2.3.1", got.Version)
	assert.Empty(t, got.Message)
	assert.True(t, got.CheckedAt.Equal(checked))
}

func TestStatusStore_SetOverwritesWholesale(t *testing.T) {
	ctx := context.Background()
	store := newTestStatusStore(t)

	require.NoError(t, store.Set(ctx, "codex", provider.Status{
		Code:      provider.StatusConnected,
		Installed: true,
		Path:      "/usr/local/bin/codex",
		Version:   "0.42.0",
		CheckedAt: time.Now(),
	}))

	// A later check that found nothing replaces every field; no partial merge.
	require.NoError(t, store.Set(ctx, "codex", provider.Status{
		Code:      provider.StatusMissing,
		Message:   "Codex CLI was not found in PATH.",
		CheckedAt: time.Now(),
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)

	got := all["codex"]
	assert.Equal(t, provider.StatusMissing, got.Code)
	assert.False(t, got.Installed)
	assert.Empty(t, got.Path)
	assert.Empty(t, got.Version)
	assert.Equal(t, "Codex CLI was not found in PATH.", got.Message)
}

func TestStatusStore_GetAllEmpty(t *testing.T) {
	store := newTestStatusStore(t)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestStatusStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	database, err := db.Open(dir)
	require.NoError(t, err)
	store := NewStatusStore(database)
	require.NoError(t, store.Set(ctx, "gemini", provider.Status{
		Code:      provider.StatusError,
		Message:   "boom",
		CheckedAt: time.Now(),
	}))
	require.NoError(t, database.Close())

	database, err = db.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	all, err := NewStatusStore(database).GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, provider.StatusError, all["gemini"].Code)
	assert.Equal(t, "boom", all["gemini"].Message)
}

// Package stores provides SQLite-backed implementations of the core store
// interfaces.
package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/internal/data/db"
)

// StatusStore implements provider.Store using SQLite. Rows are overwritten
// wholesale on every completed check; the database serializes writes, so
// concurrent checks degrade to last-write-wins.
type StatusStore struct {
	db *db.DB
}

var _ provider.Store = (*StatusStore)(nil)

// NewStatusStore creates a SQLite-backed provider status store.
func NewStatusStore(db *db.DB) *StatusStore {
	return &StatusStore{db: db}
}

// GetAll returns every persisted provider status keyed by provider id.
func (s *StatusStore) GetAll(ctx context.Context) (map[string]provider.Status, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, status, installed, path, version, message, checked_at FROM provider_status`)
	if err != nil {
		return nil, fmt.Errorf("list provider statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]provider.Status)
	for rows.Next() {
		var (
			id        string
			st        provider.Status
			path      sql.NullString
			version   sql.NullString
			message   sql.NullString
			checkedAt int64
		)
		if err := rows.Scan(&id, &st.Code, &st.Installed, &path, &version, &message, &checkedAt); err != nil {
			return nil, fmt.Errorf("scan provider status: %w", err)
		}
		st.Path = path.String
		st.Version = version.String
		st.Message = message.String
		st.CheckedAt = time.Unix(0, checkedAt)
		out[id] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider statuses: %w", err)
	}
	return out, nil
}

// Set overwrites the status row for id.
func (s *StatusStore) Set(ctx context.Context, id string, st provider.Status) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO provider_status (id, status, installed, path, version, message, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			installed = excluded.installed,
			path = excluded.path,
			version = excluded.version,
			message = excluded.message,
			checked_at = excluded.checked_at`,
		id, string(st.Code), st.Installed,
		nullable(st.Path), nullable(st.Version), nullable(st.Message),
		st.CheckedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("set provider status %q: %w", id, err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

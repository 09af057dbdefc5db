// Package sqlitestore provides a durable statestore.Store backed by SQLite.
// It is used when a canvas should survive host restarts; the schema is one
// row per widget instance with the state held as a JSON text column.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/stickernest/stickernest/internal/statestore"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS widget_state (
	instance_id TEXT PRIMARY KEY,
	widget_id   TEXT NOT NULL,
	state       TEXT NOT NULL,
	updated_at  DATETIME NOT NULL
);`

// Store is a SQLite-backed implementation of statestore.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the state database at dataSourceName.
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save upserts the state blob for an instance.
func (s *Store) Save(ctx context.Context, rec statestore.Record) error {
	state := rec.State
	if state == nil {
		state = json.RawMessage(`{}`)
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO widget_state (instance_id, widget_id, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(instance_id) DO UPDATE SET widget_id = excluded.widget_id, state = excluded.state, updated_at = excluded.updated_at`,
		rec.InstanceID, rec.WidgetID, string(state), time.Now().UTC())
	return err
}

// Load retrieves the stored blob for an instance, or nil when absent.
func (s *Store) Load(ctx context.Context, instanceID string) (json.RawMessage, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM widget_state WHERE instance_id = ?`, instanceID).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(state), nil
}

// Delete removes an instance's state.
func (s *Store) Delete(ctx context.Context, instanceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM widget_state WHERE instance_id = ?`, instanceID)
	return err
}

// List returns all stored records.
func (s *Store) List(ctx context.Context) ([]statestore.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT instance_id, widget_id, state FROM widget_state ORDER BY instance_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []statestore.Record
	for rows.Next() {
		var rec statestore.Record
		var state string
		if err := rows.Scan(&rec.InstanceID, &rec.WidgetID, &state); err != nil {
			return nil, err
		}
		rec.State = json.RawMessage(state)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

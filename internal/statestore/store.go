// Package statestore defines the persistence interface for per-widget
// instance state. Each instance owns a private JSON blob with no cross-widget
// schema guarantees; the store treats it as opaque.
package statestore

import (
	"context"
	"encoding/json"
)

// Record is one persisted widget state entry.
type Record struct {
	InstanceID string
	WidgetID   string
	State      json.RawMessage
}

// Store persists widget instance state blobs keyed by instance ID.
//
// Implementations must be safe for concurrent use: the host's dispatcher
// saves on SetState while the autosave ticker re-persists dirty instances.
type Store interface {
	// Save upserts the state blob for an instance.
	Save(ctx context.Context, rec Record) error

	// Load returns the stored blob for an instance. A missing instance
	// yields a nil blob and no error; fresh widgets mount with empty state.
	Load(ctx context.Context, instanceID string) (json.RawMessage, error)

	// Delete removes an instance's state. Deleting a missing instance is a
	// no-op.
	Delete(ctx context.Context, instanceID string) error

	// List returns all stored records, for canvas restore.
	List(ctx context.Context) ([]Record, error)

	// Close releases any underlying resources.
	Close() error
}

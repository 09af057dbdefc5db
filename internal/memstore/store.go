// Package memstore provides an ephemeral, thread-safe, in-memory
// implementation of the statestore.Store interface.
//
// It backs local and test sessions where canvas state does not need to
// survive a restart. sync.Map fits the access pattern: the instance key space
// is stable after Instantiate, while values change on every SetState and
// autosave tick, often from the dispatcher and ticker concurrently.
package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/stickernest/stickernest/internal/statestore"
)

// Store is an in-memory implementation of statestore.Store.
type Store struct {
	records sync.Map // Key: instance ID string, Value: statestore.Record
}

// New creates a new, empty in-memory state store.
func New() statestore.Store {
	return &Store{}
}

// Save upserts the state blob for an instance. The blob is copied so later
// caller mutations cannot alter the stored value.
func (s *Store) Save(ctx context.Context, rec statestore.Record) error {
	stored := rec
	stored.State = append(json.RawMessage(nil), rec.State...)
	s.records.Store(rec.InstanceID, stored)
	return nil
}

// Load retrieves the stored blob for an instance, or nil when absent.
func (s *Store) Load(ctx context.Context, instanceID string) (json.RawMessage, error) {
	val, ok := s.records.Load(instanceID)
	if !ok {
		return nil, nil
	}
	rec := val.(statestore.Record)
	return append(json.RawMessage(nil), rec.State...), nil
}

// Delete removes an instance's state.
func (s *Store) Delete(ctx context.Context, instanceID string) error {
	s.records.Delete(instanceID)
	return nil
}

// List returns all stored records.
func (s *Store) List(ctx context.Context) ([]statestore.Record, error) {
	var out []statestore.Record
	s.records.Range(func(_, val any) bool {
		out = append(out, val.(statestore.Record))
		return true
	})
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

package sqlitestore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stickernest/stickernest/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	blob, err := s.Load(ctx, "inst-1")
	require.NoError(t, err)
	assert.Nil(t, blob)

	require.NoError(t, s.Save(ctx, statestore.Record{
		InstanceID: "inst-1",
		WidgetID:   "stickernest.hit-counter",
		State:      json.RawMessage(`{"hits":41}`),
	}))

	// Upsert replaces the previous blob.
	require.NoError(t, s.Save(ctx, statestore.Record{
		InstanceID: "inst-1",
		WidgetID:   "stickernest.hit-counter",
		State:      json.RawMessage(`{"hits":42}`),
	}))

	blob, err = s.Load(ctx, "inst-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hits":42}`, string(blob))
}

func TestDeleteAndList(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, statestore.Record{InstanceID: "a", WidgetID: "w", State: json.RawMessage(`{}`)}))
	require.NoError(t, s.Save(ctx, statestore.Record{InstanceID: "b", WidgetID: "w", State: json.RawMessage(`{}`)}))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].InstanceID)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a")) // no-op

	records, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].InstanceID)
}

func TestNilStateStoredAsEmptyObject(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, statestore.Record{InstanceID: "a", WidgetID: "w"}))
	blob, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(blob))
}

// The durable store survives reopening the same file.
func TestReopenPersists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, statestore.Record{
		InstanceID: "inst-1",
		WidgetID:   "stickernest.guestbook",
		State:      json.RawMessage(`{"entries":2}`),
	}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	blob, err := s.Load(ctx, "inst-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":2}`, string(blob))
}

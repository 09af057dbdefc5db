package host

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/memstore"
	"github.com/stickernest/stickernest/internal/preset"
	"github.com/stickernest/stickernest/internal/registry"
	"github.com/stickernest/stickernest/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return ctxlog.WithLogger(context.Background(), logger)
}

// relayWidget declares one object input, one object output and one string
// output, enough to exercise routing and type checks.
func relayWidget(id string) *registry.Widget {
	m := &manifest.Manifest{
		ID:      id,
		Name:    id,
		Version: "1.0.0",
		Kind:    "panel",
		Entry:   "index.html",
		Inputs: map[string]manifest.PortDefinition{
			"data.in": {Type: manifest.TypeObject},
		},
		Outputs: map[string]manifest.PortDefinition{
			"data.out":  {Type: manifest.TypeObject},
			"note.out":  {Type: manifest.TypeString},
			"loose.out": {Type: manifest.TypeAny},
		},
		IO: manifest.IO{
			Inputs:  []string{"data.in"},
			Outputs: []string{"data.out", "note.out"},
		},
		Events: &manifest.Events{
			Emits:   []string{"canvas.note"},
			Listens: []string{"canvas.note"},
		},
		Size: manifest.Size{Width: 100, Height: 100},
	}
	return registry.NewWidget(m, "")
}

func relayRegistry() *registry.Registry {
	r := registry.New()
	r.Register(relayWidget("relay.alpha"))
	r.Register(relayWidget("relay.beta"))
	r.Register(relayWidget("relay.gamma"))
	return r
}

func relayPreset() *preset.Preset {
	return &preset.Preset{
		ID:      "relay-line",
		Name:    "Relay Line",
		Widgets: []string{"relay.alpha", "relay.beta", "relay.gamma"},
		Connections: []preset.Connection{
			{
				From: preset.Endpoint{WidgetID: "relay.alpha", Port: "data.out"},
				To:   preset.Endpoint{WidgetID: "relay.beta", Port: "data.in"},
			},
			{
				From: preset.Endpoint{WidgetID: "relay.beta", Port: "data.out"},
				To:   preset.Endpoint{WidgetID: "relay.gamma", Port: "data.in"},
			},
		},
	}
}

func startCanvas(t *testing.T, ctx context.Context, p *preset.Preset, store statestore.Store) *Canvas {
	t.Helper()
	c, err := Instantiate(ctx, p, relayRegistry(), store, Options{AutosaveInterval: time.Hour})
	require.NoError(t, err)
	c.Start(ctx)
	t.Cleanup(func() { c.Close(ctx) })
	return c
}

// flush drains the dispatch queue n times; chained deliveries enqueue one
// hop per pass.
func flush(t *testing.T, ctx context.Context, c *Canvas, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, c.Flush(ctx))
	}
}

func TestMountFiresBeforeInputDelivery(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	store := memstore.New()
	require.NoError(t, store.Save(ctx, statestore.Record{
		InstanceID: "relay-line/relay.beta",
		WidgetID:   "relay.beta",
		State:      json.RawMessage(`{"seen":1}`),
	}))

	c, err := Instantiate(ctx, relayPreset(), relayRegistry(), store, Options{AutosaveInterval: time.Hour})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })

	beta, ok := c.Instance("relay.beta")
	require.True(t, ok)

	var sequence []string
	beta.OnMount(func(mc MountContext) {
		sequence = append(sequence, "mount")
		assert.JSONEq(t, `{"seen":1}`, string(mc.State))
	})
	require.NoError(t, beta.OnInput("data.in", func(any) {
		sequence = append(sequence, "input")
	}))

	alpha, ok := c.Instance("relay.alpha")
	require.True(t, ok)
	require.NoError(t, alpha.EmitOutput("data.out", map[string]any{"n": 1}))

	c.Start(ctx)
	flush(t, ctx, c, 1)

	require.GreaterOrEqual(t, len(sequence), 2)
	assert.Equal(t, "mount", sequence[0])
	assert.Equal(t, "input", sequence[1])
}

func TestOnMountAfterStartFiresImmediately(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")

	fired := false
	alpha.OnMount(func(MountContext) { fired = true })
	assert.True(t, fired)
}

func TestRoutingAndFIFOOrder(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")
	beta, _ := c.Instance("relay.beta")

	var got []float64
	require.NoError(t, beta.OnInput("data.in", func(payload any) {
		obj := payload.(map[string]any)
		got = append(got, obj["n"].(float64))
	}))

	for i := 1; i <= 5; i++ {
		require.NoError(t, alpha.EmitOutput("data.out", map[string]any{"n": float64(i)}))
	}
	flush(t, ctx, c, 1)

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)
}

func TestChainedDeliveryAcrossTwoHops(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")
	beta, _ := c.Instance("relay.beta")
	gamma, _ := c.Instance("relay.gamma")

	require.NoError(t, beta.OnInput("data.in", func(payload any) {
		require.NoError(t, beta.EmitOutput("data.out", payload))
	}))

	var got any
	require.NoError(t, gamma.OnInput("data.in", func(payload any) {
		got = payload
	}))

	require.NoError(t, alpha.EmitOutput("data.out", map[string]any{"hop": "twice"}))
	flush(t, ctx, c, 2)

	require.NotNil(t, got)
	assert.Equal(t, "twice", got.(map[string]any)["hop"])
}

func TestMultipleSubscribersAllFire(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")
	beta, _ := c.Instance("relay.beta")

	count := 0
	require.NoError(t, beta.OnInput("data.in", func(any) { count++ }))
	require.NoError(t, beta.OnInput("data.in", func(any) { count++ }))

	require.NoError(t, alpha.EmitOutput("data.out", map[string]any{}))
	flush(t, ctx, c, 1)

	assert.Equal(t, 2, count)
}

func TestEmitOutputErrors(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")

	err := alpha.EmitOutput("no.such", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownPort)

	err = alpha.EmitOutput("note.out", 42)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = alpha.OnInput("no.such", func(any) {})
	assert.ErrorIs(t, err, ErrUnknownPort)

	// Undeclared payload shapes pass through "any" ports untouched.
	assert.NoError(t, alpha.EmitOutput("loose.out", struct{ X int }{1}))
}

func TestBusNormalizesLegacyEventNames(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")
	beta, _ := c.Instance("relay.beta")

	var got any
	require.NoError(t, beta.On("social.comment-new", func(payload any) { got = payload }))

	// Emitting under the legacy colon convention reaches dotted listeners.
	require.NoError(t, alpha.Emit("social:comment-new", "hi"))
	flush(t, ctx, c, 1)

	assert.Equal(t, "hi", got)

	err := alpha.Emit("###", nil)
	assert.ErrorIs(t, err, ErrBadEventName)
}

func TestBusReachesEmitterToo(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	alpha, _ := c.Instance("relay.alpha")

	heard := false
	require.NoError(t, alpha.On("canvas.note", func(any) { heard = true }))
	require.NoError(t, alpha.Emit("canvas.note", nil))
	flush(t, ctx, c, 1)

	assert.True(t, heard)
}

func TestSetStatePersistsAndNotifies(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	store := memstore.New()
	c := startCanvas(t, ctx, relayPreset(), store)
	alpha, _ := c.Instance("relay.alpha")

	var observed json.RawMessage
	alpha.OnStateChange(func(state json.RawMessage) { observed = state })

	require.NoError(t, alpha.SetState(map[string]any{"items": []string{"milk"}}))
	flush(t, ctx, c, 1)

	assert.JSONEq(t, `{"items":["milk"]}`, string(observed))

	blob, err := store.Load(ctx, alpha.InstanceID())
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":["milk"]}`, string(blob))
}

func TestDestroyFiresExactlyOnce(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	c := startCanvas(t, ctx, relayPreset(), memstore.New())
	beta, _ := c.Instance("relay.beta")

	destroyed := 0
	beta.OnDestroy(func() { destroyed++ })

	require.NoError(t, c.Destroy(ctx, "relay.beta"))
	require.NoError(t, c.Close(ctx))

	assert.Equal(t, 1, destroyed)
	assert.ErrorIs(t, beta.EmitOutput("data.out", map[string]any{}), ErrDestroyed)
	assert.ErrorIs(t, beta.SetState(map[string]any{}), ErrDestroyed)
}

func TestSanitizedPresetStillDelivers(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	p := relayPreset()
	p.Widgets = append(p.Widgets, "relay.ghost")
	p.Connections = append(p.Connections, preset.Connection{
		From: preset.Endpoint{WidgetID: "relay.ghost", Port: "data.out"},
		To:   preset.Endpoint{WidgetID: "relay.beta", Port: "data.in"},
	})

	c := startCanvas(t, ctx, p, memstore.New())
	_, ok := c.Instance("relay.ghost")
	assert.False(t, ok)

	alpha, _ := c.Instance("relay.alpha")
	beta, _ := c.Instance("relay.beta")

	delivered := false
	require.NoError(t, beta.OnInput("data.in", func(any) { delivered = true }))
	require.NoError(t, alpha.EmitOutput("data.out", map[string]any{}))
	flush(t, ctx, c, 1)

	assert.True(t, delivered)
}

// scriptedStore wraps a store with per-save hooks consumed in order. A hook
// returning an error fails that save without touching the wrapped store.
type scriptedStore struct {
	statestore.Store

	mu    sync.Mutex
	hooks []func(statestore.Record) error
}

func (s *scriptedStore) push(hook func(statestore.Record) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

func (s *scriptedStore) Save(ctx context.Context, rec statestore.Record) error {
	s.mu.Lock()
	var hook func(statestore.Record) error
	if len(s.hooks) > 0 {
		hook = s.hooks[0]
		s.hooks = s.hooks[1:]
	}
	s.mu.Unlock()

	if hook != nil {
		if err := hook(rec); err != nil {
			return err
		}
	}
	return s.Store.Save(ctx, rec)
}

func TestAutosaveRetriesFailedSave(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	base := memstore.New()
	store := &scriptedStore{Store: base}

	// The synchronous save on SetState fails, leaving the instance dirty;
	// only the ticker can get the blob into the store after that.
	store.push(func(statestore.Record) error { return errors.New("store offline") })

	c, err := Instantiate(ctx, relayPreset(), relayRegistry(), store, Options{AutosaveInterval: 30 * time.Millisecond})
	require.NoError(t, err)
	c.Start(ctx)
	t.Cleanup(func() { c.Close(ctx) })

	alpha, _ := c.Instance("relay.alpha")
	require.NoError(t, alpha.SetState(map[string]any{"v": 1}))

	require.Eventually(t, func() bool {
		blob, err := base.Load(ctx, alpha.InstanceID())
		return err == nil && blob != nil
	}, 2*time.Second, 10*time.Millisecond)

	blob, err := base.Load(ctx, alpha.InstanceID())
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(blob))
}

func TestStaleSaveKeepsNewerStateDirty(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	base := memstore.New()
	store := &scriptedStore{Store: base}

	c, err := Instantiate(ctx, relayPreset(), relayRegistry(), store, Options{AutosaveInterval: time.Hour})
	require.NoError(t, err)
	c.Start(ctx)
	t.Cleanup(func() { c.Close(ctx) })

	alpha, _ := c.Instance("relay.alpha")

	// Leave v1 dirty: its synchronous save fails.
	store.push(func(statestore.Record) error { return errors.New("store offline") })
	require.NoError(t, alpha.SetState(map[string]any{"v": 1}))

	// While the autosave pass is writing the v1 snapshot, v2 arrives and its
	// own save fails. The completed v1 write must not mark v2 as saved.
	store.push(func(statestore.Record) error {
		store.push(func(statestore.Record) error { return errors.New("store offline") })
		require.NoError(t, alpha.SetState(map[string]any{"v": 2}))
		return nil
	})
	c.saveDirty(ctx)

	blob, err := base.Load(ctx, alpha.InstanceID())
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(blob))

	// The next pass still sees the instance dirty and persists v2.
	c.saveDirty(ctx)
	blob, err = base.Load(ctx, alpha.InstanceID())
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(blob))
}

func TestCloseSavesFinalState(t *testing.T) {
	t.Parallel()
	ctx := testContext()

	store := memstore.New()
	c, err := Instantiate(ctx, relayPreset(), relayRegistry(), store, Options{AutosaveInterval: time.Hour})
	require.NoError(t, err)
	c.Start(ctx)

	alpha, _ := c.Instance("relay.alpha")
	require.NoError(t, alpha.SetState(map[string]any{"final": true}))
	require.NoError(t, c.Close(ctx))

	blob, err := store.Load(ctx, "relay-line/relay.alpha")
	require.NoError(t, err)
	assert.JSONEq(t, `{"final":true}`, string(blob))
}

package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/graph"
	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/portname"
	"github.com/stickernest/stickernest/internal/preset"
	"github.com/stickernest/stickernest/internal/registry"
	"github.com/stickernest/stickernest/internal/statestore"
)

// Options tunes a canvas instance.
type Options struct {
	// AutosaveInterval is how often dirty instance state is re-persisted.
	// Zero means the 5 second default.
	AutosaveInterval time.Duration

	// QueueSize bounds the dispatcher queue. Deliveries beyond it are
	// dropped and logged; the canvas applies no backpressure to emitters.
	// Zero means the 256 default.
	QueueSize int
}

const (
	defaultAutosaveInterval = 5 * time.Second
	defaultQueueSize        = 256
)

// Canvas is a running preset: one instance per preset widget, a routing
// table built from the preset's valid connections, and the dispatcher that
// carries all traffic between instances.
type Canvas struct {
	logger    *slog.Logger
	store     statestore.Store
	preset    *preset.Preset
	wiring    *graph.Graph
	sessionID string
	autosave  time.Duration

	instances map[string]*Instance // widget ID -> instance
	order     []string             // widget IDs in preset order

	queue chan envelope
	stop  chan struct{}
	wg    sync.WaitGroup

	startOnce sync.Once
	closeOnce sync.Once
}

// Instantiate validates the preset against the registry (soft-dropping
// broken edges), creates one instance per widget with its persisted state
// loaded, and returns a canvas ready to Start. Validation problems are
// reported through the logger, never as a failed load; only storage errors
// abort instantiation.
func Instantiate(ctx context.Context, p *preset.Preset, reg *registry.Registry, store statestore.Store, opts Options) (*Canvas, error) {
	logger := ctxlog.FromContext(ctx).With("preset", p.ID)

	clean, res := preset.Sanitize(p, reg)
	for _, msg := range res.Errors {
		logger.Warn("Dropping invalid preset reference.", "problem", msg)
	}
	for _, msg := range res.Warnings {
		logger.Warn("Preset wiring warning.", "warning", msg)
	}

	if opts.AutosaveInterval <= 0 {
		opts.AutosaveInterval = defaultAutosaveInterval
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	c := &Canvas{
		logger:    logger,
		store:     store,
		preset:    clean,
		wiring:    preset.BuildGraph(clean, reg),
		sessionID: uuid.NewString(),
		autosave:  opts.AutosaveInterval,
		instances: make(map[string]*Instance, len(clean.Widgets)),
		queue:     make(chan envelope, opts.QueueSize),
		stop:      make(chan struct{}),
	}

	for _, widgetID := range clean.Widgets {
		w, ok := reg.Get(widgetID)
		if !ok {
			// Sanitize already pruned unknown widgets.
			continue
		}

		// Instance IDs are deterministic so persisted state survives
		// restarts; the session ID distinguishes concurrent canvases in
		// logs and gateway handshakes.
		instanceID := fmt.Sprintf("%s/%s", clean.ID, widgetID)
		state, err := store.Load(ctx, instanceID)
		if err != nil {
			return nil, fmt.Errorf("failed to load state for instance %s: %w", instanceID, err)
		}

		c.instances[widgetID] = newInstance(instanceID, w, c, state)
		c.order = append(c.order, widgetID)
	}

	logger.Debug("Canvas instantiated.", "session", c.sessionID, "widgets", len(c.instances))
	return c, nil
}

// SessionID returns the unique ID of this canvas run.
func (c *Canvas) SessionID() string { return c.sessionID }

// Preset returns the sanitized preset this canvas runs.
func (c *Canvas) Preset() *preset.Preset { return c.preset }

// Instance returns the live instance for a widget ID.
func (c *Canvas) Instance(widgetID string) (*Instance, bool) {
	in, ok := c.instances[widgetID]
	return in, ok
}

// InstanceByID returns the live instance with the given instance ID.
func (c *Canvas) InstanceByID(instanceID string) (*Instance, bool) {
	for _, in := range c.instances {
		if in.id == instanceID {
			return in, true
		}
	}
	return nil, false
}

// Instances returns the live instances in preset order.
func (c *Canvas) Instances() []*Instance {
	out := make([]*Instance, 0, len(c.order))
	for _, widgetID := range c.order {
		out = append(out, c.instances[widgetID])
	}
	return out
}

// Start runs the mount pass and then launches the dispatcher and the
// autosave ticker. Mount callbacks complete for every instance before any
// input or event is delivered.
func (c *Canvas) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		for _, widgetID := range c.order {
			c.instances[widgetID].mount()
		}
		c.logger.Debug("Mount pass complete.", "instances", len(c.order))

		c.wg.Add(2)
		go c.dispatcher(ctx)
		go c.autosaver(ctx)
	})
}

// Destroy tears down a single instance: destroy callbacks fire exactly
// once, the final state is persisted, and later deliveries to it are
// dropped.
func (c *Canvas) Destroy(ctx context.Context, widgetID string) error {
	in, ok := c.instances[widgetID]
	if !ok {
		return fmt.Errorf("no instance for widget %q", widgetID)
	}
	c.finalizeInstance(ctx, in)
	return nil
}

// Close stops the dispatcher and ticker, then destroys every remaining
// instance with a final state save.
func (c *Canvas) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.wg.Wait()
		for _, widgetID := range c.order {
			c.finalizeInstance(ctx, c.instances[widgetID])
		}
		c.logger.Debug("Canvas closed.", "session", c.sessionID)
	})
	return nil
}

// finalizeInstance persists the last state snapshot and fires destroy
// callbacks. Safe to call more than once per instance.
func (c *Canvas) finalizeInstance(ctx context.Context, in *Instance) {
	in.mu.Lock()
	alreadyDestroyed := in.destroyed
	snapshot := in.stateSnapshotLocked()
	in.mu.Unlock()

	if alreadyDestroyed {
		return
	}

	if snapshot != nil {
		if err := c.store.Save(ctx, instanceRecord(in, snapshot)); err != nil {
			c.logger.Error("Final state save failed.", "instance", in.id, "error", err)
		}
	}

	in.destroy()
}

// persistState saves an instance's current blob and notifies state
// subscribers. A failed save keeps the instance dirty so the autosave
// ticker retries it.
func (c *Canvas) persistState(in *Instance) {
	in.mu.Lock()
	snapshot := in.stateSnapshotLocked()
	rev := in.rev
	in.mu.Unlock()

	if err := c.store.Save(context.Background(), instanceRecord(in, snapshot)); err != nil {
		c.logger.Error("State save failed, will retry on autosave.", "instance", in.id, "error", err)
	} else {
		in.markSaved(rev)
	}

	c.enqueue(envelope{kind: stateDelivery, toWidget: in.WidgetID(), state: snapshot})
}

// checkPayloadType delegates to the manifest type system.
func checkPayloadType(keyword string, payload any) error {
	return manifest.CheckPayload(keyword, payload)
}

// instanceRecord builds the persistence record for an instance snapshot.
func instanceRecord(in *Instance, snapshot json.RawMessage) statestore.Record {
	return statestore.Record{
		InstanceID: in.id,
		WidgetID:   in.WidgetID(),
		State:      snapshot,
	}
}

// declaresEmit reports whether the widget's manifest advertises the
// normalized event in its events.emits list. Advisory only.
func declaresEmit(in *Instance, event string) bool {
	events := in.widget.Manifest.Events
	if events == nil {
		return false
	}
	for _, raw := range events.Emits {
		if name, err := portname.Normalize(raw); err == nil && name.String() == event {
			return true
		}
	}
	return false
}

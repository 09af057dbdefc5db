package host

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/stickernest/stickernest/internal/portname"
	"github.com/stickernest/stickernest/internal/registry"
)

// Instance is one live widget on the canvas. It implements API; the canvas
// hands the instance itself to the widget's driver code.
type Instance struct {
	id     string
	widget *registry.Widget
	canvas *Canvas

	mu        sync.Mutex
	mounted   bool
	destroyed bool
	state     json.RawMessage
	dirty     bool
	rev       uint64

	mountCbs   []func(MountContext)
	inputSubs  map[string][]func(any)
	eventSubs  map[string][]func(any)
	stateSubs  []func(json.RawMessage)
	destroyCbs []func()
}

func newInstance(id string, w *registry.Widget, c *Canvas, state json.RawMessage) *Instance {
	return &Instance{
		id:        id,
		widget:    w,
		canvas:    c,
		state:     state,
		inputSubs: make(map[string][]func(any)),
		eventSubs: make(map[string][]func(any)),
	}
}

// InstanceID returns the unique ID of this widget instance.
func (in *Instance) InstanceID() string { return in.id }

// WidgetID returns the manifest ID of the widget this instance runs.
func (in *Instance) WidgetID() string { return in.widget.Manifest.ID }

// Widget returns the underlying catalog entry.
func (in *Instance) Widget() *registry.Widget { return in.widget }

// OnMount registers a single-shot mount callback. After the mount pass it
// fires immediately, which covers drivers that attach to an already-running
// canvas.
func (in *Instance) OnMount(cb func(MountContext)) {
	in.mu.Lock()
	if in.destroyed {
		in.mu.Unlock()
		return
	}
	if !in.mounted {
		in.mountCbs = append(in.mountCbs, cb)
		in.mu.Unlock()
		return
	}
	snapshot := in.stateSnapshotLocked()
	in.mu.Unlock()

	cb(MountContext{State: snapshot})
}

// OnInput subscribes to a named input port.
func (in *Instance) OnInput(port string, cb func(payload any)) error {
	if _, ok := in.widget.Manifest.InputPort(port); !ok {
		return fmt.Errorf("%w: widget %q declares no input port %q", ErrUnknownPort, in.WidgetID(), port)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.destroyed {
		return fmt.Errorf("%w: %s", ErrDestroyed, in.id)
	}
	in.inputSubs[port] = append(in.inputSubs[port], cb)
	return nil
}

// EmitOutput validates the payload against the declared port and enqueues
// delivery along every wired connection.
func (in *Instance) EmitOutput(port string, payload any) error {
	def, ok := in.widget.Manifest.OutputPort(port)
	if !ok {
		return fmt.Errorf("%w: widget %q declares no output port %q", ErrUnknownPort, in.WidgetID(), port)
	}
	if err := in.checkDestroyed(); err != nil {
		return err
	}
	if err := checkPayloadType(def.Type, payload); err != nil {
		return fmt.Errorf("%w: output %q of widget %q: %v", ErrTypeMismatch, port, in.WidgetID(), err)
	}

	in.canvas.routeOutput(in, port, payload)
	return nil
}

// On subscribes to a broadcast bus event.
func (in *Instance) On(event string, cb func(payload any)) error {
	name, err := portname.Normalize(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadEventName, err)
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.destroyed {
		return fmt.Errorf("%w: %s", ErrDestroyed, in.id)
	}
	canonical := name.String()
	in.eventSubs[canonical] = append(in.eventSubs[canonical], cb)
	return nil
}

// Emit broadcasts a payload on the bus.
func (in *Instance) Emit(event string, payload any) error {
	name, err := portname.Normalize(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadEventName, err)
	}
	if err := in.checkDestroyed(); err != nil {
		return err
	}

	in.canvas.broadcast(in, name.String(), payload)
	return nil
}

// SetState replaces the persisted state blob and fires OnStateChange
// subscribers with the stored copy.
func (in *Instance) SetState(state any) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("state for widget %q is not serializable: %w", in.WidgetID(), err)
	}

	in.mu.Lock()
	if in.destroyed {
		in.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDestroyed, in.id)
	}
	in.state = blob
	in.dirty = true
	in.rev++
	in.mu.Unlock()

	in.canvas.persistState(in)
	return nil
}

// OnStateChange subscribes to state persistence round-trips.
func (in *Instance) OnStateChange(cb func(state json.RawMessage)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.destroyed {
		return
	}
	in.stateSubs = append(in.stateSubs, cb)
}

// OnDestroy registers a teardown callback.
func (in *Instance) OnDestroy(cb func()) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.destroyed {
		return
	}
	in.destroyCbs = append(in.destroyCbs, cb)
}

// Log writes a widget-scoped diagnostic line through the host logger.
func (in *Instance) Log(msg string, args ...any) {
	in.canvas.logger.With("widget", in.WidgetID(), "instance", in.id).Info(msg, args...)
}

func (in *Instance) checkDestroyed() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.destroyed {
		return fmt.Errorf("%w: %s", ErrDestroyed, in.id)
	}
	return nil
}

// stateSnapshotLocked copies the current blob; callers hold in.mu.
func (in *Instance) stateSnapshotLocked() json.RawMessage {
	if in.state == nil {
		return nil
	}
	return append(json.RawMessage(nil), in.state...)
}

// mount fires the mount callbacks exactly once with the state snapshot.
func (in *Instance) mount() {
	in.mu.Lock()
	if in.mounted || in.destroyed {
		in.mu.Unlock()
		return
	}
	in.mounted = true
	cbs := in.mountCbs
	in.mountCbs = nil
	snapshot := in.stateSnapshotLocked()
	in.mu.Unlock()

	for _, cb := range cbs {
		cb(MountContext{State: snapshot})
	}
}

// destroy fires the destroy callbacks exactly once and drops all
// subscriptions.
func (in *Instance) destroy() {
	in.mu.Lock()
	if in.destroyed {
		in.mu.Unlock()
		return
	}
	in.destroyed = true
	cbs := in.destroyCbs
	in.destroyCbs = nil
	in.inputSubs = make(map[string][]func(any))
	in.eventSubs = make(map[string][]func(any))
	in.stateSubs = nil
	in.mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// markSaved clears the dirty flag for the revision that was persisted. A
// SetState landing between snapshot and save bumps the revision, so the
// stale save must not mark the newer state clean.
func (in *Instance) markSaved(rev uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.rev == rev {
		in.dirty = false
	}
}

func (in *Instance) inputSubscribers(port string) []func(any) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]func(any){}, in.inputSubs[port]...)
}

func (in *Instance) eventSubscribers(event string) []func(any) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]func(any){}, in.eventSubs[event]...)
}

func (in *Instance) stateSubscribers() []func(json.RawMessage) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]func(json.RawMessage){}, in.stateSubs...)
}

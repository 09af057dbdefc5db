package host

import "encoding/json"

// MountContext is the snapshot handed to mount callbacks.
type MountContext struct {
	State json.RawMessage
}

// API is the capability surface the canvas hands to each widget instance.
// It is an explicit dependency: widgets receive exactly one API value and
// there is no ambient global fallback.
type API interface {
	// InstanceID returns the unique ID of this widget instance.
	InstanceID() string

	// WidgetID returns the manifest ID of the widget this instance runs.
	WidgetID() string

	// OnMount registers a single-shot lifecycle callback. It fires with the
	// persisted state snapshot before any input or event delivery; a
	// callback registered after mount fires immediately.
	OnMount(cb func(MountContext))

	// OnInput subscribes to a named input port. Multiple subscriptions to
	// the same port are allowed and all fire, in registration order.
	OnInput(port string, cb func(payload any)) error

	// EmitOutput routes a payload to every connection wired from the named
	// output port. Unknown ports and non-conforming payloads are rejected;
	// an output with no wired connections is a silent no-op.
	EmitOutput(port string, payload any) error

	// On subscribes to a broadcast bus event. Event names are normalized,
	// so legacy colon-separated names match their dotted equivalents.
	On(event string, cb func(payload any)) error

	// Emit broadcasts a payload to every instance listening on the event,
	// including the emitter.
	Emit(event string, payload any) error

	// SetState replaces the instance's persisted state blob and then fires
	// every OnStateChange subscriber with the stored copy.
	SetState(state any) error

	// OnStateChange subscribes to state persistence round-trips.
	OnStateChange(cb func(state json.RawMessage))

	// OnDestroy registers a teardown callback. Destroy callbacks fire
	// exactly once, before the instance is unloaded.
	OnDestroy(cb func())

	// Log writes a widget-scoped diagnostic line through the host logger.
	Log(msg string, args ...any)
}

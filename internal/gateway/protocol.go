package gateway

import (
	"encoding/json"
	"fmt"
)

// Client -> host event names.
const (
	EventAttach       = "attach"
	EventInputSub     = "input.subscribe"
	EventOutputEmit   = "output.emit"
	EventBusSub       = "bus.subscribe"
	EventBusEmit      = "bus.emit"
	EventStateSet     = "state.set"
	EventDetachWidget = "detach"
)

// Host -> client event names.
const (
	EventMounted   = "mounted"
	EventInput     = "input"
	EventBus       = "bus"
	EventState     = "state"
	EventDestroyed = "destroyed"
	EventError     = "error"
)

// AttachFrame binds a connection to one widget instance on the canvas.
type AttachFrame struct {
	WidgetID string `json:"widgetId"`
}

// MountedFrame answers a successful attach with the instance identity and
// its last persisted state.
type MountedFrame struct {
	InstanceID string          `json:"instanceId"`
	SessionID  string          `json:"sessionId"`
	State      json.RawMessage `json:"state,omitempty"`
}

// SubscribeFrame names the input port or bus event to subscribe to.
type SubscribeFrame struct {
	Port  string `json:"port,omitempty"`
	Event string `json:"event,omitempty"`
}

// PortFrame carries a payload across a named port in either direction.
type PortFrame struct {
	Port    string `json:"port"`
	Payload any    `json:"payload"`
}

// BusFrame carries a broadcast event in either direction.
type BusFrame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// StateFrame carries a full state blob in either direction.
type StateFrame struct {
	State json.RawMessage `json:"state"`
}

// ErrorFrame reports a rejected request back to the client.
type ErrorFrame struct {
	Message string `json:"message"`
}

// decodeFrame converts a raw socket.io argument (usually map[string]any from
// the JSON parser) into a typed frame.
func decodeFrame(raw any, out any) error {
	blob, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("frame is not serializable: %w", err)
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return fmt.Errorf("malformed frame: %w", err)
	}
	return nil
}

// firstArg returns the leading socket.io callback argument, if any.
func firstArg(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

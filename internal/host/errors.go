package host

import "errors"

// Dispatch errors surfaced to widget callers. Host-side delivery problems
// (missing subscribers, overflow) are logged and dropped instead; only the
// caller's own mistakes come back as errors.
var (
	// ErrUnknownPort reports an emit or subscribe against a port the
	// widget's manifest does not declare.
	ErrUnknownPort = errors.New("unknown port")

	// ErrTypeMismatch reports a payload that contradicts the declared port
	// type.
	ErrTypeMismatch = errors.New("payload type mismatch")

	// ErrDestroyed reports a call against an instance that has already been
	// destroyed.
	ErrDestroyed = errors.New("widget instance destroyed")

	// ErrBadEventName reports a bus event name that cannot be normalized.
	ErrBadEventName = errors.New("invalid event name")
)

package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Socket.io hands JSON objects to handlers as map[string]any; the decode
// helper must bridge that into the typed frames.
func TestDecodeFrameFromUntypedMap(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"widgetId": "stickernest.hit-counter"}
	var frame AttachFrame
	require.NoError(t, decodeFrame(raw, &frame))
	assert.Equal(t, "stickernest.hit-counter", frame.WidgetID)
}

func TestDecodeFrameRejectsMismatchedShape(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"port": []any{"not", "a", "string"}}
	var frame PortFrame
	assert.Error(t, decodeFrame(raw, &frame))
}

func TestDecodeFrameNilArg(t *testing.T) {
	t.Parallel()

	var frame SubscribeFrame
	require.NoError(t, decodeFrame(firstArg(nil), &frame))
	assert.Empty(t, frame.Port)
	assert.Empty(t, frame.Event)
}

func TestMountedFrameWireShape(t *testing.T) {
	t.Parallel()

	frame := MountedFrame{
		InstanceID: "grocery-management-pipeline/stickernest.price-tracker",
		SessionID:  "7f9c0c6a",
		State:      json.RawMessage(`{"history":[]}`),
	}
	blob, err := json.Marshal(frame)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(blob, &wire))
	assert.Contains(t, wire, "instanceId")
	assert.Contains(t, wire, "sessionId")
	assert.Contains(t, wire, "state")
}

func TestStateFrameOmitsNothingOnNil(t *testing.T) {
	t.Parallel()

	blob, err := json.Marshal(StateFrame{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":null}`, string(blob))
}

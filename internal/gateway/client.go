package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ClientOptions tunes a gateway client connection.
type ClientOptions struct {
	// Namespace is the socket.io namespace to join; empty means the root.
	Namespace string

	// ConnectTimeout bounds the initial handshake. Zero means 15 seconds.
	ConnectTimeout time.Duration

	// InsecureSkipVerify disables TLS certificate checks for wss targets.
	InsecureSkipVerify bool
}

// Client is the widget-side counterpart of the gateway server: it attaches
// to one instance and exposes the host API verbs over the wire.
type Client struct {
	io *socket.Socket
}

// Dial connects to a gateway endpoint over websocket and waits for the
// handshake to complete before returning.
func Dial(ctx context.Context, rawURL string, opts ClientOptions) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("component", "gateway-client", "url", rawURL)

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}

	sockOpts := socket.DefaultOptions()
	sockOpts.SetPath(parsedURL.Path)
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	namespace := opts.Namespace
	if namespace == "" {
		// The socket.io client spells the root namespace "/".
		namespace = "/"
	}
	io := manager.Socket(namespace, sockOpts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		connectChan <- errs[0].(error)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("gateway connection failed: %w", err)
		}
		return &Client{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for gateway connection")
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for gateway connection", opts.ConnectTimeout)
	}
}

// Attach binds this connection to a widget instance. The mounted callback
// fires once the host acknowledges with the persisted state.
func (c *Client) Attach(widgetID string, mounted func(MountedFrame)) error {
	c.io.On(types.EventName(EventMounted), func(args ...any) {
		var frame MountedFrame
		if decodeFrame(firstArg(args), &frame) == nil {
			mounted(frame)
		}
	})
	return c.io.Emit(EventAttach, AttachFrame{WidgetID: widgetID})
}

// OnInput subscribes to an input port of the attached instance.
func (c *Client) OnInput(port string, cb func(payload any)) error {
	c.io.On(types.EventName(EventInput), func(args ...any) {
		var frame PortFrame
		if decodeFrame(firstArg(args), &frame) == nil && frame.Port == port {
			cb(frame.Payload)
		}
	})
	return c.io.Emit(EventInputSub, SubscribeFrame{Port: port})
}

// EmitOutput publishes a payload on an output port of the attached instance.
func (c *Client) EmitOutput(port string, payload any) error {
	return c.io.Emit(EventOutputEmit, PortFrame{Port: port, Payload: payload})
}

// On subscribes to a broadcast bus event.
func (c *Client) On(event string, cb func(payload any)) error {
	c.io.On(types.EventName(EventBus), func(args ...any) {
		var frame BusFrame
		if decodeFrame(firstArg(args), &frame) == nil && frame.Event == event {
			cb(frame.Payload)
		}
	})
	return c.io.Emit(EventBusSub, SubscribeFrame{Event: event})
}

// Emit broadcasts a payload on the canvas bus.
func (c *Client) Emit(event string, payload any) error {
	return c.io.Emit(EventBusEmit, BusFrame{Event: event, Payload: payload})
}

// SetState replaces the attached instance's persisted state.
func (c *Client) SetState(state any) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("state is not serializable: %w", err)
	}
	return c.io.Emit(EventStateSet, StateFrame{State: blob})
}

// OnStateChange subscribes to state persistence round-trips.
func (c *Client) OnStateChange(cb func(state json.RawMessage)) {
	c.io.On(types.EventName(EventState), func(args ...any) {
		var frame StateFrame
		if decodeFrame(firstArg(args), &frame) == nil {
			cb(frame.State)
		}
	})
}

// OnDestroyed subscribes to the teardown notice for the attached instance.
func (c *Client) OnDestroyed(cb func()) {
	c.io.On(types.EventName(EventDestroyed), func(...any) {
		cb()
	})
}

// OnError subscribes to rejection frames from the host.
func (c *Client) OnError(cb func(message string)) {
	c.io.On(types.EventName(EventError), func(args ...any) {
		var frame ErrorFrame
		if decodeFrame(firstArg(args), &frame) == nil {
			cb(frame.Message)
		}
	})
}

// Close disconnects from the gateway.
func (c *Client) Close() {
	c.io.Disconnect()
}

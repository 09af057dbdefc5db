package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/host"
	"github.com/zishang520/socket.io/v2/socket"
)

// Server bridges socket.io connections to a canvas. Each connection attaches
// to exactly one widget instance; frames it sends and receives are scoped to
// that instance.
type Server struct {
	logger *slog.Logger
	canvas *host.Canvas
	io     *socket.Server
}

// NewServer wires a socket.io server around the canvas. The canvas should
// already be started; attach replies fire the mount callback immediately.
func NewServer(ctx context.Context, canvas *host.Canvas) *Server {
	s := &Server{
		logger: ctxlog.FromContext(ctx).With("component", "gateway"),
		canvas: canvas,
		io:     socket.NewServer(nil, nil),
	}

	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.logger.Debug("Client connected.", "sid", client.Id())
		s.handleConnection(client)
	})

	return s
}

// Handler returns the HTTP handler to mount at the socket.io path.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close shuts the socket.io server down.
func (s *Server) Close() {
	s.io.Close(nil)
}

// handleConnection installs the per-connection protocol. A connection is
// inert until its attach frame names a widget on the canvas.
func (s *Server) handleConnection(client *socket.Socket) {
	var attached *host.Instance

	fail := func(msg string) {
		client.Emit(EventError, ErrorFrame{Message: msg})
	}

	client.On(EventAttach, func(args ...any) {
		var frame AttachFrame
		if err := decodeFrame(firstArg(args), &frame); err != nil {
			fail(err.Error())
			return
		}
		in, ok := s.canvas.Instance(frame.WidgetID)
		if !ok {
			fail("no instance for widget " + frame.WidgetID)
			return
		}
		attached = in

		in.OnMount(func(mc host.MountContext) {
			client.Emit(EventMounted, MountedFrame{
				InstanceID: in.InstanceID(),
				SessionID:  s.canvas.SessionID(),
				State:      mc.State,
			})
		})
		in.OnStateChange(func(state json.RawMessage) {
			client.Emit(EventState, StateFrame{State: state})
		})
		in.OnDestroy(func() {
			client.Emit(EventDestroyed)
		})
		s.logger.Info("Client attached.", "sid", client.Id(), "instance", in.InstanceID())
	})

	client.On(EventInputSub, func(args ...any) {
		if attached == nil {
			fail("not attached")
			return
		}
		var frame SubscribeFrame
		if err := decodeFrame(firstArg(args), &frame); err != nil {
			fail(err.Error())
			return
		}
		err := attached.OnInput(frame.Port, func(payload any) {
			client.Emit(EventInput, PortFrame{Port: frame.Port, Payload: payload})
		})
		if err != nil {
			fail(err.Error())
		}
	})

	client.On(EventOutputEmit, func(args ...any) {
		if attached == nil {
			fail("not attached")
			return
		}
		var frame PortFrame
		if err := decodeFrame(firstArg(args), &frame); err != nil {
			fail(err.Error())
			return
		}
		if err := attached.EmitOutput(frame.Port, frame.Payload); err != nil {
			fail(err.Error())
		}
	})

	client.On(EventBusSub, func(args ...any) {
		if attached == nil {
			fail("not attached")
			return
		}
		var frame SubscribeFrame
		if err := decodeFrame(firstArg(args), &frame); err != nil {
			fail(err.Error())
			return
		}
		err := attached.On(frame.Event, func(payload any) {
			client.Emit(EventBus, BusFrame{Event: frame.Event, Payload: payload})
		})
		if err != nil {
			fail(err.Error())
		}
	})

	client.On(EventBusEmit, func(args ...any) {
		if attached == nil {
			fail("not attached")
			return
		}
		var frame BusFrame
		if err := decodeFrame(firstArg(args), &frame); err != nil {
			fail(err.Error())
			return
		}
		if err := attached.Emit(frame.Event, frame.Payload); err != nil {
			fail(err.Error())
		}
	})

	client.On(EventStateSet, func(args ...any) {
		if attached == nil {
			fail("not attached")
			return
		}
		var frame StateFrame
		if err := decodeFrame(firstArg(args), &frame); err != nil {
			fail(err.Error())
			return
		}
		var state any
		if frame.State != nil {
			if err := json.Unmarshal(frame.State, &state); err != nil {
				fail("state is not valid JSON: " + err.Error())
				return
			}
		}
		if err := attached.SetState(state); err != nil {
			fail(err.Error())
		}
	})

	client.On("disconnect", func(...any) {
		if attached != nil {
			s.logger.Debug("Client detached.", "sid", client.Id(), "instance", attached.InstanceID())
		}
	})
}

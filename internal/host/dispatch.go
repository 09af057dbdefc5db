package host

import (
	"context"
	"encoding/json"
	"time"
)

type deliveryKind int

const (
	portDelivery deliveryKind = iota
	busDelivery
	stateDelivery
	flushMarker
)

// envelope is one queued delivery. The dispatcher is the only consumer, so
// processing order equals enqueue order across the whole canvas.
type envelope struct {
	kind       deliveryKind
	fromWidget string
	toWidget   string
	port       string
	event      string
	payload    any
	state      json.RawMessage
	done       chan struct{}
}

// Flush blocks until every delivery enqueued before the call has been
// dispatched. Unlike regular deliveries the marker is never dropped; the
// send blocks until the dispatcher has room.
func (c *Canvas) Flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case c.queue <- envelope{kind: flushMarker, done: done}:
	case <-c.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-c.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue hands a delivery to the dispatcher without blocking. The emitter
// is never stalled; when the queue is full the delivery is dropped and
// logged, mirroring how lost host deliveries are handled elsewhere.
func (c *Canvas) enqueue(env envelope) {
	select {
	case c.queue <- env:
	default:
		c.logger.Error("Dispatch queue overflow, dropping delivery.",
			"kind", int(env.kind), "toWidget", env.toWidget, "port", env.port, "event", env.event)
	}
}

// routeOutput fans an emitted payload out along every wired connection.
func (c *Canvas) routeOutput(from *Instance, port string, payload any) {
	routes := c.wiring.Routes(from.WidgetID(), port)
	if len(routes) == 0 {
		c.logger.Debug("Output has no wired connections.", "widget", from.WidgetID(), "port", port)
		return
	}
	for _, r := range routes {
		c.enqueue(envelope{
			kind:       portDelivery,
			fromWidget: r.FromWidget,
			toWidget:   r.ToWidget,
			port:       r.ToPort,
			payload:    payload,
		})
	}
}

// broadcast queues a bus event for every instance.
func (c *Canvas) broadcast(from *Instance, event string, payload any) {
	if !declaresEmit(from, event) {
		c.logger.Debug("Widget emits event its manifest does not declare.",
			"widget", from.WidgetID(), "event", event)
	}
	c.enqueue(envelope{
		kind:       busDelivery,
		fromWidget: from.WidgetID(),
		event:      event,
		payload:    payload,
	})
}

// dispatcher is the canvas's single delivery loop.
func (c *Canvas) dispatcher(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		case env := <-c.queue:
			c.deliver(env)
		}
	}
}

// deliver executes one envelope on the dispatcher goroutine.
func (c *Canvas) deliver(env envelope) {
	switch env.kind {
	case portDelivery:
		target, ok := c.instances[env.toWidget]
		if !ok {
			c.logger.Debug("Dropping delivery to unknown widget.", "widget", env.toWidget)
			return
		}

		def, ok := target.widget.Manifest.InputPort(env.port)
		if !ok {
			c.logger.Debug("Dropping delivery to undeclared input port.",
				"widget", env.toWidget, "port", env.port)
			return
		}
		if err := checkPayloadType(def.Type, env.payload); err != nil {
			c.logger.Warn("Dropping delivery with non-conforming payload.",
				"widget", env.toWidget, "port", env.port, "error", err)
			return
		}

		subs := target.inputSubscribers(env.port)
		if len(subs) == 0 {
			c.logger.Debug("No subscribers on input port, delivery dropped.",
				"widget", env.toWidget, "port", env.port)
			return
		}
		for _, cb := range subs {
			cb(env.payload)
		}

	case busDelivery:
		for _, widgetID := range c.order {
			for _, cb := range c.instances[widgetID].eventSubscribers(env.event) {
				cb(env.payload)
			}
		}

	case stateDelivery:
		target, ok := c.instances[env.toWidget]
		if !ok {
			return
		}
		for _, cb := range target.stateSubscribers() {
			cb(env.state)
		}

	case flushMarker:
		close(env.done)
	}
}

// autosaver re-persists dirty instances on a fixed interval. Drift is not
// corrected; a late tick just saves late.
func (c *Canvas) autosaver(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.autosave)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.saveDirty(ctx)
		}
	}
}

// saveDirty persists every instance whose state changed since the last
// successful save.
func (c *Canvas) saveDirty(ctx context.Context) {
	for _, widgetID := range c.order {
		in := c.instances[widgetID]

		in.mu.Lock()
		dirty := in.dirty && !in.destroyed
		snapshot := in.stateSnapshotLocked()
		rev := in.rev
		in.mu.Unlock()

		if !dirty {
			continue
		}

		if err := c.store.Save(ctx, instanceRecord(in, snapshot)); err != nil {
			c.logger.Error("Autosave failed.", "instance", in.id, "error", err)
			continue
		}

		in.markSaved(rev)
	}
}

// Package host implements the sticker canvas runtime. A Canvas instantiates
// the widgets of a preset, wires their declared port connections into a
// routing table, and mediates all traffic between instances: per-port input
// delivery, output routing, the broadcast event bus, and state persistence.
//
// Every delivery runs on a single dispatcher goroutine, so emission order
// equals delivery order across the whole canvas. Widgets never talk to each
// other directly; each instance holds an API value handed to it at mount
// time and all effects flow through the canvas.
package host

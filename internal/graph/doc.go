// Package graph implements the directed wiring graph for a set of widget
// instances. Nodes are widget IDs; edges are port-to-port connections. The
// host uses it as the routing table for output delivery, and preset
// validation uses it to report feedback loops.
package graph

// Package gateway exposes a running canvas over socket.io. Remote widget
// documents attach to their instance by widget ID and speak the host API
// as JSON frames: inputs, outputs, bus events and state round-trips all
// travel as socket.io events named by this package's protocol constants.
package gateway

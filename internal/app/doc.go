// Package app assembles and runs the stickernest host: it builds the widget
// registry from the compiled-in catalogs plus any external manifests, loads
// builtin and on-disk presets, and runs one preset as a live canvas behind
// the socket.io gateway.
package app

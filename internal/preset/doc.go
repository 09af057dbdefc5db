// Package preset models pipeline presets: named bundles of widgets plus a
// pre-wired port connection graph and a suggested canvas layout. Presets are
// authored in HCL (or exchanged as JSON) and are read-only at runtime.
//
// Hand-authored presets are not trusted: every connection is checked against
// the widget registry before instantiation, and broken edges are dropped
// rather than failing the whole preset.
package preset

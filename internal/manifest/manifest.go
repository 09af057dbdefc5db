// Package manifest defines the declarative description of a widget: its
// identity, sizing, capabilities, and named input/output ports. The JSON
// encoding of these structs is the external contract consumed by canvas
// tooling, so field names and shapes are stable.
package manifest

import "encoding/json"

// PortDefinition describes a single named input or output port.
type PortDefinition struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Capabilities lists the canvas interactions a widget supports.
type Capabilities struct {
	Draggable bool `json:"draggable"`
	Resizable bool `json:"resizable"`
	Rotatable bool `json:"rotatable"`
}

// IO lists the subset of declared ports the widget actually wires for
// pipeline connections, in presentation order.
type IO struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// Events lists the broadcast bus events a widget emits and listens to.
// These are advisory metadata; the bus does not enforce them.
type Events struct {
	Emits   []string `json:"emits,omitempty"`
	Listens []string `json:"listens,omitempty"`
}

// Size describes the widget's footprint on the canvas.
type Size struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	MinWidth  int    `json:"minWidth,omitempty"`
	MinHeight int    `json:"minHeight,omitempty"`
	ScaleMode string `json:"scaleMode,omitempty"`
}

// Manifest is the complete declarative description of a widget. A Manifest is
// immutable once registered; the registry hands out the same value for the
// lifetime of the process.
type Manifest struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Version      string                    `json:"version"`
	Kind         string                    `json:"kind"`
	Entry        string                    `json:"entry"`
	Description  string                    `json:"description,omitempty"`
	Tags         []string                  `json:"tags,omitempty"`
	Inputs       map[string]PortDefinition `json:"inputs"`
	Outputs      map[string]PortDefinition `json:"outputs"`
	Capabilities Capabilities              `json:"capabilities"`
	IO           IO                        `json:"io"`
	Events       *Events                   `json:"events,omitempty"`
	Size         Size                      `json:"size"`
}

// InputPort returns the definition for a declared input port name and whether
// it exists.
func (m *Manifest) InputPort(name string) (PortDefinition, bool) {
	def, ok := m.Inputs[name]
	return def, ok
}

// OutputPort returns the definition for a declared output port name and
// whether it exists.
func (m *Manifest) OutputPort(name string) (PortDefinition, bool) {
	def, ok := m.Outputs[name]
	return def, ok
}

// HasWiredInput reports whether name is in the manifest's io.inputs list.
func (m *Manifest) HasWiredInput(name string) bool {
	for _, p := range m.IO.Inputs {
		if p == name {
			return true
		}
	}
	return false
}

// HasWiredOutput reports whether name is in the manifest's io.outputs list.
func (m *Manifest) HasWiredOutput(name string) bool {
	for _, p := range m.IO.Outputs {
		if p == name {
			return true
		}
	}
	return false
}

// Decode parses a manifest from its JSON encoding.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Encode serializes the manifest to its canonical JSON encoding.
func (m *Manifest) Encode() ([]byte, error) {
	return json.Marshal(m)
}

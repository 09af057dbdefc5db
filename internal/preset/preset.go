package preset

import "encoding/json"

// Endpoint names one side of a connection: a widget and one of its ports.
type Endpoint struct {
	WidgetID string `json:"widgetId"`
	Port     string `json:"port"`
}

// Connection is a directed edge from an output port to an input port.
// Condition is an optional, host-interpreted expression gating delivery.
type Connection struct {
	From      Endpoint `json:"from"`
	To        Endpoint `json:"to"`
	Condition string   `json:"condition,omitempty"`
}

// Placement positions a single widget on the suggested grid.
type Placement struct {
	Column  int `json:"column"`
	Row     int `json:"row"`
	ColSpan int `json:"colSpan,omitempty"`
	RowSpan int `json:"rowSpan,omitempty"`
}

// Layout is the optional suggested grid arrangement for a preset.
type Layout struct {
	Columns    int                  `json:"columns,omitempty"`
	Placements map[string]Placement `json:"placements,omitempty"`
}

// Preset is a named, reusable wiring template.
type Preset struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Widgets         []string     `json:"widgets"`
	Connections     []Connection `json:"connections"`
	SuggestedLayout *Layout      `json:"suggestedLayout,omitempty"`
}

// HasWidget reports whether the preset's widget list contains id.
func (p *Preset) HasWidget(id string) bool {
	for _, w := range p.Widgets {
		if w == id {
			return true
		}
	}
	return false
}

// DecodeJSON parses a preset from its JSON encoding.
func DecodeJSON(data []byte) (*Preset, error) {
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EncodeJSON serializes the preset to JSON.
func (p *Preset) EncodeJSON() ([]byte, error) {
	return json.Marshal(p)
}

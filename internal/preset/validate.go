package preset

import (
	"fmt"

	"github.com/stickernest/stickernest/internal/graph"
	"github.com/stickernest/stickernest/internal/registry"
)

// Result is the outcome of validating a preset against a registry. Errors
// describe edges or references that cannot be honored; Warnings flag suspect
// but loadable wiring such as feedback loops. Validation reports, it never
// fails the load.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (res *Result) errorf(format string, args ...any) {
	res.Errors = append(res.Errors, fmt.Sprintf(format, args...))
}

// Validate confirms that every widget referenced by the preset's connections
// and suggested layout is present in its widget list and the registry, and
// that every port is declared in the corresponding manifest's io lists. Each
// error names the offending connection index and the missing widget or port.
func Validate(p *Preset, reg *registry.Registry) *Result {
	res := &Result{}

	known := make(map[string]bool, len(p.Widgets))
	for _, id := range p.Widgets {
		known[id] = true
		if !reg.Has(id) {
			res.errorf("widget %q is not in the registry", id)
		}
	}

	for i, conn := range p.Connections {
		if conn.From.WidgetID == conn.To.WidgetID {
			res.errorf("connection %d: widget %q cannot feed its own input", i, conn.From.WidgetID)
			continue
		}
		res.checkEndpoint(i, "from", conn.From, known, reg, false)
		res.checkEndpoint(i, "to", conn.To, known, reg, true)
	}

	if p.SuggestedLayout != nil {
		for id := range p.SuggestedLayout.Placements {
			if !known[id] {
				res.errorf("suggestedLayout places widget %q which is not in the preset's widget list", id)
			}
		}
	}

	res.Valid = len(res.Errors) == 0

	// Feedback loops load fine but are worth surfacing to preset authors.
	if loopErr := BuildGraph(p, reg).DetectCycles(); loopErr != nil {
		res.Warnings = append(res.Warnings, loopErr.Error())
	}

	return res
}

// checkEndpoint validates one side of a connection. Input endpoints check the
// manifest's io.inputs list, output endpoints io.outputs.
func (res *Result) checkEndpoint(index int, side string, ep Endpoint, known map[string]bool, reg *registry.Registry, isInput bool) {
	if !known[ep.WidgetID] {
		res.errorf("connection %d: %s widget %q is not in the preset's widget list", index, side, ep.WidgetID)
		return
	}

	w, ok := reg.Get(ep.WidgetID)
	if !ok {
		// Already reported as an unknown registry widget above.
		return
	}

	if isInput {
		if !w.Manifest.HasWiredInput(ep.Port) {
			res.errorf("connection %d: widget %q declares no input port %q", index, ep.WidgetID, ep.Port)
		}
	} else {
		if !w.Manifest.HasWiredOutput(ep.Port) {
			res.errorf("connection %d: widget %q declares no output port %q", index, ep.WidgetID, ep.Port)
		}
	}
}

// connectionOK reports whether a single connection survives validation on
// its own.
func connectionOK(conn Connection, known map[string]bool, reg *registry.Registry) bool {
	if conn.From.WidgetID == conn.To.WidgetID {
		return false
	}
	fromW, ok := reg.Get(conn.From.WidgetID)
	if !ok || !known[conn.From.WidgetID] {
		return false
	}
	toW, ok := reg.Get(conn.To.WidgetID)
	if !ok || !known[conn.To.WidgetID] {
		return false
	}
	return fromW.Manifest.HasWiredOutput(conn.From.Port) && toW.Manifest.HasWiredInput(conn.To.Port)
}

// Sanitize returns a copy of the preset with every invalid reference removed:
// widgets missing from the registry are dropped along with their placements,
// and broken connections are pruned. Valid widgets still load even when the
// preset carries bad edges. The accompanying Result reports what was dropped.
func Sanitize(p *Preset, reg *registry.Registry) (*Preset, *Result) {
	res := Validate(p, reg)
	if res.Valid {
		return p, res
	}

	clean := &Preset{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}

	known := make(map[string]bool)
	for _, id := range p.Widgets {
		if reg.Has(id) {
			clean.Widgets = append(clean.Widgets, id)
			known[id] = true
		}
	}

	for _, conn := range p.Connections {
		if connectionOK(conn, known, reg) {
			clean.Connections = append(clean.Connections, conn)
		}
	}

	if p.SuggestedLayout != nil {
		layout := &Layout{
			Columns:    p.SuggestedLayout.Columns,
			Placements: make(map[string]Placement),
		}
		for id, place := range p.SuggestedLayout.Placements {
			if known[id] {
				layout.Placements[id] = place
			}
		}
		clean.SuggestedLayout = layout
	}

	return clean, res
}

// BuildGraph assembles the wiring graph from the preset's valid connections.
// Invalid connections are skipped, which is how the soft-drop policy reaches
// the runtime routing table.
func BuildGraph(p *Preset, reg *registry.Registry) *graph.Graph {
	g := graph.New()
	known := make(map[string]bool, len(p.Widgets))
	for _, id := range p.Widgets {
		known[id] = true
		g.AddNode(id)
	}
	for _, conn := range p.Connections {
		if !connectionOK(conn, known, reg) {
			continue
		}
		// AddRoute only fails for endpoints missing from the graph or
		// self-references; both were just screened out.
		_ = g.AddRoute(graph.Route{
			FromWidget: conn.From.WidgetID,
			FromPort:   conn.From.Port,
			ToWidget:   conn.To.WidgetID,
			ToPort:     conn.To.Port,
		})
	}
	return g
}

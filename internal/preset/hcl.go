package preset

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/fsutil"
)

// --- HCL schema for preset files ---

// hclEndpoint is an endpoint block within a connection.
type hclEndpoint struct {
	Widget string `hcl:"widget"`
	Port   string `hcl:"port"`
}

// hclConnection is a `connection` block within a preset.
type hclConnection struct {
	From      *hclEndpoint `hcl:"from,block"`
	To        *hclEndpoint `hcl:"to,block"`
	Condition string       `hcl:"condition,optional"`
}

// hclPlace is a `place` block within a layout.
type hclPlace struct {
	WidgetID string `hcl:"widget_id,label"`
	Column   int    `hcl:"column"`
	Row      int    `hcl:"row"`
	ColSpan  int    `hcl:"col_span,optional"`
	RowSpan  int    `hcl:"row_span,optional"`
}

// hclLayout is the `layout` block within a preset.
type hclLayout struct {
	Columns int         `hcl:"columns,optional"`
	Places  []*hclPlace `hcl:"place,block"`
}

// hclPreset is a `preset` block from a preset file.
type hclPreset struct {
	ID          string           `hcl:"id,label"`
	Name        string           `hcl:"name"`
	Description string           `hcl:"description,optional"`
	Widgets     []string         `hcl:"widgets"`
	Connections []*hclConnection `hcl:"connection,block"`
	Layout      *hclLayout       `hcl:"layout,block"`
}

// hclFile is the top-level structure of a preset file.
type hclFile struct {
	Presets []*hclPreset `hcl:"preset,block"`
	Remain  hcl.Body     `hcl:",remain"`
}

// ParseHCL decodes all preset blocks from one HCL document.
func ParseHCL(filename string, src []byte) ([]*Preset, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse preset file %s: %w", filename, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode preset file %s: %w", filename, diags)
	}

	presets := make([]*Preset, 0, len(raw.Presets))
	for _, rp := range raw.Presets {
		p, err := translate(rp)
		if err != nil {
			return nil, fmt.Errorf("preset %q in %s: %w", rp.ID, filename, err)
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// translate converts the HCL representation into the format-agnostic model.
func translate(rp *hclPreset) (*Preset, error) {
	p := &Preset{
		ID:          rp.ID,
		Name:        rp.Name,
		Description: rp.Description,
		Widgets:     rp.Widgets,
	}

	for i, rc := range rp.Connections {
		if rc.From == nil || rc.To == nil {
			return nil, fmt.Errorf("connection %d must declare both from and to blocks", i)
		}
		p.Connections = append(p.Connections, Connection{
			From:      Endpoint{WidgetID: rc.From.Widget, Port: rc.From.Port},
			To:        Endpoint{WidgetID: rc.To.Widget, Port: rc.To.Port},
			Condition: rc.Condition,
		})
	}

	if rp.Layout != nil {
		layout := &Layout{
			Columns:    rp.Layout.Columns,
			Placements: make(map[string]Placement, len(rp.Layout.Places)),
		}
		for _, place := range rp.Layout.Places {
			layout.Placements[place.WidgetID] = Placement{
				Column:  place.Column,
				Row:     place.Row,
				ColSpan: place.ColSpan,
				RowSpan: place.RowSpan,
			}
		}
		p.SuggestedLayout = layout
	}

	return p, nil
}

// Loader accumulates presets from files and the builtin set.
type Loader struct {
	presets map[string]*Preset
	order   []string
}

// NewLoader returns an empty preset loader.
func NewLoader() *Loader {
	return &Loader{presets: make(map[string]*Preset)}
}

// Add registers a preset, rejecting duplicate IDs.
func (l *Loader) Add(p *Preset) error {
	if _, exists := l.presets[p.ID]; exists {
		return fmt.Errorf("duplicate preset id %q", p.ID)
	}
	l.presets[p.ID] = p
	l.order = append(l.order, p.ID)
	return nil
}

// Get returns the preset with the given ID.
func (l *Loader) Get(id string) (*Preset, bool) {
	p, ok := l.presets[id]
	return p, ok
}

// All returns the presets in load order.
func (l *Loader) All() []*Preset {
	out := make([]*Preset, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.presets[id])
	}
	return out
}

// LoadRecursively walks presetsPath for .hcl preset files and adds every
// preset block found.
func (l *Loader) LoadRecursively(ctx context.Context, presetsPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading presets from path...", "path", presetsPath)

	filePaths, err := fsutil.FindFilesByExtension(presetsPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk presets directory", "path", presetsPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl preset files found in path", "path", presetsPath)
		return nil
	}

	for _, filePath := range filePaths {
		src, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read preset file %s: %w", filePath, err)
		}
		presets, err := ParseHCL(filePath, src)
		if err != nil {
			return err
		}
		for _, p := range presets {
			if err := l.Add(p); err != nil {
				return fmt.Errorf("in %s: %w", filePath, err)
			}
			logger.Debug("Loaded preset.", "file", filePath, "id", p.ID)
		}
	}

	logger.Info("Presets loaded.", "count", len(l.presets))
	return nil
}

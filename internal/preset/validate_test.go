package preset

import (
	"testing"

	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeWidget builds a widget with one wired input and one wired output.
func pipeWidget(id, input, output string) *registry.Widget {
	m := &manifest.Manifest{
		ID:      id,
		Name:    id,
		Version: "1.0.0",
		Kind:    "panel",
		Entry:   "index.html",
		Inputs: map[string]manifest.PortDefinition{
			input: {Type: manifest.TypeAny},
		},
		Outputs: map[string]manifest.PortDefinition{
			output: {Type: manifest.TypeAny},
		},
		IO: manifest.IO{
			Inputs:  []string{input},
			Outputs: []string{output},
		},
		Size: manifest.Size{Width: 100, Height: 100},
	}
	return registry.NewWidget(m, "")
}

func testRegistry() *registry.Registry {
	r := registry.New()
	r.Register(pipeWidget("stickernest.alpha", "data.in", "data.out"))
	r.Register(pipeWidget("stickernest.beta", "data.in", "data.out"))
	r.Register(pipeWidget("stickernest.gamma", "data.in", "data.out"))
	return r
}

func wire(from, to string) Connection {
	return Connection{
		From: Endpoint{WidgetID: from, Port: "data.out"},
		To:   Endpoint{WidgetID: to, Port: "data.in"},
	}
}

func TestValidate_CleanPreset(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "clean",
		Name:    "Clean",
		Widgets: []string{"stickernest.alpha", "stickernest.beta"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.beta"),
		},
	}

	res := Validate(p, testRegistry())
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_ErrorsNameConnectionIndexAndMissingPiece(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "broken",
		Name:    "Broken",
		Widgets: []string{"stickernest.alpha", "stickernest.beta", "stickernest.ghost"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.beta"), // fine
			{
				From: Endpoint{WidgetID: "stickernest.alpha", Port: "no.such"},
				To:   Endpoint{WidgetID: "stickernest.beta", Port: "data.in"},
			},
			{
				From: Endpoint{WidgetID: "stickernest.beta", Port: "data.out"},
				To:   Endpoint{WidgetID: "stickernest.missing", Port: "data.in"},
			},
		},
		SuggestedLayout: &Layout{
			Placements: map[string]Placement{
				"stickernest.unplaced": {Column: 0, Row: 0},
			},
		},
	}

	res := Validate(p, testRegistry())
	require.False(t, res.Valid)

	joined := ""
	for _, e := range res.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, `widget "stickernest.ghost" is not in the registry`)
	assert.Contains(t, joined, `connection 1: widget "stickernest.alpha" declares no output port "no.such"`)
	assert.Contains(t, joined, `connection 2: to widget "stickernest.missing" is not in the preset's widget list`)
	assert.Contains(t, joined, `suggestedLayout places widget "stickernest.unplaced"`)
}

func TestValidate_SelfConnectionRejected(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "selfie",
		Widgets: []string{"stickernest.alpha"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.alpha"),
		},
	}

	res := Validate(p, testRegistry())
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "cannot feed its own input")
}

func TestValidate_FeedbackLoopIsWarningOnly(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "loop",
		Widgets: []string{"stickernest.alpha", "stickernest.beta"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.beta"),
			wire("stickernest.beta", "stickernest.alpha"),
		},
	}

	res := Validate(p, testRegistry())
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "wiring loop")
}

func TestSanitize_DropsOnlyBrokenPieces(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "mixed",
		Name:    "Mixed",
		Widgets: []string{"stickernest.alpha", "stickernest.beta", "stickernest.ghost"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.beta"),
			wire("stickernest.ghost", "stickernest.beta"),
			{
				From: Endpoint{WidgetID: "stickernest.alpha", Port: "bad.port"},
				To:   Endpoint{WidgetID: "stickernest.beta", Port: "data.in"},
			},
		},
		SuggestedLayout: &Layout{
			Columns: 2,
			Placements: map[string]Placement{
				"stickernest.alpha": {Column: 0, Row: 0},
				"stickernest.ghost": {Column: 1, Row: 0},
			},
		},
	}

	clean, res := Sanitize(p, testRegistry())
	require.False(t, res.Valid)

	assert.Equal(t, []string{"stickernest.alpha", "stickernest.beta"}, clean.Widgets)
	require.Len(t, clean.Connections, 1)
	assert.Equal(t, wire("stickernest.alpha", "stickernest.beta"), clean.Connections[0])
	assert.Contains(t, clean.SuggestedLayout.Placements, "stickernest.alpha")
	assert.NotContains(t, clean.SuggestedLayout.Placements, "stickernest.ghost")

	// The original preset is untouched.
	assert.Len(t, p.Connections, 3)
}

func TestSanitize_ValidPresetReturnedAsIs(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "clean",
		Widgets: []string{"stickernest.alpha", "stickernest.beta"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.beta"),
		},
	}

	clean, res := Sanitize(p, testRegistry())
	assert.True(t, res.Valid)
	assert.Same(t, p, clean)
}

func TestBuildGraph_SkipsInvalidEdges(t *testing.T) {
	t.Parallel()

	p := &Preset{
		ID:      "mixed",
		Widgets: []string{"stickernest.alpha", "stickernest.beta"},
		Connections: []Connection{
			wire("stickernest.alpha", "stickernest.beta"),
			{
				From: Endpoint{WidgetID: "stickernest.alpha", Port: "bad.port"},
				To:   Endpoint{WidgetID: "stickernest.beta", Port: "data.in"},
			},
		},
	}

	g := BuildGraph(p, testRegistry())
	assert.Len(t, g.Routes("stickernest.alpha", "data.out"), 1)
	assert.Empty(t, g.Routes("stickernest.alpha", "bad.port"))
}

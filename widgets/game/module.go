// Package game contributes the arcade widget catalog: a controller pad, an
// AI opponent and a scoreboard that together make a playable mini-game out
// of wired canvas widgets.
package game

import (
	"embed"

	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/registry"
)

//go:embed templates/*.html
var templates embed.FS

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds every game widget to the registry.
func (m *Module) Register(r *registry.Registry) {
	for _, w := range Widgets() {
		r.Register(w)
	}
}

// WidgetIDs lists the arcade catalog.
var WidgetIDs = []string{
	"stickernest.controller-pad",
	"stickernest.ai-opponent",
	"stickernest.scoreboard",
}

// Widgets builds the id -> widget map for the arcade catalog.
func Widgets() map[string]*registry.Widget {
	return map[string]*registry.Widget{
		"stickernest.controller-pad": template("controller-pad.html", &manifest.Manifest{
			ID:          "stickernest.controller-pad",
			Name:        "Controller Pad",
			Version:     "1.0.0",
			Kind:        "tool",
			Entry:       "index.html",
			Description: "On-screen d-pad and action button wired to whatever listens.",
			Tags:        []string{"game", "input"},
			Outputs: map[string]manifest.PortDefinition{
				"input.direction": {Type: manifest.TypeString, Description: "One of up, down, left, right."},
				"input.action":    {Type: manifest.TypeString, Description: "The pressed action button."},
			},
			Capabilities: manifest.Capabilities{Draggable: true},
			IO: manifest.IO{
				Outputs: []string{"input.direction", "input.action"},
			},
			Size: manifest.Size{Width: 220, Height: 220, MinWidth: 160, MinHeight: 160},
		}),
		"stickernest.ai-opponent": template("ai-opponent.html", &manifest.Manifest{
			ID:          "stickernest.ai-opponent",
			Name:        "AI Opponent",
			Version:     "1.1.0",
			Kind:        "panel",
			Entry:       "index.html",
			Description: "Plays rounds against incoming controller input and reports results.",
			Tags:        []string{"game", "arcade"},
			Inputs: map[string]manifest.PortDefinition{
				"input.direction": {Type: manifest.TypeString},
				"input.action":    {Type: manifest.TypeString},
				"difficulty.set":  {Type: manifest.TypeNumber},
			},
			Outputs: map[string]manifest.PortDefinition{
				"match.result": {Type: manifest.TypeObject, Description: "Winner and points for a finished round."},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"input.direction", "input.action", "difficulty.set"},
				Outputs: []string{"match.result"},
			},
			Events: &manifest.Events{
				Emits: []string{"game.round.finished"},
			},
			Size: manifest.Size{Width: 320, Height: 280, MinWidth: 240, MinHeight: 200},
		}),
		"stickernest.scoreboard": template("scoreboard.html", &manifest.Manifest{
			ID:          "stickernest.scoreboard",
			Name:        "Scoreboard",
			Version:     "1.0.1",
			Kind:        "panel",
			Entry:       "index.html",
			Description: "Accumulates scores per player across rounds.",
			Tags:        []string{"game", "stats"},
			Inputs: map[string]manifest.PortDefinition{
				"score.add":   {Type: manifest.TypeObject},
				"score.reset": {Type: manifest.TypeAny},
			},
			Outputs: map[string]manifest.PortDefinition{
				"score.updated": {Type: manifest.TypeList},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"score.add", "score.reset"},
				Outputs: []string{"score.updated"},
			},
			Events: &manifest.Events{
				Listens: []string{"game.round.finished"},
			},
			Size: manifest.Size{Width: 260, Height: 200, MinWidth: 200, MinHeight: 140},
		}),
	}
}

// template pairs a manifest with its embedded document, loaded lazily.
func template(file string, m *manifest.Manifest) *registry.Widget {
	return registry.NewLazyWidget(m, func() string {
		data, err := templates.ReadFile("templates/" + file)
		if err != nil {
			return ""
		}
		return string(data)
	})
}

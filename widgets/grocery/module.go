// Package grocery contributes the grocery-management widget catalog:
// receipt scanning, price tracking, pantry stock, shopping list, meal
// suggestions and budget. The widgets' documents are inert templates; all
// behavior flows through the host API at runtime.
package grocery

import (
	"embed"

	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/registry"
)

//go:embed templates/*.html
var templates embed.FS

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds every grocery widget to the registry.
func (m *Module) Register(r *registry.Registry) {
	for _, w := range Widgets() {
		r.Register(w)
	}
}

// WidgetIDs lists the grocery catalog in presentation order.
var WidgetIDs = []string{
	"stickernest.receipt-scanner",
	"stickernest.price-tracker",
	"stickernest.pantry-tracker",
	"stickernest.grocery-list",
	"stickernest.meal-suggester",
	"stickernest.budget-meter",
}

// Widgets builds the id -> widget map for the grocery catalog.
func Widgets() map[string]*registry.Widget {
	widgets := map[string]*registry.Widget{
		"stickernest.receipt-scanner": template("receipt-scanner.html", &manifest.Manifest{
			ID:          "stickernest.receipt-scanner",
			Name:        "Receipt Scanner",
			Version:     "1.3.0",
			Kind:        "tool",
			Entry:       "index.html",
			Description: "Captures a receipt photo and publishes recognized line items and prices.",
			Tags:        []string{"grocery", "scanner"},
			Inputs: map[string]manifest.PortDefinition{
				"scan.start": {Type: manifest.TypeAny, Description: "Kick off a scan of the current capture."},
			},
			Outputs: map[string]manifest.PortDefinition{
				"prices.recorded": {Type: manifest.TypeObject, Description: "One recognized item with its price."},
				"items.detected":  {Type: manifest.TypeList, Description: "All line items recognized on the receipt."},
				"error.message":   {Type: manifest.TypeString, Description: "Recognition failure, forwarded as text."},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"scan.start"},
				Outputs: []string{"prices.recorded", "items.detected", "error.message"},
			},
			Events: &manifest.Events{
				Emits: []string{"grocery.receipt.scanned"},
			},
			Size: manifest.Size{Width: 360, Height: 420, MinWidth: 280, MinHeight: 320},
		}),
		"stickernest.price-tracker": template("price-tracker.html", &manifest.Manifest{
			ID:          "stickernest.price-tracker",
			Name:        "Price Tracker",
			Version:     "1.2.0",
			Kind:        "panel",
			Entry:       "index.html",
			Description: "Tracks price history per item and alerts on trend changes.",
			Tags:        []string{"grocery", "prices"},
			Inputs: map[string]manifest.PortDefinition{
				"prices.add":  {Type: manifest.TypeObject, Description: "A recorded price point."},
				"item.select": {Type: manifest.TypeString, Description: "Focus the history view on one item."},
			},
			Outputs: map[string]manifest.PortDefinition{
				"trend.alert":     {Type: manifest.TypeObject, Description: "Fires when a price crosses its trend threshold."},
				"history.updated": {Type: manifest.TypeList},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"prices.add", "item.select"},
				Outputs: []string{"trend.alert", "history.updated"},
			},
			Events: &manifest.Events{
				Emits: []string{"grocery.prices.updated"},
			},
			Size: manifest.Size{Width: 320, Height: 260, MinWidth: 240, MinHeight: 180},
		}),
		"stickernest.pantry-tracker": template("pantry-tracker.html", &manifest.Manifest{
			ID:          "stickernest.pantry-tracker",
			Name:        "Pantry Tracker",
			Version:     "1.4.1",
			Kind:        "panel",
			Entry:       "index.html",
			Description: "Keeps pantry stock levels and flags items running low.",
			Tags:        []string{"grocery", "pantry"},
			Inputs: map[string]manifest.PortDefinition{
				"item.add":       {Type: manifest.TypeObject},
				"item.consume":   {Type: manifest.TypeObject},
				"inventory.load": {Type: manifest.TypeList, Description: "Bulk-load detected items into stock."},
			},
			Outputs: map[string]manifest.PortDefinition{
				"inventory.updated": {Type: manifest.TypeList},
				"item.low":          {Type: manifest.TypeObject, Description: "An item that dropped below its restock level."},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"item.add", "item.consume", "inventory.load"},
				Outputs: []string{"inventory.updated", "item.low"},
			},
			Events: &manifest.Events{
				Emits: []string{"grocery.pantry.updated"},
			},
			Size: manifest.Size{Width: 320, Height: 340, MinWidth: 260, MinHeight: 240},
		}),
		"stickernest.grocery-list": template("grocery-list.html", &manifest.Manifest{
			ID:          "stickernest.grocery-list",
			Name:        "Grocery List",
			Version:     "2.0.0",
			Kind:        "panel",
			Entry:       "index.html",
			Description: "The classic checkable shopping list.",
			Tags:        []string{"grocery", "list"},
			Inputs: map[string]manifest.PortDefinition{
				"item.add":    {Type: manifest.TypeObject},
				"item.remove": {Type: manifest.TypeString},
				"list.clear":  {Type: manifest.TypeAny},
			},
			Outputs: map[string]manifest.PortDefinition{
				"list.updated": {Type: manifest.TypeList},
				"item.checked": {Type: manifest.TypeObject},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"item.add", "item.remove", "list.clear"},
				Outputs: []string{"list.updated", "item.checked"},
			},
			Events: &manifest.Events{
				Listens: []string{"grocery.pantry.updated"},
			},
			Size: manifest.Size{Width: 280, Height: 400, MinWidth: 220, MinHeight: 260},
		}),
		"stickernest.meal-suggester": template("meal-suggester.html", &manifest.Manifest{
			ID:          "stickernest.meal-suggester",
			Name:        "Meal Suggester",
			Version:     "1.1.0",
			Kind:        "panel",
			Entry:       "index.html",
			Description: "Suggests recipes that fit the current pantry contents.",
			Tags:        []string{"grocery", "recipes"},
			Inputs: map[string]manifest.PortDefinition{
				"pantry.items":    {Type: manifest.TypeList, Description: "Current stock to match recipes against."},
				"preferences.set": {Type: manifest.TypeObject},
			},
			Outputs: map[string]manifest.PortDefinition{
				"recipe.list":     {Type: manifest.TypeList},
				"recipe.selected": {Type: manifest.TypeObject},
			},
			Capabilities: manifest.Capabilities{Draggable: true, Resizable: true},
			IO: manifest.IO{
				Inputs:  []string{"pantry.items", "preferences.set"},
				Outputs: []string{"recipe.list", "recipe.selected"},
			},
			Events: &manifest.Events{
				Listens: []string{"grocery.pantry.updated"},
			},
			Size: manifest.Size{Width: 340, Height: 300, MinWidth: 260, MinHeight: 220},
		}),
		"stickernest.budget-meter": template("budget-meter.html", &manifest.Manifest{
			ID:          "stickernest.budget-meter",
			Name:        "Budget Meter",
			Version:     "1.0.2",
			Kind:        "gauge",
			Entry:       "index.html",
			Description: "Running spend against a monthly grocery budget.",
			Tags:        []string{"grocery", "budget"},
			Inputs: map[string]manifest.PortDefinition{
				"expense.add": {Type: manifest.TypeObject},
				"budget.set":  {Type: manifest.TypeNumber},
			},
			Outputs: map[string]manifest.PortDefinition{
				"budget.status": {Type: manifest.TypeObject},
			},
			Capabilities: manifest.Capabilities{Draggable: true},
			IO: manifest.IO{
				Inputs:  []string{"expense.add", "budget.set"},
				Outputs: []string{"budget.status"},
			},
			Size: manifest.Size{Width: 240, Height: 160, MinWidth: 180, MinHeight: 120},
		}),
	}
	return widgets
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

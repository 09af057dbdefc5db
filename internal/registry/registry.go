package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/stickernest/stickernest/internal/manifest"
)

// Module is the interface that all widget domain packages must implement to
// contribute their catalogs to a registry.
type Module interface {
	Register(r *Registry)
}

// Widget pairs a manifest with its renderable HTML document. The document is
// produced lazily because builtin templates interpolate shared constants that
// may not be assembled until first render.
type Widget struct {
	Manifest *manifest.Manifest

	htmlFn   func() string
	htmlOnce sync.Once
	html     string
}

// NewWidget builds a Widget from a manifest and an eagerly available document.
func NewWidget(m *manifest.Manifest, html string) *Widget {
	return &Widget{Manifest: m, htmlFn: func() string { return html }}
}

// NewLazyWidget builds a Widget whose document is computed on first use.
func NewLazyWidget(m *manifest.Manifest, htmlFn func() string) *Widget {
	return &Widget{Manifest: m, htmlFn: htmlFn}
}

// HTML returns the widget's renderable document, computing it on first call.
func (w *Widget) HTML() string {
	w.htmlOnce.Do(func() {
		if w.htmlFn != nil {
			w.html = w.htmlFn()
		}
	})
	return w.html
}

// Registry holds all registered widgets for a single application instance.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]*Widget
}

// New creates and initializes a new, empty Registry instance.
func New() *Registry {
	return &Registry{widgets: make(map[string]*Widget)}
}

// Register adds a widget to the registry. Registering a duplicate or
// manifest-less widget is a programmer error and panics, matching how builtin
// catalog mistakes should fail at startup rather than at delivery time.
func (r *Registry) Register(w *Widget) {
	if w == nil || w.Manifest == nil {
		panic("registry: widget must carry a manifest")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.widgets[w.Manifest.ID]; exists {
		panic(fmt.Sprintf("widget with id '%s' already registered", w.Manifest.ID))
	}
	slog.Debug("Registering widget.", "id", w.Manifest.ID)
	r.widgets[w.Manifest.ID] = w
}

// Get returns the widget for the given ID. Lookups are idempotent: repeated
// calls return the same widget value.
func (r *Registry) Get(id string) (*Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	return w, ok
}

// Has reports whether a widget with the given ID is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.widgets[id]
	return ok
}

// List returns all registered manifests, ordered by widget ID.
func (r *Registry) List() []*manifest.Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*manifest.Manifest, 0, len(r.widgets))
	for _, w := range r.widgets {
		out = append(out, w.Manifest)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered widgets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

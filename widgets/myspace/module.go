// Package myspace contributes the nostalgia profile-page catalog: sixteen
// widgets recreating the classic social profile, from the autoplaying
// profile song down to the glitter text and the cursor trail.
package myspace

import (
	"embed"
	"sort"

	"github.com/stickernest/stickernest/internal/manifest"
	"github.com/stickernest/stickernest/internal/registry"
)

//go:embed templates/*.html
var templates embed.FS

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds every myspace widget to the registry.
func (m *Module) Register(r *registry.Registry) {
	for _, w := range Widgets() {
		r.Register(w)
	}
}

// WidgetIDs lists the full catalog; the count is part of the product
// promise and covered by tests.
var WidgetIDs = []string{
	"stickernest.profile-card",
	"stickernest.top-friends",
	"stickernest.comment-wall",
	"stickernest.guestbook",
	"stickernest.blog-panel",
	"stickernest.mood-ring",
	"stickernest.music-player",
	"stickernest.glitter-text",
	"stickernest.hit-counter",
	"stickernest.bulletin-board",
	"stickernest.away-message",
	"stickernest.photo-slideshow",
	"stickernest.marquee-banner",
	"stickernest.cursor-trail",
	"stickernest.profile-song",
	"stickernest.friend-requests",
}

// def is the compact manifest shape the catalog table below is written in.
type def struct {
	name     string
	kind     string
	tags     []string
	inputs   map[string]string
	outputs  map[string]string
	emits    []string
	listens  []string
	width    int
	height   int
	template string
}

var catalog = map[string]def{
	"stickernest.profile-card": {
		name: "Profile Card", kind: "panel", tags: []string{"myspace", "profile"},
		inputs:  map[string]string{"profile.set": manifest.TypeObject},
		outputs: map[string]string{"profile.viewed": manifest.TypeObject},
		emits:   []string{"myspace.profile.updated"},
		width:   300, height: 200, template: "profile-card.html",
	},
	"stickernest.top-friends": {
		name: "Top Friends", kind: "panel", tags: []string{"myspace", "social"},
		inputs:  map[string]string{"friends.set": manifest.TypeList},
		outputs: map[string]string{"friend.selected": manifest.TypeObject},
		listens: []string{"myspace.profile.updated"},
		width:   300, height: 260, template: "top-friends.html",
	},
	"stickernest.comment-wall": {
		name: "Comment Wall", kind: "panel", tags: []string{"myspace", "social"},
		inputs:  map[string]string{"comment.add": manifest.TypeObject},
		outputs: map[string]string{"comment.posted": manifest.TypeObject},
		emits:   []string{"myspace.comment.new"},
		width:   340, height: 400, template: "comment-wall.html",
	},
	"stickernest.guestbook": {
		name: "Guestbook", kind: "panel", tags: []string{"myspace", "social"},
		inputs:  map[string]string{"entry.add": manifest.TypeObject},
		outputs: map[string]string{"entry.posted": manifest.TypeObject},
		width:   320, height: 360, template: "guestbook.html",
	},
	"stickernest.blog-panel": {
		name: "Blog Panel", kind: "panel", tags: []string{"myspace", "writing"},
		inputs:  map[string]string{"post.add": manifest.TypeObject},
		outputs: map[string]string{"post.published": manifest.TypeObject},
		width:   360, height: 420, template: "blog-panel.html",
	},
	"stickernest.mood-ring": {
		name: "Mood Ring", kind: "sticker", tags: []string{"myspace", "flair"},
		inputs:  map[string]string{"mood.set": manifest.TypeString},
		outputs: map[string]string{"mood.changed": manifest.TypeString},
		emits:   []string{"myspace.mood.changed"},
		width:   140, height: 140, template: "mood-ring.html",
	},
	"stickernest.music-player": {
		name: "Music Player", kind: "panel", tags: []string{"myspace", "music"},
		inputs: map[string]string{
			"song.play":  manifest.TypeObject,
			"song.pause": manifest.TypeAny,
		},
		outputs: map[string]string{"playback.state": manifest.TypeObject},
		width:   300, height: 120, template: "music-player.html",
	},
	"stickernest.glitter-text": {
		name: "Glitter Text", kind: "sticker", tags: []string{"myspace", "flair"},
		inputs:  map[string]string{"text.set": manifest.TypeString},
		outputs: map[string]string{},
		width:   280, height: 80, template: "glitter-text.html",
	},
	"stickernest.hit-counter": {
		name: "Hit Counter", kind: "sticker", tags: []string{"myspace", "stats"},
		inputs:  map[string]string{"hits.increment": manifest.TypeAny},
		outputs: map[string]string{"hits.updated": manifest.TypeNumber},
		width:   180, height: 70, template: "hit-counter.html",
	},
	"stickernest.bulletin-board": {
		name: "Bulletin Board", kind: "panel", tags: []string{"myspace", "social"},
		inputs:  map[string]string{"bulletin.post": manifest.TypeObject},
		outputs: map[string]string{"bulletin.posted": manifest.TypeObject},
		width:   320, height: 300, template: "bulletin-board.html",
	},
	"stickernest.away-message": {
		name: "Away Message", kind: "sticker", tags: []string{"myspace", "status"},
		inputs:  map[string]string{"message.set": manifest.TypeString},
		outputs: map[string]string{},
		width:   260, height: 90, template: "away-message.html",
	},
	"stickernest.photo-slideshow": {
		name: "Photo Slideshow", kind: "panel", tags: []string{"myspace", "photos"},
		inputs: map[string]string{
			"photos.set": manifest.TypeList,
			"photo.next": manifest.TypeAny,
		},
		outputs: map[string]string{"photo.shown": manifest.TypeObject},
		width:   340, height: 280, template: "photo-slideshow.html",
	},
	"stickernest.marquee-banner": {
		name: "Marquee Banner", kind: "sticker", tags: []string{"myspace", "flair"},
		inputs:  map[string]string{"text.set": manifest.TypeString},
		outputs: map[string]string{},
		width:   400, height: 50, template: "marquee-banner.html",
	},
	"stickernest.cursor-trail": {
		name: "Cursor Trail", kind: "overlay", tags: []string{"myspace", "flair"},
		inputs:  map[string]string{"style.set": manifest.TypeString},
		outputs: map[string]string{},
		width:   1, height: 1, template: "cursor-trail.html",
	},
	"stickernest.profile-song": {
		name: "Profile Song", kind: "sticker", tags: []string{"myspace", "music"},
		inputs:  map[string]string{"song.set": manifest.TypeObject},
		outputs: map[string]string{"song.selected": manifest.TypeObject},
		width:   240, height: 90, template: "profile-song.html",
	},
	"stickernest.friend-requests": {
		name: "Friend Requests", kind: "panel", tags: []string{"myspace", "social"},
		inputs: map[string]string{
			"request.add":    manifest.TypeObject,
			"request.accept": manifest.TypeString,
		},
		outputs: map[string]string{"friend.accepted": manifest.TypeObject},
		width:   280, height: 240, template: "friend-requests.html",
	},
}

// Widgets builds the id -> widget map for the myspace catalog.
func Widgets() map[string]*registry.Widget {
	widgets := make(map[string]*registry.Widget, len(catalog))
	for id, d := range catalog {
		widgets[id] = build(id, d)
	}
	return widgets
}

func build(id string, d def) *registry.Widget {
	m := &manifest.Manifest{
		ID:      id,
		Name:    d.name,
		Version: "1.0.0",
		Kind:    d.kind,
		Entry:   "index.html",
		Tags:    d.tags,
		Inputs:  map[string]manifest.PortDefinition{},
		Outputs: map[string]manifest.PortDefinition{},
		Capabilities: manifest.Capabilities{
			Draggable: true,
			Resizable: d.kind == "panel",
		},
		Size: manifest.Size{Width: d.width, Height: d.height},
	}
	for port, typ := range d.inputs {
		m.Inputs[port] = manifest.PortDefinition{Type: typ}
		m.IO.Inputs = append(m.IO.Inputs, port)
	}
	for port, typ := range d.outputs {
		m.Outputs[port] = manifest.PortDefinition{Type: typ}
		m.IO.Outputs = append(m.IO.Outputs, port)
	}
	sort.Strings(m.IO.Inputs)
	sort.Strings(m.IO.Outputs)
	if len(d.emits) > 0 || len(d.listens) > 0 {
		m.Events = &manifest.Events{Emits: d.emits, Listens: d.listens}
	}

	file := d.template
	return registry.NewLazyWidget(m, func() string {
		data, err := templates.ReadFile("templates/" + file)
		if err != nil {
			return ""
		}
		return string(data)
	})
}

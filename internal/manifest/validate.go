package manifest

import (
	"fmt"
	"strings"

	"github.com/stickernest/stickernest/internal/portname"
)

// Validate performs a strict consistency check on a single manifest. It
// checks identity fields, port name syntax, port type keywords, the subset
// relationship between the io lists and the declared port maps, event name
// hygiene, and size sanity. All problems are collected into one error.
func Validate(m *Manifest) error {
	var errs []string

	if m.ID == "" {
		errs = append(errs, "manifest id cannot be empty")
	} else if _, err := portname.Parse(m.ID); err != nil {
		errs = append(errs, fmt.Sprintf("manifest id %q: %v", m.ID, err))
	}
	if m.Name == "" {
		errs = append(errs, fmt.Sprintf("widget %q: name cannot be empty", m.ID))
	}
	if m.Version == "" {
		errs = append(errs, fmt.Sprintf("widget %q: version cannot be empty", m.ID))
	}
	if m.Entry == "" {
		errs = append(errs, fmt.Sprintf("widget %q: entry cannot be empty", m.ID))
	}

	for name, def := range m.Inputs {
		errs = append(errs, checkPort(m.ID, "input", name, def)...)
	}
	for name, def := range m.Outputs {
		errs = append(errs, checkPort(m.ID, "output", name, def)...)
	}

	for _, name := range m.IO.Inputs {
		if _, ok := m.Inputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("widget %q: io.inputs lists %q which is not a declared input port", m.ID, name))
		}
	}
	for _, name := range m.IO.Outputs {
		if _, ok := m.Outputs[name]; !ok {
			errs = append(errs, fmt.Sprintf("widget %q: io.outputs lists %q which is not a declared output port", m.ID, name))
		}
	}

	if m.Events != nil {
		for _, ev := range m.Events.Emits {
			if _, err := portname.Normalize(ev); err != nil {
				errs = append(errs, fmt.Sprintf("widget %q: emitted event %q: %v", m.ID, ev, err))
			}
		}
		for _, ev := range m.Events.Listens {
			if _, err := portname.Normalize(ev); err != nil {
				errs = append(errs, fmt.Sprintf("widget %q: listened event %q: %v", m.ID, ev, err))
			}
		}
	}

	if m.Size.Width <= 0 || m.Size.Height <= 0 {
		errs = append(errs, fmt.Sprintf("widget %q: size must have positive width and height", m.ID))
	}
	if m.Size.MinWidth > m.Size.Width || m.Size.MinHeight > m.Size.Height {
		errs = append(errs, fmt.Sprintf("widget %q: minimum size exceeds declared size", m.ID))
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func checkPort(widgetID, direction, name string, def PortDefinition) []string {
	var errs []string
	if _, err := portname.Parse(name); err != nil {
		errs = append(errs, fmt.Sprintf("widget %q: %s port %q: %v", widgetID, direction, name, err))
	}
	if err := ParsePortType(def.Type); err != nil {
		errs = append(errs, fmt.Sprintf("widget %q: %s port %q: %v", widgetID, direction, name, err))
	}
	return errs
}

// Package portname defines the canonical naming scheme for widget ports and
// broadcast events: dot-separated, lowercase segments such as "item.add" or
// "grocery.pantry.updated".
//
// Historical widget catalogs mixed two separator conventions, "." for ports
// and ":" for broadcast events. The host speaks exactly one dialect, so
// Normalize folds legacy colon-separated names into the dotted form before
// any lookup or delivery.
package portname

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single name segment, e.g. `prices` or `comment-new`.
var segmentRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Name is a validated, canonical port or event name.
type Name struct {
	segments []string
}

// Parse validates rawName against the canonical scheme and returns it as a
// Name. Legacy separators are not accepted here; call Normalize first when
// the input may come from an old catalog.
func Parse(rawName string) (*Name, error) {
	if rawName == "" {
		return nil, fmt.Errorf("port name cannot be empty")
	}

	segments := strings.Split(rawName, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("port name %q contains empty segment", rawName)
		}
		if !segmentRegex.MatchString(segment) {
			return nil, fmt.Errorf("invalid port name segment: %q", segment)
		}
	}

	return &Name{segments: segments}, nil
}

// Normalize converts a possibly legacy name into the canonical dotted,
// lowercase form and validates the result.
func Normalize(rawName string) (*Name, error) {
	folded := strings.ToLower(strings.ReplaceAll(rawName, ":", "."))
	return Parse(folded)
}

// String serializes the Name into its canonical dotted representation.
func (n *Name) String() string {
	if n == nil {
		return ""
	}
	return strings.Join(n.segments, ".")
}

// Segments returns a copy of the name's path segments.
func (n *Name) Segments() []string {
	out := make([]string, len(n.segments))
	copy(out, n.segments)
	return out
}

// Equal checks two names for canonical equality.
func (n *Name) Equal(other *Name) bool {
	if n == nil || other == nil {
		return n == other
	}
	if len(n.segments) != len(other.segments) {
		return false
	}
	for i, s := range n.segments {
		if other.segments[i] != s {
			return false
		}
	}
	return true
}

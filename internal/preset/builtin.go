package preset

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed presets/*.hcl
var builtinFS embed.FS

var (
	builtinOnce    sync.Once
	builtinPresets []*Preset
	builtinErr     error
)

// Builtin returns the presets shipped with the host. They are parsed from
// the embedded HCL files on first call and shared afterwards; callers must
// treat them as read-only.
func Builtin() ([]*Preset, error) {
	builtinOnce.Do(func() {
		entries, err := builtinFS.ReadDir("presets")
		if err != nil {
			builtinErr = fmt.Errorf("failed to read embedded presets: %w", err)
			return
		}
		for _, entry := range entries {
			path := "presets/" + entry.Name()
			src, err := builtinFS.ReadFile(path)
			if err != nil {
				builtinErr = fmt.Errorf("failed to read embedded preset %s: %w", path, err)
				return
			}
			presets, err := ParseHCL(path, src)
			if err != nil {
				builtinErr = err
				return
			}
			builtinPresets = append(builtinPresets, presets...)
		}
	})
	return builtinPresets, builtinErr
}

package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/manifest"
)

// ValidateRegistry runs manifest validation across every registered widget.
// Catalog problems are collected into a single error so a broken builtin
// set fails startup with the full picture rather than one complaint at a
// time.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var errs []string
	for _, m := range r.List() {
		if err := manifest.Validate(m); err != nil {
			errs = append(errs, fmt.Sprintf("widget '%s': %v", m.ID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "widgets", r.Len())
	return nil
}

package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/fsutil"
	"github.com/stickernest/stickernest/internal/manifest"
)

// LoadManifestsRecursively walks widgetsPath for .json manifest files and
// registers each as an external widget. The widget's document is read from
// the manifest's entry file in the same directory; a missing entry file is
// tolerated and yields an empty document, since headless deployments ship
// manifests only.
func (r *Registry) LoadManifestsRecursively(ctx context.Context, widgetsPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading widget manifests from path...", "path", widgetsPath)

	filePaths, err := fsutil.FindFilesByExtension(widgetsPath, ".json")
	if err != nil {
		logger.Error("Failed to walk widgets directory", "path", widgetsPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .json manifest files found in path", "path", widgetsPath)
		return nil
	}

	loaded := 0
	for _, filePath := range filePaths {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read manifest file %s: %w", filePath, err)
		}

		m, err := manifest.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to decode manifest file %s: %w", filePath, err)
		}
		if err := manifest.Validate(m); err != nil {
			return fmt.Errorf("invalid manifest in %s: %w", filePath, err)
		}

		entryPath := filepath.Join(filepath.Dir(filePath), m.Entry)
		r.Register(NewLazyWidget(m, func() string {
			html, err := os.ReadFile(entryPath)
			if err != nil {
				return ""
			}
			return string(html)
		}))
		loaded++
		logger.Debug("Loaded widget manifest.", "file", filePath, "id", m.ID)
	}

	logger.Info("Registry loaded external widgets.", "count", loaded)
	return nil
}

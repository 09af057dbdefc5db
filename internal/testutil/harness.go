// Package testutil provides the shared harness for integration tests: a
// thread-safe log buffer and helpers that boot a full App against temporary
// preset and widget directories.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stickernest/stickernest/internal/app"
	"github.com/stickernest/stickernest/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test boot.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// BootApp builds a full App with the compiled-in catalogs against temporary
// preset and widget directories populated from files (relative path ->
// content). Startup panics are recovered into Err so tests can assert on
// them.
func BootApp(t *testing.T, presetID string, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-stickernest-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	presetsDir := filepath.Join(tmpDir, "presets")
	widgetsDir := filepath.Join(tmpDir, "widgets")
	require.NoError(t, os.Mkdir(presetsDir, 0755))
	require.NoError(t, os.Mkdir(widgetsDir, 0755))

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	config := &app.Config{
		PresetID:    presetID,
		PresetsPath: presetsDir,
		WidgetsPath: widgetsDir,
		LogLevel:    "debug",
		LogFormat:   "text",
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, config, modules...)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		App:       testApp,
	}
}

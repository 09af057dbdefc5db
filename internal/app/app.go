package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/preset"
	"github.com/stickernest/stickernest/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	presets  *preset.Loader
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Catalog and preset mistakes are programmer errors and panic; the caller
// recovers to present them cleanly.
func NewApp(outW io.Writer, config *Config, modules ...registry.Module) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Create and populate the registry with compiled-in widget catalogs.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All widget catalogs registered.", "modules", len(modules), "widgets", reg.Len())

	// External manifests extend the builtin catalogs.
	if config.WidgetsPath != "" {
		if err := reg.LoadManifestsRecursively(ctx, config.WidgetsPath); err != nil {
			panic(fmt.Errorf("failed to load widget manifests: %w", err))
		}
	}

	if err := reg.ValidateRegistry(ctx); err != nil {
		// A broken builtin catalog is a mismatch between code and contract.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	presets := preset.NewLoader()
	builtin, err := preset.Builtin()
	if err != nil {
		panic(fmt.Errorf("failed to parse builtin presets: %w", err))
	}
	for _, p := range builtin {
		if err := presets.Add(p); err != nil {
			panic(err)
		}
	}
	if config.PresetsPath != "" {
		if err := presets.LoadRecursively(ctx, config.PresetsPath); err != nil {
			panic(fmt.Errorf("failed to load presets: %w", err))
		}
	}
	logger.Debug("Presets loaded.", "count", len(presets.All()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		presets:  presets,
		config:   config,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Presets returns the application's preset loader. This is primarily for
// testing.
func (a *App) Presets() *preset.Loader {
	return a.presets
}

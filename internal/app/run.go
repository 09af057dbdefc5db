package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stickernest/stickernest/internal/ctxlog"
	"github.com/stickernest/stickernest/internal/gateway"
	"github.com/stickernest/stickernest/internal/host"
	"github.com/stickernest/stickernest/internal/memstore"
	"github.com/stickernest/stickernest/internal/preset"
	"github.com/stickernest/stickernest/internal/sqlitestore"
	"github.com/stickernest/stickernest/internal/statestore"
)

// Run boots the configured preset as a live canvas and serves it over the
// gateway until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	p, ok := a.presets.Get(a.config.PresetID)
	if !ok {
		return fmt.Errorf("unknown preset %q; available: %s", a.config.PresetID, a.presetIDs())
	}

	// Validation is advisory: broken edges are reported and soft-dropped by
	// the canvas, valid widgets still load.
	res := preset.Validate(p, a.registry)
	for _, msg := range res.Errors {
		a.logger.Warn("Preset validation problem.", "preset", p.ID, "problem", msg)
	}
	for _, msg := range res.Warnings {
		a.logger.Warn("Preset validation warning.", "preset", p.ID, "warning", msg)
	}

	store, err := a.openStateStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.logger.Error("State store close failed.", "error", err)
		}
	}()

	canvas, err := host.Instantiate(ctx, p, a.registry, store, host.Options{})
	if err != nil {
		return fmt.Errorf("failed to instantiate canvas: %w", err)
	}
	canvas.Start(ctx)
	a.logger.Info("🧩 Canvas started.", "preset", p.ID, "session", canvas.SessionID(), "widgets", len(canvas.Instances()))

	var httpServer *http.Server
	if a.config.GatewayPort > 0 {
		gw := gateway.NewServer(ctx, canvas)
		defer gw.Close()

		mux := http.NewServeMux()
		mux.Handle("/socket.io/", gw.Handler())

		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", a.config.GatewayPort),
			Handler: mux,
		}
		go func() {
			a.logger.Info("🔌 Gateway listening.", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Gateway server failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	a.logger.Info("Shutting down.")

	if httpServer != nil {
		if err := httpServer.Close(); err != nil {
			a.logger.Error("Gateway close failed.", "error", err)
		}
	}
	if err := canvas.Close(context.Background()); err != nil {
		return fmt.Errorf("canvas shutdown failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// openStateStore picks the durable sqlite store when a path is configured
// and the in-memory store otherwise.
func (a *App) openStateStore() (statestore.Store, error) {
	if a.config.StateDBPath == "" {
		a.logger.Debug("Using in-memory state store.")
		return memstore.New(), nil
	}
	a.logger.Debug("Opening sqlite state store.", "path", a.config.StateDBPath)
	store, err := sqlitestore.Open(a.config.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	return store, nil
}

func (a *App) presetIDs() string {
	ids := ""
	for i, p := range a.presets.All() {
		if i > 0 {
			ids += ", "
		}
		ids += p.ID
	}
	return ids
}

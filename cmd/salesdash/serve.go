package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-sales-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-sales-dashboard/pkg/datasource"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	Addr      string   `help:"Listen address (overrides server.address)."`
	Transport string   `enum:",nethttp,fiber" default:"" help:"HTTP transport: nethttp or fiber."`
	Manifest  []string `type:"existingfile" help:"Widget manifests to load on start."`
	Auth      string   `enum:"auto,on,off" default:"auto" help:"Guard dashboard routes with a session. auto turns it on in production."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Address = cmd.Addr
	}
	if cmd.Transport != "" {
		cfg.Server.Transport = cmd.Transport
	}
	requireAuth := cmd.Auth == "on" || (cmd.Auth == "auto" && cfg.IsProduction())

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildApplication(ctx, cfg, logger, buildOptions{Manifests: cmd.Manifest})
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.Refresh.Enabled {
		scheduler, err := datasource.NewScheduler(cfg.Refresh.Schedule, app.refresh, logger.Named("scheduler"))
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = scheduler.Stop(stopCtx)
		}()
		logger.Info("refresh scheduled", zap.String("schedule", cfg.Refresh.Schedule))
	}

	logger.Info("dashboard ready",
		zap.String("addr", cfg.Server.Address),
		zap.String("transport", cfg.Server.Transport),
		zap.String("url", cfg.Server.BasePath+"/dashboard"),
		zap.Bool("require_auth", requireAuth),
	)
	switch cfg.Server.Transport {
	case "fiber":
		return serveFiber(ctx, app, requireAuth)
	default:
		return serveNetHTTP(ctx, app, requireAuth)
	}
}

func serveNetHTTP(ctx context.Context, app *application, requireAuth bool) error {
	mux := httpapi.NewMux(app.handlers(), httpapi.MuxOptions{
		BasePath:    app.cfg.Server.BasePath,
		RequireAuth: requireAuth,
	})
	srv := &http.Server{
		Addr:              app.cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("salesdash: serve: %w", err)
	case <-ctx.Done():
	}
	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func serveFiber(ctx context.Context, app *application, requireAuth bool) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:      server.Router(),
		Controller:  app.controller,
		API:         app.executor,
		Snapshot:    app.snapshot,
		Preview:     app.preview,
		Themes:      app.service,
		Sessions:    app.sessions,
		Broadcast:   app.broadcast,
		BasePath:    app.cfg.Server.BasePath,
		RequireAuth: requireAuth,
	}); err != nil {
		return fmt.Errorf("salesdash: register routes: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(app.cfg.Server.Address)
	}()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("salesdash: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	app.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

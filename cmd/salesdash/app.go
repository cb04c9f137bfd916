package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
	"github.com/goliatone/go-sales-dashboard/pkg/config"
	"github.com/goliatone/go-sales-dashboard/pkg/datasource"
	pkgdashboard "github.com/goliatone/go-sales-dashboard/pkg/dashboard"
	"github.com/goliatone/go-sales-dashboard/pkg/logging"
	"github.com/goliatone/go-sales-dashboard/pkg/session"
	"github.com/goliatone/go-sales-dashboard/pkg/storeapi"
)

// application holds every wired collaborator of a running dashboard.
type application struct {
	cfg        config.Config
	logger     *zap.Logger
	service    *dashboard.Service
	broadcast  *dashboard.BroadcastHook
	controller *dashboard.Controller
	executor   *httpapi.CommandExecutor
	snapshot   *queries.SnapshotQuery
	preview    *queries.PreviewMoveQuery
	catalog    *queries.CatalogQuery
	layout     *queries.LayoutQuery
	refresh    *commands.RefreshDashboardCommand
	sessions   *session.Manager
	closers    []func() error
}

type buildOptions struct {
	Manifests   []string
	SkipRefresh bool
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("env", cfg.Environment)), nil
}

func newStoreClient(cfg config.StoreConfig, logger *zap.Logger) (storeapi.Client, error) {
	if cfg.Offline {
		return storeapi.NewMockClient(storeapi.DemoData()), nil
	}
	return storeapi.NewHTTPClient(storeapi.HTTPConfig{
		BaseURL:           cfg.BaseURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger.Named("storeapi"),
	})
}

func newSessionStore(cfg config.SessionConfig) (session.Store, func() error, error) {
	switch cfg.Store {
	case "", "memory":
		return session.NewMemoryStore(), nil, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(client, cfg.RedisPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("salesdash: unknown session store %q", cfg.Store)
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *zap.Logger, opts buildOptions) (*application, error) {
	client, err := newStoreClient(cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	source, err := datasource.NewSource(datasource.Config{
		Client:    client,
		Aggregate: aggregate.DefaultOptions(),
		Timeout:   cfg.Store.Timeout,
		Logger:    logger.Named("datasource"),
	})
	if err != nil {
		return nil, err
	}

	theme, err := dashboard.ParseThemeMode(cfg.Theme)
	if err != nil {
		return nil, err
	}
	telemetry := dashboard.NewZapTelemetry(logger)
	broadcast := pkgdashboard.NewBroadcastHook()
	hooks := dashboard.MultiHook{
		broadcast,
		&dashboard.NotificationsHook{Client: dashboard.ZapNotifier{Logger: logger.Named("notify")}},
	}

	service, err := pkgdashboard.Bootstrap(ctx, pkgdashboard.BootstrapOptions{
		Options: pkgdashboard.Options{
			DataProvider: source,
			RefreshHook:  hooks,
			Telemetry:    telemetry,
			DefaultTheme: theme,
		},
		Manifests:   opts.Manifests,
		SkipRefresh: opts.SkipRefresh,
	})
	if service == nil {
		return nil, err
	}
	if err != nil {
		// The dashboard renders its error state and the scheduler retries.
		logger.Warn("initial refresh failed", zap.Error(err))
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("salesdash: template renderer: %w", err)
	}

	store, closeStore, err := newSessionStore(cfg.Session)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewManager(session.Options{
		Store:  store,
		Secret: []byte(cfg.Session.Secret),
		TTL:    cfg.Session.TTL,
	})
	if err != nil {
		return nil, err
	}

	refresh := commands.NewRefreshDashboardCommand(service, telemetry)
	app := &application{
		cfg:       cfg,
		logger:    logger,
		service:   service,
		broadcast: broadcast,
		controller: dashboard.NewController(dashboard.ControllerOptions{
			Service:  service,
			Renderer: renderer,
			BasePath: cfg.Server.BasePath,
		}),
		executor: &httpapi.CommandExecutor{
			AddCmd:     commands.NewAddWidgetCommand(service, telemetry),
			RemoveCmd:  commands.NewRemoveWidgetCommand(service, telemetry),
			ReorderCmd: commands.NewReorderWidgetsCommand(service, telemetry),
			MoveCmd:    commands.NewMoveWidgetCommand(service, telemetry),
			DragCmd:    commands.NewDragWidgetCommand(service, telemetry),
			RefreshCmd: refresh,
			ThemeCmd:   commands.NewSetThemeCommand(service, telemetry),
		},
		snapshot: queries.NewSnapshotQuery(service),
		preview:  queries.NewPreviewMoveQuery(service),
		catalog:  queries.NewCatalogQuery(service),
		layout:   queries.NewLayoutQuery(service),
		refresh:  refresh,
		sessions: sessions,
	}
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}
	return app, nil
}

func (a *application) handlers() *httpapi.Handlers {
	return &httpapi.Handlers{
		API:        a.executor,
		Controller: a.controller,
		Snapshot:   a.snapshot,
		Preview:    a.preview,
		Themes:     a.service,
		Sessions:   a.sessions,
		Broadcast:  a.broadcast,
		BasePath:   a.cfg.Server.BasePath,
	}
}

func (a *application) Close() {
	a.broadcast.Close()
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

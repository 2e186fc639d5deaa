package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/eventboard/internal/adapters/animation"
	"github.com/okian/eventboard/internal/adapters/controls"
	"github.com/okian/eventboard/internal/adapters/http/api"
	"github.com/okian/eventboard/internal/adapters/http/site"
	"github.com/okian/eventboard/internal/adapters/http/swagger"
	"github.com/okian/eventboard/internal/adapters/provider"
	"github.com/okian/eventboard/internal/adapters/render"
	"github.com/okian/eventboard/internal/adapters/surface"
	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/config"
	"github.com/okian/eventboard/internal/domain/dedupe"
	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/pkg/logger"
	"github.com/okian/eventboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metricsOptions(cfg)...)

	app, err := build(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build board", logger.Error(err))
		os.Exit(1)
	}
	defer app.board.Stop()

	// A provider failure leaves an empty, usable board.
	if err := app.board.Load(ctx); err != nil {
		loggerInstance.Warn(ctx, "starting with an empty board", logger.Error(err))
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// application is the wired process: the board and the HTTP handler that
// drives it.
type application struct {
	board   *service.Board
	bar     *controls.Bar
	page    *surface.Page
	handler http.Handler
}

// build wires every component from cfg. It does not load data.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	catalog, err := labels.NewCatalog(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("label catalog: %w", err)
	}
	renderer, err := render.New(catalog)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	page := surface.NewPage()
	page.Mount(cfg.Surface, surface.NewMemory())

	src := provider.New(cfg.DataFile)
	log.Info(ctx, "using event provider", logger.String("provider", src.Name()))

	board := service.New(
		service.WithLogger(log.Named("board")),
		service.WithProvider(src),
		service.WithPage(page),
		service.WithSurfaceName(cfg.Surface),
		service.WithRenderer(renderer),
		service.WithScheduler(animation.NewScheduler()),
		service.WithEntrance(animation.Entrance{
			Stagger:    cfg.Stagger(),
			Transition: cfg.Transition(),
			OffsetY:    cfg.OffsetPX,
		}),
		service.WithInitialFilter(cfg.Filter()),
	)
	bar := controls.NewBar(board, catalog, board.Filter())

	// HTTP mux and routes.
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(board, bar, api.PageView(page, cfg.Surface),
		api.WithLogger(log.Named("api")),
		api.WithIdempotencyStore(dedupe.NewStore(dedupe.WithMaxSize(cfg.IdempotencyKeys))),
	)
	apiServer.Register(ctx, mux)

	siteHandler, err := site.NewHandler(catalog, bar, page, cfg.Surface, log.Named("site"))
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	siteHandler.Register(ctx, mux)

	return &application{
		board:   board,
		bar:     bar,
		page:    page,
		handler: api.RequestIDMiddleware(api.AccessLogMiddleware(log.Named("http"), mux)),
	}, nil
}

// metricsOptions maps the metrics settings onto manager options; unset values
// keep the manager defaults.
func metricsOptions(cfg *config.Config) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithRefreshInterval(cfg.MetricsRefresh()),
		metrics.WithRenderBuckets(cfg.MetricsRenderBuckets),
		metrics.WithHTTPBuckets(cfg.MetricsHTTPBuckets),
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seojun/eventory/internal/adapters/http/api"
	"github.com/seojun/eventory/internal/adapters/http/swagger"
	"github.com/seojun/eventory/internal/adapters/ics"
	"github.com/seojun/eventory/internal/adapters/repository"
	"github.com/seojun/eventory/internal/app"
	"github.com/seojun/eventory/internal/config"
	"github.com/seojun/eventory/internal/domain/rotation"
	"github.com/seojun/eventory/internal/domain/status"
	"github.com/seojun/eventory/pkg/logger"
	"github.com/seojun/eventory/pkg/metrics"
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
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to open schedule store: " + err.Error() + "\n")
		return
	}
	defer closeStore()

	rot := rotation.New(
		rotation.WithRolloverGrace(time.Duration(cfg.RolloverGraceMinutes) * time.Minute),
	)
	eval := status.New(
		status.WithRotation(rot),
		status.WithActiveWindows(
			time.Duration(cfg.ShortWindowMinutes)*time.Minute,
			time.Duration(cfg.LongWindowMinutes)*time.Minute,
		),
		status.WithExpiryBuffer(time.Duration(cfg.ExpiryBufferMinutes)*time.Minute),
		status.WithCountdownWindow(time.Duration(cfg.CountdownHours)*time.Hour),
		status.WithSoonWindow(time.Duration(cfg.SoonMinutes)*time.Minute),
		status.WithStaleAnchor(time.Duration(cfg.StaleAnchorDays)*24*time.Hour),
	)

	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithStore(store),
		app.WithRotation(rot),
		app.WithEvaluator(eval),
		app.WithRefreshSpec(cfg.RefreshSpec),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	mux.Handle("/calendar.ics", ics.NewHandler(svc, eval.ReferenceLocation()))
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildStore opens the configured schedule store backend.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pg, err := repository.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return repository.NewMemoryStore(), func() {}, nil
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/qradar/internal/adapters/http/api"
	app "github.com/okian/qradar/internal/app"
	"github.com/okian/qradar/internal/config"
	"github.com/okian/qradar/internal/render"
	"github.com/okian/qradar/pkg/logger"
	"github.com/okian/qradar/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 10 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	switch cfg.Mode {
	case config.ModeSave:
		err = save(ctx, svc, cfg)
	default:
		err = serve(ctx, svc, cfg, log)
	}
	if err != nil {
		log.Error(ctx, "radar chart failed", logger.String("mode", cfg.Mode), logger.Error(err))
		svc.Stop()
		os.Exit(1)
	}
}

// newService builds the renderer from cfg and starts the chart service.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	renderer, err := render.New(
		render.WithSize(cfg.Width, cfg.Height),
		render.WithDPI(cfg.DPI),
	)
	if err != nil {
		return nil, err
	}
	svc := app.New(
		app.WithLogger(log),
		app.WithRenderer(renderer),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// save writes the chart to cfg.Output.
func save(ctx context.Context, svc *app.Service, cfg *config.Config) error {
	return svc.Save(ctx, cfg.Output, render.Format(cfg.Format))
}

// serve exposes the chart over HTTP until ctx is cancelled.
func serve(ctx context.Context, svc *app.Service, cfg *config.Config, log logger.Logger) error {
	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "serving radar chart",
			logger.String("addr", cfg.Addr),
			logger.String("url", "http://"+cfg.Addr+"/"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater refreshes the system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine())
}

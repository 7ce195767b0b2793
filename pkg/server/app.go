package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "CryptoAnalyst/internal/domain/repository"
	"CryptoAnalyst/pkg/config"
	xhttp "CryptoAnalyst/pkg/http"
	applogger "CryptoAnalyst/pkg/logger"
	"CryptoAnalyst/pkg/queue"
)

// Queue is the lifecycle surface shared by the redis and memory queues.
type Queue interface {
	Start() error
	Stop(ctx context.Context) error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	handler    xhttp.Handler
	queue      Queue
	publisher  domrepo.AuditPublisher
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, lgr *applogger.Logger, handler xhttp.Handler) *App {
	return &App{cfg: cfg, logger: lgr, handler: handler}
}

// SetQueue injects the async job queue; nil leaves job endpoints disabled.
func (a *App) SetQueue(q Queue) { a.queue = q }

// SetAuditPublisher injects the audit publisher so it is closed on shutdown.
func (a *App) SetAuditPublisher(p domrepo.AuditPublisher) { a.publisher = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx := context.Background()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsLogging(a.logger, time.Second),
		xhttp.WithMetricsPath(metricsPath(a.cfg)),
	)

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.logger.Error("queue start error", applogger.Error(err))
			return err
		}
		a.logger.Info("job queue started", applogger.Int("workers", a.cfg.Queue.Workers))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.logger.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("audit publisher close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

func metricsPath(cfg *config.Config) string {
	if !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.Path
}

var (
	_ Queue = (*queue.RedisQueue)(nil)
	_ Queue = (*queue.MemoryQueue)(nil)
)

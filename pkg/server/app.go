package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"StockSquad/internal/usecase"
	"StockSquad/pkg/config"
	xhttp "StockSquad/pkg/http"
	pkgkafka "StockSquad/pkg/kafka"
	"StockSquad/pkg/logger"
	"StockSquad/pkg/queue"
)

// App encapsulates the application lifecycle: HTTP server, background
// loops and broker consumers start together and stop on signal.
// Optional components are nil when their backend is not configured.
type App struct {
	cfg          *config.Config
	logger       *logger.Logger
	handler      xhttp.Handler
	httpServer   *xhttp.Server
	jobs         queue.Service
	consumer     *pkgkafka.Consumer
	alertHandler pkgkafka.MessageHandler
	sweeper      *usecase.AlertSweeper
	scheduler    *usecase.SnapshotScheduler
	closers      []io.Closer
}

// New creates the application.
func New(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	jobs queue.Service,
	consumer *pkgkafka.Consumer,
	alertHandler pkgkafka.MessageHandler,
	sweeper *usecase.AlertSweeper,
	scheduler *usecase.SnapshotScheduler,
) *App {
	return &App{
		cfg:          cfg,
		logger:       l,
		handler:      handler,
		jobs:         jobs,
		consumer:     consumer,
		alertHandler: alertHandler,
		sweeper:      sweeper,
		scheduler:    scheduler,
	}
}

// AddCloser registers a resource to release on shutdown, in reverse
// registration order.
func (a *App) AddCloser(c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, c)
	}
}

// Run starts everything and blocks until an interrupt arrives.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	)

	if a.jobs != nil {
		if err := a.jobs.Start(); err != nil {
			return err
		}
	}

	if a.consumer != nil && a.alertHandler != nil {
		a.consumer.RegisterHandler(a.alertHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", logger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", logger.String("topic", a.alertHandler.Topic()))
	}

	if a.sweeper != nil {
		go a.sweeper.Run(ctx)
		a.logger.Info("alert sweeper started")
	}
	if a.scheduler != nil {
		go a.scheduler.Run(ctx)
		a.logger.Info("snapshot scheduler started")
	}

	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("http server started", logger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Warn("http shutdown error", logger.Error(err))
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("consumer stop error", logger.Error(err))
		}
	}
	if a.jobs != nil {
		if err := a.jobs.Stop(ctx); err != nil {
			a.logger.Warn("queue stop error", logger.Error(err))
		}
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close error", logger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

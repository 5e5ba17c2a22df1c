package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trackly/internal/amqp"
	"trackly/internal/cli"
	"trackly/internal/log"
	"trackly/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker, nil)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" || !cfg.SheetsEnabled() {
		logger.Error("trackly-worker requires AMQP_URL and GOOGLE_SPREADSHEET_ID")
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend is not shared with the server; only this process's ledger will be mirrored")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The worker only consumes; its own ledger actions never publish.
	appCfg := *cfg
	appCfg.AMQPURL = ""
	app, err := cli.Open(ctx, &appCfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err)
		os.Exit(1)
	}
	defer app.Close()

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		app.Close()
		os.Exit(1)
	}
	defer consumer.Close()

	w := worker.NewSyncWorker(app.Ledger(), app.Sheets, logger.Logger)

	logger.Info("Performing startup sync")
	if err := w.Sync(ctx); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consumer.Consume(gctx, w.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := w.Sync(gctx); err != nil {
					logger.Error("Periodic sync failed", log.FieldError, err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		return
	}
	logger.Info("Worker shutdown complete", "mirrors", w.Synced())
}

// Package cli provides the initialization shared by cmd/trackly and
// cmd/trackly-cli.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"trackly/internal/amqp"
	"trackly/internal/backend"
	"trackly/internal/config"
	"trackly/internal/export"
	"trackly/internal/ledger"
	"trackly/internal/log"
	"trackly/internal/preferences"
	"trackly/internal/services"
	"trackly/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the root logger for component at the LOG_LEVEL in
// the environment and installs it as the slog default. A nil out means stdout.
func SetupLogger(component string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	if out != nil {
		cfg.Output = out
	}
	if lvl, err := config.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// App bundles the opened storage and the services built on it.
type App struct {
	Config  *config.Config
	Service *services.ExpenseService
	Theme   *preferences.ThemeStore
	// Sheets is nil unless GOOGLE_SPREADSHEET_ID is set.
	Sheets *export.SheetsExporter

	cleanup []func() error
}

// Ledger returns the ledger behind the service.
func (a *App) Ledger() *ledger.Ledger { return a.Service.Ledger() }

// Open wires storage, ledger, events and exporters according to cfg.
// AMQP connection failures are logged and the app continues without events.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentStorage).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, cleanup: []func() error{res.Cleanup}}

	l := ledger.Open(ctx, storage.NewExpenseStore(res.KV),
		ledger.WithLogger(logger.WithComponent(log.ComponentLedger).Logger))

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			publisher = client
		}
	}

	app.Service = services.NewExpenseService(l, publisher, logger.WithComponent(log.ComponentLedger).Logger)
	app.cleanup = append(app.cleanup, app.Service.Close)
	app.Theme = preferences.NewThemeStore(res.KV)

	if cfg.SheetsEnabled() {
		values, err := export.NewSheetsValues(ctx, cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize Google Sheets export: %w", err)
		}
		app.Sheets = export.NewSheetsExporter(values, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		logger.Info("Google Sheets export enabled", "sheet", cfg.GoogleSheetName)
	}

	logger.Info("Ledger opened",
		log.FieldBackend, cfg.DataBackend,
		log.FieldCount, l.Len(),
		"amqp_enabled", publisher != nil)
	return app, nil
}

// Close runs cleanups in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.cleanup = nil
	if len(errs) > 0 {
		slog.Warn("Cleanup finished with errors", "error", errors.Join(errs...))
	}
	return errors.Join(errs...)
}

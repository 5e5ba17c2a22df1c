// Package worker mirrors the shared ledger to Google Sheets in response to
// ledger events.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"trackly/internal/amqp"
	"trackly/internal/core"
	"trackly/internal/ledger"
	"trackly/internal/services"
)

// SyncWorker re-reads the ledger from storage and overwrites the sheet.
// It needs a backend shared with the server process (file or sqlite).
type SyncWorker struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	exporter services.Exporter
	logger   *slog.Logger
	synced   int
}

func NewSyncWorker(l *ledger.Ledger, exporter services.Exporter, logger *slog.Logger) *SyncWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncWorker{ledger: l, exporter: exporter, logger: logger}
}

// HandleEvent mirrors the ledger after expense.added and expense.removed.
// Export events are ignored.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev amqp.LedgerEvent) error {
	switch ev.Type {
	case amqp.EventExpenseAdded, amqp.EventExpenseRemoved:
		w.logger.InfoContext(ctx, "Processing ledger event", "type", ev.Type, "expense_id", ev.ExpenseID)
		return w.Sync(ctx)
	default:
		w.logger.DebugContext(ctx, "Ignoring ledger event", "type", ev.Type)
		return nil
	}
}

// Sync reloads the ledger and pushes it. An empty ledger is skipped.
func (w *SyncWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ledger.Reload(ctx)
	expenses := w.ledger.List()

	err := w.exporter.Export(ctx, io.Discard, expenses)
	if errors.Is(err, core.ErrEmptyLedger) {
		w.logger.InfoContext(ctx, "Ledger is empty, nothing to mirror")
		return nil
	}
	if err != nil {
		return fmt.Errorf("mirror ledger: %w", err)
	}

	w.synced++
	w.logger.InfoContext(ctx, "Ledger mirrored", "format", w.exporter.Format(), "count", len(expenses))
	return nil
}

// Synced reports how many mirrors have completed.
func (w *SyncWorker) Synced() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.synced
}

package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"trackly/internal/amqp"
	"trackly/internal/core"
	"trackly/internal/ledger"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	Publish(ctx context.Context, ev amqp.LedgerEvent) error
	Close() error
}

// ExpenseService applies user actions to the ledger and announces them.
// Event publication is best effort and never fails the action.
type ExpenseService struct {
	ledger    *ledger.Ledger
	publisher EventPublisher
	logger    *slog.Logger
}

func NewExpenseService(l *ledger.Ledger, publisher EventPublisher, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		ledger:    l,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *ExpenseService) Ledger() *ledger.Ledger { return s.ledger }

// CreateExpense records a new expense and publishes expense.added.
func (s *ExpenseService) CreateExpense(ctx context.Context, in ledger.Input) (core.Expense, error) {
	e, err := s.ledger.Add(ctx, in)
	if err != nil {
		return core.Expense{}, err
	}

	s.logger.InfoContext(ctx, "Expense recorded",
		"expense_id", e.ID,
		"amount", e.Amount.String(),
		"category", e.Category)

	s.publish(ctx, amqp.NewExpenseAdded(e, s.ledger.Len()))
	return e, nil
}

// DeleteExpense removes id and reports whether it existed.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) bool {
	if !s.ledger.Remove(ctx, id) {
		return false
	}
	s.logger.InfoContext(ctx, "Expense removed", "expense_id", id)
	s.publish(ctx, amqp.NewExpenseRemoved(id, s.ledger.Len()))
	return true
}

// Exporter writes a ledger snapshot in one format.
type Exporter interface {
	Format() string
	Export(ctx context.Context, w io.Writer, expenses []core.Expense) error
}

// Export writes the ledger through exp and publishes ledger.exported.
// An empty ledger fails with core.ErrEmptyLedger before anything is written.
func (s *ExpenseService) Export(ctx context.Context, w io.Writer, exp Exporter) error {
	expenses := s.ledger.List()
	if len(expenses) == 0 {
		return core.ErrEmptyLedger
	}
	if err := exp.Export(ctx, w, expenses); err != nil {
		return fmt.Errorf("export %s: %w", exp.Format(), err)
	}
	s.publish(ctx, amqp.NewLedgerExported(exp.Format(), len(expenses)))
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, ev amqp.LedgerEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping event", "type", ev.Type)
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger event", "type", ev.Type, "error", err)
	}
}

// Close releases the publisher connection.
func (s *ExpenseService) Close() error {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}

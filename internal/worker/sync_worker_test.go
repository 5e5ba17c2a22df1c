package worker

import (
	"context"
	"errors"
	"io"
	"testing"

	"trackly/internal/amqp"
	"trackly/internal/core"
	"trackly/internal/ledger"
	"trackly/internal/storage"
)

type fakeExporter struct {
	calls    int
	received []core.Expense
	err      error
}

func (f *fakeExporter) Format() string { return "sheets" }

func (f *fakeExporter) Export(_ context.Context, _ io.Writer, e []core.Expense) error {
	f.calls++
	if len(e) == 0 {
		return core.ErrEmptyLedger
	}
	f.received = e
	return f.err
}

func TestSyncWorker_ReloadsSharedStore(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	// The worker's ledger is opened before the writer adds anything.
	workerLedger := ledger.Open(ctx, storage.NewExpenseStore(kv))
	writer := ledger.Open(ctx, storage.NewExpenseStore(kv))

	exp := &fakeExporter{}
	w := NewSyncWorker(workerLedger, exp, nil)

	if err := w.HandleEvent(ctx, amqp.NewExpenseRemoved(1, 0)); err != nil {
		t.Fatalf("empty ledger should not fail: %v", err)
	}
	if w.Synced() != 0 {
		t.Fatalf("empty ledger should not count as a mirror")
	}

	e, err := writer.Add(ctx, ledger.Input{Title: "Coffee", Amount: "3.5", Category: "food"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := w.HandleEvent(ctx, amqp.NewExpenseAdded(e, 1)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if w.Synced() != 1 || len(exp.received) != 1 || exp.received[0].ID != e.ID {
		t.Fatalf("unexpected mirror state synced=%d received=%v", w.Synced(), exp.received)
	}
}

func TestSyncWorker_IgnoresExportEvents(t *testing.T) {
	exp := &fakeExporter{}
	l := ledger.Open(context.Background(), storage.NewExpenseStore(storage.NewMemoryKV()))
	w := NewSyncWorker(l, exp, nil)

	if err := w.HandleEvent(context.Background(), amqp.NewLedgerExported("csv", 3)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if exp.calls != 0 {
		t.Fatalf("export events must not trigger a mirror")
	}
}

func TestSyncWorker_PropagatesExportFailure(t *testing.T) {
	ctx := context.Background()
	l := ledger.Open(ctx, storage.NewExpenseStore(storage.NewMemoryKV()))
	if _, err := l.Add(ctx, ledger.Input{Title: "Bus", Amount: "2", Category: "transport"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	w := NewSyncWorker(l, &fakeExporter{err: errors.New("quota")}, nil)
	if err := w.Sync(ctx); err == nil {
		t.Fatal("expected error so the event is requeued")
	}
}

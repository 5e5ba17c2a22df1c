package ledger

import (
	"context"
	"errors"
	"testing"

	"trackly/internal/core"
)

func TestCSVExactOutput(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	ctx := context.Background()
	if _, err := l.Add(ctx, Input{Title: "Coffee", Amount: "3.50", Category: "food", Date: "2024-01-02"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add(ctx, Input{Title: "Bus", Amount: "2.00", Category: "transport", Date: "2024-01-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := l.CSV()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	want := "Title,Amount,Category,Date\n" +
		"\"Coffee\",3.50,Food & Dining,\"2024-01-02\"\n" +
		"\"Bus\",2.00,Transportation,\"2024-01-01\"\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCSVEmptyLedger(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	out, err := l.CSV()
	if !errors.Is(err, core.ErrEmptyLedger) {
		t.Fatalf("expected ErrEmptyLedger, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestCSVKeepsFieldsVerbatim(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	if _, err := l.Add(context.Background(), Input{Title: `Say "hi"`, Amount: "1", Category: "a,b", Date: "2024-01-01"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, _ := l.CSV()
	want := "Title,Amount,Category,Date\n\"Say \"hi\"\",1.00,a,b,\"2024-01-01\"\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCSVRows(t *testing.T) {
	rows := CSVRows([]core.Expense{{Title: "Coffee", Amount: core.MustAmount("3.5"), Category: core.Food, Date: core.NewDate(2024, 1, 2)}})
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][0] != "Coffee" || rows[1][1] != "3.50" || rows[1][2] != "Food & Dining" || rows[1][3] != "2024-01-02" {
		t.Fatalf("unexpected row %v", rows[1])
	}
}

package ledger

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"trackly/internal/core"
)

type fakeStore struct {
	loaded  []core.Expense
	loadErr error
	saveErr error
	saves   int
	saved   []core.Expense
}

func (f *fakeStore) Load(context.Context) ([]core.Expense, error) {
	return f.loaded, f.loadErr
}

func (f *fakeStore) Save(_ context.Context, e []core.Expense) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = e
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var jan2 = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T, store *fakeStore) *Ledger {
	t.Helper()
	return Open(context.Background(), store, WithClock(fixedClock(jan2)))
}

func TestAddAssignsDefaultsAndPersists(t *testing.T) {
	store := &fakeStore{}
	l := newTestLedger(t, store)

	e, err := l.Add(context.Background(), Input{Title: "Coffee", Amount: "3.5", Category: "food"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.ID != jan2.UnixMilli() {
		t.Fatalf("id = %d, want %d", e.ID, jan2.UnixMilli())
	}
	if e.Amount.String() != "3.50" {
		t.Fatalf("amount = %s", e.Amount)
	}
	if e.Date.String() != "2024-01-02" {
		t.Fatalf("date = %s", e.Date)
	}
	if store.saves != 1 || len(store.saved) != 1 || store.saved[0].ID != e.ID {
		t.Fatalf("expected write-through save, got saves=%d saved=%v", store.saves, store.saved)
	}
}

func TestAddExplicitDate(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	e, err := l.Add(context.Background(), Input{Title: "Bus", Amount: "2", Category: "transport", Date: "2023-12-31"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.Date.String() != "2023-12-31" {
		t.Fatalf("date = %s", e.Date)
	}
}

func TestAddValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		field string
		err   error
	}{
		{"empty title", Input{Title: "", Amount: "1", Category: "food"}, "title", core.ErrEmptyTitle},
		{"blank title", Input{Title: "  ", Amount: "1", Category: "food"}, "title", core.ErrEmptyTitle},
		{"empty amount", Input{Title: "x", Amount: "", Category: "food"}, "amount", core.ErrInvalidAmount},
		{"bad amount", Input{Title: "x", Amount: "abc", Category: "food"}, "amount", core.ErrInvalidAmount},
		{"negative amount", Input{Title: "x", Amount: "-2", Category: "food"}, "amount", core.ErrInvalidAmount},
		{"empty category", Input{Title: "x", Amount: "1", Category: ""}, "category", core.ErrEmptyCategory},
		{"bad date", Input{Title: "x", Amount: "1", Category: "food", Date: "02/01/2024"}, "date", core.ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			l := newTestLedger(t, store)
			_, err := l.Add(context.Background(), tc.in)

			var ve *core.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field || !errors.Is(err, tc.err) {
				t.Fatalf("got field=%s err=%v, want field=%s err=%v", ve.Field, ve.Err, tc.field, tc.err)
			}
			if l.Len() != 0 || store.saves != 0 {
				t.Fatalf("ledger must not change on validation failure")
			}
		})
	}
}

func TestAddIncreasesCountAndTotal(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	ctx := context.Background()
	for _, amt := range []string{"3.50", "2", "10.005", "0"} {
		before := l.Summary()
		e, err := l.Add(ctx, Input{Title: "x", Amount: amt, Category: "food"})
		if err != nil {
			t.Fatalf("add %s: %v", amt, err)
		}
		after := l.Summary()
		if after.Count != before.Count+1 {
			t.Fatalf("count %d -> %d", before.Count, after.Count)
		}
		if !after.Total.Equal(before.Total.Add(e.Amount)) {
			t.Fatalf("total %s -> %s, added %s", before.Total, after.Total, e.Amount)
		}
	}
}

func TestIDsAreUniqueWithinSameMillisecond(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	ctx := context.Background()
	a, _ := l.Add(ctx, Input{Title: "a", Amount: "1", Category: "food"})
	b, _ := l.Add(ctx, Input{Title: "b", Amount: "1", Category: "food"})
	if a.ID == b.ID {
		t.Fatalf("ids collided: %d", a.ID)
	}
	if b.ID != a.ID+1 {
		t.Fatalf("expected bumped id %d, got %d", a.ID+1, b.ID)
	}
}

func TestIDsBumpPastLoadedRecords(t *testing.T) {
	future := jan2.Add(time.Hour).UnixMilli()
	store := &fakeStore{loaded: []core.Expense{{ID: future, Title: "x", Amount: core.MustAmount("1"), Category: core.Food, Date: core.NewDate(2024, 1, 2)}}}
	l := newTestLedger(t, store)
	e, err := l.Add(context.Background(), Input{Title: "y", Amount: "1", Category: "food"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.ID != future+1 {
		t.Fatalf("id = %d, want %d", e.ID, future+1)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	l := newTestLedger(t, store)
	ctx := context.Background()
	e, _ := l.Add(ctx, Input{Title: "x", Amount: "1", Category: "food"})
	saves := store.saves

	if !l.Remove(ctx, e.ID) {
		t.Fatalf("first remove should report true")
	}
	if store.saves != saves+1 {
		t.Fatalf("remove should persist")
	}
	if l.Remove(ctx, e.ID) {
		t.Fatalf("second remove should report false")
	}
	if store.saves != saves+1 {
		t.Fatalf("no-op remove must not persist")
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger")
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := newTestLedger(t, &fakeStore{}).Summary()
	if s.Count != 0 || !s.Total.IsZero() || !s.Average.IsZero() || !s.Largest.IsZero() {
		t.Fatalf("unexpected empty summary %+v", s)
	}
}

func TestSummary(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	ctx := context.Background()
	for _, amt := range []string{"3.50", "10", "1.50"} {
		if _, err := l.Add(ctx, Input{Title: "x", Amount: amt, Category: "food"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	s := l.Summary()
	if s.Total.String() != "15.00" || s.Count != 3 || s.Average.String() != "5.00" || s.Largest.String() != "10.00" {
		t.Fatalf("unexpected summary total=%s count=%d avg=%s largest=%s", s.Total, s.Count, s.Average, s.Largest)
	}
}

func TestCategoryTotalsOrderAndSum(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	ctx := context.Background()
	adds := []Input{
		{Title: "a", Amount: "1", Category: "transport"},
		{Title: "b", Amount: "2", Category: "misc"},
		{Title: "c", Amount: "3", Category: "transport"},
		{Title: "d", Amount: "4.25", Category: "food"},
	}
	for _, in := range adds {
		if _, err := l.Add(ctx, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	totals := l.CategoryTotals()
	var codes []core.Category
	var sum core.Amount
	for _, ct := range totals {
		codes = append(codes, ct.Category)
		sum = sum.Add(ct.Total)
	}
	if !slices.Equal(codes, []core.Category{"transport", "misc", "food"}) {
		t.Fatalf("unexpected order %v", codes)
	}
	if totals[0].Total.String() != "4.00" || totals[0].Label != "Transportation" {
		t.Fatalf("unexpected transport total %+v", totals[0])
	}
	if totals[1].Label != "misc" {
		t.Fatalf("unknown category should keep its code as label, got %q", totals[1].Label)
	}
	if !sum.Equal(l.Summary().Total) {
		t.Fatalf("category sum %s != total %s", sum, l.Summary().Total)
	}
}

func TestSortedByDateDescIsStable(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	ctx := context.Background()
	adds := []Input{
		{Title: "old", Amount: "1", Category: "food", Date: "2024-01-01"},
		{Title: "new-first", Amount: "1", Category: "food", Date: "2024-03-01"},
		{Title: "mid", Amount: "1", Category: "food", Date: "2024-02-01"},
		{Title: "new-second", Amount: "1", Category: "food", Date: "2024-03-01"},
	}
	for _, in := range adds {
		if _, err := l.Add(ctx, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	var titles []string
	for _, e := range l.SortedByDateDesc() {
		titles = append(titles, e.Title)
	}
	want := []string{"new-first", "new-second", "mid", "old"}
	if !slices.Equal(titles, want) {
		t.Fatalf("got %v, want %v", titles, want)
	}

	// Natural order is untouched.
	if l.List()[0].Title != "old" {
		t.Fatalf("sorting must not reorder the ledger")
	}
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	store := &fakeStore{loadErr: &core.PersistenceError{Op: "load", Key: "expenses", Err: errors.New("bad json")}}
	l := newTestLedger(t, store)
	if l.Len() != 0 {
		t.Fatalf("expected empty ledger on load failure")
	}
	if _, err := l.Add(context.Background(), Input{Title: "x", Amount: "1", Category: "food"}); err != nil {
		t.Fatalf("ledger should stay usable: %v", err)
	}
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	l := newTestLedger(t, store)
	if _, err := l.Add(context.Background(), Input{Title: "x", Amount: "1", Category: "food"}); err != nil {
		t.Fatalf("save failure must not surface: %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("in-memory state should keep the expense")
	}
}

func TestReloadDropsDuplicateIDs(t *testing.T) {
	dup := core.Expense{ID: 7, Title: "a", Amount: core.MustAmount("1"), Category: core.Food, Date: core.NewDate(2024, 1, 1)}
	store := &fakeStore{loaded: []core.Expense{dup, dup}}
	l := newTestLedger(t, store)
	if l.Len() != 1 {
		t.Fatalf("expected duplicates dropped, got %d", l.Len())
	}
	if _, ok := l.Get(7); !ok {
		t.Fatalf("expected expense 7 present")
	}
}

func TestUnknownCategoryPreserved(t *testing.T) {
	l := newTestLedger(t, &fakeStore{})
	e, err := l.Add(context.Background(), Input{Title: "x", Amount: "1", Category: "misc"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.Category != "misc" || e.Category.Label() != "misc" {
		t.Fatalf("unexpected category %q", e.Category)
	}
}

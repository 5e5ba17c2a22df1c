// Package ledger holds the in-memory expense collection and its derived views.
//
// A Ledger is loaded once from a Store and written back after every mutation.
// Persistence failures never interrupt the caller: a failed load starts the
// ledger empty and a failed save leaves the in-memory state ahead of storage
// until the next successful write.
package ledger

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"trackly/internal/core"
)

// Store is the persistence port the ledger depends on.
type Store interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, expenses []core.Expense) error
}

// Input carries the raw form values of a new expense. Date may be empty.
type Input struct {
	Title    string
	Amount   string
	Category string
	Date     string
}

type Summary struct {
	Total   core.Amount `json:"total"`
	Count   int         `json:"count"`
	Average core.Amount `json:"average"`
	Largest core.Amount `json:"largest"`
}

type CategoryTotal struct {
	Category core.Category `json:"category"`
	Label    string        `json:"label"`
	Total    core.Amount   `json:"total"`
}

type Ledger struct {
	mu       sync.Mutex
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	expenses []core.Expense
	lastID   int64
}

type Option func(*Ledger)

// WithClock overrides the time source used for ids and default dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// Open creates a ledger and loads its state from store.
func Open(ctx context.Context, store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Reload(ctx)
	return l
}

// Reload replaces the in-memory state with whatever the store holds.
func (l *Ledger) Reload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expenses = nil
	l.lastID = 0
	if l.store == nil {
		return
	}

	loaded, err := l.store.Load(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "Failed to load ledger, starting empty", "error", err)
		return
	}

	seen := make(map[int64]struct{}, len(loaded))
	for _, e := range loaded {
		if _, dup := seen[e.ID]; dup {
			l.logger.WarnContext(ctx, "Dropping expense with duplicate id", "id", e.ID)
			continue
		}
		seen[e.ID] = struct{}{}
		l.expenses = append(l.expenses, e)
		l.lastID = max(l.lastID, e.ID)
	}
	l.logger.DebugContext(ctx, "Ledger loaded", "count", len(l.expenses))
}

// Add validates in, appends a new expense and persists the ledger.
func (l *Ledger) Add(ctx context.Context, in Input) (core.Expense, error) {
	if strings.TrimSpace(in.Title) == "" {
		return core.Expense{}, &core.ValidationError{Field: "title", Err: core.ErrEmptyTitle}
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Expense{}, &core.ValidationError{Field: "amount", Err: err}
	}
	if strings.TrimSpace(in.Category) == "" {
		return core.Expense{}, &core.ValidationError{Field: "category", Err: core.ErrEmptyCategory}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	date := core.DateOf(now)
	if strings.TrimSpace(in.Date) != "" {
		date, err = core.ParseDate(in.Date)
		if err != nil {
			return core.Expense{}, &core.ValidationError{Field: "date", Err: err}
		}
	}

	e := core.Expense{
		ID:       l.nextID(now),
		Title:    in.Title,
		Amount:   amount,
		Category: core.Category(in.Category),
		Date:     date,
	}
	l.expenses = append(l.expenses, e)
	l.persist(ctx)
	return e, nil
}

// nextID derives the id from the millisecond clock, bumping past the last
// issued id when two adds land in the same millisecond.
func (l *Ledger) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// Remove deletes the expense with id. It reports whether anything was removed.
func (l *Ledger) Remove(ctx context.Context, id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := slices.IndexFunc(l.expenses, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.expenses = slices.Delete(l.expenses, i, i+1)
	l.persist(ctx)
	return true
}

func (l *Ledger) persist(ctx context.Context) {
	if l.store == nil {
		return
	}
	if err := l.store.Save(ctx, slices.Clone(l.expenses)); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist ledger", "error", err, "count", len(l.expenses))
	}
}

// Get returns the expense with id.
func (l *Ledger) Get(id int64) (core.Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// List returns the expenses in insertion order.
func (l *Ledger) List() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.expenses)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.expenses)
}

func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var s Summary
	for i, e := range l.expenses {
		s.Total = s.Total.Add(e.Amount)
		if i == 0 || e.Amount.Cmp(s.Largest) > 0 {
			s.Largest = e.Amount
		}
	}
	s.Count = len(l.expenses)
	s.Average = s.Total.DivInt(s.Count)
	return s
}

// CategoryTotals sums amounts per literal category code, ordered by the
// first appearance of each code.
func (l *Ledger) CategoryTotals() []CategoryTotal {
	return TotalsByCategory(l.List())
}

// TotalsByCategory is CategoryTotals over an arbitrary snapshot.
func TotalsByCategory(expenses []core.Expense) []CategoryTotal {
	index := make(map[core.Category]int)
	var out []CategoryTotal
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Label: e.Category.Label()})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// SortedByDateDesc returns a newest-first copy. Equal dates keep insertion order.
func (l *Ledger) SortedByDateDesc() []core.Expense {
	sorted := l.List()
	slices.SortStableFunc(sorted, func(a, b core.Expense) int {
		return core.CompareDate(b, a)
	})
	return sorted
}

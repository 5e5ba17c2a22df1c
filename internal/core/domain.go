package core

import (
	"strings"
	"time"
)

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Shopping      Category = "shopping"
	Housing       Category = "housing"
	Entertainment Category = "entertainment"
	Utilities     Category = "utilities"
	Health        Category = "health"
	Travel        Category = "travel"
	Other         Category = "other"
)

// DateLayout is the ISO 8601 calendar date layout used for storage and export.
const DateLayout = "2006-01-02"

type (
	// Category is a short machine key. Codes outside the known set are kept verbatim.
	Category string

	Date struct {
		time.Time
	}

	Expense struct {
		ID       int64    `json:"id"`
		Title    string   `json:"title"`
		Amount   Amount   `json:"amount"`
		Category Category `json:"category"`
		Date     Date     `json:"date"`
	}
)

var categoryLabels = map[Category]string{
	Food:          "Food & Dining",
	Transport:     "Transportation",
	Shopping:      "Shopping",
	Housing:       "Housing",
	Entertainment: "Entertainment",
	Utilities:     "Utilities",
	Health:        "Health & Fitness",
	Travel:        "Travel",
	Other:         "Other",
}

// Categories returns the known category codes in display order.
func Categories() []Category {
	return []Category{Food, Transport, Shopping, Housing, Entertainment, Utilities, Health, Travel, Other}
}

// Label returns the human readable label, or the code itself when unknown.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Known reports whether c is one of the fixed category codes.
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// CategoryLabel resolves a raw code to its label with identity fallback.
func CategoryLabel(code string) string {
	return Category(code).Label()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CompareDate orders two expenses by calendar date.
func CompareDate(a, b Expense) int {
	return a.Date.Compare(b.Date.Time)
}

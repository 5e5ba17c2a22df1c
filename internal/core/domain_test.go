package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCategoryLabel(t *testing.T) {
	cases := map[string]string{
		"food":          "Food & Dining",
		"transport":     "Transportation",
		"shopping":      "Shopping",
		"housing":       "Housing",
		"entertainment": "Entertainment",
		"utilities":     "Utilities",
		"health":        "Health & Fitness",
		"travel":        "Travel",
		"other":         "Other",
		"misc":          "misc",
		"":              "",
	}
	for code, want := range cases {
		if got := CategoryLabel(code); got != want {
			t.Fatalf("CategoryLabel(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestCategoriesAreKnown(t *testing.T) {
	cats := Categories()
	if len(cats) != 9 {
		t.Fatalf("expected 9 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !c.Known() {
			t.Fatalf("%q should be known", c)
		}
	}
	if Category("misc").Known() {
		t.Fatalf("misc should not be known")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 2 {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "2024-13-01", "02/01/2024", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDateOfUsesUTCCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-01-02 05:00 at UTC+10 is still 2024-01-01 in UTC.
	d := DateOf(time.Date(2024, 1, 2, 5, 0, 0, 0, loc))
	if d.String() != "2024-01-01" {
		t.Fatalf("DateOf = %s", d)
	}
}

func TestExpenseJSONLayout(t *testing.T) {
	e := Expense{
		ID:       1704153600000,
		Title:    "Coffee",
		Amount:   MustAmount("3.5"),
		Category: Food,
		Date:     NewDate(2024, 1, 2),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":1704153600000,"title":"Coffee","amount":"3.50","category":"food","date":"2024-01-02"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}

	var back Expense
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != e.ID || back.Title != e.Title || !back.Amount.Equal(e.Amount) || back.Date.String() != "2024-01-02" {
		t.Fatalf("unexpected round trip %+v", back)
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := error(&ValidationError{Field: "title", Err: ErrEmptyTitle})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	if !IsValidation(err) {
		t.Fatalf("expected IsValidation")
	}
	if IsValidation(ErrEmptyLedger) {
		t.Fatalf("ErrEmptyLedger is not a validation error")
	}
}

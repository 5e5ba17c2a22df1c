// Package export renders ledger snapshots as downloadable files or pushes
// them to a Google spreadsheet.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"trackly/internal/core"
	"trackly/internal/ledger"
)

const ProductName = "trackly"

// Filename builds "<product>-expenses-<YYYY-MM-DD>.<ext>" for the given day.
func Filename(now time.Time, ext string) string {
	return fmt.Sprintf("%s-expenses-%s.%s", ProductName, core.DateOf(now), ext)
}

// CSV writes the ledger export format.
type CSV struct{}

func (CSV) Format() string      { return "csv" }
func (CSV) ContentType() string { return "text/csv;charset=utf-8" }

func (CSV) Export(_ context.Context, w io.Writer, expenses []core.Expense) error {
	return ledger.WriteCSV(w, expenses)
}

package ledger

import (
	"bytes"
	"fmt"
	"io"

	"trackly/internal/core"
)

const csvHeader = "Title,Amount,Category,Date\n"

// CSV renders the ledger in insertion order. Title and date are wrapped in
// double quotes without escaping; the category label is written bare.
func (l *Ledger) CSV() (string, error) {
	var buf bytes.Buffer
	if err := l.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (l *Ledger) WriteCSV(w io.Writer) error {
	return WriteCSV(w, l.List())
}

// WriteCSV writes expenses in the export format. It fails with
// core.ErrEmptyLedger when there is nothing to write.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return core.ErrEmptyLedger
	}
	if _, err := io.WriteString(w, csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		if _, err := fmt.Fprintf(w, "\"%s\",%s,%s,\"%s\"\n", e.Title, e.Amount, e.Category.Label(), e.Date); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	return nil
}

// CSVRows returns header and rows as cells, for tabular exporters.
func CSVRows(expenses []core.Expense) [][]string {
	rows := make([][]string, 0, len(expenses)+1)
	rows = append(rows, []string{"Title", "Amount", "Category", "Date"})
	for _, e := range expenses {
		rows = append(rows, []string{e.Title, e.Amount.String(), e.Category.Label(), e.Date.String()})
	}
	return rows
}

package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"trackly/internal/core"
	"trackly/internal/ledger"
)

const (
	expensesSheet = "Expenses"
	byCategory    = "By Category"
)

// XLSX writes a workbook with the expense rows and per-category totals.
type XLSX struct{}

func (XLSX) Format() string { return "xlsx" }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) Export(_ context.Context, w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return core.ErrEmptyLedger
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4361EE"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	amountFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &amountFmt})
	if err != nil {
		return fmt.Errorf("amount style: %w", err)
	}

	if err := f.SetSheetRow(expensesSheet, "A1", &[]any{"Title", "Amount", "Category", "Date"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range expenses {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{e.Title, e.Amount.Float64(), e.Category.Label(), e.Date.String()}
		if err := f.SetSheetRow(expensesSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	last := len(expenses) + 1
	_ = f.SetCellStyle(expensesSheet, "A1", "D1", headerStyle)
	_ = f.SetCellStyle(expensesSheet, "B2", fmt.Sprintf("B%d", last), amountStyle)
	_ = f.SetColWidth(expensesSheet, "A", "A", 32)
	_ = f.SetColWidth(expensesSheet, "B", "D", 16)

	if _, err := f.NewSheet(byCategory); err != nil {
		return fmt.Errorf("create category sheet: %w", err)
	}
	if err := f.SetSheetRow(byCategory, "A1", &[]any{"Category", "Total"}); err != nil {
		return fmt.Errorf("write category header: %w", err)
	}
	for i, ct := range ledger.TotalsByCategory(expenses) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{ct.Label, ct.Total.Float64()}
		if err := f.SetSheetRow(byCategory, cell, &row); err != nil {
			return fmt.Errorf("write category row %d: %w", i+2, err)
		}
	}
	_ = f.SetCellStyle(byCategory, "A1", "B1", headerStyle)
	_ = f.SetColWidth(byCategory, "A", "A", 24)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

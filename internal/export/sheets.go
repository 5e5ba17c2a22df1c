package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"trackly/internal/core"
	"trackly/internal/ledger"
)

// ValuesWriter is the slice of the Sheets API the exporter needs.
type ValuesWriter interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// SheetsExporter overwrites one sheet with the CSV rows of the ledger.
type SheetsExporter struct {
	values        ValuesWriter
	spreadsheetID string
	sheetName     string
}

func NewSheetsExporter(values ValuesWriter, spreadsheetID, sheetName string) *SheetsExporter {
	return &SheetsExporter{values: values, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func (s *SheetsExporter) Format() string { return "sheets" }

// Export ignores w; the destination is the configured sheet.
func (s *SheetsExporter) Export(ctx context.Context, _ io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return core.ErrEmptyLedger
	}

	rows := ledger.CSVRows(expenses)
	values := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		values[i] = cells
	}

	all := fmt.Sprintf("%s!A:D", s.sheetName)
	if err := s.values.Clear(ctx, s.spreadsheetID, all); err != nil {
		return fmt.Errorf("clear %s: %w", all, err)
	}
	rng := fmt.Sprintf("%s!A1:D%d", s.sheetName, len(values))
	if err := s.values.Update(ctx, s.spreadsheetID, rng, values); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Ledger exported to Google Sheets", "range", rng, "rows", len(expenses))
	return nil
}

// SheetsValues adapts *gsheet.Service to ValuesWriter.
type SheetsValues struct {
	svc *gsheet.Service
}

// NewSheetsValues builds a Sheets client from service account credentials,
// given either inline JSON or a path to the key file.
func NewSheetsValues(ctx context.Context, credentialsJSON, credentialsFile string) (*SheetsValues, error) {
	b := []byte(credentialsJSON)
	if len(b) == 0 {
		if credentialsFile == "" {
			return nil, errors.New("missing service account credentials")
		}
		var err error
		b, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	creds, err := google.CredentialsFromJSON(ctx, b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsValues{svc: svc}, nil
}

func (v *SheetsValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (v *SheetsValues) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	vr := &gsheet.ValueRange{Values: values}
	_, err := v.svc.Spreadsheets.Values.Update(spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trackly/internal/core"
	"trackly/internal/ledger"
	"trackly/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeValidationError answers 422 naming the offending field.
func writeValidationError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
}

type expenseView struct {
	core.Expense
	CategoryLabel string `json:"category_label"`
	Display       string `json:"display_amount"`
}

func newExpenseView(e core.Expense) expenseView {
	return expenseView{Expense: e, CategoryLabel: e.Category.Label(), Display: e.Amount.USD()}
}

func expenseViews(expenses []core.Expense) []expenseView {
	views := make([]expenseView, len(expenses))
	for i, e := range expenses {
		views[i] = newExpenseView(e)
	}
	return views
}

type summaryView struct {
	ledger.Summary
	Display summaryDisplay `json:"display"`
}

type summaryDisplay struct {
	Total   string `json:"total"`
	Average string `json:"average"`
	Largest string `json:"largest"`
}

func newSummaryView(s ledger.Summary) summaryView {
	return summaryView{
		Summary: s,
		Display: summaryDisplay{
			Total:   s.Total.USD(),
			Average: s.Average.USD(),
			Largest: s.Largest.USD(),
		},
	}
}

// chartPalette colours doughnut slices in order, wrapping around.
var chartPalette = []string{
	"#4361ee", "#7209b7", "#4cc9f0", "#f72585", "#ffd166",
	"#06d6a0", "#118ab2", "#ef476f", "#ff9e00", "#8ac926",
}

type chartData struct {
	Labels []string  `json:"labels"`
	Totals []float64 `json:"totals"`
	Colors []string  `json:"colors"`
}

func newChartData(totals []ledger.CategoryTotal) chartData {
	c := chartData{
		Labels: make([]string, 0, len(totals)),
		Totals: make([]float64, 0, len(totals)),
		Colors: make([]string, 0, len(totals)),
	}
	for i, t := range totals {
		c.Labels = append(c.Labels, t.Label)
		c.Totals = append(c.Totals, t.Total.Float64())
		c.Colors = append(c.Colors, chartPalette[i%len(chartPalette)])
	}
	return c
}

func (s *Server) requestLogger(r *http.Request) *log.Logger {
	return log.FromContext(r.Context())
}

package http

import (
	"net/http"
	"time"

	"trackly/internal/core"
	"trackly/internal/log"
	"trackly/internal/preferences"
)

type categoryOption struct {
	Code  core.Category `json:"code"`
	Label string        `json:"label"`
}

func categoryOptions() []categoryOption {
	cats := core.Categories()
	opts := make([]categoryOption, len(cats))
	for i, c := range cats {
		opts[i] = categoryOption{Code: c, Label: c.Label()}
	}
	return opts
}

type indexPage struct {
	Theme         preferences.Theme
	Today         string
	Categories    []categoryOption
	Expenses      []expenseView
	Summary       summaryView
	SheetsEnabled bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	l := s.svc.Ledger()
	page := indexPage{
		Theme:         s.theme.Load(r.Context()),
		Today:         core.DateOf(s.now()).String(),
		Categories:    categoryOptions(),
		Expenses:      expenseViews(l.SortedByDateDesc()),
		Summary:       newSummaryView(l.Summary()),
		SheetsEnabled: s.sheets != nil,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", page); err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Failed to render index", log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the page can be rendered and the ledger is open.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.templates == nil || s.templates.Lookup("index.html") == nil {
		checks["templates"] = "failed: index template not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}
	checks["ledger"] = map[string]any{"status": "ok", "expenses": s.svc.Ledger().Len()}
	if s.sheets != nil {
		checks["sheets_export"] = "configured"
	} else {
		checks["sheets_export"] = "not_configured"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoryOptions())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSummaryView(s.svc.Ledger().Summary()))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newChartData(s.svc.Ledger().CategoryTotals()))
}


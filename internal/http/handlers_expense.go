package http

import (
	"net/http"

	"trackly/internal/core"
	"trackly/internal/ledger"
	"trackly/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, expenseViews(s.svc.Ledger().SortedByDateDesc()))
}

// handleCreateExpense accepts a JSON object or a form body.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := s.createExpense(r, p.ExpenseInput())
	if err != nil {
		if core.IsValidation(err) {
			writeValidationError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "could not record expense")
		return
	}
	writeJSON(w, http.StatusCreated, newExpenseView(e))
}

func (s *Server) handleCreateExpenseForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := ledger.Input{
		Title:    sanitizeInput(r.PostForm.Get("title")),
		Amount:   sanitizeInput(r.PostForm.Get("amount")),
		Category: sanitizeInput(r.PostForm.Get("category")),
		Date:     sanitizeInput(r.PostForm.Get("date")),
	}
	if _, err := s.createExpense(r, in); err != nil {
		code := http.StatusInternalServerError
		if core.IsValidation(err) {
			code = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), code)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) createExpense(r *http.Request, in ledger.Input) (core.Expense, error) {
	e, err := s.svc.CreateExpense(r.Context(), in)
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Expense rejected",
			log.FieldOperation, log.OpCreate,
			log.FieldError, err)
		return core.Expense{}, err
	}
	return e, nil
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.svc.DeleteExpense(r.Context(), id) {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpenseForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.svc.DeleteExpense(r.Context(), id) {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

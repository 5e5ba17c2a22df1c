package http

import (
	"net/http"

	"trackly/internal/log"
	"trackly/internal/preferences"
)

type themeBody struct {
	Theme preferences.Theme `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.theme.Load(r.Context())})
}

// handleToggleTheme answers with the new theme even if saving it failed.
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.toggleTheme(r)})
}

func (s *Server) handleToggleThemeForm(w http.ResponseWriter, r *http.Request) {
	s.toggleTheme(r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) toggleTheme(r *http.Request) preferences.Theme {
	next, err := s.theme.Toggle(r.Context())
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Failed to persist theme",
			log.FieldOperation, log.OpTheme,
			log.FieldError, err)
	}
	return next
}

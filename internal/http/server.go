// Package http serves the trackly web page and its JSON API.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"trackly/internal/log"
	"trackly/internal/middleware/security"
	"trackly/internal/preferences"
	"trackly/internal/services"
	appweb "trackly/web"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators a Server needs. Sheets is nil when Google
// Sheets export is not configured.
type Deps struct {
	Service *services.ExpenseService
	Theme   *preferences.ThemeStore
	Sheets  services.Exporter
	Logger  *log.Logger
	Now     func() time.Time
}

type Server struct {
	http.Server
	templates *template.Template
	svc       *services.ExpenseService
	theme     *preferences.ThemeStore
	sheets    services.Exporter
	logger    *log.Logger
	now       func() time.Time
	started   time.Time
}

func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Service == nil || deps.Theme == nil {
		return nil, fmt.Errorf("expense service and theme store are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	tmpl, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	s := &Server{
		templates: tmpl,
		svc:       deps.Service,
		theme:     deps.Theme,
		sheets:    deps.Sheets,
		logger:    logger,
		now:       now,
		started:   now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /static/", security.StaticAssets(3600)(http.StripPrefix("/static/", http.FileServerFS(static))))

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/chart", s.handleChart)

	// Plain form fallbacks for the page when scripts are disabled.
	mux.HandleFunc("POST /expenses", s.handleCreateExpenseForm)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleDeleteExpenseForm)
	mux.HandleFunc("POST /theme/toggle", s.handleToggleThemeForm)

	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("POST /export/sheets", s.handleExportSheets)

	mux.HandleFunc("GET /api/theme", s.handleGetTheme)
	mux.HandleFunc("POST /api/theme/toggle", s.handleToggleTheme)

	s.Addr = addr
	s.Handler = log.Middleware(logger)(security.Headers(security.DefaultHeadersConfig())(limitBody(mux)))
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 15 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s, nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
	return s.Server.Shutdown(ctx)
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

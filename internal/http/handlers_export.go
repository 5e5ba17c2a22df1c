package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"trackly/internal/core"
	"trackly/internal/export"
	"trackly/internal/log"
	"trackly/internal/services"
)

type downloadExporter interface {
	services.Exporter
	ContentType() string
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, export.CSV{})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.download(w, r, export.XLSX{})
}

// download renders into memory first so a failed export never leaves a
// half-written attachment behind.
func (s *Server) download(w http.ResponseWriter, r *http.Request, exp downloadExporter) {
	var buf bytes.Buffer
	if err := s.svc.Export(r.Context(), &buf, exp); err != nil {
		s.exportFailed(w, r, exp.Format(), err)
		return
	}

	filename := export.Filename(s.now(), exp.Format())
	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if s.sheets == nil {
		writeError(w, http.StatusNotFound, "Google Sheets export is not configured")
		return
	}
	if err := s.svc.Export(r.Context(), io.Discard, s.sheets); err != nil {
		s.exportFailed(w, r, s.sheets.Format(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "exported",
		"rows":   s.svc.Ledger().Len(),
	})
}

func (s *Server) exportFailed(w http.ResponseWriter, r *http.Request, format string, err error) {
	if errors.Is(err, core.ErrEmptyLedger) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.requestLogger(r).ErrorContext(r.Context(), "Export failed",
		log.FieldOperation, log.OpExport,
		"format", format,
		log.FieldError, err)
	code := http.StatusInternalServerError
	if format == "sheets" {
		code = http.StatusBadGateway
	}
	writeError(w, code, "export failed")
}

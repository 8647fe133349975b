package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/meetday/internal/ingest"
	"github.com/google/uuid"
)

// maxSheetBytes bounds an uploaded sheet.
const maxSheetBytes = 10 << 20

func (s *Server) handleSheetIngest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("competition"))
	if err != nil {
		badRequest(w, "competition parameter must be a competition ID")
		return
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "sheet"
	}

	start := time.Now()
	result, err := s.sheet.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxSheetBytes), id)
	s.logImport(id, source, result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.db.QueryImportLogs(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// logImport records an ingest's result to the import_logs table.
func (s *Server) logImport(competitionID uuid.UUID, source string, result *ingest.Result, importErr error, durationMs int) {
	if s.db == nil {
		return
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	entry := ingest.ImportLog(competitionID, source, result, importErr, durationMs)
	if _, err := s.db.InsertImportLog(ctx, entry); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for import logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}

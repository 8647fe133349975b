package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/meetday/internal/ingest/sheet"
	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	live   *live.Service
	sheet  *sheet.Provider
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, svc *live.Service, sheetProvider *sheet.Provider, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		live:   svc,
		sheet:  sheetProvider,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)

		// Reads are open; tsnet or the network handles access.
		r.Get("/competitions", s.handleListCompetitions)
		r.Get("/competitions/{id}/stats", s.handleCompetitionStats)
		r.Get("/competitions/{id}/participants", s.handleListParticipants)
		r.Get("/competitions/{id}/attempts", s.handleListAttempts)
		r.Get("/competitions/{id}/roster", s.handleRoster)
		r.Get("/competitions/{id}/turn", s.handleTurn)
		r.Get("/competitions/{id}/standings", s.handleStandings)
		r.Get("/competitions/{id}/podium/{lift}", s.handlePodium)
		r.Get("/participants/{id}/plans", s.handleListPlans)
		r.Get("/import-logs", s.handleImportLogs)

		// Writes (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/competitions", s.handleCreateCompetition)
			r.Patch("/competitions/{id}", s.handleUpdateCompetition)
			r.Delete("/competitions/{id}", s.handleDeleteCompetition)
			r.Post("/competitions/{id}/participants", s.handleCreateParticipant)
			r.Patch("/participants/{id}", s.handleUpdateParticipant)
			r.Delete("/participants/{id}", s.handleDeleteParticipant)
			r.Put("/participants/{id}/plans", s.handleUpsertPlan)
			r.Post("/participants/{id}/attempts", s.handleCreateAttempt)
			r.Put("/attempts/{id}", s.handleUpdateAttempt)
			r.Post("/competitions/{id}/turn/result", s.handleRecordResult)
			r.Post("/ingest/sheet", s.handleSheetIngest)
		})
	})
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp behind the API key.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

package server

import (
	"net/http"
	"strconv"

	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	roster, err := s.live.Roster(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	turn, err := s.live.CurrentTurn(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	var req live.ResultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := s.live.RecordResult(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	st, err := s.live.Standings(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePodium(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	lift, err := models.ParseLift(chi.URLParam(r, "lift"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	n := live.PodiumSize
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			badRequest(w, "n must be a positive integer")
			return
		}
		n = parsed
	}
	podium, err := s.live.Podium(r.Context(), id, lift, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, podium)
}

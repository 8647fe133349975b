package server

import (
	"net/http"
	"strings"

	"github.com/claude/meetday/internal/models"
)

type competitionRequest struct {
	Name     *string `json:"name"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
	Phase    *string `json:"phase"`
}

// apply copies the set fields onto c and validates the result.
func (req competitionRequest) apply(c *models.CompetitionRow) string {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		c.Date = *req.Date
	}
	if req.Time != nil {
		c.Time = *req.Time
	}
	if req.Location != nil {
		c.Location = *req.Location
	}
	if req.Phase != nil {
		c.Phase = *req.Phase
	}
	if c.Name == "" {
		return "name is required"
	}
	if c.Phase != "" && !models.ValidPhase(c.Phase) {
		return "phase must be setup, live or finished"
	}
	return ""
}

func (s *Server) handleListCompetitions(w http.ResponseWriter, r *http.Request) {
	comps, err := s.db.ListCompetitions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}

func (s *Server) handleCreateCompetition(w http.ResponseWriter, r *http.Request) {
	var req competitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var c models.CompetitionRow
	if msg := req.apply(&c); msg != "" {
		badRequest(w, msg)
		return
	}
	created, err := s.db.CreateCompetition(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCompetition(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	var req competitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.db.GetCompetition(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msg := req.apply(&c); msg != "" {
		badRequest(w, msg)
		return
	}
	updated, err := s.db.UpdateCompetition(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCompetition(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteCompetition(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.live.ForgetCompetition(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

type participantRequest struct {
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	BodyWeight *float64 `json:"body_weight"`
	Height     *float64 `json:"height"`
	Age        *int     `json:"age"`
	Squat      *bool    `json:"squat"`
	Bench      *bool    `json:"bench"`
	Deadlift   *bool    `json:"deadlift"`
}

func (req participantRequest) apply(p *models.ParticipantRow) string {
	if req.FirstName != nil {
		p.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		p.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.BodyWeight != nil {
		p.BodyWeight = *req.BodyWeight
	}
	if req.Height != nil {
		p.Height = req.Height
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.Squat != nil {
		p.Squat = *req.Squat
	}
	if req.Bench != nil {
		p.Bench = *req.Bench
	}
	if req.Deadlift != nil {
		p.Deadlift = *req.Deadlift
	}
	switch {
	case p.FirstName == "":
		return "first_name is required"
	case p.BodyWeight <= 0:
		return "body_weight must be positive"
	case p.Age != nil && *p.Age <= 0:
		return "age must be positive"
	case p.Height != nil && *p.Height <= 0:
		return "height must be positive"
	}
	return ""
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	if _, err := s.db.GetCompetition(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	ps, err := s.db.ListParticipants(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	var req participantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// New participants enter all three lifts unless told otherwise.
	p := models.ParticipantRow{CompetitionID: id, Squat: true, Bench: true, Deadlift: true}
	if msg := req.apply(&p); msg != "" {
		badRequest(w, msg)
		return
	}
	created, err := s.db.CreateParticipant(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "participant")
	if !ok {
		return
	}
	var req participantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.db.GetParticipant(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msg := req.apply(&p); msg != "" {
		badRequest(w, msg)
		return
	}
	updated, err := s.db.UpdateParticipant(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "participant")
	if !ok {
		return
	}
	if err := s.db.DeleteParticipant(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompetitionStats(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	stats, err := s.db.GetCompetitionStats(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

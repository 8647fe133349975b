package server

import (
	"fmt"
	"net/http"

	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/storage"
)

type planRequest struct {
	Lift    *models.Lift `json:"lift"`
	Weights []float64    `json:"weights"`
}

// weights fills a plan forward to three weights and validates them.
func (req planRequest) weights() ([3]float64, error) {
	var out [3]float64
	if len(req.Weights) == 0 || len(req.Weights) > len(out) {
		return out, fmt.Errorf("weights must hold 1 to %d values", len(out))
	}
	for i := range out {
		if i < len(req.Weights) {
			out[i] = req.Weights[i]
		} else {
			out[i] = out[i-1]
		}
	}
	return out, models.CheckWeights(out[:]...)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "participant")
	if !ok {
		return
	}
	if _, err := s.db.GetParticipant(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	plans, err := s.db.ListPlans(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleUpsertPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "participant")
	if !ok {
		return
	}
	var req planRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lift == nil {
		badRequest(w, "lift is required")
		return
	}
	lift := *req.Lift
	weights, err := req.weights()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	p, err := s.db.GetParticipant(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !p.Contests(lift) {
		badRequest(w, fmt.Sprintf("participant is not entered in %s", lift))
		return
	}

	plan, err := s.db.UpsertPlan(r.Context(), models.LiftPlanRow{ParticipantID: id, Lift: lift, Weights: weights})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	id, ok := competitionParam(w, r)
	if !ok {
		return
	}
	if _, err := s.db.GetCompetition(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	attempts, err := s.db.ListCompetitionAttempts(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

type attemptRequest struct {
	Lift     *models.Lift   `json:"lift"`
	Weight   *float64       `json:"weight"`
	Result   *models.Result `json:"result"`
	VideoURL *string        `json:"video_url"`
}

// handleCreateAttempt records the participant's next attempt in a lift. The
// weight defaults to the projected weight for that slot.
func (s *Server) handleCreateAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "participant")
	if !ok {
		return
	}
	var req attemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Lift == nil {
		badRequest(w, "lift is required")
		return
	}
	lift := *req.Lift

	p, err := s.db.GetParticipant(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !p.Contests(lift) {
		badRequest(w, fmt.Sprintf("participant is not entered in %s", lift))
		return
	}

	a := models.AttemptRow{ParticipantID: id, Lift: lift, Result: models.ResultPending, VideoURL: req.VideoURL}
	if req.Result != nil {
		a.Result = *req.Result
	}
	if req.Weight != nil {
		a.Weight = *req.Weight
	} else {
		projected, err := s.projectedNext(r, p, lift)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		a.Weight = projected
	}
	if err := models.CheckWeights(a.Weight); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.db.CreateAttempt(r.Context(), a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// projectedNext returns the projected weight of the participant's first
// unrecorded attempt in a lift.
func (s *Server) projectedNext(r *http.Request, p models.ParticipantRow, lift models.Lift) (float64, error) {
	roster, err := s.live.Roster(r.Context(), p.CompetitionID)
	if err != nil {
		return 0, err
	}
	for _, l := range roster {
		if l.ID != p.ID {
			continue
		}
		for _, a := range l.Attempts[lift] {
			if !a.Recorded {
				return a.Weight, nil
			}
		}
	}
	return 0, fmt.Errorf("participant %d %s: %w", p.ID, lift, storage.ErrNoAttemptsLeft)
}

func (s *Server) handleUpdateAttempt(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "attempt")
	if !ok {
		return
	}
	var req attemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, err := s.db.GetAttempt(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Weight != nil {
		a.Weight = *req.Weight
	}
	if req.Result != nil {
		a.Result = *req.Result
	}
	if req.VideoURL != nil {
		a.VideoURL = req.VideoURL
	}
	if err := models.CheckWeights(a.Weight); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.db.UpdateAttempt(r.Context(), a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// CompetitionRow is a row of the competitions table.
type CompetitionRow struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Location  string    `json:"location"`
	Phase     string    `json:"phase"`
	CreatedAt time.Time `json:"created_at"`
}

// Competition phases.
const (
	PhaseSetup    = "setup"
	PhaseLive     = "live"
	PhaseFinished = "finished"
)

// ValidPhase reports whether s is a known competition phase.
func ValidPhase(s string) bool {
	switch s {
	case PhaseSetup, PhaseLive, PhaseFinished:
		return true
	}
	return false
}

// ParticipantRow is a row of the participants table.
type ParticipantRow struct {
	ID            int       `json:"id"`
	CompetitionID uuid.UUID `json:"competition_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	BodyWeight    float64   `json:"body_weight"`
	Height        *float64  `json:"height,omitempty"`
	Age           *int      `json:"age,omitempty"`
	Squat         bool      `json:"squat"`
	Bench         bool      `json:"bench"`
	Deadlift      bool      `json:"deadlift"`
}

// Name returns the display name.
func (p ParticipantRow) Name() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Contests reports whether the participant opted into the lift.
func (p ParticipantRow) Contests(l Lift) bool {
	switch l {
	case LiftSquat:
		return p.Squat
	case LiftBench:
		return p.Bench
	case LiftDeadlift:
		return p.Deadlift
	}
	panic("models: unknown lift")
}

// LiftPlanRow is a row of the lift_plans table: the three declared weights
// for one participant and lift.
type LiftPlanRow struct {
	ParticipantID int        `json:"participant_id"`
	Lift          Lift       `json:"lift"`
	Weights       [3]float64 `json:"weights"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AttemptRow is a row of the attempts table.
type AttemptRow struct {
	ID            int       `json:"id"`
	ParticipantID int       `json:"participant_id"`
	Lift          Lift      `json:"lift"`
	Number        int       `json:"number"`
	Weight        float64   `json:"weight"`
	Result        Result    `json:"result"`
	VideoURL      *string   `json:"video_url,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

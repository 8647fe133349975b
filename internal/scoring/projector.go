// Package scoring derives the live state of a powerlifting meet from its
// persisted plans and attempts: the projected weight and status of every
// attempt, whose turn it is, and the standings.
//
// Everything here is a pure function of its inputs. Callers re-run it after
// every write instead of keeping derived state around.
package scoring

import "github.com/claude/meetday/internal/models"

// MinIncrement is the smallest jump allowed after a successful attempt.
const MinIncrement = models.WeightStep

// Status is the projected status of an attempt slot.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

func statusOf(r models.Result) Status {
	switch r {
	case models.ResultSuccess:
		return StatusSuccess
	case models.ResultFailure:
		return StatusFailure
	default:
		return StatusPending
	}
}

// Plan holds the declared weights for attempts 1..n of one lift. A plan may
// declare fewer than three weights; later slots reuse the last one.
type Plan struct {
	Weights []float64
}

// PlanFromRow converts a stored plan.
func PlanFromRow(row models.LiftPlanRow) *Plan {
	return &Plan{Weights: row.Weights[:]}
}

func (p *Plan) weight(slot int) float64 {
	if p == nil || len(p.Weights) == 0 {
		return 0
	}
	if slot > len(p.Weights) {
		return p.Weights[len(p.Weights)-1]
	}
	return p.Weights[slot-1]
}

// Recorded is an attempt that exists in storage.
type Recorded struct {
	ID     int
	Weight float64
	Result models.Result
}

// Attempt is one projected attempt slot.
type Attempt struct {
	Number   int     `json:"number"`
	Weight   float64 `json:"weight"`
	Status   Status  `json:"status"`
	Recorded bool    `json:"recorded"`
	ID       int     `json:"id,omitempty"`
}

// Project resolves the three attempts of one lift. Recorded attempts are
// returned as stored. Unrecorded attempts take the planned weight for their
// slot, replaced by the previous weight after a failure and raised to at
// least previous+MinIncrement after a success.
//
// Weights are not validated here; whatever was recorded is reported.
func Project(plan *Plan, recorded map[int]Recorded) [models.AttemptsPerLift]Attempt {
	var out [models.AttemptsPerLift]Attempt
	var prev *Attempt

	for i := range out {
		slot := i + 1
		if r, ok := recorded[slot]; ok {
			out[i] = Attempt{
				Number:   slot,
				Weight:   r.Weight,
				Status:   statusOf(r.Result),
				Recorded: true,
				ID:       r.ID,
			}
			prev = &out[i]
			continue
		}

		weight := plan.weight(slot)
		if prev != nil {
			switch prev.Status {
			case StatusFailure:
				weight = prev.Weight
			case StatusSuccess:
				weight = max(weight, prev.Weight+MinIncrement)
			}
		}
		out[i] = Attempt{Number: slot, Weight: weight, Status: StatusPending}
		prev = &out[i]
	}
	return out
}

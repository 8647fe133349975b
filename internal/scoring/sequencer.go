package scoring

import (
	"cmp"
	"slices"

	"github.com/claude/meetday/internal/models"
)

// Slot is one lifter's place in the running order of a round.
type Slot struct {
	LifterID   int     `json:"lifter_id"`
	Name       string  `json:"name"`
	BodyWeight float64 `json:"body_weight"`
	Attempt    Attempt `json:"attempt"`
}

// Order returns the running order for one lift and round: lifters with a
// non-zero weight for that attempt, lightest bar first, then lightest
// lifter, then lowest id.
func Order(roster []Lifter, lift models.Lift, round int) []Slot {
	slots := make([]Slot, 0, len(roster))
	for _, l := range roster {
		a := l.Attempt(lift, round)
		if a.Weight <= 0 {
			continue
		}
		slots = append(slots, Slot{LifterID: l.ID, Name: l.Name, BodyWeight: l.BodyWeight, Attempt: a})
	}
	slices.SortStableFunc(slots, func(a, b Slot) int {
		if c := cmp.Compare(a.Attempt.Weight, b.Attempt.Weight); c != 0 {
			return c
		}
		if c := cmp.Compare(a.BodyWeight, b.BodyWeight); c != 0 {
			return c
		}
		return cmp.Compare(a.LifterID, b.LifterID)
	})
	return slots
}

// Turn identifies the attempt on the platform.
type Turn struct {
	Lift     models.Lift `json:"lift"`
	Round    int         `json:"round"`
	Position int         `json:"position"`
	LifterID int         `json:"lifter_id,omitempty"`
	Name     string      `json:"name,omitempty"`
	Weight   float64     `json:"weight,omitempty"`
	Finished bool        `json:"finished"`
}

// FinishedTurn is reported once no pending attempt remains: the last round
// of the last lift, flagged finished.
func FinishedTurn() Turn {
	return Turn{
		Lift:     models.LiftOrder[models.NumLifts-1],
		Round:    models.AttemptsPerLift,
		Finished: true,
	}
}

// Current scans lifts in meet order and rounds 1..3 for the first pending
// attempt in running order.
func Current(roster []Lifter) Turn {
	for _, lift := range models.LiftOrder {
		for round := 1; round <= models.AttemptsPerLift; round++ {
			for i, s := range Order(roster, lift, round) {
				if s.Attempt.Status != StatusPending {
					continue
				}
				return Turn{
					Lift:     lift,
					Round:    round,
					Position: i,
					LifterID: s.LifterID,
					Name:     s.Name,
					Weight:   s.Attempt.Weight,
				}
			}
		}
	}
	return FinishedTurn()
}

// Transition is what the platform announces between two turns.
type Transition string

const (
	TransitionNone       Transition = "none"
	TransitionRound      Transition = "round"
	TransitionDiscipline Transition = "discipline"
	TransitionFinished   Transition = "finished"
)

// Step is the turn that follows a recorded result.
type Step struct {
	Turn       Turn       `json:"turn"`
	Transition Transition `json:"transition"`
	// CompletedLift and CompletedRound name what just closed when Transition
	// is not TransitionNone.
	CompletedLift  models.Lift `json:"completed_lift"`
	CompletedRound int         `json:"completed_round"`
}

// Next re-derives the current turn from the roster and classifies the move
// from prev. A turn that moved backwards (an admin reopened an earlier
// attempt) is reported without a transition.
func Next(roster []Lifter, prev Turn) Step {
	cur := Current(roster)
	step := Step{Turn: cur, Transition: TransitionNone}
	if prev.Finished {
		return step
	}

	switch {
	case cur.Finished:
		step.Transition = TransitionFinished
	case liftIndex(cur.Lift) > liftIndex(prev.Lift):
		step.Transition = TransitionDiscipline
	case cur.Lift == prev.Lift && cur.Round > prev.Round:
		step.Transition = TransitionRound
	default:
		return step
	}
	step.CompletedLift = prev.Lift
	step.CompletedRound = prev.Round
	return step
}

func liftIndex(l models.Lift) int {
	for i, o := range models.LiftOrder {
		if o == l {
			return i
		}
	}
	panic("scoring: lift not in order")
}

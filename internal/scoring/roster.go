package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/claude/meetday/internal/models"
)

// TotalPolicy decides how a lifter's total is computed.
type TotalPolicy string

const (
	// TotalSum adds the best of every lift, counting a lift without a success as 0.
	TotalSum TotalPolicy = "sum"
	// TotalBombOut zeroes the total when any contested lift has no success.
	TotalBombOut TotalPolicy = "bombout"
)

// ParseTotalPolicy parses a config value. Empty means TotalBombOut.
func ParseTotalPolicy(s string) (TotalPolicy, error) {
	switch TotalPolicy(s) {
	case "", TotalBombOut:
		return TotalBombOut, nil
	case TotalSum:
		return TotalSum, nil
	}
	return "", fmt.Errorf("unknown total policy %q", s)
}

// Lifter is one participant with all nine projected attempts.
type Lifter struct {
	ID         int
	Name       string
	BodyWeight float64
	Category   models.Category
	Contested  [models.NumLifts]bool
	Attempts   [models.NumLifts][models.AttemptsPerLift]Attempt
	Best       [models.NumLifts]float64
	Total      float64
}

// Attempt returns the projected attempt for a lift and a 1-based round.
func (l Lifter) Attempt(lift models.Lift, round int) Attempt {
	return l.Attempts[lift][round-1]
}

type lifterJSON struct {
	ID         int                       `json:"id"`
	Name       string                    `json:"name"`
	BodyWeight float64                   `json:"body_weight"`
	Category   models.Category           `json:"category"`
	Attempts   map[models.Lift][]Attempt `json:"attempts"`
	Best       map[models.Lift]float64   `json:"best"`
	Contested  map[models.Lift]bool      `json:"contested"`
	Total      float64                   `json:"total"`
}

func (l Lifter) MarshalJSON() ([]byte, error) {
	v := lifterJSON{
		ID:         l.ID,
		Name:       l.Name,
		BodyWeight: l.BodyWeight,
		Category:   l.Category,
		Attempts:   make(map[models.Lift][]Attempt, models.NumLifts),
		Best:       make(map[models.Lift]float64, models.NumLifts),
		Contested:  make(map[models.Lift]bool, models.NumLifts),
		Total:      l.Total,
	}
	for _, lift := range models.LiftOrder {
		v.Attempts[lift] = l.Attempts[lift][:]
		v.Best[lift] = l.Best[lift]
		v.Contested[lift] = l.Contested[lift]
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (l *Lifter) UnmarshalJSON(b []byte) error {
	var v lifterJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = Lifter{ID: v.ID, Name: v.Name, BodyWeight: v.BodyWeight, Category: v.Category, Total: v.Total}
	for _, lift := range models.LiftOrder {
		copy(l.Attempts[lift][:], v.Attempts[lift])
		l.Best[lift] = v.Best[lift]
		l.Contested[lift] = v.Contested[lift]
	}
	return nil
}

// Snapshot is everything needed to derive a meet's state.
type Snapshot struct {
	Participants []models.ParticipantRow
	Plans        []models.LiftPlanRow
	Attempts     []models.AttemptRow
}

type liftKey struct {
	participant int
	lift        models.Lift
}

// Assemble projects every participant's attempts and fills bests, totals and
// categories. It never mutates the snapshot.
//
// Attempt rows numbered outside 1..3 are skipped and returned so the caller
// can report them.
func Assemble(snap Snapshot, policy TotalPolicy) ([]Lifter, []models.AttemptRow) {
	plans := make(map[liftKey]*Plan, len(snap.Plans))
	for _, p := range snap.Plans {
		plans[liftKey{p.ParticipantID, p.Lift}] = PlanFromRow(p)
	}

	var skipped []models.AttemptRow
	recorded := make(map[liftKey]map[int]Recorded)
	for _, a := range snap.Attempts {
		if a.Number < 1 || a.Number > models.AttemptsPerLift {
			skipped = append(skipped, a)
			continue
		}
		k := liftKey{a.ParticipantID, a.Lift}
		if recorded[k] == nil {
			recorded[k] = make(map[int]Recorded, models.AttemptsPerLift)
		}
		recorded[k][a.Number] = Recorded{ID: a.ID, Weight: a.Weight, Result: a.Result}
	}

	roster := make([]Lifter, 0, len(snap.Participants))
	for _, p := range snap.Participants {
		l := Lifter{
			ID:         p.ID,
			Name:       p.Name(),
			BodyWeight: p.BodyWeight,
			Category:   models.CategoryFor(p.BodyWeight),
		}
		for _, lift := range models.LiftOrder {
			if !p.Contests(lift) {
				l.Attempts[lift] = Project(nil, nil)
				continue
			}
			l.Contested[lift] = true
			k := liftKey{p.ID, lift}
			l.Attempts[lift] = Project(plans[k], recorded[k])
			l.Best[lift] = BestOf(l.Attempts[lift])
		}
		l.Total = total(l, policy)
		roster = append(roster, l)
	}
	return roster, skipped
}

// BestOf returns the heaviest successful attempt, or 0.
func BestOf(attempts [models.AttemptsPerLift]Attempt) float64 {
	var best float64
	for _, a := range attempts {
		if a.Status == StatusSuccess && a.Weight > best {
			best = a.Weight
		}
	}
	return best
}

func total(l Lifter, policy TotalPolicy) float64 {
	var sum float64
	for _, lift := range models.LiftOrder {
		if policy == TotalBombOut && l.Contested[lift] && l.Best[lift] == 0 {
			return 0
		}
		sum += l.Best[lift]
	}
	return sum
}

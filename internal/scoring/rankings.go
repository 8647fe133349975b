package scoring

import (
	"cmp"
	"slices"

	"github.com/claude/meetday/internal/models"
)

// Standing is a lifter's place in a ranking.
type Standing struct {
	Rank       int                     `json:"rank"`
	LifterID   int                     `json:"lifter_id"`
	Name       string                  `json:"name"`
	Category   models.Category         `json:"category"`
	BodyWeight float64                 `json:"body_weight"`
	Best       map[models.Lift]float64 `json:"best"`
	Total      float64                 `json:"total"`
}

// CategoryStandings is the ranking within one weight class.
type CategoryStandings struct {
	Category  models.Category `json:"category"`
	Standings []Standing      `json:"standings"`
}

func standingOf(l Lifter) Standing {
	s := Standing{
		LifterID:   l.ID,
		Name:       l.Name,
		Category:   l.Category,
		BodyWeight: l.BodyWeight,
		Best:       make(map[models.Lift]float64, models.NumLifts),
		Total:      l.Total,
	}
	for _, lift := range models.LiftOrder {
		s.Best[lift] = l.Best[lift]
	}
	return s
}

// rank sorts by score descending; the lighter lifter wins a tie.
func rank(roster []Lifter, score func(Lifter) float64) []Standing {
	sorted := slices.Clone(roster)
	slices.SortStableFunc(sorted, func(a, b Lifter) int {
		if c := cmp.Compare(score(b), score(a)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.BodyWeight, b.BodyWeight); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	out := make([]Standing, len(sorted))
	for i, l := range sorted {
		out[i] = standingOf(l)
		out[i].Rank = i + 1
	}
	return out
}

// Standings ranks every lifter by total.
func Standings(roster []Lifter) []Standing {
	return rank(roster, func(l Lifter) float64 { return l.Total })
}

// ByCategory ranks lifters by total within each weight class. Classes
// without lifters are omitted.
func ByCategory(roster []Lifter) []CategoryStandings {
	var out []CategoryStandings
	for _, c := range models.Categories() {
		var members []Lifter
		for _, l := range roster {
			if l.Category == c {
				members = append(members, l)
			}
		}
		if len(members) == 0 {
			continue
		}
		out = append(out, CategoryStandings{Category: c, Standings: Standings(members)})
	}
	return out
}

// Podium returns up to n lifters with a successful attempt in the lift,
// best first.
func Podium(roster []Lifter, lift models.Lift, n int) []Standing {
	var scored []Lifter
	for _, l := range roster {
		if l.Best[lift] > 0 {
			scored = append(scored, l)
		}
	}
	ranked := rank(scored, func(l Lifter) float64 { return l.Best[lift] })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

package scoring

import (
	"encoding/json"
	"testing"

	"github.com/claude/meetday/internal/models"
)

func participant(id int, bw float64) models.ParticipantRow {
	return models.ParticipantRow{
		ID:         id,
		FirstName:  "Lifter",
		LastName:   string(rune('A' + id - 1)),
		BodyWeight: bw,
		Squat:      true,
		Bench:      true,
		Deadlift:   true,
	}
}

func planRow(id int, lift models.Lift, w1, w2, w3 float64) models.LiftPlanRow {
	return models.LiftPlanRow{ParticipantID: id, Lift: lift, Weights: [3]float64{w1, w2, w3}}
}

func attemptRow(id int, lift models.Lift, n int, w float64, r models.Result) models.AttemptRow {
	return models.AttemptRow{ParticipantID: id, Lift: lift, Number: n, Weight: w, Result: r}
}

// meet builds a two-lifter snapshot where A makes every lift and B bombs the
// bench.
func meet() Snapshot {
	snap := Snapshot{
		Participants: []models.ParticipantRow{participant(1, 82), participant(2, 95)},
	}
	for _, lift := range models.LiftOrder {
		snap.Plans = append(snap.Plans,
			planRow(1, lift, 100, 105, 110),
			planRow(2, lift, 120, 125, 130))
		snap.Attempts = append(snap.Attempts,
			attemptRow(1, lift, 1, 100, models.ResultSuccess),
			attemptRow(1, lift, 2, 105, models.ResultSuccess),
			attemptRow(1, lift, 3, 110, models.ResultFailure))
		r := models.ResultSuccess
		if lift == models.LiftBench {
			r = models.ResultFailure
		}
		snap.Attempts = append(snap.Attempts,
			attemptRow(2, lift, 1, 120, r),
			attemptRow(2, lift, 2, 120, r),
			attemptRow(2, lift, 3, 120, r))
	}
	return snap
}

// TestAssembleBestsAndTotals verifies bests and both total policies.
func TestAssembleBestsAndTotals(t *testing.T) {
	roster, skipped := Assemble(meet(), TotalBombOut)
	if len(skipped) != 0 {
		t.Fatalf("skipped = %v, want none", skipped)
	}
	if len(roster) != 2 {
		t.Fatalf("roster has %d lifters, want 2", len(roster))
	}
	a, b := roster[0], roster[1]
	if a.Name != "Lifter A" || a.Category != "-83kg" {
		t.Errorf("lifter A = %q %q", a.Name, a.Category)
	}
	for _, lift := range models.LiftOrder {
		if a.Best[lift] != 105 {
			t.Errorf("A best %v = %g, want 105", lift, a.Best[lift])
		}
	}
	if a.Total != 315 {
		t.Errorf("A total = %g, want 315", a.Total)
	}
	if b.Best[models.LiftBench] != 0 || b.Total != 0 {
		t.Errorf("B bench best = %g total = %g, want bomb-out 0/0", b.Best[models.LiftBench], b.Total)
	}

	roster, _ = Assemble(meet(), TotalSum)
	if roster[1].Total != 240 {
		t.Errorf("B sum total = %g, want 240", roster[1].Total)
	}
}

// TestAssembleMissingPlan verifies a lifter without plans is listed with zero
// attempts and never spotlighted.
func TestAssembleMissingPlan(t *testing.T) {
	snap := Snapshot{Participants: []models.ParticipantRow{participant(1, 70), participant(2, 70)}}
	snap.Plans = []models.LiftPlanRow{planRow(2, models.LiftSquat, 100, 105, 110)}

	roster, _ := Assemble(snap, TotalSum)
	if len(roster) != 2 {
		t.Fatalf("roster has %d lifters, want 2", len(roster))
	}
	for _, a := range roster[0].Attempts[models.LiftSquat] {
		if a.Weight != 0 || a.Status != StatusPending {
			t.Errorf("unplanned attempt = %+v, want 0 pending", a)
		}
	}
	if turn := Current(roster); turn.LifterID != 2 {
		t.Errorf("turn lifter = %d, want 2", turn.LifterID)
	}
}

// TestAssembleOptOut verifies a lift the participant skipped has zero
// attempts even when a plan exists, and does not bomb the total.
func TestAssembleOptOut(t *testing.T) {
	p := participant(1, 70)
	p.Deadlift = false
	snap := Snapshot{
		Participants: []models.ParticipantRow{p},
		Plans:        []models.LiftPlanRow{planRow(1, models.LiftDeadlift, 150, 160, 170)},
		Attempts: []models.AttemptRow{
			attemptRow(1, models.LiftSquat, 1, 100, models.ResultSuccess),
			attemptRow(1, models.LiftBench, 1, 60, models.ResultSuccess),
		},
	}
	roster, _ := Assemble(snap, TotalBombOut)
	l := roster[0]
	if l.Contested[models.LiftDeadlift] {
		t.Error("deadlift reported as contested")
	}
	if w := l.Attempt(models.LiftDeadlift, 1).Weight; w != 0 {
		t.Errorf("deadlift opener = %g, want 0", w)
	}
	if l.Total != 160 {
		t.Errorf("total = %g, want 160", l.Total)
	}
}

// TestAssembleSkipsOutOfRangeNumbers verifies attempt numbers outside 1..3 are
// reported instead of projected.
func TestAssembleSkipsOutOfRangeNumbers(t *testing.T) {
	snap := Snapshot{
		Participants: []models.ParticipantRow{participant(1, 70)},
		Attempts: []models.AttemptRow{
			attemptRow(1, models.LiftSquat, 0, 100, models.ResultSuccess),
			attemptRow(1, models.LiftSquat, 4, 100, models.ResultSuccess),
			attemptRow(1, models.LiftSquat, 1, 90, models.ResultSuccess),
		},
	}
	roster, skipped := Assemble(snap, TotalSum)
	if len(skipped) != 2 {
		t.Errorf("skipped %d rows, want 2", len(skipped))
	}
	if roster[0].Best[models.LiftSquat] != 90 {
		t.Errorf("squat best = %g, want 90", roster[0].Best[models.LiftSquat])
	}
}

// TestAssembleDoesNotMutate verifies the snapshot is left untouched.
func TestAssembleDoesNotMutate(t *testing.T) {
	snap := meet()
	before, _ := json.Marshal(snap)
	Assemble(snap, TotalBombOut)
	after, _ := json.Marshal(snap)
	if string(before) != string(after) {
		t.Error("snapshot changed")
	}
}

// TestLifterJSON verifies lifts are keyed by name on the wire.
func TestLifterJSON(t *testing.T) {
	roster, _ := Assemble(meet(), TotalBombOut)
	b, err := json.Marshal(roster[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v struct {
		Attempts map[string][]Attempt `json:"attempts"`
		Total    float64              `json:"total"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(v.Attempts["deadlift"]) != 3 || v.Total != 315 {
		t.Errorf("decoded = %+v", v)
	}

	var back Lifter
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal lifter: %v", err)
	}
	if back != roster[0] {
		t.Errorf("round trip = %+v, want %+v", back, roster[0])
	}
}

// TestParseTotalPolicy verifies the default and rejection of unknown values.
func TestParseTotalPolicy(t *testing.T) {
	if p, err := ParseTotalPolicy(""); err != nil || p != TotalBombOut {
		t.Errorf("empty = %q, %v", p, err)
	}
	if p, err := ParseTotalPolicy("sum"); err != nil || p != TotalSum {
		t.Errorf("sum = %q, %v", p, err)
	}
	if _, err := ParseTotalPolicy("wilks"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

// TestStandingsAndPodium verifies ranking order, category grouping and podium
// exclusion of lifters without a success.
func TestStandingsAndPodium(t *testing.T) {
	roster, _ := Assemble(meet(), TotalBombOut)

	st := Standings(roster)
	if st[0].LifterID != 1 || st[0].Rank != 1 || st[1].Rank != 2 {
		t.Errorf("standings = %+v", st)
	}

	cats := ByCategory(roster)
	if len(cats) != 2 || cats[0].Category != "-83kg" || cats[1].Category != "-105kg" {
		t.Errorf("categories = %+v", cats)
	}

	bench := Podium(roster, models.LiftBench, 3)
	if len(bench) != 1 || bench[0].LifterID != 1 {
		t.Errorf("bench podium = %+v, want only lifter 1", bench)
	}
	squat := Podium(roster, models.LiftSquat, 1)
	if len(squat) != 1 || squat[0].LifterID != 2 || squat[0].Best[models.LiftSquat] != 120 {
		t.Errorf("squat podium = %+v, want lifter 2 at 120", squat)
	}
}

// TestStandingsTieBreak verifies the lighter lifter wins an equal total.
func TestStandingsTieBreak(t *testing.T) {
	heavy := Lifter{ID: 1, BodyWeight: 90, Total: 500}
	light := Lifter{ID: 2, BodyWeight: 80, Total: 500}
	st := Standings([]Lifter{heavy, light})
	if st[0].LifterID != 2 {
		t.Errorf("winner = %d, want 2", st[0].LifterID)
	}
}

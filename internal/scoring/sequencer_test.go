package scoring

import (
	"slices"
	"testing"

	"github.com/claude/meetday/internal/models"
)

// lifter builds a roster entry with the same projected weights for every
// contested lift.
func lifter(id int, bw float64, w1, w2, w3 float64) Lifter {
	l := Lifter{ID: id, Name: "L", BodyWeight: bw, Category: models.CategoryFor(bw)}
	for _, lift := range models.LiftOrder {
		l.Contested[lift] = true
		l.Attempts[lift] = Project(plan(w1, w2, w3), nil)
	}
	return l
}

// resolve marks the attempt in a lift and round as judged.
func resolve(l *Lifter, lift models.Lift, round int, s Status) {
	a := &l.Attempts[lift][round-1]
	a.Status = s
	a.Recorded = true
}

func resolveAll(roster []Lifter) {
	for i := range roster {
		for _, lift := range models.LiftOrder {
			for round := 1; round <= models.AttemptsPerLift; round++ {
				resolve(&roster[i], lift, round, StatusSuccess)
			}
		}
	}
}

func ids(slots []Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = s.LifterID
	}
	return out
}

// TestOrderBodyWeightTieBreak verifies two lifters on the same bar are
// ordered lighter first.
func TestOrderBodyWeightTieBreak(t *testing.T) {
	roster := []Lifter{lifter(2, 85, 100, 105, 110), lifter(1, 82, 100, 105, 110)}
	got := ids(Order(roster, models.LiftSquat, 1))
	if !slices.Equal(got, []int{1, 2}) {
		t.Errorf("order = %v, want [1 2]", got)
	}

	turn := Current(roster)
	if turn.LifterID != 1 || turn.Lift != models.LiftSquat || turn.Round != 1 || turn.Position != 0 {
		t.Errorf("turn = %+v, want lifter 1 at squat round 1", turn)
	}
}

// TestOrderByWeightThenID verifies the full sort key and that the result is
// deterministic across input permutations.
func TestOrderByWeightThenID(t *testing.T) {
	roster := []Lifter{
		lifter(4, 90, 120, 125, 130),
		lifter(3, 90, 100, 105, 110),
		lifter(2, 90, 100, 105, 110),
		lifter(1, 70, 110, 115, 120),
	}
	want := []int{2, 3, 1, 4}
	if got := ids(Order(roster, models.LiftBench, 1)); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	slices.Reverse(roster)
	if got := ids(Order(roster, models.LiftBench, 1)); !slices.Equal(got, want) {
		t.Errorf("order after reversing input = %v, want %v", got, want)
	}
}

// TestOrderExcludesZeroWeight verifies lifters without a plan and lifters who
// skip a lift are not in the running order.
func TestOrderExcludesZeroWeight(t *testing.T) {
	noPlan := lifter(1, 80, 0, 0, 0)
	skipsBench := lifter(2, 80, 100, 105, 110)
	skipsBench.Contested[models.LiftBench] = false
	skipsBench.Attempts[models.LiftBench] = Project(nil, nil)
	full := lifter(3, 80, 100, 105, 110)

	roster := []Lifter{noPlan, skipsBench, full}
	if got := ids(Order(roster, models.LiftBench, 1)); !slices.Equal(got, []int{3}) {
		t.Errorf("bench order = %v, want [3]", got)
	}
	if got := ids(Order(roster, models.LiftSquat, 1)); !slices.Equal(got, []int{2, 3}) {
		t.Errorf("squat order = %v, want [2 3]", got)
	}
}

// TestCurrentSkipsResolved verifies the turn is the first pending attempt in
// running order.
func TestCurrentSkipsResolved(t *testing.T) {
	roster := []Lifter{lifter(1, 70, 100, 105, 110), lifter(2, 80, 120, 125, 130)}
	resolve(&roster[0], models.LiftSquat, 1, StatusSuccess)

	turn := Current(roster)
	if turn.LifterID != 2 || turn.Round != 1 || turn.Position != 1 || turn.Weight != 120 {
		t.Errorf("turn = %+v, want lifter 2 at position 1 with 120", turn)
	}
}

// TestCurrentAdvancesRoundAndLift verifies rounds run before the next lift.
func TestCurrentAdvancesRoundAndLift(t *testing.T) {
	roster := []Lifter{lifter(1, 70, 100, 105, 110)}
	resolve(&roster[0], models.LiftSquat, 1, StatusSuccess)
	if turn := Current(roster); turn.Lift != models.LiftSquat || turn.Round != 2 {
		t.Errorf("turn = %+v, want squat round 2", turn)
	}
	resolve(&roster[0], models.LiftSquat, 2, StatusFailure)
	resolve(&roster[0], models.LiftSquat, 3, StatusSuccess)
	if turn := Current(roster); turn.Lift != models.LiftBench || turn.Round != 1 {
		t.Errorf("turn = %+v, want bench round 1", turn)
	}
}

// TestCurrentFinished verifies both an empty roster and a fully resolved meet
// report the finished convention.
func TestCurrentFinished(t *testing.T) {
	want := Turn{Lift: models.LiftDeadlift, Round: 3, Finished: true}
	if got := Current(nil); got != want {
		t.Errorf("empty roster turn = %+v, want %+v", got, want)
	}
	if got := Current([]Lifter{lifter(1, 70, 0, 0, 0)}); got != want {
		t.Errorf("no eligible lifters turn = %+v, want %+v", got, want)
	}

	roster := []Lifter{lifter(1, 70, 100, 105, 110), lifter(2, 90, 120, 125, 130)}
	resolveAll(roster)
	if got := Current(roster); got != want {
		t.Errorf("resolved roster turn = %+v, want %+v", got, want)
	}
}

// TestCurrentIdempotent verifies repeated calls on the same roster agree.
func TestCurrentIdempotent(t *testing.T) {
	roster := []Lifter{lifter(1, 70, 100, 105, 110), lifter(2, 70, 100, 105, 110)}
	if a, b := Current(roster), Current(roster); a != b {
		t.Errorf("turns differ: %+v vs %+v", a, b)
	}
}

// TestNextTransitions verifies how each move between turns is classified.
func TestNextTransitions(t *testing.T) {
	base := []Lifter{lifter(1, 70, 100, 105, 110), lifter(2, 80, 120, 125, 130)}

	t.Run("same round", func(t *testing.T) {
		roster := slices.Clone(base)
		prev := Current(roster)
		resolve(&roster[0], models.LiftSquat, 1, StatusSuccess)
		step := Next(roster, prev)
		if step.Transition != TransitionNone || step.Turn.LifterID != 2 {
			t.Errorf("step = %+v, want no transition, lifter 2", step)
		}
	})

	t.Run("round", func(t *testing.T) {
		roster := slices.Clone(base)
		resolve(&roster[0], models.LiftSquat, 1, StatusSuccess)
		prev := Current(roster)
		resolve(&roster[1], models.LiftSquat, 1, StatusFailure)
		step := Next(roster, prev)
		if step.Transition != TransitionRound {
			t.Fatalf("transition = %q, want round", step.Transition)
		}
		if step.CompletedLift != models.LiftSquat || step.CompletedRound != 1 || step.Turn.Round != 2 {
			t.Errorf("step = %+v, want squat round 1 completed", step)
		}
	})

	t.Run("discipline", func(t *testing.T) {
		roster := []Lifter{lifter(1, 70, 100, 105, 110)}
		resolve(&roster[0], models.LiftSquat, 1, StatusSuccess)
		resolve(&roster[0], models.LiftSquat, 2, StatusSuccess)
		prev := Current(roster)
		resolve(&roster[0], models.LiftSquat, 3, StatusSuccess)
		step := Next(roster, prev)
		if step.Transition != TransitionDiscipline || step.Turn.Lift != models.LiftBench {
			t.Errorf("step = %+v, want discipline into bench", step)
		}
		if step.CompletedLift != models.LiftSquat || step.CompletedRound != 3 {
			t.Errorf("completed = %v/%d, want squat/3", step.CompletedLift, step.CompletedRound)
		}
	})

	t.Run("finished", func(t *testing.T) {
		roster := []Lifter{lifter(1, 70, 100, 105, 110)}
		resolveAll(roster)
		roster[0].Attempts[models.LiftDeadlift][2].Status = StatusPending
		prev := Current(roster)
		resolve(&roster[0], models.LiftDeadlift, 3, StatusSuccess)
		step := Next(roster, prev)
		if step.Transition != TransitionFinished || !step.Turn.Finished {
			t.Errorf("step = %+v, want finished", step)
		}
	})

	t.Run("already finished", func(t *testing.T) {
		step := Next(nil, FinishedTurn())
		if step.Transition != TransitionNone || !step.Turn.Finished {
			t.Errorf("step = %+v, want finished with no transition", step)
		}
	})

	t.Run("reopened", func(t *testing.T) {
		roster := []Lifter{lifter(1, 70, 100, 105, 110)}
		resolve(&roster[0], models.LiftSquat, 1, StatusSuccess)
		prev := Current(roster)
		roster[0].Attempts[models.LiftSquat][0].Status = StatusPending
		step := Next(roster, prev)
		if step.Transition != TransitionNone || step.Turn.Round != 1 {
			t.Errorf("step = %+v, want no transition back to round 1", step)
		}
	})
}

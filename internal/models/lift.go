package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidWeight is returned when a plan or attempt weight is not a
// positive multiple of WeightStep.
var ErrInvalidWeight = errors.New("weight must be a positive multiple of 2.5 kg")

// WeightStep is the smallest plate increment in kilograms.
const WeightStep = 2.5

// AttemptsPerLift is the number of attempts each lifter gets per lift.
const AttemptsPerLift = 3

// Lift is one of the three competition disciplines.
type Lift int

const (
	LiftSquat Lift = iota
	LiftBench
	LiftDeadlift
)

// NumLifts is the number of Lift values.
const NumLifts = 3

// LiftOrder is the fixed order in which a meet runs its disciplines.
var LiftOrder = [NumLifts]Lift{LiftSquat, LiftBench, LiftDeadlift}

// String returns the wire name of the lift.
func (l Lift) String() string {
	switch l {
	case LiftSquat:
		return "squat"
	case LiftBench:
		return "bench"
	case LiftDeadlift:
		return "deadlift"
	}
	panic(fmt.Sprintf("models: unknown lift %d", int(l)))
}

// ParseLift accepts the wire name or the legacy scoring-table names
// (SENTADILLA, BANCA, MUERTO), case-insensitively.
func ParseLift(s string) (Lift, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "squat", "sentadilla":
		return LiftSquat, nil
	case "bench", "banca":
		return LiftBench, nil
	case "deadlift", "muerto":
		return LiftDeadlift, nil
	}
	return 0, fmt.Errorf("unknown lift %q", s)
}

func (l Lift) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Lift) UnmarshalText(b []byte) error {
	v, err := ParseLift(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Result is the outcome stored for an attempt.
type Result string

const (
	ResultPending Result = "pending"
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// ParseResult accepts the wire name or the legacy names (PENDIENTE, EXITO, FALLO).
// An empty string is treated as pending.
func ParseResult(s string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending", "pendiente":
		return ResultPending, nil
	case "success", "exito", "good":
		return ResultSuccess, nil
	case "failure", "fallo", "fail", "no lift":
		return ResultFailure, nil
	}
	return "", fmt.Errorf("unknown result %q", s)
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// UnmarshalText accepts anything ParseResult does.
func (r *Result) UnmarshalText(b []byte) error {
	v, err := ParseResult(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ValidWeight reports whether w is a positive multiple of WeightStep.
func ValidWeight(w float64) bool {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return false
	}
	steps := w / WeightStep
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// CheckWeights returns ErrInvalidWeight wrapped with the offending value if any
// weight fails ValidWeight.
func CheckWeights(weights ...float64) error {
	for _, w := range weights {
		if !ValidWeight(w) {
			return fmt.Errorf("%w: got %g", ErrInvalidWeight, w)
		}
	}
	return nil
}

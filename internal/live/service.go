// Package live runs the scoring core against persisted meet data. Every call
// loads a fresh snapshot and recomputes; the cached turn is a hint that is
// checked against the recomputation and never returned in its place.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/meetday/internal/cache"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/scoring"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrFinished is returned when a result is recorded after the last attempt.
	ErrFinished = errors.New("competition finished")
	// ErrNotCurrent is returned when a result names a lifter who is not on the platform.
	ErrNotCurrent = errors.New("lifter is not up")
	// ErrInvalidResult is returned when a result is neither success nor failure.
	ErrInvalidResult = errors.New("result must be success or failure")
)

// PodiumSize is how many lifters a discipline podium shows.
const PodiumSize = 3

// Store is the persistence the service reads and writes. *storage.DB
// satisfies it.
type Store interface {
	ListCompetitions(ctx context.Context) ([]models.CompetitionRow, error)
	GetCompetition(ctx context.Context, id uuid.UUID) (models.CompetitionRow, error)
	ListParticipants(ctx context.Context, competitionID uuid.UUID) ([]models.ParticipantRow, error)
	ListCompetitionPlans(ctx context.Context, competitionID uuid.UUID) ([]models.LiftPlanRow, error)
	ListCompetitionAttempts(ctx context.Context, competitionID uuid.UUID) ([]models.AttemptRow, error)
	UpsertAttempt(ctx context.Context, a models.AttemptRow) (models.AttemptRow, error)
}

var _ Store = (*storage.DB)(nil)

// Service derives rosters, turns and standings for competitions.
type Service struct {
	store  Store
	hints  cache.Cache
	policy scoring.TotalPolicy
	log    *slog.Logger
}

// New creates a Service. hints may be nil, in which case no turn hint is kept.
func New(store Store, hints cache.Cache, policy scoring.TotalPolicy, log *slog.Logger) *Service {
	return &Service{store: store, hints: hints, policy: policy, log: log}
}

// ListCompetitions returns every competition.
func (s *Service) ListCompetitions(ctx context.Context) ([]models.CompetitionRow, error) {
	return s.store.ListCompetitions(ctx)
}

// Roster loads a competition and projects every participant's attempts.
func (s *Service) Roster(ctx context.Context, competitionID uuid.UUID) ([]scoring.Lifter, error) {
	snap, err := s.snapshot(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	roster, skipped := scoring.Assemble(snap, s.policy)
	for _, a := range skipped {
		s.log.Warn("ignoring attempt with out-of-range number",
			"competition", competitionID, "attempt_id", a.ID, "participant", a.ParticipantID,
			"lift", a.Lift, "number", a.Number)
	}
	return roster, nil
}

func (s *Service) snapshot(ctx context.Context, competitionID uuid.UUID) (scoring.Snapshot, error) {
	if _, err := s.store.GetCompetition(ctx, competitionID); err != nil {
		return scoring.Snapshot{}, err
	}
	participants, err := s.store.ListParticipants(ctx, competitionID)
	if err != nil {
		return scoring.Snapshot{}, fmt.Errorf("loading participants: %w", err)
	}
	plans, err := s.store.ListCompetitionPlans(ctx, competitionID)
	if err != nil {
		return scoring.Snapshot{}, fmt.Errorf("loading plans: %w", err)
	}
	attempts, err := s.store.ListCompetitionAttempts(ctx, competitionID)
	if err != nil {
		return scoring.Snapshot{}, fmt.Errorf("loading attempts: %w", err)
	}
	return scoring.Snapshot{Participants: participants, Plans: plans, Attempts: attempts}, nil
}

// CurrentTurn recomputes whose turn it is.
func (s *Service) CurrentTurn(ctx context.Context, competitionID uuid.UUID) (scoring.Turn, error) {
	roster, err := s.Roster(ctx, competitionID)
	if err != nil {
		return scoring.Turn{}, err
	}
	turn := scoring.Current(roster)
	s.refreshHint(ctx, competitionID, turn)
	return turn, nil
}

func hintKey(competitionID uuid.UUID) string {
	return "turn:" + competitionID.String()
}

// ForgetCompetition drops the turn hint of a deleted competition. Cache
// failures are logged, never returned.
func (s *Service) ForgetCompetition(ctx context.Context, competitionID uuid.UUID) {
	if s.hints == nil {
		return
	}
	if err := s.hints.Delete(ctx, hintKey(competitionID)); err != nil {
		s.log.Warn("deleting turn hint", "competition", competitionID, "error", err)
	}
}

// refreshHint compares the cached turn with a fresh one and stores the fresh
// one. Cache failures are logged, never returned.
func (s *Service) refreshHint(ctx context.Context, competitionID uuid.UUID, turn scoring.Turn) {
	if s.hints == nil {
		return
	}
	key := hintKey(competitionID)

	var hint scoring.Turn
	found, err := s.hints.GetJSON(ctx, key, &hint)
	switch {
	case err != nil:
		s.log.Warn("reading turn hint", "competition", competitionID, "error", err)
	case found && hint == turn:
		return
	case found:
		s.log.Info("discarding stale turn hint", "competition", competitionID,
			"hint_lift", hint.Lift, "hint_round", hint.Round, "hint_lifter", hint.LifterID,
			"lift", turn.Lift, "round", turn.Round, "lifter", turn.LifterID)
	}

	if err := s.hints.SetJSON(ctx, key, turn); err != nil {
		s.log.Warn("writing turn hint", "competition", competitionID, "error", err)
	}
}

// ResultRequest is the judges' decision for the lifter on the platform.
type ResultRequest struct {
	LifterID int           `json:"lifter_id"`
	Result   models.Result `json:"result"`
	VideoURL *string       `json:"video_url,omitempty"`
}

// Outcome is what follows a recorded result. Standings are filled when a
// round closes, the podium of the closed lift when a discipline or the meet
// closes, and category standings when the meet closes.
type Outcome struct {
	Attempt    models.AttemptRow           `json:"attempt"`
	Step       scoring.Step                `json:"step"`
	Standings  []scoring.Standing          `json:"standings,omitempty"`
	Podium     []scoring.Standing          `json:"podium,omitempty"`
	Categories []scoring.CategoryStandings `json:"categories,omitempty"`
}

// RecordResult stores the decision for the current attempt at its projected
// weight and returns the next turn.
func (s *Service) RecordResult(ctx context.Context, competitionID uuid.UUID, req ResultRequest) (Outcome, error) {
	if req.Result != models.ResultSuccess && req.Result != models.ResultFailure {
		return Outcome{}, ErrInvalidResult
	}

	roster, err := s.Roster(ctx, competitionID)
	if err != nil {
		return Outcome{}, err
	}
	prev := scoring.Current(roster)
	if prev.Finished {
		return Outcome{}, ErrFinished
	}
	if req.LifterID != prev.LifterID {
		return Outcome{}, fmt.Errorf("lifter %d, up is %d (%s): %w", req.LifterID, prev.LifterID, prev.Name, ErrNotCurrent)
	}

	row, err := s.store.UpsertAttempt(ctx, models.AttemptRow{
		ParticipantID: prev.LifterID,
		Lift:          prev.Lift,
		Number:        prev.Round,
		Weight:        prev.Weight,
		Result:        req.Result,
		VideoURL:      req.VideoURL,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("recording attempt: %w", err)
	}
	s.log.Info("attempt recorded", "competition", competitionID, "lifter", prev.LifterID,
		"lift", prev.Lift, "round", prev.Round, "weight", prev.Weight, "result", req.Result)

	roster, err = s.Roster(ctx, competitionID)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Attempt: row, Step: scoring.Next(roster, prev)}
	switch out.Step.Transition {
	case scoring.TransitionRound:
		out.Standings = scoring.Standings(roster)
	case scoring.TransitionDiscipline:
		out.Podium = scoring.Podium(roster, out.Step.CompletedLift, PodiumSize)
	case scoring.TransitionFinished:
		out.Podium = scoring.Podium(roster, out.Step.CompletedLift, PodiumSize)
		out.Standings = scoring.Standings(roster)
		out.Categories = scoring.ByCategory(roster)
	}
	s.refreshHint(ctx, competitionID, out.Step.Turn)
	return out, nil
}

// Standings is the overall and per-class ranking of a competition.
type Standings struct {
	Overall    []scoring.Standing          `json:"overall"`
	ByCategory []scoring.CategoryStandings `json:"by_category"`
}

// Standings ranks a competition by total.
func (s *Service) Standings(ctx context.Context, competitionID uuid.UUID) (Standings, error) {
	roster, err := s.Roster(ctx, competitionID)
	if err != nil {
		return Standings{}, err
	}
	return Standings{
		Overall:    scoring.Standings(roster),
		ByCategory: scoring.ByCategory(roster),
	}, nil
}

// Podium returns the best n lifters in one lift.
func (s *Service) Podium(ctx context.Context, competitionID uuid.UUID, lift models.Lift, n int) ([]scoring.Standing, error) {
	roster, err := s.Roster(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = PodiumSize
	}
	return scoring.Podium(roster, lift, n), nil
}

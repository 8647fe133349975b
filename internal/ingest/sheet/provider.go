package sheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/claude/meetday/internal/ingest"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
)

// Store is the persistence a sheet ingest writes to. *storage.DB satisfies it.
type Store interface {
	GetCompetition(ctx context.Context, id uuid.UUID) (models.CompetitionRow, error)
	FindParticipant(ctx context.Context, competitionID uuid.UUID, name string) (models.ParticipantRow, error)
	UpsertPlan(ctx context.Context, p models.LiftPlanRow) (models.LiftPlanRow, error)
	UpsertAttempt(ctx context.Context, a models.AttemptRow) (models.AttemptRow, error)
	ListCompetitionAttempts(ctx context.Context, competitionID uuid.UUID) ([]models.AttemptRow, error)
}

var _ Store = (*storage.DB)(nil)

// Provider stores parsed sheets.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a new sheet ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a sheet and upserts its plans and attempts into a
// competition. Rows naming an unknown participant, or a lift the participant
// does not contest, are rejected and counted; any other storage error aborts.
// Attempt numbers stay dense: a row is rejected unless every lower number is
// already stored or lands earlier in the same sheet.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, competitionID uuid.UUID) (*ingest.Result, error) {
	if _, err := p.db.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}

	sheet, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	result := &ingest.Result{RowsReceived: sheet.Rows()}
	for _, rej := range sheet.Rejected {
		result.Reject(rej.Line, rej.Text, rej.Reason)
	}

	participants := make(map[string]models.ParticipantRow)
	lookup := func(name string) (models.ParticipantRow, error) {
		if pr, ok := participants[name]; ok {
			return pr, nil
		}
		pr, err := p.db.FindParticipant(ctx, competitionID, name)
		if err != nil {
			return pr, err
		}
		participants[name] = pr
		return pr, nil
	}

	for _, row := range sheet.Plans {
		pr, err := lookup(row.Participant)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			result.Reject(row.Line, row.Participant, "unknown participant")
			continue
		}
		if !pr.Contests(row.Lift) {
			result.Reject(row.Line, row.Participant, fmt.Sprintf("not entered in %s", row.Lift))
			continue
		}
		if _, err := p.db.UpsertPlan(ctx, models.LiftPlanRow{ParticipantID: pr.ID, Lift: row.Lift, Weights: row.Weights}); err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		result.PlansUpserted++
	}

	stored, err := p.db.ListCompetitionAttempts(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	type slot struct {
		participant int
		lift        models.Lift
	}
	highest := make(map[slot]int)
	for _, a := range stored {
		k := slot{a.ParticipantID, a.Lift}
		highest[k] = max(highest[k], a.Number)
	}

	attempts := append([]models.SheetAttempt(nil), sheet.Attempts...)
	sort.SliceStable(attempts, func(i, j int) bool {
		a, b := attempts[i], attempts[j]
		if pa, pb := strings.ToLower(a.Participant), strings.ToLower(b.Participant); pa != pb {
			return pa < pb
		}
		if a.Lift != b.Lift {
			return a.Lift < b.Lift
		}
		return a.Number < b.Number
	})

	for _, row := range attempts {
		pr, err := lookup(row.Participant)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			result.Reject(row.Line, row.Participant, "unknown participant")
			continue
		}
		if !pr.Contests(row.Lift) {
			result.Reject(row.Line, row.Participant, fmt.Sprintf("not entered in %s", row.Lift))
			continue
		}
		k := slot{pr.ID, row.Lift}
		if row.Number > highest[k]+1 {
			result.Reject(row.Line, row.Participant, fmt.Sprintf("attempt %d before %d", row.Number, row.Number-1))
			continue
		}
		_, err = p.db.UpsertAttempt(ctx, models.AttemptRow{
			ParticipantID: pr.ID,
			Lift:          row.Lift,
			Number:        row.Number,
			Weight:        row.Weight,
			Result:        row.Result,
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		highest[k] = max(highest[k], row.Number)
		result.AttemptsUpserted++
	}

	p.log.Info("sheet ingested", "competition", competitionID,
		"plans", result.PlansUpserted, "attempts", result.AttemptsUpserted, "rejected", result.RowsRejected)
	return result, nil
}

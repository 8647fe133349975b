package storage

import (
	"context"
	"fmt"

	"github.com/claude/meetday/internal/models"
	"github.com/google/uuid"
)

func scanPlan(row scanner) (models.LiftPlanRow, error) {
	var (
		p    models.LiftPlanRow
		lift string
	)
	if err := row.Scan(&p.ParticipantID, &lift, &p.Weights[0], &p.Weights[1], &p.Weights[2], &p.UpdatedAt); err != nil {
		return p, err
	}
	l, err := models.ParseLift(lift)
	if err != nil {
		return p, err
	}
	p.Lift = l
	return p, nil
}

// UpsertPlan stores the declared weights for one participant and lift.
// Weights are validated by the caller.
func (db *DB) UpsertPlan(ctx context.Context, p models.LiftPlanRow) (models.LiftPlanRow, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO lift_plans (participant_id, lift, weight_1, weight_2, weight_3, updated_at)
		 VALUES ($1,$2,$3,$4,$5, now())
		 ON CONFLICT (participant_id, lift) DO UPDATE SET
		   weight_1 = EXCLUDED.weight_1, weight_2 = EXCLUDED.weight_2, weight_3 = EXCLUDED.weight_3,
		   updated_at = now()
		 RETURNING participant_id, lift, weight_1, weight_2, weight_3, updated_at`,
		p.ParticipantID, p.Lift.String(), p.Weights[0], p.Weights[1], p.Weights[2])
	out, err := scanPlan(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.LiftPlanRow{}, fmt.Errorf("participant %d: %w", p.ParticipantID, ErrNotFound)
		}
		return models.LiftPlanRow{}, fmt.Errorf("upserting plan: %w", err)
	}
	return out, nil
}

// ListPlans returns the plans of one participant in lift order.
func (db *DB) ListPlans(ctx context.Context, participantID int) ([]models.LiftPlanRow, error) {
	return db.queryPlans(ctx,
		`SELECT participant_id, lift, weight_1, weight_2, weight_3, updated_at
		 FROM lift_plans WHERE participant_id = $1
		 ORDER BY `+liftOrderSQL("lift"),
		participantID)
}

// ListCompetitionPlans returns every plan in a competition.
func (db *DB) ListCompetitionPlans(ctx context.Context, competitionID uuid.UUID) ([]models.LiftPlanRow, error) {
	return db.queryPlans(ctx,
		`SELECT lp.participant_id, lp.lift, lp.weight_1, lp.weight_2, lp.weight_3, lp.updated_at
		 FROM lift_plans lp
		 JOIN participants p ON p.id = lp.participant_id
		 WHERE p.competition_id = $1
		 ORDER BY lp.participant_id, `+liftOrderSQL("lp.lift"),
		competitionID)
}

func (db *DB) queryPlans(ctx context.Context, query string, arg any) ([]models.LiftPlanRow, error) {
	rows, err := db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.LiftPlanRow
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

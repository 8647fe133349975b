package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/meetday/internal/models"
	"github.com/google/uuid"
)

// CompetitionStats holds aggregate counts for one competition.
type CompetitionStats struct {
	Participants  int64             `json:"participants"`
	PlansEntered  int64             `json:"plans_entered"`
	AttemptsTotal int64             `json:"attempts_total"`
	LastUpdate    *time.Time        `json:"last_update"`
	ByLift        []LiftAttemptStat `json:"by_lift"`
}

// LiftAttemptStat counts recorded attempts in one lift by result.
type LiftAttemptStat struct {
	Lift    models.Lift `json:"lift"`
	Success int64       `json:"success"`
	Failure int64       `json:"failure"`
	Pending int64       `json:"pending"`
}

// GetCompetitionStats returns aggregate statistics for a competition.
func (db *DB) GetCompetitionStats(ctx context.Context, competitionID uuid.UUID) (*CompetitionStats, error) {
	if _, err := db.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	stats := &CompetitionStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE competition_id = $1`, competitionID,
	).Scan(&stats.Participants)
	if err != nil {
		return nil, fmt.Errorf("counting participants: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lift_plans lp
		 JOIN participants p ON p.id = lp.participant_id
		 WHERE p.competition_id = $1`, competitionID,
	).Scan(&stats.PlansEntered)
	if err != nil {
		return nil, fmt.Errorf("counting plans: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MAX(a.updated_at) FROM attempts a
		 JOIN participants p ON p.id = a.participant_id
		 WHERE p.competition_id = $1`, competitionID,
	).Scan(&stats.AttemptsTotal, &stats.LastUpdate)
	if err != nil {
		return nil, fmt.Errorf("counting attempts: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT a.lift,
		        COUNT(*) FILTER (WHERE a.result = 'success'),
		        COUNT(*) FILTER (WHERE a.result = 'failure'),
		        COUNT(*) FILTER (WHERE a.result = 'pending')
		 FROM attempts a
		 JOIN participants p ON p.id = a.participant_id
		 WHERE p.competition_id = $1
		 GROUP BY a.lift
		 ORDER BY `+liftOrderSQL("a.lift"), competitionID)
	if err != nil {
		return nil, fmt.Errorf("querying attempts by lift: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s LiftAttemptStat
		var lift string
		if err := rows.Scan(&lift, &s.Success, &s.Failure, &s.Pending); err != nil {
			return nil, fmt.Errorf("scanning lift stat: %w", err)
		}
		if s.Lift, err = models.ParseLift(lift); err != nil {
			return nil, err
		}
		stats.ByLift = append(stats.ByLift, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

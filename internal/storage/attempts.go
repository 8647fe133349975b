package storage

import (
	"context"
	"fmt"

	"github.com/claude/meetday/internal/models"
	"github.com/google/uuid"
)

const attemptColumns = `id, participant_id, lift, number, weight, result, video_url, updated_at`

func scanAttempt(row scanner) (models.AttemptRow, error) {
	var (
		a            models.AttemptRow
		lift, result string
	)
	if err := row.Scan(&a.ID, &a.ParticipantID, &lift, &a.Number, &a.Weight, &result, &a.VideoURL, &a.UpdatedAt); err != nil {
		return a, err
	}
	l, err := models.ParseLift(lift)
	if err != nil {
		return a, err
	}
	r, err := models.ParseResult(result)
	if err != nil {
		return a, err
	}
	a.Lift, a.Result = l, r
	return a, nil
}

// CreateAttempt records the next attempt of a participant in a lift. The
// number is assigned densely (1, 2, 3); a fourth attempt is ErrNoAttemptsLeft.
// Two concurrent creates for the same slot surface as ErrDuplicateAttempt.
func (db *DB) CreateAttempt(ctx context.Context, a models.AttemptRow) (models.AttemptRow, error) {
	var last int
	err := db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM attempts WHERE participant_id = $1 AND lift = $2`,
		a.ParticipantID, a.Lift.String()).Scan(&last)
	if err != nil {
		return models.AttemptRow{}, fmt.Errorf("querying last attempt number: %w", err)
	}
	if last >= models.AttemptsPerLift {
		return models.AttemptRow{}, ErrNoAttemptsLeft
	}
	a.Number = last + 1
	if a.Result == "" {
		a.Result = models.ResultPending
	}

	row := db.Pool.QueryRow(ctx,
		`INSERT INTO attempts (participant_id, lift, number, weight, result, video_url)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING `+attemptColumns,
		a.ParticipantID, a.Lift.String(), a.Number, a.Weight, string(a.Result), a.VideoURL)
	out, err := scanAttempt(row)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return models.AttemptRow{}, fmt.Errorf("attempt %d: %w", a.Number, ErrDuplicateAttempt)
		case isForeignKeyViolation(err):
			return models.AttemptRow{}, fmt.Errorf("participant %d: %w", a.ParticipantID, ErrNotFound)
		}
		return models.AttemptRow{}, fmt.Errorf("inserting attempt: %w", err)
	}
	return out, nil
}

// UpsertAttempt records an attempt at an explicit number, overwriting weight
// and result if it already exists. Last write wins.
func (db *DB) UpsertAttempt(ctx context.Context, a models.AttemptRow) (models.AttemptRow, error) {
	if a.Number < 1 || a.Number > models.AttemptsPerLift {
		return models.AttemptRow{}, fmt.Errorf("attempt number %d out of range", a.Number)
	}
	if a.Result == "" {
		a.Result = models.ResultPending
	}
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO attempts (participant_id, lift, number, weight, result, video_url)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (participant_id, lift, number) DO UPDATE SET
		   weight = EXCLUDED.weight, result = EXCLUDED.result,
		   video_url = COALESCE(EXCLUDED.video_url, attempts.video_url),
		   updated_at = now()
		 RETURNING `+attemptColumns,
		a.ParticipantID, a.Lift.String(), a.Number, a.Weight, string(a.Result), a.VideoURL)
	out, err := scanAttempt(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.AttemptRow{}, fmt.Errorf("participant %d: %w", a.ParticipantID, ErrNotFound)
		}
		return models.AttemptRow{}, fmt.Errorf("upserting attempt: %w", err)
	}
	return out, nil
}

// GetAttempt returns one attempt or ErrNotFound.
func (db *DB) GetAttempt(ctx context.Context, id int) (models.AttemptRow, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id)
	a, err := scanAttempt(row)
	if err != nil {
		return models.AttemptRow{}, notFound(err, "attempt")
	}
	return a, nil
}

// UpdateAttempt is the corrective edit of an attempt's weight, result and
// video link.
func (db *DB) UpdateAttempt(ctx context.Context, a models.AttemptRow) (models.AttemptRow, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE attempts SET weight = $2, result = $3, video_url = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+attemptColumns,
		a.ID, a.Weight, string(a.Result), a.VideoURL)
	out, err := scanAttempt(row)
	if err != nil {
		return models.AttemptRow{}, notFound(err, "attempt")
	}
	return out, nil
}

// ListCompetitionAttempts returns every recorded attempt in a competition.
func (db *DB) ListCompetitionAttempts(ctx context.Context, competitionID uuid.UUID) ([]models.AttemptRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT a.id, a.participant_id, a.lift, a.number, a.weight, a.result, a.video_url, a.updated_at
		 FROM attempts a
		 JOIN participants p ON p.id = a.participant_id
		 WHERE p.competition_id = $1
		 ORDER BY `+liftOrderSQL("a.lift")+`, a.number, a.participant_id`,
		competitionID)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	var result []models.AttemptRow
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

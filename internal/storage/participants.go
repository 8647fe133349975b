package storage

import (
	"context"
	"fmt"

	"github.com/claude/meetday/internal/models"
	"github.com/google/uuid"
)

const participantColumns = `id, competition_id, first_name, last_name, body_weight, height, age, squat, bench, deadlift`

func scanParticipant(row scanner) (models.ParticipantRow, error) {
	var p models.ParticipantRow
	err := row.Scan(&p.ID, &p.CompetitionID, &p.FirstName, &p.LastName, &p.BodyWeight,
		&p.Height, &p.Age, &p.Squat, &p.Bench, &p.Deadlift)
	return p, err
}

// CreateParticipant inserts a participant and returns it with its id.
func (db *DB) CreateParticipant(ctx context.Context, p models.ParticipantRow) (models.ParticipantRow, error) {
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO participants (competition_id, first_name, last_name, body_weight, height, age, squat, bench, deadlift)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING `+participantColumns,
		p.CompetitionID, p.FirstName, p.LastName, p.BodyWeight, p.Height, p.Age, p.Squat, p.Bench, p.Deadlift)
	out, err := scanParticipant(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ParticipantRow{}, fmt.Errorf("competition %s: %w", p.CompetitionID, ErrNotFound)
		}
		return models.ParticipantRow{}, fmt.Errorf("inserting participant: %w", err)
	}
	return out, nil
}

// ListParticipants returns the participants of a competition ordered by id.
func (db *DB) ListParticipants(ctx context.Context, competitionID uuid.UUID) ([]models.ParticipantRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE competition_id = $1 ORDER BY id`,
		competitionID)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer rows.Close()

	var result []models.ParticipantRow
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetParticipant returns one participant or ErrNotFound.
func (db *DB) GetParticipant(ctx context.Context, id int) (models.ParticipantRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE id = $1`, id)
	p, err := scanParticipant(row)
	if err != nil {
		return models.ParticipantRow{}, notFound(err, "participant")
	}
	return p, nil
}

// FindParticipant looks a participant up by display name within a
// competition, case-insensitively. Used by sheet ingest.
func (db *DB) FindParticipant(ctx context.Context, competitionID uuid.UUID, name string) (models.ParticipantRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants
		 WHERE competition_id = $1
		   AND lower(trim(first_name || ' ' || last_name)) = lower(trim($2))
		 ORDER BY id
		 LIMIT 1`,
		competitionID, name)
	p, err := scanParticipant(row)
	if err != nil {
		return models.ParticipantRow{}, notFound(err, "participant "+name)
	}
	return p, nil
}

// UpdateParticipant overwrites the editable fields of p. The competition
// cannot change.
func (db *DB) UpdateParticipant(ctx context.Context, p models.ParticipantRow) (models.ParticipantRow, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE participants SET first_name = $2, last_name = $3, body_weight = $4, height = $5, age = $6,
		 squat = $7, bench = $8, deadlift = $9
		 WHERE id = $1
		 RETURNING `+participantColumns,
		p.ID, p.FirstName, p.LastName, p.BodyWeight, p.Height, p.Age, p.Squat, p.Bench, p.Deadlift)
	out, err := scanParticipant(row)
	if err != nil {
		return models.ParticipantRow{}, notFound(err, "participant")
	}
	return out, nil
}

// DeleteParticipant removes a participant with its plans and attempts.
func (db *DB) DeleteParticipant(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting participant %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %d: %w", id, ErrNotFound)
	}
	return nil
}

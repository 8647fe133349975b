package storage

import (
	"context"
	"fmt"

	"github.com/claude/meetday/internal/models"
	"github.com/google/uuid"
)

const competitionColumns = `id, name, date, time, location, phase, created_at`

func scanCompetition(row scanner) (models.CompetitionRow, error) {
	var c models.CompetitionRow
	err := row.Scan(&c.ID, &c.Name, &c.Date, &c.Time, &c.Location, &c.Phase, &c.CreatedAt)
	return c, err
}

// CreateCompetition inserts a competition, assigning a new id when c.ID is zero.
func (db *DB) CreateCompetition(ctx context.Context, c models.CompetitionRow) (models.CompetitionRow, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Phase == "" {
		c.Phase = models.PhaseSetup
	}
	row := db.Pool.QueryRow(ctx,
		`INSERT INTO competitions (id, name, date, time, location, phase)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING `+competitionColumns,
		c.ID, c.Name, c.Date, c.Time, c.Location, c.Phase)
	out, err := scanCompetition(row)
	if err != nil {
		return models.CompetitionRow{}, fmt.Errorf("inserting competition: %w", err)
	}
	return out, nil
}

// ListCompetitions returns all competitions, newest first.
func (db *DB) ListCompetitions(ctx context.Context) ([]models.CompetitionRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+competitionColumns+` FROM competitions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying competitions: %w", err)
	}
	defer rows.Close()

	var result []models.CompetitionRow
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning competition: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetCompetition returns one competition or ErrNotFound.
func (db *DB) GetCompetition(ctx context.Context, id uuid.UUID) (models.CompetitionRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id)
	c, err := scanCompetition(row)
	if err != nil {
		return models.CompetitionRow{}, notFound(err, "competition")
	}
	return c, nil
}

// UpdateCompetition overwrites the editable fields of c.
func (db *DB) UpdateCompetition(ctx context.Context, c models.CompetitionRow) (models.CompetitionRow, error) {
	row := db.Pool.QueryRow(ctx,
		`UPDATE competitions SET name = $2, date = $3, time = $4, location = $5, phase = $6
		 WHERE id = $1
		 RETURNING `+competitionColumns,
		c.ID, c.Name, c.Date, c.Time, c.Location, c.Phase)
	out, err := scanCompetition(row)
	if err != nil {
		return models.CompetitionRow{}, notFound(err, "competition")
	}
	return out, nil
}

// DeleteCompetition removes a competition and, by cascade, its participants,
// plans and attempts.
func (db *DB) DeleteCompetition(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM competitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting competition %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("competition %s: %w", id, ErrNotFound)
	}
	return nil
}

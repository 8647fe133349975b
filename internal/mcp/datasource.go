package mcp

import (
	"context"

	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/scoring"
	"github.com/google/uuid"
)

// DataSource abstracts the meet state for MCP tools. Both *live.Service
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListCompetitions(ctx context.Context) ([]models.CompetitionRow, error)
	Roster(ctx context.Context, competitionID uuid.UUID) ([]scoring.Lifter, error)
	CurrentTurn(ctx context.Context, competitionID uuid.UUID) (scoring.Turn, error)
	Standings(ctx context.Context, competitionID uuid.UUID) (live.Standings, error)
	Podium(ctx context.Context, competitionID uuid.UUID, lift models.Lift, n int) ([]scoring.Standing, error)
}

// Compile-time check: *live.Service satisfies DataSource.
var _ DataSource = (*live.Service)(nil)

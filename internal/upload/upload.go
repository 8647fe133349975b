// Package upload pushes scoring sheets from a local directory to the meetday
// server, skipping files it has already delivered.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/claude/meetday/internal/ingest/sheet"
	"github.com/google/uuid"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	PlansSent    int
	AttemptsSent int
	RowsRejected int
}

// Uploader walks a directory for .csv sheets and POSTs each new or changed
// one to the server.
type Uploader struct {
	client      *Client
	state       *StateDB
	dir         string
	competition uuid.UUID
	dryRun      bool
	log         *slog.Logger
	stats       Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, competitionID uuid.UUID, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client:      client,
		state:       state,
		dir:         dir,
		competition: competitionID,
		dryRun:      dryRun,
		log:         log,
	}
}

// Run uploads every pending sheet. A sheet that fails is counted and logged;
// the run continues with the next one.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	paths, err := findSheets(u.dir)
	if err != nil {
		return &u.stats, err
	}
	u.stats.FilesTotal = len(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		if err := u.processFile(ctx, path); err != nil {
			u.stats.FilesErrored++
			u.log.Error("sheet upload failed", "path", path, "error", err)
		}
	}
	return &u.stats, nil
}

// findSheets returns the .csv files under dir in lexical order.
func findSheets(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) error {
	rel, err := filepath.Rel(u.dir, path)
	if err != nil {
		rel = path
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}
	sh := Sheet{RelPath: rel, Size: info.Size(), Hash: hash}

	uploaded, err := u.state.IsUploaded(ctx, u.competition, sh)
	if err != nil {
		return err
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if u.dryRun {
		parsed, err := sheet.Parse(bytes.NewReader(data))
		if err != nil {
			return err
		}
		u.log.Info("dry run", "path", rel, "plans", len(parsed.Plans),
			"attempts", len(parsed.Attempts), "rejected", len(parsed.Rejected))
		u.stats.PlansSent += len(parsed.Plans)
		u.stats.AttemptsSent += len(parsed.Attempts)
		u.stats.RowsRejected += len(parsed.Rejected)
		return nil
	}

	result, err := u.client.SendSheet(ctx, u.competition, rel, data)
	if err != nil {
		return err
	}
	u.stats.FilesUploaded++
	u.stats.PlansSent += result.PlansUpserted
	u.stats.AttemptsSent += result.AttemptsUpserted
	u.stats.RowsRejected += result.RowsRejected
	u.log.Info("sheet uploaded", "path", rel, "plans", result.PlansUpserted,
		"attempts", result.AttemptsUpserted, "rejected", result.RowsRejected)

	return u.state.MarkUploaded(ctx, u.competition, sh, result.PlansUpserted+result.AttemptsUpserted)
}

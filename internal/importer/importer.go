// Package importer loads a directory of scoring sheets straight into the
// database, without going through the HTTP server.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/meetday/internal/ingest"
	"github.com/claude/meetday/internal/ingest/sheet"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
)

// Ingester stores one sheet. *sheet.Provider satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, competitionID uuid.UUID) (*ingest.Result, error)
}

// LogStore records import runs. *storage.DB satisfies it.
type LogStore interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
}

var (
	_ Ingester = (*sheet.Provider)(nil)
	_ LogStore = (*storage.DB)(nil)
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	PlansUpserted    int
	AttemptsUpserted int
	RowsRejected     int
}

// Importer reads .csv and .csv.gz sheets from a directory and stores them.
type Importer struct {
	ingester Ingester
	logs     LogStore
	log      *slog.Logger
	dryRun   bool
	stats    Stats
}

// New creates a new Importer. logs may be nil, in which case runs are not
// recorded. In dry-run mode sheets are parsed but nothing is stored.
func New(ingester Ingester, logs LogStore, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{ingester: ingester, logs: logs, log: log, dryRun: dryRun}
}

// Import processes every sheet under dir in lexical path order, so later
// files win when two sheets carry the same attempt. A sheet that fails is
// counted and the run continues; only a directory walk error is returned.
func (imp *Importer) Import(ctx context.Context, dir string, competitionID uuid.UUID) (*Stats, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isSheet(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		rel, _ := filepath.Rel(dir, path)
		if err := imp.importFile(ctx, path, rel, competitionID); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("sheet import failed", "path", rel, "error", err)
			continue
		}
		imp.stats.FilesProcessed++
	}
	return &imp.stats, nil
}

func isSheet(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".csv.gz")
}

func (imp *Importer) importFile(ctx context.Context, path, rel string, competitionID uuid.UUID) error {
	rc, err := openSheet(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	if imp.dryRun {
		parsed, err := sheet.Parse(rc)
		if err != nil {
			return err
		}
		imp.stats.PlansUpserted += len(parsed.Plans)
		imp.stats.AttemptsUpserted += len(parsed.Attempts)
		imp.stats.RowsRejected += len(parsed.Rejected)
		return nil
	}

	start := time.Now()
	result, err := imp.ingester.Ingest(ctx, rc, competitionID)
	imp.record(competitionID, rel, result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}

	imp.stats.PlansUpserted += result.PlansUpserted
	imp.stats.AttemptsUpserted += result.AttemptsUpserted
	imp.stats.RowsRejected += result.RowsRejected
	for _, rej := range result.Rejected {
		imp.log.Warn("row rejected", "path", rel, "line", rej.Line, "reason", rej.Reason)
	}
	return nil
}

func (imp *Importer) record(competitionID uuid.UUID, source string, result *ingest.Result, importErr error, durationMs int) {
	if imp.logs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entry := ingest.ImportLog(competitionID, "import:"+source, result, importErr, durationMs)
	if _, err := imp.logs.InsertImportLog(ctx, entry); err != nil {
		imp.log.Error("failed to log import", "source", source, "error", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/meetday/internal/config"
	"github.com/claude/meetday/internal/importer"
	"github.com/claude/meetday/internal/ingest/sheet"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	sheetPath := flag.String("path", "", "directory of .csv or .csv.gz sheets (required)")
	competition := flag.String("competition", "", "competition ID (required)")
	dryRun := flag.Bool("dry-run", false, "parse sheets without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *sheetPath == "" || *competition == "" {
		fmt.Fprintf(os.Stderr, "Usage: meetday-import -config config.yaml -competition <id> -path /path/to/sheets [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	compID, err := uuid.Parse(*competition)
	if err != nil {
		log.Error("invalid competition ID", "competition", *competition, "error", err)
		os.Exit(1)
	}

	info, err := os.Stat(*sheetPath)
	if err != nil || !info.IsDir() {
		log.Error("sheet path does not exist or is not a directory", "path", *sheetPath)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the database")
		stats, err := importer.New(nil, nil, log, true).Import(ctx, *sheetPath, compID)
		finish(log, stats, err)
		return
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	imp := importer.New(sheet.NewProvider(db, log), db, log, false)
	stats, err := imp.Import(ctx, *sheetPath, compID)
	finish(log, stats, err)
}

func finish(log *slog.Logger, stats *importer.Stats, err error) {
	printStats(stats)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(stats *importer.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files processed:   %d\n", stats.FilesProcessed)
	fmt.Printf("  Files errored:     %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Plans upserted:    %d\n", stats.PlansUpserted)
	fmt.Printf("  Attempts upserted: %d\n", stats.AttemptsUpserted)
	fmt.Printf("  Rows rejected:     %d\n", stats.RowsRejected)
	fmt.Println()
}

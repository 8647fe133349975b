package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/meetday/internal/upload"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "meetday server URL (e.g. https://meetday.tail1234.ts.net)")
	sheetDir := flag.String("path", "", "directory the scoring table exports sheets to")
	competition := flag.String("competition", "", "competition ID")
	dryRun := flag.Bool("dry-run", false, "parse sheets but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("meetday-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env", "error", err)
	}
	apiKey := os.Getenv("MEETDAY_API_KEY")

	if *sheetDir == "" || *competition == "" {
		fmt.Fprintf(os.Stderr, "Usage: meetday-upload -server <URL> -competition <id> -path <sheet dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if !*dryRun && (*serverURL == "" || apiKey == "") {
		fmt.Fprintf(os.Stderr, "Error: -server and MEETDAY_API_KEY are required (or use -dry-run)\n")
		os.Exit(1)
	}

	compID, err := uuid.Parse(*competition)
	if err != nil {
		log.Error("invalid competition ID", "competition", *competition, "error", err)
		os.Exit(1)
	}

	info, err := os.Stat(*sheetDir)
	if err != nil || !info.IsDir() {
		log.Error("sheet directory not found", "path", *sheetDir)
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := upload.OpenStateDB(filepath.Join(homeDir, ".meetday-upload"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, apiKey)
	} else {
		log.Info("DRY RUN mode: sheets will be parsed but not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := upload.New(client, state, *sheetDir, compID, *dryRun, log).Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Plans:            %d\n", stats.PlansSent)
	fmt.Printf("  Attempts:         %d\n", stats.AttemptsSent)
	fmt.Printf("  Rows rejected:    %d\n", stats.RowsRejected)
	fmt.Println()
}

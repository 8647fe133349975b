package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	meetmcp "github.com/claude/meetday/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// meetday-mcp serves the MCP tools over stdio, reading meet state from a
// remote meetday server's REST API.
func main() {
	serverURL := flag.String("server", "", "meetday server URL (or MEETDAY_SERVER_URL)")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to load .env", "error", err)
	}
	if *serverURL == "" {
		*serverURL = os.Getenv("MEETDAY_SERVER_URL")
	}
	if *serverURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: meetday-mcp -server <URL>")
		os.Exit(1)
	}

	s := meetmcp.New(meetmcp.NewHTTPClient(*serverURL), Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

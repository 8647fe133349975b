// Package mcp exposes read-only meet state (roster, turn, standings and
// podiums) as Model Context Protocol tools and resources.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("meetday", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Powerlifting meet scoring. Look up competitions, then query a competition's roster, the lifter on the platform, standings and per-lift podiums."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListCompetitions, Handler: h.listCompetitions},
		server.ServerTool{Tool: toolGetRoster, Handler: h.getRoster},
		server.ServerTool{Tool: toolGetCurrentTurn, Handler: h.getCurrentTurn},
		server.ServerTool{Tool: toolGetStandings, Handler: h.getStandings},
		server.ServerTool{Tool: toolGetPodium, Handler: h.getPodium},
	)

	s.AddResources(
		server.ServerResource{Resource: resCompetitions, Handler: h.competitions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resCompetitions = mcp.NewResource(
	"meetday://competitions",
	"Competitions",
	mcp.WithResourceDescription("Every competition with its date, location and phase"),
	mcp.WithMIMEType("application/json"),
)

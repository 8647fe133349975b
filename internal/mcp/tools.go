package mcp

import (
	"context"
	"errors"

	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var competitionArg = mcp.WithString("competition_id", mcp.Required(),
	mcp.Description("Competition UUID, as returned by list_competitions"))

var toolListCompetitions = mcp.NewTool("list_competitions",
	mcp.WithDescription("List every competition with its id, name, date, location and phase (setup, live or finished)."),
)

var toolGetRoster = mcp.NewTool("get_roster",
	mcp.WithDescription("Get every lifter in a competition with all nine attempts (recorded or projected), best lifts, weight class and total."),
	competitionArg,
)

var toolGetCurrentTurn = mcp.NewTool("get_current_turn",
	mcp.WithDescription("Get the attempt on the platform: lift, round, position in the running order, lifter and bar weight. finished is true once no attempt is pending."),
	competitionArg,
)

var toolGetStandings = mcp.NewTool("get_standings",
	mcp.WithDescription("Rank lifters by total, overall and within each weight class. Lighter lifters win ties."),
	competitionArg,
)

var toolGetPodium = mcp.NewTool("get_podium",
	mcp.WithDescription("Get the best lifters in a single lift. Lifters without a successful attempt in that lift are excluded."),
	competitionArg,
	mcp.WithString("lift", mcp.Required(), mcp.Description("Lift to rank"), mcp.Enum("squat", "bench", "deadlift")),
	mcp.WithNumber("n", mcp.Description("Number of places. Defaults to 3.")),
)

// --- Tool handlers ---

func (h *handlers) competitionID(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("competition_id")
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("competition_id parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("invalid competition_id: " + err.Error())
	}
	return id, nil
}

// queryFailed turns a data source error into a tool error.
func (h *handlers) queryFailed(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("competition not found")
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listCompetitions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	comps, err := h.ds.ListCompetitions(ctx)
	if err != nil {
		return h.queryFailed("list_competitions", err), nil
	}
	return jsonResult(comps)
}

func (h *handlers) getRoster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := h.competitionID(req)
	if bad != nil {
		return bad, nil
	}
	roster, err := h.ds.Roster(ctx, id)
	if err != nil {
		return h.queryFailed("get_roster", err), nil
	}
	return jsonResult(roster)
}

func (h *handlers) getCurrentTurn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := h.competitionID(req)
	if bad != nil {
		return bad, nil
	}
	turn, err := h.ds.CurrentTurn(ctx, id)
	if err != nil {
		return h.queryFailed("get_current_turn", err), nil
	}
	return jsonResult(turn)
}

func (h *handlers) getStandings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := h.competitionID(req)
	if bad != nil {
		return bad, nil
	}
	st, err := h.ds.Standings(ctx, id)
	if err != nil {
		return h.queryFailed("get_standings", err), nil
	}
	return jsonResult(st)
}

func (h *handlers) getPodium(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, bad := h.competitionID(req)
	if bad != nil {
		return bad, nil
	}
	rawLift, err := req.RequireString("lift")
	if err != nil {
		return mcp.NewToolResultError("lift parameter is required"), nil
	}
	lift, err := models.ParseLift(rawLift)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n := req.GetInt("n", live.PodiumSize)
	if n <= 0 {
		return mcp.NewToolResultError("n must be positive"), nil
	}

	podium, err := h.ds.Podium(ctx, id, lift, n)
	if err != nil {
		return h.queryFailed("get_podium", err), nil
	}
	return jsonResult(podium)
}

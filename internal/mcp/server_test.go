package mcp

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/scoring"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeSource answers for testCompID only and records podium arguments.
type fakeSource struct {
	podiumLift models.Lift
	podiumN    int
}

func (f *fakeSource) check(id uuid.UUID) error {
	if id != testCompID {
		return storage.ErrNotFound
	}
	return nil
}

func (f *fakeSource) ListCompetitions(context.Context) ([]models.CompetitionRow, error) {
	return []models.CompetitionRow{{ID: testCompID, Name: "Open"}}, nil
}

func (f *fakeSource) Roster(_ context.Context, id uuid.UUID) ([]scoring.Lifter, error) {
	return []scoring.Lifter{{ID: 1, Name: "Ana Ruiz"}}, f.check(id)
}

func (f *fakeSource) CurrentTurn(_ context.Context, id uuid.UUID) (scoring.Turn, error) {
	return scoring.Turn{Lift: models.LiftSquat, Round: 1, LifterID: 1, Weight: 100}, f.check(id)
}

func (f *fakeSource) Standings(_ context.Context, id uuid.UUID) (live.Standings, error) {
	return live.Standings{}, f.check(id)
}

func (f *fakeSource) Podium(_ context.Context, id uuid.UUID, lift models.Lift, n int) ([]scoring.Standing, error) {
	f.podiumLift, f.podiumN = lift, n
	return nil, f.check(id)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestNewRegistersTools verifies the server builds with its data source.
func TestNewRegistersTools(t *testing.T) {
	if s := New(&fakeSource{}, "test", slog.Default()); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestGetCurrentTurnTool verifies a valid call returns the turn as JSON.
func TestGetCurrentTurnTool(t *testing.T) {
	h := &handlers{ds: &fakeSource{}, log: slog.Default()}
	res, err := h.getCurrentTurn(context.Background(), callRequest(map[string]any{"competition_id": testCompID.String()}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, `"lift":"squat"`) || !strings.Contains(text, `"weight":100`) {
		t.Errorf("result = %s", text)
	}
}

// TestToolArgumentErrors verifies bad arguments are tool errors, not protocol errors.
func TestToolArgumentErrors(t *testing.T) {
	h := &handlers{ds: &fakeSource{}, log: slog.Default()}
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (*mcp.CallToolResult, error)
		want string
	}{
		{"missing competition", func() (*mcp.CallToolResult, error) {
			return h.getRoster(ctx, callRequest(map[string]any{}))
		}, "required"},
		{"bad uuid", func() (*mcp.CallToolResult, error) {
			return h.getStandings(ctx, callRequest(map[string]any{"competition_id": "nope"}))
		}, "invalid competition_id"},
		{"unknown competition", func() (*mcp.CallToolResult, error) {
			return h.getCurrentTurn(ctx, callRequest(map[string]any{"competition_id": uuid.NewString()}))
		}, "not found"},
		{"bad lift", func() (*mcp.CallToolResult, error) {
			return h.getPodium(ctx, callRequest(map[string]any{"competition_id": testCompID.String(), "lift": "clean"}))
		}, "lift"},
		{"bad n", func() (*mcp.CallToolResult, error) {
			return h.getPodium(ctx, callRequest(map[string]any{"competition_id": testCompID.String(), "lift": "bench", "n": 0}))
		}, "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.call()
			if err != nil {
				t.Fatalf("protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
			if text := resultText(t, res); !strings.Contains(text, tt.want) {
				t.Errorf("error = %q, want it to mention %q", text, tt.want)
			}
		})
	}
}

// TestGetPodiumDefaults verifies the default podium size and lift parsing.
func TestGetPodiumDefaults(t *testing.T) {
	src := &fakeSource{}
	h := &handlers{ds: src, log: slog.Default()}
	res, err := h.getPodium(context.Background(), callRequest(map[string]any{
		"competition_id": testCompID.String(),
		"lift":           "deadlift",
	}))
	if err != nil || res.IsError {
		t.Fatalf("getPodium: %v %+v", err, res)
	}
	if src.podiumLift != models.LiftDeadlift || src.podiumN != live.PodiumSize {
		t.Errorf("podium called with %v/%d", src.podiumLift, src.podiumN)
	}
}

// TestCompetitionsResource verifies the resource body is the competition list.
func TestCompetitionsResource(t *testing.T) {
	h := &handlers{ds: &fakeSource{}, log: slog.Default()}
	var req mcp.ReadResourceRequest
	req.Params.URI = "meetday://competitions"

	contents, err := h.competitions(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok || text.URI != req.Params.URI || !strings.Contains(text.Text, testCompID.String()) {
		t.Errorf("contents = %+v", contents)
	}
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/scoring"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
)

const testKey = "secret"

// meetStore is a live.Store holding one competition with two lifters.
type meetStore struct {
	comp     models.CompetitionRow
	attempts []models.AttemptRow
}

func (m *meetStore) ListCompetitions(ctx context.Context) ([]models.CompetitionRow, error) {
	return []models.CompetitionRow{m.comp}, nil
}

func (m *meetStore) GetCompetition(ctx context.Context, id uuid.UUID) (models.CompetitionRow, error) {
	if id != m.comp.ID {
		return models.CompetitionRow{}, fmt.Errorf("competition: %w", storage.ErrNotFound)
	}
	return m.comp, nil
}

func (m *meetStore) ListParticipants(ctx context.Context, id uuid.UUID) ([]models.ParticipantRow, error) {
	return []models.ParticipantRow{
		{ID: 1, CompetitionID: id, FirstName: "Ana", BodyWeight: 63, Squat: true, Bench: true, Deadlift: true},
		{ID: 2, CompetitionID: id, FirstName: "Ben", BodyWeight: 90, Squat: true, Bench: true, Deadlift: true},
	}, nil
}

func (m *meetStore) ListCompetitionPlans(ctx context.Context, id uuid.UUID) ([]models.LiftPlanRow, error) {
	var plans []models.LiftPlanRow
	for _, lift := range models.LiftOrder {
		plans = append(plans,
			models.LiftPlanRow{ParticipantID: 1, Lift: lift, Weights: [3]float64{80, 85, 90}},
			models.LiftPlanRow{ParticipantID: 2, Lift: lift, Weights: [3]float64{150, 160, 170}})
	}
	return plans, nil
}

func (m *meetStore) ListCompetitionAttempts(ctx context.Context, id uuid.UUID) ([]models.AttemptRow, error) {
	return m.attempts, nil
}

func (m *meetStore) UpsertAttempt(ctx context.Context, a models.AttemptRow) (models.AttemptRow, error) {
	a.ID = len(m.attempts) + 1
	m.attempts = append(m.attempts, a)
	return a, nil
}

func newTestServer(t *testing.T) (*Server, *meetStore) {
	t.Helper()
	store := &meetStore{comp: models.CompetitionRow{ID: uuid.New(), Name: "Open"}}
	svc := live.New(store, nil, scoring.TotalBombOut, slog.Default())
	return New(nil, svc, nil, testKey, slog.Default()), store
}

func do(s *Server, method, path, body string, auth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestHealth verifies the health endpoint answers without a database.
func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(s, http.MethodGet, "/api/v1/healthz", "", false)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
	}
}

// TestWritesRequireKey verifies every write route is behind the API key.
func TestWritesRequireKey(t *testing.T) {
	s, store := newTestServer(t)
	id := store.comp.ID
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/competitions"},
		{http.MethodPatch, "/api/v1/competitions/" + id.String()},
		{http.MethodDelete, "/api/v1/competitions/" + id.String()},
		{http.MethodPost, "/api/v1/competitions/" + id.String() + "/participants"},
		{http.MethodPatch, "/api/v1/participants/1"},
		{http.MethodDelete, "/api/v1/participants/1"},
		{http.MethodPut, "/api/v1/participants/1/plans"},
		{http.MethodPost, "/api/v1/participants/1/attempts"},
		{http.MethodPut, "/api/v1/attempts/1"},
		{http.MethodPost, "/api/v1/competitions/" + id.String() + "/turn/result"},
		{http.MethodPost, "/api/v1/ingest/sheet?competition=" + id.String()},
	}
	for _, rt := range routes {
		if rec := do(s, rt.method, rt.path, "{}", false); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", rt.method, rt.path, rec.Code)
		}
	}
}

// TestTurn verifies the current turn is served and bad ids map to 400 and 404.
func TestTurn(t *testing.T) {
	s, store := newTestServer(t)

	rec := do(s, http.MethodGet, "/api/v1/competitions/"+store.comp.ID.String()+"/turn", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var turn scoring.Turn
	if err := json.NewDecoder(rec.Body).Decode(&turn); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if turn.LifterID != 1 || turn.Lift != models.LiftSquat || turn.Weight != 80 {
		t.Errorf("turn = %+v, want Ana squatting 80", turn)
	}

	if rec := do(s, http.MethodGet, "/api/v1/competitions/not-a-uuid/turn", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
	if rec := do(s, http.MethodGet, "/api/v1/competitions/"+uuid.NewString()+"/turn", "", false); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

// TestRecordResult verifies results for the lifter on the platform are
// stored and others are refused with 409.
func TestRecordResult(t *testing.T) {
	s, store := newTestServer(t)
	path := "/api/v1/competitions/" + store.comp.ID.String() + "/turn/result"

	rec := do(s, http.MethodPost, path, `{"lifter_id":2,"result":"success"}`, true)
	if rec.Code != http.StatusConflict {
		t.Errorf("wrong lifter status = %d, want 409", rec.Code)
	}

	rec = do(s, http.MethodPost, path, `{"lifter_id":1,"result":"maybe"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad result status = %d, want 400", rec.Code)
	}

	rec = do(s, http.MethodPost, path, `{"lifter_id":1,"result":"EXITO"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var out live.Outcome
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Attempt.Weight != 80 || out.Step.Turn.LifterID != 2 || len(store.attempts) != 1 {
		t.Errorf("outcome = %+v", out)
	}
}

// TestRosterStandingsPodium verifies the read-only scoring views.
func TestRosterStandingsPodium(t *testing.T) {
	s, store := newTestServer(t)
	base := "/api/v1/competitions/" + store.comp.ID.String()

	rec := do(s, http.MethodGet, base+"/roster", "", false)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"deadlift"`) {
		t.Errorf("roster status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = do(s, http.MethodGet, base+"/standings", "", false)
	var st live.Standings
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil || len(st.Overall) != 2 {
		t.Errorf("standings = %+v, %v", st, err)
	}

	if rec := do(s, http.MethodGet, base+"/podium/bench?n=1", "", false); rec.Code != http.StatusOK {
		t.Errorf("podium status = %d", rec.Code)
	}
	if rec := do(s, http.MethodGet, base+"/podium/curl", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown lift status = %d, want 400", rec.Code)
	}
	if rec := do(s, http.MethodGet, base+"/podium/bench?n=0", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("n=0 status = %d, want 400", rec.Code)
	}
}

// TestValidation verifies malformed bodies are rejected before storage is touched.
func TestValidation(t *testing.T) {
	s, store := newTestServer(t)
	tests := []struct {
		name, method, path, body string
	}{
		{"bad JSON", http.MethodPost, "/api/v1/competitions", `{`},
		{"unknown field", http.MethodPost, "/api/v1/competitions", `{"name":"x","venue":"y"}`},
		{"missing name", http.MethodPost, "/api/v1/competitions", `{"date":"2026-05-01"}`},
		{"bad phase", http.MethodPost, "/api/v1/competitions", `{"name":"x","phase":"warmup"}`},
		{"bad participant id", http.MethodPatch, "/api/v1/participants/abc", `{}`},
		{"plan without lift", http.MethodPut, "/api/v1/participants/1/plans", `{"weights":[100]}`},
		{"plan off-step weight", http.MethodPut, "/api/v1/participants/1/plans", `{"lift":"squat","weights":[101]}`},
		{"plan too many weights", http.MethodPut, "/api/v1/participants/1/plans", `{"lift":"squat","weights":[100,105,110,115]}`},
		{"attempt without lift", http.MethodPost, "/api/v1/participants/1/attempts", `{"weight":100}`},
		{"attempt unknown lift", http.MethodPost, "/api/v1/participants/1/attempts", `{"lift":"curl"}`},
		{"participant missing name", http.MethodPost, "/api/v1/competitions/" + store.comp.ID.String() + "/participants", `{"body_weight":80}`},
		{"participant bad weight", http.MethodPost, "/api/v1/competitions/" + store.comp.ID.String() + "/participants", `{"first_name":"Ana","body_weight":0}`},
		{"sheet without competition", http.MethodPost, "/api/v1/ingest/sheet", ``},
		{"stats bad id", http.MethodGet, "/api/v1/competitions/nope/stats", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, tt.method, tt.path, tt.body, true)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body)
			}
		})
	}
}

// TestStatusFor verifies sentinel errors map to status codes through wrapping.
func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("participant 3: %w", storage.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("weight 101: %w", models.ErrInvalidWeight), http.StatusBadRequest},
		{live.ErrInvalidResult, http.StatusBadRequest},
		{live.ErrFinished, http.StatusConflict},
		{fmt.Errorf("lifter 2: %w", live.ErrNotCurrent), http.StatusConflict},
		{storage.ErrDuplicateAttempt, http.StatusConflict},
		{storage.ErrNoAttemptsLeft, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

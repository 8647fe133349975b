package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/meetday/internal/live"
	"github.com/claude/meetday/internal/models"
	"github.com/claude/meetday/internal/scoring"
	"github.com/claude/meetday/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the meetday REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the meet lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// getJSON fetches path and decodes the body into v. A 404 maps to
// storage.ErrNotFound.
func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	default:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func competitionPath(id uuid.UUID, rest string) string {
	return "/api/v1/competitions/" + id.String() + rest
}

func (c *HTTPClient) ListCompetitions(ctx context.Context) ([]models.CompetitionRow, error) {
	var comps []models.CompetitionRow
	if err := c.getJSON(ctx, "/api/v1/competitions", nil, &comps); err != nil {
		return nil, err
	}
	return comps, nil
}

func (c *HTTPClient) Roster(ctx context.Context, competitionID uuid.UUID) ([]scoring.Lifter, error) {
	var roster []scoring.Lifter
	if err := c.getJSON(ctx, competitionPath(competitionID, "/roster"), nil, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (c *HTTPClient) CurrentTurn(ctx context.Context, competitionID uuid.UUID) (scoring.Turn, error) {
	var turn scoring.Turn
	err := c.getJSON(ctx, competitionPath(competitionID, "/turn"), nil, &turn)
	return turn, err
}

func (c *HTTPClient) Standings(ctx context.Context, competitionID uuid.UUID) (live.Standings, error) {
	var st live.Standings
	err := c.getJSON(ctx, competitionPath(competitionID, "/standings"), nil, &st)
	return st, err
}

func (c *HTTPClient) Podium(ctx context.Context, competitionID uuid.UUID, lift models.Lift, n int) ([]scoring.Standing, error) {
	params := url.Values{}
	if n > 0 {
		params.Set("n", strconv.Itoa(n))
	}
	var podium []scoring.Standing
	if err := c.getJSON(ctx, competitionPath(competitionID, "/podium/"+lift.String()), params, &podium); err != nil {
		return nil, err
	}
	return podium, nil
}

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/meetday/internal/ingest"
	"github.com/google/uuid"
)

// maxAttempts is how many times a sheet is sent before giving up.
const maxAttempts = 3

// Client sends sheets to the meetday server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the meetday server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// permanentError is a response that will not change on retry.
type permanentError struct {
	status int
	body   string
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("ingest rejected (status %d): %s", e.status, e.body)
}

// SendSheet POSTs a sheet to the server's ingest endpoint. Network errors and
// 5xx responses are retried up to 3 times with exponential backoff; 4xx
// responses are returned at once.
func (c *Client) SendSheet(ctx context.Context, competitionID uuid.UUID, source string, data []byte) (*ingest.Result, error) {
	params := url.Values{"competition": {competitionID.String()}, "source": {source}}
	endpoint := c.serverURL + "/api/v1/ingest/sheet?" + params.Encode()

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(1<<uint(attempt-1))):
			}
		}

		result, err := c.post(ctx, endpoint, data)
		if err == nil {
			return result, nil
		}
		if _, ok := err.(*permanentError); ok {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) post(ctx context.Context, endpoint string, data []byte) (*ingest.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &permanentError{body: err.Error()}
	}
	req.Header.Set("Content-Type", "text/csv; charset=utf-8")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &permanentError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	default:
		return nil, fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result ingest.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding ingest result: %w", err)
	}
	return &result, nil
}

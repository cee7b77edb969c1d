package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/report"
)

// HTTPClient implements DataSource by calling the FitPlanner REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the dataset and model live on the remote server.
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
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// apiError is the error body written by the REST API.
type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in any) (int, []byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("httpclient: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError(path, status, body)
	}
	return body, nil
}

// statusError converts a non-200 response into an error, restoring the
// sentinel for an unavailable dataset.
func statusError(path string, status int, body []byte) error {
	var e apiError
	_ = json.Unmarshal(body, &e)
	if status == http.StatusServiceUnavailable && e.Kind == string(models.KindDataUnavailable) {
		return fmt.Errorf("httpclient: %s: %w", path, models.ErrDataUnavailable)
	}
	if e.Error != "" {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, status, e.Error)
	}
	return fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
}

func limitParam(name string, n int) url.Values {
	v := url.Values{}
	if n > 0 {
		v.Set(name, strconv.Itoa(n))
	}
	return v
}

func (c *HTTPClient) Summary(ctx context.Context, top int) (*report.Summary, error) {
	body, err := c.get(ctx, "/api/v1/summary", limitParam("top", top))
	if err != nil {
		return nil, err
	}

	var sum report.Summary
	if err := json.Unmarshal(body, &sum); err != nil {
		return nil, fmt.Errorf("httpclient: decode summary: %w", err)
	}
	return &sum, nil
}

func (c *HTTPClient) BodyParts(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/body-parts", nil)
	if err != nil {
		return nil, err
	}

	var parts []string
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("httpclient: decode body parts: %w", err)
	}
	return parts, nil
}

func (c *HTTPClient) Sample(ctx context.Context, bodyPart string, limit int) ([]models.ExerciseRecord, error) {
	params := limitParam("limit", limit)
	params.Set("body_part", bodyPart)

	body, err := c.get(ctx, "/api/v1/exercises/sample", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Exercises []models.ExerciseRecord `json:"exercises"`
		Warning   string                  `json:"warning"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode sample: %w", err)
	}
	if resp.Warning != "" {
		return nil, fmt.Errorf("%w: %q", models.ErrNoMatch, bodyPart)
	}
	return resp.Exercises, nil
}

func (c *HTTPClient) Advice(ctx context.Context, goal string) (models.AdviceResult, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/advice", nil, map[string]string{"goal": goal})
	if err != nil {
		return models.AdviceResult{}, err
	}

	switch status {
	case http.StatusOK, http.StatusBadGateway:
		var res models.AdviceResult
		if err := json.Unmarshal(body, &res); err != nil {
			return models.AdviceResult{}, fmt.Errorf("httpclient: decode advice: %w", err)
		}
		return res, nil
	case http.StatusBadRequest:
		return models.AdviceResult{}, fmt.Errorf("%w: %q", models.ErrUnknownGoal, goal)
	}
	return models.AdviceResult{}, statusError("/api/v1/advice", status, body)
}

func (c *HTTPClient) History(ctx context.Context, limit int) ([]models.AdviceResult, error) {
	body, err := c.get(ctx, "/api/v1/advice/history", limitParam("limit", limit))
	if err != nil {
		return nil, err
	}

	var hist []models.AdviceResult
	if err := json.Unmarshal(body, &hist); err != nil {
		return nil, fmt.Errorf("httpclient: decode advice history: %w", err)
	}
	return hist, nil
}

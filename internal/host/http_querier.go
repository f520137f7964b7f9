package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPQuerier forwards queries as JSON to a relay running next to the dedicated server
type HTTPQuerier struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewHTTPQuerier creates a querier posting to baseURL + "/query"
func NewHTTPQuerier(baseURL, token string) *HTTPQuerier {
	return &HTTPQuerier{
		url:   strings.TrimSuffix(baseURL, "/") + "/query",
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type queryRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

type queryError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *queryError     `json:"error,omitempty"`
}

// Query implements Querier
func (q *HTTPQuerier) Query(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	data, err := json.Marshal(queryRequest{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if q.token != "" {
		req.Header.Set("Authorization", "Bearer "+q.token)
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out queryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("fault %d: %s", out.Error.Code, out.Error.Message)
	}
	return out.Result, nil
}

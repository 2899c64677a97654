// Package apiclient talks to the api_gateway over HTTP. It implements the parse and save
// collaborators used by the capture session and the listing used by the CLI.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fingenie-expense-tracker/internal/domain/summary"
	"github.com/fingenie-expense-tracker/internal/domain/transaction"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	maxErrorBody         = 4 << 10
)

// Client calls the FinGenie API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. timeout bounds every request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseTranscript sends a transcript to the parser endpoint and returns the raw parse.
func (c *Client) ParseTranscript(ctx context.Context, transcript string) (transaction.Raw, error) {
	var out struct {
		Parsed transaction.Raw `json:"parsed"`
	}
	body := map[string]string{"transcript": transcript}
	if err := c.do(ctx, http.MethodPost, "/api/v1/voice-expense", body, nil, &out); err != nil {
		return nil, err
	}
	if out.Parsed == nil {
		return nil, fmt.Errorf("parse response has no parsed object")
	}
	return out.Parsed, nil
}

// SaveTransaction submits sub. Retrying with the same key never stores a second copy.
func (c *Client) SaveTransaction(ctx context.Context, sub transaction.Submission, idempotencyKey string) (*transaction.Ack, error) {
	var headers http.Header
	if idempotencyKey != "" {
		headers = http.Header{idempotencyKeyHeader: []string{idempotencyKey}}
	}

	var ack transaction.Ack
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", sub, headers, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ListTransactions returns every stored record as raw maps.
func (c *Client) ListTransactions(ctx context.Context) ([]transaction.Raw, error) {
	var records []transaction.Raw
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions", nil, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []transaction.Raw{}
	}
	return records, nil
}

// Stats returns the server-side dashboard.
func (c *Client) Stats(ctx context.Context) (summary.Dashboard, error) {
	var dash summary.Dashboard
	err := c.do(ctx, http.MethodGet, "/api/v1/stats", nil, nil, &dash)
	return dash, err
}

func (c *Client) do(ctx context.Context, method, path string, in any, headers http.Header, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}

	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

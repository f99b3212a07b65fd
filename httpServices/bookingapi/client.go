package bookingapi

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

// CredentialSource supplies the bearer token and company scope for every
// request. Clear is invoked on a 401 so a stale token is dropped once; there
// is no automatic re-login or redirect.
type CredentialSource interface {
	Token() string
	CompanyID() string
	Clear()
}

// Client talks to the upstream booking REST resource. One request, one
// response; no retries, no coordination between in-flight calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      CredentialSource
}

func NewClient(baseURL string, creds CredentialSource) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// APIError is a non-2xx upstream reply with the best message that could be
// extracted from the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("booking API returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == status
}

// List fetches the booking collection, scoped to the caller's own bookings
// when my is set.
func (c *Client) List(ctx context.Context, my bool) ([]any, error) {
	path := "/api/bookings"
	if my {
		path = "/api/bookings/my"
	}
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return extractList(body), nil
}

// Get fetches one raw booking record.
func (c *Client) Get(ctx context.Context, id string) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/bookings/"+id, nil)
	if err != nil {
		return nil, err
	}
	return extractObject(body), nil
}

// Create posts a new booking payload and returns the stored record.
func (c *Client) Create(ctx context.Context, payload map[string]any) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/bookings", payload)
	if err != nil {
		return nil, err
	}
	return extractObject(body), nil
}

// Update replaces a booking and returns the stored record.
func (c *Client) Update(ctx context.Context, id string, payload map[string]any) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodPut, "/api/bookings/"+id, payload)
	if err != nil {
		return nil, err
	}
	return extractObject(body), nil
}

// Delete removes a booking.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/bookings/"+id, nil)
	return err
}

// Agents fetches the agent roster.
func (c *Client) Agents(ctx context.Context) ([]any, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/agent", nil)
	if err != nil {
		return nil, err
	}
	return extractList(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (any, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewBuffer(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := strings.TrimSpace(c.creds.Token()); token != "" {
			if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = "Bearer " + token
			}
			req.Header.Set("Authorization", token)
		}
		if company := strings.TrimSpace(c.creds.CompanyID()); company != "" {
			req.Header.Set("x-company-id", company)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking API request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.creds != nil {
		c.creds.Clear()
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: ExtractMessage(raw, resp.Status),
		}
	}

	if len(raw) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded, nil
}

// ExtractMessage digs a human-readable error out of an upstream body:
// a structured {"message": ...} (or "error"), else the body itself when it
// is a short string, else the fallback.
func ExtractMessage(body []byte, fallback string) string {
	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil && plain != "" {
		return plain
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) <= 200 && !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "<") {
		return s
	}
	return fallback
}

// Upstream responses wrap payloads inconsistently: a bare value, {"data": v}
// or {"bookings": v}. These helpers accept all three.

func extractList(body any) []any {
	switch v := body.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"data", "bookings", "agents", "results"} {
			if inner, ok := v[key].([]any); ok {
				return inner
			}
		}
	}
	return []any{}
}

func extractObject(body any) map[string]any {
	switch v := body.(type) {
	case map[string]any:
		if inner, ok := v["data"].(map[string]any); ok {
			return inner
		}
		if inner, ok := v["booking"].(map[string]any); ok {
			return inner
		}
		return v
	}
	return map[string]any{}
}

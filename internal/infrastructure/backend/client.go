package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/config"
)

// Client talks to the business backend. Every response is wrapped in an
// envelope; see envelope.ok for how success is decided.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// WithHTTPClient replaces the underlying transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type envelope struct {
	Code    *int            `json:"code"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ok accepts both numeric success conventions (0 and 200). With neither
// code nor success present the HTTP status decides.
func (e *envelope) ok(statusCode int) bool {
	if e.Code == nil && e.Success == nil {
		return statusCode >= 200 && statusCode < 300
	}
	if e.Success != nil && !*e.Success {
		return false
	}
	if e.Code != nil && *e.Code != 0 && *e.Code != http.StatusOK {
		return false
	}
	return true
}

func (e *envelope) code() int {
	if e.Code == nil {
		return 0
	}
	return *e.Code
}

func sendRequest[Req any, Resp any](c *Client, ctx context.Context, method, path string, body *Req) (*Resp, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &application.BackendError{
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
			}
		}
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.ok(resp.StatusCode) {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &application.BackendError{
			StatusCode: resp.StatusCode,
			Code:       env.code(),
			Message:    message,
		}
	}

	var result Resp
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return &result, nil
}

// Package client is a small HTTP client for the email gateway's send
// endpoint, used by mailgatectl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
}

type Option func(*Client) error

func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:      &http.Client{Timeout: 30 * time.Second},
		userAgent: "mailgatectl",
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.baseURL == nil {
		return nil, errors.New("server is required")
	}
	return c, nil
}

func WithServer(server string) Option {
	return func(c *Client) error {
		if server == "" {
			return errors.New("server is required")
		}
		parsed, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server: %w", err)
		}
		c.baseURL = parsed
		return nil
	}
}

func WithAPIKey(apiKey string) Option {
	return func(c *Client) error {
		c.apiKey = apiKey
		return nil
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("http client is nil")
		}
		c.http = httpClient
		return nil
	}
}

// SendRequest mirrors the gateway's send endpoint body.
type SendRequest struct {
	To         []string `json:"to"`
	Subject    string   `json:"subject"`
	Content    string   `json:"content,omitempty"`
	HTML       string   `json:"html,omitempty"`
	PlatformID string   `json:"platformId"`
}

// SendResponse mirrors the gateway's completion envelope.
type SendResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Platform string `json:"platform"`
	Details  []struct {
		To     string `json:"to"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	} `json:"details"`
}

// APIError is returned when the gateway rejects the request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway rejected request (HTTP %d): %s", e.StatusCode, e.Message)
}

// Send posts one email request. A rejection becomes an *APIError; a
// completion (even a total delivery failure) is returned as a SendResponse.
func (c *Client) Send(ctx context.Context, sendReq SendRequest) (*SendResponse, error) {
	payload, err := json.Marshal(sendReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(body, &sendResp); err == nil && sendResp.Message != "" {
		return &sendResp, nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	return nil, fmt.Errorf("unexpected response (HTTP %d): %s", resp.StatusCode, string(body))
}

// Package client talks to the relay over HTTP and keeps a terminal transcript.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
)

const maxErrorBody = 4 << 10

// APIError is a non-2xx relay answer.
type APIError struct {
	Status int
	Body   chat.ErrorBody
}

func (e *APIError) Error() string {
	if e.Body.Detail != "" {
		return fmt.Sprintf("relay returned %d: %s (%s)", e.Status, e.Body.Error, e.Body.Detail)
	}
	if e.Body.Error != "" {
		return fmt.Sprintf("relay returned %d: %s", e.Status, e.Body.Error)
	}
	return fmt.Sprintf("relay returned %d", e.Status)
}

// Greeting is the subset of /api/persona the terminal UI shows.
type Greeting struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Greeting string `json:"greeting"`
}

// Client is a minimal HTTP client for the relay.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient is New with a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Send posts one message and returns the relay reply.
func (c *Client) Send(ctx context.Context, message string) (chat.Reply, error) {
	payload, err := json.Marshal(chat.Request{Message: message})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var reply chat.Reply
	if err := c.do(req, &reply); err != nil {
		return chat.Reply{}, err
	}
	return reply, nil
}

// Persona fetches the persona greeting.
func (c *Client) Persona(ctx context.Context) (Greeting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/persona", nil)
	if err != nil {
		return Greeting{}, fmt.Errorf("build request: %w", err)
	}

	var g Greeting
	if err := c.do(req, &g); err != nil {
		return Greeting{}, err
	}
	return g, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(data, &apiErr.Body)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Body: chat.ErrorBody{Error: "invalid response body", Detail: err.Error()}}
	}
	return nil
}

// Package todo is the HTTP boundary adapter for the external todo service.
// It carries no business logic: one method per REST operation, bearer-token
// auth forwarded verbatim, decoded JSON or a typed error back.
package todo

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
)

// APIError reports a non-2xx response from the todo service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todo API returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the todo service REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given API root, e.g. "http://127.0.0.1:8000/api".
// timeout <= 0 means 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// List fetches all todos owned by the token's user.
func (c *Client) List(ctx context.Context, token string) (*TodoList, error) {
	var out TodoList
	if err := c.do(ctx, http.MethodGet, "/todos/", nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID fetches a single todo by numeric id.
func (c *Client) GetByID(ctx context.Context, id int, token string) (*TodoItem, error) {
	var out TodoItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/todo/%d/", id), nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByTitle fetches a single non-done todo by exact title.
func (c *Client) GetByTitle(ctx context.Context, title, token string) (*TodoItem, error) {
	var out TodoItem
	path := "/todo/title/" + url.PathEscape(title) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates a new todo.
func (c *Client) Create(ctx context.Context, payload CreatePayload, token string) (*TodoItem, error) {
	var out TodoItem
	if err := c.do(ctx, http.MethodPost, "/todo/", payload, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a sparse update to an existing todo.
func (c *Client) Update(ctx context.Context, id int, payload UpdatePayload, token string) (*TodoItem, error) {
	var out TodoItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/todo/%d/", id), payload, token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a todo. The service answers 204 with no body, so the result
// is synthesized here.
func (c *Client) Delete(ctx context.Context, id int, token string) (*DeleteResult, error) {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/todo/%d/", id), nil, token, nil); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: id}, nil
}

// do issues one request and decodes the response into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, method, path string, body any, token string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

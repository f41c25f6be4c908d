// Package client is the Go SDK for the Arena board server. It bundles a REST
// client, a reconciling in-memory board store, drag-and-drop resolution, and
// a realtime subscriber that keeps the store synchronized over SSE.
package client

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

// APIError is a non-2xx response decoded from the server's problem body.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("client: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("client: %d %s", e.Status, e.Title)
}

// Client is a minimal REST client for the board API. It is safe for
// concurrent use after SetToken.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// New creates a Client for the given server base URL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// Login authenticates and stores the access token on the client. The refresh
// token is returned for the caller to persist.
func (c *Client) Login(ctx context.Context, email, password string) (refreshToken string, err error) {
	in := map[string]string{"email": email, "password": password}
	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", in, &out); err != nil {
		return "", err
	}
	c.token = out.AccessToken
	return out.RefreshToken, nil
}

func (c *Client) ListBoards(ctx context.Context) ([]Board, error) {
	var out []Board
	err := c.do(ctx, http.MethodGet, "/api/v1/boards", nil, &out)
	return out, err
}

func (c *Client) CreateBoard(ctx context.Context, title string) (*Board, error) {
	var out Board
	err := c.do(ctx, http.MethodPost, "/api/v1/boards", map[string]string{"title": title}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListColumns(ctx context.Context, boardID string) ([]Column, error) {
	var out []Column
	err := c.do(ctx, http.MethodGet, "/api/v1/columns?boardId="+url.QueryEscape(boardID), nil, &out)
	return out, err
}

func (c *Client) CreateColumn(ctx context.Context, boardID, title, color string) (*Column, error) {
	in := map[string]string{"boardId": boardID, "title": title, "color": color}
	var out Column
	if err := c.do(ctx, http.MethodPost, "/api/v1/columns", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateColumn(ctx context.Context, boardID, id, title, color string) (*Column, error) {
	in := map[string]string{"boardId": boardID, "title": title, "color": color}
	var out Column
	if err := c.do(ctx, http.MethodPut, "/api/v1/columns/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteColumn(ctx context.Context, boardID, id string) error {
	path := "/api/v1/columns/" + url.PathEscape(id) + "?boardId=" + url.QueryEscape(boardID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, boardID string) ([]Task, error) {
	var out []Task
	err := c.do(ctx, http.MethodGet, "/api/v1/tasks?boardId="+url.QueryEscape(boardID), nil, &out)
	return out, err
}

// CreateTaskRequest carries the fields accepted when creating a task.
type CreateTaskRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	ColumnID     string  `json:"columnId"`
	BoardID      string  `json:"boardId"`
	AssignedToID *string `json:"assignedToId,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTaskRequest carries the mutable task fields. Zero values are ignored
// by the server except Description and Order, which are pointers so that
// clearing and moving to position zero stay expressible.
type UpdateTaskRequest struct {
	Title        string  `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       string  `json:"status,omitempty"`
	ColumnID     string  `json:"columnId,omitempty"`
	AssignedToID *string `json:"assignedToId,omitempty"`
	Order        *int    `json:"order,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkUpdateTasks(ctx context.Context, patches []TaskPatch) ([]Task, error) {
	in := map[string]any{"tasks": patches}
	var out []Task
	err := c.do(ctx, http.MethodPut, "/api/v1/tasks/bulk", in, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/api/v1/users", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Title: resp.Status}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

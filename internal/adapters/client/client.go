// Package client talks to the todoboard backend over HTTP and WebSocket.
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

	"github.com/gorilla/websocket"

	"todoboard/internal/domain/entities"
	"todoboard/internal/dto"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client is a backend data service client.
type Client struct {
	baseURL  string
	language string
	http     *http.Client
	dialer   *websocket.Dialer
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLanguage sets Accept-Language so backend errors come back localized.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// New returns a Client for the backend at baseURL (http or https).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create stores a new todo and returns it with its backend-assigned fields.
func (c *Client) Create(ctx context.Context, content string) (*entities.Todo, error) {
	body, err := json.Marshal(dto.CreateTodoRequest{Content: &content})
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	var out dto.TodoResponse
	if err := c.do(ctx, http.MethodPost, "/api/todos", bytes.NewReader(body), &out); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	todo := dto.ResponseToTodo(out)
	return &todo, nil
}

// List returns all todos in creation order.
func (c *Client) List(ctx context.Context) ([]entities.Todo, error) {
	var out dto.ListTodosResponse
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &out); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return dto.ResponsesToTodos(out.Items), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e dto.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Code = e.Code
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ObserveQuery opens a live query over the todo list. The returned
// subscription delivers the full list now and after every change until it is
// closed or ctx is cancelled.
func (c *Client) ObserveQuery(ctx context.Context) (*Subscription, error) {
	url := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/todos/observe"
	header := http.Header{}
	if c.language != "" {
		header.Set("Accept-Language", c.language)
	}
	conn, resp, err := c.dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("observe todos: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("observe todos: %w", err)
	}
	return newSubscription(ctx, conn), nil
}

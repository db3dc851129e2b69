package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

const (
	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 1 << 16
)

// Client talks to the Task API over HTTP JSON.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request through its context. Zero means no
// timeout. The http.Client itself is left untouched, so a shared client
// passed to WithHTTPClient keeps its own settings.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger receiving one line per request.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for the API rooted at baseURL
// (for example http://localhost:5000/api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns all tasks in server order.
func (c *Client) List(ctx context.Context) ([]*task.Task, error) {
	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, nil
}

// Get returns a single task.
func (c *Client) Get(ctx context.Context, id int) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create creates a task and returns the server's record.
func (c *Client) Create(ctx context.Context, p task.Payload) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", p, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update replaces the editable fields of a task and returns the server's record.
func (c *Client) Update(ctx context.Context, id int, p task.Payload) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), p, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// Comments returns the comments of a task, newest first.
func (c *Client) Comments(ctx context.Context, taskID int) ([]*task.Comment, error) {
	var comments []*task.Comment
	if err := c.do(ctx, http.MethodGet, taskPath(taskID)+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment attaches a comment to a task.
func (c *Client) AddComment(ctx context.Context, taskID int, content string) (*task.Comment, error) {
	body := map[string]string{"content": content}
	var cm task.Comment
	if err := c.do(ctx, http.MethodPost, taskPath(taskID)+"/comments", body, &cm); err != nil {
		return nil, err
	}
	return &cm, nil
}

func taskPath(id int) string {
	return "/tasks/" + strconv.Itoa(id)
}

// do sends one request and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	reqID := uuid.NewString()
	fail := func(status int, msg string, err error) error {
		return &Error{Method: method, Path: path, StatusCode: status, RequestID: reqID, Message: msg, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fail(0, "", fmt.Errorf("encoding request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail(0, "", fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s %s failed after %s req=%s: %v", method, path, time.Since(start), reqID, err)
		return fail(0, "", err)
	}
	defer resp.Body.Close()
	c.logger.Printf("%s %s -> %d in %s req=%s", method, path, resp.StatusCode, time.Since(start), reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errorMessage(resp.Body), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

// errorMessage extracts the "error" (or "message") field from a JSON error
// body. Non-JSON bodies yield an empty message.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var env struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &env) != nil {
		return ""
	}
	if env.Error != "" {
		return env.Error
	}
	return env.Message
}

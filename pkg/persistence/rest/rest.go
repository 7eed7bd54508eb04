// Package rest talks to a PostgREST-style hosted database exposing a
// projects table under /rest/v1/projects.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/pkg/persistence"
)

const (
	projectsPath   = "/rest/v1/projects"
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// Option customises the Client.
type Option func(*Client)

// WithHTTPClient supplies the transport. The client is copied; a zero Timeout
// is replaced by the configured request timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			clone := *client
			c.http = &clone
		}
	}
}

// WithAPIKey sets the key sent as both apikey and bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithClock overrides the timestamp written on update.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client implements persistence.Store over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	apiKey  string
	timeout time.Duration
	now     func() time.Time
}

var _ persistence.Store = (*Client)(nil)

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("rest: %s projects: unexpected status %d", e.Method, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// New builds a Client for baseURL, e.g. https://xyz.supabase.co.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("rest: base url %q must be absolute", baseURL)
	}
	c := &Client{base: base, timeout: defaultTimeout, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Timeout == 0 {
		c.http.Timeout = c.timeout
	}
	return c, nil
}

type projectRow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Config      json.RawMessage `json:"config"`
	Status      string          `json:"status"`
	DeployedURL *string         `json:"deployed_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (r projectRow) document() persistence.Document {
	doc := persistence.Document{
		ID:        r.ID,
		Name:      r.Name,
		Config:    r.Config,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.DeployedURL != nil {
		doc.DeployedURL = *r.DeployedURL
	}
	return doc
}

func (c *Client) Get(ctx context.Context, id string) (persistence.Document, error) {
	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("select", "*")

	var rows []projectRow
	if err := c.do(ctx, http.MethodGet, query, nil, &rows); err != nil {
		return persistence.Document{}, err
	}
	if len(rows) == 0 {
		return persistence.Document{}, fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	return rows[0].document(), nil
}

func (c *Client) List(ctx context.Context) ([]persistence.Summary, error) {
	query := url.Values{}
	query.Set("select", "id,name,status,updated_at")
	query.Set("order", "updated_at.desc")

	var rows []persistence.Summary
	if err := c.do(ctx, http.MethodGet, query, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Insert(ctx context.Context, name string, config json.RawMessage) (persistence.Document, error) {
	body := map[string]any{"name": name, "config": config}
	var rows []projectRow
	if err := c.do(ctx, http.MethodPost, nil, body, &rows); err != nil {
		return persistence.Document{}, err
	}
	if len(rows) == 0 {
		return persistence.Document{}, errors.New("rest: insert returned no rows")
	}
	return rows[0].document(), nil
}

func (c *Client) Update(ctx context.Context, id, name string, config json.RawMessage) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	body := map[string]any{
		"name":       name,
		"config":     config,
		"updated_at": c.now().UTC().Format(time.RFC3339Nano),
	}
	var rows []projectRow
	if err := c.do(ctx, http.MethodPatch, query, body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: %s", persistence.ErrNotFound, id)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, query url.Values, body any, out any) error {
	endpoint := *c.base
	endpoint.Path = strings.TrimRight(endpoint.Path, "/") + projectsPath
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: encode %s body: %w", method, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("rest: build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s projects: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest: decode %s response: %w", method, err)
	}
	return nil
}

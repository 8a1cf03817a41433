package connect

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
)

// DefaultHTTPTimeout bounds a single request to the Connect REST API.
const DefaultHTTPTimeout = 30 * time.Second

// ConnectorState is the state reported by GET /connectors/{name}/status.
type ConnectorState string

const (
	StateRunning    ConnectorState = "RUNNING"
	StatePaused     ConnectorState = "PAUSED"
	StateFailed     ConnectorState = "FAILED"
	StateUnassigned ConnectorState = "UNASSIGNED"
)

// TaskStatus is the state of a single connector task.
type TaskStatus struct {
	ID       int            `json:"id"`
	State    ConnectorState `json:"state"`
	WorkerID string         `json:"worker_id,omitempty"`
	Trace    string         `json:"trace,omitempty"`
}

// ConnectorStatus is the body of GET /connectors/{name}/status.
type ConnectorStatus struct {
	Name      string `json:"name"`
	Connector struct {
		State    ConnectorState `json:"state"`
		WorkerID string         `json:"worker_id,omitempty"`
		Trace    string         `json:"trace,omitempty"`
	} `json:"connector"`
	Tasks []TaskStatus `json:"tasks,omitempty"`
	Type  string       `json:"type,omitempty"`
}

// State returns the connector level state.
func (s *ConnectorStatus) State() ConnectorState {
	return s.Connector.State
}

// API is the subset of the Kafka Connect REST API the operator uses.
type API interface {
	List(ctx context.Context) ([]string, error)
	Config(ctx context.Context, name string) (map[string]string, error)
	PutConfig(ctx context.Context, name string, config map[string]string) error
	Delete(ctx context.Context, name string) error
	Status(ctx context.Context, name string) (*ConnectorStatus, error)
	Pause(ctx context.Context, name string) error
	Resume(ctx context.Context, name string) error
}

// ConnectRestError is returned for any non-2xx response.
type ConnectRestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *ConnectRestError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a ConnectRestError with status 404.
func IsNotFound(err error) bool {
	var restErr *ConnectRestError
	return errors.As(err, &restErr) && restErr.StatusCode == http.StatusNotFound
}

// Client talks to one Kafka Connect REST endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the REST API served at baseURL, for
// example http://my-mm2-mirrormaker2-api.kafka.svc:8083.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ API = (*Client)(nil)

// List returns the names of the connectors known to the cluster.
func (c *Client) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/connectors", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Config returns the current configuration of the named connector.
func (c *Client) Config(ctx context.Context, name string) (map[string]string, error) {
	var config map[string]string
	if err := c.do(ctx, http.MethodGet, connectorPath(name, "config"), nil, &config); err != nil {
		return nil, err
	}
	return config, nil
}

// PutConfig creates the connector or replaces its configuration.
func (c *Client) PutConfig(ctx context.Context, name string, config map[string]string) error {
	return c.do(ctx, http.MethodPut, connectorPath(name, "config"), config, nil)
}

// Delete removes the connector.
func (c *Client) Delete(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, connectorPath(name, ""), nil, nil)
}

// Status returns the connector and task states.
func (c *Client) Status(ctx context.Context, name string) (*ConnectorStatus, error) {
	status := &ConnectorStatus{}
	if err := c.do(ctx, http.MethodGet, connectorPath(name, "status"), nil, status); err != nil {
		return nil, err
	}
	return status, nil
}

// Pause asks the workers to pause the connector and its tasks.
func (c *Client) Pause(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, connectorPath(name, "pause"), nil, nil)
}

// Resume asks the workers to resume a paused connector.
func (c *Client) Resume(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, connectorPath(name, "resume"), nil, nil)
}

func connectorPath(name, sub string) string {
	p := "/connectors/" + url.PathEscape(name)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response of %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ConnectRestError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the message of a Connect error body
// ({"error_code":404,"message":"..."}), falling back to the raw body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(data))
}

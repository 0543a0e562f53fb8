package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aegis/internal/facade"
	"aegis/internal/models"
)

// Backend is the controller's view of the Aegis facade.
type Backend interface {
	Status(ctx context.Context) (models.SystemStatus, error)
	Analysis(ctx context.Context) (models.AnalysisData, error)
	Execute(ctx context.Context, command string) (models.ExecuteResult, error)
}

// Client reaches a running `aegis serve` over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient targets baseURL, e.g. http://127.0.0.1:3000. timeout <= 0 means 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken sets the bearer token sent with every request.
func (c *Client) WithToken(token string) *Client {
	c.token = strings.TrimSpace(token)
	return c
}

func (c *Client) Status(ctx context.Context) (models.SystemStatus, error) {
	var st models.SystemStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &st)
	return st, err
}

func (c *Client) Analysis(ctx context.Context) (models.AnalysisData, error) {
	var a models.AnalysisData
	err := c.do(ctx, http.MethodGet, "/api/analysis", nil, &a)
	return a, err
}

func (c *Client) Execute(ctx context.Context, command string) (models.ExecuteResult, error) {
	var res models.ExecuteResult
	err := c.do(ctx, http.MethodPost, "/api/execute", models.ExecuteRequest{Command: command}, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// Local serves the controller from an in-process facade.
type Local struct {
	facade *facade.Facade
}

func NewLocal(f *facade.Facade) *Local {
	return &Local{facade: f}
}

func (l *Local) Status(ctx context.Context) (models.SystemStatus, error) {
	return l.facade.GetStatus(ctx), nil
}

func (l *Local) Analysis(ctx context.Context) (models.AnalysisData, error) {
	return l.facade.GetAnalysis(), nil
}

func (l *Local) Execute(ctx context.Context, command string) (models.ExecuteResult, error) {
	return l.facade.ExecuteCommand(command), nil
}

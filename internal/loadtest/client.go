package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/types"
)

// client wraps http.Client with the dashboard API calls.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(cfg Config) *client {
	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

// do sends a request and decodes a JSON answer into out when out is non-nil.
// It returns the response status.
func (c *client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *client) expect(ctx context.Context, method, path string, body, out any, ok ...int) error {
	status, err := c.do(ctx, method, path, body, out)
	if err != nil {
		return err
	}
	for _, s := range ok {
		if status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s returned %d", ErrStatus, method, path, status)
}

func (c *client) health(ctx context.Context) error {
	return c.expect(ctx, http.MethodGet, "/healthz", nil, nil, http.StatusOK)
}

func (c *client) controls(ctx context.Context) (service.Controls, error) {
	var out service.Controls
	err := c.expect(ctx, http.MethodGet, "/api/controls", nil, &out, http.StatusOK)
	return out, err
}

func (c *client) createSession(ctx context.Context) (service.SessionView, error) {
	var out service.SessionView
	err := c.expect(ctx, http.MethodPost, "/api/sessions", nil, &out, http.StatusCreated)
	return out, err
}

func (c *client) getSession(ctx context.Context, id string) (service.SessionView, error) {
	var out service.SessionView
	err := c.expect(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(id), nil, &out, http.StatusOK)
	return out, err
}

func (c *client) updateSession(ctx context.Context, id string, state types.FilterState) (service.SessionView, error) {
	body := map[string]any{
		"site":          state.Site,
		"payload_range": []float64{state.Payload.Lower, state.Payload.Upper},
	}
	var out service.SessionView
	err := c.expect(ctx, http.MethodPatch, "/api/sessions/"+url.PathEscape(id), body, &out, http.StatusOK)
	return out, err
}

func (c *client) deleteSession(ctx context.Context, id string) error {
	return c.expect(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
}

// render fetches a PNG chart and reports whether it had anything to draw.
func (c *client) render(ctx context.Context, chart string, state types.FilterState) (bool, error) {
	q := url.Values{}
	q.Set("site", state.Site)
	q.Set("min", strconv.FormatFloat(state.Payload.Lower, 'f', -1, 64))
	q.Set("max", strconv.FormatFloat(state.Payload.Upper, 'f', -1, 64))
	path := "/api/charts/" + chart + ".png?" + q.Encode()

	status, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNoContent:
		return false, nil
	default:
		return false, fmt.Errorf("%w: GET %s returned %d", ErrStatus, path, status)
	}
}

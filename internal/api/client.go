// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the typed client for the remote events API. It owns no
// business logic: the server enforces capacity, authorization and
// persistence, and this package only shapes requests and decodes responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/senjalabs/senja-web/internal/monitoring"
)

const defaultTimeout = 15 * time.Second

// TokenSource returns the bearer credential for the current request context,
// or "" when the caller is anonymous. The session store is the single writer
// of this value; the client only reads it.
type TokenSource func(ctx context.Context) string

// Client calls the remote events API.
type Client struct {
	baseURL string
	hc      *http.Client
	token   TokenSource
}

// New creates a Client for the given base URL. tokens may be nil for a
// client that only performs anonymous calls.
func New(baseURL string, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = func(context.Context) string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: defaultTimeout},
		token:   tokens,
	}
}

// do performs an API request and returns the raw response body.
// The bearer credential is attached when the token source yields one, and
// every call carries an X-Request-ID for correlation with API-side logs.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		monitoring.ObserveAPIRequest(method, metricPath(path), 0, time.Since(start))
		return nil, fmt.Errorf("api call %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	monitoring.ObserveAPIRequest(method, metricPath(path), resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// metricPath collapses resource IDs and query strings so metric labels stay
// low-cardinality ("/events/abc123?x=1" becomes "/events/:id").
func metricPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	if len(parts) == 3 && (parts[1] == "events" || parts[1] == "bookings") {
		parts[2] = ":id"
	}
	return strings.Join(parts, "/")
}

// getJSON performs a GET request and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// postJSON performs a POST request and decodes the response into out.
// out may be nil when the response body is irrelevant.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

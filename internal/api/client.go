// Package api is the typed client for the catalog backend's REST surface.
// Every request carries the session identity in the X-Session-ID header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 10 * time.Second

// SessionSource supplies the session token attached to every request.
type SessionSource func(ctx context.Context) (string, error)

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: backend returned %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
	session SessionSource
	logger  *zap.Logger
	sfg     singleflight.Group // dedupes concurrent identical catalog reads
}

func NewClient(baseURL string, session SessionSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		session: session,
		logger:  logger,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	sessionID, err := c.session(ctx)
	if err != nil {
		return fmt.Errorf("resolve session id: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Debug("backend error response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(detail))}
	}

	if out == nil {
		return nil
	}
	if errDecode := json.NewDecoder(resp.Body).Decode(out); errDecode != nil {
		return fmt.Errorf("decode %s response: %w", path, errDecode)
	}
	return nil
}

// sharedGet collapses concurrent identical GETs into one backend call.
func sharedGet[T any](ctx context.Context, c *Client, path string) (*T, error) {
	v, err, _ := c.sfg.Do(path, func() (interface{}, error) {
		var out T
		if errGet := c.get(ctx, path, &out); errGet != nil {
			return nil, errGet
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

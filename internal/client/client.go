// Package client talks to the remote grade API over HTTP.
package client

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

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/middleware/requestid"
)

const maxBodyBytes = 4 << 20

// TokenSource supplies the bearer token and is told when the API rejects it.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
	Invalidate(ctx context.Context)
}

// Observer records outbound call metrics.
type Observer interface {
	ObserveAPICall(method, route string, status int, duration time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithErrorReporter sets a hook receiving server and network failures, for
// crash reporting. It runs in addition to logging.
func WithErrorReporter(fn func(error)) Option {
	return func(c *Client) { c.report = fn }
}

// Client is the typed API client. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	logger   *zap.Logger
	observer Observer
	report   func(error)
}

// New constructs a Client for baseURL.
func New(baseURL string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type call struct {
	method string
	path   string
	route  string
	query  url.Values
	body   interface{}
	public bool
}

// do executes the call and returns the response body of a 2xx response.
// Every other outcome is mapped to a typed error here, so callers never see
// raw transport failures.
func (c *Client) do(ctx context.Context, in call) ([]byte, error) {
	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	var reader io.Reader
	if in.body != nil {
		payload, err := json.Marshal(in.body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	reqID := requestid.Ensure(ctx)
	req.Header.Set(requestid.Header, reqID)

	if !in.public && c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	route := in.route
	if route == "" {
		route = in.path
	}
	fields := []zap.Field{
		zap.String("method", in.method),
		zap.String("route", route),
		zap.String("request_id", reqID),
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(in.method, route, 0, time.Since(start))
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.Warn("api request failed", append(fields, zap.Error(err))...)
		appErr := appErrors.FromTransport(err)
		c.reportErr(appErr)
		return nil, appErr
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	duration := time.Since(start)
	c.observe(in.method, route, resp.StatusCode, duration)
	if err != nil {
		c.logger.Warn("api response unreadable", append(fields, zap.Error(err))...)
		appErr := appErrors.FromTransport(err)
		c.reportErr(appErr)
		return nil, appErr
	}

	fields = append(fields, zap.Int("status", resp.StatusCode), zap.Duration("latency", duration))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug("api request", fields...)
		return body, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && !in.public && c.tokens != nil {
		c.tokens.Invalidate(ctx)
	}

	appErr := appErrors.FromResponse(resp.StatusCode, body)
	if appErr.Kind == appErrors.KindServer {
		c.logger.Error("api server error", fields...)
		c.reportErr(fmt.Errorf("%s %s: %w", in.method, route, appErr))
	} else {
		c.logger.Info("api request rejected", append(fields, zap.Strings("messages", appErr.Messages))...)
	}
	return nil, appErr
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveAPICall(method, route, status, d)
	}
}

func (c *Client) reportErr(err error) {
	if c.report != nil {
		c.report(err)
	}
}

func entityPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

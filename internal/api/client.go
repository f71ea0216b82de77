// Package api is the session-aware client for the plant-care backend. Every
// request goes through Client.Do, which attaches the bearer token, applies the
// request timeout, and runs the session-expiry sequence on 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/verdant-app/verdant/internal/session"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client talks to the backend on behalf of the current session.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
	reqlog   *RequestLogger
	now      func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. 0 disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps outbound throughput. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequestLog appends every exchange to rl.
func WithRequestLog(rl *RequestLogger) Option {
	return func(c *Client) { c.reqlog = rl }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, sessions *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		sessions: sessions,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sessions returns the session manager the client reports to.
func (c *Client) Sessions() *session.Manager { return c.sessions }

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

type requestOptions struct {
	anonymous bool
	query     url.Values
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

// Anonymous sends the request without a bearer token and treats 401 as an
// ordinary error (login and signup).
func Anonymous() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// WithQuery adds query parameters.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) { o.query = q }
}

// Response is a raw backend answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Envelope normalizes the body.
func (r *Response) Envelope() (*Envelope, error) {
	return DecodeEnvelope(r.Status, r.Body)
}

// Do performs one request. body, when non-nil, is sent as JSON.
// Any response other than a session-invalidating 401 is returned as-is,
// whatever its status.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			// Wait fails early when the reservation would outlive the deadline.
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
			}
			return nil, &APIError{Kind: KindNetwork, Message: "rate limit wait aborted", Err: err}
		}
	}

	var sess session.Session
	if !ro.anonymous && c.sessions != nil {
		var err error
		sess, err = c.sessions.Current()
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		if sess.Expired(c.now()) {
			c.logger.Debug("token past exp, not sending", "method", method, "path", path)
			c.sessions.Expire(sess.Generation)
			return nil, ErrSessionExpired
		}
	}

	req, err := c.newRequest(ctx, method, path, body, ro.query)
	if err != nil {
		return nil, err
	}
	if sess.SignedIn() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	entry := RequestEntry{
		ID:        uuid.NewString(),
		Timestamp: c.now(),
		Method:    method,
		Path:      path,
		Anonymous: ro.anonymous,
	}
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		entry.DurationMS = time.Since(start).Milliseconds()
		entry.Error = err.Error()
		c.record(entry)
		return nil, &APIError{Kind: KindNetwork, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	entry.Status = resp.StatusCode
	entry.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		entry.Error = err.Error()
		c.record(entry)
		return nil, &APIError{Kind: KindNetwork, Status: resp.StatusCode, Message: "reading response failed", Err: err}
	}
	c.record(entry)

	if resp.StatusCode == http.StatusUnauthorized && !ro.anonymous {
		return nil, c.unauthorized(sess)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func (c *Client) unauthorized(sess session.Session) error {
	if c.sessions == nil {
		return ErrSessionExpired
	}
	if !sess.SignedIn() {
		// A session that just expired has already sent the user to login.
		if c.sessions.ExpiryPending() {
			return ErrSessionExpired
		}
		c.sessions.Navigate(session.RouteLogin)
		return ErrSignInRequired
	}
	c.sessions.Expire(sess.Generation)
	return ErrSessionExpired
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, query url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) record(e RequestEntry) {
	attrs := []any{"id", e.ID, "method", e.Method, "path", e.Path, "status", e.Status, "duration_ms", e.DurationMS}
	if e.Error != "" {
		c.logger.Debug("backend request failed", append(attrs, "error", e.Error)...)
	} else {
		c.logger.Debug("backend request", attrs...)
	}
	c.reqlog.Log(e)
}

// call performs a request and returns the normalized envelope, or the
// envelope's error when the backend reported failure.
func (c *Client) call(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Envelope, error) {
	resp, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return nil, err
	}
	env, err := resp.Envelope()
	if err != nil {
		var decErr *DecodeError
		if errors.As(err, &decErr) && (resp.Status < 200 || resp.Status >= 300) {
			// An HTML error page still tells us the status.
			return nil, &APIError{
				Kind:    KindForStatus(resp.Status),
				Status:  resp.Status,
				Message: fmt.Sprintf("Server responded with status %d.", resp.Status),
			}
		}
		return nil, err
	}
	if err := env.Err(); err != nil {
		return env, err
	}
	return env, nil
}

// pathEscape escapes one path segment.
func pathEscape(s string) string {
	return url.PathEscape(s)
}

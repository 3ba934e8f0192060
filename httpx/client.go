package httpx

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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds response reads; the backend returns small JSON
// documents and signed URLs, never bulk data.
const maxBodyBytes = 4 << 20

// TokenSource supplies the current bearer credential and renews it when the
// server signals expiry. The session engine implements it; renewal must be
// safe under concurrent invocation.
type TokenSource interface {
	AccessToken() (string, bool)
	RenewAccessToken(ctx context.Context) (string, error)
}

// Attempt pairs a prepared request with its retry state. The flag lives here,
// on the wrapper, never on the http.Request itself, so replay bookkeeping is
// visible in the pipeline's types.
type Attempt struct {
	Request   *http.Request
	Attempted bool
}

// ClientConfig configures the transport boundary.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the underlying client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client executes API requests with bearer attachment and the single
// 401-triggered renew-and-retry protocol.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	logger    zerolog.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// NewClient validates the base URL and constructs the boundary. No I/O.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httpx: base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("httpx: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("httpx: unsupported base URL scheme %q", base.Scheme)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:      base,
		http:      hc,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger,
	}, nil
}

// SetTokenSource binds the credential supplier. Requests issued before any
// source is bound (or before any login) carry no Authorization header.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

func (c *Client) tokenSource() TokenSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

// Request describes one API exchange. Body is JSON-encoded when non-nil;
// Multipart takes precedence over Body. A non-nil Out receives the decoded
// 2xx response body.
type Request struct {
	Method    string
	Path      string
	Body      any
	Multipart *Multipart
	Out       any

	// NoAuth skips bearer attachment; used by credential-exchange endpoints.
	NoAuth bool
	// NoRetry disables the 401 renew-and-retry protocol; the refresh call
	// itself must never recurse into another refresh.
	NoRetry bool
}

// Do executes the request through the interceptor pipeline.
func (c *Client) Do(ctx context.Context, req Request) error {
	httpReq, err := c.prepare(ctx, req)
	if err != nil {
		return err
	}

	attempt := &Attempt{Request: httpReq}
	err = c.send(attempt, req)

	if IsUnauthorized(err) && !req.NoRetry && !attempt.Attempted {
		attempt.Attempted = true

		ts := c.tokenSource()
		if ts == nil {
			return err
		}
		newToken, renewErr := ts.RenewAccessToken(ctx)
		if renewErr != nil || newToken == "" {
			// Renewal failed; the session has already been torn down by the
			// token source. Surface the original 401.
			return err
		}

		resend, cloneErr := cloneForResend(attempt.Request)
		if cloneErr != nil {
			return err
		}
		resend.Header.Set("Authorization", BearerToken(newToken))
		attempt.Request = resend
		return c.send(attempt, req)
	}

	return err
}

func (c *Client) prepare(ctx context.Context, req Request) (*http.Request, error) {
	u := c.base.JoinPath(req.Path)

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Multipart != nil:
		ct, payload, err := req.Multipart.encode()
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
		contentType = ct
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("httpx: encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("httpx: build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	if !req.NoAuth {
		if ts := c.tokenSource(); ts != nil {
			if token, ok := ts.AccessToken(); ok {
				httpReq.Header.Set("Authorization", BearerToken(token))
			}
		}
	}
	return httpReq, nil
}

// send performs one exchange and maps the outcome to the closed error set.
func (c *Client) send(attempt *Attempt, req Request) error {
	httpReq := attempt.Request
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		kind := KindNetwork
		if httpReq.Context().Err() != nil {
			kind = KindCanceled
		}
		c.logExchange(httpReq, 0, start, attempt.Attempted)
		return &Error{Kind: kind, err: err}
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.logExchange(httpReq, resp.StatusCode, start, attempt.Attempted)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if readErr != nil {
			return &Error{Kind: KindDecode, StatusCode: resp.StatusCode, err: readErr}
		}
		if req.Out != nil && len(payload) > 0 {
			if err := json.Unmarshal(payload, req.Out); err != nil {
				return &Error{Kind: KindDecode, StatusCode: resp.StatusCode, err: err}
			}
		}
		return nil
	}

	return &Error{
		Kind:       statusKind(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    extractMessage(payload),
	}
}

func (c *Client) logExchange(req *http.Request, status int, start time.Time, retried bool) {
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Bool("retried", retried).
		Msg("api exchange")
}

// cloneForResend rebuilds a request whose body has already been consumed.
// All bodies built by prepare are byte readers, so GetBody is always set.
func cloneForResend(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	clone.Header.Set("X-Request-ID", uuid.NewString())
	return clone, nil
}

// BearerToken formats the credential the way every authenticated endpoint
// expects it. Exposed for embedders issuing raw requests outside the client.
func BearerToken(token string) string {
	return "Bearer " + token
}

// TrimBearer strips the scheme prefix from an Authorization header value.
func TrimBearer(header string) string {
	return strings.TrimPrefix(header, "Bearer ")
}

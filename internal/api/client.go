// Package api is the remote call gateway for the commerce backend. It is the
// single translation boundary between transport details and the typed
// failures in pkg/errors: components above it never see a raw HTTP status or
// net error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/redirusmana/bakery-shop-web/pkg/errors"
	"github.com/redirusmana/bakery-shop-web/pkg/logger"
)

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 1 << 20 // 1 MB

// TokenSource supplies the current bearer credential. An empty string means
// no credential is attached.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to the TokenSource interface.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Config holds gateway configuration.
type Config struct {
	BaseURL string
	// Timeout is the fixed per-request deadline. It is the only
	// cancellation mechanism besides caller contexts; the gateway never
	// retries.
	Timeout time.Duration
}

// DefaultConfig returns the production gateway configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Gateway executes commerce API calls, attaching the current credential and
// normalizing every outcome into a typed failure.
type Gateway struct {
	httpClient    *http.Client
	breaker       *breaker
	baseURL       string
	tokens        TokenSource
	onAuthExpired func()
	logger        *slog.Logger
}

// New creates a gateway. The token source may return "" while no session
// exists.
func New(cfg Config, tokens TokenSource, log *slog.Logger) *Gateway {
	g := &Gateway{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  tokens,
		logger:  log,
	}
	g.breaker = newBreaker(DefaultBreakerConfig("commerce-api"), log)
	return g
}

// OnAuthExpired registers the hook invoked when a call fails with HTTP 401.
// The hook forces the session to log out so a stale credential cannot be
// reused; idempotency under concurrent 401s is the session's responsibility.
func (g *Gateway) OnAuthExpired(fn func()) {
	g.onAuthExpired = fn
}

// Get performs a GET call and decodes the envelope data into out (may be nil).
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.call(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST call with a JSON body and decodes the envelope data
// into out (may be nil).
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.call(ctx, http.MethodPost, path, body, out)
}

func (g *Gateway) call(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	ctx = logger.WithRequestID(ctx, requestID)

	if token := g.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	endpoint := metricEndpoint(path)
	start := time.Now()
	resp, err := g.breaker.Do(g.httpClient, req)
	apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		mapped := mapTransportError(err)
		apiRequestsTotal.WithLabelValues(endpoint, apperrors.Code(mapped)).Inc()
		logger.WithContext(ctx, g.logger).WarnContext(ctx, "api call failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return mapped
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		apiRequestsTotal.WithLabelValues(endpoint, "NETWORK_ERROR").Inc()
		return apperrors.Network()
	}

	// Best effort: non-JSON bodies leave env zero-valued.
	var env Envelope
	_ = json.Unmarshal(raw, &env)

	if mapped := g.mapStatus(resp.StatusCode, &env); mapped != nil {
		apiRequestsTotal.WithLabelValues(endpoint, apperrors.Code(mapped)).Inc()
		logger.WithContext(ctx, g.logger).WarnContext(ctx, "api call rejected",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("error", mapped.Error()),
		)
		return mapped
	}

	if !env.Success {
		mapped := apperrors.Remote(env.failureMessage())
		apiRequestsTotal.WithLabelValues(endpoint, apperrors.Code(mapped)).Inc()
		return mapped
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			apiRequestsTotal.WithLabelValues(endpoint, "REMOTE_ERROR").Inc()
			return apperrors.Remote("invalid response from server")
		}
	}

	apiRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return nil
}

// mapStatus converts an HTTP error status into a typed failure, or nil for
// 2xx responses.
func (g *Gateway) mapStatus(status int, env *Envelope) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		if g.onAuthExpired != nil {
			g.onAuthExpired()
		}
		return apperrors.AuthExpired()
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited()
	case status >= 500:
		return apperrors.Server()
	default:
		if msg := env.failureMessage(); msg != "" {
			return apperrors.Remote(msg)
		}
		return apperrors.Remote(fmt.Sprintf("request failed with status %d", status))
	}
}

// mapTransportError converts a request that produced no response into a
// typed failure.
func mapTransportError(err error) error {
	if errors.Is(err, ErrBreakerOpen) {
		return apperrors.Network()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Timeout()
	}
	return apperrors.Network()
}

// metricEndpoint reduces a request path to its first segment so dynamic
// paths (product handles) do not explode label cardinality.
func metricEndpoint(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return "/" + trimmed
}

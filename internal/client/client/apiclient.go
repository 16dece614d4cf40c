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
	"sync"
	"time"

	"github.com/dmitrijs2005/bookflix/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultRefreshPath = "/token/refresh/"
	RequestIDHeader    = "X-Request-ID"

	defaultTimeout   = 15 * time.Second
	defaultRetryBase = 200 * time.Millisecond
	maxResponseBytes = 8 << 20
	refreshFlightKey = "refresh"
)

// TokenStore is the part of the session store the transport needs.
type TokenStore interface {
	// AuthorizationHeader returns "Bearer <access>", or "" when anonymous.
	AuthorizationHeader() string
	RefreshToken() string
	SetAccessToken(ctx context.Context, token string) error
	// SetTokens replaces both tokens after a rotating refresh.
	SetTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// Options configure an APIClient. Zero values select defaults.
type Options struct {
	BaseURL     string
	RefreshPath string
	Timeout     time.Duration

	// MaxRetries bounds retries of GET requests that failed with a transport
	// error or a 5xx. Other methods are never retried this way.
	MaxRetries int
	RetryBase  time.Duration

	// RequestsPerSecond throttles outgoing requests; 0 disables throttling.
	RequestsPerSecond float64

	HTTPClient *http.Client
	Logger     logging.Logger
}

// APIClient is the single configured HTTP client of the application. It
// attaches the bearer token, refreshes it once on 401 and maps failures to
// the sentinel errors of this package. Safe for concurrent use.
type APIClient struct {
	baseURL     string
	refreshPath string
	timeout     time.Duration
	maxRetries  int
	retryBase   time.Duration

	http    *http.Client
	tokens  TokenStore
	log     logging.Logger
	limiter *rate.Limiter
	tracer  trace.Tracer

	refreshGroup singleflight.Group

	hookMu           sync.RWMutex
	onSessionExpired func(ctx context.Context)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type noRefreshKey struct{}

// WithoutRefresh marks ctx so a 401 answer is returned as is, without the
// refresh and retry. Credential endpoints use it: their 401 means bad
// credentials, not an expired session.
func WithoutRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRefreshKey{}, true)
}

// RefreshAllowed reports whether ctx was not marked by WithoutRefresh.
func RefreshAllowed(ctx context.Context) bool {
	skip, _ := ctx.Value(noRefreshKey{}).(bool)
	return !skip
}

type response struct {
	status    int
	body      []byte
	requestID string
}

func NewAPIClient(tokens TokenStore, opts Options) *APIClient {
	c := &APIClient{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		refreshPath: opts.RefreshPath,
		timeout:     opts.Timeout,
		maxRetries:  opts.MaxRetries,
		retryBase:   opts.RetryBase,
		http:        opts.HTTPClient,
		tokens:      tokens,
		log:         opts.Logger,
		tracer:      otel.Tracer("github.com/dmitrijs2005/bookflix/apiclient"),
	}
	if c.refreshPath == "" {
		c.refreshPath = DefaultRefreshPath
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.retryBase <= 0 {
		c.retryBase = defaultRetryBase
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log = c.log.With("component", "apiclient")
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// OnSessionExpired registers the hook run after a failed refresh has cleared
// the session. The view layer uses it to send the user back to login.
func (c *APIClient) OnSessionExpired(fn func(ctx context.Context)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onSessionExpired = fn
}

func (c *APIClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *APIClient) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *APIClient) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *APIClient) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one API request and decodes a 2xx JSON body into out (which may
// be nil). body, when non-nil, is sent as JSON.
func (c *APIClient) Do(ctx context.Context, method, path string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "api "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("bookflix.api.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	// shared by every backoff attempt so one request refreshes at most once
	refreshed := !RefreshAllowed(ctx)

	if method != http.MethodGet || c.maxRetries == 0 {
		return c.call(ctx, method, path, payload, out, &refreshed)
	}

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(c.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.call(ctx, method, path, payload, out, &refreshed)
		if isTransient(err) {
			c.log.Warn(ctx, "transient api failure", "method", method, "path", path, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

// call performs the request and, on a 401, a refresh followed by one retry
// unless *refreshed is already set. A 401 after that is returned as is.
func (c *APIClient) call(ctx context.Context, method, path string, payload []byte, out any, refreshed *bool) error {
	used := c.tokens.AuthorizationHeader()

	resp, err := c.send(ctx, method, path, payload, used)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && !*refreshed {
		if used == "" && c.tokens.RefreshToken() == "" {
			// anonymous request, there is no session to refresh or expire
			return parseAPIError(resp.status, resp.body)
		}
		*refreshed = true
		if err := c.refresh(ctx, used); err != nil {
			return err
		}
		resp, err = c.send(ctx, method, path, payload, c.tokens.AuthorizationHeader())
		if err != nil {
			return err
		}
	}

	return decodeResponse(resp, out)
}

// refresh obtains a new access token after the header used was rejected.
// Concurrent callers share one refresh call; a caller whose token was
// already replaced just retries with the current one.
func (c *APIClient) refresh(ctx context.Context, used string) error {
	stale := func() (bool, error) {
		cur := c.tokens.AuthorizationHeader()
		if cur == used {
			return false, nil
		}
		if cur == "" {
			return true, ErrSessionExpired
		}
		return true, nil
	}

	if done, err := stale(); done {
		return err
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	_, err, _ := c.refreshGroup.Do(refreshFlightKey, func() (any, error) {
		if done, err := stale(); done {
			return nil, err
		}
		return nil, c.doRefresh(rctx)
	})
	return err
}

func (c *APIClient) doRefresh(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return c.expire(ctx, errors.New("no refresh token"))
	}

	payload, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return c.expire(ctx, err)
	}

	resp, err := c.send(ctx, http.MethodPost, c.refreshPath, payload, "")
	if err != nil {
		return c.expire(ctx, err)
	}
	if resp.status < 200 || resp.status >= 300 {
		return c.expire(ctx, parseAPIError(resp.status, resp.body))
	}

	var tokens refreshResponse
	if err := json.Unmarshal(resp.body, &tokens); err != nil {
		return c.expire(ctx, fmt.Errorf("decode refresh response: %w", err))
	}
	if tokens.Access == "" {
		return c.expire(ctx, errors.New("refresh response without access token"))
	}

	if tokens.Refresh == "" {
		err = c.tokens.SetAccessToken(ctx, tokens.Access)
	} else {
		err = c.tokens.SetTokens(ctx, tokens.Access, tokens.Refresh)
	}
	if err != nil {
		return fmt.Errorf("store refreshed token: %w", err)
	}
	c.log.Info(ctx, "access token refreshed", "request_id", resp.requestID)
	return nil
}

// expire clears the session after a failed refresh and notifies the view.
func (c *APIClient) expire(ctx context.Context, cause error) error {
	c.log.Warn(ctx, "token refresh failed, clearing session", "error", cause)

	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error(ctx, "failed to clear session", "error", err)
	}

	c.hookMu.RLock()
	hook := c.onSessionExpired
	c.hookMu.RUnlock()
	if hook != nil {
		hook(ctx)
	}

	return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
}

func (c *APIClient) send(parent context.Context, method, path string, payload []byte, authorization string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(parent); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if perr := parent.Err(); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "api call", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	return &response{status: resp.StatusCode, body: data, requestID: requestID}, nil
}

func decodeResponse(resp *response, out any) error {
	if resp.status < 200 || resp.status >= 300 {
		return parseAPIError(resp.status, resp.body)
	}
	if out == nil || resp.status == http.StatusNoContent || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= http.StatusInternalServerError
}

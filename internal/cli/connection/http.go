package connection

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/yndnr/rentdesk-go/internal/infra/buildinfo"
	"github.com/yndnr/rentdesk-go/internal/telemetry/logger"
	"github.com/yndnr/rentdesk-go/internal/telemetry/metric"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer credential for outgoing requests.
// An empty string means no credential is attached.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string {
	return f()
}

// UnauthorizedFunc is called when the API answers 401.
type UnauthorizedFunc func(req *http.Request)

// HTTPClient provides HTTP communication with the API.
//
// The client never caches the credential: it asks its TokenSource on every
// request, so a destroyed session is never sent again.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	userAgent string
	logger    logger.Logger
	metrics   *metric.Registry

	mu           sync.RWMutex
	nextID       int
	unauthorized map[int]UnauthorizedFunc

	inflight singleflight.Group
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second.
// Zero or negative disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *HTTPClient) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithTLSConfig sets the TLS client configuration.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *HTTPClient) {
		if cfg == nil {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = cfg
		c.client.Transport = transport
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// WithMetrics records request metrics in r.
func WithMetrics(r *metric.Registry) Option {
	return func(c *HTTPClient) {
		c.metrics = r
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// NewHTTPClient creates a new HTTP client for the API at server.
// tokens may be nil for anonymous use.
func NewHTTPClient(server string, tokens TokenSource, opts ...Option) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &HTTPClient{
		baseURL:      baseURL,
		tokens:       tokens,
		userAgent:    buildinfo.UserAgent("rentdesk-cli"),
		logger:       logger.Default(),
		unauthorized: make(map[int]UnauthorizedFunc),
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// OnUnauthorized subscribes fn to 401 responses. The returned function
// removes the subscription.
func (c *HTTPClient) OnUnauthorized(fn UnauthorizedFunc) (remove func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.unauthorized[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.unauthorized, id)
		c.mu.Unlock()
	}
}

// requestOptions holds per-request behaviour.
type requestOptions struct {
	skipUnauthorized bool
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

// SkipUnauthorizedEvent suppresses the 401 event for this request. Sign-in
// uses it so that rejected credentials never touch the live session.
func SkipUnauthorizedEvent() RequestOption {
	return func(o *requestOptions) {
		o.skipUnauthorized = true
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request with JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do sends one request. Transport failures are returned as *TransportError;
// any HTTP status, including 4xx/5xx, is returned as a response for
// ParseResponse or Decode to interpret. A 401 is published to the
// OnUnauthorized subscribers before Do returns.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*http.Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := newRequestID()
	c.addHeaders(req, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: method, Path: path, Cause: err}
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	route := routeLabel(path)

	log := logger.Enrich(logger.WithRequestID(ctx, requestID), c.logger).With("method", method, "path", path)
	if err != nil {
		c.metrics.ObserveRequest(method, route, 0, elapsed)
		log.Debug("api request failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return nil, &TransportError{Method: method, Path: path, Cause: err}
	}

	c.metrics.ObserveRequest(method, route, resp.StatusCode, elapsed)
	log.Debug("api request", "status", resp.StatusCode, "duration_ms", elapsed.Milliseconds())

	if resp.StatusCode == http.StatusUnauthorized && !ro.skipUnauthorized {
		log.Warn("api rejected credential")
		c.notifyUnauthorized(req)
	}

	return resp, nil
}

// GetJSON performs a GET and decodes the body into target. Identical GETs
// that are in flight at the same time (same path, same credential) share
// a single request. The shared request is not canceled with any one
// caller's context; it is bounded by the client timeout, and each caller
// stops waiting when its own ctx is done.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, target any) error {
	if err := ctx.Err(); err != nil {
		return &TransportError{Method: http.MethodGet, Path: path, Cause: err}
	}
	key := path + "\x00" + c.token()

	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		resp, err := c.Get(shared, path)
		if err != nil {
			return nil, err
		}
		return readResponse(resp)
	})

	select {
	case <-ctx.Done():
		return &TransportError{Method: http.MethodGet, Path: path, Cause: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return res.Val.(*response).parse(http.MethodGet, path, target)
	}
}

// SendJSON performs a mutation (POST, PUT, DELETE) and decodes the body
// into target, which may be nil. Mutations are never de-duplicated.
func (c *HTTPClient) SendJSON(ctx context.Context, method, path string, body, target any, opts ...RequestOption) error {
	resp, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	r, err := readResponse(resp)
	if err != nil {
		return err
	}
	return r.parse(method, path, target)
}

// addHeaders adds authentication and common headers.
func (c *HTTPClient) addHeaders(req *http.Request, requestID string) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}

func (c *HTTPClient) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *HTTPClient) notifyUnauthorized(req *http.Request) {
	c.mu.RLock()
	subs := make([]UnauthorizedFunc, 0, len(c.unauthorized))
	for _, fn := range c.unauthorized {
		subs = append(subs, fn)
	}
	c.mu.RUnlock()

	for _, fn := range subs {
		fn(req)
	}
}

// newRequestID returns a ULID for the X-Request-ID header.
func newRequestID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return ""
	}
	return strings.ToLower(id.String())
}

// aggregateSegments are fixed path segments that are not record ids.
var aggregateSegments = map[string]bool{
	"summary":          true,
	"breakdown":        true,
	"rented-vacant":    true,
	"income-portfolio": true,
	"overview":         true,
	"login":            true,
}

// routeLabel collapses record ids so metric labels stay bounded:
// /api/debts/65f1c2 becomes /api/debts/:id.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 3 && parts[0] == "api" && !aggregateSegments[parts[2]] {
		parts[2] = ":id"
	}
	return "/" + strings.Join(parts, "/")
}

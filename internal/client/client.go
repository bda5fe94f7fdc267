package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
)

const (
	// MaxAttempts is the fixed number of tries per request
	MaxAttempts = 3

	// BackoffStep is multiplied by the attempt number between tries
	BackoffStep = 500 * time.Millisecond

	defaultTimeout   = 20 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; nhlproj/1.0)"
	maxBodyBytes     = 32 << 20
)

// ResponseCache stores raw bodies of successful requests
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
}

// Config controls the client
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	Referer      string
	PacingDelay  time.Duration
	ExtraHeaders map[string]string
}

// Response is a successful HTTP response
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
	Cached     bool
}

// Client is the resilient HTTP fetcher shared by every provider in a run
type Client struct {
	httpClient  *http.Client
	headers     map[string]string
	timeout     time.Duration
	pacingDelay time.Duration
	netlog      *NetLog
	cache       ResponseCache
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNetLog sets the diagnostic network log
func WithNetLog(n *NetLog) Option {
	return func(c *Client) { c.netlog = n }
}

// WithCache enables the response cache
func WithCache(rc ResponseCache) Option {
	return func(c *Client) { c.cache = rc }
}

// WithSleep replaces the function used for backoff and pacing waits
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a client
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	headers := map[string]string{
		"User-Agent": cfg.UserAgent,
		"Accept":     "application/json, text/plain, */*",
	}
	if cfg.Referer != "" {
		headers["Referer"] = cfg.Referer
	}
	for k, v := range cfg.ExtraHeaders {
		headers[k] = v
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		headers:     headers,
		timeout:     cfg.Timeout,
		pacingDelay: cfg.PacingDelay,
		netlog:      NopNetLog(),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	allowEmpty bool
	timeout    time.Duration
}

// RequestOption customizes a single Get
type RequestOption func(*requestOptions)

// AllowEmpty accepts a zero-length 2xx body as success
func AllowEmpty() RequestOption {
	return func(o *requestOptions) { o.allowEmpty = true }
}

// Timeout overrides the per-attempt timeout
func Timeout(d time.Duration) RequestOption {
	return func(o *requestOptions) { o.timeout = d }
}

// Get performs a GET with up to MaxAttempts tries. Transient failures are
// retried with a linear backoff; any other failure returns immediately.
// After the last attempt the last observed error is returned.
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string, opts ...RequestOption) (*Response, error) {
	ro := requestOptions{timeout: c.timeout}
	for _, opt := range opts {
		opt(&ro)
	}

	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, err
	}

	if body, ok := c.cacheGet(ctx, target); ok {
		return &Response{URL: target, StatusCode: http.StatusOK, Body: body, Cached: true}, nil
	}

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		log.Debug().
			Str("url", target).
			Int("attempt", attempt).
			Msg("Making API request")

		resp, err := c.do(ctx, target, params, attempt, ro)
		if err == nil {
			c.cacheSet(ctx, target, resp.Body)
			return resp, nil
		}
		lastErr = err

		if !IsTransient(err) {
			break
		}

		if attempt < MaxAttempts {
			backoff := BackoffStep * time.Duration(attempt)
			log.Warn().
				Err(err).
				Str("url", target).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Transient failure, will retry")

			if serr := c.sleep(ctx, backoff); serr != nil {
				lastErr = errors.Wrap(serr, "retry wait interrupted")
				break
			}
		}
	}

	c.netlog.Failure(target, lastErr)
	return nil, lastErr
}

// GetJSON performs Get and decodes the body into a generic JSON value
func (c *Client) GetJSON(ctx context.Context, rawURL string, params map[string]string, opts ...RequestOption) (any, error) {
	resp, err := c.Get(ctx, rawURL, params, opts...)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := sonic.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s", resp.URL), ErrDecode)
	}
	return payload, nil
}

// Pace waits the configured delay between repeated per-entity calls
func (c *Client) Pace(ctx context.Context) error {
	if c.pacingDelay <= 0 {
		return nil
	}
	return c.sleep(ctx, c.pacingDelay)
}

func (c *Client) do(ctx context.Context, target string, params map[string]string, attempt int, ro requestOptions) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, ro.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	endpoint := req.URL.Host
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "error", time.Since(start).Seconds())
		c.netlog.Attempt(target, params, attempt, 0, 0)
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "request cancelled")
		}
		return nil, transient(err, "GET %s", target)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	c.netlog.Attempt(target, params, attempt, resp.StatusCode, len(body))
	if err != nil {
		return nil, transient(err, "read body of %s", target)
	}

	switch {
	case isRetryableStatus(resp.StatusCode):
		return nil, errors.Mark(
			errors.Newf("GET %s: retryable status %d", target, resp.StatusCode),
			ErrTransientNetwork,
		)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Mark(
			errors.Newf("GET %s: status %d", target, resp.StatusCode),
			ErrUnexpectedStatus,
		)
	case len(body) == 0 && !ro.allowEmpty:
		return nil, errors.Mark(
			errors.Newf("GET %s: empty body", target),
			ErrTransientNetwork,
		)
	}

	log.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Int("size", len(body)).
		Msg("API request successful")

	return &Response{URL: target, StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Response cache read failed")
		return nil, false
	}
	return body, ok && len(body) > 0
}

func (c *Client) cacheSet(ctx context.Context, key string, body []byte) {
	if c.cache == nil || len(body) == 0 {
		return
	}
	if err := c.cache.Set(ctx, key, body); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Response cache write failed")
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func buildURL(rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse url %q", rawURL)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client issues JSON requests against a base URL parsed once at
// construction. The configuration is immutable after NewClient, so a
// single Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	transport  http.RoundTripper

	scheme   string
	host     string
	port     int
	basePath string

	defaultQuery   url.Values
	defaultHeaders map[string]string
	keepAlive      bool

	// timeout bounds the whole exchange; zero means unbounded.
	timeout time.Duration

	requestIDHeader string
	newRequestID    func() string

	limiter *rate.Limiter

	requestHooks  []RequestHook
	responseHooks []ResponseHook
}

type ClientOption func(*Client)

// NewClient parses baseURL into scheme, host, port, path and default
// query parameters. A missing scheme defaults to https; a missing port
// defaults to 443 for https and 80 for http. No network action occurs
// here; the only failure mode is a malformed base URL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, errors.New("empty base URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("base URL must have a host")
	}

	port := 443
	if u.Scheme == "http" {
		port = 80
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid port in base URL %q: %w", baseURL, err)
		}
	}

	c := &Client{
		scheme:         u.Scheme,
		host:           u.Hostname(),
		port:           port,
		basePath:       u.Path,
		defaultQuery:   u.Query(),
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.requestIDHeader != "" && c.newRequestID == nil {
		c.newRequestID = uuid.NewString
	}

	if c.httpClient == nil {
		rt := c.transport
		if rt == nil {
			rt = &http.Transport{
				MaxIdleConns:        DefaultMaxIdleConns,
				MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
				IdleConnTimeout:     DefaultIdleConnTimeout,
			}
		}
		c.httpClient = &http.Client{Transport: rt}
	}

	return c, nil
}

// WithTimeout bounds each request including body read. Zero (the
// default) leaves requests unbounded.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithKeepAlive toggles sending a persistent-connection header on every
// request. Actual socket reuse is up to the underlying transport.
func WithKeepAlive(on bool) ClientOption {
	return func(c *Client) {
		c.keepAlive = on
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithHTTPClient replaces the underlying http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport sets the RoundTripper used by the default http.Client.
// Ignored when WithHTTPClient is also given.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithRequestID stamps each outgoing request with a fresh UUID under
// the given header, unless the caller already set one.
func WithRequestID(header string) ClientOption {
	return func(c *Client) {
		c.requestIDHeader = header
	}
}

// WithRequestIDFunc overrides the request-id generator (useful in tests).
func WithRequestIDFunc(header string, gen func() string) ClientOption {
	return func(c *Client) {
		c.requestIDHeader = header
		c.newRequestID = gen
	}
}

// WithRateLimit throttles outgoing requests to rps requests per second
// with the given burst.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRequestHook adds a hook that runs before each request.
func WithRequestHook(hook RequestHook) ClientOption {
	return func(c *Client) {
		c.requestHooks = append(c.requestHooks, hook)
	}
}

// WithResponseHook adds a hook that runs after each exchange.
func WithResponseHook(hook ResponseHook) ClientOption {
	return func(c *Client) {
		c.responseHooks = append(c.responseHooks, hook)
	}
}

func (c *Client) Scheme() string   { return c.scheme }
func (c *Client) Host() string     { return c.host }
func (c *Client) Port() int        { return c.port }
func (c *Client) BasePath() string { return c.basePath }

// BaseURL reconstructs the configured origin. Default ports are omitted.
func (c *Client) BaseURL() string {
	return c.origin() + c.basePath
}

func (c *Client) origin() string {
	return c.scheme + "://" + c.hostPort()
}

// hostPort renders host[:port], omitting default ports.
func (c *Client) hostPort() string {
	if (c.scheme == "https" && c.port == 443) || (c.scheme == "http" && c.port == 80) {
		return c.host
	}
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Request performs a single HTTP exchange. Query parameters and headers
// are merged over the client defaults (call values win). A non-empty
// body is JSON-encoded; a nil or empty body is omitted entirely, along
// with the content headers.
//
// Responses with status < 400 return (resp, nil). Responses with status
// >= 400 return the same *Response alongside an *Error carrying it.
// Transport failures return a nil *Response and an *Error with
// StatusCode 0.
func (c *Client) Request(ctx context.Context, method, path string, query map[string]string, body any, headers map[string]string) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.buildRequest(ctx, method, path, query, body, headers)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	for _, hook := range c.requestHooks {
		if err := hook(req); err != nil {
			return nil, fmt.Errorf("request hook failed: %w", err)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		rerr := &Error{Method: req.Method, URL: req.URL.String(), Cause: err}
		c.runResponseHooks(req, nil, rerr, duration)
		return nil, rerr
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		rerr := &Error{Method: req.Method, URL: req.URL.String(), Cause: err}
		c.runResponseHooks(req, nil, rerr, duration)
		return nil, rerr
	}

	resp := newResponse(httpResp, raw, time.Since(start))

	var outErr error
	if resp.StatusCode >= 400 {
		outErr = &Error{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Response:   resp,
			Cause:      errors.New(http.StatusText(resp.StatusCode)),
		}
	}
	c.runResponseHooks(req, resp, outErr, resp.Duration)

	if outErr != nil {
		return resp, outErr
	}
	return resp, nil
}

func (c *Client) runResponseHooks(req *http.Request, resp *Response, err error, duration time.Duration) {
	for _, hook := range c.responseHooks {
		hook(req, resp, err, duration)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query map[string]string, headers map[string]string) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, query, nil, headers)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body, headers)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, nil, body, headers)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, nil, body, headers)
}

// Delete performs a DELETE request. Some APIs require a DELETE body;
// pass nil to omit it.
func (c *Client) Delete(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, body, headers)
}

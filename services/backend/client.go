package backendsvc

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ecowaste/dashboard/core"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "ecowaste-dashboard"
)

type (
	options struct {
		httpClient *http.Client
		timeout    time.Duration
		userAgent  string
		debug      bool
	}

	Option func(*options)

	// Client talks to the remote EcoWaste backend: orchestrator, chat assistant,
	// rewards and leaderboard. The caller's bearer token is forwarded on every call.
	// Requests are never retried.
	Client struct {
		rc *resty.Client
	}
)

// WithHTTPClient sends requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithDebug logs every request and response.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

func New(baseURL string, opts ...Option) *Client {
	o := options{timeout: defaultTimeout, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}

	rc := resty.New()
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", o.userAgent).
		SetRetryCount(0).
		SetDebug(o.debug)

	return &Client{rc: rc}
}

// NewFromConfig builds a Client from the backend section of conf.
func NewFromConfig(conf *core.Config) *Client {
	return New(conf.Backend.BaseURL,
		WithTimeout(conf.Backend.Timeout),
		WithUserAgent(conf.Backend.UserAgent),
		WithDebug(conf.Debug && !conf.TestMode),
	)
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.rc.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// do runs req and decodes a JSON reply into result. Upstream error statuses
// become an *APIError, requests that got no reply a *TransportError.
func (c *Client) do(req *resty.Request, method, path string, body, result interface{}) error {
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result).ForceContentType("application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	return handleResponse(resp)
}

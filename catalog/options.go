package catalog

import (
	"net/http"
	"time"
)

// DefaultTimeout is the HTTP timeout used when none is configured
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the client to the catalog API
const DefaultUserAgent = "holonet"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	headers    http.Header
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		headers:   make(http.Header),
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its timeout is left untouched.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithHeader adds a header sent with every request. It replaces the client's
// default for the same key, e.g. Content-Type. Authorization is owned by the
// session and cannot be set here.
func WithHeader(key, value string) Option {
	return func(o *clientOptions) {
		o.headers.Add(key, value)
	}
}

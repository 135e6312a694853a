package client

import (
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
)

// Lifecycle selects the HTTP session strategy behind the client.
type Lifecycle string

const (
	// LifecycleEphemeral closes the connection after every call so no state
	// leaks across calls. This is the default.
	LifecycleEphemeral Lifecycle = "ephemeral"
	// LifecyclePooled keeps connections alive between calls.
	LifecyclePooled Lifecycle = "pooled"
)

// Option represents a client option.
type Option func(c *Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLifecycle sets the session lifecycle strategy.
func WithLifecycle(lifecycle Lifecycle) Option {
	return func(c *Client) {
		c.lifecycle = lifecycle
	}
}

// WithToken attaches a static bearer token to every outbound request.
func WithToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		base := c.httpClient
		if base == nil {
			base = newHTTPClient(c.lifecycle)
		}
		c.httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
				Base:   base.Transport,
			},
			Timeout: base.Timeout,
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newHTTPClient(lifecycle Lifecycle) *http.Client {
	if lifecycle == LifecyclePooled {
		return &http.Client{}
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		},
	}
}

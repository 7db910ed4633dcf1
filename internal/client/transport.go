// Package client holds the HTTP clients for the external APIs the tools
// call: weather, stock quotes, and web search.
package client

import (
	"crypto/tls"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests.
	DefaultTimeout = 15 * time.Second

	// userAgent identifies us to upstream APIs; some reject empty agents.
	userAgent = "Mozilla/5.0 (compatible; incident-insight/1.0)"

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
)

// TransportConfig configures a pooled HTTP client.
type TransportConfig struct {
	// Timeout limits each request end to end. Zero means DefaultTimeout.
	Timeout time.Duration

	// TLSConfig overrides the transport TLS settings when set.
	TLSConfig *tls.Config

	// DisableKeepAlives forces one connection per request.
	DisableKeepAlives bool
}

// NewHTTPClient creates an HTTP client with pooled connections and sane
// timeouts. A nil config uses all defaults.
func NewHTTPClient(cfg *TransportConfig) *http.Client {
	if cfg == nil {
		cfg = &TransportConfig{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
		DisableKeepAlives:   cfg.DisableKeepAlives,
	}
	if cfg.TLSConfig != nil {
		transport.TLSClientConfig = cfg.TLSConfig
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Package audnex provides a client for the Audnex audiobook metadata API
// (https://api.audnex.us). Lookups are by Audible ASIN; some ASINs only
// exist in certain marketplace regions, so every call supports region
// fallback over a configured region list.
package audnex

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/lepinkainen/calliope/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://api.audnex.us"
	defaultMaxAttempts   = 3
	defaultRatePerMinute = 60
)

// DefaultRegions is the region fallback order used when none is configured.
var DefaultRegions = []string{"us", "uk", "ca", "au", "de", "fr"}

// ErrNotFound is returned when an ASIN does not exist in any tried region.
// The API answers 404 (and sometimes 500) for unknown ASINs; both are
// authoritative and never retried.
var ErrNotFound = errors.New("audnex: not found")

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an Audnex API client.
type Client struct {
	baseURL       string
	regions       []string
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
}

// NewClient creates a new Audnex API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:       defaultBaseURL,
		regions:       slices.Clone(DefaultRegions),
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		rateLimiter:   ratelimit.NewPerMinute("Audnex", defaultRatePerMinute),
		retryAttempts: defaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the Audnex API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRegions sets the region fallback order.
func WithRegions(regions []string) Option {
	return func(client *Client) {
		if len(regions) > 0 {
			client.regions = slices.Clone(regions)
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithRetryAttempts sets the number of retry attempts for failed requests.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

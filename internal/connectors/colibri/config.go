package colibri

import "time"

const (
	// DefaultTimeout is the default HTTP request timeout.
	// A timeout is reported like any other failed request; the category is
	// recorded as an error and the run continues.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute is the proactive throttle applied on top of
	// the orchestrator's randomized delays. The provider blocks accounts
	// that burst requests, so the bucket is deliberately conservative.
	DefaultRequestsPerMinute = 10
)

// Config holds the provider endpoint configuration.
// Credentials are not part of Config; they arrive per call as a
// domain.ProviderAccount so one client can serve several bars.
type Config struct {
	// BaseURL is the root of the provider's report API.
	BaseURL string

	// StockURL is the root of the product/stock API. The stock report
	// lives behind its own login; empty means BaseURL.
	StockURL string

	// Timeout bounds every HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RequestsPerMinute caps the proactive token bucket.
	// Zero means DefaultRequestsPerMinute.
	RequestsPerMinute int
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.StockURL == "" {
		c.StockURL = c.BaseURL
	}
	return c
}

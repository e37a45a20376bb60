package catalog

import "time"

// Config holds configuration for the course search API.
type Config struct {
	// BaseURL is the full URL of the product search endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://d2uj9jw4vo3cg6.cloudfront.net/V1/storeview/default/search/products"`
	// PageSize is the number of courses requested per page.
	PageSize int `mapstructure:"page_size" default:"20"`
	// FeaturedOnly is forwarded as the featured-only filter (0 returns every course).
	FeaturedOnly int `mapstructure:"featured_only" default:"0"`
	// MaxPages guards against an upstream that never returns a short page.
	MaxPages int `mapstructure:"max_pages" default:"500"`
	// TimeoutSeconds bounds each page request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of extra attempts for a failing page.
	MaxRetries int `mapstructure:"max_retries" default:"2"`
	// RetryBackoffMs is the initial delay between attempts.
	RetryBackoffMs int `mapstructure:"retry_backoff_ms" default:"500"`
}

// RetryBackoff returns the initial retry delay as a duration.
func (c Config) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMs) * time.Millisecond
}

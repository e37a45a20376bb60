package hubdb

import "time"

// Config holds configuration for the HubDB API.
type Config struct {
	// BaseURL is the HubSpot API host.
	BaseURL string `mapstructure:"base_url" default:"https://api.hubapi.com"`
	// PrivateAppToken authenticates every request (env HUBSPOT_PRIVATE_APP_TOKEN).
	PrivateAppToken string `mapstructure:"private_app_token" default:""`
	// TableID is the course catalog table.
	TableID string `mapstructure:"table_id" default:"114590372"`
	// CleanupTableIDs are the tables emptied by the cleanup command, comma separated.
	// Defaults to TableID when empty.
	CleanupTableIDs []string `mapstructure:"cleanup_table_ids" default:""`
	// PageSize is the row listing page size.
	PageSize int `mapstructure:"page_size" default:"1000"`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of extra attempts for transient failures.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryBackoffMs is the initial delay between attempts.
	RetryBackoffMs int `mapstructure:"retry_backoff_ms" default:"1000"`
	// RequestsPerSecond paces calls below the private app rate limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"9"`
	// BreakerFailures opens the circuit after that many consecutive transient failures.
	BreakerFailures uint32 `mapstructure:"breaker_failures" default:"5"`
}

// RetryBackoff returns the initial retry delay as a duration.
func (c Config) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMs) * time.Millisecond
}

// Tables returns the cleanup targets, falling back to the catalog table.
func (c Config) Tables() []string {
	var ids []string
	for _, id := range c.CleanupTableIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 && c.TableID != "" {
		ids = []string{c.TableID}
	}
	return ids
}

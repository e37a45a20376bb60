package httpclient

import "time"

// Config holds the transport settings of one remote API.
// It is built by the owning feature from its own configuration section.
type Config struct {
	// Name identifies the remote API in logs and in the circuit breaker.
	Name string
	// BaseURL is the scheme and host (optionally with a path prefix) of the API.
	BaseURL string
	// Token is sent as a bearer credential when non-empty.
	Token string
	// TimeoutSeconds bounds every single request. Defaults to 30.
	TimeoutSeconds int
	// MaxRetries is the number of additional attempts for transient failures.
	MaxRetries int
	// RetryBackoff is the delay before the first retry; it doubles on each attempt.
	RetryBackoff time.Duration
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
	// BreakerFailures opens the circuit after that many consecutive transient failures.
	// Zero disables the circuit breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the circuit stays open. Defaults to 30s.
	BreakerCooldown time.Duration
}

const (
	defaultTimeoutSeconds  = 30
	defaultBreakerCooldown = 30 * time.Second
	maxBackoff             = 10 * time.Second
)

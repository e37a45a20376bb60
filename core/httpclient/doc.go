// Package httpclient provides the JSON-over-HTTP transport shared by the remote API clients.
//
// A Client is bound to one base URL and sends every request with:
//   - an optional bearer token,
//   - a per-request timeout enforced by the underlying transport,
//   - pacing through a token bucket limiter,
//   - bounded retries with exponential backoff for transport errors, 429 and 5xx responses,
//   - a circuit breaker that stops hammering a remote that keeps failing.
//
// Non-2xx responses surface as *StatusError so callers can map them onto their own
// error kinds; bodies that are not valid JSON surface as ErrDecode.
package httpclient

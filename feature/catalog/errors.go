package catalog

import "errors"

var (
	// ErrUpstreamUnavailable is returned when a page cannot be fetched.
	ErrUpstreamUnavailable = errors.New("course api unavailable")
	// ErrMalformedPage is returned when a page body is not a valid search response.
	ErrMalformedPage = errors.New("malformed course api page")
)

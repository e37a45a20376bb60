package hubdb

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when no private app token is configured.
	ErrMissingToken = errors.New("hubspot private app token is not configured")
	// ErrStoreUnavailable is returned when a read against HubDB fails.
	ErrStoreUnavailable = errors.New("hubdb unavailable")
	// ErrStoreWriteFailed is wrapped by every WriteError.
	ErrStoreWriteFailed = errors.New("hubdb write failed")
	// ErrPublishFailed is returned when the draft cannot be published.
	ErrPublishFailed = errors.New("hubdb publish failed")
)

// WriteError describes a failed create, update or delete.
type WriteError struct {
	Op     string
	Target string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *WriteError) Unwrap() []error {
	return []error{ErrStoreWriteFailed, e.Err}
}

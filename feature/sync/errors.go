package sync

import "errors"

var (
	// ErrPrecondition is returned when a run cannot start: missing credentials or an
	// unreachable HubDB. Nothing has been written when it is returned.
	ErrPrecondition = errors.New("precondition failed")
	// ErrSourceFetch is returned when the catalog cannot be read completely.
	ErrSourceFetch = errors.New("failed to fetch catalog")
	// ErrNoReport is returned when no run of the requested mode has finished yet.
	ErrNoReport = errors.New("no run recorded")
)

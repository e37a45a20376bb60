package reconcile

import "context"

// Adapter defines model-specific reconciliation logic.
// Each adapter knows how to key, name and transform the source items of one model.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "courses").
	Name() string

	// SourceKey returns the stable key of a source item.
	// Keys must be non-empty; the engine matches rows on this value.
	SourceKey(item SourceItem) string

	// SourceName returns the display name of a source item.
	SourceName(item SourceItem) string

	// Transform maps one source item into a write payload.
	// It must be deterministic apart from audit metadata and must not perform I/O.
	Transform(item SourceItem) (Payload, error)
}

// Store defines the operations the engine needs from one logical table.
type Store interface {
	// ListRows returns every row of the table in store order.
	ListRows(ctx context.Context) ([]TargetRow, error)

	// FindRow returns the first row whose key equals key, or nil when absent.
	// An error is returned only on transport failure.
	FindRow(ctx context.Context, key string) (*TargetRow, error)

	// CreateRow inserts a row and returns the id assigned by the store.
	CreateRow(ctx context.Context, payload Payload) (string, error)

	// UpdateRow replaces the values of the row addressed by id.
	UpdateRow(ctx context.Context, id string, payload Payload) error

	// DeleteRow removes the row addressed by id.
	DeleteRow(ctx context.Context, id string) error

	// Publish makes pending draft writes externally visible.
	Publish(ctx context.Context) error
}

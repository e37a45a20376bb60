package reconcile

// SourceItem represents one record of the upstream collection.
// Adapters define the concrete type and know how to key and transform it.
type SourceItem any

// Payload represents the write body produced by an adapter for the target store.
// The store binding is responsible for asserting it back to its concrete type.
type Payload any

// TargetRow represents one row of the target table as seen by the engine.
type TargetRow struct {
	// ID is the opaque row identifier assigned by the store. Used for addressing.
	ID string `json:"id"`

	// Key is the stable source key copied into the row at creation. Used for matching.
	Key string `json:"key"`

	// Name is a display name used for progress reporting only.
	Name string `json:"name"`
}

// Spec bundles the adapter and the store a reconciliation runs against.
type Spec struct {
	// Adapter provides model-specific keying and transformation.
	Adapter Adapter

	// Store is the table being converged to the source collection.
	Store Store
}

// LookupStrategy selects how source items are matched against target rows.
type LookupStrategy string

const (
	// LookupBulk lists the whole table once and matches through an in-memory index.
	LookupBulk LookupStrategy = "bulk"
	// LookupPoint issues one filtered query per source item.
	LookupPoint LookupStrategy = "point"
)

// Valid reports whether the strategy is a known value.
func (l LookupStrategy) Valid() bool {
	return l == LookupBulk || l == LookupPoint
}

// Options controls reconcile behavior.
type Options struct {
	// Lookup selects the matching strategy. Defaults to LookupBulk when empty.
	Lookup LookupStrategy

	// Prune enables deletion of rows whose key is absent from the source.
	// Pruning always lists the full table, whatever the lookup strategy.
	Prune bool

	// Publish commits the draft once all operations have been applied.
	Publish bool

	// DryRun plans and counts without calling any store mutation.
	DryRun bool
}

func (o Options) lookup() LookupStrategy {
	if o.Lookup == "" {
		return LookupBulk
	}
	return o.Lookup
}

// ActionType represents the type of planned operation.
type ActionType string

const (
	// ActionCreate inserts a new row for a source item without a match.
	ActionCreate ActionType = "create"
	// ActionUpdate replaces the values of a matched row.
	ActionUpdate ActionType = "update"
	// ActionDelete removes a row whose key disappeared upstream.
	ActionDelete ActionType = "delete"
	// ActionSkip marks a source item that could not be planned (e.g. lookup failure).
	ActionSkip ActionType = "skip"
)

// Action represents one planned operation.
type Action struct {
	// Type specifies the operation to perform.
	Type ActionType `json:"type"`

	// Key is the source key (or the row key for deletes).
	Key string `json:"key"`

	// Name is the display name used in progress reports.
	Name string `json:"name"`

	// RowID addresses the row for updates and deletes.
	// Empty on an update means the row is created earlier in the same run.
	RowID string `json:"row_id,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Item stores the source item for create and update actions.
	Item SourceItem `json:"-"`

	// Err is set on skip actions and carries the planning failure.
	Err error `json:"-"`
}

// Plan contains planned actions for one run.
type Plan struct {
	// Actions are ordered: upserts in source order, then deletes in store order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	// TargetBefore is the number of rows listed before any mutation.
	// It is -1 when the table was never listed (point lookups without pruning).
	TargetBefore int `json:"target_before"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// TotalItems is the number of source items seen.
	TotalItems int `json:"total_items"`

	// Creates counts planned create actions.
	Creates int `json:"creates"`

	// Updates counts planned update actions.
	Updates int `json:"updates"`

	// Deletes counts planned delete actions (the delete candidates).
	Deletes int `json:"deletes"`

	// Skips counts source items that could not be planned.
	Skips int `json:"skips"`
}

// Event is emitted once per applied action.
type Event struct {
	// Action is the action that was processed.
	Action Action

	// Index is the 1-based position of the action within its pass.
	Index int

	// Total is the size of the pass the action belongs to.
	Total int

	// Err is nil on success.
	Err error
}

// Observer receives progress events while a plan is applied.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}

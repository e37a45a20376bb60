package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyKey is carried by skip actions for source items without a key.
var ErrEmptyKey = errors.New("source item has an empty key")

// PlanSync computes the create/update/delete actions that converge the store to items.
// It does NOT mutate the store; use ApplyPlan for that.
//
// A failure to list the table is fatal and returned: reconciling against a partial
// view of the target would plan false creates and false deletes. A failed point lookup
// only affects its own item, which is planned as a skip carrying the error.
func PlanSync(ctx context.Context, spec *Spec, items []SourceItem, opts Options) (*Plan, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	lookup := opts.lookup()
	if !lookup.Valid() {
		return nil, fmt.Errorf("unknown lookup strategy %q", lookup)
	}

	plan := &Plan{TargetBefore: -1}

	var rows []TargetRow
	if lookup == LookupBulk || opts.Prune {
		listed, err := spec.Store.ListRows(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list target rows: %w", err)
		}
		rows = listed
		plan.TargetBefore = len(rows)
	}

	index := indexRows(rows)

	// planned maps a source key to the row its first occurrence addresses.
	// An empty row id means the first occurrence creates the row.
	planned := make(map[string]string, len(items))
	sourceKeys := make(map[string]struct{}, len(items))

	for _, item := range items {
		key := spec.Adapter.SourceKey(item)
		name := spec.Adapter.SourceName(item)
		plan.Summary.TotalItems++

		if key == "" {
			plan.add(Action{Type: ActionSkip, Name: name, Reason: "empty key", Err: ErrEmptyKey})
			continue
		}
		sourceKeys[key] = struct{}{}

		if rowID, seen := planned[key]; seen {
			plan.add(Action{
				Type:   ActionUpdate,
				Key:    key,
				Name:   name,
				RowID:  rowID,
				Reason: "duplicate source key",
				Item:   item,
			})
			continue
		}

		var match *TargetRow
		if lookup == LookupBulk {
			if row, ok := index[key]; ok {
				match = &row
			}
		} else {
			row, err := spec.Store.FindRow(ctx, key)
			if err != nil {
				plan.add(Action{
					Type:   ActionSkip,
					Key:    key,
					Name:   name,
					Reason: "lookup failed",
					Err:    fmt.Errorf("failed to look up key %s: %w", key, err),
				})
				continue
			}
			match = row
		}

		if match != nil {
			planned[key] = match.ID
			plan.add(Action{
				Type:   ActionUpdate,
				Key:    key,
				Name:   name,
				RowID:  match.ID,
				Reason: "matched existing row",
				Item:   item,
			})
			continue
		}

		planned[key] = ""
		plan.add(Action{
			Type:   ActionCreate,
			Key:    key,
			Name:   name,
			Reason: "no matching row",
			Item:   item,
		})
	}

	if opts.Prune {
		for _, row := range rows {
			// Rows without a key were not written by a sync and are left alone.
			if row.Key == "" {
				continue
			}
			if _, ok := sourceKeys[row.Key]; ok {
				continue
			}
			plan.add(Action{
				Type:   ActionDelete,
				Key:    row.Key,
				Name:   row.Name,
				RowID:  row.ID,
				Reason: "key absent from source",
			})
		}
	}

	return plan, nil
}

// add appends an action and keeps the summary in step.
func (p *Plan) add(a Action) {
	p.Actions = append(p.Actions, a)
	switch a.Type {
	case ActionCreate:
		p.Summary.Creates++
	case ActionUpdate:
		p.Summary.Updates++
	case ActionDelete:
		p.Summary.Deletes++
	case ActionSkip:
		p.Summary.Skips++
	}
}

// indexRows maps each key to the first row carrying it, in store order.
func indexRows(rows []TargetRow) map[string]TargetRow {
	index := make(map[string]TargetRow, len(rows))
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		if _, exists := index[row.Key]; exists {
			continue
		}
		index[row.Key] = row
	}
	return index
}

func (s *Spec) validate() error {
	if s == nil || s.Adapter == nil {
		return errors.New("reconcile spec has no adapter")
	}
	if s.Store == nil {
		return fmt.Errorf("reconcile spec for adapter %s has no store", s.Adapter.Name())
	}
	return nil
}

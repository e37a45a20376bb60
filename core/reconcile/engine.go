package reconcile

import (
	"context"
	"fmt"
	"time"
)

// now is the clock used for run durations.
var now = time.Now

// ApplyPlan executes the actions of a plan sequentially and returns the run outcome.
//
// Every action is isolated: an error or a panic while applying one action is counted
// in Failed, reported to the observer and processing continues with the next action.
// Publish is attempted once at the end when opts.Publish is set, whatever the number
// of failures; a publish failure is recorded but never changes the counts.
func ApplyPlan(ctx context.Context, spec *Spec, plan *Plan, opts Options, observer Observer) RunResult {
	started := now()

	result := RunResult{
		TotalSeen:        plan.Summary.TotalItems,
		TargetBefore:     plan.TargetBefore,
		DeleteCandidates: plan.Summary.Deletes,
		DryRun:           opts.DryRun,
	}

	if opts.DryRun {
		result.Created = plan.Summary.Creates
		result.Updated = plan.Summary.Updates
		result.Deleted = plan.Summary.Deletes
		result.Failed = plan.Summary.Skips
		result.Duration = now().Sub(started)
		return result
	}

	upserts, deletes := splitActions(plan.Actions)

	// created records the rows inserted during this run, for duplicate source keys.
	created := make(map[string]string)

	for i, action := range upserts {
		performed, err := applyUpsert(ctx, spec, action, created)
		action.Type = performed

		switch {
		case err != nil:
			result.Failed++
		case performed == ActionCreate:
			result.Created++
		case performed == ActionUpdate:
			result.Updated++
		}

		notify(observer, Event{Action: action, Index: i + 1, Total: len(upserts), Err: err})
	}

	for i, action := range deletes {
		err := applyDelete(ctx, spec, action)
		if err != nil {
			result.Failed++
		} else {
			result.Deleted++
		}

		notify(observer, Event{Action: action, Index: i + 1, Total: len(deletes), Err: err})
	}

	if opts.Publish {
		if err := spec.Store.Publish(ctx); err != nil {
			result.PublishError = err.Error()
		} else {
			result.Published = true
		}
	}

	result.Duration = now().Sub(started)
	return result
}

// Sync is a convenience wrapper that plans and applies in one call.
// Only planning failures (validation, table listing) are returned as errors.
func Sync(ctx context.Context, spec *Spec, items []SourceItem, opts Options, observer Observer) (*RunResult, error) {
	plan, err := PlanSync(ctx, spec, items, opts)
	if err != nil {
		return nil, err
	}

	result := ApplyPlan(ctx, spec, plan, opts, observer)
	return &result, nil
}

// applyUpsert transforms and writes one source item.
// It returns the operation actually performed, which differs from the planned one
// when a duplicate key falls back to a create.
func applyUpsert(ctx context.Context, spec *Spec, action Action, created map[string]string) (performed ActionType, err error) {
	performed = action.Type

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while applying %s for %s: %v", performed, action.Key, r)
		}
	}()

	if action.Type == ActionSkip {
		if action.Err != nil {
			return performed, action.Err
		}
		return performed, fmt.Errorf("skipped %s: %s", action.Key, action.Reason)
	}

	payload, err := spec.Adapter.Transform(action.Item)
	if err != nil {
		return performed, fmt.Errorf("failed to transform %s: %w", action.Key, err)
	}

	rowID := action.RowID
	if action.Type == ActionUpdate && rowID == "" {
		rowID = created[action.Key]
	}

	if action.Type == ActionCreate || rowID == "" {
		performed = ActionCreate
		id, err := spec.Store.CreateRow(ctx, payload)
		if err != nil {
			return performed, err
		}
		if _, exists := created[action.Key]; !exists && id != "" {
			created[action.Key] = id
		}
		return performed, nil
	}

	performed = ActionUpdate
	return performed, spec.Store.UpdateRow(ctx, rowID, payload)
}

func applyDelete(ctx context.Context, spec *Spec, action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while deleting %s: %v", action.Key, r)
		}
	}()

	return spec.Store.DeleteRow(ctx, action.RowID)
}

// splitActions separates the upsert pass from the delete pass, preserving order.
func splitActions(actions []Action) (upserts, deletes []Action) {
	for _, action := range actions {
		if action.Type == ActionDelete {
			deletes = append(deletes, action)
			continue
		}
		upserts = append(upserts, action)
	}
	return upserts, deletes
}

func notify(observer Observer, e Event) {
	if observer == nil {
		return
	}
	observer.OnEvent(e)
}

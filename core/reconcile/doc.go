// Package reconcile provides the engine that converges a key-addressed target table
// to a source collection.
//
// A run has two steps:
//
// 1. Plan: match every source item against the table by its stable key and decide
// create or update, then (when pruning) sweep the table for rows whose key is absent
// from the source and decide delete. Matching uses either one bulk listing indexed
// in memory (LookupBulk) or one filtered query per item (LookupPoint). Pruning always
// lists the full table.
//
// 2. Apply: execute the plan sequentially. Each action is isolated; a failure is
// counted and reported, never fatal. The draft is published once at the end.
//
// # Matching rules
//
//   - The first row returned by the store for a key wins; duplicate rows are left alone
//     unless their key disappears from the source.
//   - A duplicate source key updates the row chosen for its first occurrence, so the
//     last occurrence's values persist.
//   - Updates are unconditional: a matched row is always rewritten.
//
// # Counting
//
//	success = created + updated + deleted
//	total   = source items + delete candidates
//	rate    = success / total   (1 when total is 0)
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: courses.NewAdapter(t), Store: hubdbClient.Table(tableID)}
//	result, err := reconcile.Sync(ctx, spec, items, reconcile.Options{
//	    Lookup:  reconcile.LookupBulk,
//	    Prune:   true,
//	    Publish: true,
//	}, observer)
package reconcile

// Package sync coordinates catalog-to-HubDB runs.
//
// A Service performs one end-to-end pass per call:
//
//  1. Preconditions: the HubDB token is configured and a connectivity check succeeds.
//     Failing here returns ErrPrecondition before anything is written.
//  2. The table schema is fetched and logged; a failure is only a warning.
//  3. Sync mode reads the whole catalog (ErrSourceFetch on failure). An empty catalog
//     stops the run unless sync.allow_empty_catalog is set, so that an upstream outage
//     answering with zero items can never wipe the table.
//  4. The reconcile engine plans and applies creates, updates and deletes, then
//     publishes once. Every applied action is logged and counted in prometheus.
//  5. The summary is logged, kept in memory, saved to the MySQL history and archived
//     to object storage when those are configured. Persistence failures are warnings.
//
// Cleanup mode walks every configured cleanup table, deletes all of its rows (rows
// without a url key included) and publishes it; tables that are already empty are skipped.
//
// Runs are serialized through a mutex so HubDB only ever has one writer. The HTTP
// control plane goes through Trigger, which also collapses concurrent requests for the
// same mode into a single run with singleflight.
//
// # HTTP API
//
//	POST /sync/run[?dry_run=true]
//	POST /sync/cleanup?confirm=yes[&dry_run=true]
//	GET  /sync/last[?mode=cleanup]
package sync

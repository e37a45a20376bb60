// Package hubdb is the client for HubSpot HubDB tables.
//
// HubDB rows are edited in a draft version of the table; nothing is visible to readers until
// PublishTable pushes the draft live. Reads fail with ErrStoreUnavailable, row writes fail
// with a *WriteError (which matches ErrStoreWriteFailed) and publishing fails with
// ErrPublishFailed, so callers can tell a dead store from a rejected row.
//
// Table binds the client to one table id and adapts it to the reconcile.Store contract,
// using the url_key column as the match key.
package hubdb

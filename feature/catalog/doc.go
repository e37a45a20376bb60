// Package catalog reads the public course catalog.
//
// The catalog is a read-only product search API paginated by page number. FetchAll walks
// the pages from 1 until a page comes back short or empty and returns the concatenation in
// request order. Duplicate url keys are passed through untouched; deciding what to do with
// them belongs to the reconciler.
package catalog

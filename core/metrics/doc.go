// Package metrics exposes prometheus collectors for the reconciliation runs.
//
// Collectors live on a dedicated registry rather than the global default one, so tests and
// multiple service instances never collide. Per-row operations are counted as they are
// applied; run level gauges reflect the last finished run of each mode.
package metrics

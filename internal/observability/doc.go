// Package observability owns decode metrics.
//
// Ownership boundary:
// - prometheus collectors for records, events, bytes and outcomes
// - textfile export for batch runs
package observability

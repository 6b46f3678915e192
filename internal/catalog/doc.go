// Package catalog persists the media catalog in SQLite.
//
// Rows are keyed by the Drive file id (external_id) and soft-deleted
// rather than removed, so downstream consumers can observe departures.
// Curator decisions are sticky: a manual technique id freezes automated
// classification, and hidden rows survive reconciliation deletes.
package catalog

// Package reconcile computes and applies the difference between a Drive
// walk and the catalog.
//
// A run is idempotent: walking an unchanged tree yields an empty plan.
// Curator state is preserved throughout; hidden rows never leave the
// catalog and manual technique assignments are never disturbed.
package reconcile

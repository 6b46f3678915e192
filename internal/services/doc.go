// Package services defines the shared error taxonomy and context annotations
// used across the sync pipeline.
//
// Errors are tagged with sentinel markers so callers can classify them
// without string matching: transient remote failures are retried with
// backoff, structural API violations abort immediately, and configuration
// errors surface before any I/O happens.
package services

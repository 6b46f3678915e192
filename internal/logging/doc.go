// Package logging builds slog loggers with console and JSON handlers and
// provides the standardized attribute keys used across the sync pipeline.
// Every error logged during a run carries enough context (external id,
// folder path, stage) to be actionable without reproduction.
package logging

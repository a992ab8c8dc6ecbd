// Package logging assembles structured slog loggers and formatting helpers used
// across blacksys commands.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context helpers so the transcode and Steam workflows tag log lines
// with the batch run ID, album, and preset. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging

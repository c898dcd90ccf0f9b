// Package logging provides structured logging helpers built on log/slog.
//
// It defines the attribute keys shared across the codebase so that log
// output stays queryable, and sanitizers for values that must never appear
// in logs verbatim (offline tokens, access tokens).
package logging

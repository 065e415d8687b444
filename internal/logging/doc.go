// Package logging provides slog-based logging for the vaultconfig CLI.
//
// The default text handler is optimized for terminals: it colorizes output
// when the destination supports it and masks attribute values whose keys
// look like secrets, so revealed passwords never end up in log lines.
// A JSON handler is available for machine-readable output, and Tee fans a
// record out to several handlers (e.g. stderr plus a log file).
package logging

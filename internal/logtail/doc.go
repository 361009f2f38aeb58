// Package logtail reads the tail of packetdesk's own log file for the
// Activity view.
//
// The TUI owns the terminal, so the logger writes JSON lines to a file
// instead. Read returns the last N non-blank lines using a ring buffer, so
// memory stays O(N) however large the file grows. Parse turns each zerolog
// event into an Entry with its timestamp, level, message and the remaining
// fields sorted by key; lines that are not JSON are passed through untouched.
//
//	entries, err := logtail.ReadEntries(cfg.LogFile, 400)
//	entries = logtail.FilterLevel(entries, zerolog.InfoLevel)
//
// A missing log file is not an error; it yields no entries.
package logtail

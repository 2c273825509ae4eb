// Package logsearch extracts every record for one calendar date from a very
// large, chronologically sorted line log. Each record starts with a fixed
// 10-byte YYYY-MM-DD key, carries free text, and ends with '\n'.
//
// Two strategies share one contract. The seek strategy maps the file,
// estimates where the date should start from its day of the year, then
// jumps and refines to the exact byte range of the contiguous run and copies
// it in bulk. The stream strategy reads the file front to back in fixed
// blocks, matches whole records, carries split records into the next block
// and hands matches to a separate writer goroutine through a bounded queue.
// For sorted input both produce byte-identical output.
package logsearch

import "errors"

// Sentinel errors for programmatic handling. File-level failures are wrapped
// with context; use errors.Is to test for them. Malformed records are never
// errors, they simply do not match.
var (
	ErrSourceNotFound  = errors.New("log file not found")
	ErrInvalidDate     = errors.New("invalid date, want YYYY-MM-DD")
	ErrClosed          = errors.New("handoff is closed")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownDigest   = errors.New("unknown digest algorithm")
	ErrNotMappable     = errors.New("source cannot be mapped")
)

// Record boundary primitives over a random-access view of the log.
//
// Jumps land on arbitrary bytes, so every key comparison is preceded by
// snapping to the start of the record that contains the jump target. A
// record start is offset 0 or the byte right after a '\n'. All functions
// take the whole view and absolute offsets so callers never juggle
// sub-slices.
package logsearch

import "bytes"

// recordStart snaps p to the start of the record containing it. p is
// clamped to [0, len(data)]; len(data) is returned unchanged when the view
// ends with a terminator, since no record contains that offset.
func recordStart(data []byte, p int64) int64 {
	if p <= 0 {
		return 0
	}
	if p > int64(len(data)) {
		p = int64(len(data))
	}
	return int64(bytes.LastIndexByte(data[:p], '\n') + 1)
}

// nextRecord returns the start of the record after the one at p, or
// len(data) when the record at p is the last one.
func nextRecord(data []byte, p int64) int64 {
	if p >= int64(len(data)) {
		return int64(len(data))
	}
	i := bytes.IndexByte(data[p:], '\n')
	if i < 0 {
		return int64(len(data))
	}
	return p + int64(i) + 1
}

// prevRecord returns the start of the record before the one starting at p,
// or -1 when p is the first record.
func prevRecord(data []byte, p int64) int64 {
	if p <= 0 {
		return -1
	}
	return recordStart(data, p-1)
}

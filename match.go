// Block-wise record matching for sequential reads.
//
// The stream strategy reads fixed-size blocks that cut records at arbitrary
// bytes. Matcher joins the unterminated tail of the previous block (the
// leftover) with the next block, classifies every complete record in that
// window and keeps the new tail for the following call. A tail is never
// classified on its own until Flush, at end of input.
//
// Ranges are absolute offsets into the source. Bytes resolves them against
// the current window, which stays valid until the next Match or Flush.
package logsearch

import "bytes"

// Matcher classifies records of one source against one key. It owns its
// leftover: callers may reuse the block buffer as soon as Match returns.
type Matcher struct {
	key    []byte
	window []byte
	carry  []byte // leftover joined with the current block
	tail   []byte // leftover for the next call
	base   int64  // absolute offset of window[0]
	next   int64  // absolute offset of tail[0]
}

// NewMatcher returns a matcher positioned at offset 0 of the source.
func NewMatcher(key DateKey) *Matcher {
	return &Matcher{key: key.prefix()}
}

// Match returns the ranges of the complete records in leftover+block that
// carry the key, in source order. Records with a malformed prefix are
// skipped.
func (m *Matcher) Match(block []byte) []Range {
	m.carry, m.tail = m.tail, m.carry[:0]

	window := block
	if len(m.carry) > 0 {
		m.carry = append(m.carry, block...)
		window = m.carry
	}
	m.window = window
	m.base = m.next

	var ranges []Range
	i := 0
	for {
		j := bytes.IndexByte(window[i:], '\n')
		if j < 0 {
			break
		}
		end := i + j + 1
		if hasKey(window[i:end], m.key) {
			ranges = append(ranges, Range{Start: m.base + int64(i), End: m.base + int64(end)})
		}
		i = end
	}

	m.tail = append(m.tail, window[i:]...)
	m.next = m.base + int64(i)
	return ranges
}

// Flush classifies the unterminated final record, if any. Call once after
// the last block.
func (m *Matcher) Flush() (Range, bool) {
	if len(m.tail) == 0 {
		return Range{}, false
	}
	m.window = m.tail
	m.base = m.next
	m.tail = nil
	m.next += int64(len(m.window))

	if !hasKey(m.window, m.key) {
		return Range{}, false
	}
	return Range{Start: m.base, End: m.next}, true
}

// Leftover is the number of bytes carried into the next call.
func (m *Matcher) Leftover() int {
	return len(m.tail)
}

// Bytes returns the source bytes of r from the current window.
func (m *Matcher) Bytes(r Range) []byte {
	return m.window[r.Start-m.base : r.End-m.base]
}

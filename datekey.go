// Date keys.
//
// Every record begins with a 10-byte key in the canonical YYYY-MM-DD form.
// time.Parse with the 2006-01-02 layout only accepts zero-padded fields, so
// any key that parses is canonical and byte order equals calendar order.
// That lets the scanners compare raw prefixes without building time values.
package logsearch

import (
	"bytes"
	"time"
	"unicode/utf8"
)

// KeyLen is the width of the date prefix of every record.
const KeyLen = 10

const keyLayout = "2006-01-02"

// DateKey is a validated calendar date in canonical YYYY-MM-DD form.
// The zero value is not a valid key.
type DateKey struct {
	s string
	t time.Time
}

// ParseDateKey validates s and returns its key. Used at the entry point;
// per-record parsing goes through keyAt, which never fails loudly.
func ParseDateKey(s string) (DateKey, error) {
	if len(s) != KeyLen {
		return DateKey{}, ErrInvalidDate
	}
	t, err := time.Parse(keyLayout, s)
	if err != nil {
		return DateKey{}, ErrInvalidDate
	}
	return DateKey{s: s, t: t}, nil
}

func (k DateKey) String() string { return k.s }

// IsZero reports whether k is the unset key.
func (k DateKey) IsZero() bool { return k.s == "" }

// Time returns the key as midnight UTC.
func (k DateKey) Time() time.Time { return k.t }

// Compare orders keys chronologically: -1, 0 or +1.
func (k DateKey) Compare(o DateKey) int {
	switch {
	case k.s < o.s:
		return -1
	case k.s > o.s:
		return 1
	}
	return 0
}

// YearDay is the zero-based ordinal day of k within its year.
func (k DateKey) YearDay() int {
	return k.t.YearDay() - 1
}

// prefix is the key as it appears on disk.
func (k DateKey) prefix() []byte {
	return []byte(k.s)
}

// keyAt parses the record key starting at pos. ok is false when fewer than
// KeyLen bytes remain, the bytes are not text, or they are not a date.
func keyAt(data []byte, pos int64) (DateKey, bool) {
	if pos < 0 || pos+KeyLen > int64(len(data)) {
		return DateKey{}, false
	}
	raw := data[pos : pos+KeyLen]
	if !utf8.Valid(raw) || bytes.IndexByte(raw, '\n') >= 0 {
		return DateKey{}, false
	}
	k, err := ParseDateKey(string(raw))
	if err != nil {
		return DateKey{}, false
	}
	return k, true
}

// hasKey reports whether record starts with key. The target is already
// valid, so a byte-equal prefix is a match and anything else, malformed or
// not, is not.
func hasKey(record, key []byte) bool {
	return len(record) >= KeyLen && bytes.Equal(record[:KeyLen], key)
}

// Boundary search over a sorted, memory-mapped log.
//
// The search starts from the estimate and probes one record at a time. A
// probe that lands before the date jumps forward by a fixed step, one that
// lands after it jumps back. Each probe also tightens a [lo, hi) bracket of
// record starts that can still hold the run: everything up to an earlier
// record is ruled out, as is everything from a later one. A jump that would
// leave the bracket goes to its midpoint instead, so the search cannot
// bounce between two probes forever and ends in O(log n) probes once the
// step overshoots. An empty bracket means the date is absent.
//
// Once a probe hits the date, refine walks record by record in the requested
// direction to the edge of the run.
//
// Records whose prefix is not a date are transparent: the probe slides to
// the nearest well-formed record (first in the current heading, then the
// other way) and refine walks through them without stopping. The run edges
// it reports are always well-formed matching records.
package logsearch

// Direction selects which edge of the run boundary reports.
type Direction int

const (
	Backward Direction = iota // first byte of the first matching record
	Forward                   // first byte after the last matching record
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// DefaultStepSize is the coarse jump stride.
const DefaultStepSize = 4 * 1024

// Range is a half-open byte interval [Start, End) of the log.
type Range struct {
	Start int64
	End   int64
}

// Len is the number of bytes in r.
func (r Range) Len() int64 { return r.End - r.Start }

// scanner holds one boundary search. probes counts every record key read,
// for metrics and tests.
type scanner struct {
	data   []byte
	key    DateKey
	step   int64
	probes int
}

func newScanner(data []byte, key DateKey, step int64) *scanner {
	if step <= 0 {
		step = DefaultStepSize
	}
	return &scanner{data: data, key: key, step: step}
}

// locate returns the contiguous run of key's records. ok is false when no
// well-formed record carries the key.
func (s *scanner) locate() (Range, bool) {
	start, ok := s.boundary(estimate(s.data, s.key), Backward)
	if !ok {
		return Range{}, false
	}
	end, _ := s.boundary(start, Forward)
	return Range{Start: start, End: end}, true
}

// boundary searches from approx for a record carrying the key and returns
// the run edge in dir. When nothing matches it returns the source bound in
// dir (0 or size) and false.
func (s *scanner) boundary(approx int64, dir Direction) (int64, bool) {
	size := int64(len(s.data))
	lo, hi := int64(0), size
	heading := dir
	pos := approx

	for lo < hi {
		if pos < lo || pos >= hi {
			pos = lo + (hi-lo)/2
		}
		q, k, ok := s.wellFormed(recordStart(s.data, pos), lo, hi, heading)
		if !ok {
			break
		}

		c := k.Compare(s.key)
		if c == 0 {
			return s.refine(q, dir), true
		}
		if c < 0 {
			lo = nextRecord(s.data, q)
			heading = Forward
			pos = q + s.step
		} else {
			hi = q
			heading = Backward
			pos = q - s.step
		}
	}

	if dir == Forward {
		return size, false
	}
	return 0, false
}

// wellFormed finds the record nearest to p within [lo, hi) whose key
// parses, looking in heading first and then the opposite way.
func (s *scanner) wellFormed(p, lo, hi int64, heading Direction) (int64, DateKey, bool) {
	if q, k, ok := s.walk(p, lo, hi, heading); ok {
		return q, k, true
	}
	if heading == Forward {
		return s.walk(prevRecord(s.data, p), lo, hi, Backward)
	}
	return s.walk(nextRecord(s.data, p), lo, hi, Forward)
}

func (s *scanner) walk(q, lo, hi int64, heading Direction) (int64, DateKey, bool) {
	for q >= lo && q < hi {
		s.probes++
		if k, ok := keyAt(s.data, q); ok {
			return q, k, true
		}
		if heading == Forward {
			q = nextRecord(s.data, q)
		} else {
			q = prevRecord(s.data, q)
		}
	}
	return 0, DateKey{}, false
}

// refine walks from the matching record at q to the edge of its run. It
// stops at the first well-formed record with another date or at the source
// bound.
func (s *scanner) refine(q int64, dir Direction) int64 {
	size := int64(len(s.data))

	if dir == Backward {
		first := q
		for p := prevRecord(s.data, q); p >= 0; p = prevRecord(s.data, p) {
			s.probes++
			k, ok := keyAt(s.data, p)
			if !ok {
				continue
			}
			if k.Compare(s.key) != 0 {
				break
			}
			first = p
		}
		return first
	}

	last := q
	for p := nextRecord(s.data, q); p < size; p = nextRecord(s.data, p) {
		s.probes++
		k, ok := keyAt(s.data, p)
		if !ok {
			continue
		}
		if k.Compare(s.key) != 0 {
			break
		}
		last = p
	}
	return nextRecord(s.data, last)
}

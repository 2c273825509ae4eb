package logsearch

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/require"
)

// exampleLog is the three-record log used throughout the docs.
const exampleLog = "2024-01-01 a\n2024-01-01 b\n2024-01-02 c\n"

// writeLog writes content to a fresh file and returns its path.
func writeLog(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// genOptions shapes a synthetic sorted log.
type genOptions struct {
	start     string  // first date
	days      int     // calendar days covered
	maxPerDay int     // records per day are uniform in [0, maxPerDay]
	malformed float64 // probability of a malformed line after each record
	noFinalNL bool    // drop the last terminator
}

var malformedLines = []string{
	"",
	"garbage without a date",
	"2024-13-45 impossible month",
	"2024-1-1 unpadded",
	"\xff\xfe\xfd not text",
	"2024",
}

// genLog builds a date-sorted log. Payloads come from faker so record
// lengths vary the way real messages do.
func genLog(t testing.TB, rnd *rand.Rand, o genOptions) string {
	t.Helper()
	day, err := time.Parse(keyLayout, o.start)
	require.NoError(t, err)

	var b strings.Builder
	for d := 0; d < o.days; d++ {
		date := day.AddDate(0, 0, d).Format(keyLayout)
		n := rnd.Intn(o.maxPerDay + 1)
		for i := 0; i < n; i++ {
			b.WriteString(date)
			b.WriteString(" INFO ")
			b.WriteString(faker.Sentence())
			b.WriteByte('\n')
			if o.malformed > 0 && rnd.Float64() < o.malformed {
				b.WriteString(malformedLines[rnd.Intn(len(malformedLines))])
				b.WriteByte('\n')
			}
		}
	}
	s := b.String()
	if o.noFinalNL {
		s = strings.TrimSuffix(s, "\n")
	}
	return s
}

// linearRun is the exhaustive reference for well-formed sorted input: the
// first matching record through the end of the last one in its run.
func linearRun(data []byte, date string) (Range, bool) {
	key := []byte(date)
	var r Range
	found := false
	for p := int64(0); p < int64(len(data)); {
		q := nextRecord(data, p)
		if hasKey(data[p:q], key) {
			if !found {
				r.Start = p
				found = true
			}
			r.End = q
		} else if found {
			if _, ok := keyAt(data, p); ok {
				break
			}
		}
		p = q
	}
	return r, found
}

// matching is every record of date, in order, malformed lines excluded.
func matching(data []byte, date string) []byte {
	key := []byte(date)
	var out bytes.Buffer
	for p := int64(0); p < int64(len(data)); {
		q := nextRecord(data, p)
		if hasKey(data[p:q], key) {
			out.Write(data[p:q])
		}
		p = q
	}
	return out.Bytes()
}

// datesIn lists the distinct well-formed dates of data plus the days on
// either side of each, which covers the gaps left by empty days.
func datesIn(data []byte) []string {
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for p := int64(0); p < int64(len(data)); p = nextRecord(data, p) {
		if k, ok := keyAt(data, p); ok {
			add(k.String())
			add(k.Time().AddDate(0, 0, -1).Format(keyLayout))
			add(k.Time().AddDate(0, 0, 1).Format(keyLayout))
		}
	}
	return out
}

func mustKey(t testing.TB, s string) DateKey {
	t.Helper()
	k, err := ParseDateKey(s)
	require.NoError(t, err)
	return k
}

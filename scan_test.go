// Boundary search tests.
//
// The search must agree with an exhaustive scan for every date, whatever
// the estimate and step size, and must terminate for dates that fall in a
// gap between two present dates. The naive jump-and-walk approach loops
// forever on exactly that case, so it gets explicit coverage.
package logsearch

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locate(t *testing.T, content, date string, step int64) (Range, bool) {
	t.Helper()
	return newScanner([]byte(content), mustKey(t, date), step).locate()
}

func TestLocateExample(t *testing.T) {
	r, ok := locate(t, exampleLog, "2024-01-01", 0)
	require.True(t, ok)
	assert.Equal(t, Range{0, 26}, r)
	assert.Equal(t, "2024-01-01 a\n2024-01-01 b\n", exampleLog[r.Start:r.End])

	r, ok = locate(t, exampleLog, "2024-01-02", 0)
	require.True(t, ok)
	assert.Equal(t, Range{26, 39}, r)

	_, ok = locate(t, exampleLog, "2024-01-03", 0)
	assert.False(t, ok)
}

func TestLocateEdges(t *testing.T) {
	content := "2024-01-01 first\n2024-03-01 a\n2024-03-01 b\n2024-12-31 last\n"

	r, ok := locate(t, content, "2024-01-01", 8)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01 first\n", content[r.Start:r.End])

	r, ok = locate(t, content, "2024-12-31", 8)
	require.True(t, ok)
	assert.Equal(t, "2024-12-31 last\n", content[r.Start:r.End])
	assert.Equal(t, int64(len(content)), r.End)
}

func TestLocateUnterminatedLastRecord(t *testing.T) {
	content := "2024-05-01 a\n2024-05-02 b\n2024-05-02 c"
	r, ok := locate(t, content, "2024-05-02", 4)
	require.True(t, ok)
	assert.Equal(t, "2024-05-02 b\n2024-05-02 c", content[r.Start:r.End])
}

func TestLocateAbsentDates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("2024-03-10 before the gap\n")
	}
	for i := 0; i < 500; i++ {
		b.WriteString("2024-03-12 after the gap\n")
	}
	content := b.String()

	for _, date := range []string{"2024-03-11", "2024-01-01", "2024-12-31", "2023-03-11", "2025-03-11"} {
		for _, step := range []int64{1, 16, 100, 4096, 1 << 20} {
			_, ok := locate(t, content, date, step)
			assert.False(t, ok, "%s step %d", date, step)
		}
	}
}

func TestLocateEmptyAndMalformedOnly(t *testing.T) {
	_, ok := locate(t, "", "2024-01-01", 0)
	assert.False(t, ok)

	_, ok = locate(t, "junk\n\nmore junk\n2024-99-99 nope\n", "2024-01-01", 4)
	assert.False(t, ok)
}

func TestBoundaryDirections(t *testing.T) {
	content := "2024-02-01 a\n2024-02-02 b\n2024-02-02 c\n2024-02-02 d\n2024-02-03 e\n"
	data := []byte(content)
	s := newScanner(data, mustKey(t, "2024-02-02"), 4)

	// Start from inside the run, mid-record.
	start, ok := s.boundary(30, Backward)
	require.True(t, ok)
	assert.Equal(t, int64(13), start)

	end, ok := s.boundary(30, Forward)
	require.True(t, ok)
	assert.Equal(t, int64(52), end)

	absent := newScanner(data, mustKey(t, "2024-02-05"), 4)
	pos, ok := absent.boundary(0, Backward)
	assert.False(t, ok)
	assert.Zero(t, pos)
	pos, ok = absent.boundary(0, Forward)
	assert.False(t, ok)
	assert.Equal(t, int64(len(data)), pos)
}

func TestLocateMatchesLinearScan(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for round := 0; round < 6; round++ {
		content := genLog(t, rnd, genOptions{
			start:     "2024-01-01",
			days:      40 + rnd.Intn(60),
			maxPerDay: 1 + rnd.Intn(30),
			noFinalNL: round%2 == 1,
		})
		data := []byte(content)

		for _, date := range datesIn(data) {
			want, wantOK := linearRun(data, date)
			for _, step := range []int64{1, 7, 64, 512, 4096} {
				got, ok := newScanner(data, mustKey(t, date), step).locate()
				require.Equal(t, wantOK, ok, "round %d date %s step %d", round, date, step)
				if ok {
					require.Equal(t, want, got, "round %d date %s step %d", round, date, step)
				}
			}
		}
	}
}

func TestLocateSkipsMalformedRecords(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	content := genLog(t, rnd, genOptions{
		start:     "2024-04-01",
		days:      60,
		maxPerDay: 12,
		malformed: 0.3,
	})
	data := []byte(content)

	for _, date := range datesIn(data) {
		for _, step := range []int64{3, 100, 4096} {
			var out bytes.Buffer
			s := newScanner(data, mustKey(t, date), step)
			if r, ok := s.locate(); ok {
				require.NoError(t, copyRun(data, r, []byte(date), 64, &out))
			}
			require.Equal(t, string(matching(data, date)), out.String(), "date %s step %d", date, step)
		}
	}
}

func TestLocateProbesStayLow(t *testing.T) {
	var b strings.Builder
	for d := 1; d <= 28; d++ {
		date := "2024-02-" + twoDigits(d)
		for i := 0; i < 400; i++ {
			b.WriteString(date + " steady traffic\n")
		}
	}
	data := []byte(b.String())

	s := newScanner(data, mustKey(t, "2024-02-15"), DefaultStepSize)
	_, ok := s.locate()
	require.True(t, ok)
	// Refinement walks the 400-record run twice; the coarse phase adds
	// comparatively little on top.
	assert.Less(t, s.probes, 1400)
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func TestCopyRunChunks(t *testing.T) {
	data := []byte(exampleLog)
	var out bytes.Buffer
	require.NoError(t, copyRun(data, Range{0, 26}, []byte("2024-01-01"), 5, &out))
	assert.Equal(t, "2024-01-01 a\n2024-01-01 b\n", out.String())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "backward", Backward.String())
}

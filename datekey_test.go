package logsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateKey(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-1-01", false},
		{"2024-01-1 ", false},
		{"24-01-01", false},
		{"2024/01/01", false},
		{"", false},
		{"2024-01-01x", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := ParseDateKey(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidDate)
				assert.True(t, k.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.in, k.String())
		})
	}
}

func TestDateKeyCompare(t *testing.T) {
	a := mustKey(t, "2024-01-31")
	b := mustKey(t, "2024-02-01")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(mustKey(t, "2024-01-31")))
}

func TestDateKeyYearDay(t *testing.T) {
	assert.Equal(t, 0, mustKey(t, "2024-01-01").YearDay())
	assert.Equal(t, 31, mustKey(t, "2024-02-01").YearDay())
	assert.Equal(t, 365, mustKey(t, "2024-12-31").YearDay())
	assert.Equal(t, 364, mustKey(t, "2023-12-31").YearDay())
}

func TestKeyAt(t *testing.T) {
	data := []byte("2024-01-01 a\nbad\n2024-13-01 x\n\xff\xfe34-56-78 y\n2024-01-0\n2024-03-04")

	k, ok := keyAt(data, 0)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", k.String())

	for _, p := range []int64{13, 17, 30, 43} {
		_, ok := keyAt(data, p)
		assert.False(t, ok, "offset %d", p)
	}

	k, ok = keyAt(data, int64(len(data))-10)
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", k.String())

	_, ok = keyAt(data, -1)
	assert.False(t, ok)
	_, ok = keyAt(data, int64(len(data))-9)
	assert.False(t, ok)
}

func TestHasKey(t *testing.T) {
	key := []byte("2024-01-01")
	assert.True(t, hasKey([]byte("2024-01-01 x\n"), key))
	assert.True(t, hasKey([]byte("2024-01-01"), key))
	assert.False(t, hasKey([]byte("2024-01-0"), key))
	assert.False(t, hasKey([]byte("2024-01-02 x\n"), key))
	assert.False(t, hasKey(nil, key))
}

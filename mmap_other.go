//go:build !unix

package logsearch

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// mapFile reads the file into memory where mmap is not available. The seek
// strategy only needs a random-access view; auto selection falls back to
// streaming if this allocation fails.
func mapFile(f *os.File, size int64) ([]byte, error) {
	if size > math.MaxInt {
		return nil, errors.Wrapf(ErrNotMappable, "%d bytes", size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, size), data); err != nil {
		return nil, errors.Wrap(err, "read source")
	}
	return data, nil
}

func unmapFile([]byte) error { return nil }

//go:build unix

package logsearch

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mapFile maps the first size bytes of f read-only.
func mapFile(f *os.File, size int64) ([]byte, error) {
	if size > math.MaxInt {
		return nil, errors.Wrapf(ErrNotMappable, "%d bytes", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "mmap")
	}
	return data, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}

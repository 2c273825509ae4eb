// The log being searched.
//
// A Source is opened read-only and never written. Regular files get a size
// and, when the seek strategy asks for it, a read-only mapping of that many
// bytes. "-" means standard input, which can only be streamed.
package logsearch

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// StdinPath names standard input as a source.
const StdinPath = "-"

// Source is an open, read-only log.
type Source struct {
	path    string
	f       *os.File
	size    int64
	regular bool
	lock    *fileLock
	data    []byte
	mapped  bool
}

// OpenSource opens path for reading. With lock set, a shared advisory lock
// is held until Close. Open failures wrap ErrSourceNotFound.
func OpenSource(path string, lock bool) (*Source, error) {
	if path == StdinPath {
		return &Source{path: path, f: os.Stdin, size: -1}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "stat source")
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}

	src := &Source{
		path:    path,
		f:       f,
		size:    info.Size(),
		regular: info.Mode().IsRegular(),
	}
	if lock && src.regular {
		src.lock = &fileLock{f: f}
		if err := src.lock.Lock(LockShared); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "lock source")
		}
	}
	return src, nil
}

// Path is the path the source was opened with.
func (s *Source) Path() string { return s.path }

// Size is the byte size at open time, or -1 for standard input.
func (s *Source) Size() int64 { return s.size }

// Seekable reports whether the source supports a random-access view.
func (s *Source) Seekable() bool { return s.regular }

// Map returns a read-only view of the whole source, mapping it on first
// call. An empty file yields an empty view.
func (s *Source) Map() ([]byte, error) {
	if !s.regular {
		return nil, errors.Wrap(ErrNotMappable, s.path)
	}
	if s.mapped || s.size == 0 {
		return s.data, nil
	}
	data, err := mapFile(s.f, s.size)
	if err != nil {
		return nil, err
	}
	s.data = data
	s.mapped = true
	return data, nil
}

// Reader reads the source from its first byte, independent of any mapping.
func (s *Source) Reader() io.Reader {
	if !s.regular {
		return s.f
	}
	return io.NewSectionReader(s.f, 0, s.size)
}

// Close unmaps, unlocks and closes the source. Standard input is left open.
func (s *Source) Close() error {
	var first error
	if s.mapped {
		if err := unmapFile(s.data); err != nil {
			first = errors.Wrap(err, "unmap source")
		}
		s.data, s.mapped = nil, false
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && first == nil {
			first = errors.Wrap(err, "unlock source")
		}
		s.lock.setFile(nil)
	}
	if s.path == StdinPath {
		return first
	}
	if err := s.f.Close(); err != nil && first == nil {
		first = errors.Wrap(err, "close source")
	}
	return first
}

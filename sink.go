// Output sink.
//
// The sink is created lazily by the first write, so a request that matches
// nothing leaves no file behind. Writes go through a bufio.Writer sized to
// the copy chunk, optionally through a zstd encoder, and always through the
// digest and the record counter. Partial output from a failed request is
// left in place.
package logsearch

import (
	"bufio"
	"bytes"
	"hash"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Sink receives matched records in source order.
type Sink struct {
	path     string
	compress bool
	bufSize  int

	f      *os.File
	buf    *bufio.Writer
	zw     *zstd.Encoder
	out    io.Writer
	digest hash.Hash

	bytes   int64
	records int64
	last    byte
}

func newSink(path string, cfg Config) (*Sink, error) {
	h, err := newDigest(cfg.Digest)
	if err != nil {
		return nil, err
	}
	return &Sink{path: path, compress: cfg.Compress, bufSize: cfg.CopyChunk, digest: h}, nil
}

func (s *Sink) open() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	s.f = f
	s.buf = bufio.NewWriterSize(f, s.bufSize)
	s.out = s.buf

	if s.compress {
		// SpeedFastest keeps the writer goroutine ahead of the reader.
		zw, err := zstd.NewWriter(s.buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			f.Close()
			return errors.Wrap(err, "zstd writer")
		}
		s.zw = zw
		s.out = zw
	}
	return nil
}

// Write appends p to the output, creating it on first use.
func (s *Sink) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.f == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}

	n, err := s.out.Write(p)
	if s.digest != nil {
		s.digest.Write(p[:n])
	}
	s.bytes += int64(n)
	s.records += int64(bytes.Count(p[:n], []byte{'\n'}))
	if n > 0 {
		s.last = p[n-1]
	}
	if err != nil {
		return n, errors.Wrap(err, "write output")
	}
	return n, nil
}

// Close flushes and closes the output. It is a no-op when nothing was
// written.
func (s *Sink) Close() error {
	if s.f == nil {
		return nil
	}
	var first error
	if s.zw != nil {
		if err := s.zw.Close(); err != nil {
			first = errors.Wrap(err, "close zstd")
		}
	}
	if err := s.buf.Flush(); err != nil && first == nil {
		first = errors.Wrap(err, "flush output")
	}
	if err := s.f.Close(); err != nil && first == nil {
		first = errors.Wrap(err, "close output")
	}
	s.f = nil
	return first
}

// Path is where the output is (or would be) written.
func (s *Sink) Path() string { return s.path }

// Bytes is the number of uncompressed bytes written.
func (s *Sink) Bytes() int64 { return s.bytes }

// Records counts terminated records plus a final unterminated one.
func (s *Sink) Records() int64 {
	if s.bytes > 0 && s.last != '\n' {
		return s.records + 1
	}
	return s.records
}

// Digest is the hex digest of the uncompressed output, or "" when disabled.
func (s *Sink) Digest() string { return sumHex(s.digest) }

// Extraction strategies.
//
// Both strategies take the same inputs and write the same bytes for a sorted
// source; they differ in how they get there.
//
//   - seek: map the file, locate the run with the boundary search, copy it in
//     bulk. Single goroutine, touches only the pages around the run.
//   - stream: read every block, match records, hand matches to a writer
//     goroutine. Works on pipes and unsorted input.
package logsearch

import (
	"bytes"
	"context"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Strategy writes every record of key from src to sink.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, logger log.Logger, src *Source, key DateKey, sink io.Writer) error
}

type seekStrategy struct {
	step   int64
	chunk  int
	probes prometheus.Counter
}

func (s *seekStrategy) Name() string { return StrategySeek }

func (s *seekStrategy) Extract(ctx context.Context, logger log.Logger, src *Source, key DateKey, sink io.Writer) error {
	data, err := src.Map()
	if err != nil {
		return err
	}

	sc := newScanner(data, key, s.step)
	r, ok := sc.locate()
	if s.probes != nil {
		s.probes.Add(float64(sc.probes))
	}
	level.Debug(logger).Log("msg", "boundary search", "found", ok, "start", r.Start, "end", r.End, "probes", sc.probes)
	if !ok {
		return nil
	}
	return copyRun(data, r, key.prefix(), s.chunk, sink)
}

// copyRun writes the matching records of r in chunks. A sorted run is one
// contiguous block; malformed lines inside it are left out.
func copyRun(data []byte, r Range, key []byte, chunk int, w io.Writer) error {
	seg := int64(-1)
	flush := func(end int64) error {
		if seg < 0 {
			return nil
		}
		err := copyChunks(w, data[seg:end], chunk)
		seg = -1
		return err
	}

	for p := r.Start; p < r.End; {
		q := min(nextRecord(data, p), r.End)
		if hasKey(data[p:q], key) {
			if seg < 0 {
				seg = p
			}
		} else if err := flush(p); err != nil {
			return err
		}
		p = q
	}
	return flush(r.End)
}

func copyChunks(w io.Writer, b []byte, chunk int) error {
	if chunk <= 0 {
		chunk = DefaultCopyChunk
	}
	for len(b) > 0 {
		n := min(chunk, len(b))
		if _, err := w.Write(b[:n]); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

type streamStrategy struct {
	block   int
	depth   int
	blocked prometheus.Counter
}

func (s *streamStrategy) Name() string { return StrategyStream }

// Extract runs the reader/matcher and the writer as two goroutines joined by
// a Handoff. The first failure on either side cancels the other.
func (s *streamStrategy) Extract(ctx context.Context, logger log.Logger, src *Source, key DateKey, sink io.Writer) error {
	h := NewHandoff(s.depth, s.blocked)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer h.Close()
		return s.produce(gctx, logger, src.Reader(), key, h)
	})
	g.Go(func() error {
		return consume(gctx, h, sink)
	})
	return g.Wait()
}

func (s *streamStrategy) produce(ctx context.Context, logger log.Logger, r io.Reader, key DateKey, h *Handoff) error {
	block := s.block
	if block <= 0 {
		block = DefaultReadBuffer
	}
	m := NewMatcher(key)
	buf := make([]byte, block)
	blocks := 0

	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			blocks++
			if err := emit(ctx, m, m.Match(buf[:n]), h); err != nil {
				return err
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "read source")
		}
	}

	if last, ok := m.Flush(); ok {
		if err := emit(ctx, m, []Range{last}, h); err != nil {
			return err
		}
	}
	level.Debug(logger).Log("msg", "stream read done", "blocks", blocks)
	return nil
}

// emit pushes copies of the matched bytes, merging records that are
// adjacent in the source into one chunk.
func emit(ctx context.Context, m *Matcher, ranges []Range, h *Handoff) error {
	for i := 0; i < len(ranges); {
		cur := ranges[i]
		i++
		for i < len(ranges) && ranges[i].Start == cur.End {
			cur.End = ranges[i].End
			i++
		}
		if err := h.Push(ctx, bytes.Clone(m.Bytes(cur))); err != nil {
			return err
		}
	}
	return nil
}

func consume(ctx context.Context, h *Handoff, w io.Writer) error {
	for {
		chunk, ok, err := h.Pop(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
}

// Producer/consumer hand-off for the stream strategy.
//
// Handoff is a bounded FIFO between exactly one producer (the reader and
// matcher) and one consumer (the writer). Push blocks while the queue is
// full and Pop while it is empty; that is the only synchronisation between
// the two goroutines, and since the queue is strictly FIFO the writer sees
// matches in discovery order.
//
// End of stream is an explicit Close by the producer, never a nil chunk.
// Pop reports it with ok=false once every queued chunk has been taken. Both
// sides take a context so that either one failing releases the other.
package logsearch

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultQueueDepth is the default Handoff capacity in chunks.
const DefaultQueueDepth = 64

// Handoff carries owned byte chunks from the producer to the consumer.
type Handoff struct {
	ch      chan []byte
	once    sync.Once
	closed  bool // producer-side only
	blocked prometheus.Counter
}

// NewHandoff returns a hand-off holding at most capacity chunks. blocked, if
// non-nil, counts pushes that found the queue full.
func NewHandoff(capacity int, blocked prometheus.Counter) *Handoff {
	if capacity <= 0 {
		capacity = DefaultQueueDepth
	}
	return &Handoff{ch: make(chan []byte, capacity), blocked: blocked}
}

// Push queues chunk, blocking while the queue is full. The consumer owns
// chunk afterwards. Push and Close must be called from the producing
// goroutine.
func (h *Handoff) Push(ctx context.Context, chunk []byte) error {
	if h.closed {
		return ErrClosed
	}
	select {
	case h.ch <- chunk:
		return nil
	default:
	}

	if h.blocked != nil {
		h.blocked.Inc()
	}
	select {
	case h.ch <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the end of the stream. Chunks already queued are still
// delivered. Calling Close more than once is a no-op.
func (h *Handoff) Close() {
	h.once.Do(func() {
		h.closed = true
		close(h.ch)
	})
}

// Pop takes the next chunk, blocking while the queue is empty. ok is false
// once the producer has closed and the queue is drained.
func (h *Handoff) Pop(ctx context.Context) (chunk []byte, ok bool, err error) {
	select {
	case chunk, ok = <-h.ch:
		return chunk, ok, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Len is the number of chunks waiting.
func (h *Handoff) Len() int {
	return len(h.ch)
}

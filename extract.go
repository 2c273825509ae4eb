// Request orchestration.
//
// An Extractor serves one request at a time per call and keeps no state
// between calls beyond its configuration and metrics. Each request opens
// the source, picks a strategy, writes through a lazily created sink and
// returns a Report. No step is retried: a failed read or write ends the
// request and any partial output stays on disk.
package logsearch

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Extractor runs extraction requests.
type Extractor struct {
	logger  log.Logger
	metrics *metrics
	cfg     Config
}

// New returns an Extractor. logger and registerer may be nil; metrics are
// registered under the logsearch_ prefix.
func New(logger log.Logger, registerer prometheus.Registerer, cfg Config) (*Extractor, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Extractor{logger: logger, metrics: newMetrics(registerer), cfg: cfg}, nil
}

// Config returns the effective configuration, defaults applied.
func (e *Extractor) Config() Config { return e.cfg }

// Extract writes every record of date found in srcPath to the output
// directory. A date with no records is OutcomeNoMatch with a nil error and
// no output file. The returned Report is never nil.
func (e *Extractor) Extract(ctx context.Context, srcPath, date string) (*Report, error) {
	key, err := ParseDateKey(date)
	if err != nil {
		r := &Report{Date: date, Source: srcPath, Outcome: OutcomeError, Err: err.Error()}
		return r, errors.Wrapf(err, "%q", date)
	}
	return e.ExtractKey(ctx, srcPath, key)
}

// ExtractKey is Extract for an already validated key.
func (e *Extractor) ExtractKey(ctx context.Context, srcPath string, key DateKey) (*Report, error) {
	started := time.Now()
	r := &Report{
		RequestID: uuid.NewString(),
		Date:      key.String(),
		Source:    srcPath,
	}
	logger := log.With(e.logger, "req", r.RequestID, "date", key.String())

	err := e.run(ctx, logger, srcPath, key, r)
	r.Elapsed = time.Since(started)

	switch {
	case err != nil:
		r.Outcome = OutcomeError
		r.Err = err.Error()
		level.Error(logger).Log("msg", "extraction failed", "strategy", r.Strategy, "err", err)
	case r.Bytes == 0:
		r.Outcome = OutcomeNoMatch
		level.Warn(logger).Log("msg", "no matching records", "strategy", r.Strategy, "elapsed", r.Elapsed)
	default:
		r.Outcome = OutcomeOK
		level.Info(logger).Log("msg", "extracted", "strategy", r.Strategy, "output", r.Output,
			"bytes", r.Bytes, "records", r.Records, "elapsed", r.Elapsed)
	}
	e.metrics.observe(r)
	return r, err
}

func (e *Extractor) run(ctx context.Context, logger log.Logger, srcPath string, key DateKey, r *Report) error {
	src, err := OpenSource(srcPath, !e.cfg.NoLock)
	if err != nil {
		return err
	}
	defer func() {
		if err := src.Close(); err != nil {
			level.Warn(logger).Log("msg", "close source", "err", err)
		}
	}()

	strategy, err := e.pick(logger, src)
	if err != nil {
		return err
	}
	r.Strategy = strategy.Name()
	level.Debug(logger).Log("msg", "start", "strategy", r.Strategy, "size", src.Size())

	sink, err := newSink(OutputPath(e.cfg.OutputDir, key, e.cfg.Compress), e.cfg)
	if err != nil {
		return err
	}
	err = strategy.Extract(ctx, logger, src, key, sink)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}

	r.Bytes = sink.Bytes()
	r.Records = sink.Records()
	r.Digest = sink.Digest()
	if r.Bytes > 0 {
		r.Output = sink.Path()
	}
	return err
}

// pick resolves the configured strategy against what src supports.
func (e *Extractor) pick(logger log.Logger, src *Source) (Strategy, error) {
	seek := &seekStrategy{step: e.cfg.StepSize, chunk: e.cfg.CopyChunk, probes: e.metrics.probes}
	stream := &streamStrategy{block: e.cfg.ReadBuffer, depth: e.cfg.QueueDepth, blocked: e.metrics.blocked}

	switch e.cfg.Strategy {
	case StrategySeek:
		if !src.Seekable() {
			return nil, errors.Wrap(ErrNotMappable, src.Path())
		}
		return seek, nil
	case StrategyStream:
		return stream, nil
	}

	if !src.Seekable() {
		return stream, nil
	}
	if _, err := src.Map(); err != nil {
		level.Warn(logger).Log("msg", "cannot map source, streaming instead", "err", err)
		return stream, nil
	}
	return seek, nil
}

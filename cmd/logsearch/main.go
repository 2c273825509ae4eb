// Command logsearch extracts one day of records from a date-sorted log.
//
//	logsearch [flags] YYYY-MM-DD
//
// Output goes to <out>/output_<date>.txt. Exit status is 0 on success, 3
// when the date has no records, 2 on bad usage and 1 on any other failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	logsearch "github.com/Praveen163/farmart-logsearch"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitNoMatch = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "JSON config file; flags override it")
		source     = fs.String("source", "logs_2024.log", "log file to search, - for stdin")
		outDir     = fs.String("out", "", "output directory (default \"output\")")
		strategy   = fs.String("strategy", "", "auto, seek or stream (default auto)")
		step       = fs.Int64("step", 0, "seek jump stride in bytes")
		block      = fs.Int("block", 0, "stream read block in bytes")
		queue      = fs.Int("queue", 0, "stream hand-off capacity in chunks")
		chunk      = fs.Int("chunk", 0, "output buffer and copy chunk in bytes")
		compress   = fs.Bool("compress", false, "zstd-compress the output")
		digest     = fs.String("digest", "", "output digest: xxh3, blake2b or none")
		noLock     = fs.Bool("no-lock", false, "do not take a shared lock on the source")
		asJSON     = fs.Bool("json", false, "print the report as JSON")
		metrics    = fs.Bool("metrics", false, "dump metrics to stderr on exit")
		logLevel   = fs.String("log-level", "warn", "debug, info, warn or error")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: logsearch [flags] YYYY-MM-DD")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	date := fs.Arg(0)
	key, err := logsearch.ParseDateKey(date)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid date %q: use YYYY-MM-DD\n", date)
		return exitUsage
	}

	logger := newLogger(stderr, *logLevel)

	var cfg logsearch.Config
	if *configPath != "" {
		if cfg, err = logsearch.LoadConfig(*configPath); err != nil {
			level.Error(logger).Log("msg", "load config", "err", err)
			return exitUsage
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutputDir = *outDir
		case "strategy":
			cfg.Strategy = *strategy
		case "step":
			cfg.StepSize = *step
		case "block":
			cfg.ReadBuffer = *block
		case "queue":
			cfg.QueueDepth = *queue
		case "chunk":
			cfg.CopyChunk = *chunk
		case "compress":
			cfg.Compress = *compress
		case "digest":
			cfg.Digest = *digest
		case "no-lock":
			cfg.NoLock = *noLock
		}
	})

	registry := prometheus.NewRegistry()
	ex, err := logsearch.New(logger, registry, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if err := os.MkdirAll(ex.Config().OutputDir, 0755); err != nil {
		fmt.Fprintf(stderr, "Error creating output directory: %v\n", err)
		return exitFailed
	}

	if !*asJSON {
		fmt.Fprintf(stdout, "Searching for logs from date: %s\n", key)
	}
	report, err := ex.ExtractKey(context.Background(), *source, key)

	if *metrics {
		dumpMetrics(stderr, registry)
	}
	if *asJSON {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(stdout, string(out))
	} else {
		printReport(stdout, stderr, report, err)
	}

	switch {
	case err != nil:
		return exitFailed
	case report.Outcome == logsearch.OutcomeNoMatch:
		return exitNoMatch
	}
	return exitOK
}

func printReport(stdout, stderr io.Writer, r *logsearch.Report, err error) {
	p := message.NewPrinter(language.English)
	switch {
	case errors.Is(err, logsearch.ErrSourceNotFound):
		fmt.Fprintf(stderr, "Error: Log file not found at %s\n", r.Source)
	case err != nil:
		fmt.Fprintf(stderr, "Error processing logs: %v\n", err)
	case r.Outcome == logsearch.OutcomeNoMatch:
		fmt.Fprintf(stdout, "No logs found for date: %s\n", r.Date)
	default:
		fmt.Fprintf(stdout, "Logs extracted to: %s\n", r.Output)
		p.Fprintf(stdout, "Extracted %d bytes of log data (%d records) in %v\n", r.Bytes, r.Records, r.Elapsed)
	}
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowWarn()
	}
	return level.NewFilter(logger, opt)
}

func dumpMetrics(w io.Writer, g prometheus.Gatherer) {
	mfs, err := g.Gather()
	if err != nil {
		return
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range mfs {
		enc.Encode(mf)
	}
}

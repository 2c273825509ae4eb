package logsearch

import (
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Strategy names accepted by Config.Strategy.
const (
	// StrategyAuto seeks when the source can be mapped and streams otherwise.
	StrategyAuto = "auto"
	// StrategySeek assumes a sorted source and extracts the single contiguous
	// run it locates. Records of the date elsewhere in an unsorted file are
	// not found.
	StrategySeek = "seek"
	// StrategyStream reads everything and extracts every matching record in
	// source order, sorted or not.
	StrategyStream = "stream"
)

// Defaults applied to zero Config fields.
const (
	DefaultReadBuffer = 1024 * 1024
	DefaultCopyChunk  = 10 * 1024 * 1024
	DefaultOutputDir  = "output"
)

// Config holds extraction options. The zero value is usable.
type Config struct {
	Strategy   string `json:"strategy"`    // auto, seek or stream (default auto)
	StepSize   int64  `json:"step_size"`   // Seek jump stride (default 4KB)
	ReadBuffer int    `json:"read_buffer"` // Stream block size (default 1MB)
	QueueDepth int    `json:"queue_depth"` // Stream hand-off capacity in chunks (default 64)
	CopyChunk  int    `json:"copy_chunk"`  // Output buffer and bulk copy size (default 10MB)
	OutputDir  string `json:"output_dir"`  // Directory for output_<date>.txt (default "output")
	Compress   bool   `json:"compress"`    // zstd-compress the output
	Digest     string `json:"digest"`      // xxh3, blake2b or none (default xxh3)
	NoLock     bool   `json:"no_lock"`     // Skip the shared lock on the source
}

func (c Config) withDefaults() Config {
	if c.Strategy == "" {
		c.Strategy = StrategyAuto
	}
	if c.StepSize <= 0 {
		c.StepSize = DefaultStepSize
	}
	if c.ReadBuffer <= 0 {
		c.ReadBuffer = DefaultReadBuffer
	}
	if c.QueueDepth <= 0 {
		c.QueueDepth = DefaultQueueDepth
	}
	if c.CopyChunk <= 0 {
		c.CopyChunk = DefaultCopyChunk
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Digest == "" {
		c.Digest = DigestXXH3
	}
	c.Strategy = strings.ToLower(c.Strategy)
	return c
}

func (c Config) validate() error {
	switch c.Strategy {
	case StrategyAuto, StrategySeek, StrategyStream:
	default:
		return errors.Wrap(ErrUnknownStrategy, c.Strategy)
	}
	if _, err := newDigest(c.Digest); err != nil {
		return errors.Wrap(err, c.Digest)
	}
	return nil
}

// LoadConfig reads a JSON config file. Missing fields keep their zero value
// and get defaults when the Extractor is built.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// OutputPath is where the output for key is written under dir.
func OutputPath(dir string, key DateKey, compress bool) string {
	name := "output_" + key.String() + ".txt"
	if compress {
		name += ".zst"
	}
	return filepath.Join(dir, name)
}

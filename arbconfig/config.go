// Package arbconfig loads and validates the pipeline's YAML configuration,
// with environment-variable overrides and a documented zero-config default.
package arbconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/fxarb/arbiter/arbtypes"
	"gopkg.in/yaml.v3"
)

// ProducerConfig configures the edge source feeding the writer.
type ProducerConfig struct {
	BatchSize       int           `yaml:"batch_size"`
	Interval        time.Duration `yaml:"interval"`
	ChannelCapacity int           `yaml:"channel_capacity"`
	OnError         string        `yaml:"on_error"`
}

// WriterConfig configures graph mutation.
type WriterConfig struct {
	RebuildLimit int `yaml:"rebuild_limit"`
}

// SearcherConfig configures cycle detection.
type SearcherConfig struct {
	Interval              time.Duration `yaml:"interval"`
	HopCap                int           `yaml:"hop_cap"`
	OutputChannelCapacity int           `yaml:"output_channel_capacity"`
}

// RateRange bounds simulator-generated rates.
type RateRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SimulatorConfig configures the `arbiter sim` synthetic edge source.
type SimulatorConfig struct {
	NodeCount         int       `yaml:"node_count"`
	EdgeCountPerBatch int       `yaml:"edge_count_per_batch"`
	RateRange         RateRange `yaml:"rate_range"`
}

// LogConfig configures process-wide structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete, validated pipeline configuration.
type Config struct {
	Producer        ProducerConfig  `yaml:"producer"`
	Writer          WriterConfig    `yaml:"writer"`
	Searcher        SearcherConfig  `yaml:"searcher"`
	Simulator       SimulatorConfig `yaml:"simulator"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	Log             LogConfig       `yaml:"log"`
}

// Default returns the built-in configuration used when no file is present.
func Default() *Config {
	return &Config{
		Producer: ProducerConfig{
			BatchSize:       32,
			Interval:        100 * time.Millisecond,
			ChannelCapacity: 64,
			OnError:         "skip",
		},
		Writer: WriterConfig{
			RebuildLimit: 256,
		},
		Searcher: SearcherConfig{
			Interval:              200 * time.Millisecond,
			HopCap:                0,
			OutputChannelCapacity: 16,
		},
		Simulator: SimulatorConfig{
			NodeCount:         64,
			EdgeCountPerBatch: 16,
			RateRange:         RateRange{Min: 0.5, Max: 2.0},
		},
		ShutdownTimeout: 5 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path as YAML into a Config seeded from Default, applies
// ARBITER_-prefixed environment overrides, and validates the result. A
// missing file is not an error: Load falls back to Default() and logs at
// Info level that built-in defaults are in effect.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Info("config file not found, using built-in defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("arbconfig: reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("arbconfig: parsing %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies ARBITER_<SECTION>_<KEY> overrides on top of
// whatever Load has already populated from file-or-default.
func applyEnvOverrides(cfg *Config) {
	overrideInt(&cfg.Producer.BatchSize, "ARBITER_PRODUCER_BATCH_SIZE")
	overrideDuration(&cfg.Producer.Interval, "ARBITER_PRODUCER_INTERVAL")
	overrideInt(&cfg.Producer.ChannelCapacity, "ARBITER_PRODUCER_CHANNEL_CAPACITY")
	overrideString(&cfg.Producer.OnError, "ARBITER_PRODUCER_ON_ERROR")

	overrideInt(&cfg.Writer.RebuildLimit, "ARBITER_WRITER_REBUILD_LIMIT")

	overrideDuration(&cfg.Searcher.Interval, "ARBITER_SEARCHER_INTERVAL")
	overrideInt(&cfg.Searcher.HopCap, "ARBITER_SEARCHER_HOP_CAP")
	overrideInt(&cfg.Searcher.OutputChannelCapacity, "ARBITER_SEARCHER_OUTPUT_CHANNEL_CAPACITY")

	overrideInt(&cfg.Simulator.NodeCount, "ARBITER_SIMULATOR_NODE_COUNT")
	overrideInt(&cfg.Simulator.EdgeCountPerBatch, "ARBITER_SIMULATOR_EDGE_COUNT_PER_BATCH")
	overrideFloat(&cfg.Simulator.RateRange.Min, "ARBITER_SIMULATOR_RATE_MIN")
	overrideFloat(&cfg.Simulator.RateRange.Max, "ARBITER_SIMULATOR_RATE_MAX")

	overrideDuration(&cfg.ShutdownTimeout, "ARBITER_SHUTDOWN_TIMEOUT")

	overrideString(&cfg.Log.Level, "ARBITER_LOG_LEVEL")
	overrideString(&cfg.Log.Format, "ARBITER_LOG_FORMAT")
}

func overrideString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}

func overrideInt(dst *int, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func overrideFloat(dst *float64, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = f
	}
}

func overrideDuration(dst *time.Duration, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

// validate enforces the bounds spec.md §6 and this package's defaults rely
// on elsewhere (e.g. csrgraph.New clamps rebuildLimit < 1 up to 1, but a
// misconfigured value that low should be reported, not silently clamped).
func validate(cfg *Config) error {
	switch {
	case cfg.Producer.BatchSize < 1:
		return fmt.Errorf("arbconfig: producer.batch_size must be >= 1: %w", arbtypes.ErrConfiguration)
	case cfg.Producer.Interval <= 0:
		return fmt.Errorf("arbconfig: producer.interval must be positive: %w", arbtypes.ErrConfiguration)
	case cfg.Producer.ChannelCapacity < 1:
		return fmt.Errorf("arbconfig: producer.channel_capacity must be >= 1: %w", arbtypes.ErrConfiguration)
	case cfg.Producer.OnError != "skip" && cfg.Producer.OnError != "fail":
		return fmt.Errorf("arbconfig: producer.on_error must be skip or fail: %w", arbtypes.ErrConfiguration)
	case cfg.Writer.RebuildLimit < 1:
		return fmt.Errorf("arbconfig: writer.rebuild_limit must be >= 1: %w", arbtypes.ErrConfiguration)
	case cfg.Searcher.Interval <= 0:
		return fmt.Errorf("arbconfig: searcher.interval must be positive: %w", arbtypes.ErrConfiguration)
	case cfg.Searcher.HopCap < 0:
		return fmt.Errorf("arbconfig: searcher.hop_cap must be >= 0: %w", arbtypes.ErrConfiguration)
	case cfg.Searcher.OutputChannelCapacity < 1:
		return fmt.Errorf("arbconfig: searcher.output_channel_capacity must be >= 1: %w", arbtypes.ErrConfiguration)
	case cfg.Simulator.NodeCount < 2:
		return fmt.Errorf("arbconfig: simulator.node_count must be >= 2: %w", arbtypes.ErrConfiguration)
	case cfg.Simulator.EdgeCountPerBatch < 1:
		return fmt.Errorf("arbconfig: simulator.edge_count_per_batch must be >= 1: %w", arbtypes.ErrConfiguration)
	case cfg.Simulator.RateRange.Min <= 0 || cfg.Simulator.RateRange.Max <= cfg.Simulator.RateRange.Min:
		return fmt.Errorf("arbconfig: simulator.rate_range must satisfy 0 < min < max: %w", arbtypes.ErrConfiguration)
	case cfg.ShutdownTimeout <= 0:
		return fmt.Errorf("arbconfig: shutdown_timeout must be positive: %w", arbtypes.ErrConfiguration)
	}
	return nil
}

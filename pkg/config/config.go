// Package config provides the configuration of an arrowlog recording.
//
// The configuration is organized into sections:
//   - Recording: application id and automatic timelines
//   - Sink: where serialized chunks go and how files are compressed
//   - Memory: allocator and builder pooling
//   - Observability: logging, metrics and tracing
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.Sink.Kind = config.SinkFile
//	cfg.Sink.Path = "run.arrowlog"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"github.com/ajitpratap0/arrowlog/pkg/compression"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

// Sink kinds.
const (
	SinkMemory = "memory"
	SinkFile   = "file"
)

// Config is the complete configuration of a recording.
type Config struct {
	Recording     RecordingConfig     `yaml:"recording" json:"recording" mapstructure:"recording"`
	Sink          SinkConfig          `yaml:"sink" json:"sink" mapstructure:"sink"`
	Memory        MemoryConfig        `yaml:"memory" json:"memory" mapstructure:"memory"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// RecordingConfig identifies a recording and controls its automatic timelines.
type RecordingConfig struct {
	// ApplicationID names the application producing the recording
	ApplicationID string `yaml:"application_id" json:"application_id" mapstructure:"application_id"`
	// RecordingID overrides the generated recording id
	RecordingID string `yaml:"recording_id" json:"recording_id" mapstructure:"recording_id"`
	// LogTime stamps every chunk with the wall clock on the log_time timeline
	LogTime bool `yaml:"log_time" json:"log_time" mapstructure:"log_time"`
	// LogTick stamps every chunk with a sequence number on the log_tick timeline
	LogTick bool `yaml:"log_tick" json:"log_tick" mapstructure:"log_tick"`
}

// SinkConfig selects and configures the sink chunks are sent to.
type SinkConfig struct {
	// Kind is memory or file
	Kind string `yaml:"kind" json:"kind" mapstructure:"kind"`
	// Path of the output file for the file sink
	Path string `yaml:"path" json:"path" mapstructure:"path"`
	// Compression of the whole file stream (none, gzip, snappy, lz4, zstd, s2, deflate)
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// CompressionLevel from 1 (fastest) to 9 (best)
	CompressionLevel int `yaml:"compression_level" json:"compression_level" mapstructure:"compression_level"`
	// IPCCompression compresses Arrow record bodies (none, lz4, zstd)
	IPCCompression string `yaml:"ipc_compression" json:"ipc_compression" mapstructure:"ipc_compression"`
	// BatchSize buffers this many chunks before forwarding them; 0 or 1 disables batching
	BatchSize int `yaml:"batch_size" json:"batch_size" mapstructure:"batch_size"`
}

// MemoryConfig controls array allocation.
type MemoryConfig struct {
	// EnableBuilderPool recycles Arrow builders between serializations
	EnableBuilderPool bool `yaml:"enable_builder_pool" json:"enable_builder_pool" mapstructure:"enable_builder_pool"`
	// BuildersPerType caps idle pooled builders per Arrow type
	BuildersPerType int `yaml:"builders_per_type" json:"builders_per_type" mapstructure:"builders_per_type"`
	// CheckedAllocator tracks allocations so leaks can be reported on Close
	CheckedAllocator bool `yaml:"checked_allocator" json:"checked_allocator" mapstructure:"checked_allocator"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	// LogFormat is json or console
	LogFormat string `yaml:"log_format" json:"log_format" mapstructure:"log_format"`
	// EnableMetrics records Prometheus metrics
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// TracingExporter is none or stdout
	TracingExporter string `yaml:"tracing_exporter" json:"tracing_exporter" mapstructure:"tracing_exporter"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate" mapstructure:"tracing_sample_rate"`
}

// Default returns a configuration that records into memory.
func Default() *Config {
	return &Config{
		Recording: RecordingConfig{
			ApplicationID: "arrowlog",
			LogTime:       true,
			LogTick:       true,
		},
		Sink: SinkConfig{
			Kind:             SinkMemory,
			Compression:      string(compression.None),
			CompressionLevel: int(compression.Default),
			IPCCompression:   "none",
			BatchSize:        1,
		},
		Memory: MemoryConfig{
			EnableBuilderPool: true,
			BuildersPerType:   4,
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogFormat:         "json",
			EnableMetrics:     true,
			TracingExporter:   "none",
			TracingSampleRate: 0.1,
		},
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Recording.ApplicationID == "" {
		return errors.New(errors.ErrorTypeConfig, "recording.application_id is required")
	}

	switch c.Sink.Kind {
	case SinkMemory:
	case SinkFile:
		if c.Sink.Path == "" {
			return errors.New(errors.ErrorTypeConfig, "sink.path is required for the file sink")
		}
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown sink kind %q", c.Sink.Kind)
	}
	if _, err := compression.ParseAlgorithm(c.Sink.Compression); err != nil {
		return err
	}
	if c.Sink.CompressionLevel < 0 || c.Sink.CompressionLevel > 9 {
		return errors.New(errors.ErrorTypeConfig, "sink.compression_level must be between 0 and 9")
	}
	switch c.Sink.IPCCompression {
	case "", "none", "lz4", "zstd":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported ipc compression %q", c.Sink.IPCCompression)
	}
	if c.Sink.BatchSize < 0 {
		return errors.New(errors.ErrorTypeConfig, "sink.batch_size cannot be negative")
	}

	if c.Memory.BuildersPerType < 0 {
		return errors.New(errors.ErrorTypeConfig, "memory.builders_per_type cannot be negative")
	}

	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return errors.New(errors.ErrorTypeConfig, "observability.tracing_sample_rate must be between 0 and 1")
	}
	return nil
}

// CompressionConfig returns the stream compression settings of the sink.
func (s *SinkConfig) CompressionConfig() (*compression.Config, error) {
	algo, err := compression.ParseAlgorithm(s.Compression)
	if err != nil {
		return nil, err
	}
	level := compression.Level(s.CompressionLevel)
	if level == 0 {
		level = compression.Default
	}
	return &compression.Config{Algorithm: algo, Level: level}, nil
}

// IsBatching returns true if chunks are buffered before reaching the sink
func (s *SinkConfig) IsBatching() bool {
	return s.BatchSize > 1
}

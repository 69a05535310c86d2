package recording

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/config"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/logger"
	"github.com/ajitpratap0/arrowlog/pkg/sink"
)

// Open creates a recording together with the sink its configuration describes.
// Closing the recording closes the sink.
func Open(cfg *config.Config, opts ...Option) (*Recording, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// The sink logs through the same logger as the recording.
	applied := &Recording{}
	for _, opt := range opts {
		opt(applied)
	}
	l := applied.logger
	if l == nil {
		l = logger.Get()
	}

	s, err := NewSink(cfg.Sink, l)
	if err != nil {
		return nil, err
	}
	r, err := New(cfg, s, opts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return r, nil
}

// NewSink builds the sink described by cfg, wrapped in a BatchingSink when
// batching is enabled.
func NewSink(cfg config.SinkConfig, l *zap.Logger) (sink.Sink, error) {
	var s sink.Sink
	switch cfg.Kind {
	case config.SinkMemory:
		s = sink.NewMemorySink()
	case config.SinkFile:
		comp, err := cfg.CompressionConfig()
		if err != nil {
			return nil, err
		}
		fs, err := sink.NewFileSink(cfg.Path, sink.FileOptions{
			Compression:    comp,
			IPCCompression: cfg.IPCCompression,
			Logger:         l,
		})
		if err != nil {
			return nil, err
		}
		s = fs
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown sink kind %q", cfg.Kind)
	}

	if !cfg.IsBatching() {
		return s, nil
	}
	bs, err := sink.NewBatchingSink(s, cfg.BatchSize, l)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	return bs, nil
}

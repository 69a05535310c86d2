// Package recording ties archetypes to a sink. A Recording keeps the current
// time on any number of timelines; every Log call serializes an archetype,
// stamps it with an entity path and the current timepoint, and sends the
// resulting chunk to the sink.
package recording

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ajitpratap0/arrowlog/pkg/archetype"
	"github.com/ajitpratap0/arrowlog/pkg/cell"
	"github.com/ajitpratap0/arrowlog/pkg/codec"
	"github.com/ajitpratap0/arrowlog/pkg/config"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/logger"
	"github.com/ajitpratap0/arrowlog/pkg/metrics"
	"github.com/ajitpratap0/arrowlog/pkg/observability"
	"github.com/ajitpratap0/arrowlog/pkg/sink"
)

// Automatic timelines.
const (
	TimelineLogTime = "log_time"
	TimelineLogTick = "log_tick"
)

// Recording is a stream of logged chunks. It is safe for concurrent use.
type Recording struct {
	id     ksuid.KSUID
	cfg    config.Config
	sink   sink.Sink
	env    *codec.Env
	pool   *codec.BuilderPool
	alloc  *memory.CheckedAllocator
	logger *zap.Logger
	now    func() time.Time

	mu        sync.Mutex
	timepoint map[string]int64
	tick      int64
	closed    bool
}

// Option configures a Recording
type Option func(*Recording)

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recording) { r.logger = l }
}

// WithEnv overrides the serialization environment built from the memory
// configuration.
func WithEnv(env *codec.Env) Option {
	return func(r *Recording) { r.env = env }
}

// WithClock sets the clock used for the log_time timeline
func WithClock(now func() time.Time) Option {
	return func(r *Recording) { r.now = now }
}

// New creates a recording that sends chunks to s. A nil cfg means
// config.Default().
func New(cfg *config.Config, s sink.Sink, opts ...Option) (*Recording, error) {
	if s == nil {
		return nil, errors.New(errors.ErrorTypeNullArgument, "sink is nil")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id, err := recordingID(cfg.Recording.RecordingID)
	if err != nil {
		return nil, err
	}

	r := &Recording{
		id:        id,
		cfg:       *cfg,
		sink:      s,
		now:       time.Now,
		timepoint: make(map[string]int64),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get()
	}
	r.logger = r.logger.With(
		zap.String("recording_id", r.id.String()),
		zap.String("application_id", cfg.Recording.ApplicationID))

	if r.env == nil {
		r.env = r.newEnv()
	}

	r.logger.Info("recording started",
		zap.Bool("builder_pool", r.pool != nil),
		zap.Bool("checked_allocator", r.alloc != nil))
	return r, nil
}

func recordingID(s string) (ksuid.KSUID, error) {
	if s == "" {
		return ksuid.New(), nil
	}
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid recording id").
			WithDetail("recording_id", s)
	}
	return id, nil
}

func (r *Recording) newEnv() *codec.Env {
	var mem memory.Allocator = memory.NewGoAllocator()
	if r.cfg.Memory.CheckedAllocator {
		r.alloc = memory.NewCheckedAllocator(mem)
		mem = r.alloc
	}
	opts := []codec.Option{codec.WithAllocator(mem), codec.WithLogger(r.logger)}
	if r.cfg.Memory.EnableBuilderPool {
		r.pool = codec.NewBuilderPool(mem, r.cfg.Memory.BuildersPerType, r.logger)
		if r.cfg.Observability.EnableMetrics {
			r.pool.SetObserver(metrics.ObserveBuilderPool)
		}
		opts = append(opts, codec.WithBuilderPool(r.pool))
	}
	return codec.NewEnv(opts...)
}

// ID returns the recording id
func (r *Recording) ID() string {
	return r.id.String()
}

// Env returns the environment archetypes are serialized with
func (r *Recording) Env() *codec.Env {
	return r.env
}

// SetTime sets the current value of timeline for subsequent Log calls.
func (r *Recording) SetTime(timeline string, value int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timepoint[timeline] = value
}

// SetTimeNanos sets timeline to t in nanoseconds since the Unix epoch
func (r *Recording) SetTimeNanos(timeline string, t time.Time) {
	r.SetTime(timeline, t.UnixNano())
}

// DisableTimeline removes timeline from subsequent chunks.
func (r *Recording) DisableTimeline(timeline string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.timepoint, timeline)
}

// ResetTime clears every user timeline. Automatic timelines are unaffected.
func (r *Recording) ResetTime() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.timepoint)
}

// Log serializes a and sends it at entityPath with the current timepoint.
func (r *Recording) Log(ctx context.Context, entityPath string, a archetype.Archetype) error {
	return r.log(ctx, entityPath, a, false)
}

// LogStatic logs a as timeless data: it holds for every point on every
// timeline.
func (r *Recording) LogStatic(ctx context.Context, entityPath string, a archetype.Archetype) error {
	return r.log(ctx, entityPath, a, true)
}

func (r *Recording) log(ctx context.Context, entityPath string, a archetype.Archetype, static bool) (err error) {
	if a == nil {
		return errors.New(errors.ErrorTypeNullArgument, "archetype is nil")
	}
	path, err := NormalizeEntityPath(entityPath)
	if err != nil {
		return err
	}
	desc := a.Descriptor()
	if desc == nil {
		return errors.New(errors.ErrorTypeNullArgument, "archetype descriptor is nil")
	}
	name := desc.ShortName()

	ctx, span := observability.StartSpan(ctx, "recording.log",
		attribute.String("recording_id", r.id.String()),
		attribute.String("entity_path", path),
		attribute.String("archetype", name),
		attribute.Bool("static", static))
	defer func() { observability.EndSpan(span, err) }()

	timepoint, err := r.stamp(static)
	if err != nil {
		return err
	}

	timer := metrics.NewTimer()
	cells, err := archetype.Serialize(r.env, a)
	elapsed := timer.Stop()
	if err != nil {
		r.logger.Warn("failed to serialize archetype",
			zap.String("entity_path", path),
			zap.String("archetype", name),
			zap.String("error_type", string(errors.TypeOf(err))),
			zap.Error(err))
		if r.cfg.Observability.EnableMetrics {
			metrics.SerializeErrors.WithLabelValues(name, string(errors.TypeOf(err))).Inc()
		}
		return err
	}
	defer cell.ReleaseAll(cells)

	if r.cfg.Observability.EnableMetrics {
		metrics.CellsSerialized.WithLabelValues(name).Add(float64(len(cells)))
		metrics.SerializeDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	}

	ctx = context.WithValue(ctx, logger.RecordingIDKey, r.id.String())
	ctx = context.WithValue(ctx, logger.EntityPathKey, path)
	ctx = context.WithValue(ctx, logger.ArchetypeKey, desc.Name)
	chunk := sink.Chunk{EntityPath: path, Timepoint: timepoint, Cells: cells}
	if err := r.sink.Send(ctx, chunk); err != nil {
		r.logger.Error("failed to send chunk",
			zap.String("entity_path", path),
			zap.String("archetype", name),
			zap.Error(err))
		return err
	}

	r.logger.Debug("logged archetype",
		zap.String("entity_path", path),
		zap.String("archetype", name),
		zap.Int("cells", len(cells)),
		zap.Duration("serialize_time", elapsed))
	return nil
}

// stamp returns the timepoint of the next chunk, or nil for static data.
func (r *Recording) stamp(static bool) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.New(errors.ErrorTypeSink, "recording is closed")
	}
	if static {
		return nil, nil
	}

	tp := maps.Clone(r.timepoint)
	if r.cfg.Recording.LogTick {
		tp[TimelineLogTick] = r.tick
		r.tick++
	}
	if r.cfg.Recording.LogTime {
		tp[TimelineLogTime] = r.now().UnixNano()
	}
	return tp, nil
}

// Flush forces buffered chunks to the sink's destination.
func (r *Recording) Flush(ctx context.Context) error {
	return r.sink.Flush(ctx)
}

// Close flushes and closes the sink and releases pooled builders. Logging
// after Close fails.
func (r *Recording) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	err := r.sink.Close()
	if r.pool != nil {
		hits, misses, resets := r.pool.Stats()
		r.logger.Debug("builder pool stats",
			zap.Int64("hits", hits),
			zap.Int64("misses", misses),
			zap.Int64("resets", resets))
		r.pool.Close()
	}
	if r.alloc != nil {
		if leaked := r.alloc.CurrentAlloc(); leaked != 0 {
			r.logger.Warn("allocator still holds memory after close", zap.Int("bytes", leaked))
		}
	}
	r.logger.Info("recording closed")
	return err
}

// NormalizeEntityPath checks an entity path and gives it a leading slash.
// Paths are slash separated and may not contain empty parts.
func NormalizeEntityPath(path string) (string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		if path == "/" {
			return "/", nil
		}
		return "", errors.New(errors.ErrorTypeValidation, "entity path is empty")
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == "" {
			return "", errors.Newf(errors.ErrorTypeValidation, "entity path %q has an empty part", path)
		}
	}
	return "/" + trimmed, nil
}

// Package metrics exposes Prometheus metrics for recordings and sinks.
//
// # Basic Usage
//
//	// Count cells of a serialized record
//	metrics.CellsSerialized.WithLabelValues("Points3D").Add(float64(len(cells)))
//
//	// Time a serialize call
//	timer := metrics.NewTimer()
//	cells, err := archetype.Serialize(env, a)
//	metrics.SerializeDuration.WithLabelValues("Points3D").Observe(timer.Stop().Seconds())
//
// All metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CellsSerialized counts cells produced by successful serializations,
	// type tags included.
	// Labels: archetype (short archetype name)
	CellsSerialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrowlog_cells_serialized_total",
			Help: "Total number of cells produced by serialization",
		},
		[]string{"archetype"},
	)

	// SerializeErrors counts failed serializations.
	// Labels: archetype, error_type (see pkg/errors)
	SerializeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrowlog_serialize_errors_total",
			Help: "Total number of failed serializations",
		},
		[]string{"archetype", "error_type"},
	)

	// SerializeDuration tracks how long serializing one record takes.
	SerializeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "arrowlog_serialize_duration_seconds",
			Help: "Time spent serializing one record",
			Buckets: []float64{
				1e-6, // 1μs
				1e-5, // 10μs
				1e-4, // 100μs
				1e-3, // 1ms
				1e-2, // 10ms
				1e-1, // 100ms
				1,
			},
		},
		[]string{"archetype"},
	)

	// SinkBytesWritten counts bytes a sink wrote to its destination, after
	// compression.
	// Labels: sink (memory/file/batching)
	SinkBytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrowlog_sink_bytes_written_total",
			Help: "Total bytes written by sinks",
		},
		[]string{"sink"},
	)

	// SinkChunks counts chunks accepted by a sink.
	SinkChunks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrowlog_sink_chunks_total",
			Help: "Total number of chunks accepted by sinks",
		},
		[]string{"sink"},
	)

	// BuilderPoolEvents counts builder pool activity.
	// Labels: event (hit/miss/reset/discard)
	BuilderPoolEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrowlog_builder_pool_events_total",
			Help: "Builder pool hits, misses, resets and discards",
		},
		[]string{"event"},
	)
)

// ObserveBuilderPool records a builder pool event. Its signature matches
// codec.BuilderPool.SetObserver.
func ObserveBuilderPool(event string) {
	BuilderPoolEvents.WithLabelValues(event).Inc()
}

// Timer measures the duration of one operation.
type Timer struct {
	start time.Time
}

// NewTimer creates a timer and starts timing immediately.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop returns the time elapsed since the timer was created. It may be called
// more than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

package recording

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/arrowlog/pkg/archetypes"
	"github.com/ajitpratap0/arrowlog/pkg/collection"
	"github.com/ajitpratap0/arrowlog/pkg/components"
	"github.com/ajitpratap0/arrowlog/pkg/config"
	"github.com/ajitpratap0/arrowlog/pkg/errors"
	"github.com/ajitpratap0/arrowlog/pkg/metrics"
	"github.com/ajitpratap0/arrowlog/pkg/sink"
	tu "github.com/ajitpratap0/arrowlog/pkg/testutil"
)

func fixedClock() time.Time {
	return time.Unix(1700000000, 0)
}

func newTestRecording(t *testing.T, cfg *config.Config) (*Recording, *sink.MemorySink) {
	t.Helper()
	ms := sink.NewMemorySink()
	r, err := New(cfg, ms, WithLogger(tu.TestLogger(t)), WithClock(fixedClock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r, ms
}

func TestLogStampsTimepoint(t *testing.T) {
	r, ms := newTestRecording(t, nil)
	ctx := context.Background()

	r.SetTime("frame", 7)
	require.NoError(t, r.Log(ctx, "world/points", archetypes.NewPoints3D(
		collection.Of(components.Position3D{1, 2, 3}))))
	r.DisableTimeline("frame")
	require.NoError(t, r.Log(ctx, "/world/points", archetypes.NewScalar(1)))

	chunks := ms.Chunks()
	require.Len(t, chunks, 2)
	assert.Equal(t, "/world/points", chunks[0].EntityPath)
	assert.Equal(t, map[string]int64{
		"frame":         7,
		TimelineLogTick: 0,
		TimelineLogTime: fixedClock().UnixNano(),
	}, chunks[0].Timepoint)
	assert.Equal(t, map[string]int64{
		TimelineLogTick: 1,
		TimelineLogTime: fixedClock().UnixNano(),
	}, chunks[1].Timepoint)
}

func TestLogStatic(t *testing.T) {
	r, ms := newTestRecording(t, nil)
	r.SetTime("frame", 1)

	require.NoError(t, r.LogStatic(context.Background(), "/blueprint",
		archetypes.NewViewContents("+ /world/**")))

	chunks := ms.Chunks()
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].IsStatic())
	assert.Nil(t, chunks[0].Timepoint)
}

func TestLogFailureWarnsAndCounts(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ms := sink.NewMemorySink()
	r, err := New(nil, ms, WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer r.Close()

	before := testutil.ToFloat64(metrics.SerializeErrors.WithLabelValues("Points3D", string(errors.ErrorTypeSchemaMismatch)))

	bad := archetypes.NewPoints3D(collection.Of(
		components.Position3D{1, 2, 3},
		components.Position3D{4, 5, 6},
	)).WithRadii(collection.Of[components.Radius](1, 2, 3))
	err = r.Log(context.Background(), "/bad", bad)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
	assert.Equal(t, 0, ms.Len())

	entries := logs.FilterMessage("failed to serialize archetype").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/bad", entries[0].ContextMap()["entity_path"])
	assert.Equal(t, "Points3D", entries[0].ContextMap()["archetype"])

	after := testutil.ToFloat64(metrics.SerializeErrors.WithLabelValues("Points3D", string(errors.ErrorTypeSchemaMismatch)))
	assert.Equal(t, before+1, after)
}

func TestLogArgumentErrors(t *testing.T) {
	r, _ := newTestRecording(t, nil)
	ctx := context.Background()

	err := r.Log(ctx, "/a", nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))

	err = r.Log(ctx, "", archetypes.NewScalar(1))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = New(nil, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNullArgument))
}

func TestLogAfterClose(t *testing.T) {
	r, _ := newTestRecording(t, nil)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	err := r.Log(context.Background(), "/a", archetypes.NewScalar(1))
	assert.True(t, errors.IsType(err, errors.ErrorTypeSink))
}

func TestConcurrentLogging(t *testing.T) {
	cfg := config.Default()
	cfg.Recording.LogTime = false
	r, ms := newTestRecording(t, cfg)

	ctx, cancel := tu.TestContext(t)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			return r.Log(ctx, "/scalars", archetypes.NewScalar(float64(i)))
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool)
	for _, c := range ms.Chunks() {
		seen[c.Timepoint[TimelineLogTick]] = true
	}
	assert.Len(t, seen, 16)
}

func TestRecordingID(t *testing.T) {
	id := ksuid.New().String()
	cfg := config.Default()
	cfg.Recording.RecordingID = id
	r, _ := newTestRecording(t, cfg)
	assert.Equal(t, id, r.ID())

	cfg.Recording.RecordingID = "not-a-ksuid"
	_, err := New(cfg, sink.NewMemorySink())
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestCheckedAllocatorReportsNoLeaks(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.Default()
	cfg.Memory.CheckedAllocator = true

	r, err := New(cfg, sink.NewMemorySink(), WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, r.Log(context.Background(), "/a", archetypes.NewScalar(1)))
	require.NoError(t, r.Close())

	assert.Zero(t, logs.FilterMessage("allocator still holds memory after close").Len())
}

func TestOpenFileSink(t *testing.T) {
	cfg := config.Default()
	cfg.Sink.Kind = config.SinkFile
	cfg.Sink.Path = filepath.Join(t.TempDir(), "run.arrowlog")
	cfg.Sink.Compression = "lz4"
	cfg.Sink.BatchSize = 4

	r, err := Open(cfg, WithLogger(tu.TestLogger(t)))
	require.NoError(t, err)
	ctx, cancel := tu.TestContext(t)
	defer cancel()
	for i := 0; i < 5; i++ {
		r.SetTime("step", int64(i))
		require.NoError(t, r.Log(ctx, "/metrics/loss", archetypes.NewScalar(1/float64(i+1))))
	}
	require.NoError(t, r.Close())

	chunks, err := sink.ReadFile(cfg.Sink.Path)
	require.NoError(t, err)
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()
	require.Len(t, chunks, 5)
	assert.Equal(t, int64(4), chunks[4].Timepoint["step"])
}

func TestNormalizeEntityPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"world/points", "/world/points", false},
		{"/world/points/", "/world/points", false},
		{"/", "/", false},
		{"", "", true},
		{"//", "", true},
		{"/world//points", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeEntityPath(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

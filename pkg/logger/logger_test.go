package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestWithContextAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	ctx := context.WithValue(context.Background(), RecordingIDKey, "rec-1")
	ctx = context.WithValue(ctx, EntityPathKey, "world/points")
	ctx = context.WithValue(ctx, ArchetypeKey, "arrowlog.archetypes.Points3D")

	WithContext(ctx, nil).Info("logged")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "rec-1", fields["recording_id"])
	assert.Equal(t, "world/points", fields["entity_path"])
	assert.Equal(t, "arrowlog.archetypes.Points3D", fields["archetype"])
}

package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ajitpratap0/arrowlog/pkg/errors"
)

func TestInitTracingStdout(t *testing.T) {
	var out bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "arrowlog-test",
		Exporter:     "stdout",
		SamplingRate: 1,
		Output:       &out,
	})
	require.NoError(t, err)

	_, span := StartSpan(context.Background(), "recording.log", attribute.String("entity_path", "/world"))
	EndSpan(span, errors.New(errors.ErrorTypeSchemaMismatch, "bad lengths"))

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), "recording.log")
	assert.Contains(t, out.String(), "schema_mismatch")
	assert.Contains(t, out.String(), "bad lengths")
}

func TestInitTracingNone(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer())
}

func TestInitTracingRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{Exporter: "jaeger"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

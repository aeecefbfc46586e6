package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestTraceIDFromContext_EmptyContext(t *testing.T) {
	require.Empty(t, TraceIDFromContext(context.Background()))
	require.Empty(t, SpanIDFromContext(context.Background()))
}

func TestTraceIDFromContext_NilContext(t *testing.T) {
	//nolint:staticcheck // SA1012: testing nil context handling
	require.Empty(t, TraceIDFromContext(nil))
	//nolint:staticcheck // SA1012: testing nil context handling
	require.Empty(t, SpanIDFromContext(nil))
}

func TestTraceIDFromContext_ActiveSpan(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	defer provider.Shutdown(context.Background())

	ctx, span := provider.Tracer("test").Start(context.Background(), "construct.greeter")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	require.Len(t, traceID, 32)
	require.Equal(t, span.SpanContext().TraceID().String(), traceID)

	spanID := SpanIDFromContext(ctx)
	require.Len(t, spanID, 16)
	require.Equal(t, span.SpanContext().SpanID().String(), spanID)
}

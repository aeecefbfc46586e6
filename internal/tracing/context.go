// Package tracing wires OpenTelemetry into unit construction: a provider with
// file, stdout and OTLP exporters, and an observer that records one span per
// construction and per ingredient.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceIDFromContext returns the trace ID of the span carried by ctx, or an
// empty string if there is none.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.TraceID().IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanIDFromContext returns the span ID of the span carried by ctx, or an
// empty string if there is none.
func SpanIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.SpanID().IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

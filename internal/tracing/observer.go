package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/alloy/internal/variant"
)

// SpanObserver records a span for every construction and every ingredient
// application. Nested constructions become child spans of the construction
// whose compose routine started them.
type SpanObserver struct {
	variant.NopObserver
	tracer trace.Tracer
}

var _ variant.Observer = (*SpanObserver)(nil)

// NewSpanObserver returns an observer backed by tracer, or nil for a nil tracer.
func NewSpanObserver(tracer trace.Tracer) *SpanObserver {
	if tracer == nil {
		return nil
	}
	return &SpanObserver{tracer: tracer}
}

func (o *SpanObserver) ConstructStarted(ctx context.Context, t *variant.Template, id variant.ID) context.Context {
	ctx, span := o.tracer.Start(ctx, SpanPrefixConstruct+t.Name(),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String(AttrUnitID, id.String()),
		attribute.String(AttrTemplateName, t.Name()),
		attribute.String(AttrTemplateExp, t.Export()),
		attribute.String(AttrChainID, variant.ChainID(ctx)),
		attribute.Int(AttrBuildDepth, variant.Depth(ctx)),
	)
	return ctx
}

func (o *SpanObserver) ConstructFinished(ctx context.Context, _ *variant.Template, _ variant.ID, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		recordError(span, err)
	} else {
		span.AddEvent(EventUnitSealed)
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (o *SpanObserver) IngredientStarted(ctx context.Context, id variant.ID, ingredient string) context.Context {
	ctx, span := o.tracer.Start(ctx, SpanPrefixIngredient+ingredient,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String(AttrUnitID, id.String()),
		attribute.String(AttrIngredient, ingredient),
	)
	return ctx
}

func (o *SpanObserver) IngredientFinished(ctx context.Context, _ variant.ID, _ string, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(AttrErrorType, fmt.Sprintf("%T", err)))
}

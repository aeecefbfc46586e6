package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/alloy/internal/variant"
)

// setupTestObserver creates a span observer backed by an in-memory exporter.
func setupTestObserver(t *testing.T) (*SpanObserver, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return NewSpanObserver(provider.Tracer("test-tracer")), exporter
}

func getSpanByName(exporter *tracetest.InMemoryExporter, name string) (tracetest.SpanStub, bool) {
	for _, span := range exporter.GetSpans() {
		if span.Name == name {
			return span, true
		}
	}
	return tracetest.SpanStub{}, false
}

func getAttributeValue(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func noopIngredient(name string) variant.Ingredient {
	return variant.IngredientFunc(name, func(context.Context, *variant.Unit, variant.Args) error {
		return nil
	})
}

func TestNewSpanObserver_NilTracer(t *testing.T) {
	require.Nil(t, NewSpanObserver(nil))
}

func TestSpanObserver_RecordsConstructionAndIngredients(t *testing.T) {
	obs, exporter := setupTestObserver(t)

	tmpl, err := variant.NewTemplate("widget").
		Export("Widget").
		Ingredient(noopIngredient("sized")).
		Build()
	require.NoError(t, err)

	factory := variant.NewFactory(variant.WithObserver(obs))
	id, err := factory.Construct(context.Background(), tmpl)
	require.NoError(t, err)

	construct, ok := getSpanByName(exporter, "construct.widget")
	require.True(t, ok, "construct span should exist")
	require.Equal(t, codes.Ok, construct.Status.Code)

	unitID, ok := getAttributeValue(construct, AttrUnitID)
	require.True(t, ok)
	require.Equal(t, id.String(), unitID.AsString())

	export, ok := getAttributeValue(construct, AttrTemplateExp)
	require.True(t, ok)
	require.Equal(t, "Widget", export.AsString())

	depth, ok := getAttributeValue(construct, AttrBuildDepth)
	require.True(t, ok)
	require.Equal(t, int64(1), depth.AsInt64())

	require.Len(t, construct.Events, 1)
	require.Equal(t, EventUnitSealed, construct.Events[0].Name)

	ingredient, ok := getSpanByName(exporter, "ingredient.sized")
	require.True(t, ok, "ingredient span should exist")
	require.Equal(t, construct.SpanContext.SpanID(), ingredient.Parent.SpanID())
}

func TestSpanObserver_NestedConstructionIsChildSpan(t *testing.T) {
	obs, exporter := setupTestObserver(t)
	factory := variant.NewFactory(variant.WithObserver(obs))

	inner, err := variant.NewTemplate("inner").Build()
	require.NoError(t, err)

	outer, err := variant.NewTemplate("outer").
		Compose(func(ctx context.Context, _ *variant.Composer, _ variant.ID, _ variant.Args) error {
			_, err := factory.Construct(ctx, inner)
			return err
		}).
		Build()
	require.NoError(t, err)

	_, err = factory.Construct(context.Background(), outer)
	require.NoError(t, err)

	outerSpan, ok := getSpanByName(exporter, "construct.outer")
	require.True(t, ok)
	innerSpan, ok := getSpanByName(exporter, "construct.inner")
	require.True(t, ok)

	require.Equal(t, outerSpan.SpanContext.TraceID(), innerSpan.SpanContext.TraceID())
	require.Equal(t, outerSpan.SpanContext.SpanID(), innerSpan.Parent.SpanID())

	depth, ok := getAttributeValue(innerSpan, AttrBuildDepth)
	require.True(t, ok)
	require.Equal(t, int64(2), depth.AsInt64())

	outerChain, _ := getAttributeValue(outerSpan, AttrChainID)
	innerChain, _ := getAttributeValue(innerSpan, AttrChainID)
	require.Equal(t, outerChain.AsString(), innerChain.AsString())
}

func TestSpanObserver_RecordsErrors(t *testing.T) {
	obs, exporter := setupTestObserver(t)

	broken := variant.IngredientFunc("broken", func(context.Context, *variant.Unit, variant.Args) error {
		return errors.New("cannot apply")
	})
	tmpl, err := variant.NewTemplate("failing").Ingredient(broken).Build()
	require.NoError(t, err)

	_, err = variant.NewFactory(variant.WithObserver(obs)).Construct(context.Background(), tmpl)
	require.Error(t, err)

	ingredient, ok := getSpanByName(exporter, "ingredient.broken")
	require.True(t, ok)
	require.Equal(t, codes.Error, ingredient.Status.Code)
	require.Equal(t, "cannot apply", ingredient.Status.Description)

	construct, ok := getSpanByName(exporter, "construct.failing")
	require.True(t, ok)
	require.Equal(t, codes.Error, construct.Status.Code)

	errType, ok := getAttributeValue(construct, AttrErrorType)
	require.True(t, ok)
	require.Equal(t, "*variant.IngredientError", errType.AsString())
}

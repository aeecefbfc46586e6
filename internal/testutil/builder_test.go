package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/alloy/internal/declare"
	"github.com/zjrosen/alloy/internal/ingredient"
	"github.com/zjrosen/alloy/internal/variant"
)

func load(t *testing.T, dir string) map[string]*variant.Template {
	t.Helper()
	entries, err := declare.NewCompiler(ingredient.Builtins()).LoadDir(dir)
	require.NoError(t, err)
	out := make(map[string]*variant.Template, len(entries))
	for _, e := range entries {
		out[e.Name()] = e.Template
	}
	return out
}

func TestBuilder_WithTemplate(t *testing.T) {
	dir := NewBuilder(t).
		WithTemplate("a.yaml", "const",
			Description("constant values"),
			Ingredient("constants", "answer", 42),
			Install("kind", "const")).
		Build()

	byName := load(t, dir)
	require.Contains(t, byName, "const")
	require.Equal(t, "constant values", byName["const"].Description())

	f := variant.NewFactory()
	id, err := f.Construct(context.Background(), byName["const"])
	require.NoError(t, err)
	u, _ := f.Unit(id)

	answer, err := u.Call(context.Background(), "answer")
	require.NoError(t, err)
	require.Equal(t, 42, answer)
	kind, err := u.Call(context.Background(), "kind")
	require.NoError(t, err)
	require.Equal(t, "const", kind)
}

func TestBuilder_WithFile(t *testing.T) {
	dir := NewBuilder(t).
		WithFile("nested/broken.yaml", "templates: [unclosed").
		Build()

	data, err := os.ReadFile(filepath.Join(dir, "nested", "broken.yaml"))
	require.NoError(t, err)
	require.Equal(t, "templates: [unclosed", string(data))
}

func TestBuilder_WithGreeterTemplates(t *testing.T) {
	byName := load(t, NewBuilder(t).WithGreeterTemplates().Build())
	require.Len(t, byName, 3)

	f := variant.NewFactory()
	ctx := context.Background()

	hello, err := f.Construct(ctx, byName["hello"], "who", "World")
	require.NoError(t, err)
	shout, err := f.Construct(ctx, byName["shout"], "who", "Moon")
	require.NoError(t, err)
	counter, err := f.Construct(ctx, byName["counter"])
	require.NoError(t, err)

	require.Equal(t, "Hello, World", Greeting(t, f, hello))
	require.Equal(t, "Hello, Moon!", Greeting(t, f, shout))

	u, _ := f.Unit(counter)
	count, err := u.Call(ctx, "count")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestGreeterTemplate(t *testing.T) {
	f := variant.NewFactory()
	id, err := f.Construct(context.Background(), GreeterTemplate(t, "greeter"), "who", "World")
	require.NoError(t, err)
	require.Equal(t, "Hello, World", Greeting(t, f, id))
}

func TestRecordingIngredient(t *testing.T) {
	var rec Recorder
	tmpl, err := variant.NewTemplate("rec").
		Ingredient(RecordingIngredient("first", &rec)).
		Ingredient(RecordingIngredient("second", &rec)).
		Build()
	require.NoError(t, err)

	id, err := variant.NewFactory().Construct(context.Background(), tmpl)
	require.NoError(t, err)
	require.Equal(t, []string{"first:" + id.String(), "second:" + id.String()}, rec.All())
}

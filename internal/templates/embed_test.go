package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/alloy/internal/catalog"
	"github.com/zjrosen/alloy/internal/declare"
	"github.com/zjrosen/alloy/internal/ingredient"
	"github.com/zjrosen/alloy/internal/variant"
)

func loadBuiltins(t *testing.T) map[string]*variant.Template {
	t.Helper()
	entries, err := declare.NewCompiler(ingredient.Builtins(), declare.WithStrict(true)).
		LoadFS(BuiltinFS(), BuiltinRoot, catalog.SourceBuiltin)
	require.NoError(t, err)

	byName := make(map[string]*variant.Template, len(entries))
	for _, e := range entries {
		byName[e.Name()] = e.Template
	}
	return byName
}

func TestBuiltins_CompileStrictly(t *testing.T) {
	byName := loadBuiltins(t)

	require.Contains(t, byName, "greeter")
	require.Contains(t, byName, "formal-greeter")
	require.Contains(t, byName, "record")
	for name, tmpl := range byName {
		require.NotEmpty(t, tmpl.Description(), "template %s has no description", name)
		require.NotEmpty(t, tmpl.Labels(), "template %s has no labels", name)
	}
}

func TestBuiltins_Greeter(t *testing.T) {
	byName := loadBuiltins(t)
	f := variant.NewFactory()
	ctx := context.Background()

	world, err := f.Construct(ctx, byName["greeter"], "who", "World")
	require.NoError(t, err)
	moon, err := f.Construct(ctx, byName["greeter"], "who", "Moon")
	require.NoError(t, err)
	require.NotEqual(t, world, moon)

	u, _ := f.Unit(world)
	greeting, err := u.Call(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, "Hello, World", greeting)

	u, _ = f.Unit(moon)
	greeting, err = u.Call(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, "Hello, Moon", greeting)
}

func TestBuiltins_FormalGreeter(t *testing.T) {
	byName := loadBuiltins(t)
	f := variant.NewFactory()
	ctx := context.Background()

	id, err := f.Construct(ctx, byName["formal-greeter"], "who", "Ada")
	require.NoError(t, err)
	u, _ := f.Unit(id)

	greeting, err := u.Call(ctx, "greeting")
	require.NoError(t, err)
	require.Equal(t, "Good day, Ada", greeting)

	summary, err := u.Call(ctx, "summary")
	require.NoError(t, err)
	require.Equal(t, string(id)+": formal greeting for Ada", summary)
}

func TestBuiltins_Record(t *testing.T) {
	byName := loadBuiltins(t)
	f := variant.NewFactory()
	ctx := context.Background()

	id, err := f.Construct(ctx, byName["record"], "field", "color", "value", "red")
	require.NoError(t, err)
	u, _ := f.Unit(id)

	v, err := u.Call(ctx, "color")
	require.NoError(t, err)
	require.Equal(t, "red", v)

	_, err = u.Call(ctx, "set_color", "blue")
	require.NoError(t, err)
	v, err = u.Call(ctx, "color")
	require.NoError(t, err)
	require.Equal(t, "blue", v)

	calls, ok := u.Attr(ingredient.AttrCalls)
	require.True(t, ok)
	require.Equal(t, []string{"read color", "read color"}, calls)

	kind, err := u.Call(ctx, "kind")
	require.NoError(t, err)
	require.Equal(t, "record", kind)
}

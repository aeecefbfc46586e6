package ingredient

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/alloy/internal/variant"
)

// construct builds tmpl with a fresh factory and returns the finished unit.
func construct(t *testing.T, tmpl *variant.Template, args ...any) *variant.Unit {
	t.Helper()
	f := variant.NewFactory()
	id, err := f.Construct(context.Background(), tmpl, args...)
	require.NoError(t, err)
	u, ok := f.Unit(id)
	require.True(t, ok)
	return u
}

func call(t *testing.T, u *variant.Unit, op string, args ...any) any {
	t.Helper()
	out, err := u.Call(context.Background(), op, args...)
	require.NoError(t, err)
	return out
}

func TestGreeter(t *testing.T) {
	tmpl, err := variant.NewTemplate("greeter").
		Ingredient(Greeter{}).
		Proxies("greet").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, args variant.Args) error {
			_, err := c.Call(ctx, "greet", args.String("who"))
			return err
		}).
		Build()
	require.NoError(t, err)

	world := construct(t, tmpl, "who", "World")
	moon := construct(t, tmpl, "who", "Moon")

	require.Equal(t, "Hello, World", call(t, world, "greeting"))
	require.Equal(t, "Hello, Moon", call(t, moon, "greeting"))
	require.Equal(t, "Hello, World", call(t, world, "greeting"))

	op, ok := world.Operation("greeting")
	require.True(t, ok)
	require.Equal(t, "greeter.greeting", op.Label())
}

func TestGreeter_Salutation(t *testing.T) {
	tmpl, err := variant.NewTemplate("ahoy").
		Ingredient(Greeter{}, "salutation", "Ahoy").
		Proxies("greet").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			_, err := c.Call(ctx, "greet", "Sailor")
			return err
		}).
		Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	greeting, _ := u.Attr(AttrGreeting)
	require.Equal(t, "Ahoy, Sailor", greeting)
}

func TestGreeter_WrongArity(t *testing.T) {
	tmpl, err := variant.NewTemplate("bad").
		Ingredient(Greeter{}).
		Proxies("greet").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			_, err := c.Call(ctx, "greet")
			return err
		}).
		Build()
	require.NoError(t, err)

	_, err = variant.NewFactory().Construct(context.Background(), tmpl)
	require.ErrorIs(t, err, variant.ErrComposeFailed)
}

func TestAttributes(t *testing.T) {
	tmpl, err := variant.NewTemplate("box").
		Ingredient(Attributes{}).
		Proxies("has").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			if _, err := c.Call(ctx, "has", "width", 10); err != nil {
				return err
			}
			_, err := c.Call(ctx, "has", "label")
			return err
		}).
		Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	require.Equal(t, 10, call(t, u, "width"))
	require.Nil(t, call(t, u, "label"))

	call(t, u, "set_width", 12)
	require.Equal(t, 12, call(t, u, "width"))
	require.ElementsMatch(t, []string{"label", "set_label", "set_width", "width"}, u.Operations())
}

func TestDescribe(t *testing.T) {
	tmpl, err := variant.NewTemplate("doc").
		Ingredient(Describe{}).
		Proxies("describe").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			_, err := c.Call(ctx, "describe", "a documented unit")
			return err
		}).
		Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	require.Equal(t, string(u.ID())+": a documented unit", call(t, u, "summary"))
}

func TestDescribe_SummaryWithoutDescription(t *testing.T) {
	tmpl, err := variant.NewTemplate("plain").Ingredient(Describe{}).Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	require.Equal(t, string(u.ID()), call(t, u, "summary"))
}

func TestConstants(t *testing.T) {
	tmpl, err := variant.NewTemplate("consts").
		Ingredient(Constants{}, "pi", 3.14, "name", "circle").
		Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	require.Equal(t, 3.14, call(t, u, "pi"))
	require.Equal(t, "circle", call(t, u, "name"))
}

func TestConstants_OddArgs(t *testing.T) {
	tmpl, err := variant.NewTemplate("consts").Ingredient(Constants{}, "pi").Build()
	require.NoError(t, err)

	_, err = variant.NewFactory().Construct(context.Background(), tmpl)
	require.ErrorIs(t, err, variant.ErrIngredientFailed)
	require.ErrorIs(t, err, variant.ErrOddArgs)
}

func TestHooks(t *testing.T) {
	tmpl, err := variant.NewTemplate("hooked").
		Ingredient(Constants{}, "answer", 42).
		Ingredient(Hooks{}).
		Proxies("before", "after").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			if _, err := c.Call(ctx, "before", "answer", "asked"); err != nil {
				return err
			}
			_, err := c.Call(ctx, "after", "answer", "answered")
			return err
		}).
		Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	require.Equal(t, 42, call(t, u, "answer"))

	calls, _ := u.Attr(AttrCalls)
	require.Equal(t, []string{"asked", "answered"}, calls)
}

func TestHooks_ConcurrentCallsKeepEveryNote(t *testing.T) {
	tmpl, err := variant.NewTemplate("hooked").
		Ingredient(Constants{}, "answer", 42).
		Ingredient(Hooks{}).
		Proxies("after").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			_, err := c.Call(ctx, "after", "answer", "answered")
			return err
		}).
		Build()
	require.NoError(t, err)

	u := construct(t, tmpl)
	call(t, u, "answer")
	before := u.Attrs()

	const callers = 200
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = u.Call(context.Background(), "answer")
		}()
	}
	wg.Wait()

	calls, _ := u.Attr(AttrCalls)
	require.Len(t, calls, callers+1)
	require.Equal(t, []string{"answered"}, before[AttrCalls], "earlier snapshots must not change")
}

func TestHooks_MissingOperation(t *testing.T) {
	tmpl, err := variant.NewTemplate("hooked").
		Ingredient(Hooks{}).
		Proxies("before").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, _ variant.Args) error {
			_, err := c.Call(ctx, "before", "missing", "note")
			return err
		}).
		Build()
	require.NoError(t, err)

	_, err = variant.NewFactory().Construct(context.Background(), tmpl)
	require.ErrorIs(t, err, variant.ErrOperationNotFound)
}

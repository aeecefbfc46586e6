package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/alloy/internal/ingredient"
	"github.com/zjrosen/alloy/internal/variant"
)

// WithGreeterTemplates adds the standard greeting declarations.
//
// Structure:
//
//	greetings.yaml
//	  ├── hello    (greeter, greet "{{ .who }}")
//	  └── shout    (template:hello, greet "{{ .who }}!")
//	counter.hcl
//	  └── counter  (attributes, has count 0)
func (b *Builder) WithGreeterTemplates() *Builder {
	return b.
		WithTemplate("greetings.yaml", "hello",
			Export("Hello"), Labels("kind:greeting"),
			Ingredient("greeter"), Proxies("greet"), Call("greet", "{{ .who }}")).
		WithTemplate("greetings.yaml", "shout",
			Labels("kind:greeting", "tone:loud"),
			Ingredient("template:hello"), Proxies("greet"), Call("greet", "{{ .who }}!")).
		WithFile("counter.hcl", `
template "counter" {
  labels  = ["kind:data"]
  proxies = ["has"]

  ingredient "attributes" {}

  step {
    call = "has"
    args = ["count", 0]
  }
}
`)
}

// GreeterTemplate builds the greeter template in code: the greeter ingredient
// plus a compose routine greeting the "who" argument.
func GreeterTemplate(t *testing.T, name string) *variant.Template {
	t.Helper()
	tmpl, err := variant.NewTemplate(name).
		Ingredient(ingredient.Greeter{}).
		Proxies("greet").
		Compose(func(ctx context.Context, c *variant.Composer, _ variant.ID, args variant.Args) error {
			_, err := c.Call(ctx, "greet", args.String("who"))
			return err
		}).
		Build()
	require.NoError(t, err)
	return tmpl
}

// Greeting calls the greeting operation of the unit id in f.
func Greeting(t *testing.T, f *variant.Factory, id variant.ID) string {
	t.Helper()
	u, ok := f.Unit(id)
	require.True(t, ok, "unit %s not stored", id)
	v, err := u.Call(context.Background(), "greeting")
	require.NoError(t, err)
	s, ok := v.(string)
	require.True(t, ok)
	return s
}

package variant

import (
	"context"
	"fmt"
	"sync"
)

// greetIngredient registers a "greet" proxy that stores a greeting on the unit.
func greetIngredient() Ingredient {
	return IngredientFunc("greeter", func(_ context.Context, u *Unit, args Args) error {
		salutation := args.String("salutation")
		if salutation == "" {
			salutation = "Hello"
		}
		return u.Provide("greet", func(_ context.Context, target *Unit, a ...any) (any, error) {
			if len(a) != 1 {
				return nil, fmt.Errorf("greet takes one argument, got %d", len(a))
			}
			greeting := fmt.Sprintf("%s, %v", salutation, a[0])
			target.SetAttr("greeting", greeting)
			return greeting, nil
		})
	})
}

// tagIngredient registers a "tag" proxy appending its argument to the unit's tags.
func tagIngredient() Ingredient {
	return IngredientFunc("tagger", func(_ context.Context, u *Unit, _ Args) error {
		return u.Provide("tag", func(_ context.Context, target *Unit, a ...any) (any, error) {
			var tags []string
			if v, ok := target.Attr("tags"); ok {
				tags = v.([]string)
			}
			target.SetAttr("tags", append(tags, fmt.Sprint(a[0])))
			return nil, nil
		})
	})
}

// providerIngredient registers proxy name returning value.
func providerIngredient(ingredient, name, value string) Ingredient {
	return IngredientFunc(ingredient, func(_ context.Context, u *Unit, _ Args) error {
		return u.Provide(name, func(context.Context, *Unit, ...any) (any, error) {
			return value, nil
		})
	})
}

// recorder collects strings from concurrent callers.
type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, fmt.Sprintf(format, args...))
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

// recordingIngredient appends its name to rec when applied.
func recordingIngredient(name string, rec *recorder) Ingredient {
	return IngredientFunc(name, func(context.Context, *Unit, Args) error {
		rec.add("%s", name)
		return nil
	})
}

func tags(u *Unit) []string {
	v, ok := u.Attr("tags")
	if !ok {
		return nil
	}
	return v.([]string)
}

func greetingTemplate(name string) (*Template, error) {
	return NewTemplate(name).
		Ingredient(greetIngredient()).
		Proxies("greet").
		Compose(func(ctx context.Context, c *Composer, _ ID, args Args) error {
			_, err := c.Call(ctx, "greet", args.String("who"))
			return err
		}).
		Build()
}

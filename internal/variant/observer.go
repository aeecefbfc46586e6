package variant

import "context"

// Observer receives construction lifecycle callbacks. The Started methods may
// return a derived context which is used for the rest of that step.
type Observer interface {
	ConstructStarted(ctx context.Context, t *Template, id ID) context.Context
	ConstructFinished(ctx context.Context, t *Template, id ID, err error)
	IngredientStarted(ctx context.Context, id ID, ingredient string) context.Context
	IngredientFinished(ctx context.Context, id ID, ingredient string, err error)
	// IngredientSkipped reports an ingredient entry that was not applied
	// because the unit already has that ingredient with different args.
	IngredientSkipped(ctx context.Context, id ID, ingredient string, ignored Args)
}

// NopObserver ignores every callback. Embed it to implement only some methods.
type NopObserver struct{}

func (NopObserver) ConstructStarted(ctx context.Context, _ *Template, _ ID) context.Context {
	return ctx
}

func (NopObserver) ConstructFinished(context.Context, *Template, ID, error) {}

func (NopObserver) IngredientStarted(ctx context.Context, _ ID, _ string) context.Context {
	return ctx
}

func (NopObserver) IngredientFinished(context.Context, ID, string, error) {}

func (NopObserver) IngredientSkipped(context.Context, ID, string, Args) {}

type multiObserver []Observer

// Observers fans callbacks out to several observers. Started callbacks run in
// order, Finished callbacks in reverse order.
func Observers(obs ...Observer) Observer {
	filtered := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	switch len(filtered) {
	case 0:
		return NopObserver{}
	case 1:
		return filtered[0]
	}
	return filtered
}

func (m multiObserver) ConstructStarted(ctx context.Context, t *Template, id ID) context.Context {
	for _, o := range m {
		ctx = o.ConstructStarted(ctx, t, id)
	}
	return ctx
}

func (m multiObserver) ConstructFinished(ctx context.Context, t *Template, id ID, err error) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].ConstructFinished(ctx, t, id, err)
	}
}

func (m multiObserver) IngredientStarted(ctx context.Context, id ID, ingredient string) context.Context {
	for _, o := range m {
		ctx = o.IngredientStarted(ctx, id, ingredient)
	}
	return ctx
}

func (m multiObserver) IngredientFinished(ctx context.Context, id ID, ingredient string, err error) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].IngredientFinished(ctx, id, ingredient, err)
	}
}

func (m multiObserver) IngredientSkipped(ctx context.Context, id ID, ingredient string, ignored Args) {
	for _, o := range m {
		o.IngredientSkipped(ctx, id, ingredient, ignored)
	}
}

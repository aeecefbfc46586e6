package variant

import (
	"context"
	"reflect"
)

// Ingredient is a reusable behavior provider applied to a unit during construction.
type Ingredient interface {
	// Name identifies the ingredient. A unit never has the same name applied twice.
	Name() string

	// Apply performs the ingredient's setup on u. args are the initialization
	// arguments listed next to the ingredient in the template.
	Apply(ctx context.Context, u *Unit, args Args) error
}

// Manifest is implemented by ingredients that can list their contributions
// before being applied. It only feeds declaration-time diagnostics.
type Manifest interface {
	// ProxyNames lists the proxy bodies the ingredient registers.
	ProxyNames() []string

	// ExportNames lists the operations the ingredient installs directly.
	ExportNames() []string
}

// IngredientSpec pairs an ingredient with its initialization arguments.
type IngredientSpec struct {
	Ingredient Ingredient
	Args       Args
}

type funcIngredient struct {
	name string
	fn   func(ctx context.Context, u *Unit, args Args) error
}

// IngredientFunc adapts a plain function into an Ingredient.
func IngredientFunc(name string, fn func(ctx context.Context, u *Unit, args Args) error) Ingredient {
	return &funcIngredient{name: name, fn: fn}
}

func (i *funcIngredient) Name() string {
	return i.name
}

func (i *funcIngredient) Apply(ctx context.Context, u *Unit, args Args) error {
	return i.fn(ctx, u, args)
}

// applyIngredient applies one ingredient to u unless it was already applied.
// A skipped entry whose args differ from the first application is reported
// to obs; its args are not used.
func applyIngredient(ctx context.Context, u *Unit, spec IngredientSpec, obs Observer) error {
	name := spec.Ingredient.Name()
	previous := u.currentIngredient()
	if first, ok := u.beginApply(name, spec.Args); !ok {
		if !sameArgs(first, spec.Args) {
			obs.IngredientSkipped(ctx, u.ID(), name, spec.Args)
		}
		return nil
	}
	defer u.endApply(previous)

	ctx = obs.IngredientStarted(ctx, u.ID(), name)
	err := protect(func() error {
		return spec.Ingredient.Apply(ctx, u, spec.Args)
	})
	obs.IngredientFinished(ctx, u.ID(), name, err)
	return err
}

// templateIngredient applies a whole template to the unit under construction:
// its ingredients first, then its compose routine, in the current build frame.
type templateIngredient struct {
	template *Template
}

func (i *templateIngredient) Name() string {
	return "template:" + i.template.name
}

func (i *templateIngredient) Apply(ctx context.Context, u *Unit, args Args) error {
	return assemble(ctx, i.template, u, args)
}

func sameArgs(a, b Args) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

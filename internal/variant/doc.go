// Package variant implements the domain layer for building template variants.
//
// This package follows the same layering rules as the rest of the domain code:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines entity types (Template, Unit) and value objects (ID, Args, Operation)
//   - Implements the construction mechanism (ordered ingredient application, proxy dispatch,
//     installation, nested construction)
//   - Has no knowledge of infrastructure concerns (logging, tracing, YAML/HCL parsing, caches)
//
// # Core Types
//
// Template is the immutable declaration of a family of variants: an ordered list of
// ingredients with their initialization arguments, the set of proxy operation names exposed to
// the compose routine, and the compose routine itself. Use TemplateBuilder for construction.
//
// Ingredient is a reusable behavior provider. Applying an ingredient to a Unit may register
// proxy bodies (Unit.Provide), install operations (Unit.Install) or set attributes.
//
// Unit is one constructed variant: an ID plus its operation, proxy and attribute tables.
//
// # Construction
//
// Factory.Construct mints a fresh ID, pushes a build frame onto the context, applies every
// ingredient in declaration order, runs the compose routine once, pops the frame and returns
// the ID. The frame stack lives in context.Context, so every call chain (and goroutine) owns
// its own stack and nested construction simply derives a deeper context:
//
//	greeter, _ := variant.NewTemplate("greeter").
//	    Ingredient(greetIngredient, "salutation", "Hello").
//	    Proxies("greet").
//	    Compose(func(ctx context.Context, c *variant.Composer, target variant.ID, args variant.Args) error {
//	        _, err := c.Call(ctx, "greet", args.String("who"))
//	        return err
//	    }).
//	    Build()
//
//	id, err := variant.NewFactory().Construct(ctx, greeter, "who", "World")
//
// Proxy calls made through the Composer always resolve against the innermost open frame of the
// context they are given, never against a suspended outer construction.
//
// Observer lets outer layers (logging, tracing, event publishing) watch construction without this
// package importing them.
package variant

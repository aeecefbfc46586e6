package variant

import "context"

// GenerateFunc builds a variant from caller arguments.
type GenerateFunc func(ctx context.Context, args ...any) (ID, error)

// Generator is a callable bound to one template.
type Generator struct {
	name     string
	template *Template
	factory  *Factory
}

// Generator returns a callable bound to t. The optional alias replaces the
// template's export name; it only changes Name.
func (f *Factory) Generator(t *Template, alias ...string) *Generator {
	g := &Generator{template: t, factory: f}
	switch {
	case len(alias) > 0 && alias[0] != "":
		g.name = alias[0]
	case t != nil:
		g.name = t.Export()
	}
	return g
}

// Name returns the generator's display name.
func (g *Generator) Name() string {
	return g.name
}

// Template returns the bound template.
func (g *Generator) Template() *Template {
	return g.template
}

// Generate constructs a new variant, equivalent to Factory.Construct.
func (g *Generator) Generate(ctx context.Context, args ...any) (ID, error) {
	return g.factory.Construct(ctx, g.template, args...)
}

// Func returns Generate as a plain function value.
func (g *Generator) Func() GenerateFunc {
	return g.Generate
}

package variant

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Builder errors
var (
	ErrEmptyTemplateName   = errors.New("template name cannot be empty")
	ErrInvalidTemplateName = errors.New("template name cannot contain \"::\"")
	ErrNilIngredient       = errors.New("ingredient cannot be nil")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrEmptyProxyName      = errors.New("proxy name cannot be empty")
	ErrDuplicateProxy      = errors.New("proxy name declared more than once")
	ErrProxyCollision      = errors.New("proxy name collides with an ingredient export")
	ErrProxyWithoutBacking = errors.New("no ingredient declares a body for proxy")
)

// ComposeFunc is the author's customization routine. It runs once per
// construction, after every ingredient has been applied to target.
type ComposeFunc func(ctx context.Context, c *Composer, target ID, args Args) error

// Template declares a family of variants. It is immutable once built.
type Template struct {
	name        string
	export      string
	description string
	labels      []string
	ingredients []IngredientSpec
	proxies     []string
	compose     ComposeFunc
	composer    *Composer
	diagnostics []string
}

// Name returns the template name used in unit identifiers.
func (t *Template) Name() string {
	return t.name
}

// Export returns the display name used by generator entry points.
func (t *Template) Export() string {
	if t.export != "" {
		return t.export
	}
	return t.name
}

// Description returns the template description.
func (t *Template) Description() string {
	return t.description
}

// Labels returns the template labels
func (t *Template) Labels() []string {
	return slices.Clone(t.labels)
}

// Ingredients returns the ingredient list in declaration order.
func (t *Template) Ingredients() []IngredientSpec {
	return slices.Clone(t.ingredients)
}

// Proxies returns the proxy operation names, sorted.
func (t *Template) Proxies() []string {
	return slices.Clone(t.proxies)
}

// Composer returns the proxy dispatcher handed to the compose routine.
func (t *Template) Composer() *Composer {
	return t.composer
}

// Diagnostics returns non-fatal findings recorded while the template was built.
func (t *Template) Diagnostics() []string {
	return slices.Clone(t.diagnostics)
}

// AsIngredient lets the template be listed as an ingredient of another template.
func (t *Template) AsIngredient() Ingredient {
	return &templateIngredient{template: t}
}

// TemplateBuilder provides a fluent API for creating templates.
type TemplateBuilder struct {
	name        string
	export      string
	description string
	labels      []string
	ingredients []IngredientSpec
	proxies     []string
	compose     ComposeFunc
	strict      bool
}

// NewTemplate creates a new template builder.
func NewTemplate(name string) *TemplateBuilder {
	return &TemplateBuilder{name: name}
}

// Export sets the display name used by generator entry points.
func (b *TemplateBuilder) Export(name string) *TemplateBuilder {
	b.export = name
	return b
}

// Description sets the template description.
func (b *TemplateBuilder) Description(d string) *TemplateBuilder {
	b.description = d
	return b
}

// Labels sets the template labels for filtering.
func (b *TemplateBuilder) Labels(labels ...string) *TemplateBuilder {
	b.labels = labels
	return b
}

// Ingredient appends an ingredient with its initialization arguments.
func (b *TemplateBuilder) Ingredient(ing Ingredient, args ...any) *TemplateBuilder {
	b.ingredients = append(b.ingredients, IngredientSpec{Ingredient: ing, Args: Args(args)})
	return b
}

// Proxies adds proxy operation names exposed to the compose routine.
func (b *TemplateBuilder) Proxies(names ...string) *TemplateBuilder {
	b.proxies = append(b.proxies, names...)
	return b
}

// Compose sets the compose routine. A template without one composes nothing.
func (b *TemplateBuilder) Compose(fn ComposeFunc) *TemplateBuilder {
	b.compose = fn
	return b
}

// Strict turns proxy/export diagnostics into build errors.
func (b *TemplateBuilder) Strict() *TemplateBuilder {
	b.strict = true
	return b
}

// Build creates the template, validating required fields.
func (b *TemplateBuilder) Build() (*Template, error) {
	if b.name == "" {
		return nil, ErrEmptyTemplateName
	}
	if strings.Contains(b.name, idSeparator) {
		return nil, ErrInvalidTemplateName
	}

	seen := make(map[string]bool, len(b.ingredients))
	for i, spec := range b.ingredients {
		if spec.Ingredient == nil {
			return nil, fmt.Errorf("ingredient %d: %w", i, ErrNilIngredient)
		}
		name := spec.Ingredient.Name()
		if seen[name] {
			return nil, fmt.Errorf("ingredient %q: %w", name, ErrDuplicateIngredient)
		}
		seen[name] = true
	}

	proxySet := make(map[string]struct{}, len(b.proxies))
	for _, p := range b.proxies {
		if p == "" {
			return nil, ErrEmptyProxyName
		}
		if _, dup := proxySet[p]; dup {
			return nil, fmt.Errorf("proxy %q: %w", p, ErrDuplicateProxy)
		}
		proxySet[p] = struct{}{}
	}
	proxies := slices.Sorted(maps.Keys(proxySet))

	diagnostics, err := checkManifests(b.ingredients, proxies, b.strict)
	if err != nil {
		return nil, err
	}

	compose := b.compose
	if compose == nil {
		compose = func(context.Context, *Composer, ID, Args) error { return nil }
	}

	return &Template{
		name:        b.name,
		export:      b.export,
		description: b.description,
		labels:      slices.Clone(b.labels),
		ingredients: slices.Clone(b.ingredients),
		proxies:     proxies,
		compose:     compose,
		composer:    newComposer(b.name, proxies),
		diagnostics: diagnostics,
	}, nil
}

// checkManifests compares the proxy set against what Manifest ingredients
// declare. Findings are diagnostics unless strict is set.
func checkManifests(specs []IngredientSpec, proxies []string, strict bool) ([]string, error) {
	declared := make(map[string]bool)
	exported := make(map[string]string)
	complete := true
	for _, spec := range specs {
		m, ok := spec.Ingredient.(Manifest)
		if !ok {
			complete = false
			continue
		}
		for _, p := range m.ProxyNames() {
			declared[p] = true
		}
		for _, e := range m.ExportNames() {
			exported[e] = spec.Ingredient.Name()
		}
	}

	var diagnostics []string
	for _, p := range proxies {
		if owner, ok := exported[p]; ok {
			if strict {
				return nil, fmt.Errorf("proxy %q exported by %s: %w", p, owner, ErrProxyCollision)
			}
			diagnostics = append(diagnostics, fmt.Sprintf("proxy %q is also exported by ingredient %s", p, owner))
		}
		if complete && !declared[p] {
			if strict {
				return nil, fmt.Errorf("proxy %q: %w", p, ErrProxyWithoutBacking)
			}
			diagnostics = append(diagnostics, fmt.Sprintf("proxy %q is not declared by any ingredient", p))
		}
	}
	return diagnostics, nil
}

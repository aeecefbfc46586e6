package declare

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/zjrosen/alloy/internal/ingredient"
	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

// templatePrefix marks an ingredient reference to another template.
const templatePrefix = "template:"

// TemplateResolver looks up an already compiled template by name.
type TemplateResolver func(name string) (*variant.Template, error)

// Compiler turns declarations into variant templates.
type Compiler struct {
	library   *ingredient.Library
	templates TemplateResolver
	strict    bool
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithTemplates lets declarations use templates outside the current load as
// ingredients.
func WithTemplates(r TemplateResolver) CompilerOption {
	return func(c *Compiler) {
		c.templates = r
	}
}

// WithStrict makes proxy/export diagnostics fail compilation.
func WithStrict(strict bool) CompilerOption {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// NewCompiler creates a compiler resolving ingredients from lib.
func NewCompiler(lib *ingredient.Library, opts ...CompilerOption) *Compiler {
	c := &Compiler{library: lib}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds a template from def. local is consulted before the
// compiler's resolver for template ingredients.
func (c *Compiler) Compile(def TemplateDef, local map[string]*variant.Template) (*variant.Template, error) {
	b := variant.NewTemplate(def.Name).
		Export(def.Export).
		Description(def.Description).
		Labels(def.Labels...).
		Proxies(def.Proxies...)

	for _, ing := range def.Ingredients {
		resolved, err := c.resolve(ing.Name, local)
		if err != nil {
			return nil, err
		}
		b.Ingredient(resolved, ing.InitArgs()...)
	}

	steps := make([]step, 0, len(def.Compose))
	for i, s := range def.Compose {
		if err := s.validate(def.Proxies); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		compiled, err := compileStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, compiled)
	}
	b.Compose(script(steps))

	if c.strict {
		b.Strict()
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	for _, d := range t.Diagnostics() {
		log.Warn(log.CatDeclare, "Template diagnostic", "template", t.Name(), "detail", d)
	}
	return t, nil
}

func (c *Compiler) resolve(name string, local map[string]*variant.Template) (variant.Ingredient, error) {
	ref, ok := strings.CutPrefix(name, templatePrefix)
	if !ok {
		return c.library.Resolve(name)
	}
	if t, ok := local[ref]; ok {
		return t.AsIngredient(), nil
	}
	if c.templates != nil {
		t, err := c.templates(ref)
		if err == nil {
			return t.AsIngredient(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTemplate, ref)
}

// step is a compiled compose step.
type step struct {
	def     StepDef
	args    []value
	returns value
}

// value is a step argument, optionally a text/template to render.
type value struct {
	raw  any
	tmpl *template.Template
}

func compileValue(name string, raw any) (value, error) {
	s, ok := raw.(string)
	if !ok || !strings.Contains(s, "{{") {
		return value{raw: raw}, nil
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(s)
	if err != nil {
		return value{}, fmt.Errorf("%w: %v", ErrInvalidStep, err)
	}
	return value{raw: raw, tmpl: tmpl}, nil
}

func (v value) render(data map[string]any) (any, error) {
	if v.tmpl == nil {
		return v.raw, nil
	}
	var sb strings.Builder
	if err := v.tmpl.Execute(&sb, data); err != nil {
		return nil, err
	}
	return sb.String(), nil
}

func compileStep(def StepDef) (step, error) {
	s := step{def: def}
	for i, raw := range def.Args {
		v, err := compileValue(fmt.Sprintf("arg%d", i), raw)
		if err != nil {
			return step{}, err
		}
		s.args = append(s.args, v)
	}
	returns, err := compileValue("returns", def.Returns)
	if err != nil {
		return step{}, err
	}
	s.returns = returns
	return s, nil
}

func (s step) run(ctx context.Context, c *variant.Composer, data map[string]any) error {
	if s.def.Call != "" {
		args := make([]any, 0, len(s.args))
		for _, a := range s.args {
			rendered, err := a.render(data)
			if err != nil {
				return err
			}
			args = append(args, rendered)
		}
		_, err := c.Call(ctx, s.def.Call, args...)
		return err
	}

	result, err := s.returns.render(data)
	if err != nil {
		return err
	}
	var opts []variant.InstallOption
	if s.def.Display != "" {
		opts = append(opts, variant.WithDisplayName(s.def.Display))
	}
	return c.Install(ctx, s.def.Install, func(context.Context, *variant.Unit, ...any) (any, error) {
		return result, nil
	}, opts...)
}

// script runs steps in order against the caller's arguments.
func script(steps []step) variant.ComposeFunc {
	return func(ctx context.Context, c *variant.Composer, _ variant.ID, args variant.Args) error {
		data := templateData(args)
		for i, s := range steps {
			if err := s.run(ctx, c, data); err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, s.def.label(), err)
			}
		}
		return nil
	}
}

// templateData exposes positional arguments as .args and, when the arguments
// form key/value pairs, each pair as a top-level field.
func templateData(args variant.Args) map[string]any {
	data := map[string]any{"args": []any(args)}
	if named, err := args.Named(); err == nil {
		for k, v := range named {
			data[k] = v
		}
	}
	return data
}

package declare

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclFile is the top-level structure of an HCL declaration file.
type hclFile struct {
	Templates []*hclTemplate `hcl:"template,block"`
}

type hclTemplate struct {
	Name        string           `hcl:"name,label"`
	Export      string           `hcl:"export,optional"`
	Description string           `hcl:"description,optional"`
	Labels      []string         `hcl:"labels,optional"`
	Proxies     []string         `hcl:"proxies,optional"`
	Ingredients []*hclIngredient `hcl:"ingredient,block"`
	Steps       []*hclStep       `hcl:"step,block"`
}

type hclIngredient struct {
	Name string         `hcl:"name,label"`
	Args hcl.Expression `hcl:"args,optional"`
}

type hclStep struct {
	Call    string         `hcl:"call,optional"`
	Install string         `hcl:"install,optional"`
	Args    hcl.Expression `hcl:"args,optional"`
	Returns hcl.Expression `hcl:"returns,optional"`
	Display string         `hcl:"display,optional"`
}

// ParseHCL decodes an HCL declaration file. filename is used in diagnostics.
func ParseHCL(data []byte, filename string) ([]TemplateDef, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode hcl %s: %w", filename, diags)
	}

	defs := make([]TemplateDef, 0, len(parsed.Templates))
	for _, t := range parsed.Templates {
		def, err := t.toDef()
		if err != nil {
			return nil, fmt.Errorf("template %s in %s: %w", t.Name, filename, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (t *hclTemplate) toDef() (TemplateDef, error) {
	def := TemplateDef{
		Name:        t.Name,
		Export:      t.Export,
		Description: t.Description,
		Labels:      t.Labels,
		Proxies:     t.Proxies,
	}

	for _, ing := range t.Ingredients {
		raw, err := evalExpr(ing.Args)
		if err != nil {
			return TemplateDef{}, fmt.Errorf("ingredient %s args: %w", ing.Name, err)
		}
		args, ok := raw.(map[string]any)
		if raw != nil && !ok {
			return TemplateDef{}, fmt.Errorf("ingredient %s args: expected an object, got %T", ing.Name, raw)
		}
		def.Ingredients = append(def.Ingredients, IngredientDef{Name: ing.Name, Args: args})
	}

	for i, s := range t.Steps {
		rawArgs, err := evalExpr(s.Args)
		if err != nil {
			return TemplateDef{}, fmt.Errorf("step %d args: %w", i+1, err)
		}
		args, ok := rawArgs.([]any)
		if rawArgs != nil && !ok {
			return TemplateDef{}, fmt.Errorf("step %d args: expected a list, got %T", i+1, rawArgs)
		}
		returns, err := evalExpr(s.Returns)
		if err != nil {
			return TemplateDef{}, fmt.Errorf("step %d returns: %w", i+1, err)
		}
		def.Compose = append(def.Compose, StepDef{
			Call:    s.Call,
			Install: s.Install,
			Args:    args,
			Returns: returns,
			Display: s.Display,
		})
	}
	return def, nil
}

// evalExpr evaluates a constant expression. A missing optional attribute
// evaluates to nil.
func evalExpr(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(v)
}

// ctyToNative converts a cty.Value to its natural Go counterpart. Whole
// numbers become int, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			var i int
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("convert number %s: %w", bf.Text('g', 10), err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, err
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		list := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, native)
		}
		return list, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

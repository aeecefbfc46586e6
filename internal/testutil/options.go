package testutil

import (
	"github.com/zjrosen/alloy/internal/declare"
)

// TemplateOption configures a template declaration during builder setup.
type TemplateOption func(*declare.TemplateDef)

// Export sets the export name.
func Export(name string) TemplateOption {
	return func(d *declare.TemplateDef) {
		d.Export = name
	}
}

// Description sets the description.
func Description(text string) TemplateOption {
	return func(d *declare.TemplateDef) {
		d.Description = text
	}
}

// Labels appends labels.
func Labels(labels ...string) TemplateOption {
	return func(d *declare.TemplateDef) {
		d.Labels = append(d.Labels, labels...)
	}
}

// Ingredient appends an ingredient with init args given as key/value pairs.
func Ingredient(name string, kv ...any) TemplateOption {
	return func(d *declare.TemplateDef) {
		var args map[string]any
		for i := 0; i+1 < len(kv); i += 2 {
			if args == nil {
				args = make(map[string]any)
			}
			args[kv[i].(string)] = kv[i+1]
		}
		d.Ingredients = append(d.Ingredients, declare.IngredientDef{Name: name, Args: args})
	}
}

// Proxies appends proxy names.
func Proxies(names ...string) TemplateOption {
	return func(d *declare.TemplateDef) {
		d.Proxies = append(d.Proxies, names...)
	}
}

// Call appends a compose step calling proxy.
func Call(proxy string, args ...any) TemplateOption {
	return func(d *declare.TemplateDef) {
		d.Compose = append(d.Compose, declare.StepDef{Call: proxy, Args: args})
	}
}

// Install appends a compose step installing a constant operation.
func Install(op string, returns any) TemplateOption {
	return func(d *declare.TemplateDef) {
		d.Compose = append(d.Compose, declare.StepDef{Install: op, Returns: returns})
	}
}

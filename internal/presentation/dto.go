package presentation

import (
	"context"
	"fmt"

	"github.com/zjrosen/alloy/internal/catalog"
	"github.com/zjrosen/alloy/internal/ingredient"
	"github.com/zjrosen/alloy/internal/variant"
)

// TemplateDTO represents a catalog template for presentation
type TemplateDTO struct {
	Name        string             `json:"name"`
	Export      string             `json:"export"`
	Description string             `json:"description,omitempty"`
	Labels      []string           `json:"labels"`
	Source      string             `json:"source"`
	Path        string             `json:"path,omitempty"`
	Ingredients []IngredientUseDTO `json:"ingredients"`
	Proxies     []string           `json:"proxies"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
}

// IngredientUseDTO is one entry of a template's ingredient list.
type IngredientUseDTO struct {
	Name string `json:"name"`
	Args []any  `json:"args,omitempty"`
}

// IngredientDTO represents a library ingredient.
type IngredientDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Proxies     []string `json:"proxies"`
	Exports     []string `json:"exports"`
}

// UnitDTO represents a generated unit.
type UnitDTO struct {
	ID         string         `json:"id"`
	Template   string         `json:"template"`
	Seq        uint64         `json:"seq"`
	Applied    []string       `json:"applied"`
	Operations []OperationDTO `json:"operations"`
	Attributes map[string]any `json:"attributes"`
}

// OperationDTO is an installed operation. Value holds the result of calling
// it with no arguments when the caller asked for evaluation.
type OperationDTO struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FromCatalogEntry converts a catalog entry to a DTO
func FromCatalogEntry(e catalog.Entry) TemplateDTO {
	specs := e.Template.Ingredients()
	ingredients := make([]IngredientUseDTO, len(specs))
	for i, spec := range specs {
		ingredients[i] = IngredientUseDTO{Name: spec.Ingredient.Name(), Args: spec.Args}
	}

	return TemplateDTO{
		Name:        e.Template.Name(),
		Export:      e.Template.Export(),
		Description: e.Template.Description(),
		Labels:      nonNil(e.Template.Labels()),
		Source:      string(e.Source),
		Path:        e.Path,
		Ingredients: ingredients,
		Proxies:     nonNil(e.Template.Proxies()),
		Diagnostics: e.Template.Diagnostics(),
	}
}

// FromCatalogEntries converts a slice of catalog entries to DTOs
func FromCatalogEntries(entries []catalog.Entry) []TemplateDTO {
	dtos := make([]TemplateDTO, len(entries))
	for i, e := range entries {
		dtos[i] = FromCatalogEntry(e)
	}
	return dtos
}

// FromIngredientEntries converts library entries to DTOs.
func FromIngredientEntries(entries []ingredient.Entry) []IngredientDTO {
	dtos := make([]IngredientDTO, len(entries))
	for i, e := range entries {
		dtos[i] = IngredientDTO{
			Name:        e.Name(),
			Description: e.Description,
			Proxies:     nonNil(e.ProxyNames()),
			Exports:     nonNil(e.ExportNames()),
		}
	}
	return dtos
}

// FromUnit converts a unit to a DTO. With evaluate set, every operation is
// called with no arguments and its result recorded.
func FromUnit(ctx context.Context, u *variant.Unit, evaluate bool) UnitDTO {
	_, seq, _ := variant.ParseID(u.ID())

	names := u.Operations()
	ops := make([]OperationDTO, 0, len(names))
	for _, name := range names {
		op, ok := u.Operation(name)
		if !ok {
			continue
		}
		dto := OperationDTO{Name: name, Display: op.Label()}
		if evaluate {
			v, err := u.Call(ctx, name)
			if err != nil {
				dto.Error = err.Error()
			} else {
				dto.Value = printable(v)
			}
		}
		ops = append(ops, dto)
	}

	attrs := u.Attrs()
	for k, v := range attrs {
		attrs[k] = printable(v)
	}

	return UnitDTO{
		ID:         u.ID().String(),
		Template:   u.Template(),
		Seq:        seq,
		Applied:    nonNil(u.Applied()),
		Operations: ops,
		Attributes: attrs,
	}
}

// printable keeps JSON-friendly values and formats the rest.
func printable(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int64, uint64, float64, []string, []any, map[string]any:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

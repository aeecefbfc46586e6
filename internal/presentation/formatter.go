package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatTemplates formats a list of templates as JSON
func (f *Formatter) FormatTemplates(templates []TemplateDTO) error {
	return f.encode(templates)
}

// FormatIngredients formats a list of ingredients as JSON
func (f *Formatter) FormatIngredients(ingredients []IngredientDTO) error {
	return f.encode(ingredients)
}

// FormatUnit formats a generated unit as JSON
func (f *Formatter) FormatUnit(unit UnitDTO) error {
	return f.encode(unit)
}

// FormatUnits formats several generated units as a JSON array
func (f *Formatter) FormatUnits(units []UnitDTO) error {
	return f.encode(units)
}

// FormatValidation writes one line per template and its diagnostics.
func (f *Formatter) FormatValidation(templates []TemplateDTO) error {
	var sb strings.Builder
	for _, t := range templates {
		fmt.Fprintf(&sb, "ok   %s (%s)\n", t.Name, t.Path)
		for _, d := range t.Diagnostics {
			fmt.Fprintf(&sb, "warn %s: %s\n", t.Name, d)
		}
	}
	_, err := io.WriteString(f.writer, sb.String())
	return err
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

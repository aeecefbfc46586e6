package declare

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Declaration errors.
var (
	ErrNoTemplates     = errors.New("no template declarations found")
	ErrInvalidStep     = errors.New("invalid compose step")
	ErrUnknownTemplate = errors.New("unknown template")
	ErrUnsupportedFile = errors.New("unsupported declaration file")
)

// File is the root structure of a YAML declaration file.
type File struct {
	Templates []TemplateDef `yaml:"templates"`
}

// TemplateDef declares a single template.
type TemplateDef struct {
	Name        string          `yaml:"name"`
	Export      string          `yaml:"export"`
	Description string          `yaml:"description"`
	Labels      []string        `yaml:"labels"`
	Ingredients []IngredientDef `yaml:"ingredients"`
	Proxies     []string        `yaml:"proxies"`
	Compose     []StepDef       `yaml:"compose"`
}

// IngredientDef names an ingredient and its init arguments.
type IngredientDef struct {
	Name string         `yaml:"name"`
	Args map[string]any `yaml:"args"`
}

// InitArgs flattens Args into key/value pairs ordered by key.
func (d IngredientDef) InitArgs() []any {
	if len(d.Args) == 0 {
		return nil
	}
	args := make([]any, 0, len(d.Args)*2)
	for _, k := range slices.Sorted(maps.Keys(d.Args)) {
		args = append(args, k, d.Args[k])
	}
	return args
}

// StepDef is one compose step. Exactly one of Call and Install is set.
type StepDef struct {
	Call    string `yaml:"call"`
	Install string `yaml:"install"`
	Args    []any  `yaml:"args"`
	Returns any    `yaml:"returns"`
	Display string `yaml:"display"`
}

func (s StepDef) validate(proxies []string) error {
	switch {
	case s.Call == "" && s.Install == "":
		return fmt.Errorf("%w: one of call or install is required", ErrInvalidStep)
	case s.Call != "" && s.Install != "":
		return fmt.Errorf("%w: call and install are mutually exclusive", ErrInvalidStep)
	case s.Call != "" && !slices.Contains(proxies, s.Call):
		return fmt.Errorf("%w: call %q is not a declared proxy", ErrInvalidStep, s.Call)
	case s.Install != "" && len(s.Args) > 0:
		return fmt.Errorf("%w: install %q takes returns, not args", ErrInvalidStep, s.Install)
	}
	return nil
}

func (s StepDef) label() string {
	if s.Call != "" {
		return "call " + s.Call
	}
	return "install " + s.Install
}

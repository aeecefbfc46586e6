package ingredient

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

// Library errors
var (
	ErrUnknownIngredient   = errors.New("unknown ingredient")
	ErrDuplicateIngredient = errors.New("ingredient already registered")
	ErrNilIngredient       = errors.New("ingredient cannot be nil")
)

// Module is implemented by every built-in ingredient so it can add itself to a Library.
type Module interface {
	Register(l *Library) error
}

// Entry describes a registered ingredient.
type Entry struct {
	Ingredient  variant.Ingredient
	Description string
}

// Name returns the ingredient name.
func (e Entry) Name() string {
	return e.Ingredient.Name()
}

// ProxyNames returns the proxies the ingredient declares, if it has a manifest.
func (e Entry) ProxyNames() []string {
	if m, ok := e.Ingredient.(variant.Manifest); ok {
		return m.ProxyNames()
	}
	return nil
}

// ExportNames returns the operations the ingredient installs, if it has a manifest.
func (e Entry) ExportNames() []string {
	if m, ok := e.Ingredient.(variant.Manifest); ok {
		return m.ExportNames()
	}
	return nil
}

// Library is a static name to ingredient table. It is safe for concurrent use.
type Library struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewLibrary creates a library and registers the given modules.
func NewLibrary(modules ...Module) (*Library, error) {
	l := &Library{entries: make(map[string]Entry)}
	for _, m := range modules {
		if err := m.Register(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Builtins returns a library holding every built-in ingredient.
func Builtins() *Library {
	l, err := NewLibrary(Greeter{}, Attributes{}, Describe{}, Constants{}, Hooks{})
	if err != nil {
		// Built-in names are distinct constants.
		panic(err)
	}
	return l
}

// Add registers an ingredient under its name.
func (l *Library) Add(ing variant.Ingredient, description string) error {
	if ing == nil {
		return ErrNilIngredient
	}
	name := ing.Name()

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIngredient, name)
	}
	l.entries[name] = Entry{Ingredient: ing, Description: description}
	return nil
}

// Resolve returns the ingredient registered under name.
func (l *Library) Resolve(name string) (variant.Ingredient, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[name]
	if !ok {
		log.Warn(log.CatIngredient, "Unknown ingredient requested", "name", name)
		return nil, fmt.Errorf("%w: %s", ErrUnknownIngredient, name)
	}
	return e.Ingredient, nil
}

// Get returns the entry registered under name.
func (l *Library) Get(name string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[name]
	return e, ok
}

// List returns every entry sorted by name.
func (l *Library) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for _, name := range slices.Sorted(maps.Keys(l.entries)) {
		out = append(out, l.entries[name])
	}
	return out
}

package variant

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Func is an operation body. It always runs bound to the unit it was resolved on.
type Func func(ctx context.Context, u *Unit, args ...any) (any, error)

// Operation is a named body installed on a unit.
type Operation struct {
	Name    string
	Display string // diagnostic name, may be empty
	Fn      Func
}

// Label returns the display name, falling back to the operation name.
func (o Operation) Label() string {
	if o.Display != "" {
		return o.Display
	}
	return o.Name
}

// InstallOption customizes an installed operation.
type InstallOption func(*Operation)

// WithDisplayName attaches a diagnostic name to an installed operation.
// It never affects how the operation is resolved.
func WithDisplayName(name string) InstallOption {
	return func(o *Operation) {
		o.Display = name
	}
}

type proxyBody struct {
	ingredient string
	fn         Func
}

// Unit is a single constructed variant. Its tables are safe for concurrent use.
type Unit struct {
	id       ID
	template string

	mu       sync.RWMutex
	ops      map[string]Operation
	proxies  map[string]proxyBody
	attrs    map[string]any
	applied  []string
	used     map[string]Args
	applying string
	sealed   bool
}

func newUnit(id ID, template string) *Unit {
	return &Unit{
		id:       id,
		template: template,
		ops:      make(map[string]Operation),
		proxies:  make(map[string]proxyBody),
		attrs:    make(map[string]any),
		used:     make(map[string]Args),
	}
}

// ID returns the unit identifier.
func (u *Unit) ID() ID {
	return u.id
}

// Template returns the name of the template the unit was built from.
func (u *Unit) Template() string {
	return u.template
}

// Install attaches fn under name, replacing any previous binding.
func (u *Unit) Install(name string, fn Func, opts ...InstallOption) error {
	if name == "" {
		return ErrEmptyOperation
	}
	if fn == nil {
		return ErrNilOperation
	}

	op := Operation{Name: name, Fn: fn}
	for _, opt := range opts {
		opt(&op)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.sealed {
		return fmt.Errorf("install %s on %s: %w", name, u.id, ErrUnitSealed)
	}
	u.ops[name] = op
	return nil
}

// Provide registers the body behind a proxy operation name. Ingredients call
// this while being applied; a later registration under the same name wins.
func (u *Unit) Provide(name string, fn Func) error {
	if name == "" {
		return ErrEmptyOperation
	}
	if fn == nil {
		return ErrNilOperation
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.sealed {
		return fmt.Errorf("provide %s on %s: %w", name, u.id, ErrUnitSealed)
	}
	u.proxies[name] = proxyBody{ingredient: u.applying, fn: fn}
	return nil
}

// Operation returns the operation installed under name.
func (u *Unit) Operation(name string) (Operation, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	op, ok := u.ops[name]
	return op, ok
}

// Operations returns the installed operation names, sorted.
func (u *Unit) Operations() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Sorted(maps.Keys(u.ops))
}

// Call invokes the operation installed under name.
func (u *Unit) Call(ctx context.Context, name string, args ...any) (any, error) {
	op, ok := u.Operation(name)
	if !ok {
		return nil, fmt.Errorf("%s on %s: %w", name, u.id, ErrOperationNotFound)
	}
	return op.Fn(ctx, u, args...)
}

// ProxyNames returns the proxy names with a registered body, sorted.
func (u *Unit) ProxyNames() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Sorted(maps.Keys(u.proxies))
}

// ProxyProvider returns the ingredient that registered the body for a proxy name.
func (u *Unit) ProxyProvider(name string) (string, bool) {
	body, ok := u.proxy(name)
	return body.ingredient, ok
}

func (u *Unit) proxy(name string) (proxyBody, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	body, ok := u.proxies[name]
	return body, ok
}

// SetAttr stores an attribute on the unit. Attributes stay writable after the
// unit is sealed so installed operations can keep state.
func (u *Unit) SetAttr(key string, value any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attrs[key] = value
}

// UpdateAttr replaces the attribute under key with fn applied to its current
// value (nil when absent), holding the unit lock for the whole update.
// fn must not call back into the unit.
func (u *Unit) UpdateAttr(key string, fn func(current any) any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.attrs[key] = fn(u.attrs[key])
}

// Attr returns the attribute stored under key.
func (u *Unit) Attr(key string) (any, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	v, ok := u.attrs[key]
	return v, ok
}

// Attrs returns a copy of all attributes.
func (u *Unit) Attrs() map[string]any {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return maps.Clone(u.attrs)
}

// Applied returns the ingredient names applied to the unit, in application order.
func (u *Unit) Applied() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return slices.Clone(u.applied)
}

// Sealed reports whether construction of the unit has completed.
func (u *Unit) Sealed() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.sealed
}

// beginApply records that ingredient is being applied with args. When the
// ingredient was already applied to this unit it returns false and the args
// of that first application.
func (u *Unit) beginApply(ingredient string, args Args) (Args, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if first, ok := u.used[ingredient]; ok {
		return first, false
	}
	u.applied = append(u.applied, ingredient)
	u.used[ingredient] = args
	u.applying = ingredient
	return nil, true
}

func (u *Unit) endApply(previous string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.applying = previous
}

func (u *Unit) currentIngredient() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.applying
}

func (u *Unit) seal() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sealed = true
	u.applying = ""
}

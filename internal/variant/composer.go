package variant

import (
	"context"
	"fmt"
	"slices"
)

// ProxyFunc is a proxy operation bound to its name.
type ProxyFunc func(ctx context.Context, args ...any) (any, error)

// Composer exposes a template's proxy operations and the installer to its
// compose routine. Every call resolves the target from ctx at call time.
type Composer struct {
	template string
	proxies  []string
	declared map[string]struct{}
}

func newComposer(template string, proxies []string) *Composer {
	declared := make(map[string]struct{}, len(proxies))
	for _, p := range proxies {
		declared[p] = struct{}{}
	}
	return &Composer{
		template: template,
		proxies:  proxies,
		declared: declared,
	}
}

// Proxies returns the proxy names this composer exposes, sorted.
func (c *Composer) Proxies() []string {
	return slices.Clone(c.proxies)
}

// Declares reports whether name is one of the template's proxy operations.
func (c *Composer) Declares(name string) bool {
	_, ok := c.declared[name]
	return ok
}

// Call invokes the proxy operation name against the unit in the innermost
// open build frame of ctx.
func (c *Composer) Call(ctx context.Context, name string, args ...any) (any, error) {
	if !c.Declares(name) {
		return nil, fmt.Errorf("%w: %q on template %s", ErrUndeclaredProxy, name, c.template)
	}

	u, err := currentUnit(ctx)
	if err != nil {
		return nil, fmt.Errorf("proxy %q: %w", name, err)
	}

	body, ok := u.proxy(name)
	if !ok {
		return nil, &UnresolvedProxyError{Name: name, Unit: u.ID()}
	}
	return body.fn(ctx, u, args...)
}

// Proxy returns a callable bound to the proxy operation name.
func (c *Composer) Proxy(name string) ProxyFunc {
	return func(ctx context.Context, args ...any) (any, error) {
		return c.Call(ctx, name, args...)
	}
}

// Install attaches fn under name directly on the unit under construction,
// bypassing the proxies. The last install under a name wins.
func (c *Composer) Install(ctx context.Context, name string, fn Func, opts ...InstallOption) error {
	u, err := currentUnit(ctx)
	if err != nil {
		return fmt.Errorf("install %q: %w", name, err)
	}
	return u.Install(name, fn, opts...)
}

// Current returns the identifier of the unit under construction.
func (c *Composer) Current(ctx context.Context) (ID, error) {
	return Current(ctx)
}

// SetAttr stores an attribute on the unit under construction.
func (c *Composer) SetAttr(ctx context.Context, key string, value any) error {
	u, err := currentUnit(ctx)
	if err != nil {
		return fmt.Errorf("set attribute %q: %w", key, err)
	}
	u.SetAttr(key, value)
	return nil
}

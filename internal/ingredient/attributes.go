package ingredient

import (
	"context"
	"fmt"

	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

const AttributesName = "attributes"

// Attributes provides the has proxy, which declares a named attribute with an
// optional default and installs a getter and a setter for it.
type Attributes struct{}

func (Attributes) Name() string { return AttributesName }

func (Attributes) ProxyNames() []string { return []string{"has"} }

func (Attributes) ExportNames() []string { return nil }

func (a Attributes) Register(l *Library) error {
	return l.Add(a, "has(name [, default]) installs name() and set_name(value)")
}

func (Attributes) Apply(_ context.Context, u *variant.Unit, _ variant.Args) error {
	log.Debug(log.CatIngredient, "Applying attributes", "unit", u.ID())

	return u.Provide("has", func(_ context.Context, target *variant.Unit, a ...any) (any, error) {
		if len(a) < 1 || len(a) > 2 {
			return nil, fmt.Errorf("has takes 1 or 2 arguments, got %d", len(a))
		}
		name, ok := a[0].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("has: attribute name must be a non-empty string, got %v", a[0])
		}

		var initial any
		if len(a) == 2 {
			initial = a[1]
		}
		target.SetAttr(name, initial)

		getter := func(_ context.Context, self *variant.Unit, _ ...any) (any, error) {
			v, _ := self.Attr(name)
			return v, nil
		}
		setter := func(_ context.Context, self *variant.Unit, v ...any) (any, error) {
			if len(v) != 1 {
				return nil, fmt.Errorf("set_%s takes 1 argument, got %d", name, len(v))
			}
			self.SetAttr(name, v[0])
			return v[0], nil
		}

		if err := target.Install(name, getter); err != nil {
			return nil, err
		}
		if err := target.Install("set_"+name, setter); err != nil {
			return nil, err
		}
		return initial, nil
	})
}

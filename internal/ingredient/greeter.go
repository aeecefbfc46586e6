package ingredient

import (
	"context"
	"fmt"

	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/variant"
)

const (
	GreeterName = "greeter"

	// AttrGreeting holds the text produced by the greet proxy.
	AttrGreeting = "greeting"

	defaultSalutation = "Hello"
)

// Greeter provides the greet proxy. Init args: "salutation" (default "Hello").
type Greeter struct{}

func (Greeter) Name() string { return GreeterName }

func (Greeter) ProxyNames() []string { return []string{"greet"} }

func (Greeter) ExportNames() []string { return []string{"greeting"} }

func (g Greeter) Register(l *Library) error {
	return l.Add(g, "greet(who) stores \"<salutation>, <who>\" and installs greeting()")
}

func (Greeter) Apply(_ context.Context, u *variant.Unit, args variant.Args) error {
	salutation := args.String("salutation")
	if salutation == "" {
		salutation = defaultSalutation
	}
	log.Debug(log.CatIngredient, "Applying greeter", "unit", u.ID(), "salutation", salutation)

	return u.Provide("greet", func(_ context.Context, target *variant.Unit, a ...any) (any, error) {
		if len(a) != 1 {
			return nil, fmt.Errorf("greet takes 1 argument, got %d", len(a))
		}
		greeting := fmt.Sprintf("%s, %v", salutation, a[0])
		target.SetAttr(AttrGreeting, greeting)

		err := target.Install("greeting", func(_ context.Context, self *variant.Unit, _ ...any) (any, error) {
			v, _ := self.Attr(AttrGreeting)
			return v, nil
		}, variant.WithDisplayName(target.Template()+".greeting"))
		if err != nil {
			return nil, err
		}
		return greeting, nil
	})
}

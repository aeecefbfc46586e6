package ingredient

import (
	"context"
	"fmt"

	"github.com/zjrosen/alloy/internal/variant"
)

const (
	DescribeName = "describe"

	// AttrDescription holds the text passed to the describe proxy.
	AttrDescription = "description"
)

// Describe provides the describe proxy and installs summary().
type Describe struct{}

func (Describe) Name() string { return DescribeName }

func (Describe) ProxyNames() []string { return []string{"describe"} }

func (Describe) ExportNames() []string { return []string{"summary"} }

func (d Describe) Register(l *Library) error {
	return l.Add(d, "describe(text) sets the description; installs summary()")
}

func (Describe) Apply(_ context.Context, u *variant.Unit, _ variant.Args) error {
	err := u.Install("summary", func(_ context.Context, self *variant.Unit, _ ...any) (any, error) {
		desc, ok := self.Attr(AttrDescription)
		if !ok {
			return string(self.ID()), nil
		}
		return fmt.Sprintf("%s: %v", self.ID(), desc), nil
	})
	if err != nil {
		return err
	}

	return u.Provide("describe", func(_ context.Context, target *variant.Unit, a ...any) (any, error) {
		if len(a) != 1 {
			return nil, fmt.Errorf("describe takes 1 argument, got %d", len(a))
		}
		target.SetAttr(AttrDescription, a[0])
		return a[0], nil
	})
}

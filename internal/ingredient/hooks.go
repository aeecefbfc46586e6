package ingredient

import (
	"context"
	"fmt"
	"slices"

	"github.com/zjrosen/alloy/internal/variant"
)

const (
	HooksName = "hooks"

	// AttrCalls collects the notes recorded by before/after hooks, in call order.
	AttrCalls = "calls"
)

// Hooks provides the before and after proxies. Each wraps an operation that is
// already installed on the target so a note is recorded around every call.
type Hooks struct{}

func (Hooks) Name() string { return HooksName }

func (Hooks) ProxyNames() []string { return []string{"before", "after"} }

func (Hooks) ExportNames() []string { return nil }

func (h Hooks) Register(l *Library) error {
	return l.Add(h, "before(op, note) and after(op, note) record notes around an installed operation")
}

func (Hooks) Apply(_ context.Context, u *variant.Unit, _ variant.Args) error {
	if err := u.Provide("before", wrapper(true)); err != nil {
		return err
	}
	return u.Provide("after", wrapper(false))
}

func wrapper(before bool) variant.Func {
	return func(_ context.Context, target *variant.Unit, a ...any) (any, error) {
		if len(a) != 2 {
			return nil, fmt.Errorf("hook takes 2 arguments (operation, note), got %d", len(a))
		}
		name := fmt.Sprint(a[0])
		note := fmt.Sprint(a[1])

		op, ok := target.Operation(name)
		if !ok {
			return nil, fmt.Errorf("hook %q: %w", name, variant.ErrOperationNotFound)
		}

		inner := op.Fn
		wrapped := func(ctx context.Context, self *variant.Unit, args ...any) (any, error) {
			if before {
				recordCall(self, note)
			}
			out, err := inner(ctx, self, args...)
			if !before && err == nil {
				recordCall(self, note)
			}
			return out, err
		}
		return nil, target.Install(name, wrapped, variant.WithDisplayName(op.Display))
	}
}

func recordCall(u *variant.Unit, note string) {
	u.UpdateAttr(AttrCalls, func(current any) any {
		calls, _ := current.([]string)
		return slices.Concat(calls, []string{note})
	})
}

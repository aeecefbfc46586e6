package ingredient

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/zjrosen/alloy/internal/variant"
)

const ConstantsName = "constants"

// Constants installs one operation per init argument pair, each returning its value.
// It has no manifest since its exports depend on the arguments.
type Constants struct{}

func (Constants) Name() string { return ConstantsName }

func (c Constants) Register(l *Library) error {
	return l.Add(c, "installs name() returning value for each name/value init argument")
}

func (Constants) Apply(_ context.Context, u *variant.Unit, args variant.Args) error {
	named, err := args.Named()
	if err != nil {
		return fmt.Errorf("constants: %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(named)) {
		value := named[name]
		err := u.Install(name, func(context.Context, *variant.Unit, ...any) (any, error) {
			return value, nil
		})
		if err != nil {
			return fmt.Errorf("constants: %w", err)
		}
	}
	return nil
}

package variant

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
)

var chainSeq atomic.Uint64

func defaultChainID() string {
	return "chain-" + strconv.FormatUint(chainSeq.Add(1), 10)
}

// Factory constructs units from templates.
type Factory struct {
	store    Store
	observer Observer
	newChain func() string
}

// Option configures a Factory.
type Option func(*Factory)

// WithStore sets where finished units are kept. Defaults to a MemoryStore.
func WithStore(s Store) Option {
	return func(f *Factory) {
		if s != nil {
			f.store = s
		}
	}
}

// WithObserver adds construction observers.
func WithObserver(obs ...Observer) Option {
	return func(f *Factory) {
		f.observer = Observers(append([]Observer{f.observer}, obs...)...)
	}
}

// WithChainIDs sets the generator for build chain identifiers.
func WithChainIDs(fn func() string) Option {
	return func(f *Factory) {
		if fn != nil {
			f.newChain = fn
		}
	}
}

// NewFactory creates a factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		store:    NewMemoryStore(),
		observer: NopObserver{},
		newChain: defaultChainID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Construct builds a new variant of t and returns its identifier.
//
// The unit gets a fresh identifier, every ingredient is applied in
// declaration order, and then the compose routine runs once with args. The
// build frame is popped on every exit path, so a failed construction leaves
// the caller's context exactly as it was. Failed units are never stored.
func (f *Factory) Construct(ctx context.Context, t *Template, args ...any) (ID, error) {
	if t == nil {
		return "", ErrNilTemplate
	}
	if ctx == nil {
		ctx = context.Background()
	}

	u := newUnit(nextID(t.name), t.name)
	ctx, pop := push(ctx, u, f.observer, f.newChain)
	defer pop()

	ctx = f.observer.ConstructStarted(ctx, t, u.ID())
	err := assemble(ctx, t, u, Args(args))
	if err == nil {
		u.seal()
		if putErr := f.store.Put(u); putErr != nil {
			err = fmt.Errorf("store unit %s: %w", u.ID(), putErr)
		}
	}
	f.observer.ConstructFinished(ctx, t, u.ID(), err)

	if err != nil {
		return "", err
	}
	return u.ID(), nil
}

// Unit returns a finished unit by identifier.
func (f *Factory) Unit(id ID) (*Unit, bool) {
	return f.store.Get(id)
}

// Store returns the store finished units are kept in.
func (f *Factory) Store() Store {
	return f.store
}

// assemble applies t's ingredients to u and runs t's compose routine. ctx must
// carry an open frame for u.
func assemble(ctx context.Context, t *Template, u *Unit, args Args) error {
	obs := observerFrom(ctx)
	for i, spec := range t.ingredients {
		if err := applyIngredient(ctx, u, spec, obs); err != nil {
			return &IngredientError{
				Template:   t.name,
				Unit:       u.ID(),
				Ingredient: spec.Ingredient.Name(),
				Index:      i,
				Err:        err,
			}
		}
	}

	err := protect(func() error {
		return t.compose(ctx, t.composer, u.ID(), args)
	})
	if err != nil {
		return &ComposeError{Template: t.name, Unit: u.ID(), Err: err}
	}
	return nil
}

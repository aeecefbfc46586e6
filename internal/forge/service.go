package forge

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/zjrosen/alloy/internal/catalog"
	"github.com/zjrosen/alloy/internal/config"
	"github.com/zjrosen/alloy/internal/declare"
	"github.com/zjrosen/alloy/internal/flags"
	"github.com/zjrosen/alloy/internal/ingredient"
	"github.com/zjrosen/alloy/internal/log"
	"github.com/zjrosen/alloy/internal/pubsub"
	"github.com/zjrosen/alloy/internal/templates"
	"github.com/zjrosen/alloy/internal/tracing"
	"github.com/zjrosen/alloy/internal/unitstore"
	"github.com/zjrosen/alloy/internal/variant"
)

// Service generates variants from catalog templates.
type Service struct {
	cfg      config.Config
	flags    *flags.Registry
	library  *ingredient.Library
	catalog  *catalog.Catalog
	compiler *declare.Compiler
	store    *unitstore.Store
	factory  *variant.Factory
	tracing  *tracing.Provider
	events   *pubsub.Broker[UnitEvent]
	builtins bool
}

// Option configures a Service.
type Option func(*Service)

// WithLibrary replaces the built-in ingredient library.
func WithLibrary(lib *ingredient.Library) Option {
	return func(s *Service) {
		if lib != nil {
			s.library = lib
		}
	}
}

// WithTracing uses p instead of a provider built from the tracing config.
func WithTracing(p *tracing.Provider) Option {
	return func(s *Service) {
		s.tracing = p
	}
}

// WithoutBuiltins skips loading the embedded declarations.
func WithoutBuiltins() Option {
	return func(s *Service) {
		s.builtins = false
	}
}

// New creates a service and loads its templates.
func New(cfg config.Config, opts ...Option) (*Service, error) {
	flagValues := flags.Defaults()
	maps.Copy(flagValues, cfg.Flags)

	s := &Service{
		cfg:      cfg,
		flags:    flags.New(flagValues),
		library:  ingredient.Builtins(),
		catalog:  catalog.New(),
		store:    unitstore.New(cfg.Store),
		events:   pubsub.NewBroker[UnitEvent](),
		builtins: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tracing == nil {
		tc := tracing.Config(cfg.Tracing)
		if tc.Enabled && tc.Exporter == "file" && tc.FilePath == "" {
			tc.FilePath = config.DefaultTracesFilePath()
		}
		p, err := tracing.NewProvider(tc)
		if err != nil {
			return nil, fmt.Errorf("tracing: %w", err)
		}
		s.tracing = p
	}

	s.compiler = declare.NewCompiler(s.library,
		declare.WithTemplates(s.catalog.Template),
		declare.WithStrict(s.flags.Enabled(flags.FlagEagerProxyValidation)),
	)

	observers := []variant.Observer{logObserver{}}
	if s.tracing.Enabled() {
		observers = append(observers, tracing.NewSpanObserver(s.tracing.Tracer()))
	}
	if s.flags.Enabled(flags.FlagUnitEvents) {
		observers = append(observers, &eventObserver{broker: s.events})
		s.store.OnEvicted(func(u *variant.Unit) {
			s.events.Publish(pubsub.EvictedEvent, UnitEvent{Template: u.Template(), Unit: u.ID()})
		})
	}
	s.factory = variant.NewFactory(
		variant.WithStore(s.store),
		variant.WithObserver(observers...),
		variant.WithChainIDs(uuid.NewString),
	)

	if s.builtins {
		entries, err := s.compiler.LoadFS(templates.BuiltinFS(), templates.BuiltinRoot, catalog.SourceBuiltin)
		if err != nil {
			return nil, fmt.Errorf("load built-in templates: %w", err)
		}
		if err := s.catalog.Replace(catalog.SourceBuiltin, entries); err != nil {
			return nil, fmt.Errorf("register built-in templates: %w", err)
		}
	}

	if s.flags.Enabled(flags.FlagUserTemplates) {
		if err := s.ReloadUserTemplates(); err != nil {
			// User declarations may be mid-edit; the built-ins stay usable.
			log.Warn(log.CatDeclare, "loading user templates", "error", err.Error(), "dir", cfg.TemplatesDir)
		}
	}

	log.Info(log.CatFactory, "Forge ready",
		"templates", s.catalog.Len(),
		"ingredients", len(s.library.List()),
		"tracing", s.tracing.Enabled())
	return s, nil
}

// Register adds a template built in code to the catalog.
func (s *Service) Register(t *variant.Template) error {
	return s.catalog.Add(catalog.Entry{Template: t, Source: catalog.SourceCode})
}

// Generate constructs a variant of the template with the given name or
// export name.
func (s *Service) Generate(ctx context.Context, name string, args ...any) (variant.ID, error) {
	t, err := s.catalog.Template(name)
	if err != nil {
		return "", err
	}
	return s.factory.Construct(ctx, t, args...)
}

// Generator returns the generator entry point for the named template.
func (s *Service) Generator(name string) (*variant.Generator, error) {
	t, err := s.catalog.Template(name)
	if err != nil {
		return nil, err
	}
	return s.factory.Generator(t), nil
}

// Unit returns a generated unit by identifier.
func (s *Service) Unit(id variant.ID) (*variant.Unit, bool) {
	return s.store.Get(id)
}

// Discard removes units from the store before their retention ends.
func (s *Service) Discard(ids ...variant.ID) error {
	return s.store.Delete(ids...)
}

// Units returns the live units in construction order, optionally limited to
// one template.
func (s *Service) Units(template string) []*variant.Unit {
	if template == "" {
		return s.store.List()
	}
	return s.store.ByTemplate(template)
}

// Catalog returns read access to the templates.
func (s *Service) Catalog() catalog.Provider {
	return s.catalog
}

// Ingredients returns the ingredient library entries sorted by name.
func (s *Service) Ingredients() []ingredient.Entry {
	return s.library.List()
}

// Flags returns the feature flags in effect.
func (s *Service) Flags() *flags.Registry {
	return s.flags
}

// Factory returns the underlying variant factory.
func (s *Service) Factory() *variant.Factory {
	return s.factory
}

// ReloadUserTemplates replaces the user templates with the declarations
// currently in the templates directory.
func (s *Service) ReloadUserTemplates() error {
	entries, err := s.compiler.LoadDir(s.cfg.TemplatesDir)
	if err != nil {
		return err
	}
	if err := s.catalog.Replace(catalog.SourceUser, entries); err != nil {
		return err
	}
	log.Info(log.CatDeclare, "Loaded user templates", "dir", s.cfg.TemplatesDir, "count", len(entries))
	return nil
}

// Validate compiles the declarations in dir and checks they would fit in the
// catalog next to the templates from other sources. The catalog is not changed.
func (s *Service) Validate(dir string) ([]catalog.Entry, error) {
	entries, err := s.compiler.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, declare.ErrNoTemplates)
	}
	if err := s.catalog.Clone().Replace(catalog.SourceUser, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

var _ pubsub.Subscriber[UnitEvent] = (*Service)(nil)

// Subscribe streams unit created, failed and evicted events until ctx is done. Nothing is
// published when the unit-events flag is off.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[UnitEvent] {
	return s.events.Subscribe(ctx)
}

// Close stops event delivery and flushes pending spans.
func (s *Service) Close(ctx context.Context) error {
	s.events.Close()
	if err := s.tracing.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracing: %w", err)
	}
	return nil
}

// eventObserver publishes one event per finished construction.
type eventObserver struct {
	variant.NopObserver
	broker pubsub.Publisher[UnitEvent]
}

func (o *eventObserver) ConstructFinished(ctx context.Context, t *variant.Template, id variant.ID, err error) {
	eventType := pubsub.CreatedEvent
	if err != nil {
		eventType = pubsub.FailedEvent
	}
	o.broker.Publish(eventType, UnitEvent{
		Template: t.Name(),
		Unit:     id,
		ChainID:  variant.ChainID(ctx),
		Depth:    variant.Depth(ctx),
		Err:      err,
	})
}

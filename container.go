package bantam

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/danpasecinic/bantam/config"
	"github.com/danpasecinic/bantam/internal/container"
	"github.com/danpasecinic/bantam/internal/errs"
	"github.com/danpasecinic/bantam/resource"
)

type Container struct {
	internal *container.Container
	config   *containerConfig
}

type containerConfig struct {
	logger      *slog.Logger
	onResolve   []ResolveHook
	intercept   []ResolveInterceptor
	fs          afero.Fs
	searchPaths []string
	override    bool
}

func newConfig(opts []Option) *containerConfig {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// New locates the configuration named source, parses it and binds its
// registrations to the types declared in cat.
func New(source string, cat *Catalog, opts ...Option) (*Container, error) {
	cfg := newConfig(opts)

	locatorOpts := []resource.Option{resource.WithRoots(cfg.searchPaths...)}
	if cfg.fs != nil {
		locatorOpts = append(locatorOpts, resource.WithFS(cfg.fs))
	}

	data, path, err := resource.NewLocator(locatorOpts...).Read(source)
	if err != nil {
		return nil, errs.ConfigNotFound(source, err)
	}
	cfg.logger.Debug("configuration located", "source", source, "path", path)

	regs, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return newContainer(regs, cat, cfg)
}

// NewFromBytes builds a container from configuration text already in
// memory.
func NewFromBytes(data []byte, cat *Catalog, opts ...Option) (*Container, error) {
	regs, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return newContainer(regs, cat, newConfig(opts))
}

// NewFromRegistrations builds a container from registrations assembled in
// code.
func NewFromRegistrations(regs []config.Registration, cat *Catalog, opts ...Option) (*Container, error) {
	return newContainer(regs, cat, newConfig(opts))
}

func MustNew(source string, cat *Catalog, opts ...Option) *Container {
	c, err := New(source, cat, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func newContainer(regs []config.Registration, cat *Catalog, cfg *containerConfig) (*Container, error) {
	if cat == nil {
		return nil, errs.TypeResolution("", "no catalog given")
	}

	registry, err := container.NewRegistry(
		cat.internal, regs, container.RegistryOptions{
			Override: cfg.override,
			Logger:   cfg.logger,
		},
	)
	if err != nil {
		return nil, err
	}

	hooks := make([]container.ResolveHook, len(cfg.onResolve))
	for i, h := range cfg.onResolve {
		hooks[i] = container.ResolveHook(h)
	}

	intercept := make([]container.ResolveInterceptor, len(cfg.intercept))
	for i, fn := range cfg.intercept {
		intercept[i] = container.ResolveInterceptor(fn)
	}

	internal := container.New(
		cat.internal, registry, &container.Config{
			Logger:       cfg.logger,
			OnResolve:    hooks,
			Interceptors: intercept,
		},
	)

	return &Container{
		internal: internal,
		config:   cfg,
	}, nil
}

// Resolve builds a new object graph for the type registered under id.
// Singleton registrations along the way are built once per container.
func (c *Container) Resolve(ctx context.Context, id string) (any, error) {
	return c.internal.Resolve(ctx, id)
}

// Validate checks every registration against its constructor without
// building anything. All problems found are joined under a single
// ErrCodeValidationFailed error.
func (c *Container) Validate() error {
	return c.internal.Validate()
}

// Plan returns the order in which id and the registrations it depends on
// are constructed.
func (c *Container) Plan(id string) ([]string, error) {
	return c.internal.Plan(id)
}

func (c *Container) Has(id string) bool {
	return c.internal.Has(id)
}

func (c *Container) Size() int {
	return c.internal.Size()
}

// Keys returns the registered type ids, sorted.
func (c *Container) Keys() []string {
	return c.internal.Keys()
}

// Registration returns the configuration record bound to id.
func (c *Container) Registration(id string) (config.Registration, bool) {
	entry, ok := c.internal.Registry().Get(id)
	if !ok {
		return config.Registration{}, false
	}
	return entry.Registration, true
}

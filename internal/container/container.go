package container

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danpasecinic/bantam/internal/catalog"
	"github.com/danpasecinic/bantam/internal/errs"
	"github.com/danpasecinic/bantam/internal/graph"
	"github.com/danpasecinic/bantam/internal/literal"
)

type ResolveHook func(typeID string, duration time.Duration, err error)

// ResolveInterceptor runs before id is resolved. Dependencies of id are
// resolved with the returned context, and finish is called with the outcome.
type ResolveInterceptor func(ctx context.Context, typeID string) (_ context.Context, finish func(error))

type Container struct {
	catalog   *catalog.Catalog
	registry  *Registry
	graph     *graph.Graph
	logger    *slog.Logger
	onResolve []ResolveHook
	intercept []ResolveInterceptor

	// cyclic marks ids on a dependency cycle. Singletons among them skip
	// singleflight so the cycle is reported instead of deadlocking.
	cyclic map[string]bool

	instancesMu sync.RWMutex
	instances   map[string]any
	creating    singleflight.Group
}

type Config struct {
	Logger    *slog.Logger
	OnResolve    []ResolveHook
	Interceptors []ResolveInterceptor
}

func New(cat *catalog.Catalog, registry *Registry, cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := graph.New()
	for id, deps := range registry.AllDependencies() {
		g.AddNode(id, deps)
	}

	cyclic := make(map[string]bool)
	if g.HasCycle() {
		for _, scc := range g.DetectCycles() {
			for _, id := range scc {
				cyclic[id] = true
			}
		}
	}

	return &Container{
		catalog:   cat,
		registry:  registry,
		graph:     g,
		logger:    logger,
		onResolve: cfg.OnResolve,
		intercept: cfg.Interceptors,
		cyclic:    cyclic,
		instances: make(map[string]any),
	}
}

func (c *Container) Has(id string) bool {
	return c.registry.Has(id)
}

func (c *Container) Keys() []string {
	return c.registry.Keys()
}

func (c *Container) Size() int {
	return c.registry.Size()
}

func (c *Container) Registry() *Registry {
	return c.registry
}

func (c *Container) Catalog() *catalog.Catalog {
	return c.catalog
}

func (c *Container) Graph() *graph.Graph {
	return c.graph.Clone()
}

// GetInstance returns a singleton that has already been created.
func (c *Container) GetInstance(id string) (any, bool) {
	c.instancesMu.RLock()
	defer c.instancesMu.RUnlock()

	instance, ok := c.instances[id]
	return instance, ok
}

// Plan returns the registered ids id depends on, dependencies first and id
// last.
func (c *Container) Plan(id string) ([]string, error) {
	if !c.graph.HasNode(id) {
		return nil, errs.UnregisteredType(id)
	}

	order, err := c.graph.ResolutionOrder(id)
	if err != nil {
		return nil, errs.CircularDependency(c.graph.FindCyclePath(id))
	}
	return order, nil
}

// Validate checks every registration without constructing anything: each
// literal parameter of the selected constructor has a value that converts,
// each dependency is registered, and there are no cycles.
func (c *Container) Validate() error {
	var problems []error

	for _, id := range c.registry.Keys() {
		entry, _ := c.registry.Get(id)

		ctor, ok := catalog.Select(entry.Concrete)
		if !ok {
			problems = append(problems, errs.TypeResolution(entry.Concrete.ID, "type has no constructors"))
			continue
		}

		for _, p := range ctor.Params {
			if p.IsLiteral() {
				param, found := entry.Registration.Param(p.Name)
				if !found {
					problems = append(problems, errs.MissingParameter(id, p.Name))
					continue
				}
				if _, err := literal.Convert(p.Kind, param.Value.Text()); err != nil {
					problems = append(problems, annotate(err, id, nil))
				}
				continue
			}

			if !c.registry.Has(p.Dep) {
				problems = append(problems, errs.UnregisteredType(p.Dep).WithPath([]string{id, p.Dep}))
			}
		}
	}

	if c.graph.HasCycle() {
		for _, cycle := range c.graph.GetAllCyclePaths() {
			problems = append(problems, errs.CircularDependency(cycle))
		}
	}

	if len(problems) > 0 {
		return errs.ValidationFailed(errors.Join(problems...))
	}
	return nil
}

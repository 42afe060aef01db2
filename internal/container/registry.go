package container

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/danpasecinic/bantam/config"
	"github.com/danpasecinic/bantam/internal/catalog"
	"github.com/danpasecinic/bantam/internal/errs"
	bantamreflect "github.com/danpasecinic/bantam/internal/reflect"
	"github.com/danpasecinic/bantam/internal/scope"
)

// Entry is a registration whose type ids have been checked against the
// catalog.
type Entry struct {
	ID           string
	Registration config.Registration
	Concrete     *catalog.Descriptor
	Scope        scope.Scope
}

// Registry maps abstract type ids to entries. It is built once and never
// modified, so it needs no locking.
type Registry struct {
	entries map[string]*Entry
	keys    []string
}

type RegistryOptions struct {
	// Override lets a later registration replace an earlier one with the
	// same type instead of failing.
	Override bool
	Logger   *slog.Logger
}

func NewRegistry(cat *catalog.Catalog, regs []config.Registration, opts RegistryOptions) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		entries: make(map[string]*Entry, len(regs)),
	}

	for _, reg := range regs {
		abstract, ok := cat.Lookup(reg.Type)
		if !ok {
			return nil, errs.TypeResolution(reg.Type, "type is not declared in the catalog")
		}

		concrete, ok := cat.Lookup(reg.MapTo)
		if !ok {
			return nil, errs.TypeResolution(reg.MapTo, "mapped type is not declared in the catalog")
		}
		if concrete.Abstract {
			return nil, errs.TypeResolution(reg.MapTo, "mapped type is abstract and cannot be instantiated")
		}
		if err := checkBinding(abstract, concrete); err != nil {
			return nil, err
		}

		if prev, exists := r.entries[reg.Type]; exists {
			if !opts.Override {
				return nil, errs.DuplicateRegistration(reg.Type)
			}
			logger.Warn(
				"registration overridden",
				"type", reg.Type,
				"previous", prev.Registration.MapTo,
				"mapTo", reg.MapTo,
			)
		} else {
			r.keys = append(r.keys, reg.Type)
		}

		r.entries[reg.Type] = &Entry{
			ID:           reg.Type,
			Registration: reg,
			Concrete:     concrete,
			Scope:        scope.FromSingleton(reg.Singleton),
		}
	}

	sort.Strings(r.keys)
	logger.Debug("registry built", "registrations", len(r.keys))

	return r, nil
}

// checkBinding fails unless values of concrete can stand in for abstract.
func checkBinding(abstract, concrete *catalog.Descriptor) error {
	if concrete.Type.AssignableTo(abstract.Type) {
		return nil
	}

	verb := "is not assignable to"
	if bantamreflect.IsInterface(abstract.Type) {
		verb = "does not implement"
	}
	return errs.TypeResolution(
		abstract.ID, fmt.Sprintf("mapped type %s (%s) %s %s", concrete.ID, concrete.Type, verb, abstract.Type),
	)
}

func (r *Registry) Get(id string) (*Entry, bool) {
	entry, exists := r.entries[id]
	return entry, exists
}

func (r *Registry) Has(id string) bool {
	_, exists := r.entries[id]
	return exists
}

// Keys returns the registered type ids, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *Registry) Size() int {
	return len(r.keys)
}

// Dependencies returns the dependency type ids of id's selected
// constructor, in parameter order.
func (r *Registry) Dependencies(id string) []string {
	entry, exists := r.entries[id]
	if !exists {
		return nil
	}

	ctor, ok := catalog.Select(entry.Concrete)
	if !ok {
		return nil
	}

	var deps []string
	for _, p := range ctor.Params {
		if !p.IsLiteral() {
			deps = append(deps, p.Dep)
		}
	}
	return deps
}

func (r *Registry) AllDependencies() map[string][]string {
	deps := make(map[string][]string, len(r.entries))
	for id := range r.entries {
		deps[id] = r.Dependencies(id)
	}
	return deps
}

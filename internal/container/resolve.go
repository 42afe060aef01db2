package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/danpasecinic/bantam/internal/catalog"
	"github.com/danpasecinic/bantam/internal/errs"
	"github.com/danpasecinic/bantam/internal/literal"
	bantamreflect "github.com/danpasecinic/bantam/internal/reflect"
	"github.com/danpasecinic/bantam/internal/scope"
)

var errNilInstance = errors.New("constructor returned nil")

// trail is the chain of ids currently being constructed by one top-level
// Resolve call. It is never shared between calls.
type trail struct {
	path   []string
	logger *slog.Logger
}

func (t *trail) contains(id string) bool {
	for _, p := range t.path {
		if p == id {
			return true
		}
	}
	return false
}

func (t *trail) push(id string) {
	t.path = append(t.path, id)
}

func (t *trail) pop() {
	t.path = t.path[:len(t.path)-1]
}

func (t *trail) with(id string) []string {
	out := make([]string, 0, len(t.path)+1)
	out = append(out, t.path...)
	return append(out, id)
}

// cycle returns the part of the trail from id's first occurrence, closed
// with id again.
func (t *trail) cycle(id string) []string {
	for i, p := range t.path {
		if p == id {
			out := make([]string, 0, len(t.path)-i+1)
			out = append(out, t.path[i:]...)
			return append(out, id)
		}
	}
	return []string{id, id}
}

// Resolve builds the object graph registered under id. Each call owns its
// argument lists and, for transient registrations, every instance it
// returns.
func (c *Container) Resolve(ctx context.Context, id string) (any, error) {
	t := &trail{logger: c.logger}
	if c.logger.Enabled(ctx, slog.LevelDebug) {
		t.logger = c.logger.With("resolution", uuid.NewString())
	}
	return c.resolve(ctx, id, t)
}

func (c *Container) resolve(ctx context.Context, id string, t *trail) (any, error) {
	ctx, finish := c.interceptResolve(ctx, id)

	start := time.Now()
	instance, err := c.resolveEntry(ctx, id, t)
	finish(err)
	c.callResolveHooks(id, time.Since(start), err)
	return instance, err
}

// interceptResolve runs the interceptors in order and returns a finish func
// that unwinds them in reverse.
func (c *Container) interceptResolve(ctx context.Context, id string) (context.Context, func(error)) {
	if len(c.intercept) == 0 {
		return ctx, func(error) {}
	}

	finishers := make([]func(error), 0, len(c.intercept))
	for _, intercept := range c.intercept {
		next, finish := intercept(ctx, id)
		if next != nil {
			ctx = next
		}
		if finish != nil {
			finishers = append(finishers, finish)
		}
	}

	return ctx, func(err error) {
		for i := len(finishers) - 1; i >= 0; i-- {
			finishers[i](err)
		}
	}
}

func (c *Container) callResolveHooks(id string, duration time.Duration, err error) {
	for _, hook := range c.onResolve {
		hook(id, duration, err)
	}
}

func (c *Container) resolveEntry(ctx context.Context, id string, t *trail) (any, error) {
	if t.contains(id) {
		return nil, errs.CircularDependency(t.cycle(id))
	}

	entry, exists := c.registry.Get(id)
	if !exists {
		return nil, errs.UnregisteredType(id).WithPath(t.with(id))
	}

	if entry.Scope == scope.Singleton {
		return c.resolveSingleton(ctx, entry, t)
	}
	return c.construct(ctx, entry, t)
}

func (c *Container) resolveSingleton(ctx context.Context, entry *Entry, t *trail) (any, error) {
	if instance, ok := c.GetInstance(entry.ID); ok {
		return instance, nil
	}

	create := func() (any, error) {
		if instance, ok := c.GetInstance(entry.ID); ok {
			return instance, nil
		}

		instance, err := c.construct(ctx, entry, t)
		if err != nil {
			return nil, err
		}

		c.instancesMu.Lock()
		c.instances[entry.ID] = instance
		c.instancesMu.Unlock()

		t.logger.Debug("singleton created", "type", entry.ID)
		return instance, nil
	}

	if c.cyclic[entry.ID] {
		return create()
	}

	instance, err, _ := c.creating.Do(entry.ID, create)
	return instance, err
}

func (c *Container) construct(ctx context.Context, entry *Entry, t *trail) (any, error) {
	t.push(entry.ID)
	defer t.pop()

	ctor, ok := catalog.Select(entry.Concrete)
	if !ok {
		return nil, errs.TypeResolution(entry.Concrete.ID, "type has no constructors").WithPath(t.path)
	}

	t.logger.Debug(
		"constructing",
		"type", entry.ID,
		"concrete", entry.Concrete.ID,
		"params", len(ctor.Params),
	)

	args, err := c.assemble(ctx, entry, ctor, t)
	if err != nil {
		return nil, err
	}

	instance, err := invoke(ctx, ctor, args)
	if err != nil {
		return nil, errs.ConstructorInvocation(entry.Concrete.ID, err).WithPath(t.path)
	}
	if bantamreflect.IsNil(instance) {
		return nil, errs.ConstructorInvocation(entry.Concrete.ID, errNilInstance).WithPath(t.path)
	}

	return instance, nil
}

func (c *Container) assemble(ctx context.Context, entry *Entry, ctor *catalog.Constructor, t *trail) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(ctor.Params))

	for i, p := range ctor.Params {
		var value any

		if p.IsLiteral() {
			param, found := entry.Registration.Param(p.Name)
			if !found {
				return nil, errs.MissingParameter(entry.ID, p.Name).WithPath(t.path)
			}

			converted, err := literal.Convert(p.Kind, param.Value.Text())
			if err != nil {
				return nil, annotate(err, entry.ID, t.path)
			}
			value = converted
		} else {
			dep, err := c.resolve(ctx, p.Dep, t)
			if err != nil {
				return nil, err
			}
			value = dep
		}

		arg, err := coerce(entry.ID, i, p, value)
		if err != nil {
			return nil, err.WithPath(t.path)
		}
		args[i] = arg
	}

	return args, nil
}

// coerce checks that value fits parameter p. Literals must have the
// parameter's kind and are converted to its exact Go type; dependencies
// must be assignable.
func coerce(id string, index int, p catalog.Param, value any) (reflect.Value, *errs.Error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return reflect.Value{}, errs.ArgumentTypeMismatch(id, index, p.String(), "nil", p.Type.String())
	}

	if p.IsLiteral() {
		if literal.KindOf(rv.Type()) != p.Kind || !rv.Type().ConvertibleTo(p.Type) {
			return reflect.Value{}, errs.ArgumentTypeMismatch(id, index, p.String(), rv.Type().String(), p.Type.String())
		}
		if rv.Type() != p.Type {
			rv = rv.Convert(p.Type)
		}
		return rv, nil
	}

	if !rv.Type().AssignableTo(p.Type) {
		return reflect.Value{}, errs.ArgumentTypeMismatch(id, index, p.String(), rv.Type().String(), p.Type.String())
	}
	return rv, nil
}

func invoke(ctx context.Context, ctor *catalog.Constructor, args []reflect.Value) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructor panicked: %v", r)
		}
	}()

	return ctor.Invoke(ctx, args)
}

// annotate fills in the type and path of an error raised below the
// resolver, such as a literal conversion failure.
func annotate(err error, id string, path []string) error {
	var e *errs.Error
	if !errors.As(err, &e) {
		return err
	}
	if e.Type == "" {
		e.WithType(id)
	}
	e.WithPath(path)
	return e
}

package bantam

import (
	"context"
	"fmt"
	"reflect"

	"github.com/danpasecinic/bantam/internal/errs"
	bantamreflect "github.com/danpasecinic/bantam/internal/reflect"
)

// Resolver is the read side of a Container.
type Resolver interface {
	Resolve(ctx context.Context, id string) (any, error)
	Has(id string) bool
}

var _ Resolver = (*Container)(nil)

// Invoke resolves the registration keyed by T's type id: the id T was
// declared under in the catalog, or its package-qualified name.
func Invoke[T any](c *Container) (T, error) {
	return InvokeCtx[T](context.Background(), c)
}

func InvokeCtx[T any](ctx context.Context, c *Container) (T, error) {
	return InvokeIDCtx[T](ctx, c, idFor[T](c))
}

// InvokeID resolves the registration keyed by id and asserts it to T.
func InvokeID[T any](c *Container, id string) (T, error) {
	return InvokeIDCtx[T](context.Background(), c, id)
}

func InvokeIDCtx[T any](ctx context.Context, c *Container, id string) (T, error) {
	var zero T

	instance, err := c.internal.Resolve(ctx, id)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errs.TypeResolution(
			id, fmt.Sprintf("resolved %s, which is not %s", bantamreflect.TypeKeyFromValue(instance), bantamreflect.TypeKey[T]()),
		)
	}

	return typed, nil
}

func MustInvoke[T any](c *Container) T {
	v, err := Invoke[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

func MustInvokeCtx[T any](ctx context.Context, c *Container) T {
	v, err := InvokeCtx[T](ctx, c)
	if err != nil {
		panic(err)
	}
	return v
}

func MustInvokeID[T any](c *Container, id string) T {
	v, err := InvokeID[T](c, id)
	if err != nil {
		panic(err)
	}
	return v
}

func TryInvoke[T any](c *Container) (T, bool) {
	v, err := Invoke[T](c)
	return v, err == nil
}

// Has reports whether the configuration registers T.
func Has[T any](c *Container) bool {
	return c.internal.Has(idFor[T](c))
}

func idFor[T any](c *Container) string {
	if id, ok := c.internal.Catalog().IDOf(reflect.TypeFor[T]()); ok {
		return id
	}
	return bantamreflect.TypeKey[T]()
}

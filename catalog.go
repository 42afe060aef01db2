package bantam

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/danpasecinic/bantam/internal/catalog"
	"github.com/danpasecinic/bantam/internal/errs"
	"github.com/danpasecinic/bantam/internal/literal"
	bantamreflect "github.com/danpasecinic/bantam/internal/reflect"
)

// Kind is the literal kind of a constructor parameter filled from
// configuration.
type Kind = literal.Kind

const (
	Bool   = literal.Bool
	Byte   = literal.Byte
	Short  = literal.Short
	Int    = literal.Int
	Long   = literal.Long
	Float  = literal.Float
	Double = literal.Double
	Char   = literal.Char
	String = literal.String
)

// Catalog is the fixed set of types a configuration may name. It is built
// once by NewCatalog and shared by any number of containers.
type Catalog struct {
	internal *catalog.Catalog
}

// Definition declares one type for NewCatalog.
type Definition struct {
	desc *catalog.Descriptor
	err  error
}

// Constructor is one way of building a defined type.
type Constructor struct {
	ctor catalog.Constructor
	err  error
}

// Param describes a parameter of a Factory constructor.
type Param = catalog.Param

func NewCatalog(defs ...Definition) (*Catalog, error) {
	descs := make([]*catalog.Descriptor, 0, len(defs))
	for _, d := range defs {
		if d.err != nil {
			return nil, d.err
		}
		descs = append(descs, d.desc)
	}

	internal, err := catalog.Build(descs)
	if err != nil {
		return nil, err
	}
	return &Catalog{internal: internal}, nil
}

func MustNewCatalog(defs ...Definition) *Catalog {
	cat, err := NewCatalog(defs...)
	if err != nil {
		panic(err)
	}
	return cat
}

// Define declares the concrete type T under id. An empty id uses T's
// package-qualified name.
func Define[T any](id string, ctors ...Constructor) Definition {
	t := reflect.TypeFor[T]()
	desc := &catalog.Descriptor{ID: id, Type: t}

	for i, c := range ctors {
		if c.err != nil {
			return Definition{err: errs.TypeResolution(typeID(id, t), fmt.Sprintf("constructor %d: %v", i, c.err))}
		}
		desc.Constructors = append(desc.Constructors, c.ctor)
	}

	return Definition{desc: desc}
}

// Abstract declares T, usually an interface, as a type that can be used as
// a registration key but never constructed.
func Abstract[T any](id string) Definition {
	return Definition{desc: &catalog.Descriptor{ID: id, Type: reflect.TypeFor[T](), Abstract: true}}
}

// Func uses fn as a constructor. fn may take a leading context.Context and
// must return a value or a value and an error. names label fn's remaining
// parameters in order; scalar parameters are filled from configuration by
// name, the rest are resolved by type and may be left unnamed.
//
//	bantam.Func(NewCar, "", "age") // func NewCar(e Engine, age int) *Car
func Func(fn any, names ...string) Constructor {
	ctor, err := catalog.FromFunc(fn, names)
	return Constructor{ctor: ctor, err: err}
}

// Factory builds T from arguments described explicitly by params, in order.
// Literal arguments arrive as the Go type of their kind.
func Factory[T any](build func(ctx context.Context, args []any) (T, error), params ...Param) Constructor {
	if build == nil {
		return Constructor{err: errors.New("nil factory function")}
	}

	ctor := catalog.FromFactory(
		reflect.TypeFor[T](), params, func(ctx context.Context, args []any) (any, error) {
			v, err := build(ctx, args)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	)
	return Constructor{ctor: ctor}
}

// Lit is a Factory parameter filled from the configuration value called
// name.
func Lit(name string, kind Kind) Param {
	return Param{Name: name, Kind: kind, Type: literal.GoType(kind)}
}

// Dep is a Factory parameter resolved as the registration for T.
func Dep[T any](name string) Param {
	return Param{Name: name, Type: reflect.TypeFor[T]()}
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.internal.Lookup(id)
	return ok
}

// IDs returns the declared type ids, sorted.
func (c *Catalog) IDs() []string {
	return c.internal.IDs()
}

func (c *Catalog) Size() int {
	return c.internal.Size()
}

// IDFor returns the id T was declared under.
func IDFor[T any](c *Catalog) (string, bool) {
	return c.internal.IDOf(reflect.TypeFor[T]())
}

func typeID(id string, t reflect.Type) string {
	if id != "" {
		return id
	}
	return bantamreflect.TypeKeyOf(t)
}

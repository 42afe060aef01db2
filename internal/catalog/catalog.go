// Package catalog holds the immutable set of constructible types a registry
// can refer to, keyed by type id.
package catalog

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/danpasecinic/bantam/internal/errs"
	"github.com/danpasecinic/bantam/internal/literal"
	bantamreflect "github.com/danpasecinic/bantam/internal/reflect"
)

// Param is one constructor parameter. Literal parameters (Kind != Invalid)
// are filled from configuration by Name; the rest are dependencies on the
// type id in Dep.
type Param struct {
	Name string
	Kind literal.Kind
	Type reflect.Type
	Dep  string
}

func (p Param) IsLiteral() bool {
	return p.Kind != literal.Invalid
}

func (p Param) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return p.Name + " " + p.Type.String()
}

type Invoker func(ctx context.Context, args []reflect.Value) (any, error)

type Constructor struct {
	Params []Param
	Result reflect.Type
	Invoke Invoker
}

// Descriptor describes one type id. Abstract descriptors have no
// constructors and can only be used as registration keys.
type Descriptor struct {
	ID           string
	Type         reflect.Type
	Abstract     bool
	Constructors []Constructor
}

type Catalog struct {
	byID   map[string]*Descriptor
	byType map[reflect.Type]string
	ids    []string
}

func Build(descs []*Descriptor) (*Catalog, error) {
	c := &Catalog{
		byID:   make(map[string]*Descriptor, len(descs)),
		byType: make(map[reflect.Type]string, len(descs)),
	}

	for _, d := range descs {
		if d.Type == nil {
			return nil, errs.TypeResolution(d.ID, "descriptor has no Go type")
		}
		if d.ID == "" {
			d.ID = bantamreflect.TypeKeyOf(d.Type)
		}
		if _, exists := c.byID[d.ID]; exists {
			return nil, errs.TypeResolution(d.ID, "type id declared more than once")
		}
		if other, exists := c.byType[d.Type]; exists {
			return nil, errs.TypeResolution(d.ID, fmt.Sprintf("Go type %s already declared as %s", d.Type, other))
		}
		if !d.Abstract && len(d.Constructors) == 0 {
			return nil, errs.TypeResolution(d.ID, "concrete type declares no constructors")
		}

		c.byID[d.ID] = d
		c.byType[d.Type] = d.ID
		c.ids = append(c.ids, d.ID)
	}

	for _, d := range descs {
		for i := range d.Constructors {
			if err := c.link(d, &d.Constructors[i]); err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(c.ids)
	return c, nil
}

func (c *Catalog) link(d *Descriptor, ctor *Constructor) error {
	if ctor.Result != nil && !ctor.Result.AssignableTo(d.Type) {
		return errs.TypeResolution(d.ID, fmt.Sprintf("constructor returns %s, not assignable to %s", ctor.Result, d.Type))
	}

	for i := range ctor.Params {
		p := &ctor.Params[i]
		if p.Type == nil {
			return errs.TypeResolution(d.ID, fmt.Sprintf("parameter %d has no Go type", i))
		}
		if p.IsLiteral() {
			if p.Name == "" {
				return errs.TypeResolution(d.ID, fmt.Sprintf("literal parameter %d (%s) has no name", i, p.Type))
			}
			continue
		}
		if literal.IsScalar(p.Type) {
			return errs.TypeResolution(d.ID, fmt.Sprintf("parameter %d (%s) has unsupported literal kind", i, p.Type))
		}
		if p.Dep == "" {
			p.Dep = c.idOf(p.Type)
		}
	}
	return nil
}

func (c *Catalog) idOf(t reflect.Type) string {
	if id, ok := c.byType[t]; ok {
		return id
	}
	return bantamreflect.TypeKeyOf(t)
}

func (c *Catalog) Lookup(id string) (*Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// IDOf returns the id of a declared Go type.
func (c *Catalog) IDOf(t reflect.Type) (string, bool) {
	id, ok := c.byType[t]
	return id, ok
}

func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.ids))
	copy(ids, c.ids)
	return ids
}

func (c *Catalog) Size() int {
	return len(c.ids)
}

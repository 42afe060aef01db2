package catalog

import (
	"context"
	"fmt"
	"reflect"

	"github.com/danpasecinic/bantam/internal/literal"
	bantamreflect "github.com/danpasecinic/bantam/internal/reflect"
)

// FromFunc builds a constructor from a Go function. names label the
// parameters positionally, skipping a leading context.Context; dependency
// parameters may be left unnamed.
func FromFunc(fn any, names []string) (Constructor, error) {
	info, err := bantamreflect.InspectFunc(fn)
	if err != nil {
		return Constructor{}, err
	}

	if len(names) > len(info.Params) {
		return Constructor{}, fmt.Errorf(
			"%d parameter names given for a constructor with %d parameters", len(names), len(info.Params),
		)
	}

	params := make([]Param, len(info.Params))
	for i, t := range info.Params {
		p := Param{Type: t, Kind: literal.KindOf(t)}
		if i < len(names) {
			p.Name = names[i]
		}
		params[i] = p
	}

	return Constructor{
		Params: params,
		Result: info.Result,
		Invoke: info.Call,
	}, nil
}

// FromFactory builds a constructor from explicit parameter descriptors and a
// build function that receives the assembled arguments in order.
func FromFactory(result reflect.Type, params []Param, build func(ctx context.Context, args []any) (any, error)) Constructor {
	own := make([]Param, len(params))
	copy(own, params)

	return Constructor{
		Params: own,
		Result: result,
		Invoke: func(ctx context.Context, args []reflect.Value) (any, error) {
			values := make([]any, len(args))
			for i, a := range args {
				values[i] = a.Interface()
			}
			return build(ctx, values)
		},
	}
}

// Select picks the constructor with the most parameters; ties go to the one
// declared first. It is a simple heuristic, not a search for the best match.
func Select(d *Descriptor) (*Constructor, bool) {
	if d == nil || len(d.Constructors) == 0 {
		return nil, false
	}

	best := 0
	for i := 1; i < len(d.Constructors); i++ {
		if len(d.Constructors[i].Params) > len(d.Constructors[best].Params) {
			best = i
		}
	}
	return &d.Constructors[best], true
}

package reflect

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

var typeKeyCache sync.Map

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// TypeKey is the default type id of T: the package-qualified type name.
func TypeKey[T any]() string {
	return TypeKeyOf(reflect.TypeFor[T]())
}

func TypeKeyOf(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	key := buildTypeKey(t)
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeKey(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildTypeKey(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeKey(t.Key()) + "]" + buildTypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeKey(t.Elem())
		default:
			return "chan " + buildTypeKey(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() == "" {
			return t.String()
		}
		return t.Name()
	}
}

func TypeKeyFromValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return TypeKeyOf(reflect.TypeOf(v))
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func IsInterface(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// FuncInfo describes a constructor function: its value, the parameters it
// takes after an optional leading context.Context, and its result type.
type FuncInfo struct {
	Value        reflect.Value
	Params       []reflect.Type
	Result       reflect.Type
	TakesContext bool
	ReturnsError bool
}

var ErrNotAFunc = errors.New("constructor must be a function")

// InspectFunc accepts functions shaped like
//
//	func([ctx context.Context,] args...) T
//	func([ctx context.Context,] args...) (T, error)
func InspectFunc(fn any) (*FuncInfo, error) {
	if fn == nil {
		return nil, ErrNotAFunc
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotAFunc, t)
	}
	if v.IsNil() {
		return nil, ErrNotAFunc
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("variadic constructor %s is not supported", t)
	}

	info := &FuncInfo{Value: v}

	switch t.NumOut() {
	case 1:
		info.Result = t.Out(0)
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("second result of %s must be error", t)
		}
		info.Result = t.Out(0)
		info.ReturnsError = true
	default:
		return nil, fmt.Errorf("constructor %s must return T or (T, error)", t)
	}

	start := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		info.TakesContext = true
		start = 1
	}

	info.Params = make([]reflect.Type, 0, t.NumIn()-start)
	for i := start; i < t.NumIn(); i++ {
		info.Params = append(info.Params, t.In(i))
	}

	return info, nil
}

// Call invokes the function. args excludes the context argument.
func (f *FuncInfo) Call(ctx context.Context, args []reflect.Value) (any, error) {
	in := args
	if f.TakesContext {
		in = make([]reflect.Value, 0, len(args)+1)
		in = append(in, reflect.ValueOf(&ctx).Elem())
		in = append(in, args...)
	}

	out := f.Value.Call(in)

	if f.ReturnsError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

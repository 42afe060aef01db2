// Package literal converts configuration literal text into typed Go values.
package literal

import (
	"errors"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/danpasecinic/bantam/internal/errs"
)

type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Byte
	Short
	Int
	Long
	Float
	Double
	Char
	String
)

var kindNames = [...]string{
	Invalid: "invalid",
	Bool:    "bool",
	Byte:    "byte",
	Short:   "short",
	Int:     "int",
	Long:    "long",
	Float:   "float",
	Double:  "double",
	Char:    "char",
	String:  "string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

type converter struct {
	goType reflect.Type
	parse  func(text string) (any, error)
}

// converters is built once and never written to.
var converters = map[Kind]converter{
	Bool: {
		goType: reflect.TypeFor[bool](),
		parse: func(s string) (any, error) {
			return strconv.ParseBool(s)
		},
	},
	Byte: {
		goType: reflect.TypeFor[uint8](),
		parse: func(s string) (any, error) {
			v, err := strconv.ParseUint(s, 10, 8)
			return uint8(v), err
		},
	},
	Short: {
		goType: reflect.TypeFor[int16](),
		parse: func(s string) (any, error) {
			v, err := strconv.ParseInt(s, 10, 16)
			return int16(v), err
		},
	},
	Int: {
		goType: reflect.TypeFor[int](),
		parse: func(s string) (any, error) {
			v, err := strconv.ParseInt(s, 10, strconv.IntSize)
			return int(v), err
		},
	},
	Long: {
		goType: reflect.TypeFor[int64](),
		parse: func(s string) (any, error) {
			return strconv.ParseInt(s, 10, 64)
		},
	},
	Float: {
		goType: reflect.TypeFor[float32](),
		parse: func(s string) (any, error) {
			v, err := strconv.ParseFloat(s, 32)
			return float32(v), err
		},
	},
	Double: {
		goType: reflect.TypeFor[float64](),
		parse: func(s string) (any, error) {
			return strconv.ParseFloat(s, 64)
		},
	},
	Char: {
		goType: reflect.TypeFor[rune](),
		parse: func(s string) (any, error) {
			if utf8.RuneCountInString(s) != 1 {
				return nil, errNotSingleRune
			}
			r, size := utf8.DecodeRuneInString(s)
			if r == utf8.RuneError && size == 1 {
				return nil, errNotSingleRune
			}
			return r, nil
		},
	},
	String: {
		goType: reflect.TypeFor[string](),
		parse: func(s string) (any, error) {
			return s, nil
		},
	},
}

var errNotSingleRune = errors.New("expected exactly one character")

// Convert parses text as a value of kind. The result has the kind's canonical
// Go type (see GoType).
func Convert(kind Kind, text string) (any, error) {
	c, ok := converters[kind]
	if !ok {
		return nil, errs.Conversion(text, kind.String(), nil)
	}

	v, err := c.parse(text)
	if err != nil {
		return nil, errs.Conversion(text, kind.String(), err)
	}
	return v, nil
}

// GoType returns the canonical Go type produced by Convert for kind.
func GoType(kind Kind) reflect.Type {
	if c, ok := converters[kind]; ok {
		return c.goType
	}
	return nil
}

// KindOf classifies t by its underlying kind, so named types such as
// `type Port int` are literals too. int32 is treated as rune.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return Invalid
	}

	switch t.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Uint8:
		return Byte
	case reflect.Int16:
		return Short
	case reflect.Int:
		return Int
	case reflect.Int64:
		return Long
	case reflect.Float32:
		return Float
	case reflect.Float64:
		return Double
	case reflect.Int32:
		return Char
	case reflect.String:
		return String
	default:
		return Invalid
	}
}

// IsScalar reports whether t is a primitive or string type, whether or not a
// converter exists for it. Scalars are never resolved as dependencies.
func IsScalar(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

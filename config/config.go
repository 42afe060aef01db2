// Package config parses registration documents.
//
// A document is a JSON or YAML sequence of records:
//
//	[
//	  {
//	    "type": "com.mantiso.Drivable",
//	    "mapTo": "com.mantiso.Car",
//	    "singleton": false,
//	    "constructorParams": [{"name": "age", "value": 23}]
//	  }
//	]
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/danpasecinic/bantam/internal/errs"
)

// Registration binds an abstract type id to the concrete type id that is
// constructed for it.
type Registration struct {
	Type              string
	MapTo             string
	Singleton         bool
	ConstructorParams []Param
}

// Param returns the first constructor parameter called name.
func (r Registration) Param(name string) (Param, bool) {
	for _, p := range r.ConstructorParams {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

type Param struct {
	Name  string
	Value Literal
}

// Literal is a scalar configuration value: string, int64, float64 or bool.
type Literal struct {
	value any
}

func NewLiteral(v any) (Literal, error) {
	switch x := v.(type) {
	case string, int64, float64, bool:
		return Literal{value: x}, nil
	case int:
		return Literal{value: int64(x)}, nil
	case int32:
		return Literal{value: int64(x)}, nil
	case uint64:
		if x > math.MaxInt64 {
			return Literal{value: strconv.FormatUint(x, 10)}, nil
		}
		return Literal{value: int64(x)}, nil
	case float32:
		return Literal{value: float64(x)}, nil
	case nil:
		return Literal{}, fmt.Errorf("value is required")
	default:
		return Literal{}, fmt.Errorf("value must be a string, number or boolean, got %T", v)
	}
}

func MustLiteral(v any) Literal {
	l, err := NewLiteral(v)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Literal) Value() any {
	return l.value
}

// Text renders the literal the way converters expect to read it. Floats
// use the shortest exact form without an exponent and always keep a
// fraction, so 3.0 renders as "3.0" and never reads as an integer.
func (l Literal) Text() string {
	switch x := l.value.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	text := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(text, ".") {
		return text
	}
	return text + ".0"
}

func (l Literal) String() string {
	return l.Text()
}

type record struct {
	Type              string        `mapstructure:"type"`
	MapTo             string        `mapstructure:"mapTo"`
	Singleton         bool          `mapstructure:"singleton"`
	ConstructorParams []paramRecord `mapstructure:"constructorParams"`
}

type paramRecord struct {
	Name  string `mapstructure:"name"`
	Value any    `mapstructure:"value"`
}

// Parse decodes a document into registrations, preserving document order.
// Any malformed input fails with a CONFIG_PARSE error.
func Parse(data []byte) ([]Registration, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.ConfigParse("configuration is not well-formed", err)
	}

	if doc == nil {
		return nil, errs.ConfigParse("configuration is empty", nil)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, errs.ConfigParse(fmt.Sprintf("configuration must be a list of registrations, got %T", doc), nil)
	}

	regs := make([]Registration, 0, len(items))
	for i, item := range items {
		reg, err := decodeRecord(item)
		if err != nil {
			return nil, errs.ConfigParse(fmt.Sprintf("registration %d", i), err)
		}
		regs = append(regs, reg)
	}

	return regs, nil
}

func decodeRecord(item any) (Registration, error) {
	var rec record

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &rec,
	})
	if err != nil {
		return Registration{}, err
	}

	if _, ok := item.(map[string]any); !ok {
		return Registration{}, fmt.Errorf("expected a mapping, got %T", item)
	}
	if err := decoder.Decode(item); err != nil {
		return Registration{}, err
	}

	if rec.Type == "" {
		return Registration{}, fmt.Errorf("field \"type\" is required")
	}
	if rec.MapTo == "" {
		return Registration{}, fmt.Errorf("field \"mapTo\" is required")
	}

	reg := Registration{
		Type:              rec.Type,
		MapTo:             rec.MapTo,
		Singleton:         rec.Singleton,
		ConstructorParams: make([]Param, 0, len(rec.ConstructorParams)),
	}

	for j, p := range rec.ConstructorParams {
		if p.Name == "" {
			return Registration{}, fmt.Errorf("constructorParams[%d]: field \"name\" is required", j)
		}
		value, err := NewLiteral(p.Value)
		if err != nil {
			return Registration{}, fmt.Errorf("constructorParams[%d] (%s): %w", j, p.Name, err)
		}
		reg.ConstructorParams = append(reg.ConstructorParams, Param{Name: p.Name, Value: value})
	}

	return reg, nil
}

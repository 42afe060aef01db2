// Package bantam builds object graphs from a declarative configuration.
//
// A program declares, once, the types a configuration may name and how to
// construct them. A configuration file then binds abstract types to concrete
// ones and supplies the literal values their constructors need. Resolving a
// type builds it and, recursively, everything it depends on.
//
// # Catalog
//
// The catalog lists every constructible type and its constructors:
//
//	cat := bantam.MustNewCatalog(
//	    bantam.Abstract[Vehicle]("Vehicle"),
//	    bantam.Abstract[Engine]("Engine"),
//	    bantam.Define[*Car]("Car", bantam.Func(NewCar, "", "age")),
//	    bantam.Define[*Petrol]("Petrol", bantam.Func(NewPetrol)),
//	)
//
// Func inspects a Go function. Scalar parameters (bool, integers, floats,
// rune, string and types defined on them) are literals filled from the
// configuration by name; the names are given positionally after the
// function. Every other parameter is a dependency, resolved by type.
//
// Factory describes parameters explicitly instead:
//
//	bantam.Define[*Car]("Car", bantam.Factory(
//	    func(ctx context.Context, args []any) (*Car, error) {
//	        return &Car{Engine: args[0].(Engine), Age: args[1].(int)}, nil
//	    },
//	    bantam.Dep[Engine]("engine"),
//	    bantam.Lit("age", bantam.Int),
//	))
//
// When a type has several constructors, the one with the most parameters is
// used; ties go to the one declared first.
//
// # Configuration
//
// A configuration is a JSON or YAML list of registrations:
//
//	[
//	  {"type": "Vehicle", "mapTo": "Car", "constructorParams": [{"name": "age", "value": 23}]},
//	  {"type": "Engine", "mapTo": "Petrol", "singleton": true}
//	]
//
// New locates the file on the search paths (WithSearchPaths, WithFS,
// WithBundle), NewFromBytes parses text already in memory.
//
// # Resolution
//
//	c, err := bantam.New("vehicles.json", cat)
//	v, err := bantam.Invoke[Vehicle](c)      // by Go type
//	v, err := c.Resolve(ctx, "Vehicle")      // by type id
//
// Transient registrations produce a fresh graph on every call. Singleton
// registrations are built once per container and shared.
//
// # Errors
//
// Every failure is an *Error with a code; IsMissingParameter, IsConversion,
// IsCircularDependency and the other predicates test for one. Failures deep
// in a graph keep their own code, and Error.Path records the chain of types
// being resolved.
//
// # Validation
//
// Validate checks all registrations without constructing anything and
// reports every problem it finds. Plan returns the construction order for a
// type, and Graph, FprintGraph and FprintGraphDOT describe the whole
// configuration.
package bantam

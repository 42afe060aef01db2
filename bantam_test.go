package bantam_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"

	"github.com/danpasecinic/bantam"
	"github.com/danpasecinic/bantam/config"
)

type Vehicle interface {
	Wheels() int
}

type Engine interface {
	Fuel() string
}

type Car struct {
	Engine Engine
	Age    int
}

func NewCar(e Engine, age int) *Car {
	return &Car{Engine: e, Age: age}
}

func (c *Car) Wheels() int { return 4 }

type Petrol struct {
	Octane int16
}

func NewPetrol() *Petrol {
	return &Petrol{Octane: 95}
}

func (p *Petrol) Fuel() string { return "petrol" }

type Battery struct {
	KWh   float32
	Label rune
}

func (b *Battery) Fuel() string { return "electric" }

func vehicleCatalog(t testing.TB) *bantam.Catalog {
	t.Helper()

	cat, err := bantam.NewCatalog(
		bantam.Abstract[Vehicle]("Vehicle"),
		bantam.Abstract[Engine]("Engine"),
		bantam.Define[*Car]("Car", bantam.Func(NewCar, "", "age")),
		bantam.Define[*Petrol]("Petrol", bantam.Func(NewPetrol)),
		bantam.Define[*Battery](
			"Battery", bantam.Factory(
				func(ctx context.Context, args []any) (*Battery, error) {
					return &Battery{KWh: args[0].(float32), Label: args[1].(rune)}, nil
				},
				bantam.Lit("kwh", bantam.Float),
				bantam.Lit("label", bantam.Char),
			),
		),
	)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return cat
}

const vehiclesJSON = `[
  {"type": "Vehicle", "mapTo": "Car", "constructorParams": [{"name": "age", "value": 23}]},
  {"type": "Car", "mapTo": "Car", "constructorParams": [{"name": "age", "value": 7}]},
  {"type": "Engine", "mapTo": "Petrol"}
]`

func newVehicles(t testing.TB, opts ...bantam.Option) *bantam.Container {
	t.Helper()

	c, err := bantam.NewFromBytes([]byte(vehiclesJSON), vehicleCatalog(t), opts...)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	return c
}

func TestNewFromBytes(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)
	if c.Size() != 3 {
		t.Errorf("expected 3 registrations, got %d", c.Size())
	}
}

func TestNewWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := newVehicles(t, bantam.WithLogger(logger))

	if _, err := c.Resolve(context.Background(), "Vehicle"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
}

func TestResolveVehicle(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)

	v, err := bantam.Invoke[Vehicle](c)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	car, ok := v.(*Car)
	if !ok {
		t.Fatalf("expected *Car, got %T", v)
	}
	if car.Age != 23 {
		t.Errorf("expected age 23, got %d", car.Age)
	}
	if car.Engine.Fuel() != "petrol" {
		t.Errorf("expected petrol engine, got %s", car.Engine.Fuel())
	}
}

func TestResolveDistinctGraphs(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)

	first := bantam.MustInvoke[*Car](c)
	second := bantam.MustInvoke[*Car](c)

	if first == second {
		t.Error("expected a new Car per call")
	}
	if first.Engine == second.Engine {
		t.Error("expected a new Engine per call")
	}
	if first.Age != 7 {
		t.Errorf("expected age 7, got %d", first.Age)
	}
}

func TestResolveSingleton(t *testing.T) {
	t.Parallel()

	cfg := `[
  {"type": "Car", "mapTo": "Car", "constructorParams": [{"name": "age", "value": 1}]},
  {"type": "Engine", "mapTo": "Petrol", "singleton": true}
]`

	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	first := bantam.MustInvoke[*Car](c)
	second := bantam.MustInvoke[*Car](c)

	if first == second {
		t.Error("Car is transient and should not be shared")
	}
	if first.Engine != second.Engine {
		t.Error("singleton Engine should be shared")
	}
}

func TestFactoryLiterals(t *testing.T) {
	t.Parallel()

	regs := []config.Registration{
		{
			Type:  "Engine",
			MapTo: "Battery",
			ConstructorParams: []config.Param{
				{Name: "kwh", Value: config.MustLiteral(75.5)},
				{Name: "label", Value: config.MustLiteral("E")},
			},
		},
	}

	c, err := bantam.NewFromRegistrations(regs, vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromRegistrations failed: %v", err)
	}

	e, err := bantam.Invoke[Engine](c)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}

	battery := e.(*Battery)
	if battery.KWh != 75.5 {
		t.Errorf("expected 75.5 kWh, got %v", battery.KWh)
	}
	if battery.Label != 'E' {
		t.Errorf("expected label E, got %q", battery.Label)
	}
}

func TestUnknownConcreteType(t *testing.T) {
	t.Parallel()

	cfg := `[{"type": "Vehicle", "mapTo": "Bicycle"}]`

	_, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if !bantam.IsTypeResolution(err) {
		t.Errorf("expected TYPE_RESOLUTION, got %v", err)
	}
}

func TestMalformedConfig(t *testing.T) {
	t.Parallel()

	_, err := bantam.NewFromBytes([]byte(`[{"type": "Vehicle", "mapTo": `), vehicleCatalog(t))
	if !bantam.IsConfigParse(err) {
		t.Errorf("expected CONFIG_PARSE, got %v", err)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	t.Parallel()

	cfg := `[
  {"type": "Engine", "mapTo": "Petrol"},
  {"type": "Engine", "mapTo": "Battery", "constructorParams": [{"name": "kwh", "value": 1}, {"name": "label", "value": "x"}]}
]`

	_, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if !bantam.IsDuplicateRegistration(err) {
		t.Fatalf("expected DUPLICATE_REGISTRATION, got %v", err)
	}

	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t), bantam.WithOverride())
	if err != nil {
		t.Fatalf("override should allow duplicates: %v", err)
	}

	e := bantam.MustInvoke[Engine](c)
	if e.Fuel() != "electric" {
		t.Errorf("expected the last registration to win, got %s", e.Fuel())
	}
}

func TestUnregisteredType(t *testing.T) {
	t.Parallel()

	cfg := `[{"type": "Vehicle", "mapTo": "Car", "constructorParams": [{"name": "age", "value": 1}]}]`

	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	_, err = bantam.Invoke[Vehicle](c)
	if !bantam.IsUnregisteredType(err) {
		t.Fatalf("expected UNREGISTERED_TYPE, got %v", err)
	}

	var e *bantam.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *bantam.Error, got %T", err)
	}
	if e.Type != "Engine" {
		t.Errorf("expected missing type Engine, got %q", e.Type)
	}
	if len(e.Path) != 2 || e.Path[0] != "Vehicle" || e.Path[1] != "Engine" {
		t.Errorf("expected path [Vehicle Engine], got %v", e.Path)
	}
}

func TestMissingParameter(t *testing.T) {
	t.Parallel()

	cfg := `[
  {"type": "Vehicle", "mapTo": "Car"},
  {"type": "Engine", "mapTo": "Petrol"}
]`

	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	if _, err := bantam.Invoke[Vehicle](c); !bantam.IsMissingParameter(err) {
		t.Errorf("expected MISSING_PARAMETER, got %v", err)
	}
}

func TestConversion(t *testing.T) {
	t.Parallel()

	cfg := `[
  {"type": "Vehicle", "mapTo": "Car", "constructorParams": [{"name": "age", "value": "abc"}]},
  {"type": "Engine", "mapTo": "Petrol"}
]`

	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	if _, err := bantam.Invoke[Vehicle](c); !bantam.IsConversion(err) {
		t.Errorf("expected CONVERSION, got %v", err)
	}
}

func TestConstructorError(t *testing.T) {
	t.Parallel()

	type Faulty struct{}
	boom := errors.New("boom")

	cat := bantam.MustNewCatalog(
		bantam.Define[*Faulty](
			"Faulty", bantam.Func(
				func(ctx context.Context) (*Faulty, error) {
					return nil, boom
				},
			),
		),
	)

	c, err := bantam.NewFromBytes([]byte(`[{"type": "Faulty", "mapTo": "Faulty"}]`), cat)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	_, err = bantam.InvokeID[*Faulty](c, "Faulty")
	if !bantam.IsConstructorInvocation(err) {
		t.Fatalf("expected CONSTRUCTOR_INVOCATION, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved: %v", err)
	}
}

type Chicken struct{ Egg *Egg }
type Egg struct{ Chicken *Chicken }

func TestCircularDependency(t *testing.T) {
	t.Parallel()

	cat := bantam.MustNewCatalog(
		bantam.Define[*Chicken]("Chicken", bantam.Func(func(e *Egg) *Chicken { return &Chicken{Egg: e} })),
		bantam.Define[*Egg]("Egg", bantam.Func(func(c *Chicken) *Egg { return &Egg{Chicken: c} })),
	)

	cfg := `[{"type": "Chicken", "mapTo": "Chicken"}, {"type": "Egg", "mapTo": "Egg"}]`
	c, err := bantam.NewFromBytes([]byte(cfg), cat)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	if _, err := bantam.Invoke[*Egg](c); !bantam.IsCircularDependency(err) {
		t.Errorf("expected CIRCULAR_DEPENDENCY, got %v", err)
	}
	if err := c.Validate(); !bantam.IsCircularDependency(err) {
		t.Errorf("expected Validate to report the cycle, got %v", err)
	}
}

func TestMustInvokePanics(t *testing.T) {
	t.Parallel()

	c, err := bantam.NewFromBytes([]byte(`[{"type": "Engine", "mapTo": "Petrol"}]`), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustInvoke should panic for an unregistered type")
		}
	}()

	_ = bantam.MustInvoke[Vehicle](c)
}

func TestTryInvoke(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)

	if _, ok := bantam.TryInvoke[Vehicle](c); !ok {
		t.Error("TryInvoke should succeed for a registered type")
	}

	type Unknown struct{}
	if _, ok := bantam.TryInvoke[*Unknown](c); ok {
		t.Error("TryInvoke should fail for an unknown type")
	}
}

func TestHas(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)

	if !bantam.Has[Vehicle](c) {
		t.Error("Has should be true for Vehicle")
	}
	if bantam.Has[*Battery](c) {
		t.Error("Has should be false for Battery, which is declared but not registered")
	}
	if !c.Has("Engine") {
		t.Error("Has should be true for Engine")
	}
}

func TestInvokeIDWrongType(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)

	_, err := bantam.InvokeID[*Battery](c, "Engine")
	if !bantam.IsTypeResolution(err) {
		t.Fatalf("expected TYPE_RESOLUTION for a wrong Go type, got %v", err)
	}
	if !strings.Contains(err.Error(), "resolved *github.com/danpasecinic/bantam_test.Petrol") {
		t.Errorf("expected the resolved type in %q", err)
	}
}

func TestBindingMustFitType(t *testing.T) {
	t.Parallel()

	// Petrol is an Engine, not a Vehicle.
	cfg := `[{"type": "Vehicle", "mapTo": "Petrol"}]`

	_, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if !bantam.IsTypeResolution(err) {
		t.Fatalf("expected TYPE_RESOLUTION, got %v", err)
	}
	if !strings.Contains(err.Error(), "does not implement") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestIntegralFloatIsNotAnInt(t *testing.T) {
	t.Parallel()

	cfg := `[
  {"type": "Vehicle", "mapTo": "Car", "constructorParams": [{"name": "age", "value": 3.0}]},
  {"type": "Engine", "mapTo": "Petrol"}
]`

	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	if _, err := bantam.Invoke[Vehicle](c); !bantam.IsConversion(err) {
		t.Errorf("expected CONVERSION, got %v", err)
	}
}

func TestContainerValidate(t *testing.T) {
	t.Parallel()

	if err := newVehicles(t).Validate(); err != nil {
		t.Errorf("Validate should pass: %v", err)
	}

	cfg := `[
  {"type": "Vehicle", "mapTo": "Car"},
  {"type": "Car", "mapTo": "Car", "constructorParams": [{"name": "age", "value": "old"}]}
]`
	c, err := bantam.NewFromBytes([]byte(cfg), vehicleCatalog(t))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	err = c.Validate()
	if !bantam.IsValidationFailed(err) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	for _, code := range []bantam.ErrorCode{
		bantam.ErrCodeMissingParameter,
		bantam.ErrCodeConversion,
		bantam.ErrCodeUnregisteredType,
	} {
		if !bantam.HasCode(err, code) {
			t.Errorf("expected %s in %v", code, err)
		}
	}
}

func TestContainerKeysAndPlan(t *testing.T) {
	t.Parallel()

	c := newVehicles(t)

	keys := c.Keys()
	want := []string{"Car", "Engine", "Vehicle"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("expected keys %v, got %v", want, keys)
		}
	}

	plan, err := c.Plan("Vehicle")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan) != 2 || plan[0] != "Engine" || plan[1] != "Vehicle" {
		t.Errorf("expected [Engine Vehicle], got %v", plan)
	}

	reg, ok := c.Registration("Vehicle")
	if !ok || reg.MapTo != "Car" {
		t.Errorf("expected Vehicle mapped to Car, got %+v", reg)
	}
}

func TestNewFromFS(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/etc/app/vehicles.yaml", []byte(`
- type: Vehicle
  mapTo: Car
  constructorParams:
    - name: age
      value: 23
- type: Engine
  mapTo: Petrol
`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	c, err := bantam.New(
		"vehicles.yaml", vehicleCatalog(t),
		bantam.WithFS(fsys),
		bantam.WithSearchPaths("/missing", "/etc/app"),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if car := bantam.MustInvoke[Vehicle](c).(*Car); car.Age != 23 {
		t.Errorf("expected age 23, got %d", car.Age)
	}
}

func TestNewFromBundle(t *testing.T) {
	t.Parallel()

	bundle := fstest.MapFS{
		"config/vehicles.json": &fstest.MapFile{Data: []byte(vehiclesJSON)},
	}

	c, err := bantam.New("vehicles.json", vehicleCatalog(t), bantam.WithBundle(bundle), bantam.WithSearchPaths("config"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.Size() != 3 {
		t.Errorf("expected 3 registrations, got %d", c.Size())
	}
}

func TestNewConfigNotFound(t *testing.T) {
	t.Parallel()

	_, err := bantam.New("nowhere.json", vehicleCatalog(t), bantam.WithFS(afero.NewMemMapFs()))
	if !bantam.IsConfigNotFound(err) {
		t.Errorf("expected CONFIG_NOT_FOUND, got %v", err)
	}
	if !bantam.IsResourceNotFound(err) {
		t.Errorf("expected the locator failure to be kept as cause, got %v", err)
	}
}

func TestNewCatalogErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		defs []bantam.Definition
	}{
		{
			"duplicate id",
			[]bantam.Definition{bantam.Abstract[Vehicle]("X"), bantam.Abstract[Engine]("X")},
		},
		{
			"not a function",
			[]bantam.Definition{bantam.Define[*Petrol]("Petrol", bantam.Func(42))},
		},
		{
			"unnamed literal",
			[]bantam.Definition{bantam.Define[*Car]("Car", bantam.Func(NewCar))},
		},
		{
			"wrong result",
			[]bantam.Definition{bantam.Define[*Car]("Car", bantam.Func(NewPetrol))},
		},
		{
			"no constructors",
			[]bantam.Definition{bantam.Define[*Car]("Car")},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()
				if _, err := bantam.NewCatalog(tt.defs...); !bantam.IsTypeResolution(err) {
					t.Errorf("expected TYPE_RESOLUTION, got %v", err)
				}
			},
		)
	}
}

func TestCatalogIDs(t *testing.T) {
	t.Parallel()

	cat := vehicleCatalog(t)

	if cat.Size() != 5 {
		t.Errorf("expected 5 types, got %d", cat.Size())
	}
	if !cat.Has("Battery") {
		t.Error("expected Battery to be declared")
	}
	if id, ok := bantam.IDFor[Engine](cat); !ok || id != "Engine" {
		t.Errorf("expected Engine id, got %q", id)
	}
}

func TestDefaultTypeID(t *testing.T) {
	t.Parallel()

	cat := bantam.MustNewCatalog(bantam.Define[*Petrol]("", bantam.Func(NewPetrol)))

	id, ok := bantam.IDFor[*Petrol](cat)
	if !ok || id != "*github.com/danpasecinic/bantam_test.Petrol" {
		t.Fatalf("unexpected default id %q", id)
	}

	cfg := `[{"type": "` + id + `", "mapTo": "` + id + `"}]`
	c, err := bantam.NewFromBytes([]byte(cfg), cat)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}

	if p := bantam.MustInvoke[*Petrol](c); p.Octane != 95 {
		t.Errorf("expected octane 95, got %d", p.Octane)
	}
}

func BenchmarkInvoke(b *testing.B) {
	c := newVehicles(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = bantam.Invoke[Vehicle](c)
	}
}

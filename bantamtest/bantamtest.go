// Package bantamtest provides helpers for tests that build containers.
package bantamtest

import (
	"context"
	"log/slog"

	"github.com/danpasecinic/bantam"
	"github.com/danpasecinic/bantam/config"
	"github.com/danpasecinic/bantam/internal/reflect"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
}

type TestContainer struct {
	*bantam.Container
	tb   TB
	cat  *bantam.Catalog
	opts []bantam.Option
}

// New builds a container from configuration text, failing the test on any
// error. Debug logs from the container go to the test log.
func New(tb TB, cat *bantam.Catalog, cfg string, opts ...bantam.Option) *TestContainer {
	tb.Helper()

	opts = append([]bantam.Option{bantam.WithLogger(Logger(tb))}, opts...)

	c, err := bantam.NewFromBytes([]byte(cfg), cat, opts...)
	if err != nil {
		tb.Fatalf("failed to build container: %v", err)
	}

	return &TestContainer{Container: c, tb: tb, cat: cat, opts: opts}
}

// Logger returns a debug-level logger that writes to tb.Logf.
func Logger(tb TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(logWriter{tb}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type logWriter struct {
	tb TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.tb.Logf("%s", p)
	return len(p), nil
}

// Rebind replaces the container with one where regs take the place of any
// registration for the same type.
func (tc *TestContainer) Rebind(regs ...config.Registration) {
	tc.tb.Helper()

	var all []config.Registration
	for _, id := range tc.Keys() {
		reg, _ := tc.Registration(id)
		all = append(all, reg)
	}
	all = append(all, regs...)

	opts := append(append([]bantam.Option(nil), tc.opts...), bantam.WithOverride())

	c, err := bantam.NewFromRegistrations(all, tc.cat, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to rebind container: %v", err)
	}
	tc.Container = c
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

func (tc *TestContainer) MustResolve(id string) any {
	tc.tb.Helper()

	v, err := tc.Resolve(context.Background(), id)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", id, err)
	}
	return v
}

// RequireCode fails the test unless err carries code.
func RequireCode(tb TB, err error, code bantam.ErrorCode) {
	tb.Helper()

	if err == nil {
		tb.Fatalf("expected %s error, got nil", code)
		return
	}
	if !bantam.HasCode(err, code) {
		tb.Fatalf("expected %s error, got %v", code, err)
	}
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !bantam.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to have %s", reflect.TypeKey[T]())
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if bantam.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to not have %s", reflect.TypeKey[T]())
	}
}

func MustInvoke[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := bantam.Invoke[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to invoke %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func MustInvokeID[T any](tc *TestContainer, id string) T {
	tc.tb.Helper()

	v, err := bantam.InvokeID[T](tc.Container, id)
	if err != nil {
		tc.tb.Fatalf("failed to invoke %s: %v", id, err)
	}
	return v
}

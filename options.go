package bantam

import (
	"io/fs"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/danpasecinic/bantam/resource"
)

type Option func(*containerConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

// WithResolveInterceptor adds an interceptor around every resolution.
// Interceptors run in the order they are added and finish in reverse.
func WithResolveInterceptor(intercept ResolveInterceptor) Option {
	return func(cfg *containerConfig) {
		if intercept != nil {
			cfg.intercept = append(cfg.intercept, intercept)
		}
	}
}

// WithFS sets the filesystem configuration sources are read from. The
// default is the operating system filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(cfg *containerConfig) {
		cfg.fs = fsys
	}
}

// WithBundle reads configuration sources from a read-only bundle such as
// an embed.FS.
func WithBundle(fsys fs.FS) Option {
	return func(cfg *containerConfig) {
		cfg.fs = resource.FromFS(fsys)
	}
}

// WithSearchPaths sets the directories searched, in order, for a relative
// configuration source.
func WithSearchPaths(paths ...string) Option {
	return func(cfg *containerConfig) {
		cfg.searchPaths = append(cfg.searchPaths, paths...)
	}
}

// WithOverride lets a later registration for the same type replace an
// earlier one. Without it duplicates are an error.
func WithOverride() Option {
	return func(cfg *containerConfig) {
		cfg.override = true
	}
}

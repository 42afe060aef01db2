// Package resource turns resource names into readable files, searching an
// ordered list of roots on a pluggable filesystem.
package resource

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/danpasecinic/bantam/internal/errs"
)

type Locator struct {
	fs    afero.Fs
	roots []string
}

type Option func(*Locator)

// WithFS replaces the default operating system filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(l *Locator) {
		l.fs = fsys
	}
}

// WithRoots sets the directories searched for relative names, in order.
// Without roots, relative names are resolved against the working directory.
func WithRoots(roots ...string) Option {
	return func(l *Locator) {
		l.roots = append(l.roots, roots...)
	}
}

func NewLocator(opts ...Option) *Locator {
	l := &Locator{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(l)
	}
	if len(l.roots) == 0 {
		l.roots = []string{"."}
	}
	return l
}

// FromFS adapts a read-only io/fs filesystem, such as an embed.FS bundle.
func FromFS(fsys fs.FS) afero.Fs {
	return afero.FromIOFS{FS: fsys}
}

// Locate returns the path of the first regular file matching name. Absolute
// names are checked as given.
func (l *Locator) Locate(name string) (string, error) {
	if name == "" {
		return "", errs.ResourceNotFound(name, nil)
	}

	candidates := l.candidates(name)
	for _, path := range candidates {
		info, err := l.fs.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	return "", errs.ResourceNotFound(name, candidates)
}

func (l *Locator) candidates(name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}

	paths := make([]string, 0, len(l.roots))
	for _, root := range l.roots {
		paths = append(paths, filepath.Join(root, name))
	}
	return paths
}

// Read locates name and returns its contents along with the located path.
func (l *Locator) Read(name string) ([]byte, string, error) {
	path, err := l.Locate(name)
	if err != nil {
		return nil, "", err
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, path, errs.New(errs.CodeResourceNotFound, "cannot read "+path, err)
	}
	return data, path, nil
}

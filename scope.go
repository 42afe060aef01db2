package bantam

import (
	"github.com/danpasecinic/bantam/internal/scope"
)

type Scope = scope.Scope

const (
	Singleton = scope.Singleton
	Transient = scope.Transient
)

// ScopeOf returns the scope the configuration gave id.
func (c *Container) ScopeOf(id string) (Scope, bool) {
	entry, ok := c.internal.Registry().Get(id)
	if !ok {
		return Transient, false
	}
	return entry.Scope, true
}

package scope

type Scope int

const (
	Transient Scope = iota
	Singleton
)

// FromSingleton maps the configuration's singleton flag to a scope.
func FromSingleton(singleton bool) Scope {
	if singleton {
		return Singleton
	}
	return Transient
}

func (s Scope) String() string {
	switch s {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

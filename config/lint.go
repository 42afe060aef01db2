package config

import "fmt"

type Severity int

const (
	Warning Severity = iota
	Problem
)

func (s Severity) String() string {
	if s == Problem {
		return "error"
	}
	return "warning"
}

// Finding is an issue in a parsed document that can be seen without a
// catalog. Index is the position of the offending registration.
type Finding struct {
	Severity Severity
	Index    int
	Type     string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: registration %d (%s): %s", f.Severity, f.Index, f.Type, f.Message)
}

// Lint reports duplicate registrations and constructor parameters that can
// never be used because an earlier one has the same name.
func Lint(regs []Registration) []Finding {
	var findings []Finding
	seen := make(map[string]int, len(regs))

	for i, reg := range regs {
		if first, dup := seen[reg.Type]; dup {
			findings = append(findings, Finding{
				Severity: Problem,
				Index:    i,
				Type:     reg.Type,
				Message:  fmt.Sprintf("type already registered by registration %d", first),
			})
		} else {
			seen[reg.Type] = i
		}

		names := make(map[string]bool, len(reg.ConstructorParams))
		for _, p := range reg.ConstructorParams {
			if names[p.Name] {
				findings = append(findings, Finding{
					Severity: Warning,
					Index:    i,
					Type:     reg.Type,
					Message:  fmt.Sprintf("parameter %q given more than once; only the first is used", p.Name),
				})
			}
			names[p.Name] = true
		}
	}

	return findings
}

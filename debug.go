package bantam

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type GraphInfo struct {
	Registrations []RegistrationInfo
}

// RegistrationInfo describes one registration. Instantiated is only ever
// true for singletons that have been built.
type RegistrationInfo struct {
	Type         string
	MapTo        string
	Dependencies []string
	Dependents   []string
	Instantiated bool
	Scope        string
}

func (c *Container) Graph() GraphInfo {
	graph := c.internal.Graph()
	keys := graph.Nodes()

	registry := c.internal.Registry()
	infos := make([]RegistrationInfo, 0, len(keys))

	for _, key := range keys {
		entry, _ := registry.Get(key)
		_, instantiated := c.internal.GetInstance(key)

		infos = append(
			infos, RegistrationInfo{
				Type:         key,
				MapTo:        entry.Registration.MapTo,
				Dependencies: graph.GetDependencies(key),
				Dependents:   graph.GetDependents(key),
				Instantiated: instantiated,
				Scope:        entry.Scope.String(),
			},
		)
	}

	return GraphInfo{Registrations: infos}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Registrations) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, reg := range info.Registrations {
		status := "○"
		if reg.Instantiated {
			status = "●"
		}

		head := reg.Type
		if reg.MapTo != reg.Type {
			head += " => " + reg.MapTo
		}

		if len(reg.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, head, reg.Scope)
		} else {
			_, _ = fmt.Fprintf(
				w, "%s %s [%s] ← %s\n", status, head, reg.Scope, strings.Join(reg.Dependencies, ", "),
			)
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, reg := range info.Registrations {
		label := escapeLabel(reg.Type)
		style := ""
		if reg.Instantiated {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", reg.Type, label, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, reg := range info.Registrations {
		for _, dep := range reg.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", reg.Type, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}

package graph

import "errors"

var ErrCycleDetected = errors.New("cycle detected in graph")

type cycleDetector struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// DetectCycles returns the strongly connected components that form cycles,
// including self-dependencies. Nodes are visited in sorted order so the
// result is stable.
func (g *Graph) DetectCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.detectCycles()
}

func (g *Graph) detectCycles() [][]string {
	detector := &cycleDetector{
		graph:   g,
		stack:   make([]string, 0),
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, id := range g.sortedNodes() {
		if _, visited := detector.indices[id]; !visited {
			detector.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range detector.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		id := scc[0]
		for _, dep := range g.edges[id] {
			if dep == id {
				cycles = append(cycles, scc)
				break
			}
		}
	}

	return cycles
}

func (d *cycleDetector) strongConnect(id string) {
	d.indices[id] = d.index
	d.lowlink[id] = d.index
	d.index++
	d.stack = append(d.stack, id)
	d.onStack[id] = true

	for _, dep := range d.graph.edges[id] {
		if _, exists := d.graph.nodes[dep]; !exists {
			continue
		}

		if _, visited := d.indices[dep]; !visited {
			d.strongConnect(dep)
			d.lowlink[id] = min(d.lowlink[id], d.lowlink[dep])
		} else if d.onStack[dep] {
			d.lowlink[id] = min(d.lowlink[id], d.indices[dep])
		}
	}

	if d.lowlink[id] == d.indices[id] {
		var scc []string
		for {
			n := len(d.stack) - 1
			w := d.stack[n]
			d.stack = d.stack[:n]
			d.onStack[w] = false
			scc = append(scc, w)
			if w == id {
				break
			}
		}
		d.sccs = append(d.sccs, scc)
	}
}

func (g *Graph) HasCycle() bool {
	g.mu.RLock()
	if g.cycleValid {
		result := g.hasCycle
		g.mu.RUnlock()
		return result
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.cycleValid {
		g.hasCycle = len(g.detectCycles()) > 0
		g.cycleValid = true
	}
	return g.hasCycle
}

// FindCyclePath returns the first cycle reachable from start, beginning and
// ending with the same node, or nil.
func (g *Graph) FindCyclePath(start string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.findCyclePath(start)
}

func (g *Graph) findCyclePath(start string) []string {
	visited := make(map[string]bool)
	path := make([]string, 0)
	inPath := make(map[string]bool)

	var dfs func(id string) []string
	dfs = func(id string) []string {
		if inPath[id] {
			cyclePath := make([]string, 0)
			found := false
			for _, p := range path {
				if p == id {
					found = true
				}
				if found {
					cyclePath = append(cyclePath, p)
				}
			}
			return append(cyclePath, id)
		}

		if visited[id] {
			return nil
		}

		visited[id] = true
		path = append(path, id)
		inPath[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[id] = false
		return nil
	}

	return dfs(start)
}

func (g *Graph) GetAllCyclePaths() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var allPaths [][]string
	for _, scc := range g.detectCycles() {
		if path := g.findCyclePath(scc[len(scc)-1]); path != nil {
			allPaths = append(allPaths, path)
		}
	}

	return allPaths
}

// ResolutionOrder lists target's transitive dependencies that are nodes of
// the graph, each before anything depending on it, ending with target.
func (g *Graph) ResolutionOrder(target string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, exists := g.nodes[target]; !exists {
		return []string{target}, nil
	}

	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	var order []string

	var visit func(id string) error
	visit = func(id string) error {
		if visiting[id] {
			return ErrCycleDetected
		}
		if visited[id] {
			return nil
		}

		visiting[id] = true

		for _, dep := range g.edges[id] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		visiting[id] = false
		visited[id] = true
		order = append(order, id)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}

	return order, nil
}

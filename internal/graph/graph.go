package graph

import (
	"fmt"
	"sync"
)

// Route is a single directed port-to-port edge between two widgets.
type Route struct {
	FromWidget string
	FromPort   string
	ToWidget   string
	ToPort     string
}

// node tracks one widget's adjacency in both directions.
type node struct {
	id         string
	deps       map[string]*node
	dependents map[string]*node
	routesOut  []Route
}

// Graph is a thread-safe directed graph of widget wiring.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node)}
}

// AddNode adds a new node with the given widget ID to the graph. If a node
// with the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddRoute records a directed port-to-port edge. Self-referential routes are
// rejected; a widget feeding its own input would make every emission echo
// forever. An error is returned if either endpoint widget does not exist.
func (g *Graph) AddRoute(r Route) error {
	if r.FromWidget == r.ToWidget {
		return fmt.Errorf("self-referential route not allowed: %s -> %s", r.FromWidget, r.ToWidget)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[r.FromWidget]
	if !ok {
		return fmt.Errorf("source widget not found: %s", r.FromWidget)
	}

	toNode, ok := g.nodes[r.ToWidget]
	if !ok {
		return fmt.Errorf("destination widget not found: %s", r.ToWidget)
	}

	toNode.deps[r.FromWidget] = fromNode
	fromNode.dependents[r.ToWidget] = toNode
	fromNode.routesOut = append(fromNode.routesOut, r)

	return nil
}

// Routes returns the edges leaving the given widget's named output port, in
// insertion order. Insertion order is preserved so fan-out delivery order is
// deterministic.
func (g *Graph) Routes(widgetID, outputPort string) []Route {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[widgetID]
	if !ok {
		return nil
	}

	var out []Route
	for _, r := range n.routesOut {
		if r.FromPort == outputPort {
			out = append(out, r)
		}
	}
	return out
}

// Upstream returns the widget IDs that feed the given widget.
func (g *Graph) Upstream(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("widget not found: %s", id)
	}

	deps := make([]string, 0, len(n.deps))
	for depID := range n.deps {
		deps = append(deps, depID)
	}
	return deps, nil
}

// Downstream returns the widget IDs fed by the given widget.
func (g *Graph) Downstream(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("widget not found: %s", id)
	}

	dependents := make([]string, 0, len(n.dependents))
	for depID := range n.dependents {
		dependents = append(dependents, depID)
	}
	return dependents, nil
}

// DetectCycles checks the graph for wiring loops. Unlike a task DAG, a
// canvas may legitimately contain feedback loops, so callers treat a non-nil
// result as a warning rather than a hard failure.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Classic depth-first search with permanent and temporary marks.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("wiring loop detected involving widget '%s'", n.id)
		}

		temporary[n.id] = true

		for _, dependent := range n.dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, n := range g.nodes {
		if !permanent[n.id] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}

	return nil
}

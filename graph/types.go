package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/solver"
)

// ConstraintIndex collects every constraint on the graph: those implied by
// node types, the user constraints, and one SameTypes per edge.
func (g *Graph) ConstraintIndex() solver.Index[PortID] {
	idx := make(solver.Index[PortID])
	for _, id := range g.NodeIDs() {
		idx.Add(g.Nodes[id].Type.Constraints(id)...)
	}
	idx.Add(g.Constraints...)
	for _, e := range g.edgesByID() {
		idx.Add(solver.SameTypes(e.From.Port(), e.To.Port()))
	}
	return idx
}

func (g *Graph) edgesByID() []*Edge {
	edges := make([]*Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b *Edge) int { return cmp.Compare(a.ID, b.ID) })
	return edges
}

// AssignConcreteTypes resolves every port to one concrete type.
//
// Each port starts from the concrete domain of its declared type. The
// returned error wraps solver.ErrContradiction when the graph has no valid
// typing, or ErrCycle when it cannot be ordered.
func (g *Graph) AssignConcreteTypes() (map[PortID]datatype.Concrete, error) {
	return solve(g, datatype.Abstract.ConcreteDomain)
}

// NarrowAbstractTypes resolves every port to the least specific abstract
// type consistent with all constraints. Editors use it to hint at port types
// before the graph is complete.
func (g *Graph) NarrowAbstractTypes() (map[PortID]datatype.Abstract, error) {
	return solve(g, datatype.Abstract.AbstractDomain)
}

func solve[V solver.Value](g *Graph, domainOf func(datatype.Abstract) []V) (map[PortID]V, error) {
	order, err := g.TopologicalNodes()
	if err != nil {
		return nil, err
	}
	ports := g.TopologicalPorts(order)

	st := solver.NewState[PortID, V]()
	for _, p := range ports {
		t, ok := g.PortType(p)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPort, p)
		}
		st.Domains[p] = domainOf(t)
	}

	types, err := solver.Solve(ports, st, g.ConstraintIndex())
	if err != nil {
		return nil, fmt.Errorf("solve %d ports: %w", len(ports), err)
	}
	return types, nil
}

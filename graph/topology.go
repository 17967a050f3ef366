package graph

import (
	"fmt"
	"slices"
)

// TopologicalNodes orders nodes so that the source of every edge precedes
// its target. Among nodes that are ready at the same time the smallest ID
// goes first, so the order is deterministic.
//
// Nodes left over once no node is ready sit on a cycle; ErrCycle is returned
// together with the order found so far.
func (g *Graph) TopologicalNodes() ([]ID, error) {
	pending := make(map[ID]int, len(g.Nodes))
	var ready []ID
	for _, id := range g.NodeIDs() {
		n := 0
		for _, p := range g.Nodes[id].Inputs() {
			if _, ok := g.Source(p); ok {
				n++
			}
		}
		pending[id] = n
		if n == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]ID, 0, len(g.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		grew := false
		for _, out := range g.Nodes[id].Outputs() {
			port, ok := g.OutputPorts[out]
			if !ok {
				continue
			}
			for _, eid := range port.Edges {
				e, ok := g.Edges[eid]
				if !ok {
					continue
				}
				if _, ok := g.Nodes[e.To.Node]; !ok {
					continue
				}
				pending[e.To.Node]--
				if pending[e.To.Node] == 0 {
					ready = append(ready, e.To.Node)
					grew = true
				}
			}
		}
		if grew {
			slices.Sort(ready)
		}
	}

	if len(order) != len(g.Nodes) {
		return order, fmt.Errorf("%w: %d of %d nodes unordered", ErrCycle, len(g.Nodes)-len(order), len(g.Nodes))
	}
	return order, nil
}

// TopologicalPorts lists, for each node in order, its input ports followed
// by its output ports.
func (g *Graph) TopologicalPorts(order []ID) []PortID {
	var ports []PortID
	for _, id := range order {
		n, ok := g.Nodes[id]
		if !ok {
			continue
		}
		for _, p := range n.Inputs() {
			ports = append(ports, p.Port())
		}
		for _, p := range n.Outputs() {
			ports = append(ports, p.Port())
		}
	}
	return ports
}

// ComputationDomains returns each node's domain: its own intrinsic domain
// joined with the domains of every node feeding it. order must be a
// topological order.
func (g *Graph) ComputationDomains(order []ID) map[ID]ComputationDomain {
	domains := make(map[ID]ComputationDomain, len(order))
	for _, id := range order {
		n, ok := g.Nodes[id]
		if !ok {
			continue
		}
		d := n.Type.Domain()
		for _, p := range n.Inputs() {
			if src, ok := g.Source(p); ok {
				d |= domains[src.Node]
			}
		}
		domains[id] = d
	}
	return domains
}

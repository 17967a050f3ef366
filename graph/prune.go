package graph

import "slices"

// Prune removes every node, except the root, that carries none of the
// retained subgraph tags. With no retain IDs, any subgraph tag keeps a node,
// so only nodes unreachable from the root are removed.
//
// Ports and edges of removed nodes go with them, dangling edge references on
// surviving ports are cleared, and user constraints drop the removed ports.
// Prune returns the number of nodes removed.
func (g *Graph) Prune(retain ...ID) int {
	labels := g.SubgraphLabels()
	keep := func(id ID) bool {
		if id == g.Root {
			return true
		}
		tags := labels[id]
		if len(retain) == 0 {
			return len(tags) > 0
		}
		for _, t := range tags {
			if slices.Contains(retain, t) {
				return true
			}
		}
		return false
	}

	removed := 0
	for _, id := range g.NodeIDs() {
		if !keep(id) {
			g.removeNode(id)
			removed++
		}
	}
	if removed == 0 {
		return 0
	}

	for _, in := range g.InputPorts {
		if in.Connected() {
			if _, ok := g.Edges[in.Edge]; !ok {
				in.Edge = NoEdge
			}
		}
	}
	for _, out := range g.OutputPorts {
		out.Edges = slices.DeleteFunc(out.Edges, func(e EdgeID) bool {
			_, ok := g.Edges[e]
			return !ok
		})
	}

	kept := g.Constraints[:0]
	for _, c := range g.Constraints {
		c.Ports = slices.DeleteFunc(c.Ports, func(p PortID) bool {
			_, ok := g.Nodes[p.Node]
			return !ok
		})
		if len(c.Ports) > 0 {
			kept = append(kept, c)
		}
	}
	g.Constraints = kept
	return removed
}

func (g *Graph) removeNode(id ID) {
	n, ok := g.Nodes[id]
	if !ok {
		return
	}
	for _, p := range n.Inputs() {
		if in, ok := g.InputPorts[p]; ok {
			if e, ok := g.Edges[in.Edge]; ok {
				g.detach(e)
			}
			delete(g.InputPorts, p)
		}
	}
	for _, p := range n.Outputs() {
		if out, ok := g.OutputPorts[p]; ok {
			for _, eid := range slices.Clone(out.Edges) {
				if e, ok := g.Edges[eid]; ok {
					g.detach(e)
				}
			}
			delete(g.OutputPorts, p)
		}
	}
	delete(g.Nodes, id)
}

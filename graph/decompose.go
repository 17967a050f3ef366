package graph

import (
	"fmt"
	"slices"
)

// Subgraph is the set of nodes sharing one subgraph tag, in topological
// order.
type Subgraph struct {
	ID    ID
	Nodes []ID
}

// MultiGraph is a graph decomposed into subgraphs.
//
// Dependencies[s] lists the subgraphs whose results s consumes. Ordering
// lists every subgraph so that dependencies come first.
type MultiGraph struct {
	Graph        *Graph
	Subgraphs    map[ID]*Subgraph
	Dependencies map[ID][]ID
	Ordering     []ID
}

// Decompose groups nodes by their subgraph labels.
//
// A subgraph depends on another when a node ID of its members is itself the
// other subgraph's ID, or when one of its members reads the output of a node
// that belongs only to the other subgraph.
func (g *Graph) Decompose() (*MultiGraph, error) {
	order, err := g.TopologicalNodes()
	if err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}
	labels := g.SubgraphLabels()

	m := &MultiGraph{
		Graph:        g,
		Subgraphs:    make(map[ID]*Subgraph),
		Dependencies: make(map[ID][]ID),
	}
	var seen []ID
	for _, id := range order {
		for _, tag := range labels[id] {
			s, ok := m.Subgraphs[tag]
			if !ok {
				s = &Subgraph{ID: tag}
				m.Subgraphs[tag] = s
				seen = append(seen, tag)
			}
			s.Nodes = append(s.Nodes, id)
		}
	}

	deps := make(map[ID]map[ID]struct{})
	addDep := func(s, on ID) {
		if s == on {
			return
		}
		if deps[s] == nil {
			deps[s] = make(map[ID]struct{})
		}
		deps[s][on] = struct{}{}
	}
	for _, sid := range seen {
		for _, n := range m.Subgraphs[sid].Nodes {
			if _, nested := m.Subgraphs[n]; nested {
				addDep(sid, n)
			}
			node := g.Nodes[n]
			for _, p := range node.Inputs() {
				src, ok := g.Source(p)
				if !ok || labels.Has(src.Node, sid) {
					continue
				}
				for _, other := range labels[src.Node] {
					addDep(sid, other)
				}
			}
		}
	}
	for s, set := range deps {
		for on := range set {
			m.Dependencies[s] = append(m.Dependencies[s], on)
		}
		slices.SortFunc(m.Dependencies[s], func(a, b ID) int {
			return slices.Index(seen, a) - slices.Index(seen, b)
		})
	}

	m.Ordering = orderSubgraphs(seen, m.Dependencies)
	return m, nil
}

// orderSubgraphs sorts subgraphs so dependencies come first, keeping
// first-seen order among independent subgraphs. Subgraphs caught in a
// dependency cycle keep their first-seen position after everything else.
func orderSubgraphs(seen []ID, deps map[ID][]ID) []ID {
	placed := make(map[ID]bool, len(seen))
	order := make([]ID, 0, len(seen))
	for len(order) < len(seen) {
		progress := false
		for _, s := range seen {
			if placed[s] {
				continue
			}
			ready := true
			for _, d := range deps[s] {
				if !placed[d] {
					ready = false
					break
				}
			}
			if ready {
				placed[s] = true
				order = append(order, s)
				progress = true
				break
			}
		}
		if !progress {
			for _, s := range seen {
				if !placed[s] {
					placed[s] = true
					order = append(order, s)
				}
			}
		}
	}
	return order
}

// Dependants inverts Dependencies: the subgraphs that consume s.
func (m *MultiGraph) Dependants(s ID) []ID {
	var out []ID
	for _, id := range m.Ordering {
		if slices.Contains(m.Dependencies[id], s) {
			out = append(out, id)
		}
	}
	return out
}

// BranchedSubgraph splits a subgraph's nodes into branches.
//
// Branches[b] holds the nodes tagged with branch b alone. Nodes holds the
// shared nodes, tagged with no branch or with several; they run in every
// branch.
type BranchedSubgraph struct {
	ID       ID
	Branches map[ID][]ID
	Nodes    []ID
}

// Len returns the number of nodes across branches and shared nodes.
func (s *BranchedSubgraph) Len() int {
	n := len(s.Nodes)
	for _, b := range s.Branches {
		n += len(b)
	}
	return n
}

// BranchedMultiGraph is a MultiGraph whose subgraphs are split into
// branches.
type BranchedMultiGraph struct {
	Graph        *Graph
	Subgraphs    map[ID]*BranchedSubgraph
	Dependencies map[ID][]ID
	Ordering     []ID
}

// Branch splits every subgraph by branch labels.
func (m *MultiGraph) Branch() *BranchedMultiGraph {
	labels := m.Graph.BranchLabels()
	b := &BranchedMultiGraph{
		Graph:        m.Graph,
		Subgraphs:    make(map[ID]*BranchedSubgraph, len(m.Subgraphs)),
		Dependencies: m.Dependencies,
		Ordering:     m.Ordering,
	}
	for id, s := range m.Subgraphs {
		bs := &BranchedSubgraph{ID: id, Branches: make(map[ID][]ID)}
		for _, n := range s.Nodes {
			if tags := labels[n]; len(tags) == 1 {
				bs.Branches[tags[0]] = append(bs.Branches[tags[0]], n)
				continue
			}
			bs.Nodes = append(bs.Nodes, n)
		}
		b.Subgraphs[id] = bs
	}
	return b
}

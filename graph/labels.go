package graph

import (
	"maps"
	"slices"
)

// Labels maps a node to the tags it carries, in ascending order.
// A node reached by no tagged path has no entry.
type Labels map[ID][]ID

// Has reports whether node n carries tag.
func (l Labels) Has(n, tag ID) bool {
	_, ok := slices.BinarySearch(l[n], tag)
	return ok
}

// BranchLabels tags every node with the branches it feeds. Nodes reached
// through no NewBranchID are untagged.
func (g *Graph) BranchLabels() Labels {
	return g.label(func(p *InputPort) *ID { return p.NewBranchID }, nil)
}

// SubgraphLabels tags every node with the subgraphs it belongs to. The root
// node and everything reached from it without crossing a NewSubgraphID
// belong to the root subgraph, whose ID is the root node's ID.
func (g *Graph) SubgraphLabels() Labels {
	root := g.Root
	return g.label(func(p *InputPort) *ID { return p.NewSubgraphID }, &root)
}

type tagged struct {
	tag  ID
	port InputPortID
}

// label walks backwards from the root. Every input port passes its tag to
// the node feeding it; a port with its own tag replaces the inherited one.
// Without a fallback only tagged root inputs start a walk, so a tag behind
// an untagged root input labels nothing. fallback, when set, is the tag of
// the root and of its untagged inputs.
func (g *Graph) label(tagOf func(*InputPort) *ID, fallback *ID) Labels {
	sets := make(map[ID]map[ID]struct{})
	mark := func(n, tag ID) {
		s, ok := sets[n]
		if !ok {
			s = make(map[ID]struct{})
			sets[n] = s
		}
		s[tag] = struct{}{}
	}

	root, ok := g.Nodes[g.Root]
	if !ok {
		return Labels{}
	}
	if fallback != nil {
		mark(root.ID, *fallback)
	}

	var queue []tagged
	visited := make(map[tagged]bool)
	push := func(inherited ID, in *InputPort) {
		t := tagged{tag: inherited, port: in.ID}
		if own := tagOf(in); own != nil {
			t.tag = *own
		}
		if !visited[t] {
			visited[t] = true
			queue = append(queue, t)
		}
	}

	for _, p := range root.Inputs() {
		in, ok := g.InputPorts[p]
		if !ok || !in.Connected() {
			continue
		}
		switch {
		case tagOf(in) != nil:
			push(0, in)
		case fallback != nil:
			push(*fallback, in)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		src, ok := g.Source(cur.port)
		if !ok {
			continue
		}
		n, ok := g.Nodes[src.Node]
		if !ok {
			continue
		}
		mark(n.ID, cur.tag)
		for _, p := range n.Inputs() {
			if in, ok := g.InputPorts[p]; ok && in.Connected() {
				push(cur.tag, in)
			}
		}
	}

	labels := make(Labels, len(sets))
	for n, s := range sets {
		labels[n] = slices.Sorted(maps.Keys(s))
	}
	return labels
}

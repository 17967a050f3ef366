package snapshot

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/solver"
)

// ErrInvalidSnapshot is returned for documents that do not describe a graph.
var ErrInvalidSnapshot = errors.New("snapshot: invalid document")

// Document is the JSON form of a graph.
type Document struct {
	Root        graph.ID        `json:"root"`
	Nodes       []NodeDoc       `json:"nodes"`
	Edges       []EdgeDoc       `json:"edges,omitempty"`
	PortTypes   []PortTypeDoc   `json:"port_types,omitempty"`
	Branches    []TagDoc        `json:"branch_tags,omitempty"`
	Subgraphs   []TagDoc        `json:"subgraph_tags,omitempty"`
	Constraints []ConstraintDoc `json:"constraints,omitempty"`
}

// NodeDoc is one node. Op is set for binary operations, BuiltIn for
// built-in inputs.
type NodeDoc struct {
	ID      graph.ID `json:"id"`
	Type    string   `json:"type"`
	Op      string   `json:"op,omitempty"`
	BuiltIn string   `json:"builtin,omitempty"`
}

// PortRef names a port. Direction is "in" or "out"; edges and tags imply it
// and may leave it empty.
type PortRef struct {
	Node      graph.ID `json:"node"`
	Port      int      `json:"port,omitempty"`
	Direction string   `json:"direction,omitempty"`
}

// EdgeDoc is one edge. A zero ID lets the graph pick one.
type EdgeDoc struct {
	ID   graph.EdgeID `json:"id,omitempty"`
	From PortRef      `json:"from"`
	To   PortRef      `json:"to"`
}

// PortTypeDoc overrides the declared type of a port.
type PortTypeDoc struct {
	PortRef
	Type string `json:"type"`
}

// TagDoc starts a branch or subgraph at an input port.
type TagDoc struct {
	PortRef
	Tag graph.ID `json:"tag"`
}

// ConstraintDoc is an extra constraint between ports.
type ConstraintDoc struct {
	Kind  string    `json:"kind"`
	Ports []PortRef `json:"ports"`
}

// Decode reads one document from r and builds its graph.
func Decode(r io.Reader) (*graph.Graph, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return doc.Graph()
}

// Parse builds the graph described by data.
func Parse(data []byte) (*graph.Graph, error) {
	return Decode(bytes.NewReader(data))
}

// Graph builds the graph the document describes.
func (d *Document) Graph() (*graph.Graph, error) {
	if len(d.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrInvalidSnapshot)
	}
	n := newNames()
	g := graph.Empty()

	for _, nd := range d.Nodes {
		t, err := n.nodeType(nd)
		if err != nil {
			return nil, err
		}
		if err := g.InsertNode(nd.ID, t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}
	if err := g.SetRoot(d.Root); err != nil {
		return nil, fmt.Errorf("%w: root: %w", ErrInvalidSnapshot, err)
	}

	// Explicit edge IDs are claimed before any are generated.
	for _, e := range d.Edges {
		if e.ID != graph.NoEdge {
			if err := connect(g, e); err != nil {
				return nil, err
			}
		}
	}
	for _, e := range d.Edges {
		if e.ID == graph.NoEdge {
			if err := connect(g, e); err != nil {
				return nil, err
			}
		}
	}

	for _, pt := range d.PortTypes {
		p, err := pt.port()
		if err != nil {
			return nil, err
		}
		t, ok := n.dataType(pt.Type)
		if !ok {
			return nil, fmt.Errorf("%w: port %s: unknown type %q", ErrInvalidSnapshot, p, pt.Type)
		}
		if err := g.SetPortType(p, t); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}

	for _, tag := range d.Branches {
		if err := g.TagBranch(tag.input(), tag.Tag); err != nil {
			return nil, fmt.Errorf("%w: branch tag: %w", ErrInvalidSnapshot, err)
		}
	}
	for _, tag := range d.Subgraphs {
		if err := g.TagSubgraph(tag.input(), tag.Tag); err != nil {
			return nil, fmt.Errorf("%w: subgraph tag: %w", ErrInvalidSnapshot, err)
		}
	}

	for _, cd := range d.Constraints {
		kind, ok := n.constraint(cd.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: unknown constraint %q", ErrInvalidSnapshot, cd.Kind)
		}
		ports := make([]graph.PortID, 0, len(cd.Ports))
		for _, ref := range cd.Ports {
			p, err := ref.port()
			if err != nil {
				return nil, err
			}
			ports = append(ports, p)
		}
		if err := g.AddConstraint(solver.Constraint[graph.PortID]{Kind: kind, Ports: ports}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
	}
	return g, nil
}

func connect(g *graph.Graph, e EdgeDoc) error {
	from := graph.OutputPortID{Node: e.From.Node, Index: e.From.Port}
	to := graph.InputPortID{Node: e.To.Node, Index: e.To.Port}
	var err error
	if e.ID == graph.NoEdge {
		_, err = g.Connect(from, to)
	} else {
		err = g.ConnectWithID(e.ID, from, to)
	}
	if err != nil {
		return fmt.Errorf("%w: edge %s -> %s: %w", ErrInvalidSnapshot, from, to, err)
	}
	return nil
}

func (n *names) nodeType(nd NodeDoc) (graph.NodeType, error) {
	kind, ok := n.kind(nd.Type)
	if !ok {
		return graph.NodeType{}, fmt.Errorf("%w: node %d: unknown type %q", ErrInvalidSnapshot, nd.ID, nd.Type)
	}
	switch kind {
	case graph.KindBinaryOperation:
		op, ok := n.op(nd.Op)
		if !ok {
			return graph.NodeType{}, fmt.Errorf("%w: node %d: unknown operation %q", ErrInvalidSnapshot, nd.ID, nd.Op)
		}
		return graph.Binary(op), nil
	case graph.KindBuiltIn:
		b, ok := n.builtIn(nd.BuiltIn)
		if !ok {
			return graph.NodeType{}, fmt.Errorf("%w: node %d: unknown built-in %q", ErrInvalidSnapshot, nd.ID, nd.BuiltIn)
		}
		return graph.Input(b), nil
	default:
		return graph.NodeType{Kind: kind}, nil
	}
}

func (r PortRef) port() (graph.PortID, error) {
	p := graph.PortID{Node: r.Node, Index: r.Port}
	switch r.Direction {
	case "in", "":
		p.Direction = graph.In
	case "out":
		p.Direction = graph.Out
	default:
		return graph.PortID{}, fmt.Errorf("%w: port n%d.%d: direction %q", ErrInvalidSnapshot, r.Node, r.Port, r.Direction)
	}
	return p, nil
}

func (t TagDoc) input() graph.InputPortID {
	return graph.InputPortID{Node: t.Node, Index: t.Port}
}

func ref(p graph.PortID) PortRef {
	r := PortRef{Node: p.Node, Port: p.Index, Direction: "in"}
	if p.Direction == graph.Out {
		r.Direction = "out"
	}
	return r
}

// FromGraph captures g as a document. Nodes, edges and tags are listed in
// ID order, and only port types that differ from the node's declared
// defaults are recorded.
func FromGraph(g *graph.Graph) *Document {
	d := &Document{Root: g.Root}

	for _, id := range g.NodeIDs() {
		t := g.Nodes[id].Type
		nd := NodeDoc{ID: id, Type: t.Kind.String()}
		switch t.Kind {
		case graph.KindBinaryOperation:
			nd.Op = t.Op.String()
		case graph.KindBuiltIn:
			nd.BuiltIn = t.BuiltIn.String()
		}
		d.Nodes = append(d.Nodes, nd)
	}

	for _, e := range g.Edges {
		d.Edges = append(d.Edges, EdgeDoc{
			ID:   e.ID,
			From: PortRef{Node: e.From.Node, Port: e.From.Index},
			To:   PortRef{Node: e.To.Node, Port: e.To.Index},
		})
	}
	slices.SortFunc(d.Edges, func(a, b EdgeDoc) int { return cmp.Compare(a.ID, b.ID) })

	for id, p := range g.InputPorts {
		if p.Type != g.Nodes[id.Node].Type.InputType(id.Index) {
			d.PortTypes = append(d.PortTypes, PortTypeDoc{PortRef: ref(id.Port()), Type: p.Type.String()})
		}
		if p.NewBranchID != nil {
			d.Branches = append(d.Branches, TagDoc{PortRef: PortRef{Node: id.Node, Port: id.Index}, Tag: *p.NewBranchID})
		}
		if p.NewSubgraphID != nil {
			d.Subgraphs = append(d.Subgraphs, TagDoc{PortRef: PortRef{Node: id.Node, Port: id.Index}, Tag: *p.NewSubgraphID})
		}
	}
	for id, p := range g.OutputPorts {
		if p.Type != g.Nodes[id.Node].Type.OutputType(id.Index) {
			d.PortTypes = append(d.PortTypes, PortTypeDoc{PortRef: ref(id.Port()), Type: p.Type.String()})
		}
	}
	slices.SortFunc(d.PortTypes, func(a, b PortTypeDoc) int { return comparePorts(a.PortRef, b.PortRef) })
	slices.SortFunc(d.Branches, func(a, b TagDoc) int { return comparePorts(a.PortRef, b.PortRef) })
	slices.SortFunc(d.Subgraphs, func(a, b TagDoc) int { return comparePorts(a.PortRef, b.PortRef) })

	for _, c := range g.Constraints {
		cd := ConstraintDoc{Kind: c.Kind.String()}
		for _, p := range c.Ports {
			cd.Ports = append(cd.Ports, ref(p))
		}
		d.Constraints = append(d.Constraints, cd)
	}
	return d
}

func comparePorts(a, b PortRef) int {
	return cmp.Or(
		cmp.Compare(a.Node, b.Node),
		cmp.Compare(a.Direction, b.Direction),
		cmp.Compare(a.Port, b.Port),
	)
}

// Encode writes g to w as an indented document.
func Encode(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(FromGraph(g))
}

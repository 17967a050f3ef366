package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/solver"
)

// Structural errors.
var (
	ErrUnknownNode   = errors.New("graph: unknown node")
	ErrUnknownPort   = errors.New("graph: unknown port")
	ErrUnknownEdge   = errors.New("graph: unknown edge")
	ErrDuplicateID   = errors.New("graph: duplicate id")
	ErrPortConnected = errors.New("graph: input port already connected")
	ErrCycle         = errors.New("graph: cycle detected")
)

// Node is a graph vertex.
type Node struct {
	ID   ID
	Type NodeType
}

// Inputs returns the node's input port IDs in index order.
func (n *Node) Inputs() []InputPortID {
	ids := make([]InputPortID, n.Type.InputCount())
	for i := range ids {
		ids[i] = InputPortID{Node: n.ID, Index: i}
	}
	return ids
}

// Outputs returns the node's output port IDs in index order.
func (n *Node) Outputs() []OutputPortID {
	ids := make([]OutputPortID, n.Type.OutputCount())
	for i := range ids {
		ids[i] = OutputPortID{Node: n.ID, Index: i}
	}
	return ids
}

// Graph is a shader node graph.
//
// Ports are created with their node and typed from the node's NodeType;
// SetPortType may narrow them afterwards.
type Graph struct {
	Root        ID
	Nodes       map[ID]*Node
	Edges       map[EdgeID]*Edge
	InputPorts  map[InputPortID]*InputPort
	OutputPorts map[OutputPortID]*OutputPort
	Constraints []solver.Constraint[PortID]

	nextNode ID
	nextEdge EdgeID
}

// Empty returns a graph with no nodes. Set Root with SetRoot before running
// any analysis.
func Empty() *Graph {
	return &Graph{
		Nodes:       make(map[ID]*Node),
		Edges:       make(map[EdgeID]*Edge),
		InputPorts:  make(map[InputPortID]*InputPort),
		OutputPorts: make(map[OutputPortID]*OutputPort),
		nextNode:    1,
		nextEdge:    1,
	}
}

// New returns a graph holding a single root node of type root.
func New(root NodeType) *Graph {
	g := Empty()
	g.Root = g.AddNode(root)
	return g
}

// AddNode adds a node with a fresh ID and creates its ports.
func (g *Graph) AddNode(t NodeType) ID {
	id := g.nextNode
	g.insert(id, t)
	return id
}

// InsertNode adds a node with a caller-chosen ID.
func (g *Graph) InsertNode(id ID, t NodeType) error {
	if _, ok := g.Nodes[id]; ok {
		return fmt.Errorf("%w: node %d", ErrDuplicateID, id)
	}
	g.insert(id, t)
	return nil
}

func (g *Graph) insert(id ID, t NodeType) {
	n := &Node{ID: id, Type: t}
	g.Nodes[id] = n
	for _, p := range n.Inputs() {
		g.InputPorts[p] = &InputPort{ID: p, Type: t.InputType(p.Index)}
	}
	for _, p := range n.Outputs() {
		g.OutputPorts[p] = &OutputPort{ID: p, Type: t.OutputType(p.Index)}
	}
	if id >= g.nextNode {
		g.nextNode = id + 1
	}
}

// SetRoot marks an existing node as the root.
func (g *Graph) SetRoot(id ID) error {
	if _, ok := g.Nodes[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	g.Root = id
	return nil
}

// Connect adds an edge from an output port to an unconnected input port.
func (g *Graph) Connect(from OutputPortID, to InputPortID) (EdgeID, error) {
	id := g.nextEdge
	if err := g.ConnectWithID(id, from, to); err != nil {
		return NoEdge, err
	}
	return id, nil
}

// ConnectWithID is Connect with a caller-chosen edge ID.
func (g *Graph) ConnectWithID(id EdgeID, from OutputPortID, to InputPortID) error {
	if id == NoEdge {
		return fmt.Errorf("%w: edge id 0 is reserved", ErrDuplicateID)
	}
	if _, ok := g.Edges[id]; ok {
		return fmt.Errorf("%w: edge %d", ErrDuplicateID, id)
	}
	out, ok := g.OutputPorts[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, from)
	}
	in, ok := g.InputPorts[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, to)
	}
	if in.Connected() {
		return fmt.Errorf("%w: %s", ErrPortConnected, to)
	}

	g.Edges[id] = &Edge{ID: id, From: from, To: to}
	in.Edge = id
	out.Edges = append(out.Edges, id)
	if id >= g.nextEdge {
		g.nextEdge = id + 1
	}
	return nil
}

// Disconnect removes an edge.
func (g *Graph) Disconnect(id EdgeID) error {
	e, ok := g.Edges[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEdge, id)
	}
	g.detach(e)
	return nil
}

func (g *Graph) detach(e *Edge) {
	delete(g.Edges, e.ID)
	if in, ok := g.InputPorts[e.To]; ok && in.Edge == e.ID {
		in.Edge = NoEdge
	}
	if out, ok := g.OutputPorts[e.From]; ok {
		out.Edges = slices.DeleteFunc(out.Edges, func(x EdgeID) bool { return x == e.ID })
	}
}

// SetPortType overrides the declared type of a port.
func (g *Graph) SetPortType(p PortID, t datatype.Abstract) error {
	if p.Direction == In {
		in, ok := g.InputPorts[InputPortID{Node: p.Node, Index: p.Index}]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPort, p)
		}
		in.Type = t
		return nil
	}
	out, ok := g.OutputPorts[OutputPortID{Node: p.Node, Index: p.Index}]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, p)
	}
	out.Type = t
	return nil
}

// PortType returns the declared type of a port.
func (g *Graph) PortType(p PortID) (datatype.Abstract, bool) {
	if p.Direction == In {
		in, ok := g.InputPorts[InputPortID{Node: p.Node, Index: p.Index}]
		if !ok {
			return datatype.Abstract{}, false
		}
		return in.Type, true
	}
	out, ok := g.OutputPorts[OutputPortID{Node: p.Node, Index: p.Index}]
	if !ok {
		return datatype.Abstract{}, false
	}
	return out.Type, true
}

// TagBranch starts branch b at input port p.
func (g *Graph) TagBranch(p InputPortID, b ID) error {
	in, ok := g.InputPorts[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, p)
	}
	in.NewBranchID = &b
	return nil
}

// TagSubgraph starts subgraph s at input port p.
func (g *Graph) TagSubgraph(p InputPortID, s ID) error {
	in, ok := g.InputPorts[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, p)
	}
	in.NewSubgraphID = &s
	return nil
}

// AddConstraint adds a user constraint. Every port it names must exist.
func (g *Graph) AddConstraint(c solver.Constraint[PortID]) error {
	for _, p := range c.Ports {
		if _, ok := g.PortType(p); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPort, p)
		}
	}
	g.Constraints = append(g.Constraints, c)
	return nil
}

// Source returns the output port feeding input p, if any.
func (g *Graph) Source(p InputPortID) (OutputPortID, bool) {
	in, ok := g.InputPorts[p]
	if !ok || !in.Connected() {
		return OutputPortID{}, false
	}
	e, ok := g.Edges[in.Edge]
	if !ok {
		return OutputPortID{}, false
	}
	return e.From, true
}

// NodeIDs returns every node ID in ascending order.
func (g *Graph) NodeIDs() []ID {
	return slices.Sorted(maps.Keys(g.Nodes))
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Root:        g.Root,
		Nodes:       make(map[ID]*Node, len(g.Nodes)),
		Edges:       make(map[EdgeID]*Edge, len(g.Edges)),
		InputPorts:  make(map[InputPortID]*InputPort, len(g.InputPorts)),
		OutputPorts: make(map[OutputPortID]*OutputPort, len(g.OutputPorts)),
		nextNode:    g.nextNode,
		nextEdge:    g.nextEdge,
	}
	for id, n := range g.Nodes {
		cp := *n
		c.Nodes[id] = &cp
	}
	for id, e := range g.Edges {
		cp := *e
		c.Edges[id] = &cp
	}
	for id, p := range g.InputPorts {
		cp := *p
		if p.NewBranchID != nil {
			b := *p.NewBranchID
			cp.NewBranchID = &b
		}
		if p.NewSubgraphID != nil {
			s := *p.NewSubgraphID
			cp.NewSubgraphID = &s
		}
		c.InputPorts[id] = &cp
	}
	for id, p := range g.OutputPorts {
		cp := *p
		cp.Edges = slices.Clone(p.Edges)
		c.OutputPorts[id] = &cp
	}
	for _, con := range g.Constraints {
		c.Constraints = append(c.Constraints, solver.Constraint[PortID]{Kind: con.Kind, Ports: slices.Clone(con.Ports)})
	}
	return c
}

package graph

import (
	"fmt"

	"github.com/gogpu/shadergraph/datatype"
)

// ID identifies a node. Subgraph and branch tags share the same ID space, so
// a tag may name the node that consumes the tagged region.
type ID uint64

// EdgeID identifies an edge. The zero value means "no edge".
type EdgeID uint64

// NoEdge marks an unconnected input port.
const NoEdge EdgeID = 0

// Direction distinguishes input from output ports.
type Direction uint8

// Port directions.
const (
	In Direction = iota
	Out
)

// PortID identifies either an input or an output port. It is the key type
// used by the solver.
type PortID struct {
	Node      ID
	Index     int
	Direction Direction
}

// String formats the port as "n3.in0" or "n3.out0".
func (p PortID) String() string {
	if p.Direction == In {
		return fmt.Sprintf("n%d.in%d", p.Node, p.Index)
	}
	return fmt.Sprintf("n%d.out%d", p.Node, p.Index)
}

// InputPortID identifies an input port.
type InputPortID struct {
	Node  ID
	Index int
}

// Port widens the ID to a PortID.
func (p InputPortID) Port() PortID { return PortID{Node: p.Node, Index: p.Index, Direction: In} }

func (p InputPortID) String() string { return p.Port().String() }

// OutputPortID identifies an output port.
type OutputPortID struct {
	Node  ID
	Index int
}

// Port widens the ID to a PortID.
func (p OutputPortID) Port() PortID { return PortID{Node: p.Node, Index: p.Index, Direction: Out} }

func (p OutputPortID) String() string { return p.Port().String() }

// InputPort is a node input. It accepts at most one incoming edge.
//
// NewBranchID and NewSubgraphID, when set, start a new branch or subgraph
// for everything upstream of the port.
type InputPort struct {
	ID            InputPortID
	Type          datatype.Abstract
	Edge          EdgeID
	NewBranchID   *ID
	NewSubgraphID *ID
}

// Connected reports whether an edge feeds the port.
func (p *InputPort) Connected() bool { return p.Edge != NoEdge }

// OutputPort is a node output. It may feed any number of edges.
type OutputPort struct {
	ID    OutputPortID
	Type  datatype.Abstract
	Edges []EdgeID
}

// Edge connects one output port to one input port.
type Edge struct {
	ID   EdgeID
	From OutputPortID
	To   InputPortID
}

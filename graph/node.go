package graph

import (
	"fmt"

	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/solver"
)

// NodeKind selects the NodeType variant.
type NodeKind uint8

// Node kinds.
const (
	KindOutput NodeKind = iota
	KindSlab
	KindPreview
	KindBinaryOperation
	KindBuiltIn
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindOutput:
		return "Output"
	case KindSlab:
		return "Slab"
	case KindPreview:
		return "Preview"
	case KindBinaryOperation:
		return "BinaryOperation"
	case KindBuiltIn:
		return "BuiltIn"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// NodeType is the behavior of a node. Port counts, port types, constraints
// and computation domain are all pure functions of the NodeType.
//
// Op is meaningful only for KindBinaryOperation, BuiltIn only for KindBuiltIn.
type NodeType struct {
	Kind    NodeKind
	Op      BinaryOp
	BuiltIn BuiltIn
}

// Output is the material sink of a graph.
func Output() NodeType { return NodeType{Kind: KindOutput} }

// Slab produces a layered material.
func Slab() NodeType { return NodeType{Kind: KindSlab} }

// Preview displays any value.
func Preview() NodeType { return NodeType{Kind: KindPreview} }

// Binary returns a binary operation node type.
func Binary(op BinaryOp) NodeType { return NodeType{Kind: KindBinaryOperation, Op: op} }

// Input returns a built-in input node type.
func Input(b BuiltIn) NodeType { return NodeType{Kind: KindBuiltIn, BuiltIn: b} }

// String formats the node type, e.g. "BinaryOperation(Add)".
func (t NodeType) String() string {
	switch t.Kind {
	case KindBinaryOperation:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Op)
	case KindBuiltIn:
		return fmt.Sprintf("%s(%s)", t.Kind, t.BuiltIn)
	default:
		return t.Kind.String()
	}
}

// InputCount returns the number of input ports.
func (t NodeType) InputCount() int {
	switch t.Kind {
	case KindOutput, KindPreview:
		return 1
	case KindBinaryOperation:
		return 2
	default:
		return 0
	}
}

// OutputCount returns the number of output ports.
func (t NodeType) OutputCount() int {
	switch t.Kind {
	case KindSlab, KindBinaryOperation, KindBuiltIn:
		return 1
	default:
		return 0
	}
}

// InputType returns the declared type of input i.
func (t NodeType) InputType(i int) datatype.Abstract {
	switch t.Kind {
	case KindOutput:
		return datatype.AnyMaterial()
	case KindPreview:
		return datatype.Any()
	case KindBinaryOperation:
		in0, in1, _ := t.Op.portTypes()
		if i == 0 {
			return in0
		}
		return in1
	default:
		return datatype.Any()
	}
}

// OutputType returns the declared type of output i.
func (t NodeType) OutputType(int) datatype.Abstract {
	switch t.Kind {
	case KindSlab:
		return datatype.AnyMaterial()
	case KindBinaryOperation:
		_, _, out := t.Op.portTypes()
		return out
	case KindBuiltIn:
		return datatype.ConcreteType(t.BuiltIn.Type())
	default:
		return datatype.Any()
	}
}

// Constraints returns the constraints a node of this type imposes on its own
// ports.
func (t NodeType) Constraints(node ID) []solver.Constraint[PortID] {
	if t.Kind != KindBinaryOperation {
		return nil
	}
	in0 := InputPortID{Node: node, Index: 0}.Port()
	in1 := InputPortID{Node: node, Index: 1}.Port()
	out := OutputPortID{Node: node, Index: 0}.Port()

	switch t.Op.Category() {
	case CategoryArithmetic, CategoryLogical:
		return []solver.Constraint[PortID]{solver.SameTypes(in0, in1, out)}
	case CategoryComparison:
		return []solver.Constraint[PortID]{solver.SameTypes(in0, in1)}
	default:
		return nil
	}
}

// Domain returns the intrinsic computation domain. Binary operations have
// none of their own; they inherit from upstream.
func (t NodeType) Domain() ComputationDomain {
	switch t.Kind {
	case KindOutput, KindSlab, KindPreview:
		return AllDomains
	case KindBuiltIn:
		return ModelDependent | TransformDependent
	default:
		return 0
	}
}

// BinaryOp is a two-operand operator.
type BinaryOp uint8

// Binary operators.
const (
	Add BinaryOp = iota
	Subtract
	Multiply
	Divide
	Modulo
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
	And
	Or
	Xor
	ShiftLeft
	ShiftRight
)

var binaryOpNames = [...]string{
	Add:          "Add",
	Subtract:     "Subtract",
	Multiply:     "Multiply",
	Divide:       "Divide",
	Modulo:       "Modulo",
	Equal:        "Equal",
	NotEqual:     "NotEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	And:          "And",
	Or:           "Or",
	Xor:          "Xor",
	ShiftLeft:    "ShiftLeft",
	ShiftRight:   "ShiftRight",
}

// BinaryOps lists every operator.
func BinaryOps() []BinaryOp {
	ops := make([]BinaryOp, len(binaryOpNames))
	for i := range ops {
		ops[i] = BinaryOp(i)
	}
	return ops
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// OpCategory groups operators that share port typing rules.
type OpCategory uint8

// Operator categories.
const (
	CategoryArithmetic OpCategory = iota
	CategoryComparison
	CategoryLogical
	CategoryShift
)

// Category returns the operator's category.
func (op BinaryOp) Category() OpCategory {
	switch op {
	case Equal, NotEqual, Less, LessEqual, Greater, GreaterEqual:
		return CategoryComparison
	case And, Or, Xor:
		return CategoryLogical
	case ShiftLeft, ShiftRight:
		return CategoryShift
	default:
		return CategoryArithmetic
	}
}

func (op BinaryOp) portTypes() (in0, in1, out datatype.Abstract) {
	switch op.Category() {
	case CategoryComparison:
		return datatype.AnyNumber(), datatype.AnyNumber(), datatype.ConcreteType(datatype.Bool())
	case CategoryLogical:
		return datatype.AnyValue(), datatype.AnyValue(), datatype.AnyValue()
	case CategoryShift:
		return datatype.AnyNumber(), datatype.ConcreteType(datatype.Int()), datatype.AnyNumber()
	default:
		return datatype.AnyNumber(), datatype.AnyNumber(), datatype.AnyNumber()
	}
}

// BuiltIn is a per-vertex or per-fragment input provided by the renderer.
type BuiltIn uint8

// Built-in inputs.
const (
	WorldPosition BuiltIn = iota
	ObjectPosition
	ClipPosition
	Normal
	Tangent
	TexCoords
	VertexColor
	VertexIndex
)

var builtInNames = [...]string{
	WorldPosition:  "WorldPosition",
	ObjectPosition: "ObjectPosition",
	ClipPosition:   "ClipPosition",
	Normal:         "Normal",
	Tangent:        "Tangent",
	TexCoords:      "TexCoords",
	VertexColor:    "VertexColor",
	VertexIndex:    "VertexIndex",
}

// BuiltIns lists every built-in input.
func BuiltIns() []BuiltIn {
	bs := make([]BuiltIn, len(builtInNames))
	for i := range bs {
		bs[i] = BuiltIn(i)
	}
	return bs
}

func (b BuiltIn) String() string {
	if int(b) < len(builtInNames) {
		return builtInNames[b]
	}
	return fmt.Sprintf("BuiltIn(%d)", uint8(b))
}

// Type returns the concrete type the built-in produces.
func (b BuiltIn) Type() datatype.Concrete {
	switch b {
	case ClipPosition, Tangent, VertexColor:
		return datatype.Float(datatype.S4)
	case TexCoords:
		return datatype.Float(datatype.S2)
	case VertexIndex:
		return datatype.Int()
	default:
		return datatype.Float(datatype.S3)
	}
}

package snapshot

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/shadergraph/datatype"
	"github.com/gogpu/shadergraph/graph"
	"github.com/gogpu/shadergraph/solver"
)

// names resolves the spellings used in documents. Lookups ignore case,
// whitespace, underscores and hyphens, so "WorldPosition", "world_position"
// and "world-position" are the same built-in.
type names struct {
	fold        cases.Caser
	kinds       map[string]graph.NodeKind
	ops         map[string]graph.BinaryOp
	builtIns    map[string]graph.BuiltIn
	types       map[string]datatype.Abstract
	constraints map[string]solver.Kind
}

func newNames() *names {
	n := &names{
		fold:        cases.Fold(),
		kinds:       make(map[string]graph.NodeKind),
		ops:         make(map[string]graph.BinaryOp),
		builtIns:    make(map[string]graph.BuiltIn),
		types:       make(map[string]datatype.Abstract),
		constraints: make(map[string]solver.Kind),
	}
	for _, k := range []graph.NodeKind{graph.KindOutput, graph.KindSlab, graph.KindPreview, graph.KindBinaryOperation, graph.KindBuiltIn} {
		n.kinds[n.key(k.String())] = k
	}
	n.kinds[n.key("binary")] = graph.KindBinaryOperation
	n.kinds[n.key("input")] = graph.KindBuiltIn

	for _, op := range graph.BinaryOps() {
		n.ops[n.key(op.String())] = op
	}
	for _, b := range graph.BuiltIns() {
		n.builtIns[n.key(b.String())] = b
	}
	for _, a := range datatype.AllAbstract() {
		n.types[n.key(a.String())] = a
		if a.IsConcrete() {
			// Concrete types may be written bare: "Float(S3)".
			n.types[n.key(a.Concrete.String())] = a
		}
	}
	for _, k := range []solver.Kind{solver.KindSameTypes, solver.KindSameDimensionality, solver.KindSameCompositeSize} {
		n.constraints[n.key(k.String())] = k
	}
	return n
}

func (n *names) key(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '_', '-':
			return -1
		}
		return r
	}, s)
	return n.fold.String(s)
}

func (n *names) kind(s string) (graph.NodeKind, bool) {
	k, ok := n.kinds[n.key(s)]
	return k, ok
}

func (n *names) op(s string) (graph.BinaryOp, bool) {
	op, ok := n.ops[n.key(s)]
	return op, ok
}

func (n *names) builtIn(s string) (graph.BuiltIn, bool) {
	b, ok := n.builtIns[n.key(s)]
	return b, ok
}

func (n *names) dataType(s string) (datatype.Abstract, bool) {
	t, ok := n.types[n.key(s)]
	return t, ok
}

func (n *names) constraint(s string) (solver.Kind, bool) {
	k, ok := n.constraints[n.key(s)]
	return k, ok
}

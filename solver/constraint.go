package solver

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/shadergraph/datatype"
)

// Value is a candidate value for a port.
//
// Both [datatype.Concrete] and [datatype.Abstract] satisfy Value.
type Value interface {
	comparable
	CompositeSize() (datatype.CompositeSize, bool)
	Dimensionality() (datatype.Dimensionality, bool)
	Rank() int
}

// Kind identifies a constraint variant.
type Kind uint8

// Constraint kinds.
const (
	// KindNone marks contradictions not raised by a constraint,
	// such as a port without a domain.
	KindNone Kind = iota
	KindSameTypes
	KindSameDimensionality
	KindSameCompositeSize
)

// String returns the constraint kind name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSameTypes:
		return "SameTypes"
	case KindSameDimensionality:
		return "SameDimensionality"
	case KindSameCompositeSize:
		return "SameCompositeSize"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Constraint relates a set of ports.
type Constraint[P comparable] struct {
	Kind  Kind
	Ports []P
}

// SameTypes requires all ports to take the same value.
func SameTypes[P comparable](ports ...P) Constraint[P] {
	return Constraint[P]{Kind: KindSameTypes, Ports: ports}
}

// SameDimensionality requires all ports to agree on dimensionality.
func SameDimensionality[P comparable](ports ...P) Constraint[P] {
	return Constraint[P]{Kind: KindSameDimensionality, Ports: ports}
}

// SameCompositeSize requires all ports to agree on composite size.
func SameCompositeSize[P comparable](ports ...P) Constraint[P] {
	return Constraint[P]{Kind: KindSameCompositeSize, Ports: ports}
}

// String formats the constraint, e.g. "SameTypes[a b]".
func (c Constraint[P]) String() string {
	return fmt.Sprintf("%s%v", c.Kind, c.Ports)
}

// Index maps each port to the constraints touching it.
// A port with no entry has no constraints.
type Index[P comparable] map[P][]Constraint[P]

// NewIndex builds an index over the given constraints.
func NewIndex[P comparable](constraints ...Constraint[P]) Index[P] {
	idx := make(Index[P])
	idx.Add(constraints...)
	return idx
}

// Add registers constraints with every port they name. A port listed twice
// in one constraint is indexed once.
func (idx Index[P]) Add(constraints ...Constraint[P]) {
	for _, c := range constraints {
		seen := make(map[P]struct{}, len(c.Ports))
		for _, p := range c.Ports {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			idx[p] = append(idx[p], c)
		}
	}
}

// State holds assignments and remaining domains.
//
// Invariant maintained by the solver: an assigned port's domain is the
// single assigned value.
type State[P comparable, V Value] struct {
	Assignments map[P]V
	Domains     map[P][]V
}

// NewState returns an empty state.
func NewState[P comparable, V Value]() State[P, V] {
	return State[P, V]{
		Assignments: make(map[P]V),
		Domains:     make(map[P][]V),
	}
}

// Clone returns a deep copy. Domain slices are copied so narrowing the clone
// never aliases the original.
func (s State[P, V]) Clone() State[P, V] {
	out := State[P, V]{
		Assignments: maps.Clone(s.Assignments),
		Domains:     make(map[P][]V, len(s.Domains)),
	}
	if out.Assignments == nil {
		out.Assignments = make(map[P]V)
	}
	for p, d := range s.Domains {
		out.Domains[p] = slices.Clone(d)
	}
	return out
}

// assign pins p to v and narrows its domain. It reports whether anything
// changed.
func (s State[P, V]) assign(p P, v V) bool {
	changed := false
	if cur, ok := s.Assignments[p]; !ok || cur != v {
		s.Assignments[p] = v
		changed = true
	}
	if d := s.Domains[p]; len(d) != 1 || d[0] != v {
		s.Domains[p] = []V{v}
		changed = true
	}
	return changed
}

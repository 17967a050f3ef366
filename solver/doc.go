// Package solver implements the constraint solver that narrows port types.
//
// The solver is generic over the port key P and the value type V, so the
// same code narrows abstract types for interactive hints and assigns
// concrete types for compilation.
//
// # Model
//
// A [Constraint] names the ports it relates:
//
//   - [SameTypes]: every port takes the same value.
//   - [SameDimensionality]: values agree on [Value.Dimensionality].
//   - [SameCompositeSize]: values agree on [Value.CompositeSize].
//
// A [State] holds the pinned value of each assigned port and the remaining
// candidate values (the domain) of every port.
//
// # Propagation
//
// [Propagate] is a worklist arc-consistency pass. Constraints only ever
// remove candidates, so the fixed point does not depend on worklist order.
//
// # Search
//
// [Backtrack] walks ports in a caller-supplied order, tries each candidate in
// domain order, propagates, and recurses. Each branch works on a copy of the
// state, so abandoning a branch needs no undo log. [Solve] runs an initial
// propagation from every port before searching.
package solver

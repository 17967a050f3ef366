// Package datatype defines the type lattice used by shader graph ports.
//
// Ports declare an [Abstract] type: a constraint such as "any float" or
// "any 2D texture". Compilation narrows every port to a [Concrete] type that
// can be represented directly on the GPU.
//
// # Domains
//
// Every abstract type exposes two enumerable domains:
//
//   - [Abstract.ConcreteDomain]: the concrete types it admits.
//   - [Abstract.AbstractDomain]: the abstract types at least as specific as
//     itself, itself included, plus every admitted concrete type wrapped with
//     [ConcreteType].
//
// Both domains are written out by hand per kind. Adding a kind means updating
// both switch statements; the tests in this package check that they stay
// consistent (closure and concrete-domain inclusion).
//
// # Rank
//
// [Abstract.Rank] grows with specificity. When several narrowings remain
// valid the solver sorts candidates by rank so the least specific common
// type is tried first.
package datatype

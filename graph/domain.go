package graph

import "strings"

// ComputationDomain is a set of recomputation triggers.
type ComputationDomain uint8

// Computation domains.
const (
	// TimeDependent values change every frame.
	TimeDependent ComputationDomain = 1 << iota
	// ModelDependent values change when the model geometry changes.
	ModelDependent
	// TransformDependent values change when the model transform changes.
	TransformDependent
)

// AllDomains is the union of every domain.
const AllDomains = TimeDependent | ModelDependent | TransformDependent

// Has reports whether every domain in o is in d.
func (d ComputationDomain) Has(o ComputationDomain) bool { return d&o == o }

// String formats the set, e.g. "model|transform". The empty set is "none".
func (d ComputationDomain) String() string {
	if d == 0 {
		return "none"
	}
	var parts []string
	if d.Has(TimeDependent) {
		parts = append(parts, "time")
	}
	if d.Has(ModelDependent) {
		parts = append(parts, "model")
	}
	if d.Has(TransformDependent) {
		parts = append(parts, "transform")
	}
	return strings.Join(parts, "|")
}

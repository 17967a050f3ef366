package solver

import (
	"slices"
)

// Propagate applies every constraint reachable from start until no domain or
// assignment changes. It mutates st in place and returns the ports whose
// assignment or domain changed, in the order they first changed. An empty
// result means st was already at a fixed point for start.
//
// A port without an index entry has no constraints. A constraint naming a
// port without a domain is a contradiction.
func Propagate[P comparable, V Value](start P, st State[P, V], index Index[P]) ([]P, error) {
	worklist := []P{start}
	queued := map[P]bool{start: true}
	var changed []P
	seen := make(map[P]bool)

	for len(worklist) > 0 {
		p := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		queued[p] = false

		for _, c := range index[p] {
			dirty, err := apply(c, st)
			if err != nil {
				return changed, err
			}
			for _, q := range dirty {
				if !seen[q] {
					seen[q] = true
					changed = append(changed, q)
				}
				if !queued[q] {
					queued[q] = true
					worklist = append(worklist, q)
				}
			}
		}
	}
	return changed, nil
}

func apply[P comparable, V Value](c Constraint[P], st State[P, V]) ([]P, error) {
	if len(c.Ports) == 0 {
		return nil, nil
	}
	for _, p := range c.Ports {
		if _, ok := st.Domains[p]; !ok {
			return nil, contradiction(p, c.Kind, "port has no domain")
		}
	}
	switch c.Kind {
	case KindSameTypes:
		return applySameTypes(c, st)
	case KindSameDimensionality:
		return applyProjected(c, st, func(v V) (int, bool) {
			d, ok := v.Dimensionality()
			return int(d), ok
		})
	case KindSameCompositeSize:
		return applyProjected(c, st, func(v V) (int, bool) {
			s, ok := v.CompositeSize()
			return int(s), ok
		})
	default:
		return nil, nil
	}
}

func applySameTypes[P comparable, V Value](c Constraint[P], st State[P, V]) ([]P, error) {
	var (
		fixed     V
		fixedPort P
		hasFixed  bool
	)
	for _, p := range c.Ports {
		v, ok := st.Assignments[p]
		if !ok {
			continue
		}
		if hasFixed && v != fixed {
			return nil, contradiction(p, c.Kind, "assigned %v, but %v is assigned %v", v, fixedPort, fixed)
		}
		fixed, fixedPort, hasFixed = v, p, true
	}

	var dirty []P
	if hasFixed {
		for _, p := range c.Ports {
			if !slices.Contains(st.Domains[p], fixed) {
				return nil, contradiction(p, c.Kind, "%v (assigned at %v) is not in domain", fixed, fixedPort)
			}
		}
		for _, p := range c.Ports {
			if st.assign(p, fixed) {
				dirty = append(dirty, p)
			}
		}
		return dirty, nil
	}

	shared := slices.Clone(st.Domains[c.Ports[0]])
	for _, p := range c.Ports[1:] {
		dom := st.Domains[p]
		shared = slices.DeleteFunc(shared, func(v V) bool { return !slices.Contains(dom, v) })
		if len(shared) == 0 {
			return nil, contradiction(p, c.Kind, "domains have no common value")
		}
	}
	switch len(shared) {
	case 0:
		return nil, contradiction(c.Ports[0], c.Kind, "domain is empty")
	case 1:
		for _, p := range c.Ports {
			if st.assign(p, shared[0]) {
				dirty = append(dirty, p)
			}
		}
		return dirty, nil
	}

	slices.SortStableFunc(shared, func(a, b V) int { return a.Rank() - b.Rank() })
	for _, p := range c.Ports {
		if len(st.Domains[p]) != len(shared) {
			st.Domains[p] = slices.Clone(shared)
			dirty = append(dirty, p)
		}
	}
	return dirty, nil
}

// applyProjected narrows domains so that every port agrees on project(v).
// Values without a projection are unaffected, and a port whose domain holds
// any such value does not restrict the others.
func applyProjected[P comparable, V Value](c Constraint[P], st State[P, V], project func(V) (int, bool)) ([]P, error) {
	var (
		pinned     int
		pinnedPort P
		hasPinned  bool
	)
	for _, p := range c.Ports {
		v, ok := st.Assignments[p]
		if !ok {
			continue
		}
		k, ok := project(v)
		if !ok {
			continue
		}
		if hasPinned && k != pinned {
			return nil, contradiction(p, c.Kind, "assigned %v, which disagrees with %v", v, pinnedPort)
		}
		pinned, pinnedPort, hasPinned = k, p, true
	}

	var allowed map[int]bool
	if hasPinned {
		allowed = map[int]bool{pinned: true}
	}
	for _, p := range c.Ports {
		keys, free := projections(st.Domains[p], project)
		if free {
			continue
		}
		if allowed == nil {
			allowed = keys
			continue
		}
		for k := range allowed {
			if !keys[k] {
				delete(allowed, k)
			}
		}
		if len(allowed) == 0 {
			return nil, contradiction(p, c.Kind, "domains share no common projection")
		}
	}
	if allowed == nil {
		return nil, nil
	}

	var dirty []P
	for _, p := range c.Ports {
		dom := st.Domains[p]
		kept := slices.DeleteFunc(slices.Clone(dom), func(v V) bool {
			k, ok := project(v)
			return ok && !allowed[k]
		})
		if len(kept) == 0 {
			return nil, contradiction(p, c.Kind, "no candidate left in domain")
		}
		if v, ok := st.Assignments[p]; ok && !slices.Contains(kept, v) {
			return nil, contradiction(p, c.Kind, "assigned %v is excluded", v)
		}
		if len(kept) != len(dom) {
			st.Domains[p] = kept
			dirty = append(dirty, p)
		}
	}
	return dirty, nil
}

func projections[V Value](dom []V, project func(V) (int, bool)) (map[int]bool, bool) {
	keys := make(map[int]bool, len(dom))
	for _, v := range dom {
		k, ok := project(v)
		if !ok {
			return nil, true
		}
		keys[k] = true
	}
	return keys, false
}

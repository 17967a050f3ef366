package solver

// Backtrack assigns a value to every port in order, consistent with index.
//
// Ports already assigned in st are skipped. Candidates are tried in domain
// order, so the order of each domain decides which solution is found first.
// Every tentative assignment is propagated on a copy of the state; the first
// complete state is returned. st itself is not modified.
//
// If no candidate completes the ordering, the first contradiction met during
// the search is returned.
func Backtrack[P comparable, V Value](order []P, st State[P, V], index Index[P]) (State[P, V], error) {
	return search(order, 0, st, index)
}

func search[P comparable, V Value](order []P, i int, st State[P, V], index Index[P]) (State[P, V], error) {
	for i < len(order) {
		if _, ok := st.Assignments[order[i]]; !ok {
			break
		}
		i++
	}
	if i == len(order) {
		return st, nil
	}

	p := order[i]
	dom, ok := st.Domains[p]
	if !ok {
		return State[P, V]{}, contradiction(p, KindNone, "port has no domain")
	}
	if len(dom) == 0 {
		return State[P, V]{}, contradiction(p, KindNone, "domain is empty")
	}

	var first error
	for _, v := range dom {
		next := st.Clone()
		next.assign(p, v)
		if _, err := Propagate(p, next, index); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		solved, err := search(order, i+1, next, index)
		if err == nil {
			return solved, nil
		}
		if first == nil {
			first = err
		}
	}
	return State[P, V]{}, first
}

// Solve propagates from every port in order, then backtracks. It returns the
// assignment of every port in order. st is not modified.
func Solve[P comparable, V Value](order []P, st State[P, V], index Index[P]) (map[P]V, error) {
	work := st.Clone()
	for _, p := range order {
		if _, err := Propagate(p, work, index); err != nil {
			return nil, err
		}
	}
	solved, err := Backtrack(order, work, index)
	if err != nil {
		return nil, err
	}
	return solved.Assignments, nil
}

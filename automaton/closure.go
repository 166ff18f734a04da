package automaton

// EpsilonClosure returns every state reachable from seed by zero or more
// epsilon transitions, seed included. Each state is expanded at most once,
// so the cost is linear in states plus epsilon edges.
func (n *NFA) EpsilonClosure(seed StateSet) StateSet {
	closure := seed.Copy()
	worklist := seed.Sorted()
	for len(worklist) > 0 {
		s := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for to := range n.delta[s][Epsilon] {
			if closure.Has(to) {
				continue
			}
			closure.Add(to)
			worklist = append(worklist, to)
		}
	}
	return closure
}

// Move returns the union of sym-labelled targets of every state in set.
// Epsilon edges are not followed.
func (n *NFA) Move(set StateSet, sym Symbol) StateSet {
	out := NewStateSet()
	for s := range set {
		for to := range n.delta[s][sym] {
			out.Add(to)
		}
	}
	return out
}

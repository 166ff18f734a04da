package automaton

import "strconv"

// Determinize converts n into an equivalent total DFA by subset
// construction. DFA state 1 is the epsilon closure of n's start state; other
// states are numbered in discovery order. When some subset has no move on a
// symbol, the empty subset becomes an explicit non-accepting dead state that
// loops to itself.
func Determinize(n *NFA) *DFA {
	d, _ := DeterminizeWithMetrics(n)
	return d
}

// DeterminizeWithMetrics is Determinize plus counters describing the run.
func DeterminizeWithMetrics(n *NFA) (*DFA, *Metrics) {
	c := &construction{
		nfa:     n,
		ids:     make(map[string]StateID),
		subsets: make(map[StateID]StateSet),
		delta:   make(map[StateID]map[Symbol]StateID),
		metrics: NewMetrics(),
	}
	c.metrics.Counter(MetricDeadState)
	c.run()
	return c.result(), c.metrics
}

type workItem struct {
	set StateSet
	id  StateID
}

type construction struct {
	nfa      *NFA
	ids      map[string]StateID // canonical subset key -> DFA state
	subsets  map[StateID]StateSet
	order    []StateID
	worklist []workItem
	delta    map[StateID]map[Symbol]StateID
	metrics  *Metrics
}

func (c *construction) closure(seed StateSet) StateSet {
	c.metrics.Counter(MetricClosureCalls).Inc()
	return c.nfa.EpsilonClosure(seed)
}

func (c *construction) run() {
	c.getOrCreate(c.closure(NewStateSet(c.nfa.start)))

	symbols := c.nfa.alphabet.symbols
	for len(c.worklist) > 0 {
		cur := c.worklist[0]
		c.worklist = c.worklist[1:]
		c.metrics.Counter(MetricSubsetsExpanded).Inc()

		row := make(map[Symbol]StateID, len(symbols))
		for _, sym := range symbols {
			next := c.closure(c.nfa.Move(cur.set, sym))
			row[sym] = c.getOrCreate(next)
			c.metrics.Counter(MetricTransitionsRecorded).Inc()
		}
		c.delta[cur.id] = row
	}
}

// getOrCreate returns the DFA state for set, assigning the next id and
// queueing the set for expansion the first time it is seen.
func (c *construction) getOrCreate(set StateSet) StateID {
	key := set.Key()
	if id, ok := c.ids[key]; ok {
		return id
	}
	id := StateID(strconv.Itoa(len(c.order) + 1))
	c.ids[key] = id
	c.subsets[id] = set
	c.order = append(c.order, id)
	c.worklist = append(c.worklist, workItem{set: set, id: id})
	if set.IsEmpty() {
		c.metrics.Counter(MetricDeadState).Inc()
	}
	return id
}

func (c *construction) result() *DFA {
	d := &DFA{
		states:   c.order,
		known:    NewStateSet(c.order...),
		alphabet: c.nfa.alphabet,
		delta:    c.delta,
		start:    c.order[0],
		accept:   NewStateSet(),
		subsets:  c.subsets,
	}
	for id, set := range c.subsets {
		if set.Intersects(c.nfa.accept) {
			d.accept.Add(id)
		}
	}
	c.metrics.Counter(MetricNFAStates).Add(len(c.nfa.states))
	c.metrics.Counter(MetricDFAStates).Add(len(c.order))
	return d
}

package automaton

// Canned automata used by the demo command and by tests.

func mustAlphabet(s string) Alphabet {
	a, err := ParseAlphabet(s)
	if err != nil {
		panic(err)
	}
	return a
}

func mustNFA(def Definition) *NFA {
	n, err := NewNFA(def)
	if err != nil {
		panic(err)
	}
	return n
}

func mustDFA(def Definition) *DFA {
	d, err := NewDFA(def)
	if err != nil {
		panic(err)
	}
	return d
}

func ids(labels ...string) []StateID {
	out := make([]StateID, len(labels))
	for i, l := range labels {
		out[i] = StateID(l)
	}
	return out
}

// ExampleEpsilonStart is 1 -ε-> 2 with 2 accepting: the empty string is
// accepted through the start state's closure.
func ExampleEpsilonStart() *NFA {
	return mustNFA(Definition{
		States:   ids("1", "2"),
		Alphabet: mustAlphabet("ab"),
		Transitions: []Transition{
			{From: "1", Symbol: Epsilon, To: "2"},
		},
		Start:  "1",
		Accept: ids("2"),
	})
}

// ExampleBranching accepts exactly "a": state 1 branches on a to 2 and 3,
// and only 3 accepts.
func ExampleBranching() *NFA {
	return mustNFA(Definition{
		States:   ids("1", "2", "3"),
		Alphabet: mustAlphabet("a"),
		Transitions: []Transition{
			{From: "1", Symbol: 'a', To: "2"},
			{From: "1", Symbol: 'a', To: "3"},
		},
		Start:  "1",
		Accept: ids("3"),
	})
}

// ExampleEndsWithAB accepts strings over {a,b} ending in "ab".
func ExampleEndsWithAB() *NFA {
	return mustNFA(Definition{
		States:   ids("1", "2", "3"),
		Alphabet: mustAlphabet("ab"),
		Transitions: []Transition{
			{From: "1", Symbol: 'a', To: "1"},
			{From: "1", Symbol: 'b', To: "1"},
			{From: "1", Symbol: 'a', To: "2"},
			{From: "2", Symbol: 'b', To: "3"},
		},
		Start:  "1",
		Accept: ids("3"),
	})
}

// ExampleAStarBStar accepts a*b* using an epsilon edge between the two
// loops.
func ExampleAStarBStar() *NFA {
	return mustNFA(Definition{
		States:   ids("1", "2"),
		Alphabet: mustAlphabet("ab"),
		Transitions: []Transition{
			{From: "1", Symbol: 'a', To: "1"},
			{From: "1", Symbol: Epsilon, To: "2"},
			{From: "2", Symbol: 'b', To: "2"},
		},
		Start:  "1",
		Accept: ids("2"),
	})
}

// ExampleEvenAs is a total DFA over {a,b} accepting strings with an even
// number of a's.
func ExampleEvenAs() *DFA {
	return mustDFA(Definition{
		States:   ids("1", "2"),
		Alphabet: mustAlphabet("ab"),
		Transitions: []Transition{
			{From: "1", Symbol: 'a', To: "2"},
			{From: "1", Symbol: 'b', To: "1"},
			{From: "2", Symbol: 'a', To: "1"},
			{From: "2", Symbol: 'b', To: "2"},
		},
		Start:  "1",
		Accept: ids("1"),
	})
}

// Example is a named canned automaton.
type Example struct {
	Name        string
	Description string
	NFA         *NFA
}

// Examples lists the canned NFAs in a stable order.
func Examples() []Example {
	return []Example{
		{Name: "epsilon-start", Description: "1 -ε-> 2, accept {2}", NFA: ExampleEpsilonStart()},
		{Name: "branching", Description: "1 -a-> {2,3}, accept {3}", NFA: ExampleBranching()},
		{Name: "ends-with-ab", Description: "strings over {a,b} ending in ab", NFA: ExampleEndsWithAB()},
		{Name: "astar-bstar", Description: "a*b* with an epsilon bridge", NFA: ExampleAStarBStar()},
	}
}

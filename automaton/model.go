package automaton

import (
	"slices"
	"strings"
	"unicode"
)

// Symbol is a single alphabet character.
type Symbol rune

// Epsilon labels transitions taken without consuming input. It may not be
// declared as an NFA alphabet symbol.
const Epsilon Symbol = 'e'

func (s Symbol) String() string { return string(rune(s)) }

// Alphabet is an ordered set of symbols. Declaration order is kept because
// it fixes the order in which transitions are recorded and written.
type Alphabet struct {
	symbols []Symbol
	index   map[Symbol]int
}

// NewAlphabet builds an alphabet from symbols in declaration order.
func NewAlphabet(symbols ...Symbol) (Alphabet, error) {
	a := Alphabet{
		symbols: make([]Symbol, 0, len(symbols)),
		index:   make(map[Symbol]int, len(symbols)),
	}
	for _, sym := range symbols {
		if unicode.IsSpace(rune(sym)) || !unicode.IsPrint(rune(sym)) {
			return Alphabet{}, loadErrorf("alphabet", "symbol %q is not a printable character", sym)
		}
		if _, dup := a.index[sym]; dup {
			return Alphabet{}, loadErrorf("alphabet", "duplicate symbol %q", sym)
		}
		a.index[sym] = len(a.symbols)
		a.symbols = append(a.symbols, sym)
	}
	return a, nil
}

// ParseAlphabet treats every character of s as one symbol.
func ParseAlphabet(s string) (Alphabet, error) {
	runes := []rune(s)
	symbols := make([]Symbol, len(runes))
	for i, r := range runes {
		symbols[i] = Symbol(r)
	}
	return NewAlphabet(symbols...)
}

func (a Alphabet) Contains(sym Symbol) bool { _, ok := a.index[sym]; return ok }
func (a Alphabet) Len() int                 { return len(a.symbols) }
func (a Alphabet) Symbols() []Symbol        { return slices.Clone(a.symbols) }

func (a Alphabet) Equal(other Alphabet) bool { return slices.Equal(a.symbols, other.symbols) }

func (a Alphabet) String() string {
	var sb strings.Builder
	for _, sym := range a.symbols {
		sb.WriteRune(rune(sym))
	}
	return sb.String()
}

// Transition is one edge of the transition relation. For NFAs Symbol may be
// Epsilon.
type Transition struct {
	From   StateID
	Symbol Symbol
	To     StateID
}

// Definition is the abstract description a loader hands to NewNFA or
// NewDFA.
type Definition struct {
	States      []StateID
	Alphabet    Alphabet
	Transitions []Transition
	Start       StateID
	Accept      []StateID
}

// NFA is a nondeterministic automaton with epsilon transitions. It is
// immutable once built.
type NFA struct {
	states   []StateID
	known    StateSet
	alphabet Alphabet
	delta    map[StateID]map[Symbol]StateSet
	start    StateID
	accept   StateSet
}

// NewNFA validates def and builds an NFA. Epsilon in the alphabet yields an
// *AlphabetConflictError; any other structural problem a *LoadError.
func NewNFA(def Definition) (*NFA, error) {
	if def.Alphabet.Contains(Epsilon) {
		return nil, &AlphabetConflictError{Symbol: Epsilon}
	}
	known, states, err := checkStates(def)
	if err != nil {
		return nil, err
	}
	n := &NFA{
		states:   states,
		known:    known,
		alphabet: def.Alphabet,
		delta:    make(map[StateID]map[Symbol]StateSet),
		start:    def.Start,
		accept:   NewStateSet(def.Accept...),
	}
	for _, t := range def.Transitions {
		if err := checkTransition(t, known); err != nil {
			return nil, err
		}
		if t.Symbol != Epsilon && !def.Alphabet.Contains(t.Symbol) {
			return nil, loadErrorf("transitions", "%s '%s' %s: symbol not in alphabet %q", t.From, t.Symbol, t.To, def.Alphabet)
		}
		row, ok := n.delta[t.From]
		if !ok {
			row = make(map[Symbol]StateSet)
			n.delta[t.From] = row
		}
		targets, ok := row[t.Symbol]
		if !ok {
			targets = NewStateSet()
			row[t.Symbol] = targets
		}
		targets.Add(t.To)
	}
	return n, nil
}

func checkStates(def Definition) (StateSet, []StateID, error) {
	if len(def.States) == 0 {
		return nil, nil, loadErrorf("states", "automaton has no states")
	}
	known := NewStateSet()
	for _, id := range def.States {
		if id == "" {
			return nil, nil, loadErrorf("states", "empty state id")
		}
		if known.Has(id) {
			return nil, nil, loadErrorf("states", "duplicate state %s", id)
		}
		known.Add(id)
	}
	if def.Start == "" {
		return nil, nil, loadErrorf("start", "start state is not defined")
	}
	if !known.Has(def.Start) {
		return nil, nil, loadErrorf("start", "unknown start state %s", def.Start)
	}
	for _, id := range def.Accept {
		if !known.Has(id) {
			return nil, nil, loadErrorf("accept", "unknown accept state %s", id)
		}
	}
	states := slices.Clone(def.States)
	SortStateIDs(states)
	return known, states, nil
}

func checkTransition(t Transition, known StateSet) error {
	if !known.Has(t.From) {
		return loadErrorf("transitions", "%s '%s' %s: unknown state %s", t.From, t.Symbol, t.To, t.From)
	}
	if !known.Has(t.To) {
		return loadErrorf("transitions", "%s '%s' %s: unknown state %s", t.From, t.Symbol, t.To, t.To)
	}
	return nil
}

func (n *NFA) States() []StateID       { return slices.Clone(n.states) }
func (n *NFA) NumStates() int          { return len(n.states) }
func (n *NFA) Alphabet() Alphabet      { return n.alphabet }
func (n *NFA) Start() StateID          { return n.start }
func (n *NFA) AcceptStates() []StateID { return n.accept.Sorted() }

func (n *NFA) IsAccepting(id StateID) bool { return n.accept.Has(id) }

// Targets returns every state reachable from state on sym (Epsilon allowed).
// The result is a fresh set and may be empty.
func (n *NFA) Targets(state StateID, sym Symbol) StateSet {
	return n.delta[state][sym].Copy()
}

// IsDeterministic reports whether n has no epsilon transitions and exactly
// one target for every (state, symbol) pair.
func (n *NFA) IsDeterministic() bool {
	for _, s := range n.states {
		row := n.delta[s]
		if len(row[Epsilon]) > 0 {
			return false
		}
		for _, sym := range n.alphabet.symbols {
			if len(row[sym]) != 1 {
				return false
			}
		}
	}
	return true
}

// Transitions lists the relation ordered by state, then epsilon, then
// alphabet order, then target.
func (n *NFA) Transitions() []Transition {
	var out []Transition
	symbols := append([]Symbol{Epsilon}, n.alphabet.symbols...)
	for _, from := range n.states {
		row := n.delta[from]
		for _, sym := range symbols {
			for _, to := range row[sym].Sorted() {
				out = append(out, Transition{From: from, Symbol: sym, To: to})
			}
		}
	}
	return out
}

func (n *NFA) Definition() Definition {
	return Definition{
		States:      n.States(),
		Alphabet:    n.alphabet,
		Transitions: n.Transitions(),
		Start:       n.start,
		Accept:      n.AcceptStates(),
	}
}

// DFA is a deterministic automaton. A DFA from Determinize is total; one
// built with NewDFA may not be, and lookups report the gap explicitly.
type DFA struct {
	states   []StateID
	known    StateSet
	alphabet Alphabet
	delta    map[StateID]map[Symbol]StateID
	start    StateID
	accept   StateSet

	// NFA subset behind each state; nil unless built by Determinize.
	subsets map[StateID]StateSet
}

// NewDFA validates def and builds a DFA. Totality is not required; see
// CheckTotal.
func NewDFA(def Definition) (*DFA, error) {
	known, states, err := checkStates(def)
	if err != nil {
		return nil, err
	}
	d := &DFA{
		states:   states,
		known:    known,
		alphabet: def.Alphabet,
		delta:    make(map[StateID]map[Symbol]StateID),
		start:    def.Start,
		accept:   NewStateSet(def.Accept...),
	}
	for _, t := range def.Transitions {
		if err := checkTransition(t, known); err != nil {
			return nil, err
		}
		if !def.Alphabet.Contains(t.Symbol) {
			return nil, loadErrorf("transitions", "%s '%s' %s: symbol not in alphabet %q", t.From, t.Symbol, t.To, def.Alphabet)
		}
		row, ok := d.delta[t.From]
		if !ok {
			row = make(map[Symbol]StateID)
			d.delta[t.From] = row
		}
		if prev, dup := row[t.Symbol]; dup && prev != t.To {
			return nil, loadErrorf("transitions", "state %s has transitions to both %s and %s on '%s'", t.From, prev, t.To, t.Symbol)
		}
		row[t.Symbol] = t.To
	}
	return d, nil
}

func (d *DFA) States() []StateID       { return slices.Clone(d.states) }
func (d *DFA) NumStates() int          { return len(d.states) }
func (d *DFA) Alphabet() Alphabet      { return d.alphabet }
func (d *DFA) Start() StateID          { return d.start }
func (d *DFA) AcceptStates() []StateID { return d.accept.Sorted() }

func (d *DFA) IsAccepting(id StateID) bool { return d.accept.Has(id) }

// Next looks up the single target for (state, sym). A missing entry is a
// *NonTotalTransitionError, never a silent no-op.
func (d *DFA) Next(state StateID, sym Symbol) (StateID, error) {
	to, ok := d.delta[state][sym]
	if !ok {
		return "", &NonTotalTransitionError{State: state, Symbol: sym}
	}
	return to, nil
}

// Subset returns the NFA states a determinized state stands for.
func (d *DFA) Subset(id StateID) (StateSet, bool) {
	s, ok := d.subsets[id]
	if !ok {
		return nil, false
	}
	return s.Copy(), true
}

// CheckTotal returns a *NonTotalTransitionError for the first (state,
// symbol) pair, in state and alphabet order, that has no target.
func (d *DFA) CheckTotal() error {
	for _, s := range d.states {
		for _, sym := range d.alphabet.symbols {
			if _, err := d.Next(s, sym); err != nil {
				return err
			}
		}
	}
	return nil
}

// Transitions lists the transition function ordered by state, then
// alphabet order.
func (d *DFA) Transitions() []Transition {
	var out []Transition
	for _, from := range d.states {
		row := d.delta[from]
		for _, sym := range d.alphabet.symbols {
			if to, ok := row[sym]; ok {
				out = append(out, Transition{From: from, Symbol: sym, To: to})
			}
		}
	}
	return out
}

func (d *DFA) Definition() Definition {
	return Definition{
		States:      d.States(),
		Alphabet:    d.alphabet,
		Transitions: d.Transitions(),
		Start:       d.start,
		Accept:      d.AcceptStates(),
	}
}

// Package automaton models finite automata, converts NFAs with epsilon
// transitions into total DFAs by subset construction, and simulates both.
//
// Models are built once with NewNFA or NewDFA and never change afterwards.
// Determinize numbers DFA states from 1 in discovery order and adds an
// explicit dead state whenever some subset has no move on a symbol, so every
// DFA it returns is total. DFA lookups on a hand-built automaton that is not
// total fail with *NonTotalTransitionError instead of keeping the previous
// state.
//
// Simulation is pure: (*DFA).Next and (*NFA).Step map a state or state set
// and a symbol to the next one, and Simulate folds them over an input.
package automaton

package automaton

import (
	"errors"
	"fmt"
)

var (
	ErrLoad                = errors.New("invalid automaton")
	ErrAlphabetConflict    = errors.New("alphabet conflict")
	ErrSymbolNotInAlphabet = errors.New("symbol not in alphabet")
	ErrNonTotalTransition  = errors.New("automaton not total")
)

// LoadError reports a malformed or structurally invalid automaton
// description. Line is 1-based and zero when the error did not come from a
// text source.
type LoadError struct {
	Line    int
	Section string
	Msg     string
	Err     error
}

func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	prefix := ErrLoad.Error()
	if e.Section != "" {
		prefix += " " + e.Section
	}
	if e.Line > 0 {
		prefix += fmt.Sprintf(" (line %d)", e.Line)
	}
	return prefix + ": " + msg
}

// Is matches ErrLoad as well as anything the cause matches.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

func (e *LoadError) Unwrap() error { return e.Err }

func loadErrorf(section, format string, args ...any) error {
	return &LoadError{Section: section, Msg: fmt.Sprintf(format, args...)}
}

// AlphabetConflictError reports the reserved epsilon symbol declared as a
// real NFA alphabet symbol.
type AlphabetConflictError struct {
	Symbol Symbol
}

func (e *AlphabetConflictError) Error() string {
	return fmt.Sprintf("%s: %q is reserved for epsilon transitions and cannot be an alphabet symbol",
		ErrAlphabetConflict, e.Symbol)
}

func (e *AlphabetConflictError) Unwrap() error { return ErrAlphabetConflict }

// SimulationInputError describes an input symbol outside the automaton's
// alphabet. Simulation treats it as a definite reject, not a failure.
type SimulationInputError struct {
	Symbol   Symbol
	Position int
}

func (e *SimulationInputError) Error() string {
	return fmt.Sprintf("%s: %q at position %d", ErrSymbolNotInAlphabet, e.Symbol, e.Position)
}

func (e *SimulationInputError) Unwrap() error { return ErrSymbolNotInAlphabet }

// NonTotalTransitionError reports a DFA lookup with no defined target. It
// means the automaton is malformed, not that the input is rejected.
type NonTotalTransitionError struct {
	State  StateID
	Symbol Symbol
}

func (e *NonTotalTransitionError) Error() string {
	return fmt.Sprintf("%s: no transition from state %s on %q", ErrNonTotalTransition, e.State, e.Symbol)
}

func (e *NonTotalTransitionError) Unwrap() error { return ErrNonTotalTransition }

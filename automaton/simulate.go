package automaton

// Acceptor decides membership of a string in an automaton's language.
type Acceptor interface {
	Accepts(input string) (bool, error)
}

var (
	_ Acceptor = (*DFA)(nil)
	_ Acceptor = (*NFA)(nil)
)

// Result is the outcome of simulating one input.
type Result struct {
	Accepted bool

	// Final is the DFA state after the last symbol. Empty for NFA runs and
	// for inputs rejected up front.
	Final StateID

	// FinalSet is the NFA state set after the last symbol. Nil for DFA runs.
	FinalSet StateSet

	// Steps counts consumed symbols.
	Steps int

	// Rejection is set when the input held a symbol outside the alphabet.
	// Such inputs are rejected before any symbol is consumed.
	Rejection *SimulationInputError
}

// checkInput finds the first symbol of input not in alphabet.
func checkInput(alphabet Alphabet, input []rune) *SimulationInputError {
	for i, r := range input {
		if !alphabet.Contains(Symbol(r)) {
			return &SimulationInputError{Symbol: Symbol(r), Position: i}
		}
	}
	return nil
}

// Simulate runs d over input left to right. An out-of-alphabet symbol is a
// reject reported in Result.Rejection; a missing transition is returned as a
// *NonTotalTransitionError.
func (d *DFA) Simulate(input string) (Result, error) {
	symbols := []rune(input)
	if rej := checkInput(d.alphabet, symbols); rej != nil {
		return Result{Rejection: rej}, nil
	}
	state := d.start
	for i, r := range symbols {
		next, err := d.Next(state, Symbol(r))
		if err != nil {
			return Result{Final: state, Steps: i}, err
		}
		state = next
	}
	return Result{
		Accepted: d.accept.Has(state),
		Final:    state,
		Steps:    len(symbols),
	}, nil
}

// Accepts reports whether input is in the language of d.
func (d *DFA) Accepts(input string) (bool, error) {
	res, err := d.Simulate(input)
	if err != nil {
		return false, err
	}
	return res.Accepted, nil
}

// Step advances a set of current states by one symbol: the epsilon closure
// of every sym-labelled move out of current. current is expected to be
// closed already.
func (n *NFA) Step(current StateSet, sym Symbol) StateSet {
	return n.EpsilonClosure(n.Move(current, sym))
}

// Simulate tracks the closed set of reachable NFA states across input.
func (n *NFA) Simulate(input string) Result {
	symbols := []rune(input)
	if rej := checkInput(n.alphabet, symbols); rej != nil {
		return Result{Rejection: rej}
	}
	current := n.EpsilonClosure(NewStateSet(n.start))
	steps := 0
	for _, r := range symbols {
		if current.IsEmpty() {
			// nothing is reachable from the empty set
			break
		}
		current = n.Step(current, Symbol(r))
		steps++
	}
	return Result{
		Accepted: current.Intersects(n.accept),
		FinalSet: current,
		Steps:    steps,
	}
}

// Accepts reports whether input is in the language of n. The error is
// always nil; it is there to satisfy Acceptor.
func (n *NFA) Accepts(input string) (bool, error) {
	return n.Simulate(input).Accepted, nil
}

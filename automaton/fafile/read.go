// Package fafile reads and writes automata in the line-oriented text
// format:
//
//	<state count>
//	<alphabet, one character per symbol>
//	<from> '<symbol>' <to>        zero or more lines; 'e' is epsilon (NFA only)
//	<start state>
//	<accept states separated by spaces>
//
// States are the decimal labels 1..count. Blank lines between sections are
// ignored, and the accept line may be empty or missing.
package fafile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/lopezrodolfo/nfa/automaton"
)

// Kind selects which automaton a description is validated as.
type Kind int

const (
	KindNFA Kind = iota
	KindDFA
)

func (k Kind) String() string {
	if k == KindDFA {
		return "DFA"
	}
	return "NFA"
}

var transitionLine = regexp.MustCompile(`^(\S+)\s+'(.)'\s+(\S+)$`)

type line struct {
	num  int
	text string
}

// ReadNFA parses an NFA description.
func ReadNFA(r io.Reader) (*automaton.NFA, error) {
	def, err := Parse(r, KindNFA)
	if err != nil {
		return nil, err
	}
	n, err := automaton.NewNFA(def)
	if err != nil {
		return nil, asLoadError(err)
	}
	return n, nil
}

// ReadDFA parses a DFA description. The result need not be total.
func ReadDFA(r io.Reader) (*automaton.DFA, error) {
	def, err := Parse(r, KindDFA)
	if err != nil {
		return nil, err
	}
	d, err := automaton.NewDFA(def)
	if err != nil {
		return nil, asLoadError(err)
	}
	return d, nil
}

func ReadNFAFile(path string) (*automaton.NFA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nfa: %w", err)
	}
	defer f.Close()
	n, err := ReadNFA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

func ReadDFAFile(path string) (*automaton.DFA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dfa: %w", err)
	}
	defer f.Close()
	d, err := ReadDFA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// asLoadError makes sure every failure surfaced by this package is a
// *automaton.LoadError, wrapping an alphabet conflict when needed.
func asLoadError(err error) error {
	var loadErr *automaton.LoadError
	if errors.As(err, &loadErr) {
		return err
	}
	return &automaton.LoadError{Section: "alphabet", Err: err}
}

func loadErrorf(l line, section, format string, args ...any) error {
	return &automaton.LoadError{Line: l.num, Section: section, Msg: fmt.Sprintf(format, args...)}
}

// Parse reads a description and performs every line-level check: counts,
// syntax, state labels and symbols. Structural checks that need the whole
// model are left to automaton.NewNFA and automaton.NewDFA.
func Parse(r io.Reader, kind Kind) (automaton.Definition, error) {
	var def automaton.Definition

	var lines []line
	sc := bufio.NewScanner(r)
	for num := 1; sc.Scan(); num++ {
		lines = append(lines, line{num: num, text: strings.TrimRight(sc.Text(), " \t\r")})
	}
	if err := sc.Err(); err != nil {
		return def, &automaton.LoadError{Msg: "read description", Err: err}
	}
	p := &parser{lines: lines, kind: kind}

	countLine, ok := p.nextNonBlank()
	if !ok {
		return def, &automaton.LoadError{Section: "states", Msg: "missing state count"}
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine.text))
	if err != nil {
		return def, loadErrorf(countLine, "states", "state count %q is not an integer", countLine.text)
	}
	if count < 1 {
		return def, loadErrorf(countLine, "states", "state count must be at least 1, got %d", count)
	}
	p.count = count
	for i := 1; i <= count; i++ {
		def.States = append(def.States, automaton.StateID(strconv.Itoa(i)))
	}

	alphaLine, ok := p.nextNonBlank()
	if !ok {
		return def, &automaton.LoadError{Line: countLine.num + 1, Section: "alphabet", Msg: "missing alphabet"}
	}
	alphabet, err := automaton.ParseAlphabet(alphaLine.text)
	if err != nil {
		var loadErr *automaton.LoadError
		if errors.As(err, &loadErr) {
			loadErr.Line = alphaLine.num
		}
		return def, err
	}
	if kind == KindNFA && alphabet.Contains(automaton.Epsilon) {
		return def, &automaton.LoadError{
			Line:    alphaLine.num,
			Section: "alphabet",
			Err:     &automaton.AlphabetConflictError{Symbol: automaton.Epsilon},
		}
	}
	def.Alphabet = alphabet

	for {
		l, ok := p.nextNonBlank()
		if !ok {
			return def, &automaton.LoadError{Section: "start", Msg: "missing start state"}
		}
		m := transitionLine.FindStringSubmatch(l.text)
		if m == nil && strings.Contains(l.text, "'") {
			return def, loadErrorf(l, "transitions", "malformed transition %q, want: <from> '<symbol>' <to>", l.text)
		}
		if m == nil {
			start, err := p.state(l, "start", strings.TrimSpace(l.text))
			if err != nil {
				return def, err
			}
			def.Start = start
			break
		}
		t, err := p.transition(l, m, alphabet)
		if err != nil {
			return def, err
		}
		def.Transitions = append(def.Transitions, t)
	}

	acceptLine, ok := p.nextNonBlank()
	if ok {
		for _, field := range strings.Fields(acceptLine.text) {
			s, err := p.state(acceptLine, "accept", field)
			if err != nil {
				return def, err
			}
			def.Accept = append(def.Accept, s)
		}
		if extra, more := p.nextNonBlank(); more {
			return def, loadErrorf(extra, "accept", "unexpected content after accept states: %q", extra.text)
		}
	}
	return def, nil
}

type parser struct {
	lines []line
	pos   int
	kind  Kind
	count int
}

func (p *parser) next() (line, bool) {
	if p.pos >= len(p.lines) {
		return line{}, false
	}
	l := p.lines[p.pos]
	p.pos++
	return l, true
}

func (p *parser) nextNonBlank() (line, bool) {
	for {
		l, ok := p.next()
		if !ok {
			return line{}, false
		}
		if strings.TrimSpace(l.text) != "" {
			return l, true
		}
	}
}

func (p *parser) state(l line, section, label string) (automaton.StateID, error) {
	n, err := strconv.Atoi(label)
	if err != nil {
		return "", loadErrorf(l, section, "state %q is not an integer", label)
	}
	if n < 1 || n > p.count {
		return "", loadErrorf(l, section, "unknown state %d (states are 1..%d)", n, p.count)
	}
	return automaton.StateID(strconv.Itoa(n)), nil
}

func (p *parser) transition(l line, m []string, alphabet automaton.Alphabet) (automaton.Transition, error) {
	var t automaton.Transition
	from, err := p.state(l, "transitions", m[1])
	if err != nil {
		return t, err
	}
	to, err := p.state(l, "transitions", m[3])
	if err != nil {
		return t, err
	}
	sym := automaton.Symbol([]rune(m[2])[0])
	epsilon := p.kind == KindNFA && sym == automaton.Epsilon
	if !epsilon && !alphabet.Contains(sym) {
		return t, loadErrorf(l, "transitions", "symbol %q is not in the %s alphabet %q", sym, p.kind, alphabet)
	}
	return automaton.Transition{From: from, Symbol: sym, To: to}, nil
}

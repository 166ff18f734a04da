package fafile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lopezrodolfo/nfa/automaton"
)

// WriteDFA writes d in the text format: one transition per (state, symbol)
// pair, in state then alphabet order, followed by the start state and the
// accept states in ascending order. d must be total.
func WriteDFA(w io.Writer, d *automaton.DFA) error {
	if err := d.CheckTotal(); err != nil {
		return fmt.Errorf("write dfa: %w", err)
	}
	return write(w, d.Definition())
}

// WriteNFA writes n in the text format, epsilon transitions first for each
// state. Two NFAs with the same structure produce identical output.
func WriteNFA(w io.Writer, n *automaton.NFA) error {
	return write(w, n.Definition())
}

func WriteDFAFile(path string, d *automaton.DFA) error {
	var buf bytes.Buffer
	if err := WriteDFA(&buf, d); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dfa file: %w", err)
	}
	return nil
}

// FormatNFA returns the canonical text of n.
func FormatNFA(n *automaton.NFA) string {
	var buf bytes.Buffer
	_ = WriteNFA(&buf, n)
	return buf.String()
}

// FormatDFA returns the text of d, or an error when d is not total.
func FormatDFA(d *automaton.DFA) (string, error) {
	var buf bytes.Buffer
	if err := WriteDFA(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// write labels states 1..N in state order, which leaves ids that already
// are 1..N unchanged.
func write(w io.Writer, def automaton.Definition) error {
	label := relabel(def.States)

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(def.States))
	fmt.Fprintln(bw, def.Alphabet.String())
	for _, t := range def.Transitions {
		fmt.Fprintf(bw, "%s '%c' %s\n", label[t.From], rune(t.Symbol), label[t.To])
	}
	fmt.Fprintln(bw, label[def.Start])
	accept := make([]string, len(def.Accept))
	for i, s := range def.Accept {
		accept[i] = label[s]
	}
	fmt.Fprintln(bw, strings.Join(accept, " "))
	return bw.Flush()
}

func relabel(states []automaton.StateID) map[automaton.StateID]string {
	label := make(map[automaton.StateID]string, len(states))
	for i, s := range states {
		label[s] = strconv.Itoa(i + 1)
	}
	return label
}

package automaton

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNFARejectsEpsilonInAlphabet(t *testing.T) {
	_, err := NewNFA(Definition{
		States:   ids("1"),
		Alphabet: mustAlphabet("ae"),
		Start:    "1",
	})
	require.Error(t, err)

	var conflict *AlphabetConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, Epsilon, conflict.Symbol)
	assert.ErrorIs(t, err, ErrAlphabetConflict)
}

func TestNewNFALoadErrors(t *testing.T) {
	ab := mustAlphabet("ab")
	tests := []struct {
		name    string
		def     Definition
		section string
	}{
		{
			name:    "no states",
			def:     Definition{Alphabet: ab, Start: "1"},
			section: "states",
		},
		{
			name:    "undefined start",
			def:     Definition{States: ids("1", "2"), Alphabet: ab},
			section: "start",
		},
		{
			name:    "unknown start",
			def:     Definition{States: ids("1", "2"), Alphabet: ab, Start: "3"},
			section: "start",
		},
		{
			name:    "duplicate state",
			def:     Definition{States: ids("1", "1"), Alphabet: ab, Start: "1"},
			section: "states",
		},
		{
			name:    "unknown accept",
			def:     Definition{States: ids("1"), Alphabet: ab, Start: "1", Accept: ids("4")},
			section: "accept",
		},
		{
			name: "unknown transition target",
			def: Definition{
				States: ids("1"), Alphabet: ab, Start: "1",
				Transitions: []Transition{{From: "1", Symbol: 'a', To: "9"}},
			},
			section: "transitions",
		},
		{
			name: "symbol outside alphabet",
			def: Definition{
				States: ids("1"), Alphabet: ab, Start: "1",
				Transitions: []Transition{{From: "1", Symbol: 'z', To: "1"}},
			},
			section: "transitions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNFA(tt.def)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLoad)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.section, loadErr.Section)
		})
	}
}

func TestNewDFARejectsConflictingTransitions(t *testing.T) {
	_, err := NewDFA(Definition{
		States:   ids("1", "2"),
		Alphabet: mustAlphabet("a"),
		Transitions: []Transition{
			{From: "1", Symbol: 'a', To: "1"},
			{From: "1", Symbol: 'a', To: "2"},
		},
		Start: "1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoad)
	assert.Contains(t, err.Error(), "state 1 has transitions to both 1 and 2")
}

func TestNewDFAAllowsRepeatedIdenticalTransition(t *testing.T) {
	d, err := NewDFA(Definition{
		States:   ids("1"),
		Alphabet: mustAlphabet("a"),
		Transitions: []Transition{
			{From: "1", Symbol: 'a', To: "1"},
			{From: "1", Symbol: 'a', To: "1"},
		},
		Start: "1",
	})
	require.NoError(t, err)
	assert.Len(t, d.Transitions(), 1)
}

func TestDFANextReportsMissingTransition(t *testing.T) {
	d := mustDFA(Definition{
		States:      ids("1", "2"),
		Alphabet:    mustAlphabet("ab"),
		Transitions: []Transition{{From: "1", Symbol: 'a', To: "2"}},
		Start:       "1",
	})

	to, err := d.Next("1", 'a')
	require.NoError(t, err)
	assert.Equal(t, StateID("2"), to)

	_, err = d.Next("1", 'b')
	var nonTotal *NonTotalTransitionError
	require.True(t, errors.As(err, &nonTotal))
	assert.Equal(t, StateID("1"), nonTotal.State)
	assert.Equal(t, Symbol('b'), nonTotal.Symbol)

	err = d.CheckTotal()
	require.ErrorIs(t, err, ErrNonTotalTransition)
	assert.Contains(t, err.Error(), "state 1")
	assert.NoError(t, ExampleEvenAs().CheckTotal())
}

func TestAlphabet(t *testing.T) {
	a, err := ParseAlphabet("ba")
	require.NoError(t, err)
	assert.Equal(t, []Symbol{'b', 'a'}, a.Symbols())
	assert.True(t, a.Contains('a'))
	assert.False(t, a.Contains('c'))
	assert.Equal(t, "ba", a.String())

	_, err = ParseAlphabet("aba")
	assert.ErrorIs(t, err, ErrLoad)
	_, err = ParseAlphabet("a b")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestNFAAccessors(t *testing.T) {
	n := ExampleEndsWithAB()
	assert.Equal(t, []StateID{"1", "2"}, n.Targets("1", 'a').Sorted())
	assert.True(t, n.Targets("3", 'a').IsEmpty())
	assert.Equal(t, []StateID{"3"}, n.AcceptStates())
	assert.False(t, n.IsDeterministic())

	det, err := NewNFA(ExampleEvenAs().Definition())
	require.NoError(t, err)
	assert.True(t, det.IsDeterministic())
	assert.False(t, ExampleEpsilonStart().IsDeterministic())
}

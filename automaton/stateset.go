package automaton

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// StateID identifies a state. NFA ids come from the automaton description;
// DFA ids produced by Determinize are decimal integers starting at 1.
type StateID string

// StateSet is an unordered set of states.
type StateSet map[StateID]struct{}

func NewStateSet(ids ...StateID) StateSet {
	s := make(StateSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s StateSet) Has(id StateID) bool { _, ok := s[id]; return ok }
func (s StateSet) Add(id StateID)      { s[id] = struct{}{} }
func (s StateSet) Size() int           { return len(s) }
func (s StateSet) IsEmpty() bool       { return len(s) == 0 }

func (s StateSet) Copy() StateSet {
	out := make(StateSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s StateSet) Equals(other StateSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

func (s StateSet) Union(other StateSet) StateSet {
	out := s.Copy()
	for k := range other {
		out.Add(k)
	}
	return out
}

func (s StateSet) Intersect(other StateSet) StateSet {
	out := NewStateSet()
	for k := range s {
		if other.Has(k) {
			out.Add(k)
		}
	}
	return out
}

// Intersects reports whether s and other share at least one state.
func (s StateSet) Intersects(other StateSet) bool {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if big.Has(k) {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every member of s is in other.
func (s StateSet) SubsetOf(other StateSet) bool {
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order (numeric where both ids are
// integers).
func (s StateSet) Sorted() []StateID {
	out := make([]StateID, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	SortStateIDs(out)
	return out
}

// Key returns the canonical subset key: equal membership gives an equal key
// regardless of insertion order. Members are length-prefixed so that no two
// different sets encode to the same string.
func (s StateSet) Key() string {
	var sb strings.Builder
	for _, id := range s.Sorted() {
		sb.WriteString(strconv.Itoa(len(id)))
		sb.WriteByte(':')
		sb.WriteString(string(id))
	}
	return sb.String()
}

// String renders the set as {a,b,c}.
func (s StateSet) String() string {
	ids := s.Sorted()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// SortStateIDs orders ids numerically when both parse as integers and
// lexically otherwise; integers sort before non-integers.
func SortStateIDs(ids []StateID) {
	slices.SortFunc(ids, CompareStateIDs)
}

func CompareStateIDs(a, b StateID) int {
	ai, aErr := strconv.Atoi(string(a))
	bi, bErr := strconv.Atoi(string(b))
	switch {
	case aErr == nil && bErr == nil:
		if ai != bi {
			return cmp.Compare(ai, bi)
		}
		return strings.Compare(string(a), string(b))
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(string(a), string(b))
}

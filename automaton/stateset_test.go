package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSetKeyIsOrderIndependent(t *testing.T) {
	a := NewStateSet("3", "1", "2")
	b := NewStateSet("2", "3", "1", "1")
	assert.Equal(t, a.Key(), b.Key())
	assert.True(t, a.Equals(b))
}

func TestStateSetKeyDistinguishesMembership(t *testing.T) {
	// Without length prefixes {"1","23"} and {"12","3"} would collide.
	a := NewStateSet("1", "23")
	b := NewStateSet("12", "3")
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, "", NewStateSet().Key())
}

func TestStateSetOperations(t *testing.T) {
	a := NewStateSet("1", "2")
	b := NewStateSet("2", "3")

	assert.Equal(t, []StateID{"1", "2", "3"}, a.Union(b).Sorted())
	assert.Equal(t, []StateID{"2"}, a.Intersect(b).Sorted())
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(NewStateSet("9")))
	assert.True(t, NewStateSet("1").SubsetOf(a))
	assert.False(t, b.SubsetOf(a))

	c := a.Copy()
	c.Add("7")
	assert.False(t, a.Has("7"), "copy must not alias")
}

func TestSortStateIDsNumericFirst(t *testing.T) {
	ids := []StateID{"10", "b", "2", "a", "1"}
	SortStateIDs(ids)
	assert.Equal(t, []StateID{"1", "2", "10", "a", "b"}, ids)
	assert.Equal(t, "{1,2,10}", NewStateSet("10", "2", "1").String())
}

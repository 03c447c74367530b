package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathCompare(t *testing.T) {
	a := NewPath("entries", "co2")
	b := NewPath("entries", "co2", "x")
	c := NewPath("result")

	assert.Equal(t, 0, a.Compare(NewPath("entries", "co2")))
	assert.Equal(t, -1, a.Compare(b), "a strict prefix sorts first")
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, -1, a.Compare(c))

	paths := []Path{c, b, a}
	SortPaths(paths)
	assert.Equal(t, []Path{a, b, c}, paths)
}

func TestPathKeyIsStructural(t *testing.T) {
	dotted := NewPath("a.b")
	split := NewPath("a", "b")

	assert.NotEqual(t, dotted.Key(), split.Key())
	assert.Equal(t, dotted.String(), split.String(), "renderings collide, keys must not")

	assert.Equal(t, split, split.Key().Path())
	assert.Equal(t, dotted, dotted.Key().Path())
	assert.Equal(t, NewPath("", "x:y", "12"), NewPath("", "x:y", "12").Key().Path())
}

func TestPathHelpers(t *testing.T) {
	p := ParsePath("result.h30.energy")
	assert.Equal(t, NewPath("result", "h30", "energy"), p)
	assert.Equal(t, "energy", p.Last())
	assert.Nil(t, ParsePath(""))

	child := p.Child("x")
	assert.Len(t, p, 3, "Child must not modify its receiver")
	assert.Equal(t, "result.h30.energy.x", child.String())
	assert.True(t, p.Equal(NewPath("result", "h30", "energy")))
	assert.False(t, p.Equal(child))
}

func TestRunIDs(t *testing.T) {
	ids := []RunID{3, 1, 2}
	SortRunIDs(ids)
	assert.Equal(t, []RunID{1, 2, 3}, ids)
	assert.Equal(t, "3", RunID(3).String())
}

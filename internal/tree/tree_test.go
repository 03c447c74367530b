package tree

import (
	"encoding/json"
	"testing"

	"github.com/climatevision/explorer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Tree[int] {
	return Tree[int]{
		"a": Leaf(1),
		"b": Branch(Tree[int]{
			"c": Leaf(2),
			"d": Branch(Tree[int]{"e": Leaf(3)}),
		}),
	}
}

func TestGet(t *testing.T) {
	tr := sample()

	v, ok := Get(tr, types.NewPath("a"))
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = Get(tr, types.NewPath("b", "d", "e"))
	require.True(t, ok)
	assert.Equal(t, 3, v)

	// a branch is never returned as a leaf
	_, ok = Get(tr, types.NewPath("b", "d"))
	assert.False(t, ok)

	// walking through a leaf fails
	_, ok = Get(tr, types.NewPath("a", "x"))
	assert.False(t, ok)

	_, ok = Get(tr, types.NewPath("missing"))
	assert.False(t, ok)

	_, ok = Get(tr, nil)
	assert.False(t, ok)
}

func TestFindReturnsBranches(t *testing.T) {
	node, ok := Find(sample(), types.NewPath("b", "d"))
	require.True(t, ok)
	assert.True(t, node.IsBranch())
	sub, _ := node.Branch()
	assert.Equal(t, []string{"e"}, sub.Keys())
}

func TestMergeIsRightBiasedAndShallow(t *testing.T) {
	a := Tree[int]{
		"x": Leaf(1),
		"s": Branch(Tree[int]{"keep": Leaf(10)}),
	}
	b := Tree[int]{
		"y": Leaf(2),
		"s": Branch(Tree[int]{"other": Leaf(20)}),
	}

	m := Merge(a, b)
	assert.Equal(t, []string{"s", "x", "y"}, m.Keys())

	_, ok := Get(m, types.NewPath("s", "keep"))
	assert.False(t, ok, "colliding subtrees are replaced, not merged")
	v, ok := Get(m, types.NewPath("s", "other"))
	require.True(t, ok)
	assert.Equal(t, 20, v)

	// inputs untouched
	assert.Len(t, a, 2)
	assert.Len(t, b, 2)
}

func TestWrap(t *testing.T) {
	w := Wrap("entries", Tree[int]{"co2": Leaf(5)})
	v, ok := Get(w, types.NewPath("entries", "co2"))
	require.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestExpandIsDeterministic(t *testing.T) {
	got := Expand(sample())
	want := []types.Path{
		types.NewPath("a"),
		types.NewPath("b", "c"),
		types.NewPath("b", "d", "e"),
	}
	assert.Equal(t, want, got)
	assert.Equal(t, got, Expand(sample()))
	assert.Equal(t, 3, Len(sample()))
}

func TestInsertCopiesAlongPath(t *testing.T) {
	orig := sample()
	updated := Insert(orig, types.NewPath("b", "d", "f"), 4)

	v, ok := Get(updated, types.NewPath("b", "d", "f"))
	require.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = Get(orig, types.NewPath("b", "d", "f"))
	assert.False(t, ok, "original must not change")

	// a leaf in the way is replaced by a branch
	replaced := Insert(orig, types.NewPath("a", "z"), 9)
	v, ok = Get(replaced, types.NewPath("a", "z"))
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestMapPreservesShape(t *testing.T) {
	doubled := Map(sample(), func(_ types.Path, v int) int { return v * 2 })
	assert.Equal(t, Expand(sample()), Expand(doubled))
	v, _ := Get(doubled, types.NewPath("b", "d", "e"))
	assert.Equal(t, 6, v)
}

func TestDecodeAndMarshal(t *testing.T) {
	tr, err := Decode[types.Value]([]byte(`{"a": 1, "b": {"c": "x", "d": null}}`),
		func(raw json.RawMessage, object map[string]json.RawMessage) (types.Value, bool, error) {
			if object != nil {
				return types.Value{}, false, nil
			}
			v, err := types.ParseScalar(raw)
			return v, true, err
		})
	require.NoError(t, err)
	assert.Equal(t, 3, Len(tr))
	v, ok := Get(tr, types.NewPath("b", "c"))
	require.True(t, ok)
	assert.Equal(t, types.Text("x"), v)

	out, err := tr.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1, "b": {"c": "x", "d": null}}`, string(out))
}

func TestDecodeReportsPath(t *testing.T) {
	_, err := Decode[types.Value]([]byte(`{"a": {"b": [1, 2]}}`),
		func(raw json.RawMessage, object map[string]json.RawMessage) (types.Value, bool, error) {
			if object != nil {
				return types.Value{}, false, nil
			}
			v, err := types.ParseScalar(raw)
			return v, true, err
		})
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, types.NewPath("a", "b"), de.Path)
}

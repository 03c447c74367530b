package glob

import (
	"testing"

	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"a*c", "aXYZc", true},
		{"a*c", "ac", true},
		{"a*c", "acd", false},
		{"a?c", "abc", true},
		{"a?c", "abbc", false},
		{"a?c", "ac", false},
		{"ABC", "abc", true},
		{"abc", "abd", false},
		{"*", "", true},
		{"*", "anything", true},
		{"co2*", "CO2e_total", true},
		{"*total", "co2e_total", true},
		{"*_*_*", "a_b_c", true},
		{"*_*_*", "a_b", false},
		{"[ab]", "a", false},
		{"[ab]", "[AB]", true},
		{"a.c", "abc", false},
		{"ä*", "Äpfel", true},
	}

	for _, tc := range tests {
		t.Run(tc.pattern+"/"+tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.pattern, tc.text))
		})
	}
}

func runTree() tree.Tree[int] {
	return tree.Tree[int]{
		"entries": tree.Branch(tree.Tree[int]{
			"m_population": tree.Leaf(1),
			"co2_total":    tree.Leaf(2),
		}),
		"result": tree.Branch(tree.Tree[int]{
			"h30": tree.Branch(tree.Tree[int]{
				"co2_total": tree.Leaf(3),
				"energy":    tree.Leaf(4),
			}),
			"empty": tree.Branch(tree.Tree[int]{}),
		}),
	}
}

func TestFilterWord(t *testing.T) {
	got := FilterWord("co2*", runTree())
	assert.Equal(t, []types.Path{
		types.NewPath("entries", "co2_total"),
		types.NewPath("result", "h30", "co2_total"),
	}, tree.Expand(got))

	// a matching branch is kept whole
	got = FilterWord("H30", runTree())
	assert.Equal(t, []types.Path{
		types.NewPath("result", "h30", "co2_total"),
		types.NewPath("result", "h30", "energy"),
	}, tree.Expand(got))

	// nothing matches: no empty branches survive
	got = FilterWord("nothing", runTree())
	assert.True(t, got.IsEmpty())
}

func TestFilterIsConjunctive(t *testing.T) {
	// the second word re-filters the already narrowed tree
	got := Filter("co2*  h30", runTree())
	assert.Equal(t, []types.Path{
		types.NewPath("result", "h30", "co2_total"),
	}, tree.Expand(got))

	got = Filter("h30 co2*", runTree())
	assert.Equal(t, []types.Path{
		types.NewPath("result", "h30", "co2_total"),
	}, tree.Expand(got))
}

func TestFilterEmptyQueryReturnsInput(t *testing.T) {
	in := runTree()
	out := Filter("   \t ", in)
	assert.Equal(t, tree.Expand(in), tree.Expand(out))
	// the empty branch is still there
	_, ok := tree.Find(out, types.NewPath("result", "empty"))
	assert.True(t, ok)
}

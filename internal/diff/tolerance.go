package diff

import (
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

// Tolerance returns an equality on tree leaves that compares values with
// the given relative tolerance (a fraction, e.g. 0.01 for 1%). Traces are ignored.
func Tolerance(fraction float64) func(a, b types.ValueWithTrace) bool {
	return func(a, b types.ValueWithTrace) bool {
		return types.IsEqual(fraction, a.Value, b.Value)
	}
}

// FromPercent converts a user-facing percentage into a tolerance fraction.
func FromPercent(percent float64) float64 {
	return percent / 100
}

// Runs diffs the effective trees of two runs.
func Runs(fraction float64, left, right run.Run, handling run.OverrideHandling) tree.Tree[Entry[types.ValueWithTrace]] {
	return Diff(Tolerance(fraction), left.GetTree(handling), right.GetTree(handling))
}

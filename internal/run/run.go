// Package run models one stored result of the calculation service and the
// collection of all stored runs.
package run

import (
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

// Inputs are the parameters a run was calculated for.
type Inputs struct {
	// AGS is the official municipality key.
	AGS string `json:"ags"`
	// Year is the target year.
	Year int `json:"year"`
}

// OverrideHandling selects whether overrides replace entries in GetTree.
type OverrideHandling uint8

const (
	WithOverrides OverrideHandling = iota
	WithoutOverrides
)

// Run is immutable; editing means building a new Run and replacing it in
// the Collection under the same RunID.
type Run struct {
	Inputs    Inputs
	Entries   map[string]types.ValueWithTrace
	Overrides map[string]float64
	Result    tree.Tree[types.ValueWithTrace]
}

// New builds a run without overrides.
func New(inputs Inputs, entries map[string]types.ValueWithTrace, result tree.Tree[types.ValueWithTrace]) Run {
	return Run{
		Inputs:    inputs,
		Entries:   entries,
		Overrides: map[string]float64{},
		Result:    result,
	}
}

// EntriesTree returns the entries as a flat tree, with overrides applied
// when requested. Overrides for keys that are not entries are ignored.
func (r Run) EntriesTree(handling OverrideHandling) tree.Tree[types.ValueWithTrace] {
	out := make(tree.Tree[types.ValueWithTrace], len(r.Entries))
	for k, v := range r.Entries {
		out[k] = tree.Leaf(v)
	}
	if handling == WithOverrides {
		for k, o := range r.Overrides {
			if _, ok := r.Entries[k]; ok {
				out[k] = tree.Leaf(types.Plain(types.Number(o)))
			}
		}
	}
	return out
}

// GetTree returns the run's effective tree: {"entries": ..., "result": ...}.
func (r Run) GetTree(handling OverrideHandling) tree.Tree[types.ValueWithTrace] {
	return tree.Merge(
		tree.Wrap("entries", r.EntriesTree(handling)),
		tree.Wrap("result", r.Result),
	)
}

// WithOverride returns a copy of r with key overridden.
func (r Run) WithOverride(key string, value float64) Run {
	overrides := make(map[string]float64, len(r.Overrides)+1)
	for k, v := range r.Overrides {
		overrides[k] = v
	}
	overrides[key] = value
	r.Overrides = overrides
	return r
}

// WithoutOverride returns a copy of r with the override for key removed.
func (r Run) WithoutOverride(key string) Run {
	if _, ok := r.Overrides[key]; !ok {
		return r
	}
	overrides := make(map[string]float64, len(r.Overrides))
	for k, v := range r.Overrides {
		if k != key {
			overrides[k] = v
		}
	}
	r.Overrides = overrides
	return r
}

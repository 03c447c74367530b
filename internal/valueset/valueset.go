// Package valueset resolves a lens against the run collection into the
// table of concrete values it shows.
package valueset

import (
	"github.com/climatevision/explorer/internal/cells"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

// StructureMarker is shown where a path ends at a branch instead of a value.
const StructureMarker = "TREE"

// Address is one (run, path) cell of a ValueSet.
type Address struct {
	Run  types.RunID
	Path types.PathKey
}

// ValueSet is the materialized view of a lens. It is never updated in
// place; create a new one when the lens or the runs change.
type ValueSet struct {
	runs  []types.RunID
	paths []types.Path
	cells map[Address]types.ValueWithTrace
}

// Create resolves l against runs. A classic lens addresses every known run
// for each of its paths; a table lens addresses exactly its value cells.
func Create(l lens.Lens, runs run.Collection) ValueSet {
	var addresses []addressed
	if l.IsClassic() {
		ids := runs.IDs()
		for _, p := range l.Paths() {
			for _, id := range ids {
				addresses = append(addresses, addressed{run: id, path: p})
			}
		}
	} else {
		l.Grid().Each(func(_ cells.Position, c lens.CellContent) {
			if id, p, ok := c.Address(); ok {
				addresses = append(addresses, addressed{run: id, path: p})
			}
		})
	}

	vs := ValueSet{cells: make(map[Address]types.ValueWithTrace, len(addresses))}
	seenRuns := make(map[types.RunID]bool)
	seenPaths := make(map[types.PathKey]bool)
	for _, a := range addresses {
		key := Address{Run: a.run, Path: a.path.Key()}
		if _, done := vs.cells[key]; done {
			continue
		}
		vs.cells[key] = resolve(runs, a.run, a.path)
		if !seenRuns[a.run] {
			seenRuns[a.run] = true
			vs.runs = append(vs.runs, a.run)
		}
		if !seenPaths[key.Path] {
			seenPaths[key.Path] = true
			vs.paths = append(vs.paths, a.path)
		}
	}
	types.SortRunIDs(vs.runs)
	types.SortPaths(vs.paths)
	return vs
}

type addressed struct {
	run  types.RunID
	path types.Path
}

func resolve(runs run.Collection, id types.RunID, path types.Path) types.ValueWithTrace {
	r, ok := runs.Get(id)
	if !ok {
		return types.Plain(types.Text(""))
	}
	node, ok := tree.Find(r.GetTree(run.WithOverrides), path)
	if !ok {
		return types.Plain(types.Text(""))
	}
	if node.IsBranch() {
		return types.Plain(types.Text(StructureMarker))
	}
	v, _ := node.Leaf()
	return v
}

// Runs returns the addressed runs in ascending order.
func (vs ValueSet) Runs() []types.RunID {
	out := make([]types.RunID, len(vs.runs))
	copy(out, vs.runs)
	return out
}

// Paths returns the addressed paths in sorted order.
func (vs ValueSet) Paths() []types.Path {
	out := make([]types.Path, len(vs.paths))
	copy(out, vs.paths)
	return out
}

// Len returns the number of resolved cells.
func (vs ValueSet) Len() int { return len(vs.cells) }

// Get returns the resolved value and trace, if (run, path) was addressed.
func (vs ValueSet) Get(id types.RunID, path types.Path) (types.ValueWithTrace, bool) {
	v, ok := vs.cells[Address{Run: id, Path: path.Key()}]
	return v, ok
}

// Value returns the resolved value, or Text("") if (run, path) was not
// addressed.
func (vs ValueSet) Value(id types.RunID, path types.Path) types.Value {
	v, ok := vs.Get(id, path)
	if !ok {
		return types.Text("")
	}
	return v.Value
}

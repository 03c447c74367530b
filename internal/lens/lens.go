// Package lens models saved views over the run collection. A classic lens
// is a set of paths shown for every run; a table lens is a free-form grid of
// labels and value references.
//
// Lenses are immutable. The short path labels of a classic lens are derived
// from its paths and are recomputed by every operation that changes them.
package lens

import (
	"github.com/climatevision/explorer/internal/cells"
	"github.com/climatevision/explorer/pkg/types"
)

// Kind discriminates classic and table lenses.
type Kind uint8

const (
	KindClassic Kind = iota
	KindTable
)

// String returns the name used in persisted documents.
func (k Kind) String() string {
	if k == KindClassic {
		return "classic"
	}
	return "table"
}

// Grid is the cell grid of a table lens.
type Grid = cells.Cells[CellContent]

// Lens is a user-named view. Only the fields of its kind are meaningful.
type Lens struct {
	label string
	kind  Kind

	paths       []types.Path
	shortLabels map[types.PathKey]string
	showGraph   bool

	grid     Grid
	editMode *EditMode
}

// NewClassic returns a classic lens. Duplicate paths are collapsed.
func NewClassic(label string, paths []types.Path, showGraph bool) Lens {
	l := Lens{label: label, kind: KindClassic, showGraph: showGraph}
	return l.withPaths(normalizePaths(paths))
}

// NewTable returns a table lens over grid.
func NewTable(label string, grid Grid) Lens {
	return Lens{label: label, kind: KindTable, grid: grid}
}

// EmptyTable returns a table lens with a single empty cell.
func EmptyTable(label string) Lens {
	return NewTable(label, cells.New(emptyCell(), 1, 1))
}

// NewGrid returns a rows x cols grid of empty labels.
func NewGrid(rows, cols int) Grid {
	return cells.New(emptyCell(), rows, cols)
}

// GridFromRows builds a grid from rows of cells, padding short rows.
func GridFromRows(rows [][]CellContent) Grid {
	return cells.FromRows(emptyCell(), rows)
}

func (l Lens) Label() string  { return l.label }
func (l Lens) Kind() Kind      { return l.kind }
func (l Lens) IsClassic() bool { return l.kind == KindClassic }
func (l Lens) IsTable() bool   { return l.kind == KindTable }
func (l Lens) ShowGraph() bool { return l.showGraph }

// Paths returns the sorted paths of a classic lens.
func (l Lens) Paths() []types.Path {
	out := make([]types.Path, len(l.paths))
	copy(out, l.paths)
	return out
}

// HasPath reports whether a classic lens contains path.
func (l Lens) HasPath(path types.Path) bool {
	for _, p := range l.paths {
		if p.Equal(path) {
			return true
		}
	}
	return false
}

// ShortLabels returns a copy of the derived label map.
func (l Lens) ShortLabels() map[types.PathKey]string {
	out := make(map[types.PathKey]string, len(l.shortLabels))
	for k, v := range l.shortLabels {
		out[k] = v
	}
	return out
}

// ShortLabel returns the short label of path, or its dotted form if the
// lens does not know it.
func (l Lens) ShortLabel(path types.Path) string {
	if s, ok := l.shortLabels[path.Key()]; ok {
		return s
	}
	return path.String()
}

// Grid returns the grid of a table lens.
func (l Lens) Grid() Grid { return l.grid }

// WithLabel renames the lens.
func (l Lens) WithLabel(label string) Lens {
	l.label = label
	return l
}

// WithShowGraph toggles the graph of a classic lens.
func (l Lens) WithShowGraph(show bool) Lens {
	l.showGraph = show
	return l
}

// Insert adds the value at path in run to the lens. A classic lens adds the
// path (runs are implied); a table lens fills the first empty cell or, when
// there is none, appends a row and places the value in its first column.
func (l Lens) Insert(run types.RunID, path types.Path) Lens {
	if l.kind == KindClassic {
		if l.HasPath(path) {
			return l
		}
		next := append(l.Paths(), types.NewPath(path...))
		types.SortPaths(next)
		return l.withPaths(next)
	}

	content := ValueAt(run, path)
	if pos, ok := l.grid.Find(CellContent.IsEmpty); ok {
		l.grid = l.grid.Set(pos, content)
		return l
	}
	row := l.grid.Rows()
	grid := l.grid.AddRow(row)
	if grid.Cols() == 0 {
		grid = grid.AddColumn(0)
	}
	l.grid = grid.Set(cells.Position{Row: row, Col: 0}, content)
	return l
}

// Remove takes the value at path in run out of the lens. A classic lens
// drops the path; a table lens blanks every cell referencing it and keeps
// its shape.
func (l Lens) Remove(run types.RunID, path types.Path) Lens {
	if l.kind == KindClassic {
		next := make([]types.Path, 0, len(l.paths))
		for _, p := range l.paths {
			if !p.Equal(path) {
				next = append(next, p)
			}
		}
		if len(next) == len(l.paths) {
			return l
		}
		return l.withPaths(next)
	}

	target := ValueAt(run, path)
	l.grid = cells.Map(l.grid, func(c CellContent) CellContent {
		if c.Equal(target) {
			return emptyCell()
		}
		return c
	})
	return l
}

// withPaths is the only place paths change, so the label cache can never
// go stale.
func (l Lens) withPaths(paths []types.Path) Lens {
	l.paths = paths
	l.shortLabels = GuessShortPathLabels(paths)
	return l
}

func normalizePaths(paths []types.Path) []types.Path {
	seen := make(map[types.PathKey]bool, len(paths))
	out := make([]types.Path, 0, len(paths))
	for _, p := range paths {
		k := p.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, types.NewPath(p...))
	}
	types.SortPaths(out)
	return out
}

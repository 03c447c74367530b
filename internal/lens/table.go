package lens

import (
	"github.com/climatevision/explorer/internal/cells"
	"github.com/climatevision/explorer/pkg/types"
)

// EditMode is an in-progress edit of one table cell.
type EditMode struct {
	Cell  cells.Position
	Draft string
}

// EditMode returns the pending edit, if any.
func (l Lens) EditMode() (EditMode, bool) {
	if l.editMode == nil {
		return EditMode{}, false
	}
	return *l.editMode, true
}

// The grid commands below are no-ops on classic lenses. Structural changes
// cancel a pending edit since its position may no longer be valid.

func (l Lens) AddRow(at int) Lens {
	return l.reshape(func(g Grid) Grid { return g.AddRow(at) })
}

func (l Lens) AddColumn(at int) Lens {
	return l.reshape(func(g Grid) Grid { return g.AddColumn(at) })
}

// DeleteRow removes a row. A table is never left without cells.
func (l Lens) DeleteRow(at int) Lens {
	return l.reshape(func(g Grid) Grid {
		return g.DeleteRow(at).IfZeroDimensionReplaceByOneCell()
	})
}

// DeleteColumn removes a column. A table is never left without cells.
func (l Lens) DeleteColumn(at int) Lens {
	return l.reshape(func(g Grid) Grid {
		return g.DeleteColumn(at).IfZeroDimensionReplaceByOneCell()
	})
}

func (l Lens) SetCell(pos cells.Position, content CellContent) Lens {
	if l.kind != KindTable {
		return l
	}
	l.grid = l.grid.Set(pos, content)
	return l
}

func (l Lens) reshape(fn func(Grid) Grid) Lens {
	if l.kind != KindTable {
		return l
	}
	l.grid = fn(l.grid)
	l.editMode = nil
	return l
}

// BeginEdit starts editing the cell at pos. Label cells start with their
// text as draft, value cells with an empty draft.
func (l Lens) BeginEdit(pos cells.Position) Lens {
	if l.kind != KindTable || !l.grid.InBounds(pos) {
		return l
	}
	draft, _ := l.grid.Get(pos).Text()
	l.editMode = &EditMode{Cell: pos, Draft: draft}
	return l
}

func (l Lens) UpdateDraft(draft string) Lens {
	if l.editMode == nil {
		return l
	}
	l.editMode = &EditMode{Cell: l.editMode.Cell, Draft: draft}
	return l
}

// CommitEdit writes the draft into the edited cell as a label.
func (l Lens) CommitEdit() Lens {
	if l.editMode == nil {
		return l
	}
	l.grid = l.grid.Set(l.editMode.Cell, Label(l.editMode.Draft))
	l.editMode = nil
	return l
}

func (l Lens) CancelEdit() Lens {
	l.editMode = nil
	return l
}

// DragKind tells what is being dragged or dropped onto.
type DragKind uint8

const (
	DragCell DragKind = iota
	DragValue
)

// DragID identifies a drag source or drop target: a table cell, or a value
// in the run tree. It is comparable so it can drive the drag state machine.
type DragID struct {
	Kind DragKind
	Cell cells.Position
	Run  types.RunID
	Path types.PathKey
}

// CellID returns the DragID of a table cell.
func CellID(pos cells.Position) DragID {
	return DragID{Kind: DragCell, Cell: pos}
}

// ValueID returns the DragID of a value in a run tree.
func ValueID(run types.RunID, path types.Path) DragID {
	return DragID{Kind: DragValue, Run: run, Path: path.Key()}
}

// ApplyDrop applies a completed drag. On a table lens, a cell dropped on a
// cell swaps the two, which moves it when the target is empty, and a run
// value dropped on a cell is placed there. On a classic lens a dropped run
// value is inserted and anything else is ignored.
func (l Lens) ApplyDrop(drag, drop DragID) Lens {
	if l.kind == KindClassic {
		if drag.Kind == DragValue {
			return l.Insert(drag.Run, drag.Path.Path())
		}
		return l
	}
	if drop.Kind != DragCell || !l.grid.InBounds(drop.Cell) {
		return l
	}
	switch drag.Kind {
	case DragCell:
		l.grid = l.grid.Swap(drag.Cell, drop.Cell)
	case DragValue:
		l.grid = l.grid.Set(drop.Cell, ValueAt(drag.Run, drag.Path.Path()))
	}
	return l
}

// ToTable converts a classic lens into a table lens showing the same
// values: a header row of run ids, then one row per path headed by its
// short label. Table lenses are returned unchanged.
func (l Lens) ToTable(runs []types.RunID) Lens {
	if l.kind == KindTable {
		return l
	}
	rows := make([][]CellContent, 0, len(l.paths)+1)
	header := []CellContent{emptyCell()}
	for _, r := range runs {
		header = append(header, Label(r.String()))
	}
	rows = append(rows, header)
	for _, p := range l.paths {
		row := []CellContent{Label(l.ShortLabel(p))}
		for _, r := range runs {
			row = append(row, ValueAt(r, p))
		}
		rows = append(rows, row)
	}
	return NewTable(l.label, GridFromRows(rows))
}

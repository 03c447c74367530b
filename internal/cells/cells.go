// Package cells provides a dense, row-major 2-D grid with whole-row and
// whole-column insertion and deletion.
//
// A Cells value is never modified in place: every operation that changes
// the grid returns a new one. Reads outside the grid return the grid's empty
// value and writes outside it are ignored.
package cells

// Position addresses one cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cells is a rows x cols grid stored row-major (index = row*cols + col).
type Cells[T any] struct {
	rows  int
	cols  int
	empty T
	data  []T
}

// New returns a rows x cols grid filled with empty.
func New[T any](empty T, rows, cols int) Cells[T] {
	return Initialize(empty, rows, cols, func(Position) T { return empty })
}

// Initialize builds a grid by calling fn for every position in row-major order.
// Negative dimensions are treated as zero.
func Initialize[T any](empty T, rows, cols int, fn func(Position) T) Cells[T] {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	data := make([]T, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data = append(data, fn(Position{Row: r, Col: c}))
		}
	}
	return Cells[T]{rows: rows, cols: cols, empty: empty, data: data}
}

// FromRows builds a grid from a list of rows. The widest row sets the column
// count; shorter rows are padded with empty.
func FromRows[T any](empty T, rows [][]T) Cells[T] {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return Initialize(empty, len(rows), cols, func(p Position) T {
		if p.Col < len(rows[p.Row]) {
			return rows[p.Row][p.Col]
		}
		return empty
	})
}

// Rows returns the number of rows.
func (c Cells[T]) Rows() int { return c.rows }

// Cols returns the number of columns.
func (c Cells[T]) Cols() int { return c.cols }

// EmptyValue returns the value used for new and out-of-range cells.
func (c Cells[T]) EmptyValue() T { return c.empty }

// InBounds reports whether p addresses a cell of c.
func (c Cells[T]) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < c.rows && p.Col >= 0 && p.Col < c.cols
}

// Get returns the cell at p, or the empty value when p is out of range.
func (c Cells[T]) Get(p Position) T {
	if !c.InBounds(p) {
		return c.empty
	}
	return c.data[p.Row*c.cols+p.Col]
}

// Set returns a grid with the cell at p replaced. Out of range, c is
// returned unchanged.
func (c Cells[T]) Set(p Position, v T) Cells[T] {
	if !c.InBounds(p) {
		return c
	}
	data := make([]T, len(c.data))
	copy(data, c.data)
	data[p.Row*c.cols+p.Col] = v
	c.data = data
	return c
}

// AddRow inserts an empty row before row at. Rows below shift down by one.
// at is clamped into [0, Rows()].
func (c Cells[T]) AddRow(at int) Cells[T] {
	at = clamp(at, 0, c.rows)
	return Initialize(c.empty, c.rows+1, c.cols, func(p Position) T {
		switch {
		case p.Row < at:
			return c.Get(p)
		case p.Row == at:
			return c.empty
		default:
			return c.Get(Position{Row: p.Row - 1, Col: p.Col})
		}
	})
}

// AddColumn inserts an empty column before column at. Columns to the right
// shift by one. at is clamped into [0, Cols()].
func (c Cells[T]) AddColumn(at int) Cells[T] {
	at = clamp(at, 0, c.cols)
	return Initialize(c.empty, c.rows, c.cols+1, func(p Position) T {
		switch {
		case p.Col < at:
			return c.Get(p)
		case p.Col == at:
			return c.empty
		default:
			return c.Get(Position{Row: p.Row, Col: p.Col - 1})
		}
	})
}

// DeleteRow removes row at; rows below shift up. Deleting the last row
// yields a 0 x Cols() grid. An out-of-range index returns c unchanged.
func (c Cells[T]) DeleteRow(at int) Cells[T] {
	if at < 0 || at >= c.rows {
		return c
	}
	return Initialize(c.empty, c.rows-1, c.cols, func(p Position) T {
		if p.Row < at {
			return c.Get(p)
		}
		return c.Get(Position{Row: p.Row + 1, Col: p.Col})
	})
}

// DeleteColumn removes column at; columns to the right shift left.
// An out-of-range index returns c unchanged.
func (c Cells[T]) DeleteColumn(at int) Cells[T] {
	if at < 0 || at >= c.cols {
		return c
	}
	return Initialize(c.empty, c.rows, c.cols-1, func(p Position) T {
		if p.Col < at {
			return c.Get(p)
		}
		return c.Get(Position{Row: p.Row, Col: p.Col + 1})
	})
}

// IfZeroDimensionReplaceByOneCell replaces a grid with no rows or no columns
// by a fresh 1 x 1 grid of the empty value.
func (c Cells[T]) IfZeroDimensionReplaceByOneCell() Cells[T] {
	if c.rows == 0 || c.cols == 0 {
		return New(c.empty, 1, 1)
	}
	return c
}

// Map transforms every cell, preserving shape. The empty value is mapped too.
func Map[T, U any](c Cells[T], fn func(T) U) Cells[U] {
	return Initialize(fn(c.empty), c.rows, c.cols, func(p Position) U {
		return fn(c.Get(p))
	})
}

// ToRows returns the grid as a list of rows.
func (c Cells[T]) ToRows() [][]T {
	out := make([][]T, c.rows)
	for r := range out {
		row := make([]T, c.cols)
		copy(row, c.data[r*c.cols:(r+1)*c.cols])
		out[r] = row
	}
	return out
}

// Each calls fn for every cell in row-major order.
func (c Cells[T]) Each(fn func(Position, T)) {
	for i, v := range c.data {
		fn(Position{Row: i / c.cols, Col: i % c.cols}, v)
	}
}

// Find returns the first position, in row-major order, whose cell satisfies pred.
func (c Cells[T]) Find(pred func(T) bool) (Position, bool) {
	for i, v := range c.data {
		if pred(v) {
			return Position{Row: i / c.cols, Col: i % c.cols}, true
		}
	}
	return Position{}, false
}

// Swap exchanges two cells. If either position is out of range, c is
// returned unchanged.
func (c Cells[T]) Swap(a, b Position) Cells[T] {
	if !c.InBounds(a) || !c.InBounds(b) {
		return c
	}
	va, vb := c.Get(a), c.Get(b)
	return c.Set(a, vb).Set(b, va)
}

// Move copies the cell at from to to and leaves the empty value behind.
// If either position is out of range, c is returned unchanged.
func (c Cells[T]) Move(from, to Position) Cells[T] {
	if !c.InBounds(from) || !c.InBounds(to) || from == to {
		return c
	}
	v := c.Get(from)
	return c.Set(from, c.empty).Set(to, v)
}

// Equal reports whether both grids have the same shape and cells.
// The empty values are compared too.
func (c Cells[T]) Equal(other Cells[T], eq func(a, b T) bool) bool {
	if c.rows != other.rows || c.cols != other.cols || !eq(c.empty, other.empty) {
		return false
	}
	for i := range c.data {
		if !eq(c.data[i], other.data[i]) {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

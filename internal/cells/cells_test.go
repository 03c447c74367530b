package cells

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(rows, cols int) Cells[int] {
	return Initialize(-1, rows, cols, func(p Position) int { return p.Row*10 + p.Col })
}

func TestInitializeIsRowMajor(t *testing.T) {
	var order []Position
	c := Initialize("", 2, 3, func(p Position) string {
		order = append(order, p)
		return ""
	})
	assert.Equal(t, 2, c.Rows())
	assert.Equal(t, 3, c.Cols())
	assert.Equal(t, []Position{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, order)

	assert.Equal(t, [][]int{{0, 1, 2}, {10, 11, 12}}, numbered(2, 3).ToRows())
}

func TestGetOutOfBoundsReturnsEmpty(t *testing.T) {
	c := numbered(2, 2)
	assert.Equal(t, -1, c.Get(Position{Row: -1, Col: 0}))
	assert.Equal(t, -1, c.Get(Position{Row: c.Rows(), Col: 0}))
	assert.Equal(t, -1, c.Get(Position{Row: 0, Col: 2}))
	assert.Equal(t, 11, c.Get(Position{Row: 1, Col: 1}))
}

func TestSet(t *testing.T) {
	c := numbered(2, 2)
	updated := c.Set(Position{Row: 1, Col: 0}, 99)
	assert.Equal(t, 99, updated.Get(Position{Row: 1, Col: 0}))
	assert.Equal(t, 10, c.Get(Position{Row: 1, Col: 0}), "the original grid is unchanged")

	same := c.Set(Position{Row: 5, Col: 5}, 99)
	assert.Equal(t, c.ToRows(), same.ToRows())
}

func TestAddRow(t *testing.T) {
	c := numbered(2, 2)
	assert.Equal(t, [][]int{{0, 1}, {-1, -1}, {10, 11}}, c.AddRow(1).ToRows())
	assert.Equal(t, [][]int{{-1, -1}, {0, 1}, {10, 11}}, c.AddRow(0).ToRows())
	assert.Equal(t, [][]int{{0, 1}, {10, 11}, {-1, -1}}, c.AddRow(2).ToRows())
	assert.Equal(t, [][]int{{0, 1}, {10, 11}, {-1, -1}}, c.AddRow(100).ToRows(), "clamped")
}

func TestAddColumn(t *testing.T) {
	c := numbered(2, 2)
	assert.Equal(t, [][]int{{0, -1, 1}, {10, -1, 11}}, c.AddColumn(1).ToRows())
	assert.Equal(t, [][]int{{-1, 0, 1}, {-1, 10, 11}}, c.AddColumn(-3).ToRows(), "clamped")
}

func TestDeleteRowAndColumn(t *testing.T) {
	c := numbered(3, 3)
	assert.Equal(t, [][]int{{0, 1, 2}, {20, 21, 22}}, c.DeleteRow(1).ToRows())
	assert.Equal(t, [][]int{{0, 2}, {10, 12}, {20, 22}}, c.DeleteColumn(1).ToRows())
	assert.Equal(t, c.ToRows(), c.DeleteRow(3).ToRows(), "out of range is a no-op")
	assert.Equal(t, c.ToRows(), c.DeleteColumn(-1).ToRows())
}

func TestDeletingEverythingAndTheOneCellGuard(t *testing.T) {
	c := numbered(1, 2)
	noRows := c.DeleteRow(0)
	assert.Equal(t, 0, noRows.Rows())
	assert.Equal(t, 2, noRows.Cols())

	guarded := noRows.IfZeroDimensionReplaceByOneCell()
	assert.Equal(t, 1, guarded.Rows())
	assert.Equal(t, 1, guarded.Cols())
	assert.Equal(t, -1, guarded.Get(Position{}))

	noCols := c.DeleteColumn(0).DeleteColumn(0)
	assert.Equal(t, 1, noCols.Rows())
	assert.Equal(t, 0, noCols.Cols())
	assert.Equal(t, [][]int{{}}, noCols.ToRows())

	assert.Equal(t, c.ToRows(), c.IfZeroDimensionReplaceByOneCell().ToRows())
}

func TestMap(t *testing.T) {
	c := numbered(2, 2)
	doubled := Map(c, func(v int) int { return v * 2 })
	assert.Equal(t, [][]int{{0, 2}, {20, 22}}, doubled.ToRows())
	assert.Equal(t, -2, doubled.EmptyValue())
}

func TestFromRowsPadsRaggedRows(t *testing.T) {
	c := FromRows("", [][]string{{"a"}, {"b", "c", "d"}})
	assert.Equal(t, [][]string{{"a", "", ""}, {"b", "c", "d"}}, c.ToRows())
}

func TestFindEachSwapMove(t *testing.T) {
	c := numbered(2, 2)

	p, ok := c.Find(func(v int) bool { return v > 5 })
	require.True(t, ok)
	assert.Equal(t, Position{Row: 1, Col: 0}, p)

	_, ok = c.Find(func(v int) bool { return v > 50 })
	assert.False(t, ok)

	sum := 0
	c.Each(func(_ Position, v int) { sum += v })
	assert.Equal(t, 22, sum)

	swapped := c.Swap(Position{0, 0}, Position{1, 1})
	assert.Equal(t, [][]int{{11, 1}, {10, 0}}, swapped.ToRows())

	moved := c.Move(Position{0, 1}, Position{1, 0})
	assert.Equal(t, [][]int{{0, -1}, {1, 11}}, moved.ToRows())

	assert.Equal(t, c.ToRows(), c.Swap(Position{0, 0}, Position{9, 9}).ToRows())
}

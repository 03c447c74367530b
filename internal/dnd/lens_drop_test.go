package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatevision/explorer/internal/cells"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/pkg/types"
)

func TestDropMovesTableCell(t *testing.T) {
	l := lens.NewTable("t", lens.GridFromRows([][]lens.CellContent{
		{lens.Label("co2"), lens.Label("")},
	}))
	from := lens.CellID(cells.Position{Row: 0, Col: 0})
	to := lens.CellID(cells.Position{Row: 0, Col: 1})

	var m Machine[lens.DragID]
	m.Handle(Event[lens.DragID]{Kind: DragStart, Target: from})
	m.Handle(Event[lens.DragID]{Kind: DragEnter, Target: to})
	done, ok := m.Handle(Event[lens.DragID]{Kind: Drop, Target: to})
	require.True(t, ok)

	l = l.ApplyDrop(done.Drag, done.Drop)
	assert.Equal(t, [][]lens.CellContent{{lens.Label(""), lens.Label("co2")}}, l.Grid().ToRows())
}

func TestDropRunValueOnClassicLens(t *testing.T) {
	path := types.NewPath("entries", "co2")
	var m Machine[lens.DragID]
	m.Handle(Event[lens.DragID]{Kind: DragStart, Target: lens.ValueID(1, path)})
	m.Handle(Event[lens.DragID]{Kind: DragOver, Target: lens.CellID(cells.Position{})})
	done, ok := m.Handle(Event[lens.DragID]{Kind: Drop})
	require.True(t, ok)

	l := lens.NewClassic("c", nil, false).ApplyDrop(done.Drag, done.Drop)
	assert.Equal(t, []types.Path{path}, l.Paths())
}

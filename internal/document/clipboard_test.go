package document

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/internal/valueset"
	"github.com/climatevision/explorer/pkg/types"
)

type vt = types.ValueWithTrace

func germanFormatter(t *testing.T) *Formatter {
	t.Helper()
	f, err := NewFormatter("de", 3)
	require.NoError(t, err)
	return f
}

func TestFormatterNumbers(t *testing.T) {
	f := germanFormatter(t)
	assert.Equal(t, "1.234,568", f.Number(1234.5678))
	assert.Equal(t, "5", f.Number(5))
	assert.Equal(t, "0,5", f.Number(0.5))
	assert.Equal(t, "-2,25", f.Number(-2.25))
	assert.Equal(t, "NaN", f.Number(math.NaN()))

	en, err := NewFormatter("en", 1)
	require.NoError(t, err)
	assert.Equal(t, "1,234.6", en.Number(1234.56))

	_, err = NewFormatter("??", 3)
	assert.Error(t, err)
}

func TestFormatterValues(t *testing.T) {
	f := germanFormatter(t)
	assert.Equal(t, "", f.Value(types.Null()))
	assert.Equal(t, "1.000,5", f.Value(types.Number(1000.5)))
	assert.Equal(t, "Gemeinde", f.Value(types.Text("Gemeinde")))
}

func runs() run.Collection {
	r1 := run.New(run.Inputs{AGS: "03159016", Year: 2035},
		map[string]vt{"co2": types.Plain(types.Number(1500.25))},
		tree.Tree[vt]{"note": tree.Leaf(types.Plain(types.Null()))})
	r2 := run.New(run.Inputs{AGS: "03159016", Year: 2040},
		map[string]vt{"co2": types.Plain(types.Number(5))},
		tree.Tree[vt]{})
	c, _ := run.NewCollection().Add(r1)
	c, _ = c.Add(r2)
	return c
}

func TestExportTable(t *testing.T) {
	co2 := types.NewPath("entries", "co2")
	l := lens.NewTable("t", lens.GridFromRows([][]lens.CellContent{
		{lens.Label("CO2"), lens.ValueAt(1, co2), lens.ValueAt(2, co2)},
		{lens.Label("Note"), lens.ValueAt(1, types.NewPath("result", "note")), lens.ValueAt(7, co2)},
	}))
	vs := valueset.Create(l, runs())

	rows := Export(l, vs, germanFormatter(t))
	assert.Equal(t, [][]string{
		{"CO2", "1.500,25", "5"},
		{"Note", "", ""},
	}, rows)

	data, err := ClipboardJSON(rows)
	require.NoError(t, err)
	assert.JSONEq(t, `[["CO2","1.500,25","5"],["Note","",""]]`, string(data))
}

func TestExportClassic(t *testing.T) {
	co2 := types.NewPath("entries", "co2")
	note := types.NewPath("result", "note")
	l := lens.NewClassic("c", []types.Path{co2, note}, false)
	vs := valueset.Create(l, runs())

	rows := Export(l, vs, germanFormatter(t))
	assert.Equal(t, [][]string{
		{"", "1", "2"},
		{"entries.co2", "1.500,25", "5"},
		{"result.note", "", ""},
	}, rows)
}

func TestClipboardJSONOfNothing(t *testing.T) {
	data, err := ClipboardJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

package valueset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

type vt = types.ValueWithTrace

func num(f float64) vt { return types.Plain(types.Number(f)) }

func collection() run.Collection {
	result := tree.Tree[vt]{
		"h30": tree.Branch(tree.Tree[vt]{
			"co2_total": tree.Leaf(num(42)),
		}),
	}
	r1 := run.New(run.Inputs{AGS: "03159016", Year: 2035},
		map[string]vt{"co2": num(5.0)}, result)
	r2 := run.New(run.Inputs{AGS: "03159016", Year: 2040},
		map[string]vt{"co2": num(5.02)}, tree.Tree[vt]{}).WithOverride("co2", 7)

	c := run.NewCollection()
	c, _ = c.Add(r1)
	c, _ = c.Add(r2)
	return c
}

var (
	co2   = types.NewPath("entries", "co2")
	total = types.NewPath("result", "h30", "co2_total")
	h30   = types.NewPath("result", "h30")
	deep  = types.NewPath("entries", "co2", "deeper")
	none  = types.NewPath("result", "missing")
)

func TestClassicLensCoversEveryRun(t *testing.T) {
	l := lens.NewClassic("c", []types.Path{total, co2}, false)
	vs := Create(l, collection())

	assert.Equal(t, []types.RunID{1, 2}, vs.Runs())
	assert.Equal(t, []types.Path{co2, total}, vs.Paths())
	assert.Equal(t, 4, vs.Len())

	assert.Equal(t, types.Number(5), vs.Value(1, co2))
	assert.Equal(t, types.Number(7), vs.Value(2, co2), "overrides apply")
	assert.Equal(t, types.Number(42), vs.Value(1, total))
	assert.Equal(t, types.Text(""), vs.Value(2, total))
}

func TestResolutionMisses(t *testing.T) {
	grid := lens.GridFromRows([][]lens.CellContent{
		{lens.Label("x"), lens.ValueAt(1, h30), lens.ValueAt(1, deep)},
		{lens.ValueAt(9, co2), lens.ValueAt(1, none), lens.Label("")},
	})
	vs := Create(lens.NewTable("t", grid), collection())

	assert.Equal(t, []types.RunID{1, 9}, vs.Runs())
	assert.Equal(t, 4, vs.Len(), "label cells have no address")

	assert.Equal(t, types.Text(StructureMarker), vs.Value(1, h30))
	assert.Equal(t, types.Text(""), vs.Value(1, deep))
	assert.Equal(t, types.Text(""), vs.Value(9, co2), "unknown run")
	assert.Equal(t, types.Text(""), vs.Value(1, none))

	_, ok := vs.Get(2, co2)
	assert.False(t, ok, "not addressed by the table")
}

func TestGetKeepsTraces(t *testing.T) {
	traced := types.ValueWithTrace{
		Value: types.Number(3),
		Trace: types.BinaryTrace("+", types.LiteralTrace(1), types.LiteralTrace(2)),
	}
	r := run.New(run.Inputs{}, map[string]vt{"x": traced}, tree.Tree[vt]{})
	c, id := run.NewCollection().Add(r)

	vs := Create(lens.EmptyTable("t").Insert(id, types.NewPath("entries", "x")), c)
	got, ok := vs.Get(id, types.NewPath("entries", "x"))
	require.True(t, ok)
	require.NotNil(t, got.Trace)
	assert.Equal(t, "(1 + 2)", got.Trace.String())
}

func TestCacheHitsAndInvalidation(t *testing.T) {
	runs := collection()
	l := lens.NewClassic("c", []types.Path{co2}, false)
	cache := NewCache(2)

	first := cache.Create(l, runs)
	second := cache.Create(l, runs)
	assert.Equal(t, first.Value(2, co2), second.Value(2, co2))
	hits, misses, _ := cache.Metrics()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 50.0, cache.HitRate())

	r2, _ := runs.Get(2)
	changed, ok := runs.Replace(2, r2.WithoutOverride("co2"))
	require.True(t, ok)
	third := cache.Create(l, changed)
	assert.Equal(t, types.Number(5.02), third.Value(2, co2), "a changed run misses the cache")

	cache.Create(l.Insert(1, total), runs)
	_, _, evictions := cache.Metrics()
	assert.Equal(t, int64(1), evictions)
	assert.Equal(t, 2, cache.Len())
}

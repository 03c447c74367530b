package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/climatevision/explorer/internal/errors"
	"github.com/climatevision/explorer/internal/run"
	"github.com/climatevision/explorer/internal/tree"
	"github.com/climatevision/explorer/pkg/types"
)

type vt = types.ValueWithTrace

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(co2 float64) run.Run {
	entries := map[string]vt{
		"co2": {
			Value: types.Number(co2),
			Trace: types.BinaryTrace("*", types.NameTrace("population", types.Number(10)), types.LiteralTrace(co2/10)),
		},
		"label": types.Plain(types.Text("Gemeinde")),
	}
	result := tree.Tree[vt]{
		"h30": tree.Branch(tree.Tree[vt]{
			"co2_total": tree.Leaf(types.Plain(types.Number(co2 * 2))),
			"note":      tree.Leaf(types.Plain(types.Null())),
		}),
	}
	return run.New(run.Inputs{AGS: "03159016", Year: 2035}, entries, result)
}

func TestAddGetRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	original := sampleRun(5).WithOverride("co2", 6)
	id, err := s.Add(ctx, original)
	require.NoError(t, err)
	assert.Equal(t, types.FirstRunID, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, run.FingerprintOf(original), run.FingerprintOf(got))
	assert.Equal(t, original.Inputs, got.Inputs)
	assert.Equal(t, 6.0, got.Overrides["co2"])
	require.NotNil(t, got.Entries["co2"].Trace)
	assert.Equal(t, "(population * 0.5)", got.Entries["co2"].Trace.String())
}

func TestGetMissingRun(t *testing.T) {
	s := newStore(t)
	_, err := s.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRunNotFound, apperrors.GetCode(err))
}

func TestReplaceAndRemove(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, sampleRun(5))
	require.NoError(t, err)

	require.NoError(t, s.Replace(ctx, id, sampleRun(7)))
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.Number(7), got.Entries["co2"].Value)

	require.NoError(t, s.Remove(ctx, id))
	assert.Equal(t, apperrors.CodeRunNotFound, apperrors.GetCode(s.Remove(ctx, id)))
	assert.Equal(t, apperrors.CodeRunNotFound, apperrors.GetCode(s.Replace(ctx, id, sampleRun(1))))
}

func TestIDsAreNeverReused(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first, err := s.Add(ctx, sampleRun(1))
	require.NoError(t, err)
	second, err := s.Add(ctx, sampleRun(2))
	require.NoError(t, err)
	require.NoError(t, s.Remove(ctx, second))

	third, err := s.Add(ctx, sampleRun(3))
	require.NoError(t, err)
	assert.Equal(t, first+2, third)

	require.NoError(t, s.Remove(ctx, third))
	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.RunID{first}, c.IDs())
	assert.Equal(t, third+1, c.NextID(), "the collection continues after deleted ids")
}

func TestLoadEmpty(t *testing.T) {
	c, err := newStore(t).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, types.FirstRunID, c.NextID())
}

func TestListAndFindByFingerprint(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	r := sampleRun(5)
	id, err := s.Add(ctx, r)
	require.NoError(t, err)
	_, err = s.Add(ctx, sampleRun(9))
	require.NoError(t, err)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "03159016", records[0].Inputs.AGS)
	assert.Equal(t, run.FingerprintOf(r), records[0].Fingerprint)
	assert.Greater(t, records[0].SizeBytes, int64(0))

	found, ok, err := s.FindByFingerprint(ctx, run.FingerprintOf(r))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, found)

	_, ok, err = s.FindByFingerprint(ctx, run.Fingerprint{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorruptionIsDetected(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, sampleRun(5))
	require.NoError(t, err)
	other, err := s.Add(ctx, sampleRun(6))
	require.NoError(t, err)

	// Swap in another run's payload so the stored fingerprint no longer matches.
	_, err = s.db.Exec(`UPDATE runs SET payload = (SELECT payload FROM runs WHERE run_id = ?) WHERE run_id = ?`,
		int64(other), int64(id))
	require.NoError(t, err)

	_, err = s.Get(ctx, id)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCorruptionDetected, apperrors.GetCode(err))

	_, err = s.db.Exec(`UPDATE runs SET payload = ? WHERE run_id = ?`, []byte("not snappy"), int64(other))
	require.NoError(t, err)
	_, err = s.Load(ctx)
	assert.Equal(t, apperrors.CodeCorruptionDetected, apperrors.GetCode(err))
}

func TestNonFiniteRunsAreRejected(t *testing.T) {
	s := newStore(t)
	r := run.New(run.Inputs{}, map[string]vt{"x": types.Plain(types.Number(math.NaN()))}, tree.Tree[vt]{})
	_, err := s.Add(context.Background(), r)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeWriteFailed, apperrors.GetCode(err))
}

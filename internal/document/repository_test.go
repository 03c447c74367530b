package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/climatevision/explorer/internal/errors"
	"github.com/climatevision/explorer/internal/lens"
	"github.com/climatevision/explorer/internal/storage"
	"github.com/climatevision/explorer/pkg/types"
)

func newRepository(t *testing.T) (*Repository, *storage.LocalStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewRepository(local), local
}

func sampleDoc(label string) Document {
	return Document{Lenses: []lens.Lens{
		lens.NewClassic(label, []types.Path{types.NewPath("entries", "co2")}, true),
	}}
}

func TestRepositoryCreateLoad(t *testing.T) {
	repo, local := newRepository(t)
	ctx := context.Background()

	id, etag, err := repo.Create(ctx, sampleDoc("first"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.NotEmpty(t, etag)

	exists, err := local.Exists(ctx, "documents/"+id.String()+".json")
	require.NoError(t, err)
	assert.True(t, exists)

	doc, err := repo.Load(ctx, id)
	require.NoError(t, err)
	_, ok := doc.Find("first")
	assert.True(t, ok)
}

func TestRepositoryUpdateDetectsConflicts(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	id, etag, err := repo.Create(ctx, sampleDoc("v1"))
	require.NoError(t, err)

	next, err := repo.Update(ctx, id, sampleDoc("v2"), etag)
	require.NoError(t, err)

	_, err = repo.Update(ctx, id, sampleDoc("v3"), etag)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.GetCode(err))

	_, err = repo.Update(ctx, id, sampleDoc("v3"), next)
	require.NoError(t, err)

	doc, err := repo.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v3", doc.Lenses[0].Label())
}

func TestRepositoryMissingDocument(t *testing.T) {
	repo, _ := newRepository(t)
	_, err := repo.Load(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeObjectNotFound, apperrors.GetCode(err))
}

func TestRepositoryListAndLoadAll(t *testing.T) {
	repo, local := newRepository(t)
	ctx := context.Background()

	a, _, err := repo.Create(ctx, sampleDoc("a"))
	require.NoError(t, err)
	b, err := uuid.NewRandom()
	require.NoError(t, err)
	_, err = repo.Save(ctx, b, sampleDoc("b"))
	require.NoError(t, err)

	broken := uuid.New()
	_, err = local.Put(ctx, "documents/"+broken.String()+".json", []byte(`{"version": 9}`))
	require.NoError(t, err)
	_, err = local.Put(ctx, "documents/readme.txt", []byte("not a document"))
	require.NoError(t, err)

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b, broken}, ids)

	docs, failures, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "a", docs[a].Lenses[0].Label())
	require.Contains(t, failures, broken)
	assert.Equal(t, apperrors.CodeUnknownVersion, apperrors.GetCode(failures[broken]))

	require.NoError(t, repo.Delete(ctx, a))
	ids, err = repo.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{b, broken}, ids)
}

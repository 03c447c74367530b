package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/climatevision/explorer/internal/errors"
	"github.com/climatevision/explorer/internal/storage"
)

const (
	documentPrefix = "documents"
	documentExt    = ".json"
)

// Repository keeps documents in object storage under documents/<uuid>.json.
type Repository struct {
	objects storage.ObjectStorage
	getter  *storage.BatchGetter
}

// NewRepository returns a repository over s.
func NewRepository(s storage.ObjectStorage) *Repository {
	objects := storage.NewPrefixedStorage(s, documentPrefix)
	return &Repository{
		objects: objects,
		getter:  storage.NewBatchGetter(objects, 4),
	}
}

func objectName(id uuid.UUID) string {
	return id.String() + documentExt
}

// Create stores doc under a new id and returns the id and the ETag of the
// stored object.
func (r *Repository) Create(ctx context.Context, doc Document) (uuid.UUID, string, error) {
	data, err := Encode(doc)
	if err != nil {
		return uuid.Nil, "", err
	}
	id := uuid.New()
	etag, err := r.objects.ConditionalPut(ctx, objectName(id), data, "")
	if err != nil {
		return uuid.Nil, "", storageError(apperrors.CodeUploadFailed, id, err)
	}
	return id, etag, nil
}

// Save overwrites the document stored under id.
func (r *Repository) Save(ctx context.Context, id uuid.UUID, doc Document) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	etag, err := r.objects.Put(ctx, objectName(id), data)
	if err != nil {
		return "", storageError(apperrors.CodeUploadFailed, id, err)
	}
	return etag, nil
}

// Update overwrites the document only if it still has the given ETag, so
// concurrent edits are not lost silently.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, doc Document, etag string) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	next, err := r.objects.ConditionalPut(ctx, objectName(id), data, etag)
	if err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			return "", storageError(apperrors.CodeConflict, id, err)
		}
		return "", storageError(apperrors.CodeUploadFailed, id, err)
	}
	return next, nil
}

// Load reads and decodes the document stored under id.
func (r *Repository) Load(ctx context.Context, id uuid.UUID) (Document, error) {
	data, err := r.objects.Get(ctx, objectName(id))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return Document{}, storageError(apperrors.CodeObjectNotFound, id, err)
		}
		return Document{}, storageError(apperrors.CodeDownloadFailed, id, err)
	}
	return Decode(data)
}

// Delete removes the document stored under id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.objects.Delete(ctx, objectName(id)); err != nil {
		return storageError(apperrors.CodeDeleteFailed, id, err)
	}
	return nil
}

// List returns the ids of all stored documents. Objects that are not named
// like documents are skipped.
func (r *Repository) List(ctx context.Context) ([]uuid.UUID, error) {
	objects, err := r.objects.ListObjects(ctx, "")
	if err != nil {
		return nil, apperrors.NewStorageError(apperrors.CodeDownloadFailed, "failed to list documents", err)
	}

	var ids []uuid.UUID
	for _, o := range objects {
		name := strings.TrimSuffix(o, documentExt)
		if name == o {
			continue
		}
		id, err := uuid.Parse(name)
		if err != nil {
			log.Printf("document: skipping unexpected object %q", o)
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// LoadAll reads every stored document in parallel. Documents that fail to
// load or decode are reported per id instead of failing the whole call.
func (r *Repository) LoadAll(ctx context.Context) (map[uuid.UUID]Document, map[uuid.UUID]error, error) {
	ids, err := r.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(ids))
	byName := make(map[string]uuid.UUID, len(ids))
	for i, id := range ids {
		names[i] = objectName(id)
		byName[names[i]] = id
	}

	result, err := r.getter.Get(ctx, names)
	if err != nil {
		return nil, nil, err
	}

	docs := make(map[uuid.UUID]Document, len(result.Objects))
	failures := make(map[uuid.UUID]error)
	for name, data := range result.Objects {
		doc, err := Decode(data)
		if err != nil {
			failures[byName[name]] = err
			continue
		}
		docs[byName[name]] = doc
	}
	for name, err := range result.Errors {
		failures[byName[name]] = storageError(apperrors.CodeDownloadFailed, byName[name], err)
	}
	return docs, failures, nil
}

func storageError(code string, id uuid.UUID, err error) error {
	return apperrors.NewStorageError(code, fmt.Sprintf("document %s", id), err).
		WithDetails(map[string]interface{}{"document_id": id.String()})
}

package storage

import (
	"context"
	"strings"
)

// PrefixedStorage wraps an ObjectStorage and prepends a prefix to all object
// paths, so several kinds of objects can share one bucket.
type PrefixedStorage struct {
	inner  ObjectStorage
	prefix string
}

// NewPrefixedStorage returns a view of inner rooted at prefix.
func NewPrefixedStorage(inner ObjectStorage, prefix string) *PrefixedStorage {
	return &PrefixedStorage{inner: inner, prefix: strings.Trim(prefix, "/")}
}

func (s *PrefixedStorage) full(objectPath string) string {
	if s.prefix == "" {
		return objectPath
	}
	return s.prefix + "/" + objectPath
}

func (s *PrefixedStorage) Put(ctx context.Context, objectPath string, data []byte) (string, error) {
	return s.inner.Put(ctx, s.full(objectPath), data)
}

func (s *PrefixedStorage) Get(ctx context.Context, objectPath string) ([]byte, error) {
	return s.inner.Get(ctx, s.full(objectPath))
}

func (s *PrefixedStorage) Delete(ctx context.Context, objectPath string) error {
	return s.inner.Delete(ctx, s.full(objectPath))
}

func (s *PrefixedStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	return s.inner.Exists(ctx, s.full(objectPath))
}

func (s *PrefixedStorage) ConditionalPut(ctx context.Context, objectPath string, data []byte, etag string) (string, error) {
	return s.inner.ConditionalPut(ctx, s.full(objectPath), data, etag)
}

// ListObjects lists under the prefix and strips it from the results.
func (s *PrefixedStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	objects, err := s.inner.ListObjects(ctx, s.full(prefix))
	if err != nil {
		return nil, err
	}
	if s.prefix == "" {
		return objects, nil
	}
	out := make([]string, 0, len(objects))
	for _, o := range objects {
		out = append(out, strings.TrimPrefix(o, s.prefix+"/"))
	}
	return out, nil
}

// Package storage provides object storage for saved explorer documents.
package storage

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUploadFailed       = errors.New("upload failed")
	ErrDownloadFailed     = errors.New("download failed")
	ErrDeleteFailed       = errors.New("delete failed")
)

// ObjectStorage abstracts object storage operations.
// Implementations are the local filesystem and S3.
type ObjectStorage interface {
	// Put stores data under objectPath and returns its ETag.
	Put(ctx context.Context, objectPath string, data []byte) (string, error)

	// Get returns the content of objectPath, or ErrObjectNotFound.
	Get(ctx context.Context, objectPath string) ([]byte, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, objectPath string) error

	// Exists checks if an object exists in storage.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ConditionalPut stores data only if the current ETag of objectPath
	// equals etag. An empty etag requires that the object does not exist.
	ConditionalPut(ctx context.Context, objectPath string, data []byte, etag string) (string, error)

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

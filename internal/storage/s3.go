package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// s3API is the subset of the S3 client used by S3Storage.
type s3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Storage implements ObjectStorage for AWS S3 and S3-compatible stores.
// Conditional writes use the If-Match / If-None-Match headers.
type S3Storage struct {
	client s3API
	bucket string

	attempts int
	backoff  time.Duration
}

// S3Config holds configuration for S3 storage.
type S3Config struct {
	// Region is the AWS region for the S3 bucket.
	Region string
	// Endpoint is an optional custom endpoint (for MinIO, LocalStack, etc.).
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

// DefaultS3Config returns the default S3 configuration.
func DefaultS3Config() S3Config {
	return S3Config{Region: "eu-central-1"}
}

// NewS3Storage creates an S3 storage using the default AWS credential chain.
func NewS3Storage(ctx context.Context, bucket string, cfg S3Config) (*S3Storage, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3StorageWithClient(client, bucket), nil
}

// NewS3StorageWithClient creates an S3 storage over a configured client.
func NewS3StorageWithClient(client *s3.Client, bucket string) *S3Storage {
	return newS3Storage(client, bucket)
}

func newS3Storage(client s3API, bucket string) *S3Storage {
	return &S3Storage{
		client:   client,
		bucket:   bucket,
		attempts: 4,
		backoff:  100 * time.Millisecond,
	}
}

// Put uploads data unconditionally.
func (s *S3Storage) Put(ctx context.Context, objectPath string, data []byte) (string, error) {
	return s.put(ctx, objectPath, data, nil)
}

// ConditionalPut uploads with If-Match, or If-None-Match: * when etag is
// empty. A failed condition yields ErrPreconditionFailed.
func (s *S3Storage) ConditionalPut(ctx context.Context, objectPath string, data []byte, etag string) (string, error) {
	return s.put(ctx, objectPath, data, func(in *s3.PutObjectInput) {
		if etag == "" {
			in.IfNoneMatch = aws.String("*")
			return
		}
		in.IfMatch = aws.String(quoteETag(etag))
	})
}

func (s *S3Storage) put(ctx context.Context, objectPath string, data []byte, condition func(*s3.PutObjectInput)) (string, error) {
	var etag string
	err := s.do(ctx, func() error {
		in := &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
			Body:   bytes.NewReader(data),
		}
		if condition != nil {
			condition(in)
		}
		out, err := s.client.PutObject(ctx, in)
		if err != nil {
			return err
		}
		etag = unquoteETag(aws.ToString(out.ETag))
		return nil
	})
	if err != nil {
		return "", wrapFailure(ErrUploadFailed, err)
	}
	return etag, nil
}

// Get downloads objectPath.
func (s *S3Storage) Get(ctx context.Context, objectPath string) ([]byte, error) {
	var data []byte
	err := s.do(ctx, func() error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()
		data, err = io.ReadAll(out.Body)
		return err
	})
	if err != nil {
		return nil, wrapFailure(ErrDownloadFailed, err)
	}
	return data, nil
}

// Delete removes objectPath. S3 reports success for missing keys.
func (s *S3Storage) Delete(ctx context.Context, objectPath string) error {
	err := s.do(ctx, func() error {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		return err
	})
	if err != nil {
		return wrapFailure(ErrDeleteFailed, err)
	}
	return nil
}

// Exists reports whether objectPath exists.
func (s *S3Storage) Exists(ctx context.Context, objectPath string) (bool, error) {
	err := s.do(ctx, func() error {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(objectPath),
		})
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrObjectNotFound):
		return false, nil
	default:
		return false, err
	}
}

// ListObjects returns all keys under prefix, following continuation tokens.
func (s *S3Storage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// do runs op until it succeeds, fails permanently, or the attempts are used
// up, doubling the pause after each failure. Errors come back classified.
func (s *S3Storage) do(ctx context.Context, op func() error) error {
	pause := s.backoff
	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = classify(op())
		if err == nil || isPermanent(err) || attempt >= s.attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
		pause *= 2
	}
}

// classify maps S3 error shapes onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return ErrObjectNotFound
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return ErrPreconditionFailed
		case "NoSuchKey", "NotFound":
			return ErrObjectNotFound
		}
	}
	return err
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// wrapFailure keeps the sentinels callers branch on and tags everything
// else with the operation's failure.
func wrapFailure(failure, err error) error {
	if isPermanent(err) {
		return err
	}
	return fmt.Errorf("%w: %v", failure, err)
}

func quoteETag(etag string) string {
	return `"` + etag + `"`
}

func unquoteETag(etag string) string {
	return strings.Trim(etag, `"`)
}

package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"filedrive/internal/domain"
	"filedrive/internal/domain/repositories"
)

// S3BlobStore implements BlobStore on top of S3 or any S3-compatible
// object store. Storage keys are used directly as object keys, with an
// optional prefix.
type S3BlobStore struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	logger    *slog.Logger
}

// Config contains configuration for the S3 blob store
type Config struct {
	Bucket    string
	Region    string
	KeyPrefix string

	// Endpoint overrides the AWS endpoint for S3-compatible backends
	// (MinIO, localstack). Empty means real AWS.
	Endpoint string

	// Static credentials; empty values fall back to the default AWS chain
	AccessKeyID     string
	SecretAccessKey string
}

// NewBlobStore creates an S3-backed blob store and verifies bucket access.
// The bucket must already exist.
func NewBlobStore(ctx context.Context, cfg Config, logger *slog.Logger) (repositories.BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is what MinIO and localstack expect
			o.UsePathStyle = true
		}
	})

	_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("access bucket %q: %w", cfg.Bucket, err)
	}

	logger.Info("blob store initialized", "bucket", cfg.Bucket, "prefix", cfg.KeyPrefix)

	return &S3BlobStore{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger,
	}, nil
}

func (s *S3BlobStore) objectKey(key string) string {
	if s.keyPrefix != "" {
		return s.keyPrefix + key
	}
	return key
}

// OpenRead returns a streaming reader for the blob. The caller must close
// it. An absent object maps to domain.ErrNotFound.
func (s *S3BlobStore) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get object %s: %w: %v", key, domain.ErrUpstream, err)
	}

	return result.Body, nil
}

// Write stores the blob under key, replacing any existing content.
func (s *S3BlobStore) Write(ctx context.Context, key string, body io.Reader, size int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w: %v", key, domain.ErrUpstream, err)
	}

	return nil
}

// Delete removes the blob. S3 DeleteObject succeeds for absent keys, which
// gives the cascade its idempotent retry behavior for free.
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w: %v", key, domain.ErrUpstream, err)
	}

	return nil
}

// Exists reports whether the key currently resolves
func (s *S3BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head object %s: %w: %v", key, domain.ErrUpstream, err)
	}

	return true, nil
}

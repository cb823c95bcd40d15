package filestorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yigit/learnsphere/internal/pkg/logger"
)

// MinioStorage stores objects in an S3-compatible bucket
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to the endpoint and creates the bucket when it is missing
func NewMinioStorage(ctx context.Context, opts Options) (*MinioStorage, error) {
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, errors.New("minio storage requires endpoint and bucket")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", opts.Bucket, err)
		}
		logger.Info().Str("bucket", opts.Bucket).Msg("Created storage bucket")
	}

	return &MinioStorage{client: client, bucket: opts.Bucket}, nil
}

// Save uploads data as object name and returns bucket/name
func (s *MinioStorage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		logger.Error().Err(err).Str("bucket", s.bucket).Str("object", name).Msg("Failed to upload object")
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	return s.bucket + "/" + name, nil
}

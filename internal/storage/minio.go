package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"github.com/sahabat-guru/backend/config"
)

// ObjectStorage holds generated documents and answer attachments.
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
	Exists(ctx context.Context, objectName string) (bool, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewObjectStorage(cfg *config.Config) (ObjectStorage, error) {
	if cfg.MinIO.Endpoint == "" {
		log.Warn().Msg("MINIO_ENDPOINT is not set. Object storage is disabled.")
		return disabledStorage{}, nil
	}
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIO.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinIO.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIO.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinIO.Bucket, err)
		}
		log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("Created storage bucket")
	}

	return &minioStorage{client: client, bucket: cfg.MinIO.Bucket}, nil
}

// disabledStorage stands in when no endpoint is configured, so environments
// without MinIO still boot; uploads fail loudly instead of silently dropping.
type disabledStorage struct{}

func (disabledStorage) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", fmt.Errorf("object storage is not configured")
}

func (disabledStorage) PresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", fmt.Errorf("object storage is not configured")
}

func (disabledStorage) Delete(context.Context, string) error { return nil }

func (disabledStorage) Exists(context.Context, string) (bool, error) { return false, nil }

func (s *minioStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, objectName), nil
}

func (s *minioStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *minioStorage) Delete(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

func (s *minioStorage) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// minioAPI is the subset of *minio.Client the store uses.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MinIOConfig configures a MinIOStore
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// MinIOStore stores objects in a single S3-compatible bucket.
type MinIOStore struct {
	client minioAPI
	bucket string
	region string
	logger *zap.Logger

	newBackOff func() backoff.BackOff
}

// NewMinIOStore creates a MinIO client for cfg. The bucket is not touched
// until EnsureBucket is called.
func NewMinIOStore(cfg MinIOConfig, logger *zap.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return newMinIOStore(client, cfg.Bucket, cfg.Region, logger), nil
}

func newMinIOStore(client minioAPI, bucket, region string, logger *zap.Logger) *MinIOStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MinIOStore{
		client:     client,
		bucket:     bucket,
		region:     region,
		logger:     logger,
		newBackOff: bootstrapBackOff,
	}
}

func bootstrapBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	return b
}

// Provider implements ObjectStore
func (s *MinIOStore) Provider() string {
	return ProviderMinIO
}

// EnsureBucket creates the bucket if it does not exist. Transport failures
// are retried with exponential backoff while the server comes up; answers
// from the server are final.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	op := func() error {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err == nil && !exists {
			err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
			if minio.ToErrorResponse(err).Code == "BucketAlreadyOwnedByYou" {
				err = nil
			}
		}
		if err != nil && minio.ToErrorResponse(err).StatusCode != 0 {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("object store not ready, retrying",
			zap.String("bucket", s.bucket),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return s.fail("bucket bootstrap", err)
	}
	return nil
}

// Put implements ObjectStore
func (s *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, s.fail("upload", err)
	}

	return &Object{
		Key:         key,
		URL:         fmt.Sprintf("s3://%s/%s", s.bucket, key),
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// Delete implements ObjectStore
func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).StatusCode != http.StatusNotFound {
		return s.fail("delete", err)
	}
	return nil
}

// URL implements ObjectStore with a presigned GET URL.
func (s *MinIOStore) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", s.fail("presign", err)
	}
	return u.String(), nil
}

// Ping implements ObjectStore
func (s *MinIOStore) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return s.fail("ping", err)
	}
	if !exists {
		return apperrors.Storage(ProviderMinIO, fmt.Sprintf("MinIO: bucket %q does not exist", s.bucket)).
			WithStatus(http.StatusNotFound)
	}
	return nil
}

// fail converts a minio-go error into a storage failure.
func (s *MinIOStore) fail(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == 0 {
		return apperrors.Storage(ProviderMinIO, fmt.Sprintf("MinIO: %s failed", op)).WithError(err)
	}

	message := resp.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	serr := apperrors.Storage(ProviderMinIO, fmt.Sprintf("MinIO: %s failed: %s", op, message)).
		WithStatus(resp.StatusCode).
		WithError(err)
	if resp.Code != "" {
		serr.WithDetail(resp.Code)
	}
	return serr
}

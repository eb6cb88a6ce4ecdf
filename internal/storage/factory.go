package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/config"
)

// FromConfig builds the object store cfg selects. A MinIO bucket is created
// when missing, so the returned store is ready for writes.
func FromConfig(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageDriverMinIO:
		store, err := NewMinIOStore(MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOBucket,
			Region:    cfg.MinIORegion,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.StorageDriverCloudinary:
		store, err := NewCloudinaryStore(CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

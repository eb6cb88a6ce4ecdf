package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// Datasets are not images or video, so they are kept as raw assets.
const cloudinaryResourceType = "raw"

type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type cloudinaryAdmin interface {
	Ping(ctx context.Context) (*admin.PingResult, error)
}

// CloudinaryConfig configures a CloudinaryStore
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryStore stores objects as raw Cloudinary assets keyed by public ID.
type CloudinaryStore struct {
	upload    cloudinaryUploader
	admin     cloudinaryAdmin
	cloudName string
	logger    *zap.Logger
}

// NewCloudinaryStore creates a Cloudinary client for cfg.
func NewCloudinaryStore(cfg CloudinaryConfig, logger *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return newCloudinaryStore(&cld.Upload, &cld.Admin, cfg.CloudName, logger), nil
}

func newCloudinaryStore(up cloudinaryUploader, adm cloudinaryAdmin, cloudName string, logger *zap.Logger) *CloudinaryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudinaryStore{upload: up, admin: adm, cloudName: cloudName, logger: logger}
}

// Provider implements ObjectStore
func (s *CloudinaryStore) Provider() string {
	return ProviderCloudinary
}

// Put implements ObjectStore
func (s *CloudinaryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error) {
	resp, err := s.upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return nil, s.fail("upload", err)
	}
	if resp.Error.Message != "" {
		return nil, s.reject(resp.Error.Message)
	}

	stored := int64(resp.Bytes)
	if stored == 0 {
		stored = size
	}
	return &Object{
		Key:         resp.PublicID,
		URL:         resp.SecureURL,
		ContentType: contentType,
		Size:        stored,
	}, nil
}

// Delete implements ObjectStore
func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	resp, err := s.upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return s.fail("delete", err)
	}
	if resp.Error.Message != "" {
		return s.reject(resp.Error.Message)
	}
	// "not found" means the asset is already gone.
	if resp.Result != "ok" && resp.Result != "not found" {
		return apperrors.Storage(ProviderCloudinary, "Cloudinary: delete failed: "+resp.Result)
	}
	return nil
}

// URL implements ObjectStore. Raw assets are delivered publicly, so the
// delivery URL does not expire.
func (s *CloudinaryStore) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	u := url.URL{
		Scheme: "https",
		Host:   "res.cloudinary.com",
		Path:   "/" + s.cloudName + "/" + cloudinaryResourceType + "/upload/" + strings.TrimPrefix(key, "/"),
	}
	return u.String(), nil
}

// Ping implements ObjectStore
func (s *CloudinaryStore) Ping(ctx context.Context) error {
	resp, err := s.admin.Ping(ctx)
	if err != nil {
		return s.fail("ping", err)
	}
	if resp.Error.Message != "" {
		return s.reject(resp.Error.Message)
	}
	return nil
}

func (s *CloudinaryStore) fail(op string, err error) error {
	return apperrors.Storage(ProviderCloudinary, fmt.Sprintf("Cloudinary: %s failed", op)).WithError(err)
}

// reject converts an API error answer. The SDK does not expose the HTTP
// status, so it is recovered from the well-known messages.
func (s *CloudinaryStore) reject(message string) error {
	serr := apperrors.Storage(ProviderCloudinary, "Cloudinary: "+message).WithDetail(message)
	if status := cloudinaryStatus(message); status != 0 {
		serr.WithStatus(status)
	}
	return serr
}

func cloudinaryStatus(message string) int {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "invalid signature"),
		strings.Contains(lower, "unknown api key"),
		strings.Contains(lower, "invalid api key"):
		return 401
	case strings.Contains(lower, "not allowed"):
		return 403
	case strings.Contains(lower, "file size too large"):
		return 413
	case strings.Contains(lower, "rate limit"):
		return 420
	}
	return 0
}

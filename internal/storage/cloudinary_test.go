package storage

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

type mockCloudinary struct {
	mock.Mock
}

func (m *mockCloudinary) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(ctx, file, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uploader.UploadResult), args.Error(1)
}

func (m *mockCloudinary) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*uploader.DestroyResult), args.Error(1)
}

func (m *mockCloudinary) Ping(ctx context.Context) (*admin.PingResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.PingResult), args.Error(1)
}

func newTestCloudinaryStore() (*CloudinaryStore, *mockCloudinary) {
	m := new(mockCloudinary)
	return newCloudinaryStore(m, m, "demo", nil), m
}

func TestCloudinaryStore_Put(t *testing.T) {
	ctx := context.Background()
	params := uploader.UploadParams{PublicID: "viz/d1.csv", ResourceType: "raw"}

	t.Run("stores raw asset", func(t *testing.T) {
		store, m := newTestCloudinaryStore()
		body := strings.NewReader("a,b\n")
		m.On("Upload", ctx, body, params).Return(&uploader.UploadResult{
			PublicID:  "viz/d1.csv",
			SecureURL: "https://res.cloudinary.com/demo/raw/upload/v1/viz/d1.csv",
			Bytes:     4,
		}, nil)

		obj, err := store.Put(ctx, "viz/d1.csv", body, 4, "text/csv")
		require.NoError(t, err)

		assert.Equal(t, "viz/d1.csv", obj.Key)
		assert.Equal(t, "https://res.cloudinary.com/demo/raw/upload/v1/viz/d1.csv", obj.URL)
		assert.Equal(t, int64(4), obj.Size)
		assert.Equal(t, "text/csv", obj.ContentType)
	})

	t.Run("api error answer", func(t *testing.T) {
		store, m := newTestCloudinaryStore()
		m.On("Upload", ctx, mock.Anything, params).Return(&uploader.UploadResult{
			Error: api.ErrorResp{Message: "Invalid Signature 5f1c. String to sign - 'public_id=viz/d1.csv'."},
		}, nil)

		_, err := store.Put(ctx, "viz/d1.csv", strings.NewReader("x"), 1, "text/csv")

		serr := requireStorageError(t, err)
		assert.Equal(t, ProviderCloudinary, serr.Provider)
		assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
		assert.True(t, strings.HasPrefix(serr.Message, "Cloudinary: Invalid Signature"))
	})

	t.Run("transport failure", func(t *testing.T) {
		store, m := newTestCloudinaryStore()
		m.On("Upload", ctx, mock.Anything, params).Return(nil, errors.New("i/o timeout"))

		_, err := store.Put(ctx, "viz/d1.csv", strings.NewReader("x"), 1, "text/csv")

		serr := requireStorageError(t, err)
		assert.Zero(t, serr.StatusCode)
		assert.Equal(t, "Cloudinary: upload failed", serr.Message)
	})

	t.Run("classified as cloudinary error", func(t *testing.T) {
		store, m := newTestCloudinaryStore()
		m.On("Upload", ctx, mock.Anything, params).Return(&uploader.UploadResult{
			Error: api.ErrorResp{Message: "Unknown API key 1234"},
		}, nil)

		_, err := store.Put(ctx, "viz/d1.csv", strings.NewReader("x"), 1, "text/csv")

		env := apperrors.NewClassifier(nil, apperrors.ClassifierOptions{Production: true}).Classify(err)
		assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
		assert.Equal(t, "Cloudinary error", env.Message)
		assert.Equal(t, "Cloudinary: Unknown API key 1234", env.Error)
		assert.Equal(t, "Unknown API key 1234", env.Details)
	})
}

func TestCloudinaryStore_Delete(t *testing.T) {
	ctx := context.Background()
	params := uploader.DestroyParams{PublicID: "viz/d1.csv", ResourceType: "raw"}

	tests := []struct {
		name    string
		result  *uploader.DestroyResult
		wantErr bool
	}{
		{"deleted", &uploader.DestroyResult{Result: "ok"}, false},
		{"already gone", &uploader.DestroyResult{Result: "not found"}, false},
		{"unexpected result", &uploader.DestroyResult{Result: "error"}, true},
		{"api error", &uploader.DestroyResult{Error: api.ErrorResp{Message: "Resource not allowed"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, m := newTestCloudinaryStore()
			m.On("Destroy", ctx, params).Return(tt.result, nil)

			err := store.Delete(ctx, "viz/d1.csv")
			if tt.wantErr {
				requireStorageError(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCloudinaryStore_URL(t *testing.T) {
	store, _ := newTestCloudinaryStore()

	u, err := store.URL(context.Background(), "viz/projects/p1/datasets/d1.csv", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/raw/upload/viz/projects/p1/datasets/d1.csv", u)
}

func TestCloudinaryStore_Ping(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		store, m := newTestCloudinaryStore()
		m.On("Ping", ctx).Return(&admin.PingResult{Status: "ok"}, nil)

		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("unreachable", func(t *testing.T) {
		store, m := newTestCloudinaryStore()
		m.On("Ping", ctx).Return(nil, errors.New("no such host"))

		requireStorageError(t, store.Ping(ctx))
	})
}

func TestCloudinaryStatus(t *testing.T) {
	assert.Equal(t, 401, cloudinaryStatus("Invalid Signature abc"))
	assert.Equal(t, 403, cloudinaryStatus("Resource not allowed"))
	assert.Equal(t, 413, cloudinaryStatus("File size too large. Got 20000000."))
	assert.Equal(t, 420, cloudinaryStatus("Rate Limit Exceeded"))
	assert.Zero(t, cloudinaryStatus("Something odd"))
}

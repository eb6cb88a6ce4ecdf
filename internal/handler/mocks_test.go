package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	"github.com/vizboard/vizboard/api/internal/middleware"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
	"github.com/vizboard/vizboard/api/internal/service"
	"github.com/vizboard/vizboard/api/internal/testutil"
)

const testUser = "user-1"

// newTestApp builds an app rendering failures the way the server does. An
// empty userID leaves requests unauthenticated.
func newTestApp(userID string) *fiber.App {
	classifier := apperrors.NewClassifier(zap.NewNop(), apperrors.ClassifierOptions{})
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(classifier, zap.NewNop(), false),
	})
	if userID != "" {
		app.Use(testutil.TestUserMiddleware(userID))
	}
	return app
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	decodeJSON(t, resp, &env)
	return env
}

// MockProjectService mocks the project service for testing.
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, ownerID string, input *domain.ProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, ownerID string, page pagination.Params) (*domain.ProjectList, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectList), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, ownerID string, id uuid.UUID, input *domain.ProjectUpdateInput) (*domain.Project, error) {
	args := m.Called(ctx, ownerID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockDatasetService mocks the dataset service for testing.
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Upload(ctx context.Context, ownerID string, projectID uuid.UUID, file *service.DatasetUpload) (*domain.Dataset, error) {
	args := m.Called(ctx, ownerID, projectID, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetService) Get(ctx context.Context, ownerID string, projectID, id uuid.UUID) (*domain.Dataset, error) {
	args := m.Called(ctx, ownerID, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetService) List(ctx context.Context, ownerID string, projectID uuid.UUID, status *domain.DatasetStatus, page pagination.Params) (*domain.DatasetList, error) {
	args := m.Called(ctx, ownerID, projectID, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetList), args.Error(1)
}

func (m *MockDatasetService) URL(ctx context.Context, ownerID string, projectID, id uuid.UUID) (*domain.DatasetURL, error) {
	args := m.Called(ctx, ownerID, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DatasetURL), args.Error(1)
}

func (m *MockDatasetService) Delete(ctx context.Context, ownerID string, projectID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, projectID, id)
	return args.Error(0)
}

// MockDashboardService mocks the dashboard service for testing.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Get(ctx context.Context, ownerID string) (*domain.Dashboard, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

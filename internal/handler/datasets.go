package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
	"github.com/vizboard/vizboard/api/internal/service"
	"github.com/vizboard/vizboard/api/internal/upload"
)

// DatasetService is the dataset behaviour the handler depends on
type DatasetService interface {
	Upload(ctx context.Context, ownerID string, projectID uuid.UUID, file *service.DatasetUpload) (*domain.Dataset, error)
	Get(ctx context.Context, ownerID string, projectID, id uuid.UUID) (*domain.Dataset, error)
	List(ctx context.Context, ownerID string, projectID uuid.UUID, status *domain.DatasetStatus, page pagination.Params) (*domain.DatasetList, error)
	URL(ctx context.Context, ownerID string, projectID, id uuid.UUID) (*domain.DatasetURL, error)
	Delete(ctx context.Context, ownerID string, projectID, id uuid.UUID) error
}

// DatasetsHandler handles dataset endpoints
type DatasetsHandler struct {
	datasetService DatasetService
	parser         *upload.Parser
	logger         *zap.Logger
}

// NewDatasetsHandler creates a new datasets handler
func NewDatasetsHandler(datasetService DatasetService, parser *upload.Parser, logger *zap.Logger) *DatasetsHandler {
	return &DatasetsHandler{
		datasetService: datasetService,
		parser:         parser,
		logger:         logger,
	}
}

// UploadDataset handles POST /api/v1/projects/:projectId/datasets
func (h *DatasetsHandler) UploadDataset(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	projectID, err := paramUUID(c, "projectId")
	if err != nil {
		return err
	}

	file, err := h.parser.Parse(c)
	if err != nil {
		return err
	}

	content, err := file.Open()
	if err != nil {
		return apperrors.Upload(upload.MsgUnreadable).WithField(h.parser.Field()).WithError(err)
	}
	defer content.Close()

	dataset, err := h.datasetService.Upload(c.UserContext(), userID, projectID, &service.DatasetUpload{
		Name:        file.Name,
		Ext:         file.Ext,
		ContentType: file.ContentType,
		Size:        file.Size,
		Tags:        splitTags(c.FormValue("tags")),
		Content:     content,
	})
	if err != nil {
		return err
	}

	h.logger.Info("dataset uploaded",
		zap.String("dataset_id", dataset.ID.String()),
		zap.String("project_id", projectID.String()),
		zap.Int64("size", dataset.SizeBytes),
	)
	return c.Status(fiber.StatusCreated).JSON(dataset)
}

// ListDatasets handles GET /api/v1/projects/:projectId/datasets
func (h *DatasetsHandler) ListDatasets(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	projectID, err := paramUUID(c, "projectId")
	if err != nil {
		return err
	}
	page, err := pagination.FromQuery(c)
	if err != nil {
		return err
	}

	var status *domain.DatasetStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.DatasetStatus(raw)
		if !s.IsValid() {
			return apperrors.BadRequest("invalid status").WithDetail("param", "status")
		}
		status = &s
	}

	list, err := h.datasetService.List(c.UserContext(), userID, projectID, status, page)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetDataset handles GET /api/v1/projects/:projectId/datasets/:datasetId
func (h *DatasetsHandler) GetDataset(c *fiber.Ctx) error {
	userID, projectID, datasetID, err := h.datasetParams(c)
	if err != nil {
		return err
	}

	dataset, err := h.datasetService.Get(c.UserContext(), userID, projectID, datasetID)
	if err != nil {
		return err
	}
	return c.JSON(dataset)
}

// GetDatasetURL handles GET /api/v1/projects/:projectId/datasets/:datasetId/url
func (h *DatasetsHandler) GetDatasetURL(c *fiber.Ctx) error {
	userID, projectID, datasetID, err := h.datasetParams(c)
	if err != nil {
		return err
	}

	url, err := h.datasetService.URL(c.UserContext(), userID, projectID, datasetID)
	if err != nil {
		return err
	}
	return c.JSON(url)
}

// DeleteDataset handles DELETE /api/v1/projects/:projectId/datasets/:datasetId
func (h *DatasetsHandler) DeleteDataset(c *fiber.Ctx) error {
	userID, projectID, datasetID, err := h.datasetParams(c)
	if err != nil {
		return err
	}

	if err := h.datasetService.Delete(c.UserContext(), userID, projectID, datasetID); err != nil {
		return err
	}

	h.logger.Info("dataset deleted", zap.String("dataset_id", datasetID.String()))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DatasetsHandler) datasetParams(c *fiber.Ctx) (string, uuid.UUID, uuid.UUID, error) {
	userID, err := requireUserID(c)
	if err != nil {
		return "", uuid.Nil, uuid.Nil, err
	}
	projectID, err := paramUUID(c, "projectId")
	if err != nil {
		return "", uuid.Nil, uuid.Nil, err
	}
	datasetID, err := paramUUID(c, "datasetId")
	if err != nil {
		return "", uuid.Nil, uuid.Nil, err
	}
	return userID, projectID, datasetID, nil
}

// RegisterRoutes registers dataset routes
func (h *DatasetsHandler) RegisterRoutes(router fiber.Router) {
	datasets := router.Group("/projects/:projectId/datasets")
	datasets.Get("/", h.ListDatasets)
	datasets.Post("/", h.UploadDataset)
	datasets.Get("/:datasetId", h.GetDataset)
	datasets.Get("/:datasetId/url", h.GetDatasetURL)
	datasets.Delete("/:datasetId", h.DeleteDataset)
}

// splitTags reads a comma separated tag list. Normalisation happens in the
// service.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vizboard/vizboard/api/internal/domain"
	"github.com/vizboard/vizboard/api/internal/pkg/pagination"
)

// ProjectService is the project behaviour the handler depends on
type ProjectService interface {
	Create(ctx context.Context, ownerID string, input *domain.ProjectInput) (*domain.Project, error)
	Get(ctx context.Context, ownerID string, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, ownerID string, page pagination.Params) (*domain.ProjectList, error)
	Update(ctx context.Context, ownerID string, id uuid.UUID, input *domain.ProjectUpdateInput) (*domain.Project, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
}

// ProjectsHandler handles project endpoints
type ProjectsHandler struct {
	projectService ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler
func NewProjectsHandler(projectService ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectsHandler) ListProjects(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	page, err := pagination.FromQuery(c)
	if err != nil {
		return err
	}

	list, err := h.projectService.List(c.UserContext(), userID, page)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetProject handles GET /api/v1/projects/:projectId
func (h *ProjectsHandler) GetProject(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	projectID, err := paramUUID(c, "projectId")
	if err != nil {
		return err
	}

	project, err := h.projectService.Get(c.UserContext(), userID, projectID)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectsHandler) CreateProject(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var input domain.ProjectInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	project, err := h.projectService.Create(c.UserContext(), userID, &input)
	if err != nil {
		return err
	}

	h.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("slug", project.Slug),
	)
	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PATCH /api/v1/projects/:projectId
func (h *ProjectsHandler) UpdateProject(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	projectID, err := paramUUID(c, "projectId")
	if err != nil {
		return err
	}

	var input domain.ProjectUpdateInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	project, err := h.projectService.Update(c.UserContext(), userID, projectID, &input)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

// DeleteProject handles DELETE /api/v1/projects/:projectId
func (h *ProjectsHandler) DeleteProject(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}
	projectID, err := paramUUID(c, "projectId")
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.UserContext(), userID, projectID); err != nil {
		return err
	}

	h.logger.Info("project deleted", zap.String("project_id", projectID.String()))
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes registers project routes
func (h *ProjectsHandler) RegisterRoutes(router fiber.Router) {
	projects := router.Group("/projects")
	projects.Get("/", h.ListProjects)
	projects.Post("/", h.CreateProject)
	projects.Get("/:projectId", h.GetProject)
	projects.Patch("/:projectId", h.UpdateProject)
	projects.Delete("/:projectId", h.DeleteProject)
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vizboard/vizboard/api/internal/domain"
)

// DashboardService builds the owner's dashboard
type DashboardService interface {
	Get(ctx context.Context, ownerID string) (*domain.Dashboard, error)
}

// DashboardHandler handles GET /api/v1/dashboard
type DashboardHandler struct {
	dashboardService DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns per-project dataset summaries for the caller
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	dashboard, err := h.dashboardService.Get(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.GetDashboard)
}

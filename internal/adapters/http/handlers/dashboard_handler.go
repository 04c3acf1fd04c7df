package handlers

import (
	"errors"

	"clubtrack/internal/core/domain"
	"clubtrack/internal/core/services"
	"clubtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get routes to the right dashboard based on the caller's role
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)

	switch domain.Role(role) {
	case domain.RoleAdmin, domain.RoleCoach:
		return h.Admin(c)
	default:
		return h.Member(c)
	}
}

// Admin returns the staff overview
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	dashboard, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved", dashboard)
}

// Member returns the authenticated member's own overview
func (h *DashboardHandler) Member(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	dashboard, err := h.dashboardService.GetMemberDashboard(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return response.NotFound(c, "No membership profile for this account")
		}
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved", dashboard)
}

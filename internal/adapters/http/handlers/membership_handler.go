package handlers

import (
	"clubtrack/internal/core/catalog"
	"clubtrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MembershipHandler serves the public membership catalog
type MembershipHandler struct{}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler() *MembershipHandler {
	return &MembershipHandler{}
}

// ListTiers returns all active membership tiers in display order
func (h *MembershipHandler) ListTiers(c *fiber.Ctx) error {
	return response.Success(c, "Membership tiers retrieved", fiber.Map{
		"tiers": catalog.ActiveTiers(),
	})
}

// GetTier returns a single tier by id
func (h *MembershipHandler) GetTier(c *fiber.Ctx) error {
	tier, ok := catalog.TierByID(c.Params("id"))
	if !ok {
		return response.NotFound(c, "Membership tier not found")
	}

	return response.Success(c, "Membership tier retrieved", fiber.Map{
		"tier": tier,
	})
}

// ListSessionPricing returns the single-session price list
func (h *MembershipHandler) ListSessionPricing(c *fiber.Ctx) error {
	return response.Success(c, "Session pricing retrieved", fiber.Map{
		"pricing": catalog.SessionPricing(),
	})
}

package handlers

import (
	"errors"
	"strconv"

	"clubtrack/internal/adapters/http/middleware"
	"clubtrack/internal/core/services"
	"clubtrack/internal/pkg/pagination"
	"clubtrack/internal/pkg/response"
	"clubtrack/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest wraps the payment input with its target member and tier
type RecordPaymentRequest struct {
	MemberID uint   `json:"member_id" validate:"required"`
	TierID   string `json:"tier_id" validate:"required"`
	services.PaymentInput
}

// Record records a membership payment and activates the membership
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	record, err := h.paymentService.RecordMembershipPayment(c.Context(), req.MemberID, req.TierID, &req.PaymentInput, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownMembershipTier):
			return response.BadRequest(c, "Unknown membership tier")
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Payment amount must not be negative")
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrProfileNotFound):
			return response.NotFound(c, "Member profile not found")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Created(c, "Payment recorded successfully", fiber.Map{
		"payment": record,
	})
}

// List returns a page of the payment ledger
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	records, total, err := h.paymentService.GetAllPayments(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved", pagination.NewResponse(records, params, total))
}

// Get returns a single payment record
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	record, err := h.paymentService.GetPaymentByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment record not found")
		}
		return response.InternalServerError(c, "Failed to get payment")
	}

	return response.Success(c, "Payment retrieved", fiber.Map{
		"payment": record,
	})
}

// ListMine returns the authenticated member's own payment history
func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	records, err := h.paymentService.GetMemberPayments(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved", fiber.Map{
		"payments": records,
		"count":    len(records),
	})
}

// ListForMember returns a member's payment history (staff view)
func (h *PaymentHandler) ListForMember(c *fiber.Ctx) error {
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	records, err := h.paymentService.GetMemberPayments(c.Context(), uint(memberID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved", fiber.Map{
		"payments": records,
		"count":    len(records),
	})
}

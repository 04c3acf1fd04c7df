package handlers

import (
	"errors"
	"strconv"
	"strings"

	"clubtrack/internal/adapters/http/middleware"
	"clubtrack/internal/core/services"
	"clubtrack/internal/pkg/pagination"
	"clubtrack/internal/pkg/response"
	"clubtrack/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user and member management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateMember registers a member or coach (staff side)
func (h *UserHandler) CreateMember(c *fiber.Ctx) error {
	var req services.CreateMemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Email = strings.TrimSpace(req.Email)
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	detail, err := h.userService.CreateMember(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyUsed):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "Password must be at least 8 characters")
		default:
			return response.InternalServerError(c, "Failed to create member")
		}
	}

	return response.Created(c, "Member created successfully", detail)
}

// ListMembers returns a page of users, optionally filtered by role
func (h *UserHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	role := c.Query("role")

	users, total, err := h.userService.ListUsers(c.Context(), role, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			return response.BadRequest(c, "Invalid role filter")
		}
		return response.InternalServerError(c, "Failed to list members")
	}

	responses := make([]interface{}, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}

	return response.Success(c, "Members retrieved", pagination.NewResponse(responses, params, total))
}

// GetMember returns a user with their membership profile
func (h *UserHandler) GetMember(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	detail, err := h.userService.GetMemberDetail(c.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved", detail)
}

// UpdateMember updates a user's identity fields (admin side)
func (h *UserHandler) UpdateMember(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.UpdateUser(c.Context(), uint(userID), &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to update member")
	}

	return response.Success(c, "Member updated", fiber.Map{
		"user": user.ToResponse(),
	})
}

// SetRoleRequest represents a role change request
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member guest coach"`
}

// SetRole changes a user's role
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.SetRole(c.Context(), uint(userID), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		default:
			return response.InternalServerError(c, "Failed to change role")
		}
	}

	return response.Success(c, "Role updated", fiber.Map{
		"user": user.ToResponse(),
	})
}

// DeleteMember soft-deletes a user
func (h *UserHandler) DeleteMember(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.userService.DeleteUser(c.Context(), uint(userID), actor); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrSelfDelete):
			return response.BadRequest(c, "Cannot delete your own account")
		default:
			return response.InternalServerError(c, "Failed to delete member")
		}
	}

	return response.Success(c, "Member deleted", nil)
}

// GetProfile returns the authenticated user's own detail
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	detail, err := h.userService.GetMemberDetail(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved", detail)
}

// UpdateProfile updates the authenticated user's own identity fields
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.UpdateUser(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", fiber.Map{
		"user": user.ToResponse(),
	})
}

// ChangePassword changes the authenticated user's password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.ChangePasswordInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.userService.ChangePassword(c.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			return response.BadRequest(c, "Current password is incorrect")
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "New password must be at least 8 characters")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

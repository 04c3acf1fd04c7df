package handlers

import (
	"errors"
	"strconv"
	"time"

	"clubtrack/internal/adapters/http/middleware"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/services"
	"clubtrack/internal/pkg/response"
	"clubtrack/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles session scheduling endpoints
type SessionHandler struct {
	sessionService *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create creates a new scheduled session
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req services.SessionInput
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

	session, err := h.sessionService.CreateSession(c.Context(), &req, actor)
	if err != nil {
		return response.InternalServerError(c, "Failed to create session")
	}

	return response.Created(c, "Session created", fiber.Map{
		"session": session,
	})
}

// List returns sessions matching the query filters
func (h *SessionHandler) List(c *fiber.Ctx) error {
	filter := repositories.SessionFilter{
		Upcoming: c.QueryBool("upcoming", false),
		Past:     c.QueryBool("past", false),
		Coach:    c.Query("coach"),
		Type:     c.Query("type"),
	}

	// Explicit date range takes precedence over the upcoming/past shortcuts
	if startStr, endStr := c.Query("start_date"), c.Query("end_date"); startStr != "" && endStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		}

		sessions, err := h.sessionService.ListSessionsInRange(c.Context(), start, end.AddDate(0, 0, 1))
		if err != nil {
			return response.InternalServerError(c, "Failed to list sessions")
		}
		return response.Success(c, "Sessions retrieved", fiber.Map{
			"sessions": sessions,
			"count":    len(sessions),
		})
	}

	sessions, err := h.sessionService.ListSessions(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list sessions")
	}

	return response.Success(c, "Sessions retrieved", fiber.Map{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// Get returns a single session
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session ID")
	}

	session, err := h.sessionService.GetSessionByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to get session")
	}

	return response.Success(c, "Session retrieved", fiber.Map{
		"session": session,
	})
}

// Update updates a session
func (h *SessionHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session ID")
	}

	var req services.SessionInput
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

	session, err := h.sessionService.UpdateSession(c.Context(), uint(id), &req, actor)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to update session")
	}

	return response.Success(c, "Session updated", fiber.Map{
		"session": session,
	})
}

// Delete deletes a session
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session ID")
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.sessionService.DeleteSession(c.Context(), uint(id), actor); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to delete session")
	}

	return response.Success(c, "Session deleted", nil)
}

// Register registers the authenticated user for a session
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	reg, err := h.sessionService.Register(c.Context(), uint(id), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return response.NotFound(c, "Session not found")
		case errors.Is(err, services.ErrSessionInPast):
			return response.UnprocessableEntity(c, "Session has already taken place")
		case errors.Is(err, services.ErrAlreadyRegistered):
			return response.Conflict(c, "Already registered for this session")
		case errors.Is(err, services.ErrSessionFull):
			return response.Conflict(c, "Session is full")
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	return response.Created(c, "Registered for session", fiber.Map{
		"registration": reg,
	})
}

// Cancel cancels the authenticated user's registration
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.sessionService.CancelRegistration(c.Context(), uint(id), userID); err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			return response.NotFound(c, "No confirmed registration for this session")
		}
		return response.InternalServerError(c, "Failed to cancel registration")
	}

	return response.Success(c, "Registration cancelled", nil)
}

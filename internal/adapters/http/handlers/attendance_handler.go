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

// AttendanceHandler handles attendance endpoints
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// CheckInRequest wraps the check-in input with its target member
type CheckInRequest struct {
	MemberID uint `json:"member_id" validate:"required"`
	services.CheckInInput
}

// CheckIn opens an attendance record for a member
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
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

	record, err := h.attendanceService.CheckIn(c.Context(), req.MemberID, &req.CheckInInput, actor)
	if err != nil {
		var quotaErr *services.QuotaExceededError
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, services.ErrProfileNotFound):
			return response.NotFound(c, "Member profile not found")
		case errors.Is(err, services.ErrMembershipInactive):
			return response.UnprocessableEntity(c, "Membership is not active")
		case errors.Is(err, services.ErrMembershipExpired):
			return response.UnprocessableEntity(c, "Membership has expired")
		case errors.Is(err, services.ErrNoMembershipType):
			return response.UnprocessableEntity(c, "Member has no valid membership type")
		case errors.As(err, &quotaErr):
			return response.UnprocessableEntity(c, quotaErr.Error())
		case errors.Is(err, services.ErrAlreadyCheckedIn):
			return response.Conflict(c, "Member is already checked in")
		default:
			return response.InternalServerError(c, "Failed to check in")
		}
	}

	return response.Created(c, "Checked in successfully", fiber.Map{
		"attendance": record,
	})
}

// CheckOut closes an open attendance record
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	attendanceID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid attendance ID")
	}

	var req services.CheckOutInput
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	record, err := h.attendanceService.CheckOut(c.Context(), uint(attendanceID), &req, actor)
	if err != nil {
		if errors.Is(err, services.ErrAttendanceNotFound) {
			return response.NotFound(c, "Attendance record not found")
		}
		return response.InternalServerError(c, "Failed to check out")
	}

	return response.Success(c, "Checked out successfully", fiber.Map{
		"attendance": record,
	})
}

// List returns attendance records with optional filters
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	filter, err := parseAttendanceFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	records, err := h.attendanceService.ListAttendance(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list attendance")
	}

	return response.Success(c, "Attendance retrieved", fiber.Map{
		"attendance": records,
		"count":      len(records),
	})
}

// ListMine returns the authenticated member's own attendance records
func (h *AttendanceHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	filter, err := parseAttendanceFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	records, err := h.attendanceService.ListMemberAttendance(c.Context(), userID, filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list attendance")
	}

	return response.Success(c, "Attendance retrieved", fiber.Map{
		"attendance": records,
		"count":      len(records),
	})
}

// Current returns a member's open attendance record, if any
func (h *AttendanceHandler) Current(c *fiber.Ctx) error {
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	record, err := h.attendanceService.GetCurrentAttendance(c.Context(), uint(memberID))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			return response.NotFound(c, "Member profile not found")
		}
		return response.InternalServerError(c, "Failed to get current attendance")
	}

	return response.Success(c, "Current attendance retrieved", fiber.Map{
		"attendance": record,
		"checked_in": record != nil,
	})
}

// Stats returns aggregate attendance statistics over a date range.
// Defaults to the last 30 days when no range is given.
func (h *AttendanceHandler) Stats(c *fiber.Ctx) error {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		}
		start = parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		}
		// Inclusive of the whole end day
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	stats, err := h.attendanceService.ComputeStats(c.Context(), start, end)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}

	return response.Success(c, "Attendance stats computed", fiber.Map{
		"stats": stats,
	})
}

// parseAttendanceFilter reads the common list query parameters
func parseAttendanceFilter(c *fiber.Ctx) (repositories.AttendanceFilter, error) {
	var filter repositories.AttendanceFilter

	if v := c.Query("start_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("invalid start_date, expected YYYY-MM-DD")
		}
		filter.StartDate = &parsed
	}
	if v := c.Query("end_date"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("invalid end_date, expected YYYY-MM-DD")
		}
		endOfDay := parsed.AddDate(0, 0, 1)
		filter.EndDate = &endOfDay
	}
	filter.Status = c.Query("status")
	if v := c.Query("member_id"); v != "" {
		memberID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return filter, errors.New("invalid member_id")
		}
		filter.MemberID = uint(memberID)
	}
	filter.Limit = c.QueryInt("limit", 0)

	return filter, nil
}

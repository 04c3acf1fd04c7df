package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/catalog"
	"clubtrack/internal/core/domain"

	"gorm.io/gorm"
)

// Attendance errors
var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrProfileNotFound     = errors.New("member profile not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMembershipInactive  = errors.New("membership is not active")
	ErrMembershipExpired   = errors.New("membership has expired")
	ErrNoMembershipType    = errors.New("member has no valid membership type")
	ErrWeeklyQuotaExceeded = errors.New("weekly visit quota exceeded")
	ErrAlreadyCheckedIn    = errors.New("member is already checked in")
)

// QuotaExceededError carries the member's allowance and the date the counter
// resets so the front desk can tell them when to come back.
type QuotaExceededError struct {
	Allowance int
	ResetDate *time.Time
}

func (e *QuotaExceededError) Error() string {
	if e.ResetDate != nil {
		return fmt.Sprintf("weekly visit quota of %d reached, resets on %s",
			e.Allowance, e.ResetDate.Format("2006-01-02"))
	}
	return fmt.Sprintf("weekly visit quota of %d reached", e.Allowance)
}

func (e *QuotaExceededError) Unwrap() error {
	return ErrWeeklyQuotaExceeded
}

// AttendanceService handles check-in/check-out business logic. Mutations run
// inside a DB transaction so the eligibility check and the two writes are
// never observable as separate states.
type AttendanceService struct {
	db             *gorm.DB
	attendanceRepo repositories.AttendanceRepository
	profileRepo    repositories.ProfileRepository
	userRepo       repositories.UserRepository
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{
		db:             db,
		attendanceRepo: repositories.NewAttendanceRepository(db),
		profileRepo:    repositories.NewProfileRepository(db),
		userRepo:       repositories.NewUserRepository(db),
	}
}

// CheckInInput represents check-in request
type CheckInInput struct {
	CheckInTime    *time.Time `json:"check_in_time"`
	AttendanceType string     `json:"attendance_type" validate:"omitempty,oneof=regular coaching event competition"`
	CheckInMethod  string     `json:"check_in_method" validate:"omitempty,oneof=front-desk self-service admin coach"`
	Notes          string     `json:"notes" validate:"omitempty,max=500"`
}

// CheckOutInput represents check-out request
type CheckOutInput struct {
	CheckOutTime *time.Time `json:"check_out_time"`
	Notes        string     `json:"notes" validate:"omitempty,max=500"`
}

// AttendanceStats aggregates attendance over a date range
type AttendanceStats struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	DistinctMembers int            `json:"distinct_members"`
	// ByDayOfWeek buckets check-ins by local day of week, 0=Sunday.
	ByDayOfWeek [7]int    `json:"by_day_of_week"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// CheckIn validates eligibility and opens an attendance record for the
// member. Validation, record creation and profile update run in one
// transaction.
func (s *AttendanceService) CheckIn(ctx context.Context, memberID uint, input *CheckInInput, actor domain.Actor) (*models.AttendanceRecord, error) {
	now := time.Now()
	checkInTime := now
	if input.CheckInTime != nil {
		checkInTime = *input.CheckInTime
	}

	var record *models.AttendanceRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		profileRepo := repositories.NewProfileRepository(tx)
		attendanceRepo := repositories.NewAttendanceRepository(tx)

		// 1. Load member identity
		user, err := userRepo.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		// 2. Load member profile
		profile, err := profileRepo.GetByUserID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		// 3. Roll quota counters forward if a reset boundary has passed
		if applyLazyReset(profile, now) {
			log.Printf("🔄 Quota counters rolled for member %d", memberID)
		}

		// 4. Validate membership state
		if profile.MembershipStatus != catalog.StatusActive {
			return ErrMembershipInactive
		}
		if profile.MembershipExpiration != nil && !profile.MembershipExpiration.After(now) {
			return ErrMembershipExpired
		}
		if profile.MembershipType == nil {
			return ErrNoMembershipType
		}
		tier, ok := catalog.TierByID(*profile.MembershipType)
		if !ok {
			return ErrNoMembershipType
		}

		// 5. Validate weekly quota
		if profile.DaysUsedThisWeek >= tier.DaysPerWeek {
			return &QuotaExceededError{
				Allowance: tier.DaysPerWeek,
				ResetDate: profile.WeeklyResetDate,
			}
		}

		// 6. Reject a second open visit; heal a dangling pointer instead
		if profile.CurrentAttendanceID != nil {
			open, err := attendanceRepo.GetByID(ctx, *profile.CurrentAttendanceID)
			if err == nil && open.Status == models.AttendanceCheckedIn {
				return ErrAlreadyCheckedIn
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			profile.CurrentAttendanceID = nil
		}

		// 7. Create attendance record
		attendanceType := input.AttendanceType
		if attendanceType == "" {
			attendanceType = models.AttendanceTypeRegular
		}
		checkInMethod := input.CheckInMethod
		if checkInMethod == "" {
			checkInMethod = models.CheckInMethodFrontDesk
		}

		record = &models.AttendanceRecord{
			MemberID:        memberID,
			MemberName:      user.DisplayName,
			CheckInTime:     checkInTime,
			Status:          models.AttendanceCheckedIn,
			AttendanceType:  attendanceType,
			CheckInMethod:   checkInMethod,
			Notes:           input.Notes,
			CheckedInByID:   actor.ID,
			CheckedInByName: actor.Name,
			CheckedInAt:     now,
		}
		if err := attendanceRepo.Create(ctx, record); err != nil {
			return err
		}

		// 8. Update profile counters and pointer
		profile.LastVisit = &checkInTime
		profile.DaysUsedThisWeek++
		profile.DaysUsedThisMonth++
		profile.CurrentAttendanceID = &record.ID
		return profileRepo.Update(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Check-in: member %d (%s) by %s", memberID, record.MemberName, actor.Name)
	return record, nil
}

// CheckOut closes an open attendance record. Checking out a record that is
// already closed is idempotent: the record comes back unchanged.
func (s *AttendanceService) CheckOut(ctx context.Context, attendanceID uint, input *CheckOutInput, actor domain.Actor) (*models.AttendanceRecord, error) {
	now := time.Now()
	checkOutTime := now
	if input.CheckOutTime != nil {
		checkOutTime = *input.CheckOutTime
	}

	var record *models.AttendanceRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attendanceRepo := repositories.NewAttendanceRepository(tx)
		profileRepo := repositories.NewProfileRepository(tx)

		// 1. Load the record
		var err error
		record, err = attendanceRepo.GetByID(ctx, attendanceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendanceNotFound
			}
			return err
		}

		// 2. Already closed: nothing to do
		if record.IsTerminal() {
			return nil
		}

		// 3. Close it
		duration := int(checkOutTime.Sub(record.CheckInTime).Minutes())
		notes := record.Notes
		if input.Notes != "" {
			if notes != "" {
				notes = notes + " | " + input.Notes
			} else {
				notes = input.Notes
			}
		}

		actorID := actor.ID
		updates := map[string]interface{}{
			"status":              models.AttendanceCheckedOut,
			"check_out_time":      checkOutTime,
			"duration_minutes":    duration,
			"notes":               notes,
			"checked_out_by_id":   actorID,
			"checked_out_by_name": actor.Name,
			"checked_out_at":      now,
		}
		if err := attendanceRepo.UpdateFields(ctx, record.ID, updates); err != nil {
			return err
		}

		record.Status = models.AttendanceCheckedOut
		record.CheckOutTime = &checkOutTime
		record.DurationMinutes = &duration
		record.Notes = notes
		record.CheckedOutByID = &actorID
		record.CheckedOutByName = actor.Name
		record.CheckedOutAt = &now

		// 4. Clear the profile pointer if it still points at this record
		profile, err := profileRepo.GetByUserID(ctx, record.MemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if profile.CurrentAttendanceID != nil && *profile.CurrentAttendanceID == record.ID {
			return profileRepo.UpdateFields(ctx, record.MemberID, map[string]interface{}{
				"current_attendance_id": nil,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Check-out: attendance %d (member %d) by %s", record.ID, record.MemberID, actor.Name)
	return record, nil
}

// GetCurrentAttendance returns the member's open attendance record, or nil
// when they are not checked in. A pointer at a missing or closed record is
// repaired on the spot.
func (s *AttendanceService) GetCurrentAttendance(ctx context.Context, memberID uint) (*models.AttendanceRecord, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if profile.CurrentAttendanceID == nil {
		return nil, nil
	}

	record, err := s.attendanceRepo.GetByID(ctx, *profile.CurrentAttendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dangling pointer. Clear it and report "not checked in".
			log.Printf("⚠️ Dangling attendance pointer for member %d, clearing", memberID)
			if clearErr := s.profileRepo.UpdateFields(ctx, memberID, map[string]interface{}{
				"current_attendance_id": nil,
			}); clearErr != nil {
				return nil, clearErr
			}
			return nil, nil
		}
		return nil, err
	}

	if record.IsTerminal() {
		log.Printf("⚠️ Attendance pointer for member %d points at closed record %d, clearing", memberID, record.ID)
		if clearErr := s.profileRepo.UpdateFields(ctx, memberID, map[string]interface{}{
			"current_attendance_id": nil,
		}); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}

	return record, nil
}

// ListAttendance returns attendance records matching the filter
func (s *AttendanceService) ListAttendance(ctx context.Context, filter repositories.AttendanceFilter) ([]models.AttendanceRecord, error) {
	return s.attendanceRepo.List(ctx, filter)
}

// ListMemberAttendance returns one member's attendance records
func (s *AttendanceService) ListMemberAttendance(ctx context.Context, memberID uint, filter repositories.AttendanceFilter) ([]models.AttendanceRecord, error) {
	filter.MemberID = memberID
	return s.attendanceRepo.List(ctx, filter)
}

// GetAttendanceByID gets a single attendance record
func (s *AttendanceService) GetAttendanceByID(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	return record, nil
}

// ComputeStats aggregates attendance over [start, end], both ends inclusive
func (s *AttendanceService) ComputeStats(ctx context.Context, start, end time.Time) (*AttendanceStats, error) {
	records, err := s.attendanceRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	stats := &AttendanceStats{
		ByStatus:  make(map[string]int),
		StartDate: start,
		EndDate:   end,
	}
	members := make(map[uint]struct{})

	for _, r := range records {
		stats.Total++
		stats.ByStatus[r.Status]++
		members[r.MemberID] = struct{}{}
		stats.ByDayOfWeek[int(r.CheckInTime.Local().Weekday())]++
	}
	stats.DistinctMembers = len(members)

	return stats, nil
}

// applyLazyReset zeroes usage counters whose reset boundary has passed and
// advances the boundary by whole periods past now. Reports whether anything
// changed; the caller persists the profile.
func applyLazyReset(profile *models.MemberProfile, now time.Time) bool {
	changed := false

	if profile.WeeklyResetDate != nil && !now.Before(*profile.WeeklyResetDate) {
		next := *profile.WeeklyResetDate
		for !now.Before(next) {
			next = next.AddDate(0, 0, 7)
		}
		profile.DaysUsedThisWeek = 0
		profile.WeeklyResetDate = &next
		changed = true
	}

	if profile.MonthlyResetDate != nil && !now.Before(*profile.MonthlyResetDate) {
		next := *profile.MonthlyResetDate
		for !now.Before(next) {
			next = next.AddDate(0, 1, 0)
		}
		profile.DaysUsedThisMonth = 0
		profile.MonthlyResetDate = &next
		changed = true
	}

	return changed
}

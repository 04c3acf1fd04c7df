package services

import (
	"context"
	"log"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/config"

	"github.com/robfig/cron/v3"
)

// AttendanceSweepService runs the scheduled attendance maintenance jobs:
// the rolling quota reset and the no-show sweep. The lazy reset at check-in
// keeps active members correct; these sweeps catch everyone else.
type AttendanceSweepService struct {
	attendanceRepo repositories.AttendanceRepository
	profileRepo    repositories.ProfileRepository
	cfg            *config.Config
	cron           *cron.Cron
}

// NewAttendanceSweepService creates a new sweep service
func NewAttendanceSweepService(
	attendanceRepo repositories.AttendanceRepository,
	profileRepo repositories.ProfileRepository,
	cfg *config.Config,
) *AttendanceSweepService {
	return &AttendanceSweepService{
		attendanceRepo: attendanceRepo,
		profileRepo:    profileRepo,
		cfg:            cfg,
		cron:           cron.New(),
	}
}

// Start schedules the sweeps and launches the cron scheduler
func (s *AttendanceSweepService) Start() error {
	// Quota reset shortly after midnight, no-show sweep every hour
	if _, err := s.cron.AddFunc("5 0 * * *", s.RunQuotaResetSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@hourly", s.RunNoShowSweep); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 AttendanceSweepService started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *AttendanceSweepService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 AttendanceSweepService stopped")
}

// RunQuotaResetSweep zeroes usage counters for every profile whose weekly or
// monthly reset boundary has passed. Members who keep checking in are reset
// lazily at check-in; this catches the ones who stopped showing up.
func (s *AttendanceSweepService) RunQuotaResetSweep() {
	ctx := context.Background()
	now := time.Now()

	profiles, err := s.profileRepo.ListDueForReset(ctx, now)
	if err != nil {
		log.Printf("❌ Quota reset sweep query error: %v", err)
		return
	}

	reset := 0
	for i := range profiles {
		profile := &profiles[i]
		if !applyLazyReset(profile, now) {
			continue
		}
		if err := s.profileRepo.Update(ctx, profile); err != nil {
			log.Printf("❌ Quota reset failed for member %d: %v", profile.UserID, err)
			continue
		}
		reset++
	}

	if reset > 0 {
		log.Printf("🔄 Quota reset sweep: %d profile(s) rolled forward", reset)
	}
}

// RunNoShowSweep closes attendance records that have been open longer than
// the configured maximum and clears the owning profile pointers. A member
// who never checked out is assumed to have left.
func (s *AttendanceSweepService) RunNoShowSweep() {
	ctx := context.Background()
	cutoff := time.Now().Add(-time.Duration(s.cfg.Attendance.MaxOpenHours) * time.Hour)

	records, err := s.attendanceRepo.ListOpenOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("❌ No-show sweep query error: %v", err)
		return
	}

	closed := 0
	for _, record := range records {
		updates := map[string]interface{}{
			"status": models.AttendanceNoShow,
		}
		if err := s.attendanceRepo.UpdateFields(ctx, record.ID, updates); err != nil {
			log.Printf("❌ No-show close failed for attendance %d: %v", record.ID, err)
			continue
		}

		profile, err := s.profileRepo.GetByUserID(ctx, record.MemberID)
		if err == nil && profile.CurrentAttendanceID != nil && *profile.CurrentAttendanceID == record.ID {
			if err := s.profileRepo.UpdateFields(ctx, record.MemberID, map[string]interface{}{
				"current_attendance_id": nil,
			}); err != nil {
				log.Printf("❌ Pointer clear failed for member %d: %v", record.MemberID, err)
			}
		}
		closed++
	}

	if closed > 0 {
		log.Printf("🧹 No-show sweep: %d open record(s) closed", closed)
	}
}

package services

import (
	"context"
	"errors"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/catalog"
	"clubtrack/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates figures for the admin and member dashboards
type DashboardService struct {
	userRepo       repositories.UserRepository
	profileRepo    repositories.ProfileRepository
	attendanceRepo repositories.AttendanceRepository
	paymentRepo    repositories.PaymentRepository
	sessionRepo    repositories.SessionRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	attendanceRepo repositories.AttendanceRepository,
	paymentRepo repositories.PaymentRepository,
	sessionRepo repositories.SessionRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		sessionRepo:    sessionRepo,
	}
}

// AdminDashboard is the staff overview
type AdminDashboard struct {
	TotalMembers       int64            `json:"total_members"`
	ActiveMemberships  int64            `json:"active_memberships"`
	CurrentlyCheckedIn int64            `json:"currently_checked_in"`
	AttendanceToday    int64            `json:"attendance_today"`
	RevenueThisMonth   float64          `json:"revenue_this_month"`
	UpcomingSessions   []models.Session `json:"upcoming_sessions"`
}

// MemberDashboard is the member's own overview
type MemberDashboard struct {
	Profile           *models.MemberProfile        `json:"profile"`
	QuotaAllowance    int                          `json:"quota_allowance"`
	DaysRemaining     int                          `json:"days_remaining"`
	MembershipStatus  string                       `json:"membership_status"`
	CurrentAttendance *models.AttendanceRecord     `json:"current_attendance,omitempty"`
	RecentVisits      []models.AttendanceRecord    `json:"recent_visits"`
	RecentPayments    []models.PaymentRecord       `json:"recent_payments"`
	UpcomingSessions  []models.SessionRegistration `json:"upcoming_sessions"`
}

// GetAdminDashboard builds the staff overview
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totalMembers, err := s.userRepo.CountByRole(ctx, string(domain.RoleMember))
	if err != nil {
		return nil, err
	}

	activeMemberships, err := s.profileRepo.CountByMembershipStatus(ctx, catalog.StatusActive)
	if err != nil {
		return nil, err
	}

	checkedIn, err := s.attendanceRepo.CountCheckedIn(ctx)
	if err != nil {
		return nil, err
	}

	attendanceToday, err := s.attendanceRepo.CountInRange(ctx, startOfDay, startOfDay.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	revenue, err := s.paymentRepo.SumCompletedSince(ctx, startOfMonth)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.sessionRepo.ListUpcoming(ctx, now, 5)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalMembers:       totalMembers,
		ActiveMemberships:  activeMemberships,
		CurrentlyCheckedIn: checkedIn,
		AttendanceToday:    attendanceToday,
		RevenueThisMonth:   revenue,
		UpcomingSessions:   upcoming,
	}, nil
}

// GetMemberDashboard builds a member's own overview
func (s *DashboardService) GetMemberDashboard(ctx context.Context, memberID uint) (*MemberDashboard, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	dashboard := &MemberDashboard{
		Profile:          profile,
		DaysRemaining:    catalog.DaysRemaining(profile.MembershipExpiration),
		MembershipStatus: catalog.Status(profile.MembershipExpiration),
	}
	if profile.MembershipType != nil {
		dashboard.QuotaAllowance = catalog.DaysPerWeek(*profile.MembershipType)
	}

	if profile.CurrentAttendanceID != nil {
		record, err := s.attendanceRepo.GetByID(ctx, *profile.CurrentAttendanceID)
		if err == nil && record.Status == models.AttendanceCheckedIn {
			dashboard.CurrentAttendance = record
		}
	}

	visits, err := s.attendanceRepo.List(ctx, repositories.AttendanceFilter{
		MemberID: memberID,
		Limit:    10,
	})
	if err != nil {
		return nil, err
	}
	dashboard.RecentVisits = visits

	payments, err := s.paymentRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(payments) > 5 {
		payments = payments[:5]
	}
	dashboard.RecentPayments = payments

	regs, err := s.sessionRepo.ListUpcomingForUser(ctx, memberID, time.Now())
	if err != nil {
		return nil, err
	}
	dashboard.UpcomingSessions = regs

	return dashboard, nil
}

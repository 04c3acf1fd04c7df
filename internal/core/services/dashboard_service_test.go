package services

import (
	"testing"
	"time"

	"clubtrack/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(db *gorm.DB) *DashboardService {
	return NewDashboardService(
		repositories.NewUserRepository(db),
		repositories.NewProfileRepository(db),
		repositories.NewAttendanceRepository(db),
		repositories.NewPaymentRepository(db),
		repositories.NewSessionRepository(db),
	)
}

func TestGetAdminDashboard(t *testing.T) {
	db := setupTestDB(t)
	dashboardSvc := newDashboardService(db)
	attendanceSvc := NewAttendanceService(db)
	paymentSvc := NewPaymentService(db)
	sessionSvc := NewSessionService(db)

	memberA := activeMember(t, db, "unlimited")
	memberB := activeMember(t, db, "two-days-weekly")

	_, err := attendanceSvc.CheckIn(testCtx(), memberA, &CheckInInput{}, testActor)
	require.NoError(t, err)

	_, err = paymentSvc.RecordMembershipPayment(testCtx(), memberB, "two-days-weekly", &PaymentInput{}, testActor)
	require.NoError(t, err)

	seedSession(t, sessionSvc, time.Now().AddDate(0, 0, 2), 0)

	dashboard, err := dashboardSvc.GetAdminDashboard(testCtx())
	require.NoError(t, err)

	assert.EqualValues(t, 2, dashboard.TotalMembers)
	assert.EqualValues(t, 2, dashboard.ActiveMemberships)
	assert.EqualValues(t, 1, dashboard.CurrentlyCheckedIn)
	assert.EqualValues(t, 1, dashboard.AttendanceToday)
	assert.Equal(t, 20.0, dashboard.RevenueThisMonth)
	assert.Len(t, dashboard.UpcomingSessions, 1)
}

func TestGetMemberDashboard(t *testing.T) {
	db := setupTestDB(t)
	dashboardSvc := newDashboardService(db)
	attendanceSvc := NewAttendanceService(db)
	paymentSvc := NewPaymentService(db)
	sessionSvc := NewSessionService(db)

	memberID := activeMember(t, db, "three-days-weekly")

	_, err := paymentSvc.RecordMembershipPayment(testCtx(), memberID, "three-days-weekly", &PaymentInput{}, testActor)
	require.NoError(t, err)

	record, err := attendanceSvc.CheckIn(testCtx(), memberID, &CheckInInput{}, testActor)
	require.NoError(t, err)

	session := seedSession(t, sessionSvc, time.Now().AddDate(0, 0, 3), 0)
	_, err = sessionSvc.Register(testCtx(), session.ID, memberID)
	require.NoError(t, err)

	dashboard, err := dashboardSvc.GetMemberDashboard(testCtx(), memberID)
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.QuotaAllowance)
	assert.Equal(t, "active", dashboard.MembershipStatus)
	assert.Equal(t, 30, dashboard.DaysRemaining)
	require.NotNil(t, dashboard.CurrentAttendance)
	assert.Equal(t, record.ID, dashboard.CurrentAttendance.ID)
	assert.Len(t, dashboard.RecentVisits, 1)
	assert.Len(t, dashboard.RecentPayments, 1)
	assert.Len(t, dashboard.UpcomingSessions, 1)

	_, err = dashboardSvc.GetMemberDashboard(testCtx(), 999)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

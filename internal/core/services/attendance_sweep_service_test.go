package services

import (
	"testing"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSweepService(db *gorm.DB) *AttendanceSweepService {
	cfg := &config.Config{
		Attendance: config.AttendanceConfig{MaxOpenHours: 16},
	}
	return NewAttendanceSweepService(
		repositories.NewAttendanceRepository(db),
		repositories.NewProfileRepository(db),
		cfg,
	)
}

func TestNoShowSweep_ClosesStaleOpenRecords(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	sweep := newSweepService(db)

	staleID := activeMember(t, db, "unlimited")
	freshID := activeMember(t, db, "unlimited")

	staleCheckIn := time.Now().Add(-20 * time.Hour)
	staleRecord, err := svc.CheckIn(testCtx(), staleID, &CheckInInput{CheckInTime: &staleCheckIn}, testActor)
	require.NoError(t, err)

	freshRecord, err := svc.CheckIn(testCtx(), freshID, &CheckInInput{}, testActor)
	require.NoError(t, err)

	sweep.RunNoShowSweep()

	// The 20-hour-old record became a no-show and its pointer was cleared
	var got models.AttendanceRecord
	require.NoError(t, db.First(&got, staleRecord.ID).Error)
	assert.Equal(t, models.AttendanceNoShow, got.Status)

	profile := loadProfile(t, db, staleID)
	assert.Nil(t, profile.CurrentAttendanceID)

	// The fresh record is untouched
	got = models.AttendanceRecord{}
	require.NoError(t, db.First(&got, freshRecord.ID).Error)
	assert.Equal(t, models.AttendanceCheckedIn, got.Status)

	profile = loadProfile(t, db, freshID)
	require.NotNil(t, profile.CurrentAttendanceID)
	assert.Equal(t, freshRecord.ID, *profile.CurrentAttendanceID)
}

func TestNoShowSweep_TerminalStateStaysClosed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttendanceService(db)
	sweep := newSweepService(db)

	memberID := activeMember(t, db, "unlimited")
	staleCheckIn := time.Now().Add(-20 * time.Hour)
	record, err := svc.CheckIn(testCtx(), memberID, &CheckInInput{CheckInTime: &staleCheckIn}, testActor)
	require.NoError(t, err)

	sweep.RunNoShowSweep()

	// Checking out a no-show is idempotent, it does not reopen or mutate
	out, err := svc.CheckOut(testCtx(), record.ID, &CheckOutInput{}, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceNoShow, out.Status)
	assert.Nil(t, out.CheckOutTime)
}

func TestQuotaResetSweep_RollsStaleProfiles(t *testing.T) {
	db := setupTestDB(t)
	sweep := newSweepService(db)

	exp := time.Now().AddDate(0, 1, 0)
	staleWeekly := time.Now().AddDate(0, 0, -3)
	staleMonthly := time.Now().AddDate(0, 0, -1)
	staleID := seedMember(t, db, memberOpts{
		tier:          "two-days-weekly",
		status:        "active",
		expiration:    &exp,
		daysUsedWeek:  2,
		daysUsedMonth: 6,
		weeklyReset:   &staleWeekly,
		monthlyReset:  &staleMonthly,
	})

	futureWeekly := time.Now().AddDate(0, 0, 4)
	currentID := seedMember(t, db, memberOpts{
		tier:         "two-days-weekly",
		status:       "active",
		expiration:   &exp,
		daysUsedWeek: 1,
		weeklyReset:  &futureWeekly,
	})

	sweep.RunQuotaResetSweep()

	stale := loadProfile(t, db, staleID)
	assert.Equal(t, 0, stale.DaysUsedThisWeek)
	assert.Equal(t, 0, stale.DaysUsedThisMonth)
	require.NotNil(t, stale.WeeklyResetDate)
	assert.True(t, stale.WeeklyResetDate.After(time.Now()))
	require.NotNil(t, stale.MonthlyResetDate)
	assert.True(t, stale.MonthlyResetDate.After(time.Now()))

	// Profiles inside their period keep their counters
	current := loadProfile(t, db, currentID)
	assert.Equal(t, 1, current.DaysUsedThisWeek)
	require.NotNil(t, current.WeeklyResetDate)
	assert.Equal(t, futureWeekly.Unix(), current.WeeklyResetDate.Unix())
}

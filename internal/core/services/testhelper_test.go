package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a throwaway sqlite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

// testActor is the staff member performing operations in tests
var testActor = domain.Actor{ID: 99, Name: "Front Desk"}

func testCtx() context.Context {
	return context.Background()
}

var memberSeq atomic.Uint64

// memberOpts tweaks the member fixture
type memberOpts struct {
	tier           string
	status         string
	expiration     *time.Time
	daysUsedWeek   int
	daysUsedMonth  int
	weeklyReset    *time.Time
	monthlyReset   *time.Time
	skipProfile    bool
	currentAttenID *uint
}

// seedMember creates a user and profile fixture and returns the user ID
func seedMember(t *testing.T, db *gorm.DB, opts memberOpts) uint {
	t.Helper()

	user := &models.User{
		Email:            fmt.Sprintf("member-%d@test.local", memberSeq.Add(1)),
		Password:         "not-a-real-hash",
		DisplayName:      "Test Member",
		Role:             string(domain.RoleMember),
		MembershipStatus: opts.status,
		IsActive:         true,
	}
	if opts.tier != "" {
		user.MembershipType = &opts.tier
	}
	user.MembershipExpiration = opts.expiration
	require.NoError(t, db.Create(user).Error)

	if opts.skipProfile {
		return user.ID
	}

	profile := &models.MemberProfile{
		UserID:              user.ID,
		MembershipStatus:    opts.status,
		DaysUsedThisWeek:    opts.daysUsedWeek,
		DaysUsedThisMonth:   opts.daysUsedMonth,
		WeeklyResetDate:     opts.weeklyReset,
		MonthlyResetDate:    opts.monthlyReset,
		CurrentAttendanceID: opts.currentAttenID,
	}
	if opts.tier != "" {
		profile.MembershipType = &opts.tier
	}
	profile.MembershipExpiration = opts.expiration
	require.NoError(t, db.Create(profile).Error)

	return user.ID
}

// activeMember seeds a member on the given tier with a fresh, active
// membership and untouched counters
func activeMember(t *testing.T, db *gorm.DB, tier string) uint {
	t.Helper()

	exp := time.Now().AddDate(0, 0, 20)
	weekly := time.Now().AddDate(0, 0, 5)
	monthly := time.Now().AddDate(0, 0, 25)
	return seedMember(t, db, memberOpts{
		tier:         tier,
		status:       "active",
		expiration:   &exp,
		weeklyReset:  &weekly,
		monthlyReset: &monthly,
	})
}

// loadProfile reloads a member's profile
func loadProfile(t *testing.T, db *gorm.DB, memberID uint) *models.MemberProfile {
	t.Helper()

	profile, err := repositories.NewProfileRepository(db).GetByUserID(testCtx(), memberID)
	require.NoError(t, err)
	return profile
}

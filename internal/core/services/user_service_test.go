package services

import (
	"testing"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/core/domain"
	"clubtrack/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMember_CreatesUserAndProfileTogether(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	detail, err := svc.CreateMember(testCtx(), &CreateMemberInput{
		Email:       "created@test.local",
		Password:    "strongpass123",
		DisplayName: "Created Member",
		PhoneNumber: "70123456",
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.RoleMember), detail.User.Role)
	assert.Equal(t, "inactive", detail.User.MembershipStatus)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, detail.User.ID, detail.Profile.UserID)
	assert.Equal(t, "inactive", detail.Profile.MembershipStatus)
	assert.Equal(t, 0, detail.Profile.DaysUsedThisWeek)
	assert.Nil(t, detail.Profile.CurrentAttendanceID)

	// Duplicate email rejected
	_, err = svc.CreateMember(testCtx(), &CreateMemberInput{
		Email:       "created@test.local",
		Password:    "strongpass123",
		DisplayName: "Duplicate",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)

	// Weak password rejected before any row is written
	_, err = svc.CreateMember(testCtx(), &CreateMemberInput{
		Email:       "weak@test.local",
		Password:    "short",
		DisplayName: "Weak",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCreateMember_CoachRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	detail, err := svc.CreateMember(testCtx(), &CreateMemberInput{
		Email:       "coach@test.local",
		Password:    "strongpass123",
		DisplayName: "Coach",
		Role:        string(domain.RoleCoach),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleCoach), detail.User.Role)
}

func TestListUsers_RoleFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	for _, in := range []CreateMemberInput{
		{Email: "m1@test.local", Password: "strongpass123", DisplayName: "M One"},
		{Email: "m2@test.local", Password: "strongpass123", DisplayName: "M Two"},
		{Email: "c1@test.local", Password: "strongpass123", DisplayName: "C One", Role: "coach"},
	} {
		input := in
		_, err := svc.CreateMember(testCtx(), &input)
		require.NoError(t, err)
	}

	members, total, err := svc.ListUsers(testCtx(), string(domain.RoleMember), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, members, 2)

	all, total, err := svc.ListUsers(testCtx(), "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	_, _, err = svc.ListUsers(testCtx(), "superuser", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestGetMemberDetail_DerivedFigures(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	exp := time.Now().AddDate(0, 0, 10)
	memberID := seedMember(t, db, memberOpts{
		tier:       "three-days-weekly",
		status:     "active",
		expiration: &exp,
	})

	detail, err := svc.GetMemberDetail(testCtx(), memberID)
	require.NoError(t, err)
	require.NotNil(t, detail.Profile)
	assert.Equal(t, 3, detail.QuotaAllowance)
	assert.Equal(t, 10, detail.DaysRemaining)

	_, err = svc.GetMemberDetail(testCtx(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	memberID := seedMember(t, db, memberOpts{status: "inactive"})

	user, err := svc.SetRole(testCtx(), memberID, string(domain.RoleCoach))
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleCoach), user.Role)

	_, err = svc.SetRole(testCtx(), memberID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	memberID := seedMember(t, db, memberOpts{status: "inactive"})

	// No deleting yourself
	err := svc.DeleteUser(testCtx(), memberID, domain.Actor{ID: memberID, Name: "Self"})
	assert.ErrorIs(t, err, ErrSelfDelete)

	require.NoError(t, svc.DeleteUser(testCtx(), memberID, testActor))

	// Soft delete: gone from queries, row still present
	_, err = svc.GetMemberDetail(testCtx(), memberID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.User{}).
		Where("id = ?", memberID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	hashed, err := password.Hash("oldpassword1")
	require.NoError(t, err)
	memberID := seedMember(t, db, memberOpts{status: "inactive"})
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", memberID).
		Update("password", hashed).Error)

	err = svc.ChangePassword(testCtx(), memberID, &ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(testCtx(), memberID, &ChangePasswordInput{
		CurrentPassword: "oldpassword1",
		NewPassword:     "short",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = svc.ChangePassword(testCtx(), memberID, &ChangePasswordInput{
		CurrentPassword: "oldpassword1",
		NewPassword:     "newpassword1",
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, db.First(&user, memberID).Error)
	assert.True(t, password.Verify("newpassword1", user.Password))
}

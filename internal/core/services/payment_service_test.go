package services

import (
	"testing"
	"time"

	"clubtrack/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMembershipPayment_ActivatesMembership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	memberID := seedMember(t, db, memberOpts{status: "inactive"})
	paymentDate := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	record, err := svc.RecordMembershipPayment(testCtx(), memberID, "unlimited", &PaymentInput{
		PaymentDate: &paymentDate,
	}, testActor)
	require.NoError(t, err)

	// Ledger entry carries the denormalized snapshot
	assert.Equal(t, memberID, record.MemberID)
	assert.Equal(t, "Test Member", record.MemberName)
	assert.Equal(t, "unlimited", record.MembershipType)
	assert.Equal(t, "Premium", record.MembershipName)
	assert.Equal(t, 60.0, record.Amount)
	assert.Equal(t, models.PaymentMethodCash, record.PaymentMethod)
	assert.Equal(t, models.PaymentCompleted, record.Status)
	assert.NotEmpty(t, record.ReceiptNumber)
	assert.Equal(t, testActor.ID, record.RecordedByID)
	assert.Equal(t, testActor.Name, record.RecordedByName)

	// Expiration is payment date + tier duration (30 days)
	assert.Equal(t, paymentDate.AddDate(0, 0, 30).Unix(), record.ExpirationDate.Unix())

	// Identity record got activated
	var user models.User
	require.NoError(t, db.First(&user, memberID).Error)
	require.NotNil(t, user.MembershipType)
	assert.Equal(t, "unlimited", *user.MembershipType)
	assert.Equal(t, "active", user.MembershipStatus)
	require.NotNil(t, user.MembershipExpiration)
	assert.Equal(t, record.ExpirationDate.Unix(), user.MembershipExpiration.Unix())

	// Profile got the tier, zeroed counters, and boundaries off the payment date
	profile := loadProfile(t, db, memberID)
	require.NotNil(t, profile.MembershipType)
	assert.Equal(t, "unlimited", *profile.MembershipType)
	assert.Equal(t, "active", profile.MembershipStatus)
	assert.Equal(t, 0, profile.DaysUsedThisWeek)
	assert.Equal(t, 0, profile.DaysUsedThisMonth)
	require.NotNil(t, profile.WeeklyResetDate)
	assert.Equal(t, paymentDate.AddDate(0, 0, 7).Unix(), profile.WeeklyResetDate.Unix())
	require.NotNil(t, profile.MonthlyResetDate)
	assert.Equal(t, paymentDate.AddDate(0, 1, 0).Unix(), profile.MonthlyResetDate.Unix())
	require.NotNil(t, profile.LastPaymentID)
	assert.Equal(t, record.ID, *profile.LastPaymentID)
}

func TestRecordMembershipPayment_ResetsUsedQuota(t *testing.T) {
	db := setupTestDB(t)
	paymentSvc := NewPaymentService(db)
	attendanceSvc := NewAttendanceService(db)

	exp := time.Now().AddDate(0, 0, 2)
	weekly := time.Now().AddDate(0, 0, 2)
	memberID := seedMember(t, db, memberOpts{
		tier:         "two-days-weekly",
		status:       "active",
		expiration:   &exp,
		daysUsedWeek: 2,
		weeklyReset:  &weekly,
	})

	// Quota is exhausted before the payment
	_, err := attendanceSvc.CheckIn(testCtx(), memberID, &CheckInInput{}, testActor)
	require.ErrorIs(t, err, ErrWeeklyQuotaExceeded)

	_, err = paymentSvc.RecordMembershipPayment(testCtx(), memberID, "two-days-weekly", &PaymentInput{}, testActor)
	require.NoError(t, err)

	// Payment reset the counters, so the member can check in again
	record, err := attendanceSvc.CheckIn(testCtx(), memberID, &CheckInInput{}, testActor)
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceCheckedIn, record.Status)
}

func TestRecordMembershipPayment_OverridesAmountAndNormalizesTier(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	memberID := seedMember(t, db, memberOpts{status: "inactive"})

	amount := 35.0
	record, err := svc.RecordMembershipPayment(testCtx(), memberID, "Two-Days-Weekly", &PaymentInput{
		Amount:        &amount,
		PaymentMethod: models.PaymentMethodWhish,
		ReceiptNumber: "RCP-OVERRIDE",
		Notes:         "discounted renewal",
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "two-days-weekly", record.MembershipType)
	assert.Equal(t, "Basic", record.MembershipName)
	assert.Equal(t, 35.0, record.Amount)
	assert.Equal(t, models.PaymentMethodWhish, record.PaymentMethod)
	assert.Equal(t, "RCP-OVERRIDE", record.ReceiptNumber)
	assert.Equal(t, "discounted renewal", record.Notes)
}

func TestRecordMembershipPayment_Errors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	_, err := svc.RecordMembershipPayment(testCtx(), 1, "gold-plated", &PaymentInput{}, testActor)
	assert.ErrorIs(t, err, ErrUnknownMembershipTier)

	_, err = svc.RecordMembershipPayment(testCtx(), 999, "unlimited", &PaymentInput{}, testActor)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	noProfileID := seedMember(t, db, memberOpts{status: "inactive", skipProfile: true})
	_, err = svc.RecordMembershipPayment(testCtx(), noProfileID, "unlimited", &PaymentInput{}, testActor)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	memberID := seedMember(t, db, memberOpts{status: "inactive"})
	negative := -5.0
	_, err = svc.RecordMembershipPayment(testCtx(), memberID, "unlimited", &PaymentInput{Amount: &negative}, testActor)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestGetMemberPayments_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	memberID := seedMember(t, db, memberOpts{status: "inactive"})
	otherID := seedMember(t, db, memberOpts{status: "inactive"})

	for i, tier := range []string{"two-days-weekly", "unlimited"} {
		paymentDate := time.Now().AddDate(0, -i, 0)
		_, err := svc.RecordMembershipPayment(testCtx(), memberID, tier, &PaymentInput{
			PaymentDate: &paymentDate,
		}, testActor)
		require.NoError(t, err)
	}
	_, err := svc.RecordMembershipPayment(testCtx(), otherID, "coaching", &PaymentInput{}, testActor)
	require.NoError(t, err)

	payments, err := svc.GetMemberPayments(testCtx(), memberID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	// payment_date descending: the newest (two-days-weekly) first
	assert.Equal(t, "two-days-weekly", payments[0].MembershipType)
	assert.Equal(t, "unlimited", payments[1].MembershipType)

	all, total, err := svc.GetAllPayments(testCtx(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	got, err := svc.GetPaymentByID(testCtx(), payments[0].ID)
	require.NoError(t, err)
	assert.Equal(t, payments[0].ID, got.ID)

	_, err = svc.GetPaymentByID(testCtx(), 9999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

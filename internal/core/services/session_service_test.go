package services

import (
	"testing"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, svc *SessionService, date time.Time, maxParticipants int) *models.Session {
	t.Helper()

	session, err := svc.CreateSession(testCtx(), &SessionInput{
		Title:           "Evening Drills",
		Date:            date,
		Coach:           "Coach Rami",
		Type:            models.SessionTypeCoaching,
		MaxParticipants: maxParticipants,
	}, testActor)
	require.NoError(t, err)
	return session
}

func TestSessionCRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db)

	session := seedSession(t, svc, time.Now().AddDate(0, 0, 3), 10)

	got, err := svc.GetSessionByID(testCtx(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Evening Drills", got.Title)

	updated, err := svc.UpdateSession(testCtx(), session.ID, &SessionInput{
		Title:           "Morning Drills",
		Date:            session.Date,
		Coach:           "Coach Rami",
		MaxParticipants: 8,
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "Morning Drills", updated.Title)
	assert.Equal(t, 8, updated.MaxParticipants)

	require.NoError(t, svc.DeleteSession(testCtx(), session.ID, testActor))
	_, err = svc.GetSessionByID(testCtx(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions_Filters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db)

	past := seedSession(t, svc, time.Now().AddDate(0, 0, -2), 0)
	soon := seedSession(t, svc, time.Now().AddDate(0, 0, 1), 0)
	later := seedSession(t, svc, time.Now().AddDate(0, 0, 5), 0)

	upcoming, err := svc.ListSessions(testCtx(), repositories.SessionFilter{Upcoming: true})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	// Soonest first
	assert.Equal(t, soon.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)

	pastOnly, err := svc.ListSessions(testCtx(), repositories.SessionFilter{Past: true})
	require.NoError(t, err)
	require.Len(t, pastOnly, 1)
	assert.Equal(t, past.ID, pastOnly[0].ID)

	byCoach, err := svc.ListSessions(testCtx(), repositories.SessionFilter{Coach: "Coach Rami"})
	require.NoError(t, err)
	assert.Len(t, byCoach, 3)

	none, err := svc.ListSessions(testCtx(), repositories.SessionFilter{Coach: "Nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRegister_CapacityAndDuplicates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db)
	session := seedSession(t, svc, time.Now().AddDate(0, 0, 2), 2)

	userA := activeMember(t, db, "unlimited")
	userB := activeMember(t, db, "unlimited")
	userC := activeMember(t, db, "unlimited")

	regA, err := svc.Register(testCtx(), session.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, regA.Status)

	_, err = svc.Register(testCtx(), session.ID, userB)
	require.NoError(t, err)

	// Duplicate registration rejected
	_, err = svc.Register(testCtx(), session.ID, userA)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	// Session is at capacity
	_, err = svc.Register(testCtx(), session.ID, userC)
	assert.ErrorIs(t, err, ErrSessionFull)

	// Cancelling frees the spot and keeps the audit row
	require.NoError(t, svc.CancelRegistration(testCtx(), session.ID, userA))

	var cancelled models.SessionRegistration
	require.NoError(t, db.Where("session_id = ? AND user_id = ?", session.ID, userA).
		First(&cancelled).Error)
	assert.Equal(t, models.RegistrationCancelled, cancelled.Status)

	_, err = svc.Register(testCtx(), session.ID, userC)
	require.NoError(t, err)
}

func TestRegister_Errors(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db)
	userID := activeMember(t, db, "unlimited")

	_, err := svc.Register(testCtx(), 999, userID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	past := seedSession(t, svc, time.Now().AddDate(0, 0, -1), 0)
	_, err = svc.Register(testCtx(), past.ID, userID)
	assert.ErrorIs(t, err, ErrSessionInPast)

	upcoming := seedSession(t, svc, time.Now().AddDate(0, 0, 1), 0)
	err = svc.CancelRegistration(testCtx(), upcoming.ID, userID)
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestListUpcomingForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSessionService(db)
	userID := activeMember(t, db, "unlimited")

	soon := seedSession(t, svc, time.Now().AddDate(0, 0, 1), 0)
	later := seedSession(t, svc, time.Now().AddDate(0, 0, 4), 0)
	// A session the user never registered for
	seedSession(t, svc, time.Now().AddDate(0, 0, 6), 0)

	_, err := svc.Register(testCtx(), later.ID, userID)
	require.NoError(t, err)
	_, err = svc.Register(testCtx(), soon.ID, userID)
	require.NoError(t, err)

	regs, err := svc.ListUpcomingForUser(testCtx(), userID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	// Ordered by session date, soonest first, with the session preloaded
	require.NotNil(t, regs[0].Session)
	assert.Equal(t, soon.ID, regs[0].SessionID)
	assert.Equal(t, later.ID, regs[1].SessionID)
}

package repositories

import (
	"context"
	"time"

	"clubtrack/internal/adapters/persistence/models"
)

// UserRepository defines user (identity record) repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ProfileRepository defines member profile repository interface
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.MemberProfile) error
	GetByUserID(ctx context.Context, userID uint) (*models.MemberProfile, error)
	Update(ctx context.Context, profile *models.MemberProfile) error
	UpdateFields(ctx context.Context, userID uint, updates map[string]interface{}) error
	ListDueForReset(ctx context.Context, now time.Time) ([]models.MemberProfile, error)
	CountByMembershipStatus(ctx context.Context, status string) (int64, error)
}

// AttendanceFilter narrows attendance listings. Zero values mean "no filter".
type AttendanceFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
	MemberID  uint
	Limit     int
}

// AttendanceRepository defines attendance record repository interface
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error)
	UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error
	List(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]models.AttendanceRecord, error)
	ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]models.AttendanceRecord, error)
	CountCheckedIn(ctx context.Context) (int64, error)
	CountInRange(ctx context.Context, start, end time.Time) (int64, error)
}

// PaymentRepository defines payment ledger repository interface.
// The ledger is append-only: there is deliberately no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	GetByID(ctx context.Context, id uint) (*models.PaymentRecord, error)
	ListByMember(ctx context.Context, memberID uint) ([]models.PaymentRecord, error)
	List(ctx context.Context, offset, limit int) ([]models.PaymentRecord, int64, error)
	SumCompletedSince(ctx context.Context, since time.Time) (float64, error)
}

// SessionFilter narrows session listings
type SessionFilter struct {
	Upcoming bool
	Past     bool
	Coach    string
	Type     string
}

// SessionRepository defines session scheduling repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter SessionFilter) ([]models.Session, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]models.Session, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Session, error)
	CountConfirmed(ctx context.Context, sessionID uint) (int64, error)
	GetConfirmedRegistration(ctx context.Context, sessionID, userID uint) (*models.SessionRegistration, error)
	CreateRegistration(ctx context.Context, reg *models.SessionRegistration) error
	UpdateRegistration(ctx context.Context, reg *models.SessionRegistration) error
	ListUpcomingForUser(ctx context.Context, userID uint, from time.Time) ([]models.SessionRegistration, error)
}

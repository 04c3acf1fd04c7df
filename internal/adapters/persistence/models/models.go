package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Identity & Auth Tables
// ============================================================

// User represents users table (the identity record)
type User struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Email                string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password             string         `gorm:"size:255;not null" json:"-"`
	DisplayName          string         `gorm:"size:100;not null" json:"display_name"`
	PhoneNumber          string         `gorm:"size:30" json:"phone_number"`
	Role                 string         `gorm:"size:20;default:'guest'" json:"role"`
	MembershipType       *string        `gorm:"size:40" json:"membership_type"`
	MembershipStatus     string         `gorm:"size:20;default:'inactive'" json:"membership_status"`
	MembershipExpiration *time.Time     `json:"membership_expiration"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID                   uint       `json:"id"`
	Email                string     `json:"email"`
	DisplayName          string     `json:"display_name"`
	PhoneNumber          string     `json:"phone_number,omitempty"`
	Role                 string     `json:"role"`
	MembershipType       *string    `json:"membership_type,omitempty"`
	MembershipStatus     string     `json:"membership_status"`
	MembershipExpiration *time.Time `json:"membership_expiration,omitempty"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		DisplayName:          u.DisplayName,
		PhoneNumber:          u.PhoneNumber,
		Role:                 u.Role,
		MembershipType:       u.MembershipType,
		MembershipStatus:     u.MembershipStatus,
		MembershipExpiration: u.MembershipExpiration,
		IsActive:             u.IsActive,
		CreatedAt:            u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Membership Tables
// ============================================================

// MemberProfile tracks per-member membership state and usage counters.
// One row per member, keyed by user_id. Distinct from the identity record:
// the profile is what the attendance engine and payment recorder mutate.
type MemberProfile struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	MembershipType       *string    `gorm:"size:40" json:"membership_type"`
	MembershipStatus     string     `gorm:"size:20;default:'inactive'" json:"membership_status"`
	MembershipExpiration *time.Time `json:"membership_expiration"`
	DaysUsedThisWeek     int        `gorm:"default:0" json:"days_used_this_week"`
	DaysUsedThisMonth    int        `gorm:"default:0" json:"days_used_this_month"`
	WeeklyResetDate      *time.Time `json:"weekly_reset_date"`
	MonthlyResetDate     *time.Time `json:"monthly_reset_date"`
	CurrentAttendanceID  *uint      `json:"current_attendance_id"`
	LastVisit            *time.Time `json:"last_visit"`
	LastPaymentID        *uint      `json:"last_payment_id"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (MemberProfile) TableName() string {
	return "member_profiles"
}

// ============================================================
// Attendance Tables
// ============================================================

// Attendance statuses. checked-in is the only non-terminal state.
const (
	AttendanceCheckedIn  = "checked-in"
	AttendanceCheckedOut = "checked-out"
	AttendanceNoShow     = "no-show"
)

// Attendance types
const (
	AttendanceTypeRegular     = "regular"
	AttendanceTypeCoaching    = "coaching"
	AttendanceTypeEvent       = "event"
	AttendanceTypeCompetition = "competition"
)

// Check-in methods
const (
	CheckInMethodFrontDesk   = "front-desk"
	CheckInMethodSelfService = "self-service"
	CheckInMethodAdmin       = "admin"
	CheckInMethodCoach       = "coach"
)

// AttendanceRecord is one visit. Member name is frozen at creation time so
// the history stays accurate if the member is later renamed.
type AttendanceRecord struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	MemberID        uint       `gorm:"index;not null" json:"member_id"`
	MemberName      string     `gorm:"size:100;not null" json:"member_name"`
	CheckInTime     time.Time  `gorm:"index;not null" json:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Status          string     `gorm:"size:20;index;not null;default:'checked-in'" json:"status"`
	AttendanceType  string     `gorm:"size:20;not null;default:'regular'" json:"attendance_type"`
	CheckInMethod   string     `gorm:"size:20;not null;default:'front-desk'" json:"check_in_method"`
	Notes           string     `gorm:"type:text" json:"notes"`

	CheckedInByID   uint      `gorm:"not null" json:"checked_in_by_id"`
	CheckedInByName string    `gorm:"size:100" json:"checked_in_by_name"`
	CheckedInAt     time.Time `json:"checked_in_at"`

	CheckedOutByID   *uint      `json:"checked_out_by_id"`
	CheckedOutByName string     `gorm:"size:100" json:"checked_out_by_name"`
	CheckedOutAt     *time.Time `json:"checked_out_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// IsTerminal reports whether the record can no longer transition.
func (a *AttendanceRecord) IsTerminal() bool {
	return a.Status == AttendanceCheckedOut || a.Status == AttendanceNoShow
}

// ============================================================
// Payment Tables
// ============================================================

// Payment statuses
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentCanceled  = "canceled"
)

// Payment methods
const (
	PaymentMethodCash  = "cash"
	PaymentMethodWhish = "whish"
	PaymentMethodOther = "other"
)

// PaymentRecord is an append-only ledger entry. There is no update path:
// corrections go in as new entries.
type PaymentRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MemberID       uint      `gorm:"index;not null" json:"member_id"`
	MemberName     string    `gorm:"size:100;not null" json:"member_name"`
	MembershipType string    `gorm:"size:40;not null" json:"membership_type"`
	MembershipName string    `gorm:"size:60;not null" json:"membership_name"`
	Amount         float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod  string    `gorm:"size:20;not null" json:"payment_method"`
	PaymentDate    time.Time `gorm:"index;not null" json:"payment_date"`
	ExpirationDate time.Time `gorm:"not null" json:"expiration_date"`
	Status         string    `gorm:"size:20;not null;default:'completed'" json:"status"`
	Notes          string    `gorm:"type:text" json:"notes"`
	ReceiptNumber  string    `gorm:"size:40" json:"receipt_number"`
	RecordedByID   uint      `gorm:"not null" json:"recorded_by_id"`
	RecordedByName string    `gorm:"size:100" json:"recorded_by_name"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}

// ============================================================
// Session Tables
// ============================================================

// Session types
const (
	SessionTypeCoaching = "coaching"
	SessionTypeOpenPlay = "open-play"
	SessionTypeEvent    = "event"
)

// Registration statuses
const (
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Session is a scheduled club session members can register for.
type Session struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:150;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Date            time.Time      `gorm:"index;not null" json:"date"`
	Coach           string         `gorm:"size:100;not null" json:"coach"`
	Type            string         `gorm:"size:20;not null;default:'open-play'" json:"type"`
	Location        string         `gorm:"size:150" json:"location"`
	MaxParticipants int            `gorm:"default:0" json:"max_participants"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Registrations []SessionRegistration `gorm:"foreignKey:SessionID" json:"registrations,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// SessionRegistration is the audit record for a member's spot in a session.
type SessionRegistration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    uint      `gorm:"index;not null" json:"session_id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Status       string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`
	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Session *Session `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
}

func (SessionRegistration) TableName() string {
	return "session_registrations"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&MemberProfile{},
		&AttendanceRecord{},
		&PaymentRecord{},
		&Session{},
		&SessionRegistration{},
	)
}

package repositories

import (
	"context"
	"time"

	"clubtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create creates a new session
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID gets a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Update saves the full session
func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// Delete soft-deletes a session
func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Session{}, id).Error
}

// List returns sessions matching the filter. Upcoming sessions sort soonest
// first, everything else newest first.
func (r *sessionRepository) List(ctx context.Context, filter SessionFilter) ([]models.Session, error) {
	query := r.db.WithContext(ctx).Model(&models.Session{})
	order := "date DESC"

	now := time.Now()
	if filter.Upcoming {
		query = query.Where("date >= ?", now)
		order = "date ASC"
	}
	if filter.Past {
		query = query.Where("date < ?", now)
	}
	if filter.Coach != "" {
		query = query.Where("coach = ?", filter.Coach)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var sessions []models.Session
	err := query.Order(order).Find(&sessions).Error
	return sessions, err
}

// ListInRange returns sessions dated in [start, end)
func (r *sessionRepository) ListInRange(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&sessions).Error
	return sessions, err
}

// ListUpcoming returns the next sessions from the given time, soonest first
func (r *sessionRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Session, error) {
	query := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Order("date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var sessions []models.Session
	err := query.Find(&sessions).Error
	return sessions, err
}

// CountConfirmed counts confirmed registrations for a session
func (r *sessionRepository) CountConfirmed(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SessionRegistration{}).
		Where("session_id = ? AND status = ?", sessionID, models.RegistrationConfirmed).
		Count(&count).Error
	return count, err
}

// GetConfirmedRegistration finds a user's confirmed registration for a session
func (r *sessionRepository) GetConfirmedRegistration(ctx context.Context, sessionID, userID uint) (*models.SessionRegistration, error) {
	var reg models.SessionRegistration
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ? AND status = ?", sessionID, userID, models.RegistrationConfirmed).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateRegistration creates a new session registration
func (r *sessionRepository) CreateRegistration(ctx context.Context, reg *models.SessionRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

// UpdateRegistration saves the full registration
func (r *sessionRepository) UpdateRegistration(ctx context.Context, reg *models.SessionRegistration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

// ListUpcomingForUser returns a user's confirmed registrations for sessions
// from the given time on, with the session preloaded.
func (r *sessionRepository) ListUpcomingForUser(ctx context.Context, userID uint, from time.Time) ([]models.SessionRegistration, error) {
	var regs []models.SessionRegistration
	err := r.db.WithContext(ctx).
		Preload("Session").
		Joins("JOIN sessions ON sessions.id = session_registrations.session_id").
		Where("session_registrations.user_id = ? AND session_registrations.status = ? AND sessions.date >= ?",
			userID, models.RegistrationConfirmed, from).
		Order("sessions.date ASC").
		Find(&regs).Error
	return regs, err
}

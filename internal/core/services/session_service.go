package services

import (
	"context"
	"errors"
	"log"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/domain"

	"gorm.io/gorm"
)

// Session errors
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionFull          = errors.New("session is full")
	ErrSessionInPast        = errors.New("session has already taken place")
	ErrAlreadyRegistered    = errors.New("already registered for this session")
	ErrRegistrationNotFound = errors.New("no confirmed registration for this session")
)

// SessionService handles scheduled session management and registration
type SessionService struct {
	db          *gorm.DB
	sessionRepo repositories.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{
		db:          db,
		sessionRepo: repositories.NewSessionRepository(db),
	}
}

// SessionInput represents session create/update request
type SessionInput struct {
	Title           string    `json:"title" validate:"required,min=2,max=150"`
	Description     string    `json:"description" validate:"omitempty,max=2000"`
	Date            time.Time `json:"date" validate:"required"`
	Coach           string    `json:"coach" validate:"required,max=100"`
	Type            string    `json:"type" validate:"omitempty,oneof=coaching open-play event"`
	Location        string    `json:"location" validate:"omitempty,max=150"`
	MaxParticipants int       `json:"max_participants" validate:"omitempty,gte=0"`
}

// CreateSession creates a new scheduled session
func (s *SessionService) CreateSession(ctx context.Context, input *SessionInput, actor domain.Actor) (*models.Session, error) {
	sessionType := input.Type
	if sessionType == "" {
		sessionType = models.SessionTypeOpenPlay
	}

	session := &models.Session{
		Title:           input.Title,
		Description:     input.Description,
		Date:            input.Date,
		Coach:           input.Coach,
		Type:            sessionType,
		Location:        input.Location,
		MaxParticipants: input.MaxParticipants,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("✅ Session created: %q on %s by %s", session.Title,
		session.Date.Format("2006-01-02 15:04"), actor.Name)
	return session, nil
}

// GetSessionByID gets a session by ID
func (s *SessionService) GetSessionByID(ctx context.Context, id uint) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// UpdateSession updates a session
func (s *SessionService) UpdateSession(ctx context.Context, id uint, input *SessionInput, actor domain.Actor) (*models.Session, error) {
	session, err := s.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Title = input.Title
	session.Description = input.Description
	session.Date = input.Date
	session.Coach = input.Coach
	if input.Type != "" {
		session.Type = input.Type
	}
	session.Location = input.Location
	session.MaxParticipants = input.MaxParticipants

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("✅ Session updated: %d by %s", session.ID, actor.Name)
	return session, nil
}

// DeleteSession soft-deletes a session
func (s *SessionService) DeleteSession(ctx context.Context, id uint, actor domain.Actor) error {
	if _, err := s.GetSessionByID(ctx, id); err != nil {
		return err
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("🗑️ Session deleted: %d by %s", id, actor.Name)
	return nil
}

// ListSessions returns sessions matching the filter
func (s *SessionService) ListSessions(ctx context.Context, filter repositories.SessionFilter) ([]models.Session, error) {
	return s.sessionRepo.List(ctx, filter)
}

// ListSessionsInRange returns sessions dated in [start, end)
func (s *SessionService) ListSessionsInRange(ctx context.Context, start, end time.Time) ([]models.Session, error) {
	return s.sessionRepo.ListInRange(ctx, start, end)
}

// Register registers a user for a session, enforcing capacity and the
// one-confirmed-registration rule in a transaction.
func (s *SessionService) Register(ctx context.Context, sessionID, userID uint) (*models.SessionRegistration, error) {
	var reg *models.SessionRegistration

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessionRepo := repositories.NewSessionRepository(tx)

		// 1. Load session
		session, err := sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		// 2. No registering for past sessions
		if session.Date.Before(time.Now()) {
			return ErrSessionInPast
		}

		// 3. Reject duplicates
		if _, err := sessionRepo.GetConfirmedRegistration(ctx, sessionID, userID); err == nil {
			return ErrAlreadyRegistered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 4. Enforce capacity (0 means unlimited)
		if session.MaxParticipants > 0 {
			confirmed, err := sessionRepo.CountConfirmed(ctx, sessionID)
			if err != nil {
				return err
			}
			if confirmed >= int64(session.MaxParticipants) {
				return ErrSessionFull
			}
		}

		// 5. Create registration
		reg = &models.SessionRegistration{
			SessionID: sessionID,
			UserID:    userID,
			Status:    models.RegistrationConfirmed,
		}
		return sessionRepo.CreateRegistration(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Registration: user %d → session %d", userID, sessionID)
	return reg, nil
}

// CancelRegistration cancels a user's confirmed registration. The record is
// kept with status cancelled as an audit trail.
func (s *SessionService) CancelRegistration(ctx context.Context, sessionID, userID uint) error {
	reg, err := s.sessionRepo.GetConfirmedRegistration(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}

	reg.Status = models.RegistrationCancelled
	if err := s.sessionRepo.UpdateRegistration(ctx, reg); err != nil {
		return err
	}

	log.Printf("✅ Registration cancelled: user %d, session %d", userID, sessionID)
	return nil
}

// ListUpcomingForUser returns a user's confirmed upcoming registrations
func (s *SessionService) ListUpcomingForUser(ctx context.Context, userID uint) ([]models.SessionRegistration, error) {
	return s.sessionRepo.ListUpcomingForUser(ctx, userID, time.Now())
}

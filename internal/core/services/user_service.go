package services

import (
	"context"
	"errors"
	"log"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/catalog"
	"clubtrack/internal/core/domain"
	"clubtrack/internal/pkg/password"

	"gorm.io/gorm"
)

// User management errors
var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrSelfDelete    = errors.New("cannot delete your own account")
)

// UserService handles user and member management
type UserService struct {
	db          *gorm.DB
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:          db,
		userRepo:    repositories.NewUserRepository(db),
		profileRepo: repositories.NewProfileRepository(db),
	}
}

// CreateMemberInput represents staff-side member registration
type CreateMemberInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
	Role        string `json:"role" validate:"omitempty,oneof=member coach"`
}

// UpdateUserInput represents a user update (admin or self-service)
type UpdateUserInput struct {
	DisplayName string `json:"display_name" validate:"omitempty,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
}

// ChangePasswordInput represents a password change request
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// MemberDetail bundles the identity record with its profile
type MemberDetail struct {
	User    *models.UserResponse  `json:"user"`
	Profile *models.MemberProfile `json:"profile,omitempty"`
	// QuotaAllowance is the tier's days per week, 0 when no tier is set.
	QuotaAllowance int `json:"quota_allowance"`
	// DaysRemaining until the membership expires, 0 when expired or unset.
	DaysRemaining int `json:"days_remaining"`
}

// CreateMember registers a member (or coach) and their profile in one
// transaction. Membership starts inactive until a payment is recorded.
func (s *UserService) CreateMember(ctx context.Context, input *CreateMemberInput) (*MemberDetail, error) {
	// 1. Check password strength
	if err := password.Validate(input.Password); err != nil {
		return nil, ErrWeakPassword
	}

	// 2. Check email availability
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyUsed
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = string(domain.RoleMember)
	}

	var user *models.User
	var profile *models.MemberProfile

	// 4. Create user and profile together
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		profileRepo := repositories.NewProfileRepository(tx)

		user = &models.User{
			Email:            input.Email,
			Password:         hashedPassword,
			DisplayName:      input.DisplayName,
			PhoneNumber:      input.PhoneNumber,
			Role:             role,
			MembershipStatus: catalog.StatusInactive,
			IsActive:         true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}

		profile = &models.MemberProfile{
			UserID:           user.ID,
			MembershipStatus: catalog.StatusInactive,
		}
		return profileRepo.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Member created: %s (role: %s)", user.Email, user.Role)

	return &MemberDetail{User: user.ToResponse(), Profile: profile}, nil
}

// ListUsers returns a page of users, optionally filtered by role
func (s *UserService) ListUsers(ctx context.Context, role string, offset, limit int) ([]*models.User, int64, error) {
	if role != "" && !domain.Role(role).Valid() {
		return nil, 0, ErrInvalidRole
	}
	return s.userRepo.List(ctx, role, offset, limit)
}

// GetMemberDetail returns the user together with their profile and derived
// membership figures. Users without a profile (guests, staff) come back with
// a nil profile.
func (s *UserService) GetMemberDetail(ctx context.Context, userID uint) (*MemberDetail, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	detail := &MemberDetail{User: user.ToResponse()}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail, nil
		}
		return nil, err
	}

	detail.Profile = profile
	if profile.MembershipType != nil {
		detail.QuotaAllowance = catalog.DaysPerWeek(*profile.MembershipType)
	}
	detail.DaysRemaining = catalog.DaysRemaining(profile.MembershipExpiration)

	return detail, nil
}

// UpdateUser updates mutable identity fields
func (s *UserService) UpdateUser(ctx context.Context, userID uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User updated: %s", user.Email)
	return user, nil
}

// SetRole changes a user's role
func (s *UserService) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	if !domain.Role(role).Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"role": role,
	}); err != nil {
		return nil, err
	}
	user.Role = role

	log.Printf("✅ Role changed: %s → %s", user.Email, role)
	return user, nil
}

// DeleteUser soft-deletes a user. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, userID uint, actor domain.Actor) error {
	if userID == actor.ID {
		return ErrSelfDelete
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	log.Printf("🗑️ User deleted: ID %d by %s", userID, actor.Name)
	return nil
}

// ChangePassword verifies the current password and sets a new one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	// 1. Load user
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 2. Verify current password
	if !password.Verify(input.CurrentPassword, user.Password) {
		return ErrWrongPassword
	}

	// 3. Check new password strength
	if err := password.Validate(input.NewPassword); err != nil {
		return ErrWeakPassword
	}

	// 4. Hash and store
	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password": hashedPassword,
	}); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user ID: %d", userID)
	return nil
}

package repositories

import (
	"context"
	"time"

	"clubtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// profileRepository implements ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new member profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new member profile
func (r *profileRepository) Create(ctx context.Context, profile *models.MemberProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// GetByUserID gets a profile by the owning user's ID
func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.MemberProfile, error) {
	var profile models.MemberProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves the full profile
func (r *profileRepository) Update(ctx context.Context, profile *models.MemberProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// UpdateFields partially updates a profile by the owning user's ID
func (r *profileRepository) UpdateFields(ctx context.Context, userID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.MemberProfile{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

// ListDueForReset returns profiles whose weekly or monthly reset boundary has
// passed while usage counters are still non-zero.
func (r *profileRepository) ListDueForReset(ctx context.Context, now time.Time) ([]models.MemberProfile, error) {
	var profiles []models.MemberProfile
	err := r.db.WithContext(ctx).
		Where("(weekly_reset_date IS NOT NULL AND weekly_reset_date <= ? AND days_used_this_week > 0) OR "+
			"(monthly_reset_date IS NOT NULL AND monthly_reset_date <= ? AND days_used_this_month > 0)",
			now, now).
		Find(&profiles).Error
	return profiles, err
}

// CountByMembershipStatus counts profiles with a given membership status
func (r *profileRepository) CountByMembershipStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MemberProfile{}).
		Where("membership_status = ?", status).
		Count(&count).Error
	return count, err
}

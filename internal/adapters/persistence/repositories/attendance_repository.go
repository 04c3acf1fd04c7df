package repositories

import (
	"context"
	"time"

	"clubtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// attendanceRepository implements AttendanceRepository interface
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create creates a new attendance record
func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets an attendance record by ID
func (r *attendanceRepository) GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateFields partially updates an attendance record
func (r *attendanceRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// List returns attendance records matching the filter, newest first
func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, error) {
	query := r.db.WithContext(ctx).Model(&models.AttendanceRecord{})

	if filter.StartDate != nil {
		query = query.Where("check_in_time >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("check_in_time < ?", *filter.EndDate)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MemberID != 0 {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []models.AttendanceRecord
	err := query.Order("check_in_time DESC").Find(&records).Error
	return records, err
}

// ListInRange returns all records with a check-in time in [start, end].
// The range is inclusive on both ends: a record stamped exactly at end counts.
func (r *attendanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("check_in_time >= ? AND check_in_time <= ?", start, end).
		Order("check_in_time DESC").
		Find(&records).Error
	return records, err
}

// ListOpenOlderThan returns still-open records that checked in before cutoff.
// Used by the no-show sweep.
func (r *attendanceRepository) ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND check_in_time < ?", models.AttendanceCheckedIn, cutoff).
		Order("check_in_time ASC").
		Find(&records).Error
	return records, err
}

// CountCheckedIn counts members currently on the floor
func (r *attendanceRepository) CountCheckedIn(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("status = ?", models.AttendanceCheckedIn).
		Count(&count).Error
	return count, err
}

// CountInRange counts records with a check-in time in [start, end)
func (r *attendanceRepository) CountInRange(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("check_in_time >= ? AND check_in_time < ?", start, end).
		Count(&count).Error
	return count, err
}

package repositories

import (
	"context"
	"time"

	"clubtrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment ledger repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create appends a new entry to the payment ledger
func (r *paymentRepository) Create(ctx context.Context, record *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a ledger entry by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByMember returns a member's payments, newest first
func (r *paymentRepository) ListByMember(ctx context.Context, memberID uint) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("payment_date DESC").
		Find(&records).Error
	return records, err
}

// List returns a page of the ledger, newest first, with the total count
func (r *paymentRepository) List(ctx context.Context, offset, limit int) ([]models.PaymentRecord, int64, error) {
	var records []models.PaymentRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("payment_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

// SumCompletedSince totals completed payments dated at or after since
func (r *paymentRepository) SumCompletedSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Where("status = ? AND payment_date >= ?", models.PaymentCompleted, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

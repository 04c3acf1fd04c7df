package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"clubtrack/internal/adapters/persistence/models"
	"clubtrack/internal/adapters/persistence/repositories"
	"clubtrack/internal/core/catalog"
	"clubtrack/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment errors
var (
	ErrPaymentNotFound       = errors.New("payment record not found")
	ErrUnknownMembershipTier = errors.New("unknown membership tier")
	ErrInvalidAmount         = errors.New("payment amount must not be negative")
)

// PaymentService records membership payments. Each payment updates three
// rows (ledger entry, identity record, member profile) inside one
// transaction so readers never see a partial payment.
type PaymentService struct {
	db          *gorm.DB
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: repositories.NewPaymentRepository(db),
		userRepo:    repositories.NewUserRepository(db),
		profileRepo: repositories.NewProfileRepository(db),
	}
}

// PaymentInput represents a membership payment request
type PaymentInput struct {
	Amount        *float64   `json:"amount" validate:"omitempty,gte=0"`
	PaymentMethod string     `json:"payment_method" validate:"omitempty,oneof=cash whish other"`
	PaymentDate   *time.Time `json:"payment_date"`
	Notes         string     `json:"notes" validate:"omitempty,max=500"`
	ReceiptNumber string     `json:"receipt_number" validate:"omitempty,max=40"`
}

// RecordMembershipPayment records a payment for a membership tier, activates
// the membership and resets the member's usage counters.
func (s *PaymentService) RecordMembershipPayment(ctx context.Context, memberID uint, tierID string, input *PaymentInput, actor domain.Actor) (*models.PaymentRecord, error) {
	// 1. Resolve tier
	tier, ok := catalog.TierByID(tierID)
	if !ok {
		return nil, ErrUnknownMembershipTier
	}

	// 2. Resolve amount, method, dates outside the tx
	amount := tier.Price
	if input.Amount != nil {
		if *input.Amount < 0 {
			return nil, ErrInvalidAmount
		}
		amount = *input.Amount
	}
	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}
	expirationDate, err := catalog.Expiration(tier.ID, paymentDate)
	if err != nil {
		return nil, ErrUnknownMembershipTier
	}
	receiptNumber := input.ReceiptNumber
	if receiptNumber == "" {
		receiptNumber = fmt.Sprintf("RCP-%s", uuid.New().String()[:8])
	}

	var record *models.PaymentRecord

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repositories.NewUserRepository(tx)
		profileRepo := repositories.NewProfileRepository(tx)
		paymentRepo := repositories.NewPaymentRepository(tx)

		// 3. Load member identity and profile
		user, err := userRepo.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		if _, err := profileRepo.GetByUserID(ctx, memberID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return err
		}

		// 4. Append the ledger entry
		record = &models.PaymentRecord{
			MemberID:       memberID,
			MemberName:     user.DisplayName,
			MembershipType: tier.ID,
			MembershipName: tier.Name,
			Amount:         amount,
			PaymentMethod:  method,
			PaymentDate:    paymentDate,
			ExpirationDate: expirationDate,
			Status:         models.PaymentCompleted,
			Notes:          input.Notes,
			ReceiptNumber:  receiptNumber,
			RecordedByID:   actor.ID,
			RecordedByName: actor.Name,
		}
		if err := paymentRepo.Create(ctx, record); err != nil {
			return err
		}

		// 5. Activate the membership on the identity record
		membershipType := tier.ID
		if err := userRepo.UpdateFields(ctx, memberID, map[string]interface{}{
			"membership_type":       membershipType,
			"membership_status":     catalog.StatusActive,
			"membership_expiration": expirationDate,
		}); err != nil {
			return err
		}

		// 6. Update the profile: fresh tier, counters back to zero, reset
		// boundaries anchored at the payment date
		weeklyReset := paymentDate.AddDate(0, 0, 7)
		monthlyReset := paymentDate.AddDate(0, 1, 0)
		return profileRepo.UpdateFields(ctx, memberID, map[string]interface{}{
			"membership_type":       membershipType,
			"membership_status":     catalog.StatusActive,
			"membership_expiration": expirationDate,
			"days_used_this_week":   0,
			"days_used_this_month":  0,
			"weekly_reset_date":     weeklyReset,
			"monthly_reset_date":    monthlyReset,
			"last_payment_id":       record.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Payment recorded: member %d, tier %s, amount %.2f by %s",
		memberID, tier.ID, amount, actor.Name)
	return record, nil
}

// GetMemberPayments returns a member's payment history, newest first
func (s *PaymentService) GetMemberPayments(ctx context.Context, memberID uint) ([]models.PaymentRecord, error) {
	return s.paymentRepo.ListByMember(ctx, memberID)
}

// GetAllPayments returns a page of the payment ledger, newest first
func (s *PaymentService) GetAllPayments(ctx context.Context, offset, limit int) ([]models.PaymentRecord, int64, error) {
	return s.paymentRepo.List(ctx, offset, limit)
}

// GetPaymentByID gets a single ledger entry
func (s *PaymentService) GetPaymentByID(ctx context.Context, id uint) (*models.PaymentRecord, error) {
	record, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return record, nil
}

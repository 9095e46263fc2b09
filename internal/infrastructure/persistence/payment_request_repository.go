package persistence

import (
	"context"
	"errors"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/shared"
	"github.com/ffe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRequestRepository implements PaymentRequestRepository using GORM
type GormPaymentRequestRepository struct {
	db *gorm.DB
}

// NewGormPaymentRequestRepository creates a new GormPaymentRequestRepository
func NewGormPaymentRequestRepository(db *gorm.DB) *GormPaymentRequestRepository {
	return &GormPaymentRequestRepository{db: db}
}

// FindByID finds a payment request with its spends in entry order
func (r *GormPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.PaymentRequest, error) {
	var model models.PaymentRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Spends", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save writes the payment request and replaces its spends in one transaction
func (r *GormPaymentRequestRepository) Save(ctx context.Context, pr *funding.PaymentRequest) error {
	model := models.PaymentRequestModelFromDomain(pr)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("payment_request_id = ?", model.ID).Delete(&models.SpendModel{}).Error; err != nil {
			return err
		}
		if len(model.Spends) == 0 {
			return nil
		}
		return tx.Create(&model.Spends).Error
	})
}

// Ensure GormPaymentRequestRepository implements PaymentRequestRepository
var _ funding.PaymentRequestRepository = (*GormPaymentRequestRepository)(nil)

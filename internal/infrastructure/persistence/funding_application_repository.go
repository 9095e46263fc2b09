package persistence

import (
	"context"
	"errors"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/shared"
	"github.com/ffe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFundingApplicationRepository implements FundingApplicationRepository using GORM
type GormFundingApplicationRepository struct {
	db *gorm.DB
}

// NewGormFundingApplicationRepository creates a new GormFundingApplicationRepository
func NewGormFundingApplicationRepository(db *gorm.DB) *GormFundingApplicationRepository {
	return &GormFundingApplicationRepository{db: db}
}

// FindByID finds a funding application by ID
func (r *GormFundingApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.FundingApplication, error) {
	var model models.FundingApplicationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a funding application
func (r *GormFundingApplicationRepository) Save(ctx context.Context, app *funding.FundingApplication) error {
	model := models.FundingApplicationModelFromDomain(app)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormLegalSignatoryRepository implements LegalSignatoryRepository using GORM
type GormLegalSignatoryRepository struct {
	db *gorm.DB
}

// NewGormLegalSignatoryRepository creates a new GormLegalSignatoryRepository
func NewGormLegalSignatoryRepository(db *gorm.DB) *GormLegalSignatoryRepository {
	return &GormLegalSignatoryRepository{db: db}
}

// FindByApplication returns the signatories of an application in the order they were added
func (r *GormLegalSignatoryRepository) FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]*funding.LegalSignatory, error) {
	var signatoryModels []*models.LegalSignatoryModel
	if err := r.db.WithContext(ctx).
		Where("funding_application_id = ?", applicationID).
		Order("created_at ASC, id ASC").
		Find(&signatoryModels).Error; err != nil {
		return nil, err
	}

	signatories := make([]*funding.LegalSignatory, len(signatoryModels))
	for i, model := range signatoryModels {
		signatories[i] = model.ToDomain()
	}
	return signatories, nil
}

// Save creates or updates a legal signatory
func (r *GormLegalSignatoryRepository) Save(ctx context.Context, signatory *funding.LegalSignatory) error {
	model := models.LegalSignatoryModelFromDomain(signatory)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a legal signatory
func (r *GormLegalSignatoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LegalSignatoryModel{}, "id = ?", id).Error
}

// Ensure the GORM repositories implement the funding interfaces
var (
	_ funding.FundingApplicationRepository = (*GormFundingApplicationRepository)(nil)
	_ funding.LegalSignatoryRepository     = (*GormLegalSignatoryRepository)(nil)
)

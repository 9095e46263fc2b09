package persistence

import (
	"context"
	"errors"

	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/domain/shared"
	"github.com/ffe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganisationRepository implements OrganisationRepository using GORM
type GormOrganisationRepository struct {
	db *gorm.DB
}

// NewGormOrganisationRepository creates a new GormOrganisationRepository
func NewGormOrganisationRepository(db *gorm.DB) *GormOrganisationRepository {
	return &GormOrganisationRepository{db: db}
}

// FindByID finds an organisation by ID
func (r *GormOrganisationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organisation.Organisation, error) {
	var model models.OrganisationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the organisation a user belongs to
func (r *GormOrganisationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*organisation.Organisation, error) {
	var model models.OrganisationModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.organisation_id = organisations.id").
		Where("users.id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLinked returns a page of organisations that hold a Salesforce account id
func (r *GormOrganisationRepository) FindLinked(ctx context.Context, limit, offset int) ([]*organisation.Organisation, error) {
	var orgModels []*models.OrganisationModel
	if err := r.db.WithContext(ctx).
		Where("salesforce_account_id IS NOT NULL AND salesforce_account_id <> ''").
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&orgModels).Error; err != nil {
		return nil, err
	}

	orgs := make([]*organisation.Organisation, len(orgModels))
	for i, model := range orgModels {
		orgs[i] = model.ToDomain()
	}
	return orgs, nil
}

// Save creates or updates an organisation
func (r *GormOrganisationRepository) Save(ctx context.Context, org *organisation.Organisation) error {
	model := models.OrganisationModelFromDomain(org)
	return r.db.WithContext(ctx).Save(model).Error
}

// LinkUser makes the user a member of the organisation
func (r *GormOrganisationRepository) LinkUser(ctx context.Context, orgID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("organisation_id", orgID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormOrganisationRepository implements OrganisationRepository
var _ organisation.OrganisationRepository = (*GormOrganisationRepository)(nil)

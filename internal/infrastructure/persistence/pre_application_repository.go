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

// GormPreApplicationRepository implements PreApplicationRepository using GORM
type GormPreApplicationRepository struct {
	db *gorm.DB
}

// NewGormPreApplicationRepository creates a new GormPreApplicationRepository
func NewGormPreApplicationRepository(db *gorm.DB) *GormPreApplicationRepository {
	return &GormPreApplicationRepository{db: db}
}

// FindByID finds a pre-application with its enquiry and expression of interest
func (r *GormPreApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.PreApplication, error) {
	var model models.PreApplicationModel
	if err := r.db.WithContext(ctx).
		Preload("ProjectEnquiry").
		Preload("ExpressionOfInterest").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save writes the pre-application and its forms in one transaction
func (r *GormPreApplicationRepository) Save(ctx context.Context, pa *funding.PreApplication) error {
	model := models.PreApplicationModelFromDomain(pa)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if model.ProjectEnquiry != nil {
			if err := tx.Save(model.ProjectEnquiry).Error; err != nil {
				return err
			}
		}
		if model.ExpressionOfInterest != nil {
			if err := tx.Save(model.ExpressionOfInterest).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormPreApplicationRepository implements PreApplicationRepository
var _ funding.PreApplicationRepository = (*GormPreApplicationRepository)(nil)

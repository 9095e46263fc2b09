package persistence

import (
	"context"
	"errors"

	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/domain/shared"
	"github.com/ffe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChangesCheckRepository implements ChangesCheckRepository using GORM
type GormChangesCheckRepository struct {
	db *gorm.DB
}

// NewGormChangesCheckRepository creates a new GormChangesCheckRepository
func NewGormChangesCheckRepository(db *gorm.DB) *GormChangesCheckRepository {
	return &GormChangesCheckRepository{db: db}
}

// FindByRecord finds the check row for a record
func (r *GormChangesCheckRepository) FindByRecord(ctx context.Context, recordID uuid.UUID, recordType string) (*organisation.SalesforceChangesCheck, error) {
	var model models.SalesforceChangesCheckModel
	if err := r.db.WithContext(ctx).
		Where("record_id = ? AND record_type = ?", recordID, recordType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts the check or moves the checked time of the existing row.
// The row keeps its original ID and CreatedAt on conflict.
func (r *GormChangesCheckRepository) Upsert(ctx context.Context, check *organisation.SalesforceChangesCheck) error {
	model := models.SalesforceChangesCheckModelFromDomain(check)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}, {Name: "record_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"time_salesforce_checked", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure GormChangesCheckRepository implements ChangesCheckRepository
var _ organisation.ChangesCheckRepository = (*GormChangesCheckRepository)(nil)

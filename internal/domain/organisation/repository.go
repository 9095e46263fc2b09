package organisation

import (
	"context"

	"github.com/google/uuid"
)

// OrganisationRepository persists organisations
type OrganisationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organisation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Organisation, error)
	// FindLinked returns organisations with a Salesforce account id, oldest first
	FindLinked(ctx context.Context, limit, offset int) ([]*Organisation, error)
	Save(ctx context.Context, org *Organisation) error
	LinkUser(ctx context.Context, orgID, userID uuid.UUID) error
}

// ChangesCheckRepository persists the once-per-day pull throttle
type ChangesCheckRepository interface {
	// FindByRecord returns shared.ErrNotFound when the record has never been pulled
	FindByRecord(ctx context.Context, recordID uuid.UUID, recordType string) (*SalesforceChangesCheck, error)
	// Upsert inserts the row or updates TimeSalesforceChecked on (record_id, record_type)
	Upsert(ctx context.Context, check *SalesforceChangesCheck) error
}

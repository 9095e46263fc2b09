package organisation

import (
	"time"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesforceChangesCheck records when a record was last refreshed from the CRM.
// There is at most one row per (RecordID, RecordType).
type SalesforceChangesCheck struct {
	ID                    uuid.UUID
	RecordID              uuid.UUID
	RecordType            string
	TimeSalesforceChecked time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewSalesforceChangesCheck creates a check row for a record pulled at checkedAt
func NewSalesforceChangesCheck(recordID uuid.UUID, recordType string, checkedAt time.Time) *SalesforceChangesCheck {
	return &SalesforceChangesCheck{
		ID:                    uuid.New(),
		RecordID:              recordID,
		RecordType:            recordType,
		TimeSalesforceChecked: checkedAt,
		CreatedAt:             checkedAt,
		UpdatedAt:             checkedAt,
	}
}

// CheckedOn reports whether the record was pulled on the same calendar day as day
func (c *SalesforceChangesCheck) CheckedOn(day time.Time) bool {
	if c == nil {
		return false
	}
	return shared.SameDay(day, c.TimeSalesforceChecked)
}

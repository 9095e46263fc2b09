package funding

import (
	"context"
	"time"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/ffe/backend/internal/domain/organisation"
)

// CRM is the subset of the Salesforce client used for funding applications
type CRM interface {
	CreateProject(ctx context.Context, app *funding.FundingApplication, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error)
	IsProjectAwarded(ctx context.Context, caseID string) (bool, error)
	GrantLevelDetails(ctx context.Context, caseID string) (funding.GrantLevelDetails, error)
	PaymentDetails(ctx context.Context, app *funding.FundingApplication) (funding.PaymentDetails, error)
	CostHeadings(ctx context.Context, caseID string) ([]string, error)
	UpsertSpend(ctx context.Context, formID string, spend *funding.Spend) (string, error)
	UploadDocument(ctx context.Context, title, filename string, content []byte, linkedRecordID string) (string, error)
}

// OrganisationPusher sends an organisation to the CRM ahead of a submission
type OrganisationPusher interface {
	Push(ctx context.Context, org *organisation.Organisation) error
}

// Locker guards a submission against concurrent duplicates
type Locker interface {
	// Acquire returns false when the key is already held
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

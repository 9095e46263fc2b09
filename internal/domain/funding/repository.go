package funding

import (
	"context"

	"github.com/google/uuid"
)

// FundingApplicationRepository persists funding applications
type FundingApplicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FundingApplication, error)
	Save(ctx context.Context, app *FundingApplication) error
}

// LegalSignatoryRepository persists legal signatories
type LegalSignatoryRepository interface {
	// FindByApplication returns signatories oldest first
	FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]*LegalSignatory, error)
	Save(ctx context.Context, signatory *LegalSignatory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PreApplicationRepository persists pre-applications with their enquiry and expression of interest
type PreApplicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PreApplication, error)
	Save(ctx context.Context, pa *PreApplication) error
}

// PaymentRequestRepository persists payment requests with their spends
type PaymentRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	Save(ctx context.Context, pr *PaymentRequest) error
}

// SubmissionReferences are the CRM ids written back after a submission
type SubmissionReferences struct {
	RecordID          string
	ExternalReference string
	ContactID         string
	AccountID         string
}

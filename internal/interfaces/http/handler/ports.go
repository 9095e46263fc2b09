package handler

import (
	"context"
	"io"

	"github.com/google/uuid"

	fundingapp "github.com/ffe/backend/internal/application/funding"
	orgapp "github.com/ffe/backend/internal/application/organisation"
	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/organisation"
)

// AccessPolicy checks that the signed-in applicant may act on a record
type AccessPolicy interface {
	CanAccessOrganisation(ctx context.Context, userID, orgID uuid.UUID) error
	CanAccessFundingApplication(ctx context.Context, userID, appID uuid.UUID) error
	CanAccessPreApplication(ctx context.Context, userID, preApplicationID uuid.UUID) error
}

// OrganisationWizard loads and edits organisations one step at a time
type OrganisationWizard interface {
	Get(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, error)
	SubmitStep(ctx context.Context, orgID uuid.UUID, step organisation.Step, input orgapp.StepInput) (*orgapp.StepResult, error)
}

// OrganisationSync pushes organisations to and reads them from the CRM
type OrganisationSync interface {
	PushOrganisation(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, error)
	ImportFromSalesforce(ctx context.Context, orgID uuid.UUID, accountID string) (bool, error)
	ChangeVATStatus(ctx context.Context, orgID uuid.UUID, registered bool, vatNumber string) (*organisation.Organisation, error)
	HasBankAccount(ctx context.Context, orgID uuid.UUID) (bool, error)
}

// GoverningDocuments stores an organisation's governing documents
type GoverningDocuments interface {
	Attach(ctx context.Context, orgID uuid.UUID, filename, contentType string, body io.Reader, size int64) (*document.Document, error)
	List(ctx context.Context, orgID uuid.UUID) ([]document.Document, error)
	Delete(ctx context.Context, orgID uuid.UUID, name string) error
}

// FundingApplicationSubmitter sends a funding application to the CRM
type FundingApplicationSubmitter interface {
	SubmitFundingApplication(ctx context.Context, appID uuid.UUID) (*funding.FundingApplication, error)
}

// AwardTypeChecker looks up an application's award type in the CRM
type AwardTypeChecker interface {
	CheckAwardType(ctx context.Context, appID uuid.UUID) (funding.AwardType, error)
}

// Signatories reads, replaces and scrubs an application's legal signatories
type Signatories interface {
	List(ctx context.Context, appID uuid.UUID) (*fundingapp.SignatoriesResult, error)
	Replace(ctx context.Context, appID uuid.UUID, inputs []fundingapp.SignatoryInput) (*fundingapp.SignatoriesResult, error)
	RemovePersonalData(ctx context.Context, appID uuid.UUID) (int, error)
}

// PaymentGateway syncs payment requests and reads award details
type PaymentGateway interface {
	SyncPaymentRequest(ctx context.Context, appID, requestID uuid.UUID, formID string) (*fundingapp.PaymentSyncResult, error)
	CostHeadings(ctx context.Context, appID uuid.UUID) ([]string, error)
	PaymentDetails(ctx context.Context, appID uuid.UUID) (*funding.PaymentDetails, error)
}

// PreApplicationSubmitter sends a pre-application to the CRM
type PreApplicationSubmitter interface {
	SubmitPreApplication(ctx context.Context, id uuid.UUID) (*funding.PreApplication, error)
}

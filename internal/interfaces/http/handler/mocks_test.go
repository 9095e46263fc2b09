package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	fundingapp "github.com/ffe/backend/internal/application/funding"
	orgapp "github.com/ffe/backend/internal/application/organisation"
	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/organisation"
)

// ==================== Access ====================

type MockAccessPolicy struct {
	mock.Mock
}

func (m *MockAccessPolicy) CanAccessOrganisation(ctx context.Context, userID, orgID uuid.UUID) error {
	return m.Called(ctx, userID, orgID).Error(0)
}

func (m *MockAccessPolicy) CanAccessFundingApplication(ctx context.Context, userID, appID uuid.UUID) error {
	return m.Called(ctx, userID, appID).Error(0)
}

func (m *MockAccessPolicy) CanAccessPreApplication(ctx context.Context, userID, preApplicationID uuid.UUID) error {
	return m.Called(ctx, userID, preApplicationID).Error(0)
}

// ==================== Organisation ====================

type MockOrganisationWizard struct {
	mock.Mock
}

func (m *MockOrganisationWizard) Get(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Organisation), args.Error(1)
}

func (m *MockOrganisationWizard) SubmitStep(ctx context.Context, orgID uuid.UUID, step organisation.Step, input orgapp.StepInput) (*orgapp.StepResult, error) {
	args := m.Called(ctx, orgID, step, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orgapp.StepResult), args.Error(1)
}

type MockOrganisationSync struct {
	mock.Mock
}

func (m *MockOrganisationSync) PushOrganisation(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Organisation), args.Error(1)
}

func (m *MockOrganisationSync) ImportFromSalesforce(ctx context.Context, orgID uuid.UUID, accountID string) (bool, error) {
	args := m.Called(ctx, orgID, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganisationSync) ChangeVATStatus(ctx context.Context, orgID uuid.UUID, registered bool, vatNumber string) (*organisation.Organisation, error) {
	args := m.Called(ctx, orgID, registered, vatNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Organisation), args.Error(1)
}

func (m *MockOrganisationSync) HasBankAccount(ctx context.Context, orgID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID)
	return args.Bool(0), args.Error(1)
}

type MockGoverningDocuments struct {
	mock.Mock
}

func (m *MockGoverningDocuments) Attach(ctx context.Context, orgID uuid.UUID, filename, contentType string, body io.Reader, size int64) (*document.Document, error) {
	args := m.Called(ctx, orgID, filename, contentType, body, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockGoverningDocuments) List(ctx context.Context, orgID uuid.UUID) ([]document.Document, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockGoverningDocuments) Delete(ctx context.Context, orgID uuid.UUID, name string) error {
	return m.Called(ctx, orgID, name).Error(0)
}

// ==================== Funding ====================

type MockFundingSubmitter struct {
	mock.Mock
}

func (m *MockFundingSubmitter) SubmitFundingApplication(ctx context.Context, appID uuid.UUID) (*funding.FundingApplication, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.FundingApplication), args.Error(1)
}

type MockAwardTypeChecker struct {
	mock.Mock
}

func (m *MockAwardTypeChecker) CheckAwardType(ctx context.Context, appID uuid.UUID) (funding.AwardType, error) {
	args := m.Called(ctx, appID)
	return args.Get(0).(funding.AwardType), args.Error(1)
}

type MockSignatories struct {
	mock.Mock
}

func (m *MockSignatories) List(ctx context.Context, appID uuid.UUID) (*fundingapp.SignatoriesResult, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fundingapp.SignatoriesResult), args.Error(1)
}

func (m *MockSignatories) Replace(ctx context.Context, appID uuid.UUID, inputs []fundingapp.SignatoryInput) (*fundingapp.SignatoriesResult, error) {
	args := m.Called(ctx, appID, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fundingapp.SignatoriesResult), args.Error(1)
}

func (m *MockSignatories) RemovePersonalData(ctx context.Context, appID uuid.UUID) (int, error) {
	args := m.Called(ctx, appID)
	return args.Int(0), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) SyncPaymentRequest(ctx context.Context, appID, requestID uuid.UUID, formID string) (*fundingapp.PaymentSyncResult, error) {
	args := m.Called(ctx, appID, requestID, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fundingapp.PaymentSyncResult), args.Error(1)
}

func (m *MockPaymentGateway) CostHeadings(ctx context.Context, appID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPaymentGateway) PaymentDetails(ctx context.Context, appID uuid.UUID) (*funding.PaymentDetails, error) {
	args := m.Called(ctx, appID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.PaymentDetails), args.Error(1)
}

type MockPreApplicationSubmitter struct {
	mock.Mock
}

func (m *MockPreApplicationSubmitter) SubmitPreApplication(ctx context.Context, id uuid.UUID) (*funding.PreApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.PreApplication), args.Error(1)
}

// ==================== Helpers ====================

// authenticated stands in for the JWT middleware
func authenticated(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		setJWTContext(c, userID)
		c.Next()
	}
}

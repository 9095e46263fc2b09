package funding

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/domain/organisation"
)

// ============================================================================
// Mocks
// ============================================================================

type MockFundingApplicationRepository struct {
	mock.Mock
}

func (m *MockFundingApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.FundingApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.FundingApplication), args.Error(1)
}

func (m *MockFundingApplicationRepository) Save(ctx context.Context, app *funding.FundingApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockOrganisationRepository struct {
	mock.Mock
}

func (m *MockOrganisationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organisation.Organisation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*organisation.Organisation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) FindLinked(ctx context.Context, limit, offset int) ([]*organisation.Organisation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*organisation.Organisation), args.Error(1)
}

func (m *MockOrganisationRepository) Save(ctx context.Context, org *organisation.Organisation) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganisationRepository) LinkUser(ctx context.Context, orgID, userID uuid.UUID) error {
	args := m.Called(ctx, orgID, userID)
	return args.Error(0)
}

type MockOrganisationPusher struct {
	mock.Mock
}

func (m *MockOrganisationPusher) Push(ctx context.Context, org *organisation.Organisation) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) CreateProject(ctx context.Context, app *funding.FundingApplication, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error) {
	args := m.Called(ctx, app, user, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.SubmissionReferences), args.Error(1)
}

func (m *MockCRM) IsProjectAwarded(ctx context.Context, caseID string) (bool, error) {
	args := m.Called(ctx, caseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCRM) GrantLevelDetails(ctx context.Context, caseID string) (funding.GrantLevelDetails, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).(funding.GrantLevelDetails), args.Error(1)
}

func (m *MockCRM) PaymentDetails(ctx context.Context, app *funding.FundingApplication) (funding.PaymentDetails, error) {
	args := m.Called(ctx, app)
	return args.Get(0).(funding.PaymentDetails), args.Error(1)
}

func (m *MockCRM) CostHeadings(ctx context.Context, caseID string) ([]string, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCRM) UpsertSpend(ctx context.Context, formID string, spend *funding.Spend) (string, error) {
	args := m.Called(ctx, formID, spend)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) UploadDocument(ctx context.Context, title, filename string, content []byte, linkedRecordID string) (string, error) {
	args := m.Called(ctx, title, filename, content, linkedRecordID)
	return args.String(0), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockNoticeQueue struct {
	mock.Mock
}

func (m *MockNoticeQueue) Enqueue(ctx context.Context, notice notification.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

type MockLegalSignatoryRepository struct {
	mock.Mock
}

func (m *MockLegalSignatoryRepository) FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]*funding.LegalSignatory, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*funding.LegalSignatory), args.Error(1)
}

func (m *MockLegalSignatoryRepository) Save(ctx context.Context, signatory *funding.LegalSignatory) error {
	args := m.Called(ctx, signatory)
	return args.Error(0)
}

func (m *MockLegalSignatoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRequestRepository struct {
	mock.Mock
}

func (m *MockPaymentRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*funding.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*funding.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) Save(ctx context.Context, pr *funding.PaymentRequest) error {
	args := m.Called(ctx, pr)
	return args.Error(0)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Put(ctx context.Context, key, filename, contentType string, body io.Reader, size int64) (*document.Document, error) {
	args := m.Called(ctx, key, filename, contentType, body, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocumentStore) List(ctx context.Context, prefix string) ([]document.Document, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

package organisation

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/domain/organisation"
)

// ============================================================================
// Mocks
// ============================================================================

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

type MockChangesCheckRepository struct {
	mock.Mock
}

func (m *MockChangesCheckRepository) FindByRecord(ctx context.Context, recordID uuid.UUID, recordType string) (*organisation.SalesforceChangesCheck, error) {
	args := m.Called(ctx, recordID, recordType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.SalesforceChangesCheck), args.Error(1)
}

func (m *MockChangesCheckRepository) Upsert(ctx context.Context, check *organisation.SalesforceChangesCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) FindMatchingAccount(ctx context.Context, org *organisation.Organisation) (string, error) {
	args := m.Called(ctx, org)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) UpsertByOrganisationID(ctx context.Context, org *organisation.Organisation) (string, error) {
	args := m.Called(ctx, org)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) UpsertBySalesforceID(ctx context.Context, org *organisation.Organisation, accountID string) (string, error) {
	args := m.Called(ctx, org, accountID)
	return args.String(0), args.Error(1)
}

func (m *MockCRM) RetrieveAccountDetails(ctx context.Context, accountID string) (*organisation.RemoteDetails, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organisation.RemoteDetails), args.Error(1)
}

func (m *MockCRM) ChangeOrganisationVATStatus(ctx context.Context, accountID, vatNumber string, registered *bool) error {
	args := m.Called(ctx, accountID, vatNumber, registered)
	return args.Error(0)
}

func (m *MockCRM) OrganisationHasBankAccount(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

type MockNoticeQueue struct {
	mock.Mock
}

func (m *MockNoticeQueue) Enqueue(ctx context.Context, notice notification.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

type MockFeatureFlags struct {
	mock.Mock
}

func (m *MockFeatureFlags) IsEnabled(ctx context.Context, flag string) (bool, error) {
	args := m.Called(ctx, flag)
	return args.Bool(0), args.Error(1)
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

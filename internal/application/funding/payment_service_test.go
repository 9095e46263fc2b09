package funding

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/shared"
)

type paymentFixture struct {
	appRepo     *MockFundingApplicationRepository
	requestRepo *MockPaymentRequestRepository
	crm         *MockCRM
	store       *MockDocumentStore
	service     *PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		appRepo:     new(MockFundingApplicationRepository),
		requestRepo: new(MockPaymentRequestRepository),
		crm:         new(MockCRM),
		store:       new(MockDocumentStore),
	}
	f.service = NewPaymentService(f.appRepo, f.requestRepo, f.crm, f.store, zap.NewNop())
	return f
}

func paymentRequest(appID uuid.UUID) *funding.PaymentRequest {
	pr := &funding.PaymentRequest{BaseEntity: shared.NewBaseEntity(), FundingApplicationID: appID}
	pr.Spends = []*funding.Spend{
		{
			ID: uuid.New(), Level: funding.SpendLevelLow, CostHeading: "Equipment and materials",
			Amount: decimal.NewFromInt(600), VATAmount: decimal.NewFromInt(100), SpendThreshold: 250,
		},
		{
			ID: uuid.New(), Level: funding.SpendLevelHigh, CostHeading: "Professional fees",
			Amount: decimal.NewFromInt(4000), SpendThreshold: 250,
			EvidenceFile: &funding.Attachment{Key: "payment-requests/invoice.pdf", Filename: "invoice.pdf"},
		},
	}
	pr.TableOfSpendFile = &funding.Attachment{Key: "payment-requests/table.xlsx", Filename: "table.xlsx"}
	return pr
}

func TestPaymentService_SyncPaymentRequest(t *testing.T) {
	ctx := context.Background()
	appID := uuid.New()

	t.Run("sends high spends first then low spends then the table of spend", func(t *testing.T) {
		f := newPaymentFixture()
		pr := paymentRequest(appID)
		high, low := pr.Spends[1], pr.Spends[0]

		var order []string
		f.requestRepo.On("FindByID", ctx, pr.ID).Return(pr, nil)
		f.crm.On("UpsertSpend", ctx, "a0F1x0001", high).Return("a0G1", nil).
			Run(func(mock.Arguments) { order = append(order, "high") })
		f.store.On("Get", ctx, "payment-requests/invoice.pdf").Return([]byte("%PDF"), nil)
		f.crm.On("UploadDocument", ctx, "Evidence of spend - Professional fees", "invoice.pdf", []byte("%PDF"), "a0F1x0001").
			Return("0691", nil).Run(func(mock.Arguments) { order = append(order, "evidence") })
		f.crm.On("UpsertSpend", ctx, "a0F1x0001", low).Return("a0G2", nil).
			Run(func(mock.Arguments) { order = append(order, "low") })
		f.store.On("Get", ctx, "payment-requests/table.xlsx").Return([]byte("PK"), nil)
		f.crm.On("UploadDocument", ctx, "Table of spend", "table.xlsx", []byte("PK"), "a0F1x0001").
			Return("0692", nil).Run(func(mock.Arguments) { order = append(order, "table") })

		result, err := f.service.SyncPaymentRequest(ctx, appID, pr.ID, "a0F1x0001")
		require.NoError(t, err)
		assert.Equal(t, []string{"a0G1", "a0G2"}, result.SpendRecordIDs)
		assert.Equal(t, []string{"0691", "0692"}, result.DocumentIDs)
		assert.Equal(t, []string{"high", "evidence", "low", "table"}, order)
		f.crm.AssertExpectations(t)
		f.store.AssertExpectations(t)
	})

	t.Run("stops at the first CRM failure", func(t *testing.T) {
		f := newPaymentFixture()
		pr := paymentRequest(appID)
		f.requestRepo.On("FindByID", ctx, pr.ID).Return(pr, nil)
		f.crm.On("UpsertSpend", ctx, "a0F1x0001", pr.Spends[1]).Return("", errors.New("salesforce: entity too large"))

		result, err := f.service.SyncPaymentRequest(ctx, appID, pr.ID, "a0F1x0001")
		assert.ErrorIs(t, err, shared.ErrUpstream)
		assert.Empty(t, result.SpendRecordIDs)
		f.crm.AssertNotCalled(t, "UploadDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("hides requests of other applications", func(t *testing.T) {
		f := newPaymentFixture()
		pr := paymentRequest(uuid.New())
		f.requestRepo.On("FindByID", ctx, pr.ID).Return(pr, nil)

		_, err := f.service.SyncPaymentRequest(ctx, appID, pr.ID, "a0F1x0001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("requires a form id", func(t *testing.T) {
		_, err := newPaymentFixture().service.SyncPaymentRequest(ctx, appID, uuid.New(), "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPaymentService_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("cost headings come from the project case", func(t *testing.T) {
		f := newPaymentFixture()
		app := submittedApplication(t)
		f.appRepo.On("FindByID", ctx, app.ID).Return(app, nil)
		f.crm.On("CostHeadings", ctx, "5001x000042").Return([]string{"Equipment and materials", "Professional fees"}, nil)

		headings, err := f.service.CostHeadings(ctx, app.ID)
		require.NoError(t, err)
		assert.Len(t, headings, 2)
	})

	t.Run("payment details", func(t *testing.T) {
		f := newPaymentFixture()
		app := submittedApplication(t)
		f.appRepo.On("FindByID", ctx, app.ID).Return(app, nil)
		f.crm.On("PaymentDetails", ctx, app).Return(funding.PaymentDetails{
			GrantAward:      decimal.NewFromInt(90000),
			GrantPercentage: decimal.NewFromInt(75),
		}, nil)

		details, err := f.service.PaymentDetails(ctx, app.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(90000).Equal(details.GrantAward))
	})

	t.Run("unsubmitted applications have no case", func(t *testing.T) {
		f := newPaymentFixture()
		app := funding.NewFundingApplication(uuid.New(), uuid.New())
		f.appRepo.On("FindByID", ctx, app.ID).Return(app, nil)

		_, err := f.service.CostHeadings(ctx, app.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		f.crm.AssertNotCalled(t, "CostHeadings", mock.Anything, mock.Anything)
	})
}

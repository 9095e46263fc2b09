package funding

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/shared"
)

// ErrNotSubmitted is returned for CRM lookups on an application that has no case yet
var ErrNotSubmitted = shared.ErrInvalidState.WithMessage("Application has not been submitted")

const tableOfSpendTitle = "Table of spend"

// PaymentSyncResult lists the CRM records written for a payment request
type PaymentSyncResult struct {
	SpendRecordIDs []string `json:"spend_record_ids"`
	DocumentIDs    []string `json:"document_ids"`
}

// PaymentService sends payment requests to the CRM and reads award details back
type PaymentService struct {
	appRepo     funding.FundingApplicationRepository
	requestRepo funding.PaymentRequestRepository
	crm         CRM
	store       document.Store
	logger      *zap.Logger
}

// NewPaymentService creates a PaymentService
func NewPaymentService(
	appRepo funding.FundingApplicationRepository,
	requestRepo funding.PaymentRequestRepository,
	crm CRM,
	store document.Store,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		appRepo:     appRepo,
		requestRepo: requestRepo,
		crm:         crm,
		store:       store,
		logger:      logger,
	}
}

// SyncPaymentRequest writes every spend of the request to the CRM form and
// uploads the evidence for high spends followed by the table of spend
func (s *PaymentService) SyncPaymentRequest(ctx context.Context, appID, requestID uuid.UUID, formID string) (*PaymentSyncResult, error) {
	if formID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("form id is required")
	}
	pr, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if pr.FundingApplicationID != appID {
		return nil, shared.ErrNotFound
	}

	result := &PaymentSyncResult{}
	for _, spend := range pr.HighSpends() {
		id, err := s.crm.UpsertSpend(ctx, formID, spend)
		if err != nil {
			return result, s.upstream("upsert high spend", pr, err)
		}
		result.SpendRecordIDs = append(result.SpendRecordIDs, id)

		if spend.EvidenceFile == nil {
			continue
		}
		docID, err := s.upload(ctx, "Evidence of spend - "+spend.CostHeading, spend.EvidenceFile, formID)
		if err != nil {
			return result, s.upstream("upload evidence", pr, err)
		}
		result.DocumentIDs = append(result.DocumentIDs, docID)
	}

	for _, spend := range pr.LowSpends() {
		id, err := s.crm.UpsertSpend(ctx, formID, spend)
		if err != nil {
			return result, s.upstream("upsert low spend", pr, err)
		}
		result.SpendRecordIDs = append(result.SpendRecordIDs, id)
	}

	if pr.TableOfSpendFile != nil {
		docID, err := s.upload(ctx, tableOfSpendTitle, pr.TableOfSpendFile, formID)
		if err != nil {
			return result, s.upstream("upload table of spend", pr, err)
		}
		result.DocumentIDs = append(result.DocumentIDs, docID)
	}

	s.logger.Info("Payment request sent to Salesforce",
		zap.String("payment_request_id", pr.ID.String()),
		zap.String("form_id", formID),
		zap.Int("spends", len(result.SpendRecordIDs)),
		zap.Int("documents", len(result.DocumentIDs)),
	)
	return result, nil
}

func (s *PaymentService) upload(ctx context.Context, title string, file *funding.Attachment, formID string) (string, error) {
	content, err := s.store.Get(ctx, file.Key)
	if err != nil {
		return "", err
	}
	return s.crm.UploadDocument(ctx, title, file.Filename, content, formID)
}

// CostHeadings lists the cost headings of the application's project
func (s *PaymentService) CostHeadings(ctx context.Context, appID uuid.UUID) ([]string, error) {
	app, err := s.submittedApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	headings, err := s.crm.CostHeadings(ctx, app.SalesforceCaseID)
	if err != nil {
		return nil, shared.ErrUpstream.WithCause(err)
	}
	return headings, nil
}

// PaymentDetails reads the grant award and percentage for the application
func (s *PaymentService) PaymentDetails(ctx context.Context, appID uuid.UUID) (*funding.PaymentDetails, error) {
	app, err := s.submittedApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	details, err := s.crm.PaymentDetails(ctx, app)
	if err != nil {
		return nil, shared.ErrUpstream.WithCause(err)
	}
	return &details, nil
}

func (s *PaymentService) submittedApplication(ctx context.Context, appID uuid.UUID) (*funding.FundingApplication, error) {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !app.IsSubmitted() || app.SalesforceCaseID == "" {
		return nil, ErrNotSubmitted
	}
	return app, nil
}

func (s *PaymentService) upstream(operation string, pr *funding.PaymentRequest, err error) error {
	s.logger.Error("Payment request sync failed",
		zap.String("operation", operation),
		zap.String("payment_request_id", pr.ID.String()),
		zap.Error(err),
	)
	return shared.ErrUpstream.WithCause(err)
}

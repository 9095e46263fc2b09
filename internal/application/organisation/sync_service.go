package organisation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/domain/shared"
)

// SyncService keeps organisations and their Salesforce accounts in step.
// Calls block until the CRM has answered or the retry policy gives up.
type SyncService struct {
	orgRepo     organisation.OrganisationRepository
	checkRepo   organisation.ChangesCheckRepository
	crm         CRM
	notices     notification.Queue
	supportMail string
	logger      *zap.Logger
	now         func() time.Time
}

// SyncOption customises a SyncService
type SyncOption func(*SyncService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) SyncOption {
	return func(s *SyncService) { s.now = now }
}

// WithSupportMailbox sets where import problems are reported
func WithSupportMailbox(address string) SyncOption {
	return func(s *SyncService) { s.supportMail = address }
}

// NewSyncService creates a SyncService
func NewSyncService(
	orgRepo organisation.OrganisationRepository,
	checkRepo organisation.ChangesCheckRepository,
	crm CRM,
	notices notification.Queue,
	logger *zap.Logger,
	opts ...SyncOption,
) *SyncService {
	s := &SyncService{
		orgRepo:   orgRepo,
		checkRepo: checkRepo,
		crm:       crm,
		notices:   notices,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PushOrganisation sends the organisation to the CRM, creating the Account if
// none matches, and stores the Account id locally. Repeating the call with
// unchanged data updates the same Account.
func (s *SyncService) PushOrganisation(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.Push(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Push is PushOrganisation for an organisation already loaded by the caller
func (s *SyncService) Push(ctx context.Context, org *organisation.Organisation) error {
	accountID, err := s.crm.FindMatchingAccount(ctx, org)
	if err != nil {
		return s.upstream("find matching account", org, err)
	}

	if accountID == "" {
		accountID, err = s.crm.UpsertByOrganisationID(ctx, org)
	} else {
		_, err = s.crm.UpsertBySalesforceID(ctx, org, accountID)
	}
	if err != nil {
		return s.upstream("upsert account", org, err)
	}

	if accountID == org.SalesforceAccountID {
		return nil
	}
	if err := org.LinkSalesforceAccount(accountID); err != nil {
		return err
	}
	org.Touch(s.now())
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return err
	}
	s.logger.Info("Organisation linked to Salesforce account",
		zap.String("organisation_id", org.ID.String()),
		zap.String("salesforce_account_id", accountID),
	)
	return nil
}

// PullLatest refreshes the CRM owned fields of an organisation at most once a
// day. It does nothing when the organisation was edited today, has no Account
// or was already pulled today. The returned flag reports whether a pull ran.
func (s *SyncService) PullLatest(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, bool, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, false, err
	}
	pulled, err := s.Pull(ctx, org)
	return org, pulled, err
}

// Pull is PullLatest for an organisation already loaded by the caller
func (s *SyncService) Pull(ctx context.Context, org *organisation.Organisation) (bool, error) {
	now := s.now()
	if org.UpdatedOn(now) || !org.HasSalesforceAccount() {
		return false, nil
	}

	check, err := s.checkRepo.FindByRecord(ctx, org.ID, organisation.RecordType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}
	if check.CheckedOn(now) {
		return false, nil
	}

	details, err := s.crm.RetrieveAccountDetails(ctx, org.SalesforceAccountID)
	if err != nil {
		return false, s.upstream("retrieve account details", org, err)
	}

	before := *org
	org.ApplyRemoteDetails(*details)
	org.ApplyMediumGrantDetails(*details)
	org.Touch(now)
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return false, err
	}
	if err := s.RecordPullOccurred(ctx, org); err != nil {
		return true, err
	}

	s.logger.Info("Organisation refreshed from Salesforce",
		zap.String("organisation_id", org.ID.String()),
		zap.String("salesforce_account_id", org.SalesforceAccountID),
		zap.Bool("details_changed", !before.Equal(org)),
	)
	return true, nil
}

// RecordPullOccurred stamps the changes check for the organisation with the current time
func (s *SyncService) RecordPullOccurred(ctx context.Context, org *organisation.Organisation) error {
	check := organisation.NewSalesforceChangesCheck(org.ID, organisation.RecordType, s.now())
	return s.checkRepo.Upsert(ctx, check)
}

// ImportFromSalesforce populates an organisation from an existing Account,
// typically one migrated from an older system. The org type is set to unknown
// as the CRM picklist cannot be mapped back. When the Account lacks mandatory
// details the organisation is left untouched and support is told.
func (s *SyncService) ImportFromSalesforce(ctx context.Context, orgID uuid.UUID, accountID string) (bool, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return false, err
	}

	details, err := s.crm.RetrieveAccountDetails(ctx, accountID)
	if err != nil {
		return false, s.upstream("retrieve account details", org, err)
	}

	candidate := *org
	if err := candidate.LinkSalesforceAccount(accountID); err != nil {
		return false, err
	}
	candidate.ApplyRemoteDetails(*details)
	candidate.ApplyMediumGrantDetails(*details)
	unknown := organisation.OrgTypeUnknown
	candidate.OrgType = &unknown

	if !candidate.IsComplete() {
		s.logger.Warn("Salesforce account is missing mandatory details, import skipped",
			zap.String("organisation_id", org.ID.String()),
			zap.String("salesforce_account_id", accountID),
		)
		s.reportIncompleteImport(ctx, org, accountID)
		return false, nil
	}

	*org = candidate
	org.Touch(s.now())
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return false, err
	}
	if err := s.RecordPullOccurred(ctx, org); err != nil {
		return true, err
	}
	return true, nil
}

// ChangeVATStatus records a new VAT answer locally and on the Account
func (s *SyncService) ChangeVATStatus(ctx context.Context, orgID uuid.UUID, registered bool, vatNumber string) (*organisation.Organisation, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.HasSalesforceAccount() {
		return nil, organisation.ErrSalesforceAccountRequired
	}

	candidate := *org
	candidate.SetVATRegistration(registered, vatNumber)
	rules := []organisation.Rule{organisation.RuleVATRegistered}
	if registered {
		rules = append(rules, organisation.RuleVATNumber)
	}
	if errs := organisation.Validate(&candidate, organisation.NewValidationContext(rules...)); !errs.Empty() {
		return nil, errs.AsDomainError()
	}

	if err := s.crm.ChangeOrganisationVATStatus(ctx, candidate.SalesforceAccountID, candidate.VATNumber, candidate.VATRegistered); err != nil {
		return nil, s.upstream("change VAT status", org, err)
	}

	*org = candidate
	org.Touch(s.now())
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// HasBankAccount reports whether the organisation's Account has bank details in the CRM
func (s *SyncService) HasBankAccount(ctx context.Context, orgID uuid.UUID) (bool, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return false, err
	}
	if !org.HasSalesforceAccount() {
		return false, organisation.ErrSalesforceAccountRequired
	}
	has, err := s.crm.OrganisationHasBankAccount(ctx, org.SalesforceAccountID)
	if err != nil {
		return false, s.upstream("check bank account", org, err)
	}
	return has, nil
}

// upstream logs a CRM failure and wraps it for the transport layer
func (s *SyncService) upstream(operation string, org *organisation.Organisation, err error) error {
	s.logger.Error("Salesforce call failed",
		zap.String("operation", operation),
		zap.String("organisation_id", org.ID.String()),
		zap.Error(err),
	)
	return shared.ErrUpstream.WithCause(err)
}

func (s *SyncService) reportIncompleteImport(ctx context.Context, org *organisation.Organisation, accountID string) {
	if s.notices == nil || s.supportMail == "" {
		return
	}
	notice := notification.Notice{
		Template:  notification.TemplateIncompleteAccountImport,
		Recipient: s.supportMail,
		Reference: accountID,
		Personalisation: map[string]string{
			"organisation_id":       org.ID.String(),
			"salesforce_account_id": accountID,
		},
		QueuedAt: s.now(),
	}
	if err := s.notices.Enqueue(ctx, notice); err != nil {
		s.logger.Error("Failed to queue incomplete import notice",
			zap.String("organisation_id", org.ID.String()),
			zap.Error(err),
		)
	}
}

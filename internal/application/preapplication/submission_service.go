package preapplication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/ffe/backend/internal/domain/notification"
	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/domain/shared"
)

// CRM is the subset of the Salesforce client used for pre-applications
type CRM interface {
	CreateProjectEnquiry(ctx context.Context, pe *funding.ProjectEnquiry, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error)
	CreateExpressionOfInterest(ctx context.Context, eoi *funding.ExpressionOfInterest, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error)
}

// OrganisationPusher sends an organisation to the CRM ahead of a submission
type OrganisationPusher interface {
	Push(ctx context.Context, org *organisation.Organisation) error
}

// ErrNothingToSubmit is returned for a pre-application with neither form started
var ErrNothingToSubmit = shared.ErrInvalidState.WithMessage("Pre-application has no project enquiry or expression of interest")

var enquiryRules = funding.NewProjectEnquiryValidationContext(
	funding.EnquiryRuleWorkingTitle,
	funding.EnquiryRuleWhatProjectDoes,
	funding.EnquiryRuleInvestmentPrinciples,
	funding.EnquiryRuleHeritageFocus,
	funding.EnquiryRuleProjectReasons,
	funding.EnquiryRuleProjectParticipants,
	funding.EnquiryRuleProjectTimescales,
	funding.EnquiryRuleProjectLikelyCost,
	funding.EnquiryRulePotentialFundingAmount,
)

// SubmissionService sends pre-applications to the CRM
type SubmissionService struct {
	repo     funding.PreApplicationRepository
	userRepo identity.UserRepository
	orgRepo  organisation.OrganisationRepository
	orgs     OrganisationPusher
	crm      CRM
	notices  notification.Queue
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService
func NewSubmissionService(
	repo funding.PreApplicationRepository,
	userRepo identity.UserRepository,
	orgRepo organisation.OrganisationRepository,
	orgs OrganisationPusher,
	crm CRM,
	notices notification.Queue,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		userRepo: userRepo,
		orgRepo:  orgRepo,
		orgs:     orgs,
		crm:      crm,
		notices:  notices,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces time.Now
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// SubmitPreApplication pushes the organisation and creates whichever of the
// project enquiry and expression of interest the applicant completed. CRM ids
// already held are kept, so a retried submission does not duplicate records.
func (s *SubmissionService) SubmitPreApplication(ctx context.Context, id uuid.UUID) (*funding.PreApplication, error) {
	pa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pa.IsSubmitted() {
		return nil, funding.ErrAlreadySubmitted
	}
	if pa.ProjectEnquiry == nil && pa.ExpressionOfInterest == nil {
		return nil, ErrNothingToSubmit
	}
	if pa.ProjectEnquiry != nil {
		if errs := funding.ValidateProjectEnquiry(pa.ProjectEnquiry, enquiryRules); !errs.Empty() {
			return nil, errs.AsDomainError()
		}
	}

	user, err := s.userRepo.FindByID(ctx, pa.UserID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, pa.OrganisationID)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.Push(ctx, org); err != nil {
		return nil, err
	}

	var contactID string
	var notices []notification.Notice
	now := s.now()

	if pe := pa.ProjectEnquiry; pe != nil && pe.SalesforceProjectEnquiryID == "" {
		refs, err := s.crm.CreateProjectEnquiry(ctx, pe, user, org)
		if err != nil {
			return nil, s.upstream("create project enquiry", pa, err)
		}
		pe.AssignSalesforceReferences(refs.RecordID, refs.ExternalReference)
		contactID = refs.ContactID
		notices = append(notices, confirmation(notification.TemplateProjectEnquiryConfirmation, user, pe.SalesforcePEFReference, now))
	}
	if eoi := pa.ExpressionOfInterest; eoi != nil && eoi.SalesforceEOIID == "" {
		refs, err := s.crm.CreateExpressionOfInterest(ctx, eoi, user, org)
		if err != nil {
			// Keep the enquiry references so a retry does not create it again
			if contactID != "" {
				if saveErr := s.repo.Save(ctx, pa); saveErr != nil {
					s.logger.Warn("Failed to save project enquiry references", zap.Error(saveErr))
				}
			}
			return nil, s.upstream("create expression of interest", pa, err)
		}
		eoi.AssignSalesforceReferences(refs.RecordID, refs.ExternalReference)
		contactID = refs.ContactID
		notices = append(notices, confirmation(notification.TemplateEOIConfirmation, user, eoi.SalesforceEOIReference, now))
	}

	if err := pa.MarkSubmitted(now); err != nil {
		return nil, err
	}
	pa.Touch(now)
	if err := s.repo.Save(ctx, pa); err != nil {
		return nil, err
	}

	if user.AssignSalesforceContact(contactID) {
		user.Touch(now)
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Pre-application submitted",
		zap.String("pre_application_id", pa.ID.String()),
		zap.Int("notices", len(notices)),
	)
	for _, n := range notices {
		if err := s.notices.Enqueue(ctx, n); err != nil {
			s.logger.Error("Failed to queue confirmation notice",
				zap.String("template", string(n.Template)),
				zap.Error(err),
			)
		}
	}
	return pa, nil
}

func confirmation(template notification.Template, user *identity.User, reference string, now time.Time) notification.Notice {
	return notification.Notice{
		Template:        template,
		Recipient:       user.Email,
		Reference:       reference,
		Personalisation: map[string]string{"reference": reference, "name": user.Name},
		QueuedAt:        now,
	}
}

func (s *SubmissionService) upstream(operation string, pa *funding.PreApplication, err error) error {
	s.logger.Error("Salesforce call failed",
		zap.String("operation", operation),
		zap.String("pre_application_id", pa.ID.String()),
		zap.Error(err),
	)
	return shared.ErrUpstream.WithCause(err)
}

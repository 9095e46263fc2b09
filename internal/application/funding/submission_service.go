package funding

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

// DefaultLockTTL bounds how long a crashed submission can block a retry
const DefaultLockTTL = 2 * time.Minute

// ErrSubmissionInProgress is returned when another request holds the submission lock
var ErrSubmissionInProgress = shared.ErrConflict.WithMessage("Submission is already in progress")

// SubmissionService sends completed funding applications to the CRM
type SubmissionService struct {
	appRepo  funding.FundingApplicationRepository
	userRepo identity.UserRepository
	orgRepo  organisation.OrganisationRepository
	orgs     OrganisationPusher
	crm      CRM
	lock     Locker
	notices  notification.Queue
	logger   *zap.Logger
	lockTTL  time.Duration
	now      func() time.Time
}

// NewSubmissionService creates a SubmissionService
func NewSubmissionService(
	appRepo funding.FundingApplicationRepository,
	userRepo identity.UserRepository,
	orgRepo organisation.OrganisationRepository,
	orgs OrganisationPusher,
	crm CRM,
	lock Locker,
	notices notification.Queue,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		appRepo:  appRepo,
		userRepo: userRepo,
		orgRepo:  orgRepo,
		orgs:     orgs,
		crm:      crm,
		lock:     lock,
		notices:  notices,
		logger:   logger,
		lockTTL:  DefaultLockTTL,
		now:      time.Now,
	}
}

// SetClock replaces time.Now
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// SubmissionLockKey is the lock key for one funding application
func SubmissionLockKey(appID uuid.UUID) string {
	return "ffe:submission:funding_application:" + appID.String()
}

// SubmitFundingApplication pushes the organisation, creates the project in the
// CRM and records the returned references. A second submission of the same
// application fails with ErrAlreadySubmitted.
func (s *SubmissionService) SubmitFundingApplication(ctx context.Context, appID uuid.UUID) (*funding.FundingApplication, error) {
	key := SubmissionLockKey(appID)
	acquired, err := s.lock.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmissionInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("Failed to release submission lock", zap.String("key", key), zap.Error(err))
		}
	}()

	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.IsSubmitted() {
		return nil, funding.ErrAlreadySubmitted
	}
	user, err := s.userRepo.FindByID(ctx, app.UserID)
	if err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindByID(ctx, app.OrganisationID)
	if err != nil {
		return nil, err
	}

	if err := s.orgs.Push(ctx, org); err != nil {
		return nil, err
	}
	refs, err := s.crm.CreateProject(ctx, app, user, org)
	if err != nil {
		s.logger.Error("Failed to create project in Salesforce",
			zap.String("funding_application_id", app.ID.String()),
			zap.Error(err),
		)
		return nil, shared.ErrUpstream.WithCause(err)
	}

	now := s.now()
	if err := app.MarkSubmitted(now, refs.RecordID, refs.ExternalReference); err != nil {
		return nil, err
	}
	app.Touch(now)
	if err := s.appRepo.Save(ctx, app); err != nil {
		return nil, err
	}

	if user.AssignSalesforceContact(refs.ContactID) {
		user.Touch(now)
		if err := s.userRepo.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Funding application submitted",
		zap.String("funding_application_id", app.ID.String()),
		zap.String("project_reference_number", app.ProjectReferenceNumber),
	)
	queueConfirmation(ctx, s.notices, s.logger, notification.Notice{
		Template:  notification.TemplateFundingSubmissionConfirmation,
		Recipient: user.Email,
		Reference: app.ProjectReferenceNumber,
		Personalisation: map[string]string{
			"project_title":            app.Project.Title,
			"project_reference_number": app.ProjectReferenceNumber,
		},
		QueuedAt: now,
	})
	return app, nil
}

// queueConfirmation sends a notice. Delivery failures are logged; the
// submission has already succeeded.
func queueConfirmation(ctx context.Context, q notification.Queue, logger *zap.Logger, n notification.Notice) {
	if q == nil {
		return
	}
	if err := q.Enqueue(ctx, n); err != nil {
		logger.Error("Failed to queue confirmation notice",
			zap.String("template", string(n.Template)),
			zap.String("reference", n.Reference),
			zap.Error(err),
		)
	}
}

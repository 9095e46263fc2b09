package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/ffe/backend/internal/domain/shared"
)

// SignatoryInput is one signatory as entered on the form
type SignatoryInput struct {
	Name         string
	EmailAddress string
	PhoneNumber  string
	Role         string
}

// SignatoriesResult is the outcome of reading or replacing the signatories
type SignatoriesResult struct {
	Signatories          []*funding.LegalSignatory
	ApplicantIsSignatory bool
	Errors               shared.ValidationErrors
}

// Saved reports whether the signatories passed validation
func (r SignatoriesResult) Saved() bool {
	return r.Errors.Empty()
}

// SignatoryService manages the legal signatories of an application
type SignatoryService struct {
	repo     funding.LegalSignatoryRepository
	appRepo  funding.FundingApplicationRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewSignatoryService creates a SignatoryService
func NewSignatoryService(
	repo funding.LegalSignatoryRepository,
	appRepo funding.FundingApplicationRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *SignatoryService {
	return &SignatoryService{repo: repo, appRepo: appRepo, userRepo: userRepo, logger: logger, now: time.Now}
}

// List returns the application's signatories and whether the applicant is one of them
func (s *SignatoryService) List(ctx context.Context, appID uuid.UUID) (*SignatoriesResult, error) {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	signatories, err := s.repo.FindByApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	isSignatory, err := s.applicantIsSignatory(ctx, app, signatories)
	if err != nil {
		return nil, err
	}
	return &SignatoriesResult{Signatories: signatories, ApplicantIsSignatory: isSignatory}, nil
}

// Replace validates the submitted signatories and, when they pass, stores them
// in place of the current ones. Existing rows are updated in order so their ids
// survive; surplus rows are deleted. Nothing is written when validation fails.
func (s *SignatoryService) Replace(ctx context.Context, appID uuid.UUID, inputs []SignatoryInput) (*SignatoriesResult, error) {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByApplication(ctx, appID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	candidates := make([]*funding.LegalSignatory, len(inputs))
	for i, in := range inputs {
		var signatory funding.LegalSignatory
		if i < len(existing) {
			signatory = *existing[i]
		} else {
			signatory = funding.LegalSignatory{BaseEntity: shared.NewBaseEntity()}
			// keeps FindByApplication ordering stable when rows share a timestamp
			signatory.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
		}
		signatory.OrganisationID = app.OrganisationID
		signatory.FundingApplicationID = app.ID
		signatory.Name = in.Name
		signatory.EmailAddress = in.EmailAddress
		signatory.PhoneNumber = in.PhoneNumber
		signatory.Role = in.Role
		candidates[i] = &signatory
	}

	if errs := funding.ValidateSignatories(candidates); !errs.Empty() {
		return &SignatoriesResult{Signatories: existing, Errors: errs}, nil
	}

	for _, signatory := range candidates {
		signatory.Touch(now)
		if err := s.repo.Save(ctx, signatory); err != nil {
			return nil, err
		}
	}
	for _, surplus := range existing[min(len(existing), len(candidates)):] {
		if err := s.repo.Delete(ctx, surplus.ID); err != nil {
			return nil, err
		}
	}

	isSignatory, err := s.applicantIsSignatory(ctx, app, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Replaced legal signatories",
		zap.String("funding_application_id", appID.String()),
		zap.Int("count", len(candidates)),
		zap.Bool("applicant_is_signatory", isSignatory),
	)
	return &SignatoriesResult{Signatories: candidates, ApplicantIsSignatory: isSignatory}, nil
}

func (s *SignatoryService) applicantIsSignatory(ctx context.Context, app *funding.FundingApplication, signatories []*funding.LegalSignatory) (bool, error) {
	if len(signatories) == 0 {
		return false, nil
	}
	applicant, err := s.userRepo.FindByID(ctx, app.UserID)
	if err != nil {
		return false, err
	}
	return funding.FindSignatoryByEmail(signatories, applicant.Email) != nil, nil
}

// RemovePersonalData overwrites the personal details of every signatory on the
// application and returns how many were scrubbed
func (s *SignatoryService) RemovePersonalData(ctx context.Context, appID uuid.UUID) (int, error) {
	signatories, err := s.repo.FindByApplication(ctx, appID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	for i, signatory := range signatories {
		signatory.RemovePersonalData()
		signatory.Touch(now)
		if err := s.repo.Save(ctx, signatory); err != nil {
			return i, err
		}
	}

	s.logger.Info("Removed legal signatory personal data",
		zap.String("funding_application_id", appID.String()),
		zap.Int("count", len(signatories)),
	)
	return len(signatories), nil
}

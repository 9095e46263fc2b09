package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/ffe/backend/internal/domain/shared"
)

// AccessService decides whether a signed-in applicant may act on a record.
// An applicant may only touch records that belong to their own organisation.
type AccessService struct {
	users   identity.UserRepository
	apps    funding.FundingApplicationRepository
	preApps funding.PreApplicationRepository
	logger  *zap.Logger
}

// NewAccessService creates an AccessService
func NewAccessService(
	users identity.UserRepository,
	apps funding.FundingApplicationRepository,
	preApps funding.PreApplicationRepository,
	logger *zap.Logger,
) *AccessService {
	return &AccessService{users: users, apps: apps, preApps: preApps, logger: logger}
}

// CanAccessOrganisation returns nil when the user belongs to the organisation
func (s *AccessService) CanAccessOrganisation(ctx context.Context, userID, orgID uuid.UUID) error {
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if user.OrganisationID == nil || *user.OrganisationID != orgID {
		s.logger.Warn("Organisation access denied",
			zap.String("user_id", userID.String()),
			zap.String("organisation_id", orgID.String()),
		)
		return shared.ErrForbidden
	}
	return nil
}

// CanAccessFundingApplication returns nil when the application belongs to the user's organisation
func (s *AccessService) CanAccessFundingApplication(ctx context.Context, userID, appID uuid.UUID) error {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		return err
	}
	return s.CanAccessOrganisation(ctx, userID, app.OrganisationID)
}

// CanAccessPreApplication returns nil when the pre-application belongs to the user's organisation
func (s *AccessService) CanAccessPreApplication(ctx context.Context, userID, preApplicationID uuid.UUID) error {
	pa, err := s.preApps.FindByID(ctx, preApplicationID)
	if err != nil {
		return err
	}
	return s.CanAccessOrganisation(ctx, userID, pa.OrganisationID)
}

func (s *AccessService) user(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		// a valid token for a user we have never seen
		return nil, shared.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

package funding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/shared"
)

// AwardService records the award type of submitted applications once the CRM
// shows them as awarded
type AwardService struct {
	appRepo funding.FundingApplicationRepository
	crm     CRM
	logger  *zap.Logger
	now     func() time.Time
}

// NewAwardService creates an AwardService
func NewAwardService(appRepo funding.FundingApplicationRepository, crm CRM, logger *zap.Logger) *AwardService {
	return &AwardService{appRepo: appRepo, crm: crm, logger: logger, now: time.Now}
}

// CheckAwardType sets the award type of an awarded application and returns it.
// Applications that already have a concrete award type, are not submitted, or
// are not yet awarded are returned unchanged.
func (s *AwardService) CheckAwardType(ctx context.Context, appID uuid.UUID) (funding.AwardType, error) {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		return "", err
	}
	if !app.NeedsAwardType() {
		return app.AwardType, nil
	}

	awarded, err := s.crm.IsProjectAwarded(ctx, app.SalesforceCaseID)
	if err != nil {
		return app.AwardType, shared.ErrUpstream.WithCause(err)
	}
	if !awarded {
		return app.AwardType, nil
	}

	details, err := s.crm.GrantLevelDetails(ctx, app.SalesforceCaseID)
	if err != nil {
		return app.AwardType, shared.ErrUpstream.WithCause(err)
	}
	awardType, err := funding.DetermineAwardType(details)
	if err != nil {
		s.logger.Error("Could not determine award type",
			zap.String("funding_application_id", app.ID.String()),
			zap.String("record_type", details.RecordType),
			zap.Error(err),
		)
		return app.AwardType, err
	}

	if err := app.AssignAwardType(awardType); err != nil {
		return app.AwardType, err
	}
	app.Touch(s.now())
	if err := s.appRepo.Save(ctx, app); err != nil {
		return "", err
	}

	s.logger.Info("Award type recorded",
		zap.String("funding_application_id", app.ID.String()),
		zap.String("award_type", string(awardType)),
	)
	return awardType, nil
}

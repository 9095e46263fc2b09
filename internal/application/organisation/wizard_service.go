package organisation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/organisation"
)

// StepInput carries the answers submitted on one wizard step.
// Only the fields that belong to the submitted step are read.
type StepInput struct {
	Name                     string
	Line1                    string
	Line2                    string
	Line3                    string
	TownCity                 string
	County                   string
	Postcode                 string
	OrgType                  *organisation.OrgType
	CustomOrgType            string
	Description              string
	MainPurposeAndActivities string
	Communities              []organisation.Community
	CharityNumber            string
	CompanyNumber            string
	VATRegistered            *bool
	VATNumber                string
	BoardMembersOrTrustees   *int
	NumberOfEmployees        *int
	NumberOfVolunteers       *int
	VolunteerWorkDescription string
	WantsToUploadDocuments   *bool
	// Answers holds yes/no questions that are not stored, keyed by field name
	Answers map[string]string
}

// StepResult is the outcome of submitting a wizard step
type StepResult struct {
	Organisation *organisation.Organisation
	Next         organisation.Step
	Errors       organisation.ValidationErrors
}

// Saved reports whether the step passed validation
func (r StepResult) Saved() bool {
	return r.Errors.Empty()
}

// WizardService drives the organisation form one step at a time
type WizardService struct {
	orgRepo organisation.OrganisationRepository
	sync    *SyncService
	flags   FeatureFlags
	logger  *zap.Logger
	now     func() time.Time
}

// NewWizardService creates a WizardService
func NewWizardService(
	orgRepo organisation.OrganisationRepository,
	sync *SyncService,
	flags FeatureFlags,
	logger *zap.Logger,
) *WizardService {
	return &WizardService{
		orgRepo: orgRepo,
		sync:    sync,
		flags:   flags,
		logger:  logger,
		now:     sync.now,
	}
}

// Get loads an organisation, refreshing it from the CRM first when pull on load
// is enabled. A failed refresh is logged and whatever is stored is returned.
func (s *WizardService) Get(ctx context.Context, orgID uuid.UUID) (*organisation.Organisation, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !s.pullOnLoad(ctx) {
		return org, nil
	}

	snapshot := *org
	pulled, err := s.sync.Pull(ctx, org)
	if err != nil {
		s.logger.Warn("Pull on load failed, serving local copy",
			zap.String("organisation_id", orgID.String()),
			zap.Bool("saved", pulled),
			zap.Error(err),
		)
		// the refreshed record is already saved when only the check stamp failed
		if pulled {
			return org, nil
		}
		return &snapshot, nil
	}
	return org, nil
}

func (s *WizardService) pullOnLoad(ctx context.Context) bool {
	if s.flags == nil {
		return false
	}
	enabled, err := s.flags.IsEnabled(ctx, FlagPullOnLoad)
	if err != nil {
		s.logger.Warn("Feature flag lookup failed",
			zap.String("flag", FlagPullOnLoad),
			zap.Error(err),
		)
		return false
	}
	return enabled
}

// SubmitStep applies the answers for one step. When validation fails nothing is
// saved and the result keeps the wizard on the same step.
func (s *WizardService) SubmitStep(ctx context.Context, orgID uuid.UUID, step organisation.Step, input StepInput) (*StepResult, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	candidate := *org
	applyStep(&candidate, step, input)

	errs := organisation.Validate(&candidate, step.ValidationContext(&candidate, input.Answers))
	if !errs.Empty() {
		return &StepResult{Organisation: org, Next: step, Errors: errs}, nil
	}

	*org = candidate
	org.Touch(s.now())
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	return &StepResult{Organisation: org, Next: step.Next(org, input.Answers)}, nil
}

func applyStep(org *organisation.Organisation, step organisation.Step, in StepInput) {
	switch step {
	case organisation.StepName:
		org.Name = in.Name
	case organisation.StepAddress:
		org.Line1 = in.Line1
		org.Line2 = in.Line2
		org.Line3 = in.Line3
		org.TownCity = in.TownCity
		org.County = in.County
		org.Postcode = in.Postcode
	case organisation.StepOrgType:
		org.OrgType = in.OrgType
		org.CustomOrgType = ""
		if in.OrgType != nil && *in.OrgType == organisation.OrgTypeOther {
			org.CustomOrgType = in.CustomOrgType
		}
	case organisation.StepDescription:
		org.Description = in.Description
		org.MainPurposeAndActivities = in.MainPurposeAndActivities
	case organisation.StepCommunities:
		org.CommunitiesThatOrgServe = in.Communities
	case organisation.StepLeadershipSelfIdentify:
		org.LeadershipSelfIdentify = in.Communities
	case organisation.StepCharityNumber:
		org.CharityNumber = in.CharityNumber
	case organisation.StepCompanyNumber:
		org.CompanyNumber = in.CompanyNumber
	case organisation.StepVATRegistered:
		if in.VATRegistered == nil {
			org.VATRegistered = nil
			org.VATNumber = ""
			return
		}
		org.SetVATRegistration(*in.VATRegistered, in.VATNumber)
	case organisation.StepBoardMembersOrTrustees:
		org.BoardMembersOrTrustees = in.BoardMembersOrTrustees
	case organisation.StepNumberOfEmployees:
		org.NumberOfEmployees = nil
		if in.Answers["has_number_of_employees"] == "yes" {
			org.NumberOfEmployees = in.NumberOfEmployees
		}
	case organisation.StepNumberOfVolunteers:
		org.NumberOfVolunteers = nil
		if in.Answers["has_number_of_volunteers"] == "yes" {
			org.NumberOfVolunteers = in.NumberOfVolunteers
		}
	case organisation.StepVolunteerWorkDescription:
		org.VolunteerWorkDescription = in.VolunteerWorkDescription
	case organisation.StepGoverningDocumentsQuestion:
		org.WantsToUploadDocuments = in.WantsToUploadDocuments
	}
}

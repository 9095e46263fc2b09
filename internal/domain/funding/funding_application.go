package funding

import (
	"strings"
	"time"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAlreadySubmitted is returned when a submission timestamp would be set twice
var ErrAlreadySubmitted = shared.NewDomainError("ALREADY_SUBMITTED", "Application has already been submitted")

// caseNumberLength is how many trailing characters of the project reference form the case number
const caseNumberLength = 5

// Project holds the answers sent to the CRM as the project case
type Project struct {
	Title          string
	Description    string
	StartDate      *time.Time
	EndDate        *time.Time
	Line1          string
	TownCity       string
	County         string
	Postcode       string
	TotalCost      decimal.Decimal
	GrantRequested decimal.Decimal
}

// FundingApplication is the aggregate root for a grant application
type FundingApplication struct {
	shared.BaseEntity
	OrganisationID         uuid.UUID
	UserID                 uuid.UUID
	Project                Project
	SalesforceCaseID       string
	ProjectReferenceNumber string
	SalesforceCaseNumber   string
	SubmittedOn            *time.Time
	AwardType              AwardType
}

// NewFundingApplication starts an application for an organisation
func NewFundingApplication(organisationID, userID uuid.UUID) *FundingApplication {
	return &FundingApplication{
		BaseEntity:     shared.NewBaseEntity(),
		OrganisationID: organisationID,
		UserID:         userID,
	}
}

// IsSubmitted reports whether the application has been sent to the CRM
func (a *FundingApplication) IsSubmitted() bool {
	return a.SubmittedOn != nil
}

// MarkSubmitted records the CRM case references and the submission time.
// The case number is the last five characters of the project reference.
func (a *FundingApplication) MarkSubmitted(at time.Time, caseID, reference string) error {
	if a.IsSubmitted() {
		return ErrAlreadySubmitted
	}
	a.SubmittedOn = &at
	a.SalesforceCaseID = caseID
	a.ProjectReferenceNumber = reference
	a.SalesforceCaseNumber = lastRunes(reference, caseNumberLength)
	return nil
}

// NeedsAwardType reports whether the award type should be looked up in the CRM
func (a *FundingApplication) NeedsAwardType() bool {
	return a.IsSubmitted() && !a.AwardType.IsConcrete()
}

// AssignAwardType sets the award type. It moves from unset or unknown to a
// concrete value exactly once.
func (a *FundingApplication) AssignAwardType(t AwardType) error {
	if a.AwardType.IsConcrete() {
		if a.AwardType == t {
			return nil
		}
		return ErrAwardTypeAlreadySet
	}
	if !t.IsConcrete() {
		return ErrAwardTypeUndetermined
	}
	a.AwardType = t
	return nil
}

func lastRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

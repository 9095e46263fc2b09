package organisation

import (
	"regexp"
	"strings"
	"time"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// RecordType is the name under which organisations are tracked in the changes-check table
const RecordType = "Organisation"

// Organisation errors
var (
	ErrSalesforceAccountMismatch = shared.NewDomainError("SALESFORCE_ACCOUNT_MISMATCH",
		"Organisation is already linked to a different Salesforce account")
	ErrSalesforceAccountRequired = shared.NewDomainError("SALESFORCE_ACCOUNT_REQUIRED",
		"Organisation is not linked to a Salesforce account")
)

// Organisation is the aggregate root for an applicant organisation.
// Until it is first synced the local record is the system of record. Once linked
// to a Salesforce account the CRM is authoritative for the fields in RemoteDetails.
type Organisation struct {
	shared.BaseEntity
	Name                     string
	Line1                    string
	Line2                    string
	Line3                    string
	TownCity                 string
	County                   string
	Postcode                 string
	OrgType                  *OrgType
	CustomOrgType            string
	CompanyNumber            string
	CharityNumber            string
	SalesforceAccountID      string
	BoardMembersOrTrustees   *int
	VATRegistered            *bool
	VATNumber                string
	Description              string
	MainPurposeAndActivities string
	CommunitiesThatOrgServe  []Community
	LeadershipSelfIdentify   []Community
	NumberOfEmployees        *int
	NumberOfVolunteers       *int
	VolunteerWorkDescription string
	WantsToUploadDocuments   *bool
}

// RemoteDetails is the CRM projection of an organisation
type RemoteDetails struct {
	Name                   string
	BillingStreet          string
	BillingCity            string
	BillingState           string
	BillingPostalCode      string
	CompanyNumber          string
	CharityNumber          string
	OrgTypeLabel           string
	BoardMembersOrTrustees *int
	VATRegistered          *bool
	VATNumber              string
}

// New creates an empty organisation
func New() *Organisation {
	return &Organisation{BaseEntity: shared.NewBaseEntity()}
}

// NewWithID creates an empty organisation with a known id
func NewWithID(id uuid.UUID, now time.Time) *Organisation {
	return &Organisation{BaseEntity: shared.BaseEntity{ID: id, CreatedAt: now, UpdatedAt: now}}
}

// HasSalesforceAccount reports whether the organisation is linked to a CRM account
func (o *Organisation) HasSalesforceAccount() bool {
	return strings.TrimSpace(o.SalesforceAccountID) != ""
}

// LinkSalesforceAccount records the CRM account id. An organisation holds exactly
// one account id once synced; relinking to a different id is rejected.
func (o *Organisation) LinkSalesforceAccount(accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return shared.ErrInvalidInput.WithMessage("salesforce account id cannot be empty")
	}
	if o.HasSalesforceAccount() && o.SalesforceAccountID != accountID {
		return ErrSalesforceAccountMismatch
	}
	o.SalesforceAccountID = accountID
	return nil
}

// UpdatedOn reports whether the record was last updated on the same calendar day as day
func (o *Organisation) UpdatedOn(day time.Time) bool {
	return shared.SameDay(day, o.UpdatedAt)
}

// IsComplete reports whether the mandatory details needed before applying are present
func (o *Organisation) IsComplete() bool {
	return present(o.Name) &&
		present(o.Line1) &&
		present(o.TownCity) &&
		present(o.Postcode) &&
		o.OrgType != nil
}

// BillingStreet joins the address lines the way the CRM stores them
func (o *Organisation) BillingStreet() string {
	lines := make([]string, 0, 3)
	for _, l := range []string{o.Line1, o.Line2, o.Line3} {
		if present(l) {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	return strings.Join(lines, ", ")
}

var streetSeparator = regexp.MustCompile(`\s*,\s*`)

// ApplyRemoteDetails overwrites the identity and address fields owned by the CRM.
// Org type is not taken from the CRM since its picklist merges several local types.
func (o *Organisation) ApplyRemoteDetails(d RemoteDetails) {
	lines := []string{"", "", ""}
	if d.BillingStreet != "" {
		parts := streetSeparator.Split(d.BillingStreet, -1)
		for i := 0; i < len(parts) && i < 3; i++ {
			lines[i] = parts[i]
		}
		// Anything beyond three lines is kept on the last line
		if len(parts) > 3 {
			lines[2] = strings.Join(parts[2:], ", ")
		}
	}

	o.Name = d.Name
	o.Line1 = lines[0]
	o.Line2 = lines[1]
	o.Line3 = lines[2]
	o.TownCity = d.BillingCity
	o.County = d.BillingState
	o.Postcode = d.BillingPostalCode
	o.CompanyNumber = d.CompanyNumber
	o.CharityNumber = d.CharityNumber
}

// ApplyMediumGrantDetails overwrites the board and VAT answers held in the CRM
func (o *Organisation) ApplyMediumGrantDetails(d RemoteDetails) {
	o.BoardMembersOrTrustees = d.BoardMembersOrTrustees
	o.VATRegistered = d.VATRegistered
	o.VATNumber = d.VATNumber
}

// SetVATRegistration records the VAT answer. The number is discarded when not registered.
func (o *Organisation) SetVATRegistration(registered bool, vatNumber string) {
	o.VATRegistered = &registered
	if !registered {
		o.VATNumber = ""
		return
	}
	o.VATNumber = strings.TrimSpace(vatNumber)
}

// normalise trims and case-folds s. Casers are stateful so one is created per call.
func normalise(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal compares the attributes normally mandatory before applying for a grant.
// Medium grant answers are ignored as they vary per application.
func (o *Organisation) Equal(other *Organisation) bool {
	if o == nil || other == nil {
		return o == other
	}
	if !sameOrgType(o.OrgType, other.OrgType) {
		return false
	}
	pairs := [][2]string{
		{o.Name, other.Name},
		{o.Line1, other.Line1},
		{o.TownCity, other.TownCity},
		{o.County, other.County},
		{o.Postcode, other.Postcode},
		{o.CompanyNumber, other.CompanyNumber},
		{o.CharityNumber, other.CharityNumber},
	}
	for _, p := range pairs {
		if normalise(p[0]) != normalise(p[1]) {
			return false
		}
	}
	return true
}

func sameOrgType(a, b *OrgType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

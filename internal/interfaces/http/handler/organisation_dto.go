package handler

import (
	"path"
	"time"

	"github.com/google/uuid"

	orgapp "github.com/ffe/backend/internal/application/organisation"
	"github.com/ffe/backend/internal/domain/document"
	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/domain/shared"
)

// StepRequest carries the answers for one organisation wizard step.
// Only the fields belonging to the submitted step are read.
type StepRequest struct {
	Name                     string            `json:"name"`
	Line1                    string            `json:"line1"`
	Line2                    string            `json:"line2"`
	Line3                    string            `json:"line3"`
	TownCity                 string            `json:"town_city"`
	County                   string            `json:"county"`
	Postcode                 string            `json:"postcode"`
	OrgType                  string            `json:"org_type"`
	CustomOrgType            string            `json:"custom_org_type"`
	Description              string            `json:"description"`
	MainPurposeAndActivities string            `json:"main_purpose_and_activities"`
	Communities              []string          `json:"communities"`
	CharityNumber            string            `json:"charity_number"`
	CompanyNumber            string            `json:"company_number"`
	VATRegistered            *bool             `json:"vat_registered"`
	VATNumber                string            `json:"vat_number"`
	BoardMembersOrTrustees   *int              `json:"board_members_or_trustees"`
	NumberOfEmployees        *int              `json:"number_of_employees"`
	NumberOfVolunteers       *int              `json:"number_of_volunteers"`
	VolunteerWorkDescription string            `json:"volunteer_work_description"`
	WantsToUploadDocuments   *bool             `json:"wants_to_upload_documents"`
	Answers                  map[string]string `json:"answers" binding:"omitempty,dive,oneof=yes no"`
}

// ToInput converts the request into service input. An unknown org type is
// reported as a field error rather than silently dropped.
func (r StepRequest) ToInput() (orgapp.StepInput, shared.ValidationErrors) {
	in := orgapp.StepInput{
		Name:                     r.Name,
		Line1:                    r.Line1,
		Line2:                    r.Line2,
		Line3:                    r.Line3,
		TownCity:                 r.TownCity,
		County:                   r.County,
		Postcode:                 r.Postcode,
		CustomOrgType:            r.CustomOrgType,
		Description:              r.Description,
		MainPurposeAndActivities: r.MainPurposeAndActivities,
		CharityNumber:            r.CharityNumber,
		CompanyNumber:            r.CompanyNumber,
		VATRegistered:            r.VATRegistered,
		VATNumber:                r.VATNumber,
		BoardMembersOrTrustees:   r.BoardMembersOrTrustees,
		NumberOfEmployees:        r.NumberOfEmployees,
		NumberOfVolunteers:       r.NumberOfVolunteers,
		VolunteerWorkDescription: r.VolunteerWorkDescription,
		WantsToUploadDocuments:   r.WantsToUploadDocuments,
		Answers:                  r.Answers,
	}

	var errs shared.ValidationErrors
	if r.OrgType != "" {
		t, err := organisation.ParseOrgType(r.OrgType)
		if err != nil {
			errs.Add("org_type", "is not included in the list")
		} else {
			in.OrgType = &t
		}
	}
	for _, c := range r.Communities {
		in.Communities = append(in.Communities, organisation.Community(c))
	}
	return in, errs
}

// VATStatusRequest changes an organisation's VAT registration
type VATStatusRequest struct {
	VATRegistered *bool  `json:"vat_registered" binding:"required"`
	VATNumber     string `json:"vat_number" binding:"max=12"`
}

// SalesforceImportRequest names the Account to import from
type SalesforceImportRequest struct {
	AccountID string `json:"salesforce_account_id" binding:"required,min=15,max=18,alphanum"`
}

// OrganisationResponse is the API view of an organisation
type OrganisationResponse struct {
	ID                       uuid.UUID `json:"id"`
	Name                     string    `json:"name"`
	Line1                    string    `json:"line1"`
	Line2                    string    `json:"line2"`
	Line3                    string    `json:"line3"`
	TownCity                 string    `json:"town_city"`
	County                   string    `json:"county"`
	Postcode                 string    `json:"postcode"`
	OrgType                  *string   `json:"org_type"`
	CustomOrgType            string    `json:"custom_org_type,omitempty"`
	CompanyNumber            string    `json:"company_number"`
	CharityNumber            string    `json:"charity_number"`
	SalesforceAccountID      string    `json:"salesforce_account_id,omitempty"`
	BoardMembersOrTrustees   *int      `json:"board_members_or_trustees"`
	VATRegistered            *bool     `json:"vat_registered"`
	VATNumber                string    `json:"vat_number"`
	Description              string    `json:"description"`
	MainPurposeAndActivities string    `json:"main_purpose_and_activities"`
	CommunitiesThatOrgServe  []string  `json:"communities_that_org_serve"`
	LeadershipSelfIdentify   []string  `json:"leadership_self_identify"`
	NumberOfEmployees        *int      `json:"number_of_employees"`
	NumberOfVolunteers       *int      `json:"number_of_volunteers"`
	VolunteerWorkDescription string    `json:"volunteer_work_description"`
	WantsToUploadDocuments   *bool     `json:"wants_to_upload_documents"`
	Complete                 bool      `json:"complete"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// ToOrganisationResponse converts a domain organisation to its API view
func ToOrganisationResponse(o *organisation.Organisation) OrganisationResponse {
	resp := OrganisationResponse{
		ID:                       o.ID,
		Name:                     o.Name,
		Line1:                    o.Line1,
		Line2:                    o.Line2,
		Line3:                    o.Line3,
		TownCity:                 o.TownCity,
		County:                   o.County,
		Postcode:                 o.Postcode,
		CustomOrgType:            o.CustomOrgType,
		CompanyNumber:            o.CompanyNumber,
		CharityNumber:            o.CharityNumber,
		SalesforceAccountID:      o.SalesforceAccountID,
		BoardMembersOrTrustees:   o.BoardMembersOrTrustees,
		VATRegistered:            o.VATRegistered,
		VATNumber:                o.VATNumber,
		Description:              o.Description,
		MainPurposeAndActivities: o.MainPurposeAndActivities,
		CommunitiesThatOrgServe:  communityNames(o.CommunitiesThatOrgServe),
		LeadershipSelfIdentify:   communityNames(o.LeadershipSelfIdentify),
		NumberOfEmployees:        o.NumberOfEmployees,
		NumberOfVolunteers:       o.NumberOfVolunteers,
		VolunteerWorkDescription: o.VolunteerWorkDescription,
		WantsToUploadDocuments:   o.WantsToUploadDocuments,
		Complete:                 o.IsComplete(),
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
	}
	if o.OrgType != nil {
		name := o.OrgType.String()
		resp.OrgType = &name
	}
	return resp
}

func communityNames(in []organisation.Community) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = string(c)
	}
	return out
}

// StepResponse is returned after a wizard step has been saved
type StepResponse struct {
	Organisation OrganisationResponse `json:"organisation"`
	NextStep     string               `json:"next_step"`
}

// ImportResponse reports the outcome of a Salesforce import.
// Imported is false when the Account lacked mandatory details.
type ImportResponse struct {
	Imported bool `json:"imported"`
}

// BankAccountResponse reports whether the CRM holds bank details
type BankAccountResponse struct {
	HasBankAccount bool `json:"has_bank_account"`
}

// DocumentResponse is the API view of a stored governing document.
// Name is the value used to delete it.
type DocumentResponse struct {
	Name         string    `json:"name"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// ToDocumentResponse converts a stored document to its API view
func ToDocumentResponse(d document.Document) DocumentResponse {
	return DocumentResponse{
		Name:         path.Base(d.Key),
		Filename:     d.Filename,
		ContentType:  d.ContentType,
		Size:         d.Size,
		LastModified: d.LastModified,
	}
}

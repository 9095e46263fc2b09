package handler

import (
	"time"

	fundingapp "github.com/ffe/backend/internal/application/funding"
	"github.com/ffe/backend/internal/domain/funding"
)

// FundingApplicationResponse represents a submitted funding application
type FundingApplicationResponse struct {
	ID                     string     `json:"id"`
	OrganisationID         string     `json:"organisation_id"`
	ProjectTitle           string     `json:"project_title"`
	SalesforceCaseID       string     `json:"salesforce_case_id,omitempty"`
	ProjectReferenceNumber string     `json:"project_reference_number,omitempty"`
	SalesforceCaseNumber   string     `json:"salesforce_case_number,omitempty"`
	AwardType              string     `json:"award_type,omitempty"`
	SubmittedOn            *time.Time `json:"submitted_on,omitempty"`
}

// ToFundingApplicationResponse converts a domain FundingApplication to a response
func ToFundingApplicationResponse(app *funding.FundingApplication) FundingApplicationResponse {
	return FundingApplicationResponse{
		ID:                     app.ID.String(),
		OrganisationID:         app.OrganisationID.String(),
		ProjectTitle:           app.Project.Title,
		SalesforceCaseID:       app.SalesforceCaseID,
		ProjectReferenceNumber: app.ProjectReferenceNumber,
		SalesforceCaseNumber:   app.SalesforceCaseNumber,
		AwardType:              string(app.AwardType),
		SubmittedOn:            app.SubmittedOn,
	}
}

// AwardTypeResponse carries the award type read from the CRM
type AwardTypeResponse struct {
	AwardType string `json:"award_type"`
}

// SignatoryRequest is one legal signatory as entered on the form
type SignatoryRequest struct {
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
	Role         string `json:"role"`
}

// SignatoriesRequest replaces an application's legal signatories.
// The second signatory is optional.
type SignatoriesRequest struct {
	LegalSignatoryOne SignatoryRequest  `json:"legal_signatory_one"`
	LegalSignatoryTwo *SignatoryRequest `json:"legal_signatory_two"`
}

// ToInputs converts the request to service inputs, first signatory first
func (r SignatoriesRequest) ToInputs() []fundingapp.SignatoryInput {
	inputs := []fundingapp.SignatoryInput{r.LegalSignatoryOne.toInput()}
	if r.LegalSignatoryTwo != nil {
		inputs = append(inputs, r.LegalSignatoryTwo.toInput())
	}
	return inputs
}

func (r SignatoryRequest) toInput() fundingapp.SignatoryInput {
	return fundingapp.SignatoryInput{
		Name:         r.Name,
		EmailAddress: r.EmailAddress,
		PhoneNumber:  r.PhoneNumber,
		Role:         r.Role,
	}
}

// SignatoryResponse represents a stored legal signatory
type SignatoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
	Role         string `json:"role,omitempty"`
}

// SignatoriesResponse lists the signatories and whether the applicant is one of them
type SignatoriesResponse struct {
	Signatories          []SignatoryResponse `json:"signatories"`
	ApplicantIsSignatory bool                `json:"applicant_is_signatory"`
}

// ToSignatoriesResponse converts a SignatoriesResult to a response
func ToSignatoriesResponse(r *fundingapp.SignatoriesResult) SignatoriesResponse {
	resp := SignatoriesResponse{
		Signatories:          make([]SignatoryResponse, len(r.Signatories)),
		ApplicantIsSignatory: r.ApplicantIsSignatory,
	}
	for i, s := range r.Signatories {
		resp.Signatories[i] = SignatoryResponse{
			ID:           s.ID.String(),
			Name:         s.Name,
			EmailAddress: s.EmailAddress,
			PhoneNumber:  s.PhoneNumber,
			Role:         s.Role,
		}
	}
	return resp
}

// RemovedSignatoriesResponse reports how many signatories were scrubbed
type RemovedSignatoriesResponse struct {
	Removed int `json:"removed"`
}

// PaymentDetailsResponse carries award amounts as decimal strings
type PaymentDetailsResponse struct {
	GrantAward      string `json:"grant_award"`
	GrantPercentage string `json:"grant_percentage"`
}

// ToPaymentDetailsResponse converts PaymentDetails to a response
func ToPaymentDetailsResponse(d *funding.PaymentDetails) PaymentDetailsResponse {
	return PaymentDetailsResponse{
		GrantAward:      d.GrantAward.StringFixed(2),
		GrantPercentage: d.GrantPercentage.String(),
	}
}

// SyncPaymentRequestRequest names the CRM payment request form to attach spends to
type SyncPaymentRequestRequest struct {
	FormID string `json:"form_id" binding:"required,max=18"`
}

// CostHeadingsResponse lists the cost headings of an application's project
type CostHeadingsResponse struct {
	CostHeadings []string `json:"cost_headings"`
}

// PreApplicationResponse represents a pre-application after submission
type PreApplicationResponse struct {
	ID                   string     `json:"id"`
	OrganisationID       string     `json:"organisation_id"`
	SubmittedOn          *time.Time `json:"submitted_on,omitempty"`
	ProjectEnquiryID     string     `json:"salesforce_project_enquiry_id,omitempty"`
	ProjectEnquiryRef    string     `json:"salesforce_pef_reference,omitempty"`
	ExpressionOfInterest string     `json:"salesforce_eoi_id,omitempty"`
	EOIReference         string     `json:"salesforce_eoi_reference,omitempty"`
}

// ToPreApplicationResponse converts a domain PreApplication to a response
func ToPreApplicationResponse(pa *funding.PreApplication) PreApplicationResponse {
	resp := PreApplicationResponse{
		ID:             pa.ID.String(),
		OrganisationID: pa.OrganisationID.String(),
		SubmittedOn:    pa.SubmittedOn,
	}
	if pe := pa.ProjectEnquiry; pe != nil {
		resp.ProjectEnquiryID = pe.SalesforceProjectEnquiryID
		resp.ProjectEnquiryRef = pe.SalesforcePEFReference
	}
	if eoi := pa.ExpressionOfInterest; eoi != nil {
		resp.ExpressionOfInterest = eoi.SalesforceEOIID
		resp.EOIReference = eoi.SalesforceEOIReference
	}
	return resp
}

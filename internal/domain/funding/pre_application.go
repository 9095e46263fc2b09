package funding

import (
	"time"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PreApplication groups the optional project enquiry and expression of interest
// an applicant sends before applying
type PreApplication struct {
	shared.BaseEntity
	OrganisationID       uuid.UUID
	UserID               uuid.UUID
	SubmittedOn          *time.Time
	ProjectEnquiry       *ProjectEnquiry
	ExpressionOfInterest *ExpressionOfInterest
}

// NewPreApplication starts a pre-application for an organisation
func NewPreApplication(organisationID, userID uuid.UUID) *PreApplication {
	return &PreApplication{
		BaseEntity:     shared.NewBaseEntity(),
		OrganisationID: organisationID,
		UserID:         userID,
	}
}

// IsSubmitted reports whether the pre-application has been sent to the CRM
func (p *PreApplication) IsSubmitted() bool {
	return p.SubmittedOn != nil
}

// MarkSubmitted sets the submission time once
func (p *PreApplication) MarkSubmitted(at time.Time) error {
	if p.IsSubmitted() {
		return ErrAlreadySubmitted
	}
	p.SubmittedOn = &at
	return nil
}

// ExpressionOfInterest is a short outline of a larger project
type ExpressionOfInterest struct {
	ID                     uuid.UUID
	PreApplicationID       uuid.UUID
	WhatProjectDoes        string
	ProgrammeOutcomes      string
	HeritageFocus          string
	ProjectReasons         string
	ProjectTimescales      string
	OverallCost            string
	PotentialFundingAmount *int
	PreviousContactName    string
	SalesforceEOIID        string
	SalesforceEOIReference string
}

// AssignSalesforceReferences stores the CRM id and reference unless already held.
// It reports whether they were stored.
func (e *ExpressionOfInterest) AssignSalesforceReferences(id, reference string) bool {
	if e.SalesforceEOIID != "" {
		return false
	}
	e.SalesforceEOIID = id
	e.SalesforceEOIReference = reference
	return true
}

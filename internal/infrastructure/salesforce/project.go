package salesforce

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/ffe/backend/internal/domain/organisation"
)

const (
	contactObject          = "Contact"
	contactExternalIDField = "Contact_External_ID__c"
	caseObject             = "Case"
	caseExternalIDField    = "ApplicationId__c"
	dateLayout             = "2006-01-02"
)

// Case record types used for submissions
const (
	RecordTypeProjectEnquiry       = "Pre_application"
	RecordTypeExpressionOfInterest = "Expression_of_interest"
)

// awardedStatuses are the Case statuses reached once a grant has been awarded
var awardedStatuses = map[string]bool{
	"Awarded":                 true,
	"Permission to start":     true,
	"Legal agreement signed":  true,
	"Payment request":         true,
	"Grant expiry date":       true,
	"Project completion date": true,
}

type caseRecord struct {
	ID              string   `json:"Id"`
	Status          string   `json:"Status"`
	Reference       string   `json:"Project_Reference_Number__c"`
	GrantAward      *float64 `json:"Grant_Award__c"`
	DevGrantAward   *float64 `json:"Development_grant_award__c"`
	GrantPercentage *float64 `json:"Grant_Percentage__c"`
	RecordType      *struct {
		DeveloperName string `json:"DeveloperName"`
	} `json:"RecordType"`
}

// UpsertContact writes the applicant as a Contact on the organisation's Account
func (c *Client) UpsertContact(ctx context.Context, user *identity.User, accountID string) (string, error) {
	first, last := user.FirstAndLastName()
	fields := map[string]any{
		"FirstName":                  first,
		"LastName":                   last,
		"Email":                      user.Email,
		"Phone":                      user.Phone,
		"AccountId":                  accountID,
		"Agrees_To_User_Research__c": user.AgreesToUserResearch != nil && *user.AgreesToUserResearch,
	}
	return c.Upsert(ctx, contactObject, contactExternalIDField, user.ID.String(), fields)
}

// CreateProject upserts the applicant Contact and the project Case for a
// funding application and returns the references FFE keeps
func (c *Client) CreateProject(ctx context.Context, app *funding.FundingApplication, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error) {
	contactID, err := c.UpsertContact(ctx, user, org.SalesforceAccountID)
	if err != nil {
		return nil, err
	}

	p := app.Project
	fields := map[string]any{
		"AccountId":              org.SalesforceAccountID,
		"ContactId":              contactID,
		"Project_Title__c":       p.Title,
		"Project_Description__c": p.Description,
		"Project_Street__c":      p.Line1,
		"Project_City__c":        p.TownCity,
		"Project_County__c":      p.County,
		"Project_Post_Code__c":   p.Postcode,
		"Total_Cost__c":          p.TotalCost.InexactFloat64(),
		"Grant_requested__c":     p.GrantRequested.InexactFloat64(),
	}
	if p.StartDate != nil {
		fields["Project_Start_Date__c"] = p.StartDate.Format(dateLayout)
	}
	if p.EndDate != nil {
		fields["Project_End_Date__c"] = p.EndDate.Format(dateLayout)
	}

	caseID, err := c.Upsert(ctx, caseObject, caseExternalIDField, app.ID.String(), fields)
	if err != nil {
		return nil, err
	}
	reference, err := c.caseReference(ctx, caseID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Created project in Salesforce",
		zap.String("funding_application_id", app.ID.String()),
		zap.String("salesforce_case_id", caseID),
	)
	return &funding.SubmissionReferences{
		RecordID:          caseID,
		ExternalReference: reference,
		ContactID:         contactID,
		AccountID:         org.SalesforceAccountID,
	}, nil
}

// CreateProjectEnquiry upserts a project enquiry Case for a pre-application
func (c *Client) CreateProjectEnquiry(ctx context.Context, pe *funding.ProjectEnquiry, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error) {
	fields := map[string]any{
		"Project_Title__c":              pe.WorkingTitle,
		"Project_Description__c":        pe.WhatProjectDoes,
		"Investment_principles__c":      pe.InvestmentPrinciples,
		"Heritage_focus__c":             pe.HeritageFocus,
		"Project_reasons__c":            pe.ProjectReasons,
		"Project_participants__c":       pe.ProjectParticipants,
		"Project_timescales__c":         pe.ProjectTimescales,
		"Project_likely_cost__c":        pe.ProjectLikelyCost,
		"Potential_funding_amount__c":   pe.PotentialFundingAmount,
		"Previous_contact_with_fund__c": pe.PreviousContactName,
	}
	return c.createPreApplicationCase(ctx, RecordTypeProjectEnquiry, pe.ID.String(), fields, user, org)
}

// CreateExpressionOfInterest upserts an expression of interest Case for a pre-application
func (c *Client) CreateExpressionOfInterest(ctx context.Context, eoi *funding.ExpressionOfInterest, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error) {
	fields := map[string]any{
		"Project_Description__c":        eoi.WhatProjectDoes,
		"Programme_outcomes__c":         eoi.ProgrammeOutcomes,
		"Heritage_focus__c":             eoi.HeritageFocus,
		"Project_reasons__c":            eoi.ProjectReasons,
		"Project_timescales__c":         eoi.ProjectTimescales,
		"Overall_cost__c":               eoi.OverallCost,
		"Potential_funding_amount__c":   eoi.PotentialFundingAmount,
		"Previous_contact_with_fund__c": eoi.PreviousContactName,
	}
	return c.createPreApplicationCase(ctx, RecordTypeExpressionOfInterest, eoi.ID.String(), fields, user, org)
}

func (c *Client) createPreApplicationCase(ctx context.Context, recordType, externalID string, fields map[string]any, user *identity.User, org *organisation.Organisation) (*funding.SubmissionReferences, error) {
	contactID, err := c.UpsertContact(ctx, user, org.SalesforceAccountID)
	if err != nil {
		return nil, err
	}
	recordTypeID, err := c.RecordTypeID(ctx, recordType, caseObject)
	if err != nil {
		return nil, err
	}

	fields["RecordTypeId"] = recordTypeID
	fields["AccountId"] = org.SalesforceAccountID
	fields["ContactId"] = contactID

	caseID, err := c.Upsert(ctx, caseObject, caseExternalIDField, externalID, fields)
	if err != nil {
		return nil, err
	}
	reference, err := c.caseReference(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return &funding.SubmissionReferences{
		RecordID:          caseID,
		ExternalReference: reference,
		ContactID:         contactID,
		AccountID:         org.SalesforceAccountID,
	}, nil
}

// IsProjectAwarded reports whether the Case has reached an awarded status
func (c *Client) IsProjectAwarded(ctx context.Context, caseID string) (bool, error) {
	r, err := c.caseByID(ctx, "SELECT Id, Status FROM Case WHERE Id = ?", caseID)
	if err != nil {
		return false, err
	}
	return awardedStatuses[r.Status], nil
}

// GrantLevelDetails reads the record type and award amounts of a Case
func (c *Client) GrantLevelDetails(ctx context.Context, caseID string) (funding.GrantLevelDetails, error) {
	r, err := c.caseByID(ctx,
		"SELECT Id, RecordType.DeveloperName, Grant_Award__c, Development_grant_award__c FROM Case WHERE Id = ?", caseID)
	if err != nil {
		return funding.GrantLevelDetails{}, err
	}
	details := funding.GrantLevelDetails{
		GrantAward:    toDecimal(r.GrantAward),
		DevGrantAward: toDecimal(r.DevGrantAward),
	}
	if r.RecordType != nil {
		details.RecordType = r.RecordType.DeveloperName
	}
	return details, nil
}

// PaymentDetails reads the grant award and percentage for a funding application
func (c *Client) PaymentDetails(ctx context.Context, app *funding.FundingApplication) (funding.PaymentDetails, error) {
	soql, err := BuildQuery("SELECT Grant_Award__c, Grant_Percentage__c FROM Case WHERE ApplicationId__c = ?", app.ID)
	if err != nil {
		return funding.PaymentDetails{}, err
	}
	var records []caseRecord
	if err := c.queryInto(ctx, soql, &records); err != nil {
		return funding.PaymentDetails{}, err
	}
	if len(records) == 0 {
		return funding.PaymentDetails{}, fmt.Errorf("%w: case for application %s", ErrNotFound, app.ID)
	}
	var details funding.PaymentDetails
	if d := toDecimal(records[0].GrantAward); d != nil {
		details.GrantAward = *d
	}
	if d := toDecimal(records[0].GrantPercentage); d != nil {
		details.GrantPercentage = *d
	}
	return details, nil
}

func (c *Client) caseReference(ctx context.Context, caseID string) (string, error) {
	r, err := c.caseByID(ctx, "SELECT Id, Project_Reference_Number__c FROM Case WHERE Id = ?", caseID)
	if err != nil {
		return "", err
	}
	return r.Reference, nil
}

func (c *Client) caseByID(ctx context.Context, template, caseID string) (*caseRecord, error) {
	soql, err := BuildQuery(template, caseID)
	if err != nil {
		return nil, err
	}
	var records []caseRecord
	if err := c.queryInto(ctx, soql, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: case %s", ErrNotFound, caseID)
	}
	return &records[0], nil
}

func toDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

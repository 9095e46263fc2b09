package funding

import (
	"fmt"
	"unicode/utf8"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectEnquiry is the pre-application form for projects asking for up to £250,000
type ProjectEnquiry struct {
	ID                         uuid.UUID
	PreApplicationID           uuid.UUID
	WorkingTitle               string
	WhatProjectDoes            string
	InvestmentPrinciples       string
	HeritageFocus              string
	ProjectReasons             string
	ProjectParticipants        string
	ProjectTimescales          string
	ProjectLikelyCost          string
	PotentialFundingAmount     *int
	PreviousContactName        string
	SalesforceProjectEnquiryID string
	SalesforcePEFReference     string
}

// AssignSalesforceReferences stores the CRM id and reference unless already held.
// It reports whether they were stored.
func (p *ProjectEnquiry) AssignSalesforceReferences(id, reference string) bool {
	if p.SalesforceProjectEnquiryID != "" {
		return false
	}
	p.SalesforceProjectEnquiryID = id
	p.SalesforcePEFReference = reference
	return true
}

// EnquiryRule names one constraint group of the project enquiry wizard
type EnquiryRule int

const (
	EnquiryRuleWorkingTitle EnquiryRule = iota + 1
	EnquiryRuleWhatProjectDoes
	EnquiryRuleInvestmentPrinciples
	EnquiryRuleHeritageFocus
	EnquiryRuleProjectReasons
	EnquiryRuleProjectParticipants
	EnquiryRuleProjectTimescales
	EnquiryRuleProjectLikelyCost
	EnquiryRulePotentialFundingAmount
)

const (
	maxWorkingTitle           = 255
	maxPotentialFundingAmount = 250000
)

var enquiryWordLimits = map[EnquiryRule]int{
	EnquiryRuleWhatProjectDoes:      200,
	EnquiryRuleInvestmentPrinciples: 200,
	EnquiryRuleHeritageFocus:        100,
	EnquiryRuleProjectReasons:       200,
	EnquiryRuleProjectParticipants:  100,
	EnquiryRuleProjectTimescales:    50,
	EnquiryRuleProjectLikelyCost:    200,
}

// ProjectEnquiryValidationContext selects the rules for one enquiry submission
type ProjectEnquiryValidationContext struct {
	rules map[EnquiryRule]bool
}

// NewProjectEnquiryValidationContext enables the given rules
func NewProjectEnquiryValidationContext(rules ...EnquiryRule) ProjectEnquiryValidationContext {
	ctx := ProjectEnquiryValidationContext{rules: make(map[EnquiryRule]bool, len(rules))}
	for _, r := range rules {
		ctx.rules[r] = true
	}
	return ctx
}

// Has reports whether a rule is enabled
func (c ProjectEnquiryValidationContext) Has(r EnquiryRule) bool {
	return c.rules[r]
}

// ValidateProjectEnquiry checks p against the enabled rules without modifying it
func ValidateProjectEnquiry(p *ProjectEnquiry, ctx ProjectEnquiryValidationContext) shared.ValidationErrors {
	var errs shared.ValidationErrors

	if ctx.Has(EnquiryRuleWorkingTitle) && utf8.RuneCountInString(p.WorkingTitle) > maxWorkingTitle {
		errs.Add("working_title", fmt.Sprintf("is too long (maximum is %d characters)", maxWorkingTitle))
	}

	texts := []struct {
		rule  EnquiryRule
		field string
		value string
	}{
		{EnquiryRuleWhatProjectDoes, "what_project_does", p.WhatProjectDoes},
		{EnquiryRuleInvestmentPrinciples, "investment_principles", p.InvestmentPrinciples},
		{EnquiryRuleHeritageFocus, "heritage_focus", p.HeritageFocus},
		{EnquiryRuleProjectReasons, "project_reasons", p.ProjectReasons},
		{EnquiryRuleProjectParticipants, "project_participants", p.ProjectParticipants},
		{EnquiryRuleProjectTimescales, "project_timescales", p.ProjectTimescales},
		{EnquiryRuleProjectLikelyCost, "project_likely_cost", p.ProjectLikelyCost},
	}
	for _, t := range texts {
		limit := enquiryWordLimits[t.rule]
		if ctx.Has(t.rule) && shared.WordCount(t.value) > limit {
			errs.Add(t.field, fmt.Sprintf("must be %d words or fewer", limit))
		}
	}

	if ctx.Has(EnquiryRulePotentialFundingAmount) && p.PotentialFundingAmount != nil {
		amount := *p.PotentialFundingAmount
		if amount <= 0 || amount > maxPotentialFundingAmount {
			errs.Add("potential_funding_amount", fmt.Sprintf("must be between 1 and %d", maxPotentialFundingAmount))
		}
	}

	return errs
}

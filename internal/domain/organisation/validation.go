package organisation

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ffe/backend/internal/domain/shared"
)

// Rule names a group of constraints that apply to one kind of submission
type Rule int

const (
	RuleName Rule = iota + 1
	RuleOrgType
	RuleCustomOrgType
	RuleAddress
	RuleBoardMembers
	RuleVATRegistered
	RuleVATNumber
	RuleCompanyNumber
	RuleCharityNumber
	RuleDescription
	RuleCommunities
	RuleLeadershipSelfIdentify
	RuleNumberOfEmployees
	RuleNumberOfVolunteers
	RuleVolunteerWorkDescription
	RuleGoverningDocumentsQuestion
)

const (
	maxNameLength         = 255
	maxBoardMembers       = math.MaxInt32
	minVATNumberLength    = 9
	maxVATNumberLength    = 12
	maxRegistrationNumber = 20
	maxDescriptionWords   = 500
	maxVolunteerWorkWords = 500
)

// ValidationContext describes which rule set applies to a submission.
// It replaces per-field toggles on the entity: callers build one per operation
// and pass it to Validate alongside the organisation.
type ValidationContext struct {
	rules map[Rule]bool
	// YesNoAnswers carries yes/no radio answers that are not stored on the entity
	YesNoAnswers map[string]string
}

// NewValidationContext builds a context enabling the given rules
func NewValidationContext(rules ...Rule) ValidationContext {
	ctx := ValidationContext{rules: make(map[Rule]bool, len(rules))}
	for _, r := range rules {
		ctx.rules[r] = true
	}
	return ctx
}

// WithAnswer returns a copy of the context carrying a yes/no answer
func (c ValidationContext) WithAnswer(field, answer string) ValidationContext {
	answers := make(map[string]string, len(c.YesNoAnswers)+1)
	for k, v := range c.YesNoAnswers {
		answers[k] = v
	}
	answers[field] = answer
	c.YesNoAnswers = answers
	return c
}

// Has reports whether a rule is enabled
func (c ValidationContext) Has(r Rule) bool {
	return c.rules[r]
}

// FieldError and ValidationErrors are shared with the other form wizards
type (
	FieldError       = shared.FieldError
	ValidationErrors = shared.ValidationErrors
)

// Validate checks org against the rules enabled in ctx. It does not modify org.
func Validate(org *Organisation, ctx ValidationContext) ValidationErrors {
	var errs ValidationErrors

	if utf8.RuneCountInString(org.Name) > maxNameLength {
		errs.Add("name", fmt.Sprintf("is too long (maximum is %d characters)", maxNameLength))
	}
	if (ctx.Has(RuleName) || ctx.Has(RuleAddress)) && !present(org.Name) {
		errs.Add("name", "can't be blank")
	}
	if ctx.Has(RuleOrgType) {
		if org.OrgType == nil {
			errs.Add("org_type", "can't be blank")
		} else if !org.OrgType.Selectable() {
			errs.Add("org_type", "is not included in the list")
		}
	}
	if ctx.Has(RuleCustomOrgType) && !present(org.CustomOrgType) {
		errs.Add("custom_org_type", "can't be blank")
	}
	if ctx.Has(RuleAddress) {
		required := []struct{ field, value string }{
			{"line1", org.Line1},
			{"townCity", org.TownCity},
			{"county", org.County},
			{"postcode", org.Postcode},
		}
		for _, r := range required {
			if !present(r.value) {
				errs.Add(r.field, "can't be blank")
			}
		}
	}
	if ctx.Has(RuleBoardMembers) && org.BoardMembersOrTrustees != nil {
		n := *org.BoardMembersOrTrustees
		if n < 0 || n > maxBoardMembers {
			errs.Add("board_members_or_trustees", fmt.Sprintf("must be between 0 and %d", maxBoardMembers))
		}
	}
	if ctx.Has(RuleVATRegistered) && org.VATRegistered == nil {
		errs.Add("vat_registered", "is not included in the list")
	}
	if ctx.Has(RuleVATNumber) {
		n := utf8.RuneCountInString(org.VATNumber)
		if n < minVATNumberLength || n > maxVATNumberLength {
			errs.Add("vat_number", fmt.Sprintf("must be between %d and %d characters", minVATNumberLength, maxVATNumberLength))
		}
	}
	if ctx.Has(RuleCompanyNumber) && utf8.RuneCountInString(org.CompanyNumber) > maxRegistrationNumber {
		errs.Add("company_number", fmt.Sprintf("is too long (maximum is %d characters)", maxRegistrationNumber))
	}
	if ctx.Has(RuleCharityNumber) && utf8.RuneCountInString(org.CharityNumber) > maxRegistrationNumber {
		errs.Add("charity_number", fmt.Sprintf("is too long (maximum is %d characters)", maxRegistrationNumber))
	}
	if ctx.Has(RuleDescription) && WordCount(org.Description) > maxDescriptionWords {
		errs.Add("description", fmt.Sprintf("must be %d words or fewer", maxDescriptionWords))
	}
	if ctx.Has(RuleCommunities) {
		validateCommunities(&errs, "communities_that_org_serve", org.CommunitiesThatOrgServe)
	}
	if ctx.Has(RuleLeadershipSelfIdentify) {
		validateCommunities(&errs, "leadership_self_identify", org.LeadershipSelfIdentify)
	}
	if ctx.Has(RuleNumberOfEmployees) {
		validateCount(&errs, ctx, "has_number_of_employees", "number_of_employees", org.NumberOfEmployees)
	}
	if ctx.Has(RuleNumberOfVolunteers) {
		validateCount(&errs, ctx, "has_number_of_volunteers", "number_of_volunteers", org.NumberOfVolunteers)
	}
	if ctx.Has(RuleVolunteerWorkDescription) && WordCount(org.VolunteerWorkDescription) > maxVolunteerWorkWords {
		errs.Add("volunteer_work_description", fmt.Sprintf("must be %d words or fewer", maxVolunteerWorkWords))
	}
	if ctx.Has(RuleGoverningDocumentsQuestion) && org.WantsToUploadDocuments == nil {
		errs.Add("wants_to_upload_document", "can't be blank")
	}

	return errs
}

func validateCommunities(errs *ValidationErrors, field string, values []Community) {
	for _, c := range values {
		if !c.IsKnown() {
			errs.Add(field, fmt.Sprintf("contains an unknown option %q", string(c)))
		}
	}
}

// validateCount checks a yes/no question followed by an optional count
func validateCount(errs *ValidationErrors, ctx ValidationContext, answerField, countField string, count *int) {
	answer := ctx.YesNoAnswers[answerField]
	switch answer {
	case "yes":
		if count == nil {
			errs.Add(countField, "can't be blank")
		} else if *count < 0 || *count > maxBoardMembers {
			errs.Add(countField, fmt.Sprintf("must be between 0 and %d", maxBoardMembers))
		}
	case "no":
	default:
		errs.Add(answerField, "can't be blank")
	}
}

// WordCount counts whitespace separated words
func WordCount(s string) int {
	return shared.WordCount(s)
}

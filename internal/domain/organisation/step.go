package organisation

import "fmt"

// Step identifies one page of the organisation wizard
type Step string

const (
	StepName                       Step = "name"
	StepAddress                    Step = "address"
	StepOrgType                    Step = "org_type"
	StepDescription                Step = "description"
	StepCommunities                Step = "communities"
	StepLeadershipSelfIdentify     Step = "leadership_self_identify"
	StepCharityNumber              Step = "charity_number"
	StepCompanyNumber              Step = "company_number"
	StepVATRegistered              Step = "vat_registered"
	StepBoardMembersOrTrustees     Step = "board_members_or_trustees"
	StepNumberOfEmployees          Step = "number_of_employees"
	StepNumberOfVolunteers         Step = "number_of_volunteers"
	StepVolunteerWorkDescription   Step = "volunteer_work_description"
	StepGoverningDocumentsQuestion Step = "governing_documents_question"
	StepGoverningDocuments         Step = "governing_documents"
	StepSummary                    Step = "summary"
	StepDashboard                  Step = "dashboard"
)

// linear holds the default successor of each step
var linear = map[Step]Step{
	StepName:                       StepAddress,
	StepAddress:                    StepOrgType,
	StepOrgType:                    StepDescription,
	StepDescription:                StepCommunities,
	StepCommunities:                StepLeadershipSelfIdentify,
	StepLeadershipSelfIdentify:     StepCharityNumber,
	StepCharityNumber:              StepCompanyNumber,
	StepCompanyNumber:              StepVATRegistered,
	StepVATRegistered:              StepBoardMembersOrTrustees,
	StepBoardMembersOrTrustees:     StepNumberOfEmployees,
	StepNumberOfEmployees:          StepNumberOfVolunteers,
	StepNumberOfVolunteers:         StepVolunteerWorkDescription,
	StepVolunteerWorkDescription:   StepGoverningDocumentsQuestion,
	StepGoverningDocumentsQuestion: StepGoverningDocuments,
	StepGoverningDocuments:         StepSummary,
	StepSummary:                    StepDashboard,
}

// ParseStep validates a step name
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if _, ok := linear[step]; ok {
		return step, nil
	}
	return "", fmt.Errorf("unknown organisation step %q", s)
}

// ValidationContext returns the rule set that applies when this step is submitted
func (s Step) ValidationContext(org *Organisation, answers map[string]string) ValidationContext {
	var ctx ValidationContext
	switch s {
	case StepName:
		ctx = NewValidationContext(RuleName)
	case StepAddress:
		ctx = NewValidationContext(RuleAddress)
	case StepOrgType:
		ctx = NewValidationContext(RuleOrgType)
		if org.OrgType != nil && *org.OrgType == OrgTypeOther {
			ctx = NewValidationContext(RuleOrgType, RuleCustomOrgType)
		}
	case StepDescription:
		ctx = NewValidationContext(RuleDescription)
	case StepCommunities:
		ctx = NewValidationContext(RuleCommunities)
	case StepLeadershipSelfIdentify:
		ctx = NewValidationContext(RuleLeadershipSelfIdentify)
	case StepCharityNumber:
		ctx = NewValidationContext(RuleCharityNumber)
	case StepCompanyNumber:
		ctx = NewValidationContext(RuleCompanyNumber)
	case StepVATRegistered:
		ctx = NewValidationContext(RuleVATRegistered)
		if org.VATRegistered != nil && *org.VATRegistered {
			ctx = NewValidationContext(RuleVATRegistered, RuleVATNumber)
		}
	case StepBoardMembersOrTrustees:
		ctx = NewValidationContext(RuleBoardMembers)
	case StepNumberOfEmployees:
		ctx = NewValidationContext(RuleNumberOfEmployees)
	case StepNumberOfVolunteers:
		ctx = NewValidationContext(RuleNumberOfVolunteers)
	case StepVolunteerWorkDescription:
		ctx = NewValidationContext(RuleVolunteerWorkDescription)
	case StepGoverningDocumentsQuestion:
		ctx = NewValidationContext(RuleGoverningDocumentsQuestion)
	default:
		ctx = NewValidationContext()
	}
	for field, answer := range answers {
		ctx = ctx.WithAnswer(field, answer)
	}
	return ctx
}

// Next returns the step that follows s once it has been saved
func (s Step) Next(org *Organisation, answers map[string]string) Step {
	switch s {
	case StepNumberOfVolunteers:
		if answers["has_number_of_volunteers"] == "no" {
			return StepGoverningDocumentsQuestion
		}
	case StepGoverningDocumentsQuestion:
		if org.WantsToUploadDocuments != nil && !*org.WantsToUploadDocuments {
			return StepSummary
		}
	}
	if next, ok := linear[s]; ok {
		return next
	}
	return StepDashboard
}

package salesforce

import (
	"strings"

	"github.com/ffe/backend/internal/domain/organisation"
)

// Fallback labels for values the CRM picklists do not know
const (
	UnknownOrgTypeLabel   = "Unknown organisation type"
	UnknownCommunityLabel = "Unknown"
)

// VAT registered picklist values
const (
	VATRegisteredYes           = "Yes"
	VATRegisteredNo            = "No"
	VATRegisteredNotApplicable = "N/A"
)

// orgTypeLabels maps local org types onto the Organisation_Type__c picklist.
// Several local types share one CRM label.
var orgTypeLabels = map[organisation.OrgType]string{
	organisation.OrgTypeRegisteredCharity:                "Registered charity",
	organisation.OrgTypeLocalAuthority:                   "Local authority",
	organisation.OrgTypeRegisteredCompany:                "Registered company or Community Interest Company (CIC)",
	organisation.OrgTypeCommunityInterestCompany:         "Registered company or Community Interest Company (CIC)",
	organisation.OrgTypeFaithBasedOrganisation:           "Faith based or church organisation",
	organisation.OrgTypeChurchOrganisation:               "Faith based or church organisation",
	organisation.OrgTypeCommunityGroup:                   "Community of Voluntary group",
	organisation.OrgTypeVoluntaryGroup:                   "Community of Voluntary group",
	organisation.OrgTypeIndividualPrivateOwnerOfHeritage: "Private owner of heritage",
	organisation.OrgTypeOther:                            "Other organisation type",
	organisation.OrgTypeOtherPublicSectorOrganisation:    "Other public sector organisation",
	organisation.OrgTypeUnknown:                          UnknownOrgTypeLabel,
}

var communityLabels = map[organisation.Community]string{
	organisation.CommunityEthnicOrRaciallyDiverse:  "Ethnic or racially diverse communities",
	organisation.CommunityDisabledPeople:           "Disabled people",
	organisation.CommunityFaith:                    "Faith communities",
	organisation.CommunityLGBTPlus:                 "LGBT+ people",
	organisation.CommunityWomenAndGirls:            "Women and girls",
	organisation.CommunitySocioEconomicDeprivation: "People experiencing socio-economic deprivation",
	organisation.CommunityYoungPeople:              "Young people",
	organisation.CommunityOlderPeople:              "Older people",
	organisation.CommunityNoneOfTheAbove:           "None of the above",
	organisation.CommunityPreferNotToSay:           "Prefer not to say",
}

// OrgTypeLabel returns the CRM label for an org type. A nil or unmapped type
// yields the unknown label.
func OrgTypeLabel(t *organisation.OrgType) string {
	if t == nil {
		return UnknownOrgTypeLabel
	}
	if label, ok := orgTypeLabels[*t]; ok {
		return label
	}
	return UnknownOrgTypeLabel
}

// VATRegisteredLabel maps the tri-state VAT answer onto the picklist
func VATRegisteredLabel(registered *bool) string {
	switch {
	case registered == nil:
		return VATRegisteredNotApplicable
	case *registered:
		return VATRegisteredYes
	default:
		return VATRegisteredNo
	}
}

// ParseVATRegistered maps the picklist back to the tri-state answer
func ParseVATRegistered(label string) *bool {
	var v bool
	switch label {
	case VATRegisteredYes:
		v = true
	case VATRegisteredNo:
		v = false
	default:
		return nil
	}
	return &v
}

// CommunitiesLabel joins the CRM labels of a multi-select answer with ";".
// Each unmapped code becomes "Unknown".
func CommunitiesLabel(values []organisation.Community) string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		if label, ok := communityLabels[v]; ok {
			labels = append(labels, label)
			continue
		}
		labels = append(labels, UnknownCommunityLabel)
	}
	return strings.Join(labels, ";")
}

// accountFields maps an organisation onto Account fields. The org type is left
// out when the CRM already holds the record, as its picklist may have been
// refined there.
func accountFields(org *organisation.Organisation, includeOrgType bool) map[string]any {
	fields := map[string]any{
		"Name":                                   org.Name,
		"Account_External_ID__c":                 org.ID.String(),
		"BillingStreet":                          org.BillingStreet(),
		"BillingCity":                            org.TownCity,
		"BillingState":                           org.County,
		"BillingPostalCode":                      org.Postcode,
		"Company_Number__c":                      org.CompanyNumber,
		"Charity_Number__c":                      org.CharityNumber,
		"Are_you_VAT_registered_picklist__c":     VATRegisteredLabel(org.VATRegistered),
		"VAT_number__c":                          org.VATNumber,
		"Number_Of_Board_members_or_Trustees__c": org.BoardMembersOrTrustees,
		"organisation_description__c":            org.Description,
		"Communities_that_org_serves__c":         CommunitiesLabel(org.CommunitiesThatOrgServe),
		"leadership_self_identify__c":            CommunitiesLabel(org.LeadershipSelfIdentify),
		"NumberOfEmployees":                      org.NumberOfEmployees,
		"Number_of_volunteers__c":                org.NumberOfVolunteers,
		"Volunteer_work_description__c":          org.VolunteerWorkDescription,
	}
	if includeOrgType {
		fields["Organisation_Type__c"] = OrgTypeLabel(org.OrgType)
	}
	return fields
}

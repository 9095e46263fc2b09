package organisation

import (
	"encoding/json"
	"fmt"
)

// OrgType classifies an organisation. Values are persisted as integers and must not be reordered.
type OrgType int

const (
	OrgTypeRegisteredCharity OrgType = iota
	OrgTypeLocalAuthority
	OrgTypeRegisteredCompany
	OrgTypeCommunityInterestCompany
	OrgTypeFaithBasedOrganisation
	OrgTypeChurchOrganisation
	OrgTypeCommunityGroup
	OrgTypeVoluntaryGroup
	OrgTypeIndividualPrivateOwnerOfHeritage
	OrgTypeOther
	OrgTypeOtherPublicSectorOrganisation
	// OrgTypeUnknown is used for organisations imported from the CRM whose type cannot be mapped
	OrgTypeUnknown
)

var orgTypeNames = map[OrgType]string{
	OrgTypeRegisteredCharity:                "registered_charity",
	OrgTypeLocalAuthority:                   "local_authority",
	OrgTypeRegisteredCompany:                "registered_company",
	OrgTypeCommunityInterestCompany:         "community_interest_company",
	OrgTypeFaithBasedOrganisation:           "faith_based_organisation",
	OrgTypeChurchOrganisation:               "church_organisation",
	OrgTypeCommunityGroup:                   "community_group",
	OrgTypeVoluntaryGroup:                   "voluntary_group",
	OrgTypeIndividualPrivateOwnerOfHeritage: "individual_private_owner_of_heritage",
	OrgTypeOther:                            "other",
	OrgTypeOtherPublicSectorOrganisation:    "other_public_sector_organisation",
	OrgTypeUnknown:                          "unknown",
}

// AllOrgTypes returns every defined org type in persisted order
func AllOrgTypes() []OrgType {
	types := make([]OrgType, 0, len(orgTypeNames))
	for t := OrgTypeRegisteredCharity; t <= OrgTypeUnknown; t++ {
		types = append(types, t)
	}
	return types
}

// String returns the snake_case name of the org type
func (t OrgType) String() string {
	if name, ok := orgTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("org_type(%d)", int(t))
}

// IsValid reports whether t is a defined org type
func (t OrgType) IsValid() bool {
	_, ok := orgTypeNames[t]
	return ok
}

// Selectable reports whether an applicant can choose this type in the wizard
func (t OrgType) Selectable() bool {
	return t.IsValid() && t != OrgTypeUnknown
}

// ParseOrgType converts a snake_case name into an OrgType
func ParseOrgType(s string) (OrgType, error) {
	for t, name := range orgTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown organisation type %q", s)
}

// MarshalJSON encodes the org type by name
func (t OrgType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an org type from its name
func (t *OrgType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOrgType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

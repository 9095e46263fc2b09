package organisation

// Community is a code for a group of people an organisation serves or is led by.
// The same code set backs both the "communities served" and the
// "leadership self-identify" multi-select answers.
type Community string

const (
	CommunityEthnicOrRaciallyDiverse  Community = "ethnic_or_racially_diverse"
	CommunityDisabledPeople           Community = "disabled_people"
	CommunityFaith                    Community = "faith_communities"
	CommunityLGBTPlus                 Community = "lgbt_plus"
	CommunityWomenAndGirls            Community = "women_and_girls"
	CommunitySocioEconomicDeprivation Community = "socio_economic_deprivation"
	CommunityYoungPeople              Community = "young_people"
	CommunityOlderPeople              Community = "older_people"
	CommunityNoneOfTheAbove           Community = "none_of_the_above"
	CommunityPreferNotToSay           Community = "prefer_not_to_say"
)

// AllCommunities lists every known community code
func AllCommunities() []Community {
	return []Community{
		CommunityEthnicOrRaciallyDiverse,
		CommunityDisabledPeople,
		CommunityFaith,
		CommunityLGBTPlus,
		CommunityWomenAndGirls,
		CommunitySocioEconomicDeprivation,
		CommunityYoungPeople,
		CommunityOlderPeople,
		CommunityNoneOfTheAbove,
		CommunityPreferNotToSay,
	}
}

// IsKnown reports whether c is one of the defined codes
func (c Community) IsKnown() bool {
	for _, known := range AllCommunities() {
		if c == known {
			return true
		}
	}
	return false
}

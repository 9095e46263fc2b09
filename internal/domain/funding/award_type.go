package funding

import (
	"fmt"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AwardType classifies a funding application by grant level. It decides which
// agreement and payment journeys the applicant sees, so once a concrete value
// has been stored it never changes.
type AwardType string

const (
	AwardTypeUnknown      AwardType = "award_type_unknown"
	AwardTypeIs3To10k     AwardType = "is_3_to_10k"
	AwardTypeIs10To100k   AwardType = "is_10_to_100k"
	AwardTypeIs100To250k  AwardType = "is_100_to_250k"
	AwardTypeDevTo100k    AwardType = "dev_to_100k"
	AwardTypeDevOver100k  AwardType = "dev_over_100k"
	AwardTypeDel250kTo5mm AwardType = "del_250k_to_5mm"
)

// CRM case record type developer names
const (
	RecordTypeLargeDevelopment = "Large_Development_250_500k"
	RecordTypeLargeDelivery    = "Large"
	RecordTypeSmallGrant       = "Small_Grant_3_10k"
	RecordTypeMediumGrant      = "Medium"
)

// Award type errors
var (
	ErrAwardTypeAlreadySet   = shared.NewDomainError("AWARD_TYPE_ALREADY_SET", "Award type has already been set")
	ErrAwardTypeUndetermined = shared.NewDomainError("AWARD_TYPE_UNDETERMINED", "Could not identify an award type")
)

var awardThreshold = decimal.NewFromInt(100000)

// IsConcrete reports whether t is a defined award type other than unknown
func (t AwardType) IsConcrete() bool {
	switch t {
	case AwardTypeIs3To10k, AwardTypeIs10To100k, AwardTypeIs100To250k,
		AwardTypeDevTo100k, AwardTypeDevOver100k, AwardTypeDel250kTo5mm:
		return true
	}
	return false
}

// IsValid reports whether t is a defined award type, including unknown
func (t AwardType) IsValid() bool {
	return t == AwardTypeUnknown || t.IsConcrete()
}

// GrantLevelDetails is what the CRM holds about an awarded case
type GrantLevelDetails struct {
	RecordType    string
	GrantAward    *decimal.Decimal
	DevGrantAward *decimal.Decimal
}

// DetermineAwardType maps grant level details to an award type.
// Development and medium cases are split on the award amount; a missing amount
// or an unrecognised record type is an error.
func DetermineAwardType(d GrantLevelDetails) (AwardType, error) {
	switch d.RecordType {
	case RecordTypeLargeDevelopment:
		if t, ok := byAmount(d.DevGrantAward, AwardTypeDevTo100k, AwardTypeDevOver100k); ok {
			return t, nil
		}
	case RecordTypeLargeDelivery:
		return AwardTypeDel250kTo5mm, nil
	case RecordTypeSmallGrant:
		return AwardTypeIs3To10k, nil
	case RecordTypeMediumGrant:
		if t, ok := byAmount(d.GrantAward, AwardTypeIs10To100k, AwardTypeIs100To250k); ok {
			return t, nil
		}
	}
	return AwardTypeUnknown, ErrAwardTypeUndetermined.WithMessage(
		fmt.Sprintf("Could not identify an award type for record type %q", d.RecordType))
}

func byAmount(amount *decimal.Decimal, upTo100k, over100k AwardType) (AwardType, bool) {
	if amount == nil {
		return "", false
	}
	if amount.LessThanOrEqual(awardThreshold) {
		return upTo100k, true
	}
	return over100k, true
}

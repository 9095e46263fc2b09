package funding

import (
	"strings"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Replacement values written over signatory personal data
const (
	DeletedText  = "deleted by system"
	DeletedEmail = "deleted@deleted.com"
)

var signatoryValidator = validator.New()

// LegalSignatory is a person able to sign the grant agreement for an organisation
type LegalSignatory struct {
	shared.BaseEntity
	OrganisationID       uuid.UUID
	FundingApplicationID uuid.UUID
	Name                 string `validate:"min=1,max=80"`
	EmailAddress         string `validate:"required,email"`
	PhoneNumber          string `validate:"required"`
	Role                 string
}

// RemovePersonalData overwrites every personal field once the agreement is signed
func (s *LegalSignatory) RemovePersonalData() {
	s.Name = DeletedText
	s.EmailAddress = DeletedEmail
	s.PhoneNumber = DeletedText
	s.Role = DeletedText
}

// ValidateSignatories checks each signatory in order. The second signatory must
// not reuse the first signatory's email address.
func ValidateSignatories(signatories []*LegalSignatory) shared.ValidationErrors {
	var errs shared.ValidationErrors
	for i, s := range signatories {
		prefix := signatoryField(i)
		if err := signatoryValidator.Struct(s); err != nil {
			if fieldErrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrs {
					errs.Add(prefix+fieldName(fe.StructField()), signatoryMessage(fe))
				}
			} else {
				errs.Add(prefix[:len(prefix)-1], err.Error())
			}
		}
		if i == 1 && sameEmail(s.EmailAddress, signatories[0].EmailAddress) {
			errs.Add(prefix+"email_address", "must be different to first signatory email address")
		}
	}
	return errs
}

// FindSignatoryByEmail returns the signatory whose email matches, ignoring case
// and surrounding space. It is used to tell whether the applicant also signs.
func FindSignatoryByEmail(signatories []*LegalSignatory, email string) *LegalSignatory {
	for _, s := range signatories {
		if sameEmail(s.EmailAddress, email) {
			return s
		}
	}
	return nil
}

func sameEmail(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func signatoryField(i int) string {
	if i == 0 {
		return "legal_signatory_one."
	}
	return "legal_signatory_two."
}

func fieldName(structField string) string {
	switch structField {
	case "EmailAddress":
		return "email_address"
	case "PhoneNumber":
		return "phone_number"
	default:
		return strings.ToLower(structField)
	}
}

func signatoryMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "email":
		return "is invalid"
	case "min":
		return "is too short (minimum is " + fe.Param() + " character)"
	case "max":
		return "is too long (maximum is " + fe.Param() + " characters)"
	default:
		return "is invalid"
	}
}

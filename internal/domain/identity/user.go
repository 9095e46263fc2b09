package identity

import (
	"regexp"
	"strings"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an applicant signed in to the service.
// A user belongs to at most one organisation and, once an application has been
// submitted, maps to a Salesforce Contact.
type User struct {
	shared.BaseEntity
	Email                string
	Name                 string
	Phone                string
	OrganisationID       *uuid.UUID
	SalesforceContactID  string
	AgreesToUserResearch *bool
}

// NewUser creates a user with a validated email address
func NewUser(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return &User{BaseEntity: shared.NewBaseEntity(), Email: email}, nil
}

// HasSalesforceContact reports whether the user has been pushed to the CRM
func (u *User) HasSalesforceContact() bool {
	return strings.TrimSpace(u.SalesforceContactID) != ""
}

// AssignSalesforceContact stores the CRM contact id unless one is already held.
// It reports whether the id was stored.
func (u *User) AssignSalesforceContact(contactID string) bool {
	if u.HasSalesforceContact() || strings.TrimSpace(contactID) == "" {
		return false
	}
	u.SalesforceContactID = contactID
	return true
}

// FirstAndLastName splits the display name on the first space.
// The CRM requires a last name so a single word is used for both parts.
func (u *User) FirstAndLastName() (string, string) {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return "", u.Email
	}
	first, last, found := strings.Cut(name, " ")
	if !found {
		return name, name
	}
	return first, strings.TrimSpace(last)
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

package models

import (
	"github.com/ffe/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email                string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name                 string     `gorm:"type:varchar(255)"`
	Phone                string     `gorm:"type:varchar(50)"`
	OrganisationID       *uuid.UUID `gorm:"type:uuid;index"`
	SalesforceContactID  string     `gorm:"type:varchar(18)"`
	AgreesToUserResearch *bool
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:           m.BaseModel.ToDomain(),
		Email:                m.Email,
		Name:                 m.Name,
		Phone:                m.Phone,
		OrganisationID:       m.OrganisationID,
		SalesforceContactID:  m.SalesforceContactID,
		AgreesToUserResearch: m.AgreesToUserResearch,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.Name = u.Name
	m.Phone = u.Phone
	m.OrganisationID = u.OrganisationID
	m.SalesforceContactID = u.SalesforceContactID
	m.AgreesToUserResearch = u.AgreesToUserResearch
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

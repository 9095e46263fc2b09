package models

import (
	"encoding/json"
	"time"

	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrganisationModel is the persistence model for the Organisation aggregate.
type OrganisationModel struct {
	BaseModel
	Name                     string `gorm:"type:varchar(255)"`
	Line1                    string `gorm:"type:varchar(255)"`
	Line2                    string `gorm:"type:varchar(255)"`
	Line3                    string `gorm:"type:varchar(255)"`
	TownCity                 string `gorm:"type:varchar(255)"`
	County                   string `gorm:"type:varchar(255)"`
	Postcode                 string `gorm:"type:varchar(20)"`
	OrgType                  *int
	CustomOrgType            string `gorm:"type:varchar(255)"`
	CompanyNumber            string `gorm:"type:varchar(20)"`
	CharityNumber            string `gorm:"type:varchar(20)"`
	SalesforceAccountID      string `gorm:"type:varchar(18);index"`
	BoardMembersOrTrustees   *int
	VATRegistered            *bool  `gorm:"column:vat_registered"`
	VATNumber                string `gorm:"column:vat_number;type:varchar(12)"`
	Description              string `gorm:"type:text"`
	MainPurposeAndActivities string `gorm:"type:text"`
	CommunitiesThatOrgServe  datatypes.JSON
	LeadershipSelfIdentify   datatypes.JSON
	NumberOfEmployees        *int
	NumberOfVolunteers       *int
	VolunteerWorkDescription string `gorm:"type:text"`
	WantsToUploadDocuments   *bool
}

// TableName returns the table name for GORM
func (OrganisationModel) TableName() string {
	return "organisations"
}

// ToDomain converts the persistence model to a domain Organisation.
func (m *OrganisationModel) ToDomain() *organisation.Organisation {
	org := &organisation.Organisation{
		BaseEntity:               m.BaseModel.ToDomain(),
		Name:                     m.Name,
		Line1:                    m.Line1,
		Line2:                    m.Line2,
		Line3:                    m.Line3,
		TownCity:                 m.TownCity,
		County:                   m.County,
		Postcode:                 m.Postcode,
		CustomOrgType:            m.CustomOrgType,
		CompanyNumber:            m.CompanyNumber,
		CharityNumber:            m.CharityNumber,
		SalesforceAccountID:      m.SalesforceAccountID,
		BoardMembersOrTrustees:   m.BoardMembersOrTrustees,
		VATRegistered:            m.VATRegistered,
		VATNumber:                m.VATNumber,
		Description:              m.Description,
		MainPurposeAndActivities: m.MainPurposeAndActivities,
		CommunitiesThatOrgServe:  communitiesFromJSON(m.CommunitiesThatOrgServe),
		LeadershipSelfIdentify:   communitiesFromJSON(m.LeadershipSelfIdentify),
		NumberOfEmployees:        m.NumberOfEmployees,
		NumberOfVolunteers:       m.NumberOfVolunteers,
		VolunteerWorkDescription: m.VolunteerWorkDescription,
		WantsToUploadDocuments:   m.WantsToUploadDocuments,
	}
	if m.OrgType != nil {
		t := organisation.OrgType(*m.OrgType)
		org.OrgType = &t
	}
	return org
}

// FromDomain populates the persistence model from a domain Organisation.
func (m *OrganisationModel) FromDomain(o *organisation.Organisation) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Name = o.Name
	m.Line1 = o.Line1
	m.Line2 = o.Line2
	m.Line3 = o.Line3
	m.TownCity = o.TownCity
	m.County = o.County
	m.Postcode = o.Postcode
	m.OrgType = nil
	if o.OrgType != nil {
		t := int(*o.OrgType)
		m.OrgType = &t
	}
	m.CustomOrgType = o.CustomOrgType
	m.CompanyNumber = o.CompanyNumber
	m.CharityNumber = o.CharityNumber
	m.SalesforceAccountID = o.SalesforceAccountID
	m.BoardMembersOrTrustees = o.BoardMembersOrTrustees
	m.VATRegistered = o.VATRegistered
	m.VATNumber = o.VATNumber
	m.Description = o.Description
	m.MainPurposeAndActivities = o.MainPurposeAndActivities
	m.CommunitiesThatOrgServe = communitiesToJSON(o.CommunitiesThatOrgServe)
	m.LeadershipSelfIdentify = communitiesToJSON(o.LeadershipSelfIdentify)
	m.NumberOfEmployees = o.NumberOfEmployees
	m.NumberOfVolunteers = o.NumberOfVolunteers
	m.VolunteerWorkDescription = o.VolunteerWorkDescription
	m.WantsToUploadDocuments = o.WantsToUploadDocuments
}

// OrganisationModelFromDomain creates a new persistence model from a domain Organisation.
func OrganisationModelFromDomain(o *organisation.Organisation) *OrganisationModel {
	m := &OrganisationModel{}
	m.FromDomain(o)
	return m
}

// communitiesToJSON stores nil as SQL NULL so an unanswered question stays distinct from none selected
func communitiesToJSON(values []organisation.Community) datatypes.JSON {
	if values == nil {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func communitiesFromJSON(data datatypes.JSON) []organisation.Community {
	if len(data) == 0 {
		return nil
	}
	var values []organisation.Community
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

// SalesforceChangesCheckModel is the persistence model for the once-per-day pull throttle.
type SalesforceChangesCheckModel struct {
	BaseModel
	RecordID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_salesforce_changes_checks_record"`
	RecordType            string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_salesforce_changes_checks_record"`
	TimeSalesforceChecked time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalesforceChangesCheckModel) TableName() string {
	return "salesforce_changes_checks"
}

// ToDomain converts the persistence model to a domain SalesforceChangesCheck.
func (m *SalesforceChangesCheckModel) ToDomain() *organisation.SalesforceChangesCheck {
	return &organisation.SalesforceChangesCheck{
		ID:                    m.ID,
		RecordID:              m.RecordID,
		RecordType:            m.RecordType,
		TimeSalesforceChecked: m.TimeSalesforceChecked,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// SalesforceChangesCheckModelFromDomain creates a new persistence model from a domain check.
func SalesforceChangesCheckModelFromDomain(c *organisation.SalesforceChangesCheck) *SalesforceChangesCheckModel {
	return &SalesforceChangesCheckModel{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		RecordID:              c.RecordID,
		RecordType:            c.RecordType,
		TimeSalesforceChecked: c.TimeSalesforceChecked,
	}
}

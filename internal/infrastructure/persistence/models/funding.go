package models

import (
	"time"

	"github.com/ffe/backend/internal/domain/funding"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundingApplicationModel is the persistence model for the FundingApplication aggregate.
type FundingApplicationModel struct {
	BaseModel
	OrganisationID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID                 uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProjectTitle           string          `gorm:"type:varchar(255)"`
	ProjectDescription     string          `gorm:"type:text"`
	ProjectStartDate       *time.Time      `gorm:"type:date"`
	ProjectEndDate         *time.Time      `gorm:"type:date"`
	ProjectLine1           string          `gorm:"type:varchar(255)"`
	ProjectTownCity        string          `gorm:"type:varchar(255)"`
	ProjectCounty          string          `gorm:"type:varchar(255)"`
	ProjectPostcode        string          `gorm:"type:varchar(20)"`
	TotalCost              decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	GrantRequested         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SalesforceCaseID       string          `gorm:"type:varchar(18)"`
	ProjectReferenceNumber string          `gorm:"type:varchar(50)"`
	SalesforceCaseNumber   string          `gorm:"type:varchar(10)"`
	SubmittedOn            *time.Time
	AwardType              string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (FundingApplicationModel) TableName() string {
	return "funding_applications"
}

// ToDomain converts the persistence model to a domain FundingApplication.
func (m *FundingApplicationModel) ToDomain() *funding.FundingApplication {
	return &funding.FundingApplication{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganisationID: m.OrganisationID,
		UserID:         m.UserID,
		Project: funding.Project{
			Title:          m.ProjectTitle,
			Description:    m.ProjectDescription,
			StartDate:      m.ProjectStartDate,
			EndDate:        m.ProjectEndDate,
			Line1:          m.ProjectLine1,
			TownCity:       m.ProjectTownCity,
			County:         m.ProjectCounty,
			Postcode:       m.ProjectPostcode,
			TotalCost:      m.TotalCost,
			GrantRequested: m.GrantRequested,
		},
		SalesforceCaseID:       m.SalesforceCaseID,
		ProjectReferenceNumber: m.ProjectReferenceNumber,
		SalesforceCaseNumber:   m.SalesforceCaseNumber,
		SubmittedOn:            m.SubmittedOn,
		AwardType:              funding.AwardType(m.AwardType),
	}
}

// FundingApplicationModelFromDomain creates a new persistence model from a domain FundingApplication.
func FundingApplicationModelFromDomain(a *funding.FundingApplication) *FundingApplicationModel {
	m := &FundingApplicationModel{
		OrganisationID:         a.OrganisationID,
		UserID:                 a.UserID,
		ProjectTitle:           a.Project.Title,
		ProjectDescription:     a.Project.Description,
		ProjectStartDate:       a.Project.StartDate,
		ProjectEndDate:         a.Project.EndDate,
		ProjectLine1:           a.Project.Line1,
		ProjectTownCity:        a.Project.TownCity,
		ProjectCounty:          a.Project.County,
		ProjectPostcode:        a.Project.Postcode,
		TotalCost:              a.Project.TotalCost,
		GrantRequested:         a.Project.GrantRequested,
		SalesforceCaseID:       a.SalesforceCaseID,
		ProjectReferenceNumber: a.ProjectReferenceNumber,
		SalesforceCaseNumber:   a.SalesforceCaseNumber,
		SubmittedOn:            a.SubmittedOn,
		AwardType:              string(a.AwardType),
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// LegalSignatoryModel is the persistence model for a legal signatory.
type LegalSignatoryModel struct {
	BaseModel
	OrganisationID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FundingApplicationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                 string    `gorm:"type:varchar(80)"`
	EmailAddress         string    `gorm:"type:varchar(255)"`
	PhoneNumber          string    `gorm:"type:varchar(50)"`
	Role                 string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (LegalSignatoryModel) TableName() string {
	return "legal_signatories"
}

// ToDomain converts the persistence model to a domain LegalSignatory.
func (m *LegalSignatoryModel) ToDomain() *funding.LegalSignatory {
	return &funding.LegalSignatory{
		BaseEntity:           m.BaseModel.ToDomain(),
		OrganisationID:       m.OrganisationID,
		FundingApplicationID: m.FundingApplicationID,
		Name:                 m.Name,
		EmailAddress:         m.EmailAddress,
		PhoneNumber:          m.PhoneNumber,
		Role:                 m.Role,
	}
}

// LegalSignatoryModelFromDomain creates a new persistence model from a domain LegalSignatory.
func LegalSignatoryModelFromDomain(s *funding.LegalSignatory) *LegalSignatoryModel {
	m := &LegalSignatoryModel{
		OrganisationID:       s.OrganisationID,
		FundingApplicationID: s.FundingApplicationID,
		Name:                 s.Name,
		EmailAddress:         s.EmailAddress,
		PhoneNumber:          s.PhoneNumber,
		Role:                 s.Role,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// PreApplicationModel is the persistence model for the PreApplication aggregate.
type PreApplicationModel struct {
	BaseModel
	OrganisationID       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;index"`
	SubmittedOn          *time.Time
	ProjectEnquiry       *ProjectEnquiryModel       `gorm:"foreignKey:PreApplicationID"`
	ExpressionOfInterest *ExpressionOfInterestModel `gorm:"foreignKey:PreApplicationID"`
}

// TableName returns the table name for GORM
func (PreApplicationModel) TableName() string {
	return "pre_applications"
}

// ProjectEnquiryModel is the persistence model for a project enquiry.
type ProjectEnquiryModel struct {
	ID                         uuid.UUID `gorm:"type:uuid;primary_key"`
	PreApplicationID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	WorkingTitle               string    `gorm:"type:varchar(255)"`
	WhatProjectDoes            string    `gorm:"type:text"`
	InvestmentPrinciples       string    `gorm:"type:text"`
	HeritageFocus              string    `gorm:"type:text"`
	ProjectReasons             string    `gorm:"type:text"`
	ProjectParticipants        string    `gorm:"type:text"`
	ProjectTimescales          string    `gorm:"type:text"`
	ProjectLikelyCost          string    `gorm:"type:text"`
	PotentialFundingAmount     *int
	PreviousContactName        string `gorm:"type:varchar(255)"`
	SalesforceProjectEnquiryID string `gorm:"type:varchar(18)"`
	SalesforcePEFReference     string `gorm:"column:salesforce_pef_reference;type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ProjectEnquiryModel) TableName() string {
	return "pa_project_enquiries"
}

// ExpressionOfInterestModel is the persistence model for an expression of interest.
type ExpressionOfInterestModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;primary_key"`
	PreApplicationID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	WhatProjectDoes        string    `gorm:"type:text"`
	ProgrammeOutcomes      string    `gorm:"type:text"`
	HeritageFocus          string    `gorm:"type:text"`
	ProjectReasons         string    `gorm:"type:text"`
	ProjectTimescales      string    `gorm:"type:text"`
	OverallCost            string    `gorm:"type:text"`
	PotentialFundingAmount *int
	PreviousContactName    string `gorm:"type:varchar(255)"`
	SalesforceEOIID        string `gorm:"column:salesforce_eoi_id;type:varchar(18)"`
	SalesforceEOIReference string `gorm:"column:salesforce_eoi_reference;type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ExpressionOfInterestModel) TableName() string {
	return "pa_expressions_of_interest"
}

// ToDomain converts the persistence model and its forms to a domain PreApplication.
func (m *PreApplicationModel) ToDomain() *funding.PreApplication {
	pa := &funding.PreApplication{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganisationID: m.OrganisationID,
		UserID:         m.UserID,
		SubmittedOn:    m.SubmittedOn,
	}
	if pe := m.ProjectEnquiry; pe != nil {
		pa.ProjectEnquiry = &funding.ProjectEnquiry{
			ID:                         pe.ID,
			PreApplicationID:           pe.PreApplicationID,
			WorkingTitle:               pe.WorkingTitle,
			WhatProjectDoes:            pe.WhatProjectDoes,
			InvestmentPrinciples:       pe.InvestmentPrinciples,
			HeritageFocus:              pe.HeritageFocus,
			ProjectReasons:             pe.ProjectReasons,
			ProjectParticipants:        pe.ProjectParticipants,
			ProjectTimescales:          pe.ProjectTimescales,
			ProjectLikelyCost:          pe.ProjectLikelyCost,
			PotentialFundingAmount:     pe.PotentialFundingAmount,
			PreviousContactName:        pe.PreviousContactName,
			SalesforceProjectEnquiryID: pe.SalesforceProjectEnquiryID,
			SalesforcePEFReference:     pe.SalesforcePEFReference,
		}
	}
	if eoi := m.ExpressionOfInterest; eoi != nil {
		pa.ExpressionOfInterest = &funding.ExpressionOfInterest{
			ID:                     eoi.ID,
			PreApplicationID:       eoi.PreApplicationID,
			WhatProjectDoes:        eoi.WhatProjectDoes,
			ProgrammeOutcomes:      eoi.ProgrammeOutcomes,
			HeritageFocus:          eoi.HeritageFocus,
			ProjectReasons:         eoi.ProjectReasons,
			ProjectTimescales:      eoi.ProjectTimescales,
			OverallCost:            eoi.OverallCost,
			PotentialFundingAmount: eoi.PotentialFundingAmount,
			PreviousContactName:    eoi.PreviousContactName,
			SalesforceEOIID:        eoi.SalesforceEOIID,
			SalesforceEOIReference: eoi.SalesforceEOIReference,
		}
	}
	return pa
}

// PreApplicationModelFromDomain creates persistence models for a pre-application and its forms.
func PreApplicationModelFromDomain(pa *funding.PreApplication) *PreApplicationModel {
	m := &PreApplicationModel{
		OrganisationID: pa.OrganisationID,
		UserID:         pa.UserID,
		SubmittedOn:    pa.SubmittedOn,
	}
	m.FromDomainBaseEntity(pa.BaseEntity)
	if pe := pa.ProjectEnquiry; pe != nil {
		m.ProjectEnquiry = &ProjectEnquiryModel{
			ID:                         pe.ID,
			PreApplicationID:           pa.ID,
			WorkingTitle:               pe.WorkingTitle,
			WhatProjectDoes:            pe.WhatProjectDoes,
			InvestmentPrinciples:       pe.InvestmentPrinciples,
			HeritageFocus:              pe.HeritageFocus,
			ProjectReasons:             pe.ProjectReasons,
			ProjectParticipants:        pe.ProjectParticipants,
			ProjectTimescales:          pe.ProjectTimescales,
			ProjectLikelyCost:          pe.ProjectLikelyCost,
			PotentialFundingAmount:     pe.PotentialFundingAmount,
			PreviousContactName:        pe.PreviousContactName,
			SalesforceProjectEnquiryID: pe.SalesforceProjectEnquiryID,
			SalesforcePEFReference:     pe.SalesforcePEFReference,
		}
	}
	if eoi := pa.ExpressionOfInterest; eoi != nil {
		m.ExpressionOfInterest = &ExpressionOfInterestModel{
			ID:                     eoi.ID,
			PreApplicationID:       pa.ID,
			WhatProjectDoes:        eoi.WhatProjectDoes,
			ProgrammeOutcomes:      eoi.ProgrammeOutcomes,
			HeritageFocus:          eoi.HeritageFocus,
			ProjectReasons:         eoi.ProjectReasons,
			ProjectTimescales:      eoi.ProjectTimescales,
			OverallCost:            eoi.OverallCost,
			PotentialFundingAmount: eoi.PotentialFundingAmount,
			PreviousContactName:    eoi.PreviousContactName,
			SalesforceEOIID:        eoi.SalesforceEOIID,
			SalesforceEOIReference: eoi.SalesforceEOIReference,
		}
	}
	return m
}

// PaymentRequestModel is the persistence model for the PaymentRequest aggregate.
type PaymentRequestModel struct {
	BaseModel
	FundingApplicationID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	TableOfSpendKey         string       `gorm:"type:varchar(500)"`
	TableOfSpendFilename    string       `gorm:"type:varchar(255)"`
	TableOfSpendContentType string       `gorm:"type:varchar(100)"`
	Spends                  []SpendModel `gorm:"foreignKey:PaymentRequestID"`
}

// TableName returns the table name for GORM
func (PaymentRequestModel) TableName() string {
	return "payment_requests"
}

// SpendModel is the persistence model for one spend line.
type SpendModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentRequestID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position            int             `gorm:"not null;default:0"`
	Level               string          `gorm:"type:varchar(10);not null"`
	CostHeading         string          `gorm:"type:varchar(255)"`
	Amount              decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	VATAmount           decimal.Decimal `gorm:"column:vat_amount;type:decimal(14,2);not null;default:0"`
	DateOfSpend         *time.Time      `gorm:"type:date"`
	Description         string          `gorm:"type:text"`
	SpendThreshold      int             `gorm:"not null;default:0"`
	EvidenceKey         string          `gorm:"type:varchar(500)"`
	EvidenceFilename    string          `gorm:"type:varchar(255)"`
	EvidenceContentType string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SpendModel) TableName() string {
	return "spends"
}

// ToDomain converts the persistence model and its spends to a domain PaymentRequest.
func (m *PaymentRequestModel) ToDomain() *funding.PaymentRequest {
	pr := &funding.PaymentRequest{
		BaseEntity:           m.BaseModel.ToDomain(),
		FundingApplicationID: m.FundingApplicationID,
		TableOfSpendFile:     attachment(m.TableOfSpendKey, m.TableOfSpendFilename, m.TableOfSpendContentType),
	}
	for _, s := range m.Spends {
		pr.Spends = append(pr.Spends, &funding.Spend{
			ID:               s.ID,
			PaymentRequestID: s.PaymentRequestID,
			Level:            funding.SpendLevel(s.Level),
			CostHeading:      s.CostHeading,
			Amount:           s.Amount,
			VATAmount:        s.VATAmount,
			DateOfSpend:      s.DateOfSpend,
			Description:      s.Description,
			SpendThreshold:   s.SpendThreshold,
			EvidenceFile:     attachment(s.EvidenceKey, s.EvidenceFilename, s.EvidenceContentType),
		})
	}
	return pr
}

// PaymentRequestModelFromDomain creates persistence models for a payment request and its spends.
func PaymentRequestModelFromDomain(pr *funding.PaymentRequest) *PaymentRequestModel {
	m := &PaymentRequestModel{FundingApplicationID: pr.FundingApplicationID}
	m.FromDomainBaseEntity(pr.BaseEntity)
	if f := pr.TableOfSpendFile; f != nil {
		m.TableOfSpendKey = f.Key
		m.TableOfSpendFilename = f.Filename
		m.TableOfSpendContentType = f.ContentType
	}
	for i, s := range pr.Spends {
		sm := SpendModel{
			ID:               s.ID,
			PaymentRequestID: pr.ID,
			Position:         i,
			Level:            string(s.Level),
			CostHeading:      s.CostHeading,
			Amount:           s.Amount,
			VATAmount:        s.VATAmount,
			DateOfSpend:      s.DateOfSpend,
			Description:      s.Description,
			SpendThreshold:   s.SpendThreshold,
		}
		if f := s.EvidenceFile; f != nil {
			sm.EvidenceKey = f.Key
			sm.EvidenceFilename = f.Filename
			sm.EvidenceContentType = f.ContentType
		}
		m.Spends = append(m.Spends, sm)
	}
	return m
}

func attachment(key, filename, contentType string) *funding.Attachment {
	if key == "" {
		return nil
	}
	return &funding.Attachment{Key: key, Filename: filename, ContentType: contentType}
}

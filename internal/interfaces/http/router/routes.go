package router

import (
	"github.com/ffe/backend/internal/interfaces/http/handler"
)

// Handlers bundles the API handlers mounted by RegisterAPI
type Handlers struct {
	Organisations       *handler.OrganisationHandler
	FundingApplications *handler.FundingApplicationHandler
	PreApplications     *handler.PreApplicationHandler
	System              *handler.SystemHandler
}

// APIGroups builds the applicant-facing route groups
func APIGroups(h Handlers) []*DomainGroup {
	orgs := NewDomainGroup("organisations", "/organisations")
	orgs.GET("/:id", h.Organisations.Get).
		PUT("/:id/steps/:step", h.Organisations.SubmitStep).
		POST("/:id/salesforce-import", h.Organisations.ImportFromSalesforce).
		POST("/:id/sync", h.Organisations.Sync).
		PUT("/:id/vat-status", h.Organisations.ChangeVATStatus).
		GET("/:id/bank-account", h.Organisations.BankAccount)
	orgs.Group("governing-documents", "/:id/governing-documents").
		POST("", h.Organisations.UploadDocument).
		GET("", h.Organisations.ListDocuments).
		DELETE("/:doc", h.Organisations.DeleteDocument)

	apps := NewDomainGroup("funding-applications", "/funding-applications")
	apps.POST("/:id/submit", h.FundingApplications.Submit).
		POST("/:id/award-type", h.FundingApplications.AwardType).
		GET("/:id/signatories", h.FundingApplications.Signatories).
		PUT("/:id/signatories", h.FundingApplications.ReplaceSignatories).
		DELETE("/:id/signatories/personal-data", h.FundingApplications.RemoveSignatoryPersonalData).
		GET("/:id/payment-details", h.FundingApplications.PaymentDetails).
		GET("/:id/cost-headings", h.FundingApplications.CostHeadings).
		POST("/:id/payment-requests/:prid/sync", h.FundingApplications.SyncPaymentRequest)

	preApps := NewDomainGroup("pre-applications", "/pre-applications")
	preApps.POST("/:id/submit", h.PreApplications.Submit)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []*DomainGroup{orgs, apps, preApps, system}
}

// RegisterAPI registers every API group on r
func RegisterAPI(r *Router, h Handlers) {
	for _, g := range APIGroups(h) {
		r.Register(g)
	}
}

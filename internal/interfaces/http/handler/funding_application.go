package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ffe/backend/internal/interfaces/http/middleware"
)

// FundingApplicationHandler serves funding application submission, awards and payments
type FundingApplicationHandler struct {
	BaseHandler
	access      AccessPolicy
	submitter   FundingApplicationSubmitter
	awards      AwardTypeChecker
	signatories Signatories
	payments    PaymentGateway
}

// NewFundingApplicationHandler creates a FundingApplicationHandler
func NewFundingApplicationHandler(
	access AccessPolicy,
	submitter FundingApplicationSubmitter,
	awards AwardTypeChecker,
	signatories Signatories,
	payments PaymentGateway,
) *FundingApplicationHandler {
	return &FundingApplicationHandler{
		access:      access,
		submitter:   submitter,
		awards:      awards,
		signatories: signatories,
		payments:    payments,
	}
}

func (h *FundingApplicationHandler) authorise(c *gin.Context) (uuid.UUID, bool) {
	appID, ok := h.parseIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := h.currentUser(c)
	if !ok {
		return uuid.Nil, false
	}
	if err := h.access.CanAccessFundingApplication(c.Request.Context(), userID, appID); err != nil {
		h.HandleDomainError(c, err)
		return uuid.Nil, false
	}
	return appID, true
}

// Submit sends the application to the CRM as a project case
// POST /funding-applications/:id/submit
func (h *FundingApplicationHandler) Submit(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	app, err := h.submitter.SubmitFundingApplication(c.Request.Context(), appID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToFundingApplicationResponse(app))
}

// AwardType reads and stores the award type decided in the CRM
// POST /funding-applications/:id/award-type
func (h *FundingApplicationHandler) AwardType(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	awardType, err := h.awards.CheckAwardType(c.Request.Context(), appID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, AwardTypeResponse{AwardType: string(awardType)})
}

// Signatories lists the legal signatories
// GET /funding-applications/:id/signatories
func (h *FundingApplicationHandler) Signatories(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	result, err := h.signatories.List(c.Request.Context(), appID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToSignatoriesResponse(result))
}

// ReplaceSignatories validates and stores the legal signatories
// PUT /funding-applications/:id/signatories
func (h *FundingApplicationHandler) ReplaceSignatories(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	var req SignatoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.signatories.Replace(c.Request.Context(), appID, req.ToInputs())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if !result.Saved() {
		h.ValidationFailed(c, result.Errors)
		return
	}
	h.Success(c, ToSignatoriesResponse(result))
}

// RemoveSignatoryPersonalData scrubs the names, emails and phone numbers of signatories
// DELETE /funding-applications/:id/signatories/personal-data
func (h *FundingApplicationHandler) RemoveSignatoryPersonalData(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	removed, err := h.signatories.RemovePersonalData(c.Request.Context(), appID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, RemovedSignatoriesResponse{Removed: removed})
}

// PaymentDetails returns the grant award and percentage
// GET /funding-applications/:id/payment-details
func (h *FundingApplicationHandler) PaymentDetails(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	details, err := h.payments.PaymentDetails(c.Request.Context(), appID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToPaymentDetailsResponse(details))
}

// CostHeadings lists the project's cost headings
// GET /funding-applications/:id/cost-headings
func (h *FundingApplicationHandler) CostHeadings(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}

	headings, err := h.payments.CostHeadings(c.Request.Context(), appID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if headings == nil {
		headings = []string{}
	}
	h.Success(c, CostHeadingsResponse{CostHeadings: headings})
}

// SyncPaymentRequest sends a payment request's spends and evidence to the CRM
// POST /funding-applications/:id/payment-requests/:prid/sync
func (h *FundingApplicationHandler) SyncPaymentRequest(c *gin.Context) {
	appID, ok := h.authorise(c)
	if !ok {
		return
	}
	requestID, ok := h.parseIDParam(c, "prid")
	if !ok {
		return
	}

	var req SyncPaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.payments.SyncPaymentRequest(c.Request.Context(), appID, requestID, req.FormID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ffe/backend/internal/domain/organisation"
	"github.com/ffe/backend/internal/interfaces/http/dto"
	"github.com/ffe/backend/internal/interfaces/http/middleware"
)

// OrganisationHandler serves the organisation wizard, its CRM sync and governing documents
type OrganisationHandler struct {
	BaseHandler
	access    AccessPolicy
	wizard    OrganisationWizard
	sync      OrganisationSync
	documents GoverningDocuments
}

// NewOrganisationHandler creates an OrganisationHandler
func NewOrganisationHandler(access AccessPolicy, wizard OrganisationWizard, sync OrganisationSync, documents GoverningDocuments) *OrganisationHandler {
	return &OrganisationHandler{
		access:    access,
		wizard:    wizard,
		sync:      sync,
		documents: documents,
	}
}

// authorise resolves the :id organisation and checks the applicant belongs to it
func (h *OrganisationHandler) authorise(c *gin.Context) (uuid.UUID, bool) {
	orgID, ok := h.parseIDParam(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := h.currentUser(c)
	if !ok {
		return uuid.Nil, false
	}
	if err := h.access.CanAccessOrganisation(c.Request.Context(), userID, orgID); err != nil {
		h.HandleDomainError(c, err)
		return uuid.Nil, false
	}
	return orgID, true
}

// Get returns the organisation, refreshed from the CRM when pull on load is enabled
// GET /organisations/:id
func (h *OrganisationHandler) Get(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	org, err := h.wizard.Get(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToOrganisationResponse(org))
}

// SubmitStep saves the answers for one wizard step
// PUT /organisations/:id/steps/:step
func (h *OrganisationHandler) SubmitStep(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	step, err := organisation.ParseStep(c.Param("step"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidStep, err.Error())
		return
	}

	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	input, errs := req.ToInput()
	if !errs.Empty() {
		h.ValidationFailed(c, errs)
		return
	}

	result, err := h.wizard.SubmitStep(c.Request.Context(), orgID, step, input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if !result.Saved() {
		h.ValidationFailed(c, result.Errors)
		return
	}

	h.Success(c, StepResponse{
		Organisation: ToOrganisationResponse(result.Organisation),
		NextStep:     string(result.Next),
	})
}

// ImportFromSalesforce fills the organisation from an existing Account
// POST /organisations/:id/salesforce-import
func (h *OrganisationHandler) ImportFromSalesforce(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	var req SalesforceImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	imported, err := h.sync.ImportFromSalesforce(c.Request.Context(), orgID, req.AccountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ImportResponse{Imported: imported})
}

// Sync pushes the organisation to the CRM
// POST /organisations/:id/sync
func (h *OrganisationHandler) Sync(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	org, err := h.sync.PushOrganisation(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToOrganisationResponse(org))
}

// ChangeVATStatus records a new VAT answer locally and in the CRM
// PUT /organisations/:id/vat-status
func (h *OrganisationHandler) ChangeVATStatus(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	var req VATStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	org, err := h.sync.ChangeVATStatus(c.Request.Context(), orgID, *req.VATRegistered, req.VATNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToOrganisationResponse(org))
}

// BankAccount reports whether the CRM holds bank details for the organisation
// GET /organisations/:id/bank-account
func (h *OrganisationHandler) BankAccount(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	has, err := h.sync.HasBankAccount(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, BankAccountResponse{HasBankAccount: has})
}

// UploadDocument stores a governing document sent as the multipart field "file"
// POST /organisations/:id/governing-documents
func (h *OrganisationHandler) UploadDocument(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestEntityTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "A file is required")
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	doc, err := h.documents.Attach(c.Request.Context(), orgID, fh.Filename, fh.Header.Get("Content-Type"), file, fh.Size)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, ToDocumentResponse(*doc))
}

// ListDocuments lists the organisation's governing documents
// GET /organisations/:id/governing-documents
func (h *OrganisationHandler) ListDocuments(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	docs, err := h.documents.List(c.Request.Context(), orgID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	resp := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, ToDocumentResponse(d))
	}
	h.Success(c, resp)
}

// DeleteDocument removes one governing document
// DELETE /organisations/:id/governing-documents/:doc
func (h *OrganisationHandler) DeleteDocument(c *gin.Context) {
	orgID, ok := h.authorise(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), orgID, c.Param("doc")); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
)

// PreApplicationHandler serves project enquiry and expression of interest submission
type PreApplicationHandler struct {
	BaseHandler
	access    AccessPolicy
	submitter PreApplicationSubmitter
}

// NewPreApplicationHandler creates a PreApplicationHandler
func NewPreApplicationHandler(access AccessPolicy, submitter PreApplicationSubmitter) *PreApplicationHandler {
	return &PreApplicationHandler{access: access, submitter: submitter}
}

// Submit sends the pre-application forms to the CRM
// POST /pre-applications/:id/submit
func (h *PreApplicationHandler) Submit(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.access.CanAccessPreApplication(c.Request.Context(), userID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	pa, err := h.submitter.SubmitPreApplication(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, ToPreApplicationResponse(pa))
}

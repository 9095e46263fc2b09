package notification

import (
	"context"
	"time"
)

// Template identifies a mail template held by the mail sender
type Template string

const (
	TemplateFundingSubmissionConfirmation Template = "funding_submission_confirmation"
	TemplateProjectEnquiryConfirmation    Template = "project_enquiry_submission_confirmation"
	TemplateEOIConfirmation               Template = "expression_of_interest_submission_confirmation"
	TemplateIncompleteAccountImport       Template = "incomplete_account_import"
)

// Notice is an email queued for delivery by the mail worker
type Notice struct {
	Template        Template          `json:"template"`
	Recipient       string            `json:"recipient"`
	Reference       string            `json:"reference,omitempty"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	QueuedAt        time.Time         `json:"queued_at"`
}

// Queue accepts notices for asynchronous delivery
type Queue interface {
	Enqueue(ctx context.Context, notice Notice) error
}

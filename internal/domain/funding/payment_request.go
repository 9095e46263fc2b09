package funding

import (
	"fmt"
	"time"

	"github.com/ffe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpendLevel distinguishes itemised spends from grouped small spends
type SpendLevel string

const (
	SpendLevelHigh SpendLevel = "high"
	SpendLevelLow  SpendLevel = "low"
)

// Attachment references a file held in the document store
type Attachment struct {
	Key         string
	Filename    string
	ContentType string
}

// Spend is one line of a payment request. High spends are itemised with
// evidence; low spends group everything under the threshold for a cost heading.
type Spend struct {
	ID               uuid.UUID
	PaymentRequestID uuid.UUID
	Level            SpendLevel
	CostHeading      string
	Amount           decimal.Decimal
	VATAmount        decimal.Decimal
	DateOfSpend      *time.Time
	Description      string
	SpendThreshold   int
	EvidenceFile     *Attachment
}

// NetAmount is the amount sent to the CRM. Low spends are entered VAT
// inclusive so the VAT is taken off; high spends are entered net.
func (s *Spend) NetAmount() decimal.Decimal {
	if s.Level == SpendLevelLow {
		return s.Amount.Sub(s.VATAmount)
	}
	return s.Amount
}

// LevelLabel is the CRM picklist label for the spend level
func (s *Spend) LevelLabel() string {
	if s.Level == SpendLevelLow {
		return fmt.Sprintf("Spend less than £%d", s.SpendThreshold)
	}
	return fmt.Sprintf("Spend over £%d", s.SpendThreshold)
}

// PaymentRequest is an arrears payment claim made against a funding application
type PaymentRequest struct {
	shared.BaseEntity
	FundingApplicationID uuid.UUID
	Spends               []*Spend
	TableOfSpendFile     *Attachment
}

// HighSpends returns the itemised spends in order
func (p *PaymentRequest) HighSpends() []*Spend {
	return p.spendsAt(SpendLevelHigh)
}

// LowSpends returns the grouped small spends in order
func (p *PaymentRequest) LowSpends() []*Spend {
	return p.spendsAt(SpendLevelLow)
}

func (p *PaymentRequest) spendsAt(level SpendLevel) []*Spend {
	var out []*Spend
	for _, s := range p.Spends {
		if s.Level == level {
			out = append(out, s)
		}
	}
	return out
}

// Total sums the net amounts of every spend
func (p *PaymentRequest) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range p.Spends {
		total = total.Add(s.NetAmount())
	}
	return total
}

// PaymentDetails is the award information needed to calculate a payment
type PaymentDetails struct {
	GrantAward      decimal.Decimal
	GrantPercentage decimal.Decimal
}

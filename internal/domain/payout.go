package domain

import (
	"maps"
	"time"
)

type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutPaid    PayoutStatus = "paid"
)

type PayoutRequest struct {
	ID          string            `json:"id"`
	VendorID    string            `json:"vendorId"`
	Amount      int64             `json:"amount"`
	Method      string            `json:"method"`
	Details     map[string]string `json:"details,omitempty"`
	FeeDeducted int64             `json:"feeDeducted"`
	NetAmount   int64             `json:"netAmount"`
	Status      PayoutStatus      `json:"status"`
	RequestDate time.Time         `json:"requestDate"`
	PaidAt      *time.Time        `json:"paidAt,omitempty"`
}

func (p PayoutRequest) Key() string { return p.ID }

func (p PayoutRequest) Clone() PayoutRequest {
	out := p
	out.Details = maps.Clone(p.Details)
	if p.PaidAt != nil {
		t := *p.PaidAt
		out.PaidAt = &t
	}
	return out
}

// Recompute re-derives the fee fields from Amount.
func (p *PayoutRequest) Recompute() {
	p.FeeDeducted = PayoutFee(p.Amount)
	p.NetAmount = p.Amount - p.FeeDeducted
}

package domain

import "time"

// AdminRecipientID addresses the platform admin inbox.
const AdminRecipientID = "admin"

type Vendor struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	CommissionRate float64   `json:"commissionRate"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (v Vendor) Key() string { return v.ID }

func (v Vendor) Clone() Vendor { return v }

func (v Vendor) Validate() error {
	if v.ID == "" {
		return Invariant("vendor id is empty")
	}
	if v.CommissionRate < 0 || v.CommissionRate > 100 {
		return Invariant("vendor %s commission rate %v outside [0,100]", v.ID, v.CommissionRate)
	}
	return nil
}

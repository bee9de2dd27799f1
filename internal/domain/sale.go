package domain

import "time"

type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
	SaleRefunded  SaleStatus = "refunded"
)

type Sale struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"courseId"`
	CourseTitle    string     `json:"courseTitle"`
	VendorID       string     `json:"vendorId"`
	StudentID      string     `json:"studentId"`
	StudentName    string     `json:"studentName"`
	StudentEmail   string     `json:"studentEmail,omitempty"`
	Amount         int64      `json:"amount"`
	PlatformFee    int64      `json:"platformFee"`
	NetEarnings    int64      `json:"netEarnings"`
	Currency       string     `json:"currency"`
	Date           time.Time  `json:"date"`
	Status         SaleStatus `json:"status"`
	PaymentMethod  string     `json:"paymentMethod"`
	CouponCode     string     `json:"couponCode,omitempty"`
	DiscountAmount int64      `json:"discountAmount,omitempty"`
	CampaignID     string     `json:"campaignId,omitempty"`
	RefundedAt     *time.Time `json:"refundedAt,omitempty"`
}

func (s Sale) Key() string { return s.ID }

func (s Sale) Clone() Sale {
	out := s
	if s.RefundedAt != nil {
		t := *s.RefundedAt
		out.RefundedAt = &t
	}
	return out
}

func (s Sale) Validate() error {
	if s.Amount < 0 {
		return Invariant("sale %s amount %d is negative", s.ID, s.Amount)
	}
	if s.PlatformFee+s.NetEarnings != s.Amount {
		return Invariant("sale %s split %d+%d does not equal amount %d", s.ID, s.PlatformFee, s.NetEarnings, s.Amount)
	}
	return nil
}

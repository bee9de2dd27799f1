package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/waste3d/course-marketplace/internal/domain"
)

type Stats struct {
	TotalRevenue      int64 `json:"totalRevenue"`
	SalesCount        int64 `json:"salesCount"`
	AverageOrderValue int64 `json:"averageOrderValue"`
	PlatformFees      int64 `json:"platformFees"`
	NetEarnings       int64 `json:"netEarnings"`
	RefundedCount     int64 `json:"refundedCount"`
	RefundedAmount    int64 `json:"refundedAmount"`
	CustomerLTV       int64 `json:"customerLtv"`

	// Visits and ConversionRate stay nil unless a TrafficSource reported them.
	Visits         *int64   `json:"visits,omitempty"`
	ConversionRate *float64 `json:"conversionRate,omitempty"`
}

// TrafficSource reports storefront visits from a real analytics feed.
type TrafficSource interface {
	Visits(ctx context.Context, vendorID string, p Period, now time.Time) (int64, error)
}

// divRound returns round(a / b) half-up, or 0 when b is 0.
func divRound(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return domain.RoundHalfUp(decimal.NewFromInt(a).Div(decimal.NewFromInt(b)))
}

// ComputeStats folds sales into revenue figures. Only completed sales count as
// revenue; refunded ones are reported separately.
func ComputeStats(sales []domain.Sale) Stats {
	var st Stats
	for _, s := range sales {
		switch s.Status {
		case domain.SaleCompleted:
			st.TotalRevenue += s.Amount
			st.SalesCount++
			st.PlatformFees += s.PlatformFee
			st.NetEarnings += s.NetEarnings
		case domain.SaleRefunded:
			st.RefundedCount++
			st.RefundedAmount += s.Amount
		}
	}
	st.AverageOrderValue = divRound(st.TotalRevenue, st.SalesCount)

	customers := RebuildCustomers(sales)
	var spent int64
	for _, c := range customers {
		spent += c.TotalSpent
	}
	st.CustomerLTV = divRound(spent, int64(len(customers)))
	return st
}

// WithVisits fills the traffic figures. A zero visit count leaves the
// conversion rate undefined.
func (st Stats) WithVisits(visits int64) Stats {
	st.Visits = &visits
	st.ConversionRate = nil
	if visits > 0 {
		rate := float64(st.SalesCount) / float64(visits) * 100
		st.ConversionRate = &rate
	}
	return st
}

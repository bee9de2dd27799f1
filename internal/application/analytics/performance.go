package analytics

import (
	"github.com/waste3d/course-marketplace/internal/domain"
)

type CouponStats struct {
	Code          string `json:"code"`
	Usage         int    `json:"usage"`
	MaxUsage      *int   `json:"maxUsage,omitempty"`
	IsActive      bool   `json:"isActive"`
	SalesCount    int64  `json:"salesCount"`
	Revenue       int64  `json:"revenue"`
	DiscountGiven int64  `json:"discountGiven"`
}

// CouponPerformance joins each coupon with the completed sales that used it.
func CouponPerformance(coupons []domain.Coupon, sales []domain.Sale) []CouponStats {
	out := make([]CouponStats, 0, len(coupons))
	for _, c := range coupons {
		st := CouponStats{Code: c.Code, Usage: c.Usage, MaxUsage: c.MaxUsage, IsActive: c.IsActive}
		for _, s := range completed(sales) {
			if domain.NormalizeCode(s.CouponCode) != c.Code {
				continue
			}
			st.SalesCount++
			st.Revenue += s.Amount
			st.DiscountGiven += s.DiscountAmount
		}
		out = append(out, st)
	}
	return out
}

type CampaignStats struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Clicks  int64  `json:"clicks"`
	Sales   int64  `json:"sales"`
	Revenue int64  `json:"revenue"`
	Budget  int64  `json:"budget"`

	// Ratios are nil when their denominator is zero.
	ROAS           *float64 `json:"roas,omitempty"`
	CPA            *int64   `json:"cpa,omitempty"`
	ClickToSale    *float64 `json:"clickToSale,omitempty"`
	TargetProgress *float64 `json:"targetProgress,omitempty"`

	IsActive   bool `json:"isActive"`
	IsArchived bool `json:"isArchived"`
}

// CampaignPerformance attributes completed sales to campaigns by campaign id.
func CampaignPerformance(campaigns []domain.Campaign, sales []domain.Sale) []CampaignStats {
	out := make([]CampaignStats, 0, len(campaigns))
	for _, c := range campaigns {
		st := CampaignStats{
			ID: c.ID, Name: c.Name, Clicks: c.Clicks, Budget: c.Budget,
			IsActive: c.IsActive, IsArchived: c.IsArchived,
		}
		for _, s := range completed(sales) {
			if s.CampaignID != c.ID {
				continue
			}
			st.Sales++
			st.Revenue += s.Amount
		}
		if c.Budget > 0 {
			roas := float64(st.Revenue) / float64(c.Budget)
			st.ROAS = &roas
		}
		if st.Sales > 0 {
			cpa := divRound(c.Budget, st.Sales)
			st.CPA = &cpa
		}
		if c.Clicks > 0 {
			rate := float64(st.Sales) / float64(c.Clicks) * 100
			st.ClickToSale = &rate
		}
		if c.TargetSales > 0 {
			progress := float64(st.Sales) / float64(c.TargetSales) * 100
			st.TargetProgress = &progress
		}
		out = append(out, st)
	}
	return out
}

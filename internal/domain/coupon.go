package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	VendorID          string       `json:"vendorId,omitempty"`
	DiscountType      DiscountType `json:"discountType"`
	DiscountValue     float64      `json:"discountValue"`
	Usage             int          `json:"usage"`
	MaxUsage          *int         `json:"maxUsage,omitempty"`
	MinPurchaseAmount *int64       `json:"minPurchaseAmount,omitempty"`
	StartDate         *time.Time   `json:"startDate,omitempty"`
	EndDate           *time.Time   `json:"endDate,omitempty"`
	OncePerCustomer   bool         `json:"oncePerCustomer"`
	IsActive          bool         `json:"isActive"`
	RedeemedBy        []string     `json:"redeemedBy"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// NormalizeCode makes coupon codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Coupon) Key() string { return c.ID }

func (c Coupon) Clone() Coupon {
	out := c
	if c.MaxUsage != nil {
		v := *c.MaxUsage
		out.MaxUsage = &v
	}
	if c.MinPurchaseAmount != nil {
		v := *c.MinPurchaseAmount
		out.MinPurchaseAmount = &v
	}
	if c.StartDate != nil {
		v := *c.StartDate
		out.StartDate = &v
	}
	if c.EndDate != nil {
		v := *c.EndDate
		out.EndDate = &v
	}
	out.RedeemedBy = append([]string{}, c.RedeemedBy...)
	return out
}

func (c Coupon) HasMaxUsage() bool { return c.MaxUsage != nil }

func (c Coupon) IsScheduled() bool { return c.StartDate != nil || c.EndDate != nil }

func (c Coupon) RedeemedByCustomer(customerID string) bool {
	for _, id := range c.RedeemedBy {
		if id == customerID {
			return true
		}
	}
	return false
}

func (c Coupon) Validate() error {
	if c.Code == "" || c.Code != NormalizeCode(c.Code) {
		return Invariant("coupon code %q is not normalized", c.Code)
	}
	switch c.DiscountType {
	case DiscountPercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return Invariant("percentage discount %v outside (0,100]", c.DiscountValue)
		}
	case DiscountFixed:
		if c.DiscountValue <= 0 {
			return Invariant("fixed discount %v must be positive", c.DiscountValue)
		}
	default:
		return Invariant("unknown discount type %q", c.DiscountType)
	}
	if c.MaxUsage != nil {
		if *c.MaxUsage <= 0 {
			return Invariant("max usage %d must be positive", *c.MaxUsage)
		}
		if c.Usage > *c.MaxUsage {
			return Invariant("coupon %s usage %d exceeds max usage %d", c.Code, c.Usage, *c.MaxUsage)
		}
	}
	if c.MinPurchaseAmount != nil && *c.MinPurchaseAmount < 0 {
		return Invariant("minimum purchase %d is negative", *c.MinPurchaseAmount)
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return Invariant("coupon %s ends before it starts", c.Code)
	}
	return nil
}

// Check runs the redemption pipeline in its fixed order without mutating the coupon.
func (c Coupon) Check(cartAmount int64, customerID string, now time.Time) error {
	if cartAmount < 0 {
		return Invariant("cart amount %d is negative", cartAmount)
	}
	if !c.IsActive {
		return &CouponRejection{Code: c.Code, Reason: RejectInactive}
	}
	if c.StartDate != nil && now.Before(*c.StartDate) {
		return &CouponRejection{Code: c.Code, Reason: RejectNotYetValid}
	}
	if c.EndDate != nil && now.After(*c.EndDate) {
		return &CouponRejection{Code: c.Code, Reason: RejectExpired}
	}
	if c.HasMaxUsage() && c.Usage >= *c.MaxUsage {
		return &CouponRejection{Code: c.Code, Reason: RejectExhausted}
	}
	if c.MinPurchaseAmount != nil && cartAmount < *c.MinPurchaseAmount {
		return &CouponRejection{Code: c.Code, Reason: RejectBelowMinimum}
	}
	if c.OncePerCustomer {
		if customerID == "" {
			return Invariant("coupon %s is once per customer and needs a customer id", c.Code)
		}
		if c.RedeemedByCustomer(customerID) {
			return &CouponRejection{Code: c.Code, Reason: RejectAlreadyRedeemed}
		}
	}
	return nil
}

// Apply returns the discounted amount, never below zero.
func (c Coupon) Apply(amount int64) int64 {
	var final int64
	switch c.DiscountType {
	case DiscountPercentage:
		remaining := hundred.Sub(decimal.NewFromFloat(c.DiscountValue))
		final = RoundHalfUp(decimal.NewFromInt(amount).Mul(remaining).Div(hundred))
	case DiscountFixed:
		final = amount - RoundHalfUp(decimal.NewFromFloat(c.DiscountValue))
	default:
		final = amount
	}
	if final < 0 {
		return 0
	}
	return final
}

// Redeem consumes one use and records the customer.
func (c *Coupon) Redeem(customerID string) {
	c.Usage++
	if customerID != "" && !c.RedeemedByCustomer(customerID) {
		c.RedeemedBy = append(c.RedeemedBy, customerID)
	}
}

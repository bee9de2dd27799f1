package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/metrics"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

type CouponInput struct {
	Code              string
	VendorID          string
	DiscountType      domain.DiscountType
	DiscountValue     float64
	MaxUsage          *int
	MinPurchaseAmount *int64
	StartDate         *time.Time
	EndDate           *time.Time
	OncePerCustomer   bool
}

// CouponResult is the outcome of a successful redemption or quote.
type CouponResult struct {
	Code           string `json:"code"`
	OriginalAmount int64  `json:"originalAmount"`
	Discount       int64  `json:"discount"`
	FinalAmount    int64  `json:"finalAmount"`
}

func (uc *CommerceUseCase) CreateCoupon(ctx context.Context, in CouponInput) (domain.Coupon, error) {
	c := domain.Coupon{
		ID:                uuid.NewString(),
		Code:              domain.NormalizeCode(in.Code),
		VendorID:          in.VendorID,
		DiscountType:      in.DiscountType,
		DiscountValue:     in.DiscountValue,
		MaxUsage:          in.MaxUsage,
		MinPurchaseAmount: in.MinPurchaseAmount,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		OncePerCustomer:   in.OncePerCustomer,
		IsActive:          true,
		RedeemedBy:        []string{},
		CreatedAt:         uc.clock(),
	}
	if err := c.Validate(); err != nil {
		return domain.Coupon{}, err
	}

	err := uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		if _, exists := findCoupon(tx, c.Code); exists {
			return domain.Invariant("coupon code %s already exists", c.Code)
		}
		repository.Coupons.Put(tx, c)
		return nil
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	return c.Clone(), nil
}

func findCoupon(tx *repository.Tx, code string) (domain.Coupon, bool) {
	code = domain.NormalizeCode(code)
	return repository.Coupons.First(tx, func(c domain.Coupon) bool { return c.Code == code })
}

func (uc *CommerceUseCase) Coupons() []domain.Coupon {
	return repository.Coupons.All(uc.ledger)
}

func (uc *CommerceUseCase) SetCouponActive(ctx context.Context, code string, active bool) error {
	return uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		c, ok := findCoupon(tx, code)
		if !ok {
			return domain.NotFound("coupon", code)
		}
		c.IsActive = active
		repository.Coupons.Put(tx, c)
		return nil
	})
}

func (uc *CommerceUseCase) DeleteCoupon(ctx context.Context, code string) error {
	return uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		c, ok := findCoupon(tx, code)
		if !ok {
			return domain.NotFound("coupon", code)
		}
		repository.Coupons.Remove(tx, c.ID)
		return nil
	})
}

// ApplyCoupon validates and consumes one use of the coupon. Validation and the
// usage increment commit together or not at all.
func (uc *CommerceUseCase) ApplyCoupon(ctx context.Context, code string, cartAmount int64, customerID string) (CouponResult, error) {
	var res CouponResult
	err := uc.execute(ctx, func(tx *repository.Tx, _ *events) error {
		var err error
		res, err = uc.redeemCoupon(tx, code, cartAmount, customerID, uc.clock())
		return err
	})
	if err != nil {
		if reason, ok := domain.RejectionReason(err); ok {
			metrics.CouponRedemptionsTotal.WithLabelValues(string(reason)).Inc()
			uc.log.Debug("coupon rejected", zap.String("code", code), zap.String("reason", string(reason)))
		}
		return CouponResult{}, err
	}
	metrics.CouponRedemptionsTotal.WithLabelValues("applied").Inc()
	return res, nil
}

// QuoteCoupon runs the same checks as ApplyCoupon without consuming a use.
func (uc *CommerceUseCase) QuoteCoupon(code string, cartAmount int64, customerID string) (CouponResult, error) {
	var (
		res CouponResult
		err error
	)
	uc.ledger.View(func(tx *repository.Tx) {
		var c domain.Coupon
		c, err = lookupCoupon(tx, code)
		if err != nil {
			return
		}
		res, err = quote(c, cartAmount, customerID, uc.clock())
	})
	return res, err
}

func lookupCoupon(tx *repository.Tx, code string) (domain.Coupon, error) {
	c, ok := findCoupon(tx, code)
	if !ok {
		return domain.Coupon{}, domain.NotFound("coupon", domain.NormalizeCode(code))
	}
	return c, nil
}

func quote(c domain.Coupon, cartAmount int64, customerID string, now time.Time) (CouponResult, error) {
	if err := c.Check(cartAmount, customerID, now); err != nil {
		return CouponResult{}, err
	}
	final := c.Apply(cartAmount)
	return CouponResult{
		Code:           c.Code,
		OriginalAmount: cartAmount,
		Discount:       cartAmount - final,
		FinalAmount:    final,
	}, nil
}

func (uc *CommerceUseCase) redeemCoupon(tx *repository.Tx, code string, cartAmount int64, customerID string, now time.Time) (CouponResult, error) {
	if cartAmount < 0 {
		return CouponResult{}, domain.Invariant("cart amount %d is negative", cartAmount)
	}
	c, err := lookupCoupon(tx, code)
	if err != nil {
		return CouponResult{}, err
	}
	res, err := quote(c, cartAmount, customerID, now)
	if err != nil {
		return CouponResult{}, err
	}
	c.Redeem(customerID)
	repository.Coupons.Put(tx, c)
	return res, nil
}

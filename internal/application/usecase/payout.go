package usecase

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waste3d/course-marketplace/internal/application/analytics"
	"github.com/waste3d/course-marketplace/internal/domain"
	"github.com/waste3d/course-marketplace/internal/infrastructure/metrics"
	"github.com/waste3d/course-marketplace/internal/infrastructure/repository"
)

type PayoutInput struct {
	VendorID string
	Amount   int64
	Method   string
	Details  map[string]string
}

// RequestPayout creates a pending payout. The fee is always derived from the
// amount; the vendor and the admin are both notified.
func (uc *CommerceUseCase) RequestPayout(ctx context.Context, in PayoutInput) (domain.PayoutRequest, error) {
	if in.Amount <= 0 {
		return domain.PayoutRequest{}, domain.Invariant("payout amount %d must be positive", in.Amount)
	}

	var p domain.PayoutRequest
	err := uc.execute(ctx, func(tx *repository.Tx, ev *events) error {
		vendor, ok := repository.Vendors.Get(tx, in.VendorID)
		if !ok {
			return domain.NotFound("vendor", in.VendorID)
		}
		if in.Amount < uc.settings.MinPayoutAmount {
			return &domain.PayoutRejection{Reason: domain.PayoutBelowMinimum, Requested: in.Amount, Limit: uc.settings.MinPayoutAmount}
		}
		balance := analytics.VendorBalance(vendor.ID, repository.Sales.List(tx), repository.Payouts.List(tx))
		if in.Amount > balance.Available {
			return &domain.PayoutRejection{Reason: domain.PayoutInsufficientBalance, Requested: in.Amount, Limit: balance.Available}
		}

		now := uc.clock()
		p = domain.PayoutRequest{
			ID:          uuid.NewString(),
			VendorID:    vendor.ID,
			Amount:      in.Amount,
			Method:      in.Method,
			Details:     maps.Clone(in.Details),
			Status:      domain.PayoutPending,
			RequestDate: now,
		}
		p.Recompute()
		repository.Payouts.Put(tx, p)

		ev.raise(domain.EventPayoutRequested, vendor.ID, "Payout requested",
			fmt.Sprintf("Your payout of %d is pending, %d after fees", p.Amount, p.NetAmount), now)
		ev.raise(domain.EventPayoutRequested, domain.AdminRecipientID, "New payout request",
			fmt.Sprintf("%s requested %d via %s", vendor.Name, p.Amount, p.Method), now)
		return nil
	})
	if err != nil {
		return domain.PayoutRequest{}, err
	}

	metrics.PayoutsRequestedTotal.Inc()
	uc.log.Info("payout requested",
		zap.String("payout_id", p.ID),
		zap.String("vendor_id", p.VendorID),
		zap.Int64("amount", p.Amount),
		zap.Int64("fee", p.FeeDeducted))
	return p, nil
}

func (uc *CommerceUseCase) MarkPayoutPaid(ctx context.Context, id string) (domain.PayoutRequest, error) {
	var p domain.PayoutRequest
	err := uc.execute(ctx, func(tx *repository.Tx, ev *events) error {
		var ok bool
		p, ok = repository.Payouts.Get(tx, id)
		if !ok {
			return domain.NotFound("payout request", id)
		}
		if p.Status != domain.PayoutPending {
			return domain.Invariant("payout %s is already %s", p.ID, p.Status)
		}
		now := uc.clock()
		p.Status = domain.PayoutPaid
		p.PaidAt = &now
		p.Recompute()
		repository.Payouts.Put(tx, p)
		ev.raise(domain.EventPayoutPaid, p.VendorID, "Payout sent",
			fmt.Sprintf("%d has been sent via %s", p.NetAmount, p.Method), now)
		return nil
	})
	if err != nil {
		return domain.PayoutRequest{}, err
	}
	return p, nil
}

func (uc *CommerceUseCase) Payouts(vendorID string) []domain.PayoutRequest {
	var out []domain.PayoutRequest
	uc.ledger.View(func(tx *repository.Tx) {
		out = repository.Payouts.Filter(tx, func(p domain.PayoutRequest) bool {
			return vendorID == "" || p.VendorID == vendorID
		})
	})
	return out
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrInvariantViolation     = errors.New("invariant violation")
	ErrCouponRejected         = errors.New("coupon rejected")
	ErrPayoutRejected         = errors.New("payout rejected")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// NotFoundError reports a referenced entity id that does not exist in the ledger.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvariantError signals a caller bug: the command is aborted and nothing is written.
type InvariantError struct {
	Rule string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Rule
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariantViolation }

func Invariant(format string, args ...any) error {
	return &InvariantError{Rule: fmt.Sprintf(format, args...)}
}

type RejectReason string

const (
	RejectInactive        RejectReason = "inactive"
	RejectNotYetValid     RejectReason = "not_yet_valid"
	RejectExpired         RejectReason = "expired"
	RejectExhausted       RejectReason = "exhausted"
	RejectBelowMinimum    RejectReason = "below_minimum"
	RejectAlreadyRedeemed RejectReason = "already_redeemed"
)

var rejectMessages = map[RejectReason]string{
	RejectInactive:        "this coupon is not active",
	RejectNotYetValid:     "this coupon is not valid yet",
	RejectExpired:         "this coupon has expired",
	RejectExhausted:       "this coupon has reached its usage limit",
	RejectBelowMinimum:    "the cart total is below the coupon's minimum purchase amount",
	RejectAlreadyRedeemed: "you have already used this coupon",
}

// CouponRejection is an expected, recoverable outcome of the coupon pipeline.
type CouponRejection struct {
	Code   string
	Reason RejectReason
}

func (e *CouponRejection) Error() string {
	msg, ok := rejectMessages[e.Reason]
	if !ok {
		msg = string(e.Reason)
	}
	return fmt.Sprintf("coupon %s: %s", e.Code, msg)
}

func (e *CouponRejection) Is(target error) bool { return target == ErrCouponRejected }

type PayoutRejectReason string

const (
	PayoutInsufficientBalance PayoutRejectReason = "insufficient_balance"
	PayoutBelowMinimum        PayoutRejectReason = "below_minimum"
)

type PayoutRejection struct {
	Reason    PayoutRejectReason
	Requested int64
	Limit     int64
}

func (e *PayoutRejection) Error() string {
	switch e.Reason {
	case PayoutInsufficientBalance:
		return fmt.Sprintf("payout of %d exceeds the available balance of %d", e.Requested, e.Limit)
	case PayoutBelowMinimum:
		return fmt.Sprintf("payout of %d is below the minimum payout of %d", e.Requested, e.Limit)
	}
	return "payout rejected: " + string(e.Reason)
}

func (e *PayoutRejection) Is(target error) bool { return target == ErrPayoutRejected }

// RejectionReason extracts the coupon reject reason from err, if any.
func RejectionReason(err error) (RejectReason, bool) {
	var rej *CouponRejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

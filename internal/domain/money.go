package domain

import "github.com/shopspring/decimal"

// PayoutFeeRate is the fixed share withheld from every payout request.
var PayoutFeeRate = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

// RoundHalfUp rounds a non-negative decimal to whole currency units.
func RoundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// PercentOf returns round(amount * rate / 100).
func PercentOf(amount int64, rate float64) int64 {
	return RoundHalfUp(decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(rate)).Div(hundred))
}

// CommissionSplit divides amount into the platform fee and the vendor's net earnings.
// fee + net == amount for every rate in [0, 100].
func CommissionSplit(amount int64, rate float64) (fee, net int64, err error) {
	if amount < 0 {
		return 0, 0, Invariant("sale amount %d is negative", amount)
	}
	if rate < 0 || rate > 100 {
		return 0, 0, Invariant("commission rate %v outside [0,100]", rate)
	}
	fee = PercentOf(amount, rate)
	return fee, amount - fee, nil
}

// PayoutFee is always derived from the amount, never stored independently.
func PayoutFee(amount int64) int64 {
	return RoundHalfUp(decimal.NewFromInt(amount).Mul(PayoutFeeRate))
}

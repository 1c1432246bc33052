package loan_service

import (
	"github.com/shopspring/decimal"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/ledger"
)

var one = decimal.NewFromInt(1)

// InterestRate interpolates linearly between the ceiling rate at 0%
// collateral and the floor rate at 100%. An active promotional rate wins
// only when it is lower.
func InterestRate(collateral_pct decimal.Decimal, promo decimal.NullDecimal) decimal.Decimal {
	if collateral_pct.LessThan(decimal.Zero) {
		collateral_pct = decimal.Zero
	}
	if collateral_pct.GreaterThan(one) {
		collateral_pct = one
	}

	spread := config.LoanRateCeiling.Sub(config.LoanRateFloor)
	rate := config.LoanRateCeiling.Sub(spread.Mul(collateral_pct))

	if promo.Valid && promo.Decimal.LessThan(rate) {
		rate = promo.Decimal
	}

	return rate
}

// TotalRepayment is (principal + protection fee) × (1 + rate), in cents.
func TotalRepayment(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Add(config.LoanProtectionFee).Mul(one.Add(rate)).Round(2)
}

// SnapToRemaining normalizes a repayment amount against the true
// remaining balance: within tolerance it snaps exactly to the remainder,
// beyond remaining + tolerance it is rejected.
func SnapToRemaining(amount, remaining, tolerance decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ledger.NewError(ledger.KindValidation, "loan.payment.non_positive_amount")
	}

	if amount.GreaterThan(remaining.Add(tolerance)) {
		return decimal.Zero, ledger.InvalidState("loan.payment.exceeds_remaining")
	}

	if remaining.Sub(amount).Abs().LessThanOrEqual(tolerance) {
		return remaining, nil
	}

	return amount, nil
}

// SplitPayment divides a paid amount into principal and interest shares
// proportionally to the loan's principal-to-total ratio. The shares sum
// exactly to the paid amount.
func SplitPayment(paid, principal_ratio decimal.Decimal) (principal, interest decimal.Decimal) {
	principal = paid.Mul(principal_ratio).RoundDown(2)
	interest = paid.Sub(principal)

	return principal, interest
}

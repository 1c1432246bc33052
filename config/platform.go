package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform tunables. Money values carry two decimal places.
var (
	QuotaUnitValue = decimal.NewFromFloat(50.00)
	AdminFeeRate   = decimal.NewFromFloat(0.05)

	// Anti-concentration and volume throttle ceilings.
	MaxActiveQuotasPerMember int64 = 240
	MaxQuotasPerPurchase     int64 = 60

	EarlyExitPenaltyRate = decimal.NewFromFloat(0.20)

	LoanProtectionFee  = decimal.NewFromFloat(10.00)
	LoanRateFloor      = decimal.NewFromFloat(0.015)
	LoanRateCeiling    = decimal.NewFromFloat(0.095)
	LoanLiquidityShare = decimal.NewFromFloat(0.50)
	LoanLimitMultiple  = decimal.NewFromFloat(2.00)
	OriginationFeeRate = decimal.NewFromFloat(0.01)

	MaxInstallments int32 = 36

	MarketplaceFeeRate = decimal.NewFromFloat(0.02)

	// Paid amounts within this distance of the true remaining balance
	// snap exactly to it.
	InstallmentTolerance = decimal.NewFromFloat(0.05)

	LoanCooldown = 10 * time.Second
)

// Quotas redeemed before the release cutoff of the current cycle pay the
// early-exit penalty.
var (
	ReleaseMonth = time.December
	ReleaseDay   = 1
)

// ReleaseCutoff returns the annual release date of the cycle the given
// time falls in.
func ReleaseCutoff(at time.Time) time.Time {
	return time.Date(at.Year(), ReleaseMonth, ReleaseDay, 0, 0, 0, 0, at.Location())
}

package loan_service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/ledger"
)

var noPromo = decimal.NullDecimal{}

func TestInterestRateCeilingAtZeroCollateral(t *testing.T) {
	rate := InterestRate(decimal.Zero, noPromo)

	assert.True(t, rate.Equal(config.LoanRateCeiling))
}

func TestInterestRateFloorAtFullCollateral(t *testing.T) {
	rate := InterestRate(decimal.NewFromInt(1), noPromo)

	assert.True(t, rate.Equal(config.LoanRateFloor))
}

func TestInterestRateMidpoint(t *testing.T) {
	rate := InterestRate(decimal.NewFromFloat(0.5), noPromo)

	assert.True(t, rate.Equal(decimal.NewFromFloat(0.055)))
}

func TestInterestRateClampsCollateral(t *testing.T) {
	below := InterestRate(decimal.NewFromFloat(-0.2), noPromo)
	above := InterestRate(decimal.NewFromInt(3), noPromo)

	assert.True(t, below.Equal(config.LoanRateCeiling))
	assert.True(t, above.Equal(config.LoanRateFloor))
}

func TestInterestRatePromoWinsOnlyWhenLower(t *testing.T) {
	lower := decimal.NewNullDecimal(decimal.NewFromFloat(0.02))
	higher := decimal.NewNullDecimal(decimal.NewFromFloat(0.20))

	assert.True(t, InterestRate(decimal.Zero, lower).Equal(lower.Decimal))
	assert.True(t, InterestRate(decimal.Zero, higher).Equal(config.LoanRateCeiling))
}

func TestTotalRepaymentIncludesProtectionFee(t *testing.T) {
	total := TotalRepayment(decimal.NewFromInt(1000), decimal.NewFromFloat(0.05))

	// (1000 + 10) * 1.05
	assert.True(t, total.Equal(decimal.NewFromFloat(1060.50)))
}

func TestSnapToRemainingWithinTolerance(t *testing.T) {
	remaining := decimal.NewFromFloat(100.00)
	tolerance := config.InstallmentTolerance

	snapped, err := SnapToRemaining(decimal.NewFromFloat(99.97), remaining, tolerance)
	assert.NoError(t, err)
	assert.True(t, snapped.Equal(remaining))

	snapped, err = SnapToRemaining(decimal.NewFromFloat(100.04), remaining, tolerance)
	assert.NoError(t, err)
	assert.True(t, snapped.Equal(remaining))
}

func TestSnapToRemainingExactPartialPasses(t *testing.T) {
	remaining := decimal.NewFromFloat(100.00)

	snapped, err := SnapToRemaining(decimal.NewFromFloat(40.00), remaining, config.InstallmentTolerance)

	assert.NoError(t, err)
	assert.True(t, snapped.Equal(decimal.NewFromFloat(40.00)))
}

func TestSnapToRemainingRejectsOverpayment(t *testing.T) {
	remaining := decimal.NewFromFloat(100.00)

	_, err := SnapToRemaining(decimal.NewFromFloat(100.06), remaining, config.InstallmentTolerance)

	assert.Error(t, err)
	assert.Equal(t, ledger.KindInvalidState, ledger.KindOf(err))
}

func TestSnapToRemainingRejectsNonPositive(t *testing.T) {
	_, err := SnapToRemaining(decimal.Zero, decimal.NewFromInt(10), config.InstallmentTolerance)

	assert.Error(t, err)
	assert.Equal(t, ledger.KindValidation, ledger.KindOf(err))
}

func TestSplitPaymentSumsExactly(t *testing.T) {
	paid := decimal.NewFromFloat(123.45)
	ratio := decimal.NewFromFloat(0.7331)

	principal, interest := SplitPayment(paid, ratio)

	assert.True(t, principal.Add(interest).Equal(paid))
	assert.True(t, principal.Equal(decimal.NewFromFloat(90.50)))
}

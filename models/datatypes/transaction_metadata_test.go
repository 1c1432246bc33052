package datatypes

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMetadataScanRoundTrip(t *testing.T) {
	original := ForLoanPayment(42, decimal.NewFromFloat(80.25), decimal.NewFromFloat(19.75))

	value, err := original.Value()
	assert.NoError(t, err)

	var scanned TransactionMetadata
	assert.NoError(t, scanned.Scan(value))

	assert.Equal(t, "loan_payment", scanned.Kind)
	assert.NotNil(t, scanned.LoanPayment)
	assert.Nil(t, scanned.QuotaPurchase)
	assert.EqualValues(t, 42, scanned.LoanPayment.LoanID)
	assert.True(t, scanned.LoanPayment.PrincipalShare.Equal(decimal.NewFromFloat(80.25)))
}

func TestMetadataScanNil(t *testing.T) {
	m := ForDividend(3)

	assert.NoError(t, m.Scan(nil))
	assert.Empty(t, m.Kind)
	assert.Nil(t, m.Dividend)
}

func TestMetadataScanRejectsUnknownType(t *testing.T) {
	var m TransactionMetadata

	assert.Error(t, m.Scan(12345))
}

func TestRedemptionMetadataFlagsPenalty(t *testing.T) {
	m := ForQuotaRedemption([]int64{1, 2, 3}, decimal.NewFromFloat(30.00))

	assert.True(t, m.QuotaRedemption.PenaltyIsNotProfit)
	assert.Len(t, m.QuotaRedemption.QuotaIDs, 3)
}

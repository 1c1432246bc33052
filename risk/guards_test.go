package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/types"
)

func TestWithinConcentrationLimit(t *testing.T) {
	assert.True(t, WithinConcentrationLimit(0, 240, 240))
	assert.True(t, WithinConcentrationLimit(239, 1, 240))
	assert.False(t, WithinConcentrationLimit(240, 1, 240))
	assert.False(t, WithinConcentrationLimit(200, 41, 240))
}

func TestCheckPurchaseVolume(t *testing.T) {
	assert.NoError(t, CheckPurchaseVolume(1))
	assert.NoError(t, CheckPurchaseVolume(config.MaxQuotasPerPurchase))

	err := CheckPurchaseVolume(config.MaxQuotasPerPurchase + 1)
	assert.Error(t, err)
	assert.Equal(t, ledger.KindLimitExceeded, ledger.KindOf(err))

	err = CheckPurchaseVolume(0)
	assert.Error(t, err)
	assert.Equal(t, ledger.KindValidation, ledger.KindOf(err))
}

func TestCheckLiquidity(t *testing.T) {
	state := &models.SystemState{
		OperationalCash:   decimal.NewFromInt(1000),
		InvestmentReserve: decimal.NewFromFloat(49.99),
	}

	assert.NoError(t, CheckLiquidity(state, types.BucketOperationalCash, decimal.NewFromInt(1000)))

	err := CheckLiquidity(state, types.BucketInvestmentReserve, decimal.NewFromInt(50))
	assert.Error(t, err)
	assert.Equal(t, ledger.KindInsufficientLiquidity, ledger.KindOf(err))
}

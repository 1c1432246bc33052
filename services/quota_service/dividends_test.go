package quota_service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// A member whose locked re-read count fell to zero redeemed every quota
// after the advisory scan; they earn nothing from this run.
func TestPayableHoldersDropsRedeemed(t *testing.T) {
	holders, total := payableHolders([]quotaHolder{
		{MemberID: 1, QuotaCount: 3},
		{MemberID: 2, QuotaCount: 0},
		{MemberID: 3, QuotaCount: 2},
	})

	assert.Equal(t, int64(5), total)
	assert.Len(t, holders, 2)
	assert.Equal(t, int64(1), holders[0].MemberID)
	assert.Equal(t, int64(3), holders[1].MemberID)
}

func TestPayableHoldersAllRedeemed(t *testing.T) {
	holders, total := payableHolders([]quotaHolder{{MemberID: 1, QuotaCount: 0}})

	assert.Zero(t, total)
	assert.Empty(t, holders)
}

func TestPerQuotaShareTruncates(t *testing.T) {
	pool := decimal.RequireFromString("100.00")
	share := perQuotaShare(pool, 3)

	assert.True(t, share.Equal(decimal.RequireFromString("33.33")))

	residual := pool.Sub(share.Mul(decimal.NewFromInt(3)))
	assert.True(t, residual.Equal(decimal.RequireFromString("0.01")))
}

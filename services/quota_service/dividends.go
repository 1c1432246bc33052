package quota_service

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/models/datatypes"
	"github.com/mutuoclub/mutuo/types"
)

type DividendSummary struct {
	Distributed decimal.Decimal `json:"distributed"`
	Holders     int64           `json:"holders"`
}

type quotaHolder struct {
	MemberID   int64
	QuotaCount int64
}

// payableHolders drops members whose count fell to zero between the
// advisory scan and the locked re-read, and sums the remaining quotas.
func payableHolders(holders []quotaHolder) ([]quotaHolder, int64) {
	payable := make([]quotaHolder, 0, len(holders))
	total := int64(0)

	for _, holder := range holders {
		if holder.QuotaCount <= 0 {
			continue
		}

		payable = append(payable, holder)
		total += holder.QuotaCount
	}

	return payable, total
}

// perQuotaShare truncates the pro-rata share to cents; the residual
// stays in the pool for the next run.
func perQuotaShare(pool decimal.Decimal, total_quotas int64) decimal.Decimal {
	return pool.Div(decimal.NewFromInt(total_quotas)).RoundDown(2)
}

// DistributeDividends pays the profit pool out pro-rata to active quota
// holders. Per-quota shares truncate to cents; the residual stays in the
// pool for the next run. Lock order matches every other scope: member
// balances ascending, then the state singleton.
func DistributeDividends() ledger.Result {
	var completed []*models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		// Advisory scan: decides which balance rows to lock, nothing else.
		var scanned []quotaHolder
		tx.Model(&models.Quota{}).
			Select("member_id, COUNT(*) AS quota_count").
			Where("status = ?", models.QuotaActive).
			Group("member_id").
			Order("member_id asc").
			Scan(&scanned)

		member_ids := make([]int64, 0, len(scanned))
		for _, holder := range scanned {
			member_ids = append(member_ids, holder.MemberID)
		}
		if len(member_ids) == 0 {
			return DividendSummary{Distributed: decimal.Zero}, nil
		}

		balances_table, err := models.LockBalances(tx, member_ids...)
		if err != nil {
			return nil, err
		}

		state, err := models.LockState(tx)
		if err != nil {
			return nil, err
		}

		// Authoritative counts, re-read under the balance locks: a
		// redemption committed after the scan holds the member lock,
		// so the redeemed quotas no longer count here.
		var locked []quotaHolder
		tx.Model(&models.Quota{}).
			Select("member_id, COUNT(*) AS quota_count").
			Where("status = ? AND member_id IN ?", models.QuotaActive, member_ids).
			Group("member_id").
			Order("member_id asc").
			Scan(&locked)

		holders, total_quotas := payableHolders(locked)
		if total_quotas == 0 {
			return DividendSummary{Distributed: decimal.Zero}, nil
		}

		pool := state.ProfitPool
		if !pool.IsPositive() {
			return DividendSummary{Distributed: decimal.Zero}, nil
		}

		per_quota := perQuotaShare(pool, total_quotas)
		if !per_quota.IsPositive() {
			return DividendSummary{Distributed: decimal.Zero}, nil
		}

		distributed := decimal.Zero

		for _, holder := range holders {
			share := per_quota.Mul(decimal.NewFromInt(holder.QuotaCount))

			transaction := &models.Transaction{
				MemberID:    holder.MemberID,
				Type:        types.TxDividend,
				Amount:      share,
				Description: "dividend.payout",
				Status:      models.TxCompleted,
				Metadata:    datatypes.ForDividend(holder.QuotaCount),
			}
			if err := tx.Create(transaction).Error; err != nil {
				return nil, err
			}
			completed = append(completed, transaction)

			reference := models.Reference{ID: transaction.ID, Type: "Transaction"}

			if err := state.ApplyDelta(tx, types.BucketProfitPool, share.Neg(), reference); err != nil {
				return nil, err
			}
			if err := balances_table[holder.MemberID].PlusFunds(tx, share); err != nil {
				return nil, err
			}

			distributed = distributed.Add(share)
		}

		return DividendSummary{Distributed: distributed, Holders: int64(len(holders))}, nil
	})

	if result.Success {
		models.PublishMetrics(completed...)
	}

	return result
}

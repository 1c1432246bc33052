package quota_service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/gateway"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/models/datatypes"
	"github.com/mutuoclub/mutuo/risk"
	"github.com/mutuoclub/mutuo/types"
)

type PurchaseResult struct {
	TransactionID     uuid.UUID       `json:"transaction_id"`
	Cost              decimal.Decimal `json:"cost"`
	ImmediateApproval bool            `json:"immediate_approval"`
	PaymentID         string          `json:"payment_id,omitempty"`
}

type SellResult struct {
	FinalAmount   decimal.Decimal `json:"final_amount"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

type SellAllResult struct {
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalPenalty  decimal.Decimal `json:"total_penalty"`
	QuotaCount    int64           `json:"quota_count"`
}

// BuyQuota issues participation units. Paying from balance settles in one
// atomic scope; the gateway path records a pending transaction and defers
// issuance to payment confirmation.
func BuyQuota(member *models.Member, quantity int64, method types.PaymentMethod) ledger.Result {
	if err := risk.CheckPurchaseVolume(quantity); err != nil {
		return ledger.Fail(err)
	}

	cost := config.QuotaUnitValue.Mul(decimal.NewFromInt(quantity))
	fee := cost.Mul(config.AdminFeeRate).RoundDown(2)
	total := cost.Add(fee)

	if method == types.MethodGateway {
		// Advisory concentration check; the authoritative one re-runs at
		// confirmation time.
		if err := risk.CheckConcentration(config.DataBase, member.ID, quantity); err != nil {
			return ledger.Fail(err)
		}

		charge, err := gateway.Default.CreateCharge(member.UID, total, "quota.purchase")
		if err != nil {
			return ledger.Fail(err)
		}

		return ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
			transaction := &models.Transaction{
				MemberID:    member.ID,
				Type:        types.TxQuotaPurchase,
				Amount:      total.Neg(),
				Description: "quota.purchase",
				Status:      models.TxPending,
				PaymentID:   sql.NullString{String: charge.PaymentID, Valid: true},
				Metadata:    datatypes.ForQuotaPurchase(quantity, fee),
			}
			if err := tx.Create(transaction).Error; err != nil {
				return nil, err
			}

			return PurchaseResult{
				TransactionID: transaction.UUID,
				Cost:          total,
				PaymentID:     charge.PaymentID,
			}, nil
		})
	}

	now := time.Now()

	var completed *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		balance, err := models.LockBalance(tx, member.ID)
		if err != nil {
			return nil, err
		}

		// The balance lock serializes purchases per member, making this
		// count authoritative.
		if err := risk.CheckConcentration(tx, member.ID, quantity); err != nil {
			return nil, err
		}

		if err := balance.SubFunds(tx, total); err != nil {
			return nil, err
		}

		transaction := &models.Transaction{
			MemberID:    member.ID,
			Type:        types.TxQuotaPurchase,
			Amount:      total.Neg(),
			Description: "quota.purchase",
			Status:      models.TxCompleted,
			Metadata:    datatypes.ForQuotaPurchase(quantity, fee),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return nil, err
		}
		completed = transaction

		if err := issueQuotas(tx, member.ID, quantity, cost, fee, transaction, now); err != nil {
			return nil, err
		}

		return PurchaseResult{
			TransactionID:     transaction.UUID,
			Cost:              total,
			ImmediateApproval: true,
		}, nil
	})

	if result.Success {
		models.PublishMetrics(completed)
	}

	return result
}

// ConfirmQuotaPurchase issues the quotas of a gateway-paid purchase once
// the charge confirms. Guards re-run here; a purchase that no longer
// passes them is rejected and the pending transaction flipped, without
// issuing anything.
func ConfirmQuotaPurchase(payment_id string) ledger.Result {
	now := time.Now()

	var completed *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		transaction, err := models.LockTransactionByPayment(tx, payment_id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("payment.not_found")
		} else if err != nil {
			return nil, err
		}

		if transaction.Status != models.TxPending || transaction.Type != types.TxQuotaPurchase || transaction.Metadata.QuotaPurchase == nil {
			return nil, ledger.InvalidState("payment.not_confirmable")
		}

		quantity := transaction.Metadata.QuotaPurchase.Quantity
		fee := transaction.Metadata.QuotaPurchase.AdminFee
		cost := transaction.Amount.Neg().Sub(fee)

		if _, err := models.LockBalance(tx, transaction.MemberID); err != nil {
			return nil, err
		}

		if err := risk.CheckConcentration(tx, transaction.MemberID, quantity); err != nil {
			transaction.Status = models.TxRejected
			if save_err := tx.Save(transaction).Error; save_err != nil {
				return nil, save_err
			}

			return PurchaseResult{TransactionID: transaction.UUID, Cost: transaction.Amount.Neg()}, nil
		}

		transaction.Status = models.TxCompleted
		if err := tx.Save(transaction).Error; err != nil {
			return nil, err
		}
		completed = transaction

		if err := issueQuotas(tx, transaction.MemberID, quantity, cost, fee, transaction, now); err != nil {
			return nil, err
		}

		return PurchaseResult{
			TransactionID:     transaction.UUID,
			Cost:              transaction.Amount.Neg(),
			ImmediateApproval: true,
		}, nil
	})

	if result.Success {
		models.PublishMetrics(completed)
	}

	return result
}

// issueQuotas inserts one row per unit, credits the purchase principal to
// the investment reserve and distributes the admin fee.
func issueQuotas(tx *gorm.DB, member_id int64, quantity int64, cost, fee decimal.Decimal, transaction *models.Transaction, now time.Time) error {
	for i := int64(0); i < quantity; i++ {
		quota := &models.Quota{
			MemberID:     member_id,
			UnitValue:    config.QuotaUnitValue,
			CurrentValue: config.QuotaUnitValue,
			Status:       models.QuotaActive,
			PurchasedAt:  now,
		}
		if err := tx.Create(quota).Error; err != nil {
			return err
		}
	}

	state, err := models.LockState(tx)
	if err != nil {
		return err
	}

	reference := models.Reference{ID: transaction.ID, Type: "Transaction"}

	if err := state.ApplyDelta(tx, types.BucketInvestmentReserve, cost, reference); err != nil {
		return err
	}

	return state.ApplySplit(tx, ledger.SplitSystemShare(fee), reference)
}

// SellQuota redeems one quota at its current value minus any early-exit
// penalty.
func SellQuota(member *models.Member, quota_id int64) ledger.Result {
	now := time.Now()

	var completed *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		if _, err := models.LockBalance(tx, member.ID); err != nil {
			return nil, err
		}

		var quota *models.Quota
		result := models.LockTable(tx, "quotas").
			Where("id = ? AND member_id = ?", quota_id, member.ID).
			First(&quota)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("quota.not_found")
		} else if result.Error != nil {
			return nil, result.Error
		}

		received, penalty, transaction, err := redeem(tx, member, []*models.Quota{quota}, now)
		if err != nil {
			return nil, err
		}
		completed = transaction

		return SellResult{FinalAmount: received, PenaltyAmount: penalty}, nil
	})

	if result.Success {
		models.PublishMetrics(completed)
	}

	return result
}

// SellAllQuotas liquidates every active unlisted quota of the member in
// one scope: either all of them redeem or none do.
func SellAllQuotas(member *models.Member) ledger.Result {
	now := time.Now()

	var completed *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		if _, err := models.LockBalance(tx, member.ID); err != nil {
			return nil, err
		}

		var quotas []*models.Quota
		models.LockTable(tx, "quotas").
			Where("member_id = ? AND status = ?", member.ID, models.QuotaActive).
			Order("id asc").
			Find(&quotas)

		if len(quotas) == 0 {
			return nil, ledger.NotFound("quota.not_found")
		}

		received, penalty, transaction, err := redeem(tx, member, quotas, now)
		if err != nil {
			return nil, err
		}
		completed = transaction

		return SellAllResult{
			TotalReceived: received,
			TotalPenalty:  penalty,
			QuotaCount:    int64(len(quotas)),
		}, nil
	})

	if result.Success {
		models.PublishMetrics(completed)
	}

	return result
}

// redeem runs the shared redemption path under the caller's locks: sale
// guards, liquidity gate on the locked reserve state, penalty routing,
// quota flip, audit record. Callers lock the balance row first and the
// quota rows FOR UPDATE.
func redeem(tx *gorm.DB, member *models.Member, quotas []*models.Quota, now time.Time) (decimal.Decimal, decimal.Decimal, *models.Transaction, error) {
	if models.MemberHasOpenLoans(tx, member.ID) {
		return decimal.Zero, decimal.Zero, nil, ledger.InvalidState("quota.sale.open_loan")
	}
	if models.MemberHasGuarantorObligation(tx, member.ID) {
		return decimal.Zero, decimal.Zero, nil, ledger.InvalidState("quota.sale.guarantor_obligation")
	}

	value := decimal.Zero
	penalty := decimal.Zero
	cutoff := config.ReleaseCutoff(now)
	quota_ids := make([]int64, 0, len(quotas))

	for _, quota := range quotas {
		if quota.Status != models.QuotaActive {
			return decimal.Zero, decimal.Zero, nil, ledger.InvalidState("quota.sale.not_active")
		}
		if quota.Listed {
			return decimal.Zero, decimal.Zero, nil, ledger.InvalidState("quota.sale.listed")
		}

		value = value.Add(quota.CurrentValue)
		penalty = penalty.Add(quota.RedemptionPenalty(config.EarlyExitPenaltyRate, cutoff, now))
		quota_ids = append(quota_ids, quota.ID)
	}

	state, err := models.LockState(tx)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}

	// Never partially honored: the full redemption value must be backed.
	if err := risk.CheckLiquidity(state, types.BucketInvestmentReserve, value); err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}

	received := value.Sub(penalty)

	transaction := &models.Transaction{
		MemberID:    member.ID,
		Type:        types.TxQuotaRedemption,
		Amount:      received,
		Description: "quota.redemption",
		Status:      models.TxCompleted,
		Metadata:    datatypes.ForQuotaRedemption(quota_ids, penalty),
	}
	if err := tx.Create(transaction).Error; err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}

	reference := models.Reference{ID: transaction.ID, Type: "Transaction"}

	if err := state.ApplyDelta(tx, types.BucketInvestmentReserve, value.Neg(), reference); err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}
	if penalty.IsPositive() {
		if err := state.ApplySplit(tx, ledger.SplitPenalty(penalty), reference); err != nil {
			return decimal.Zero, decimal.Zero, nil, err
		}
	}

	balance, err := models.LockBalance(tx, member.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}
	if err := balance.PlusFunds(tx, received); err != nil {
		return decimal.Zero, decimal.Zero, nil, err
	}

	for _, quota := range quotas {
		quota.Status = models.QuotaSold
		quota.SoldAt = sql.NullTime{Time: now, Valid: true}
		if err := tx.Save(quota).Error; err != nil {
			return decimal.Zero, decimal.Zero, nil, err
		}
	}

	return received, penalty, transaction, nil
}

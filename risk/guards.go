package risk

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/types"
)

// WithinConcentrationLimit reports whether a purchase keeps the member
// under the active-quota ceiling.
func WithinConcentrationLimit(current, requested, ceiling int64) bool {
	return current+requested <= ceiling
}

// CheckPurchaseVolume is the per-operation unit throttle, independent of
// the member's holdings.
func CheckPurchaseVolume(quantity int64) error {
	if quantity < 1 {
		return ledger.NewError(ledger.KindValidation, "risk.quota.non_positive_quantity")
	}

	if quantity > config.MaxQuotasPerPurchase {
		return ledger.LimitExceeded("risk.quota.volume_exceeded")
	}

	return nil
}

// CheckConcentration enforces the per-member active-quota ceiling. The
// authoritative call runs with the member's balance row already locked,
// which serializes concurrent purchases of the same member.
func CheckConcentration(tx *gorm.DB, member_id int64, quantity int64) error {
	current := models.ActiveQuotaCount(tx, member_id)

	if !WithinConcentrationLimit(current, quantity, config.MaxActiveQuotasPerMember) {
		return ledger.LimitExceeded("risk.quota.concentration_exceeded")
	}

	return nil
}

// CheckLoanFlood rejects a loan request arriving inside the cooldown
// window of the member's previous one.
func CheckLoanFlood(tx *gorm.DB, member_id int64, now time.Time) error {
	last, found := models.LastLoanCreatedAt(tx, member_id)
	if !found {
		return nil
	}

	if now.Sub(last) < config.LoanCooldown {
		return ledger.LimitExceeded("risk.loan.cooldown")
	}

	return nil
}

// FloodMarked is the advisory redis pre-check of the flood guard; the
// authoritative re-check is CheckLoanFlood under the member lock.
func FloodMarked(member_id int64) bool {
	if config.Redis == nil {
		return false
	}

	var marked bool
	if err := config.Redis.GetKey(floodKey(member_id), &marked); err != nil {
		return false
	}

	return marked
}

func MarkFlood(member_id int64) {
	if config.Redis == nil {
		return
	}

	config.Redis.SetKey(floodKey(member_id), true, config.LoanCooldown)
}

func floodKey(member_id int64) string {
	return "loan_cooldown:" + strconv.FormatInt(member_id, 10)
}

// CheckLiquidity gates a reserve-side payout. It must be called on a
// state snapshot taken FOR UPDATE in the committing scope, never on a
// display-time read.
func CheckLiquidity(state *models.SystemState, bucket types.ReserveBucket, amount decimal.Decimal) error {
	if state.Bucket(bucket).LessThan(amount) {
		return ledger.InsufficientLiquidity("risk.reserve.insufficient_liquidity")
	}

	return nil
}

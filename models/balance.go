package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/mq_client"
)

// Balance is the single spendable balance row of a member. It is only
// mutated through PlusFunds/SubFunds while the row is held FOR UPDATE
// inside an atomic scope.
type Balance struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	MemberID  int64           `json:"member_id" gorm:"uniqueIndex"`
	Amount    decimal.Decimal `json:"amount" gorm:"default:0.0" validate:"ValidateAmount"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (b Balance) ValidateAmount(Amount decimal.Decimal) bool {
	return Amount.GreaterThanOrEqual(decimal.Zero)
}

func (b *Balance) Member() *Member {
	var member *Member

	config.DataBase.First(&member, "id = ?", b.MemberID)

	return member
}

func (b *Balance) BeforeSave(tx *gorm.DB) (err error) {
	b.TriggerEvent()

	return
}

func (b *Balance) TriggerEvent() {
	member := b.Member()
	payload_message, _ := json.Marshal(b.ToJSON())

	mq_client.EnqueueEvent("private", member.UID, "balance", payload_message)
}

func (b *Balance) PlusFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ledger.InvalidState("ledger.balance.non_positive_credit")
	}

	b.Amount = b.Amount.Add(amount)
	return tx.Save(&b).Error
}

func (b *Balance) SubFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ledger.InvalidState("ledger.balance.non_positive_debit")
	}

	if amount.GreaterThan(b.Amount) {
		return ledger.InsufficientFunds("ledger.balance.insufficient_funds")
	}

	b.Amount = b.Amount.Sub(amount)
	return tx.Save(&b).Error
}

// LockBalance fetches (creating on first touch) the member balance row
// under FOR UPDATE. Every read-then-write on a balance goes through here.
func LockBalance(tx *gorm.DB, member_id int64) (*Balance, error) {
	var balance *Balance

	result := LockTable(tx, "balances").
		Where(Balance{MemberID: member_id}).
		FirstOrCreate(&balance)
	if result.Error != nil {
		return nil, result.Error
	}

	return balance, nil
}

// lockOrder sorts and dedupes member ids. Cross-member scopes acquire
// balance row locks in ascending id, before any loan or state lock.
func lockOrder(member_ids []int64) []int64 {
	sort.Slice(member_ids, func(i, j int) bool { return member_ids[i] < member_ids[j] })

	ordered := make([]int64, 0, len(member_ids))
	for _, member_id := range member_ids {
		if len(ordered) > 0 && ordered[len(ordered)-1] == member_id {
			continue
		}

		ordered = append(ordered, member_id)
	}

	return ordered
}

// LockBalances locks several member balance rows in ascending member id,
// the global lock order for cross-member operations.
func LockBalances(tx *gorm.DB, member_ids ...int64) (map[int64]*Balance, error) {
	balances_table := make(map[int64]*Balance)
	for _, member_id := range lockOrder(member_ids) {
		balance, err := LockBalance(tx, member_id)
		if err != nil {
			return nil, err
		}

		balances_table[member_id] = balance
	}

	return balances_table, nil
}

type BalanceJSON struct {
	MemberID int64           `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

func (b *Balance) ToJSON() BalanceJSON {
	return BalanceJSON{
		MemberID: b.MemberID,
		Amount:   b.Amount,
	}
}

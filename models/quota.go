package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
)

type QuotaStatus = string

var (
	QuotaActive QuotaStatus = "active"
	QuotaSold   QuotaStatus = "sold"
)

// Quota is one unit of member capital contribution. A listed quota stays
// non-redeemable until unlisted.
type Quota struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	MemberID     int64           `json:"member_id" gorm:"index"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Status       QuotaStatus     `json:"status" gorm:"default:active"`
	Listed       bool            `json:"listed" gorm:"default:false"`
	PurchasedAt  time.Time       `json:"purchased_at"`
	SoldAt       sql.NullTime    `json:"sold_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (q *Quota) Member() *Member {
	var member *Member

	config.DataBase.First(&member, "id = ?", q.MemberID)

	return member
}

// RedemptionPenalty is the early-exit charge on a quota redeemed before
// the annual release cutoff. It is a penalty, not yield.
func (q *Quota) RedemptionPenalty(rate decimal.Decimal, cutoff time.Time, at time.Time) decimal.Decimal {
	if !at.Before(cutoff) {
		return decimal.Zero
	}

	return q.CurrentValue.Mul(rate).RoundDown(2)
}

func ActiveQuotaCount(tx *gorm.DB, member_id int64) int64 {
	var count int64

	tx.Model(&Quota{}).
		Where("member_id = ? AND status = ?", member_id, QuotaActive).
		Count(&count)

	return count
}

// ActiveQuotaValue sums the current value of a member's active quotas,
// the collateral-eligible base for loan limits.
func ActiveQuotaValue(tx *gorm.DB, member_id int64) decimal.Decimal {
	var quotas []*Quota
	value := decimal.Zero

	tx.Where("member_id = ? AND status = ?", member_id, QuotaActive).Find(&quotas)

	for _, quota := range quotas {
		value = value.Add(quota.CurrentValue)
	}

	return value
}

type QuotaJSON struct {
	ID           int64           `json:"id"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Status       QuotaStatus     `json:"status"`
	Listed       bool            `json:"listed"`
	PurchasedAt  time.Time       `json:"purchased_at"`
}

func (q *Quota) ToJSON() QuotaJSON {
	return QuotaJSON{
		ID:           q.ID,
		UnitValue:    q.UnitValue,
		CurrentValue: q.CurrentValue,
		Status:       q.Status,
		Listed:       q.Listed,
		PurchasedAt:  q.PurchasedAt,
	}
}

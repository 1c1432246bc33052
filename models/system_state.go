package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/types"
)

// SystemState is the singleton reserve record. Buckets are only moved as
// deltas applied while the row is held FOR UPDATE; reads outside that lock
// are advisory.
type SystemState struct {
	ID                 int64           `json:"id" gorm:"primaryKey"`
	OperationalCash    decimal.Decimal `json:"operational_cash" gorm:"default:0.0"`
	ProfitPool         decimal.Decimal `json:"profit_pool" gorm:"default:0.0"`
	InvestmentReserve  decimal.Decimal `json:"investment_reserve" gorm:"default:0.0"`
	TaxReserve         decimal.Decimal `json:"tax_reserve" gorm:"default:0.0"`
	OperationalReserve decimal.Decimal `json:"operational_reserve" gorm:"default:0.0"`
	OwnerReserve       decimal.Decimal `json:"owner_reserve" gorm:"default:0.0"`
	CorporateReserve   decimal.Decimal `json:"corporate_reserve" gorm:"default:0.0"`
	// PromoRate, when set, caps the loan interest rate platform-wide.
	PromoRate decimal.NullDecimal `json:"promo_rate"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (SystemState) TableName() string {
	return "system_state"
}

// LockState takes the FOR UPDATE token on the singleton row.
func LockState(tx *gorm.DB) (*SystemState, error) {
	var state *SystemState

	result := LockTable(tx, "system_state").
		Where(SystemState{ID: 1}).
		FirstOrCreate(&state)
	if result.Error != nil {
		return nil, result.Error
	}

	return state, nil
}

func (s *SystemState) Bucket(bucket types.ReserveBucket) decimal.Decimal {
	return *s.bucketRef(bucket)
}

func (s *SystemState) bucketRef(bucket types.ReserveBucket) *decimal.Decimal {
	switch bucket {
	case types.BucketOperationalCash:
		return &s.OperationalCash
	case types.BucketProfitPool:
		return &s.ProfitPool
	case types.BucketInvestmentReserve:
		return &s.InvestmentReserve
	case types.BucketTaxReserve:
		return &s.TaxReserve
	case types.BucketOperationalRes:
		return &s.OperationalReserve
	case types.BucketOwnerReserve:
		return &s.OwnerReserve
	case types.BucketCorporateReserve:
		return &s.CorporateReserve
	}

	return nil
}

// ApplyDelta moves one bucket by delta and appends the paired reserve
// entry. A delta that would drive the bucket negative is rejected without
// touching anything.
func (s *SystemState) ApplyDelta(tx *gorm.DB, bucket types.ReserveBucket, delta decimal.Decimal, reference Reference) error {
	ref := s.bucketRef(bucket)
	if ref == nil {
		return ledger.NotFound("ledger.reserve.unknown_bucket")
	}

	next := ref.Add(delta)
	if next.IsNegative() {
		return ledger.InsufficientLiquidity("ledger.reserve.insufficient_liquidity")
	}

	*ref = next
	if err := tx.Save(&s).Error; err != nil {
		return err
	}

	if delta.IsNegative() {
		return ReserveDebit(tx, bucket, delta.Neg(), reference)
	}

	return ReserveCredit(tx, bucket, delta, reference)
}

// ApplySplit applies every bucket delta of a distribution split.
func (s *SystemState) ApplySplit(tx *gorm.DB, split ledger.Split, reference Reference) error {
	for bucket, delta := range split {
		if delta.IsZero() {
			continue
		}

		if err := s.ApplyDelta(tx, bucket, delta, reference); err != nil {
			return err
		}
	}

	return nil
}

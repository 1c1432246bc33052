package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/types"
)

// ReserveEntry is the append-only record of every reserve bucket move,
// the system of record for bucket reconciliation.
type ReserveEntry struct {
	ID            int64               `json:"id" gorm:"primaryKey"`
	Bucket        types.ReserveBucket `json:"bucket"`
	ReferenceType string              `json:"reference_type"`
	ReferenceID   int64               `json:"reference_id"`
	Debit         decimal.Decimal     `json:"debit" gorm:"default:0.0"`
	Credit        decimal.Decimal     `json:"credit" gorm:"default:0.0"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func ReserveCredit(tx *gorm.DB, bucket types.ReserveBucket, amount decimal.Decimal, reference Reference) error {
	entry := ReserveEntry{
		Bucket:        bucket,
		ReferenceType: reference.Type,
		ReferenceID:   reference.ID,
		Credit:        amount,
	}

	return tx.Create(&entry).Error
}

func ReserveDebit(tx *gorm.DB, bucket types.ReserveBucket, amount decimal.Decimal, reference Reference) error {
	entry := ReserveEntry{
		Bucket:        bucket,
		ReferenceType: reference.Type,
		ReferenceID:   reference.ID,
		Debit:         amount,
	}

	return tx.Create(&entry).Error
}

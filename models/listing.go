package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListingStatus = string

var (
	ListingOpen      ListingStatus = "open"
	ListingCancelled ListingStatus = "cancelled"
	ListingFilled    ListingStatus = "filled"
)

// Listing is a marketplace offer of one quota at a fixed price.
type Listing struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	QuotaID   int64           `json:"quota_id" gorm:"index"`
	MemberID  int64           `json:"member_id" gorm:"index"`
	Price     decimal.Decimal `json:"price"`
	Status    ListingStatus   `json:"status" gorm:"default:open"`
	FilledAt  sql.NullTime    `json:"filled_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func LockListing(tx *gorm.DB, id int64) (*Listing, error) {
	var listing *Listing

	result := LockTable(tx, "listings").Where("id = ?", id).First(&listing)
	if result.Error != nil {
		return nil, result.Error
	}

	return listing, nil
}

func OpenListings(tx *gorm.DB) []*Listing {
	var listings []*Listing

	tx.Where("status = ?", ListingOpen).Order("id asc").Find(&listings)

	return listings
}

package market_service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/marketplace"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/models/datatypes"
	"github.com/mutuoclub/mutuo/types"
)

// Book indexes open listings in memory; the listings table is the source
// of truth and the book is rebuilt from it at boot.
var Book = marketplace.NewBook()

func LoadBook() {
	listings := models.OpenListings(config.DataBase)

	for _, listing := range listings {
		var quota *models.Quota
		if err := config.DataBase.First(&quota, "id = ?", listing.QuotaID).Error; err != nil {
			continue
		}

		Book.Add(&marketplace.Entry{
			ListingID: listing.ID,
			QuotaID:   listing.QuotaID,
			MemberID:  listing.MemberID,
			Price:     listing.Price,
		})
	}

	config.Logger.Infof("marketplace book loaded with %d listings", Book.Size())
}

type ListingResult struct {
	ListingID int64           `json:"listing_id"`
	QuotaID   int64           `json:"quota_id"`
	Price     decimal.Decimal `json:"price"`
}

type TradeResult struct {
	ListingID int64           `json:"listing_id"`
	QuotaID   int64           `json:"quota_id"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`
	SellerNet decimal.Decimal `json:"seller_net"`
}

// ListQuota puts one active quota up for sale. A listed quota stays
// non-redeemable until unlisted or sold.
func ListQuota(member *models.Member, quota_id int64, price decimal.Decimal) ledger.Result {
	if !price.IsPositive() || !price.Equal(price.Round(2)) {
		return ledger.Fail(ledger.NewError(ledger.KindValidation, "marketplace.listing.invalid_price"))
	}

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		var quota *models.Quota
		lookup := models.LockTable(tx, "quotas").
			Where("id = ? AND member_id = ?", quota_id, member.ID).
			First(&quota)
		if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("quota.not_found")
		} else if lookup.Error != nil {
			return nil, lookup.Error
		}

		if quota.Status != models.QuotaActive || quota.Listed {
			return nil, ledger.InvalidState("marketplace.listing.quota_unavailable")
		}

		// Quotas backing an open loan are pledged collateral and cannot
		// leave the member's holdings.
		if models.MemberHasOpenLoans(tx, member.ID) {
			return nil, ledger.InvalidState("marketplace.listing.collateral_pledged")
		}

		quota.Listed = true
		if err := tx.Save(quota).Error; err != nil {
			return nil, err
		}

		listing := &models.Listing{
			QuotaID:  quota.ID,
			MemberID: member.ID,
			Price:    price,
			Status:   models.ListingOpen,
		}
		if err := tx.Create(listing).Error; err != nil {
			return nil, err
		}

		return ListingResult{ListingID: listing.ID, QuotaID: quota.ID, Price: price}, nil
	})

	if result.Success {
		data := result.Data.(ListingResult)
		Book.Add(&marketplace.Entry{
			ListingID: data.ListingID,
			QuotaID:   data.QuotaID,
			MemberID:  member.ID,
			Price:     data.Price,
		})
	}

	return result
}

func CancelListing(member *models.Member, listing_id int64) ledger.Result {
	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		listing, err := models.LockListing(tx, listing_id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("marketplace.listing.not_found")
		} else if err != nil {
			return nil, err
		}

		if listing.MemberID != member.ID {
			return nil, ledger.NotFound("marketplace.listing.not_found")
		}
		if listing.Status != models.ListingOpen {
			return nil, ledger.InvalidState("marketplace.listing.not_open")
		}

		listing.Status = models.ListingCancelled
		if err := tx.Save(listing).Error; err != nil {
			return nil, err
		}

		if err := tx.Model(&models.Quota{}).
			Where("id = ?", listing.QuotaID).
			UpdateColumn("listed", false).Error; err != nil {
			return nil, err
		}

		return ListingResult{ListingID: listing.ID, QuotaID: listing.QuotaID, Price: listing.Price}, nil
	})

	if result.Success {
		Book.Remove(listing_id)
	}

	return result
}

// BuyListing transfers a listed quota to the buyer: buyer pays the ask
// price, seller receives price minus the marketplace fee, the fee goes
// through the system share split.
func BuyListing(member *models.Member, listing_id int64) ledger.Result {
	now := time.Now()

	var completed []*models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		listing, err := models.LockListing(tx, listing_id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("marketplace.listing.not_found")
		} else if err != nil {
			return nil, err
		}

		if listing.Status != models.ListingOpen {
			return nil, ledger.InvalidState("marketplace.listing.not_open")
		}
		if listing.MemberID == member.ID {
			return nil, ledger.InvalidState("marketplace.listing.own_listing")
		}

		balances_table, err := models.LockBalances(tx, member.ID, listing.MemberID)
		if err != nil {
			return nil, err
		}

		fee := listing.Price.Mul(config.MarketplaceFeeRate).RoundDown(2)
		seller_net := listing.Price.Sub(fee)

		if err := balances_table[member.ID].SubFunds(tx, listing.Price); err != nil {
			return nil, err
		}
		if err := balances_table[listing.MemberID].PlusFunds(tx, seller_net); err != nil {
			return nil, err
		}

		buyer_transaction := &models.Transaction{
			MemberID:    member.ID,
			Type:        types.TxQuotaTransfer,
			Amount:      listing.Price.Neg(),
			Description: "marketplace.purchase",
			Status:      models.TxCompleted,
			Metadata:    datatypes.ForQuotaTransfer(listing.QuotaID, listing.ID, listing.MemberID, fee),
		}
		if err := tx.Create(buyer_transaction).Error; err != nil {
			return nil, err
		}

		seller_transaction := &models.Transaction{
			MemberID:    listing.MemberID,
			Type:        types.TxQuotaTransfer,
			Amount:      seller_net,
			Description: "marketplace.sale",
			Status:      models.TxCompleted,
			Metadata:    datatypes.ForQuotaTransfer(listing.QuotaID, listing.ID, member.ID, fee),
		}
		if err := tx.Create(seller_transaction).Error; err != nil {
			return nil, err
		}
		completed = append(completed, buyer_transaction, seller_transaction)

		state, err := models.LockState(tx)
		if err != nil {
			return nil, err
		}

		reference := models.Reference{ID: buyer_transaction.ID, Type: "Transaction"}
		if err := state.ApplySplit(tx, ledger.SplitSystemShare(fee), reference); err != nil {
			return nil, err
		}

		if err := tx.Model(&models.Quota{}).
			Where("id = ?", listing.QuotaID).
			Updates(map[string]interface{}{"member_id": member.ID, "listed": false}).Error; err != nil {
			return nil, err
		}

		listing.Status = models.ListingFilled
		listing.FilledAt = sql.NullTime{Time: now, Valid: true}
		if err := tx.Save(listing).Error; err != nil {
			return nil, err
		}

		return TradeResult{
			ListingID: listing.ID,
			QuotaID:   listing.QuotaID,
			Price:     listing.Price,
			Fee:       fee,
			SellerNet: seller_net,
		}, nil
	})

	if result.Success {
		Book.Remove(listing_id)
		models.PublishMetrics(completed...)
	}

	return result
}

package datatypes

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TransactionMetadata is a tagged union: Kind names the active variant
// and exactly one payload pointer is set.
type TransactionMetadata struct {
	Kind string `json:"kind"`

	QuotaPurchase   *QuotaPurchaseMetadata   `json:"quota_purchase,omitempty"`
	QuotaRedemption *QuotaRedemptionMetadata `json:"quota_redemption,omitempty"`
	QuotaTransfer   *QuotaTransferMetadata   `json:"quota_transfer,omitempty"`
	LoanPayment     *LoanPaymentMetadata     `json:"loan_payment,omitempty"`
	Dividend        *DividendMetadata        `json:"dividend,omitempty"`
}

type QuotaPurchaseMetadata struct {
	Quantity int64           `json:"quantity"`
	AdminFee decimal.Decimal `json:"admin_fee"`
}

type QuotaRedemptionMetadata struct {
	QuotaIDs []int64         `json:"quota_ids"`
	Penalty  decimal.Decimal `json:"penalty"`
	// Penalty money is a charge, never yield; profit bookkeeping must
	// skip it.
	PenaltyIsNotProfit bool `json:"penalty_is_not_profit"`
}

type QuotaTransferMetadata struct {
	QuotaID        int64           `json:"quota_id"`
	ListingID      int64           `json:"listing_id"`
	CounterpartyID int64           `json:"counterparty_id"`
	Fee            decimal.Decimal `json:"fee"`
}

type LoanPaymentMetadata struct {
	LoanID         int64           `json:"loan_id"`
	PrincipalShare decimal.Decimal `json:"principal_share"`
	InterestShare  decimal.Decimal `json:"interest_share"`
}

type DividendMetadata struct {
	QuotaCount int64 `json:"quota_count"`
}

func ForQuotaPurchase(quantity int64, admin_fee decimal.Decimal) TransactionMetadata {
	return TransactionMetadata{
		Kind:          "quota_purchase",
		QuotaPurchase: &QuotaPurchaseMetadata{Quantity: quantity, AdminFee: admin_fee},
	}
}

func ForQuotaRedemption(quota_ids []int64, penalty decimal.Decimal) TransactionMetadata {
	return TransactionMetadata{
		Kind: "quota_redemption",
		QuotaRedemption: &QuotaRedemptionMetadata{
			QuotaIDs:           quota_ids,
			Penalty:            penalty,
			PenaltyIsNotProfit: true,
		},
	}
}

func ForQuotaTransfer(quota_id, listing_id, counterparty_id int64, fee decimal.Decimal) TransactionMetadata {
	return TransactionMetadata{
		Kind: "quota_transfer",
		QuotaTransfer: &QuotaTransferMetadata{
			QuotaID:        quota_id,
			ListingID:      listing_id,
			CounterpartyID: counterparty_id,
			Fee:            fee,
		},
	}
}

func ForLoanPayment(loan_id int64, principal_share, interest_share decimal.Decimal) TransactionMetadata {
	return TransactionMetadata{
		Kind: "loan_payment",
		LoanPayment: &LoanPaymentMetadata{
			LoanID:         loan_id,
			PrincipalShare: principal_share,
			InterestShare:  interest_share,
		},
	}
}

func ForDividend(quota_count int64) TransactionMetadata {
	return TransactionMetadata{
		Kind:     "dividend",
		Dividend: &DividendMetadata{QuotaCount: quota_count},
	}
}

// Value return json value, implement driver.Valuer interface
func (m TransactionMetadata) Value() (driver.Value, error) {
	data, err := json.Marshal(m)
	return string(data), err
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (m *TransactionMetadata) Scan(val interface{}) error {
	if val == nil {
		*m = TransactionMetadata{}
		return nil
	}
	var ba []byte
	switch v := val.(type) {
	case []byte:
		ba = v
	case string:
		ba = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", val))
	}
	t := TransactionMetadata{}
	err := json.Unmarshal(ba, &t)
	*m = t
	return err
}

// GormDataType gorm common data type
func (m TransactionMetadata) GormDataType() string {
	return "jsonmap"
}

// GormDBDataType gorm db data type
func (TransactionMetadata) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "sqlite":
		return "JSON"
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	}
	return ""
}

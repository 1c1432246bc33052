package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/models/datatypes"
	"github.com/mutuoclub/mutuo/mq_client"
	"github.com/mutuoclub/mutuo/types"
)

type TransactionStatus = string

var (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxRejected  TransactionStatus = "rejected"
)

// Transaction is the append-only audit record of every member money move.
type Transaction struct {
	ID          int64                         `json:"id" gorm:"primaryKey"`
	UUID        uuid.UUID                     `json:"uuid" gorm:"default:gen_random_uuid()"`
	MemberID    int64                         `json:"member_id" gorm:"index"`
	Type        types.TransactionType         `json:"type"`
	Amount      decimal.Decimal               `json:"amount"`
	Description string                        `json:"description"`
	Status      TransactionStatus             `json:"status" gorm:"default:pending"`
	PaymentID   sql.NullString                `json:"payment_id"`
	Metadata    datatypes.TransactionMetadata `json:"metadata"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

func (t *Transaction) Member() *Member {
	var member *Member

	config.DataBase.First(&member, "id = ?", t.MemberID)

	return member
}

func (t *Transaction) AfterSave(tx *gorm.DB) (err error) {
	t.TriggerEvent()

	return
}

func (t *Transaction) TriggerEvent() {
	member := t.Member()
	payload_message, _ := json.Marshal(t.ToJSON())

	mq_client.EnqueueEvent("private", member.UID, "transaction", payload_message)
}

// WriteToInflux records a completed transaction as a measurement point,
// off the commit path.
func (t *Transaction) WriteToInflux() {
	amount, _ := t.Amount.Float64()

	config.InfluxDB.NewPoint(
		"transactions",
		map[string]string{
			"type":   t.Type,
			"status": t.Status,
		},
		map[string]interface{}{
			"id":        t.ID,
			"member_id": t.MemberID,
			"amount":    amount,
		},
	)
}

// PublishMetrics writes completed transactions to influx. Call after the
// enclosing atomic scope has committed, never inside it.
func PublishMetrics(transactions ...*Transaction) {
	for _, transaction := range transactions {
		if transaction == nil || transaction.Status != TxCompleted {
			continue
		}

		transaction.WriteToInflux()
	}
}

// LockTransactionByPayment fetches the pending transaction tied to a
// gateway payment id under FOR UPDATE.
func LockTransactionByPayment(tx *gorm.DB, payment_id string) (*Transaction, error) {
	var transaction *Transaction

	result := LockTable(tx, "transactions").
		Where("payment_id = ?", payment_id).
		First(&transaction)
	if result.Error != nil {
		return nil, result.Error
	}

	return transaction, nil
}

type TransactionJSON struct {
	UUID        uuid.UUID             `json:"uuid"`
	Type        types.TransactionType `json:"type"`
	Amount      decimal.Decimal       `json:"amount"`
	Description string                `json:"description"`
	Status      TransactionStatus     `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
}

func (t *Transaction) ToJSON() TransactionJSON {
	return TransactionJSON{
		UUID:        t.UUID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/mq_client"
)

type LoanStatus = string

var (
	LoanPending          LoanStatus = "pending"
	LoanWaitingGuarantor LoanStatus = "waiting_guarantor"
	LoanApproved         LoanStatus = "approved"
	LoanRejected         LoanStatus = "rejected"
	LoanPaymentPending   LoanStatus = "payment_pending"
	LoanPaid             LoanStatus = "paid"
)

type Loan struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	UUID             uuid.UUID       `json:"uuid" gorm:"default:gen_random_uuid()"`
	MemberID         int64           `json:"member_id" gorm:"index"`
	GuarantorID      sql.NullInt64   `json:"guarantor_id" gorm:"index"`
	Amount           decimal.Decimal `json:"amount"`
	ProtectionFee    decimal.Decimal `json:"protection_fee"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TotalRepayment   decimal.Decimal `json:"total_repayment"`
	InstallmentCount int32           `json:"installment_count"`
	CollateralPct    decimal.Decimal `json:"collateral_pct"`
	CollateralValue  decimal.Decimal `json:"collateral_value"`
	LegalAccepted    bool            `json:"legal_accepted"`
	LegalAcceptedAt  sql.NullTime    `json:"legal_accepted_at"`
	Status           LoanStatus      `json:"status" gorm:"default:pending"`
	DueDate          sql.NullTime    `json:"due_date"`
	DisbursedAt      sql.NullTime    `json:"disbursed_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (l *Loan) Member() *Member {
	var member *Member

	config.DataBase.First(&member, "id = ?", l.MemberID)

	return member
}

// Open reports whether the loan still binds money or obligations.
func (l *Loan) Open() bool {
	switch l.Status {
	case LoanPending, LoanWaitingGuarantor, LoanApproved, LoanPaymentPending:
		return true
	}

	return false
}

// PaidAmount sums the installment ledger, the canonical payment history.
// Call it with the loan row locked when the value feeds a mutation.
func (l *Loan) PaidAmount(tx *gorm.DB) decimal.Decimal {
	var installments []*LoanInstallment
	paid := decimal.Zero

	tx.Where("loan_id = ? AND status = ?", l.ID, InstallmentPaid).Find(&installments)

	for _, installment := range installments {
		paid = paid.Add(installment.PaidAmount)
	}

	return paid
}

// OutstandingAmount is the single outstanding-balance basis used by every
// repayment path: total repayment minus the paid installment sum.
func (l *Loan) OutstandingAmount(tx *gorm.DB) decimal.Decimal {
	return l.TotalRepayment.Sub(l.PaidAmount(tx))
}

// PrincipalRatio is the principal-to-total share used to split a payment
// between principal and interest.
func (l *Loan) PrincipalRatio() decimal.Decimal {
	if l.TotalRepayment.IsZero() {
		return decimal.Zero
	}

	return l.Amount.Div(l.TotalRepayment)
}

// LockLoan fetches the loan row under FOR UPDATE.
func LockLoan(tx *gorm.DB, id int64) (*Loan, error) {
	var loan *Loan

	result := LockTable(tx, "loans").Where("id = ?", id).First(&loan)
	if result.Error != nil {
		return nil, result.Error
	}

	return loan, nil
}

// TotalLoanedPrincipal sums the principal of loans currently out of the
// reserve, the base of the auto-approval liquidity formula.
func TotalLoanedPrincipal(tx *gorm.DB) decimal.Decimal {
	var loans []*Loan
	total := decimal.Zero

	tx.Where("status IN ?", []LoanStatus{LoanApproved, LoanPaymentPending}).Find(&loans)

	for _, loan := range loans {
		total = total.Add(loan.Amount)
	}

	return total
}

// MemberLoanedPrincipal sums the principal of the member's open loans,
// the debt side of the credit-limit re-check.
func MemberLoanedPrincipal(tx *gorm.DB, member_id int64) decimal.Decimal {
	var loans []*Loan
	total := decimal.Zero

	tx.Where("member_id = ? AND status IN ?", member_id, []LoanStatus{LoanPending, LoanWaitingGuarantor, LoanApproved, LoanPaymentPending}).Find(&loans)

	for _, loan := range loans {
		total = total.Add(loan.Amount)
	}

	return total
}

func MemberHasOpenLoans(tx *gorm.DB, member_id int64) bool {
	var count int64

	tx.Model(&Loan{}).
		Where("member_id = ? AND status IN ?", member_id, []LoanStatus{LoanPending, LoanWaitingGuarantor, LoanApproved, LoanPaymentPending}).
		Count(&count)

	return count > 0
}

func MemberHasGuarantorObligation(tx *gorm.DB, member_id int64) bool {
	var count int64

	tx.Model(&Loan{}).
		Where("guarantor_id = ? AND status IN ?", member_id, []LoanStatus{LoanPending, LoanWaitingGuarantor, LoanApproved, LoanPaymentPending}).
		Count(&count)

	return count > 0
}

// LastLoanCreatedAt returns the creation time of the member's most recent
// loan, the authoritative base of the flood guard.
func LastLoanCreatedAt(tx *gorm.DB, member_id int64) (time.Time, bool) {
	var loan *Loan

	result := tx.Where("member_id = ?", member_id).Order("created_at desc").First(&loan)
	if result.Error != nil {
		return time.Time{}, false
	}

	return loan.CreatedAt, true
}

func (l *Loan) TriggerEvent() {
	member := l.Member()
	payload_message, _ := json.Marshal(l.ToJSON())

	mq_client.EnqueueEvent("private", member.UID, "loan", payload_message)
}

type LoanJSON struct {
	ID               int64           `json:"id"`
	UUID             uuid.UUID       `json:"uuid"`
	Amount           decimal.Decimal `json:"amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TotalRepayment   decimal.Decimal `json:"total_repayment"`
	InstallmentCount int32           `json:"installment_count"`
	CollateralPct    decimal.Decimal `json:"collateral_pct"`
	Status           LoanStatus      `json:"status"`
	DueDate          sql.NullTime    `json:"due_date"`
	CreatedAt        time.Time       `json:"created_at"`
}

func (l *Loan) ToJSON() LoanJSON {
	return LoanJSON{
		ID:               l.ID,
		UUID:             l.UUID,
		Amount:           l.Amount,
		InterestRate:     l.InterestRate,
		TotalRepayment:   l.TotalRepayment,
		InstallmentCount: l.InstallmentCount,
		CollateralPct:    l.CollateralPct,
		Status:           l.Status,
		DueDate:          l.DueDate,
		CreatedAt:        l.CreatedAt,
	}
}

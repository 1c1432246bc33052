package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InstallmentStatus = string

var (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
)

type LoanInstallment struct {
	ID             int64             `json:"id" gorm:"primaryKey"`
	LoanID         int64             `json:"loan_id" gorm:"index"`
	Number         int32             `json:"number"`
	ExpectedAmount decimal.Decimal   `json:"expected_amount"`
	PaidAmount     decimal.Decimal   `json:"paid_amount" gorm:"default:0.0"`
	DueDate        time.Time         `json:"due_date"`
	Status         InstallmentStatus `json:"status" gorm:"default:pending"`
	PaidAt         sql.NullTime      `json:"paid_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// BuildSchedule splits a loan's total repayment into equal monthly
// installments. Amounts truncate to cents, the last installment absorbs
// the residual so the schedule sums exactly to the total.
func BuildSchedule(loan *Loan, from time.Time) []*LoanInstallment {
	count := int(loan.InstallmentCount)
	if count < 1 {
		count = 1
	}

	part := loan.TotalRepayment.Div(decimal.NewFromInt(int64(count))).RoundDown(2)

	installments := make([]*LoanInstallment, 0, count)
	allocated := decimal.Zero

	for i := 0; i < count; i++ {
		amount := part
		if i == count-1 {
			amount = loan.TotalRepayment.Sub(allocated)
		}
		allocated = allocated.Add(amount)

		installments = append(installments, &LoanInstallment{
			LoanID:         loan.ID,
			Number:         int32(i + 1),
			ExpectedAmount: amount,
			DueDate:        from.AddDate(0, i+1, 0),
			Status:         InstallmentPending,
		})
	}

	return installments
}

// NextPendingInstallment returns the earliest pending installment of a
// loan, locked FOR UPDATE.
func NextPendingInstallment(tx *gorm.DB, loan_id int64) (*LoanInstallment, error) {
	var installment *LoanInstallment

	result := LockTable(tx, "loan_installments").
		Where("loan_id = ? AND status = ?", loan_id, InstallmentPending).
		Order("number asc").
		First(&installment)
	if result.Error != nil {
		return nil, result.Error
	}

	return installment, nil
}

func (i *LoanInstallment) MarkPaid(tx *gorm.DB, amount decimal.Decimal, at time.Time) error {
	i.PaidAmount = amount
	i.Status = InstallmentPaid
	i.PaidAt = sql.NullTime{Time: at, Valid: true}

	return tx.Save(&i).Error
}

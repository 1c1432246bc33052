package loan_service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/gateway"
	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/models/datatypes"
	"github.com/mutuoclub/mutuo/risk"
	"github.com/mutuoclub/mutuo/types"
)

type RequestResult struct {
	LoanID         int64           `json:"loan_id"`
	UUID           uuid.UUID       `json:"uuid"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	AutoApproved   bool            `json:"auto_approved"`
}

type GuarantorResult struct {
	Status       models.LoanStatus `json:"status"`
	AutoApproved bool              `json:"auto_approved"`
}

type RepayResult struct {
	Settled   bool            `json:"settled"`
	PaymentID string          `json:"payment_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

type InstallmentResult struct {
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Settled         bool            `json:"settled"`
	PaymentID       string          `json:"payment_id,omitempty"`
}

// RequestLoan runs the advisory pre-checks, then creates the loan and
// attempts auto-approval inside one atomic scope. Every limit checked
// before the scope is re-checked under lock before anything commits.
func RequestLoan(member *models.Member, amount decimal.Decimal, installments int32, collateral_pct decimal.Decimal, guarantor_id sql.NullInt64, legal_accepted bool) ledger.Result {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return ledger.Fail(ledger.NewError(ledger.KindValidation, "loan.request.invalid_amount"))
	}
	if installments < 1 || installments > config.MaxInstallments {
		return ledger.Fail(ledger.NewError(ledger.KindValidation, "loan.request.invalid_installments"))
	}
	if !legal_accepted {
		return ledger.Fail(ledger.NewError(ledger.KindValidation, "loan.request.legal_not_accepted"))
	}
	if guarantor_id.Valid && guarantor_id.Int64 == member.ID {
		return ledger.Fail(ledger.NewError(ledger.KindValidation, "loan.request.self_guarantor"))
	}

	// Advisory phase: cheap rejections outside the lock scope. Nothing
	// here is trusted by the commit path.
	if risk.FloodMarked(member.ID) {
		return ledger.Fail(ledger.LimitExceeded("risk.loan.cooldown"))
	}

	var state *models.SystemState
	config.DataBase.First(&state, "id = ?", 1)

	var promo decimal.NullDecimal
	if state != nil {
		promo = state.PromoRate
	}

	rate := InterestRate(collateral_pct, promo)
	total := TotalRepayment(amount, rate)

	quota_value := models.ActiveQuotaValue(config.DataBase, member.ID)
	if models.MemberLoanedPrincipal(config.DataBase, member.ID).Add(amount).GreaterThan(quota_value.Mul(config.LoanLimitMultiple)) {
		return ledger.Fail(ledger.LimitExceeded("loan.request.limit_exceeded"))
	}

	now := time.Now()

	var disbursement *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		member_ids := []int64{member.ID}
		if guarantor_id.Valid {
			member_ids = append(member_ids, guarantor_id.Int64)
		}

		balances_table, err := models.LockBalances(tx, member_ids...)
		if err != nil {
			return nil, err
		}

		if err := risk.CheckLoanFlood(tx, member.ID, now); err != nil {
			return nil, err
		}

		// Authoritative re-check: the advisory limit read above is stale
		// by definition.
		quota_value := models.ActiveQuotaValue(tx, member.ID)
		debt := models.MemberLoanedPrincipal(tx, member.ID)
		if debt.Add(amount).GreaterThan(quota_value.Mul(config.LoanLimitMultiple)) {
			return nil, ledger.LimitExceeded("loan.request.limit_exceeded")
		}

		status := models.LoanPending
		if guarantor_id.Valid {
			status = models.LoanWaitingGuarantor
		}

		loan := &models.Loan{
			MemberID:         member.ID,
			GuarantorID:      guarantor_id,
			Amount:           amount,
			ProtectionFee:    config.LoanProtectionFee,
			InterestRate:     rate,
			TotalRepayment:   total,
			InstallmentCount: installments,
			CollateralPct:    collateral_pct,
			CollateralValue:  quota_value.Mul(collateral_pct).RoundDown(2),
			LegalAccepted:    true,
			LegalAcceptedAt:  sql.NullTime{Time: now, Valid: true},
			Status:           status,
		}

		if err := tx.Create(loan).Error; err != nil {
			return nil, err
		}

		approved := false
		if loan.Status == models.LoanPending {
			approved, disbursement, err = attemptApproval(tx, loan, balances_table[member.ID], now)
			if err != nil {
				return nil, err
			}
		}

		return RequestResult{
			LoanID:         loan.ID,
			UUID:           loan.UUID,
			InterestRate:   rate,
			TotalRepayment: total,
			AutoApproved:   approved,
		}, nil
	})

	if result.Success {
		risk.MarkFlood(member.ID)
		models.PublishMetrics(disbursement)
	}

	return result
}

// attemptApproval transitions a PENDING loan to APPROVED and disburses
// when system liquidity covers it. The borrower balance row must already
// be locked by the caller.
func attemptApproval(tx *gorm.DB, loan *models.Loan, balance *models.Balance, now time.Time) (bool, *models.Transaction, error) {
	state, err := models.LockState(tx)
	if err != nil {
		return false, nil, err
	}

	liquidity := state.OperationalCash.Mul(config.LoanLiquidityShare).Sub(models.TotalLoanedPrincipal(tx))
	if loan.Amount.GreaterThan(liquidity) {
		return false, nil, nil
	}

	schedule := models.BuildSchedule(loan, now)
	for _, installment := range schedule {
		if err := tx.Create(installment).Error; err != nil {
			return false, nil, err
		}
	}

	loan.Status = models.LoanApproved
	loan.DisbursedAt = sql.NullTime{Time: now, Valid: true}
	loan.DueDate = sql.NullTime{Time: schedule[len(schedule)-1].DueDate, Valid: true}
	if err := tx.Save(loan).Error; err != nil {
		return false, nil, err
	}

	fee := loan.Amount.Mul(config.OriginationFeeRate).RoundDown(2)
	net := loan.Amount.Sub(fee)

	transaction := &models.Transaction{
		MemberID:    loan.MemberID,
		Type:        types.TxLoanDisburse,
		Amount:      net,
		Description: "loan.disbursement",
		Status:      models.TxCompleted,
		Metadata:    datatypes.ForLoanPayment(loan.ID, loan.Amount, decimal.Zero),
	}
	if err := tx.Create(transaction).Error; err != nil {
		return false, nil, err
	}

	reference := models.Reference{ID: transaction.ID, Type: "Transaction"}

	if err := state.ApplyDelta(tx, types.BucketOperationalCash, loan.Amount.Neg(), reference); err != nil {
		return false, nil, err
	}
	if err := state.ApplySplit(tx, ledger.SplitSystemShare(fee), reference); err != nil {
		return false, nil, err
	}

	if err := balance.PlusFunds(tx, net); err != nil {
		return false, nil, err
	}

	return true, transaction, nil
}

// guarantorGate checks that a member may resolve a loan as its guarantor.
// Run once on the unlocked read and again after the loan lock is taken.
func guarantorGate(loan *models.Loan, member_id int64) error {
	if !loan.GuarantorID.Valid || loan.GuarantorID.Int64 != member_id {
		return ledger.NotFound("loan.guarantor.not_found")
	}
	if loan.Status != models.LoanWaitingGuarantor {
		return ledger.InvalidState("loan.guarantor.not_waiting")
	}

	return nil
}

// RespondGuarantor resolves a WAITING_GUARANTOR loan: accept moves it to
// PENDING and re-attempts auto-approval, decline rejects it terminally.
func RespondGuarantor(member *models.Member, loan_id int64, approve bool) ledger.Result {
	now := time.Now()

	var disbursement *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		// Unlocked read to learn the borrower: balance rows are locked
		// before the loan row, same order as the repayment paths.
		var peek *models.Loan
		if err := tx.First(&peek, "id = ?", loan_id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ledger.NotFound("loan.not_found")
			}

			return nil, err
		}
		if err := guarantorGate(peek, member.ID); err != nil {
			return nil, err
		}

		balances_table, err := models.LockBalances(tx, peek.MemberID, member.ID)
		if err != nil {
			return nil, err
		}

		loan, err := models.LockLoan(tx, loan_id)
		if err != nil {
			return nil, err
		}
		if err := guarantorGate(loan, member.ID); err != nil {
			return nil, err
		}

		if !approve {
			loan.Status = models.LoanRejected
			if err := tx.Save(loan).Error; err != nil {
				return nil, err
			}

			return GuarantorResult{Status: loan.Status}, nil
		}

		loan.Status = models.LoanPending
		if err := tx.Save(loan).Error; err != nil {
			return nil, err
		}

		approved, transaction, err := attemptApproval(tx, loan, balances_table[loan.MemberID], now)
		if err != nil {
			return nil, err
		}
		disbursement = transaction

		return GuarantorResult{Status: loan.Status, AutoApproved: approved}, nil
	})

	if result.Success {
		models.PublishMetrics(disbursement)
	}

	return result
}

// RepayLoan settles the full outstanding balance, either from the member
// balance or through the external gateway.
func RepayLoan(member *models.Member, loan_id int64, use_balance bool, method types.PaymentMethod) ledger.Result {
	now := time.Now()

	if use_balance {
		var completed *models.Transaction

		result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
			balance, err := models.LockBalance(tx, member.ID)
			if err != nil {
				return nil, err
			}

			loan, err := lockMemberLoan(tx, member.ID, loan_id)
			if err != nil {
				return nil, err
			}
			if loan.Status != models.LoanApproved {
				return nil, ledger.InvalidState("loan.repay.not_repayable")
			}

			outstanding := loan.OutstandingAmount(tx)
			if !outstanding.IsPositive() {
				return nil, ledger.InvalidState("loan.repay.already_settled")
			}

			if err := balance.SubFunds(tx, outstanding); err != nil {
				return nil, err
			}

			transaction, err := settleOutstanding(tx, loan, outstanding, nil, now)
			if err != nil {
				return nil, err
			}
			completed = transaction

			return RepayResult{Settled: true, Amount: outstanding}, nil
		})

		if result.Success {
			models.PublishMetrics(completed)
		}

		return result
	}

	// Gateway path: the charge amount is advisory; the authoritative
	// outstanding is re-read under lock both here and at confirmation.
	var loan *models.Loan
	if err := config.DataBase.First(&loan, "id = ? AND member_id = ?", loan_id, member.ID).Error; err != nil {
		return ledger.Fail(ledger.NotFound("loan.not_found"))
	}
	if loan.Status != models.LoanApproved {
		return ledger.Fail(ledger.InvalidState("loan.repay.not_repayable"))
	}

	outstanding := loan.OutstandingAmount(config.DataBase)
	charge, err := gateway.Default.CreateCharge(member.UID, outstanding, "loan.repayment")
	if err != nil {
		return ledger.Fail(err)
	}

	return ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		loan, err := lockMemberLoan(tx, member.ID, loan_id)
		if err != nil {
			return nil, err
		}
		if loan.Status != models.LoanApproved {
			return nil, ledger.InvalidState("loan.repay.not_repayable")
		}

		outstanding := loan.OutstandingAmount(tx)
		if !outstanding.IsPositive() {
			return nil, ledger.InvalidState("loan.repay.already_settled")
		}

		transaction := &models.Transaction{
			MemberID:    member.ID,
			Type:        types.TxLoanRepayment,
			Amount:      outstanding.Neg(),
			Description: "loan.repayment",
			Status:      models.TxPending,
			PaymentID:   sql.NullString{String: charge.PaymentID, Valid: true},
			Metadata:    datatypes.ForLoanPayment(loan.ID, decimal.Zero, decimal.Zero),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return nil, err
		}

		loan.Status = models.LoanPaymentPending
		if err := tx.Save(loan).Error; err != nil {
			return nil, err
		}

		return RepayResult{Settled: false, PaymentID: charge.PaymentID, Amount: outstanding}, nil
	})
}

// ConfirmLoanRepayment completes a PAYMENT_PENDING loan once the gateway
// confirms the charge. A charge whose amount no longer matches the
// outstanding balance beyond tolerance is rejected and the loan returns
// to APPROVED; both outcomes commit.
func ConfirmLoanRepayment(payment_id string) ledger.Result {
	now := time.Now()

	var completed *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		transaction, err := models.LockTransactionByPayment(tx, payment_id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("payment.not_found")
		} else if err != nil {
			return nil, err
		}

		if transaction.Status != models.TxPending || transaction.Type != types.TxLoanRepayment || transaction.Metadata.LoanPayment == nil {
			return nil, ledger.InvalidState("payment.not_confirmable")
		}

		loan, err := models.LockLoan(tx, transaction.Metadata.LoanPayment.LoanID)
		if err != nil {
			return nil, err
		}
		if loan.Status != models.LoanPaymentPending {
			return nil, ledger.InvalidState("loan.repay.not_pending")
		}

		outstanding := loan.OutstandingAmount(tx)
		paid, err := SnapToRemaining(transaction.Amount.Neg(), outstanding, config.InstallmentTolerance)
		if err != nil {
			transaction.Status = models.TxRejected
			if save_err := tx.Save(transaction).Error; save_err != nil {
				return nil, save_err
			}

			loan.Status = models.LoanApproved
			if save_err := tx.Save(loan).Error; save_err != nil {
				return nil, save_err
			}

			return RepayResult{Settled: false, PaymentID: payment_id}, nil
		}

		if _, err := settleOutstanding(tx, loan, paid, transaction, now); err != nil {
			return nil, err
		}
		completed = transaction

		return RepayResult{Settled: true, PaymentID: payment_id, Amount: paid}, nil
	})

	if result.Success {
		models.PublishMetrics(completed)
	}

	return result
}

// RepayInstallment pays the earliest pending installment (or schedules a
// synthetic one) with tolerance snapping against the true remaining
// balance.
func RepayInstallment(member *models.Member, loan_id int64, amount decimal.Decimal, use_balance bool, method types.PaymentMethod) ledger.Result {
	now := time.Now()

	if use_balance {
		var completed *models.Transaction

		result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
			balance, err := models.LockBalance(tx, member.ID)
			if err != nil {
				return nil, err
			}

			loan, err := lockMemberLoan(tx, member.ID, loan_id)
			if err != nil {
				return nil, err
			}
			if loan.Status != models.LoanApproved {
				return nil, ledger.InvalidState("loan.repay.not_repayable")
			}

			paid, err := SnapToRemaining(amount, loan.OutstandingAmount(tx), config.InstallmentTolerance)
			if err != nil {
				return nil, err
			}

			if err := balance.SubFunds(tx, paid); err != nil {
				return nil, err
			}

			data, transaction, err := applyInstallmentPayment(tx, loan, paid, nil, now)
			if err != nil {
				return nil, err
			}
			completed = transaction

			return data, nil
		})

		if result.Success {
			models.PublishMetrics(completed)
		}

		return result
	}

	charge, err := gateway.Default.CreateCharge(member.UID, amount, "loan.installment")
	if err != nil {
		return ledger.Fail(err)
	}

	return ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		loan, err := lockMemberLoan(tx, member.ID, loan_id)
		if err != nil {
			return nil, err
		}
		if loan.Status != models.LoanApproved {
			return nil, ledger.InvalidState("loan.repay.not_repayable")
		}

		transaction := &models.Transaction{
			MemberID:    member.ID,
			Type:        types.TxInstallment,
			Amount:      amount.Neg(),
			Description: "loan.installment",
			Status:      models.TxPending,
			PaymentID:   sql.NullString{String: charge.PaymentID, Valid: true},
			Metadata:    datatypes.ForLoanPayment(loan.ID, decimal.Zero, decimal.Zero),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return nil, err
		}

		return InstallmentResult{PaidAmount: amount, RemainingAmount: loan.OutstandingAmount(tx), PaymentID: charge.PaymentID}, nil
	})
}

// ConfirmInstallmentPayment applies a gateway-confirmed installment
// charge.
func ConfirmInstallmentPayment(payment_id string) ledger.Result {
	now := time.Now()

	var completed *models.Transaction

	result := ledger.RunAtomic(func(tx *gorm.DB) (interface{}, error) {
		transaction, err := models.LockTransactionByPayment(tx, payment_id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.NotFound("payment.not_found")
		} else if err != nil {
			return nil, err
		}

		if transaction.Status != models.TxPending || transaction.Type != types.TxInstallment || transaction.Metadata.LoanPayment == nil {
			return nil, ledger.InvalidState("payment.not_confirmable")
		}

		loan, err := models.LockLoan(tx, transaction.Metadata.LoanPayment.LoanID)
		if err != nil {
			return nil, err
		}
		if loan.Status != models.LoanApproved {
			return nil, ledger.InvalidState("loan.repay.not_repayable")
		}

		paid, err := SnapToRemaining(transaction.Amount.Neg(), loan.OutstandingAmount(tx), config.InstallmentTolerance)
		if err != nil {
			transaction.Status = models.TxRejected
			if save_err := tx.Save(transaction).Error; save_err != nil {
				return nil, save_err
			}

			return InstallmentResult{PaidAmount: decimal.Zero, RemainingAmount: loan.OutstandingAmount(tx)}, nil
		}

		data, transaction, err := applyInstallmentPayment(tx, loan, paid, transaction, now)
		if err != nil {
			return nil, err
		}
		completed = transaction

		return data, nil
	})

	if result.Success {
		models.PublishMetrics(completed)
	}

	return result
}

func lockMemberLoan(tx *gorm.DB, member_id, loan_id int64) (*models.Loan, error) {
	loan, err := models.LockLoan(tx, loan_id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.NotFound("loan.not_found")
	} else if err != nil {
		return nil, err
	}

	if loan.MemberID != member_id {
		return nil, ledger.NotFound("loan.not_found")
	}

	return loan, nil
}

// settleOutstanding marks the loan PAID: synthetic final installment,
// principal back to operational cash, interest through the distribution
// engine, completed transaction, reputation award. An existing pending
// gateway transaction is completed in place; otherwise a new record is
// created.
func settleOutstanding(tx *gorm.DB, loan *models.Loan, outstanding decimal.Decimal, transaction *models.Transaction, now time.Time) (*models.Transaction, error) {
	var count int64
	tx.Model(&models.LoanInstallment{}).Where("loan_id = ?", loan.ID).Count(&count)

	installment := &models.LoanInstallment{
		LoanID:         loan.ID,
		Number:         int32(count) + 1,
		ExpectedAmount: outstanding,
		DueDate:        now,
		Status:         models.InstallmentPending,
	}
	if err := tx.Create(installment).Error; err != nil {
		return nil, err
	}
	if err := installment.MarkPaid(tx, outstanding, now); err != nil {
		return nil, err
	}

	principal, interest := SplitPayment(outstanding, loan.PrincipalRatio())

	if transaction == nil {
		transaction = &models.Transaction{
			MemberID:    loan.MemberID,
			Type:        types.TxLoanRepayment,
			Amount:      outstanding.Neg(),
			Description: "loan.repayment",
			Status:      models.TxCompleted,
			Metadata:    datatypes.ForLoanPayment(loan.ID, principal, interest),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return nil, err
		}
	} else {
		transaction.Status = models.TxCompleted
		transaction.Metadata = datatypes.ForLoanPayment(loan.ID, principal, interest)
		if err := tx.Save(transaction).Error; err != nil {
			return nil, err
		}
	}

	reference := models.Reference{ID: transaction.ID, Type: "Transaction"}

	state, err := models.LockState(tx)
	if err != nil {
		return nil, err
	}
	if err := state.ApplyDelta(tx, types.BucketOperationalCash, principal, reference); err != nil {
		return nil, err
	}
	if err := state.ApplySplit(tx, ledger.SplitLoanInterest(interest), reference); err != nil {
		return nil, err
	}

	loan.Status = models.LoanPaid
	if err := tx.Save(loan).Error; err != nil {
		return nil, err
	}

	return transaction, awardReputation(tx, loan.MemberID)
}

// applyInstallmentPayment books one snapped payment against the earliest
// pending installment and settles the loan when the remainder falls
// inside tolerance.
func applyInstallmentPayment(tx *gorm.DB, loan *models.Loan, paid decimal.Decimal, transaction *models.Transaction, now time.Time) (interface{}, *models.Transaction, error) {
	installment, err := models.NextPendingInstallment(tx, loan.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var count int64
		tx.Model(&models.LoanInstallment{}).Where("loan_id = ?", loan.ID).Count(&count)

		installment = &models.LoanInstallment{
			LoanID:         loan.ID,
			Number:         int32(count) + 1,
			ExpectedAmount: paid,
			DueDate:        now,
			Status:         models.InstallmentPending,
		}
		if err := tx.Create(installment).Error; err != nil {
			return nil, nil, err
		}
	} else if err != nil {
		return nil, nil, err
	}

	if err := installment.MarkPaid(tx, paid, now); err != nil {
		return nil, nil, err
	}

	principal, interest := SplitPayment(paid, loan.PrincipalRatio())

	if transaction == nil {
		transaction = &models.Transaction{
			MemberID:    loan.MemberID,
			Type:        types.TxInstallment,
			Amount:      paid.Neg(),
			Description: "loan.installment",
			Status:      models.TxCompleted,
			Metadata:    datatypes.ForLoanPayment(loan.ID, principal, interest),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return nil, nil, err
		}
	} else {
		transaction.Status = models.TxCompleted
		transaction.Metadata = datatypes.ForLoanPayment(loan.ID, principal, interest)
		if err := tx.Save(transaction).Error; err != nil {
			return nil, nil, err
		}
	}

	reference := models.Reference{ID: transaction.ID, Type: "Transaction"}

	state, err := models.LockState(tx)
	if err != nil {
		return nil, nil, err
	}
	if err := state.ApplyDelta(tx, types.BucketOperationalCash, principal, reference); err != nil {
		return nil, nil, err
	}
	if err := state.ApplySplit(tx, ledger.SplitLoanInterest(interest), reference); err != nil {
		return nil, nil, err
	}

	remaining := loan.OutstandingAmount(tx)
	settled := remaining.LessThanOrEqual(config.InstallmentTolerance)

	if settled {
		loan.Status = models.LoanPaid
		if err := tx.Save(loan).Error; err != nil {
			return nil, nil, err
		}
		if err := awardReputation(tx, loan.MemberID); err != nil {
			return nil, nil, err
		}
		remaining = decimal.Zero
	}

	return InstallmentResult{PaidAmount: paid, RemainingAmount: remaining, Settled: settled}, transaction, nil
}

func awardReputation(tx *gorm.DB, member_id int64) error {
	return tx.Model(&models.Member{}).
		Where("id = ?", member_id).
		UpdateColumn("reputation_score", gorm.Expr("reputation_score + 1")).Error
}

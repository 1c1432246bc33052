package loan_service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mutuoclub/mutuo/ledger"
	"github.com/mutuoclub/mutuo/models"
)

func waitingLoan() *models.Loan {
	return &models.Loan{
		MemberID:    1,
		GuarantorID: sql.NullInt64{Int64: 2, Valid: true},
		Status:      models.LoanWaitingGuarantor,
	}
}

func TestGuarantorGatePasses(t *testing.T) {
	assert.NoError(t, guarantorGate(waitingLoan(), 2))
}

func TestGuarantorGateRejectsOtherMember(t *testing.T) {
	err := guarantorGate(waitingLoan(), 3)

	assert.Equal(t, ledger.KindNotFound, ledger.KindOf(err))
}

func TestGuarantorGateRejectsMissingGuarantor(t *testing.T) {
	loan := waitingLoan()
	loan.GuarantorID = sql.NullInt64{}

	err := guarantorGate(loan, 2)

	assert.Equal(t, ledger.KindNotFound, ledger.KindOf(err))
}

// A loan resolved between the unlocked read and the loan lock must fail
// the second gate instead of being resolved twice.
func TestGuarantorGateRejectsResolvedLoan(t *testing.T) {
	for _, status := range []models.LoanStatus{models.LoanPending, models.LoanApproved, models.LoanRejected} {
		loan := waitingLoan()
		loan.Status = status

		err := guarantorGate(loan, 2)

		assert.Equal(t, ledger.KindInvalidState, ledger.KindOf(err))
	}
}

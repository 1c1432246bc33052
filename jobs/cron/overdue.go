package cron

import (
	"encoding/json"

	"github.com/jasonlvhit/gocron"

	"github.com/mutuoclub/mutuo/config"
	"github.com/mutuoclub/mutuo/models"
	"github.com/mutuoclub/mutuo/mq_client"
)

type OverdueJob struct {
}

func (j *OverdueJob) Process() {
	s := gocron.NewScheduler()
	s.Every(1).Day().At("01:00:00").Do(sweepOverdueInstallments)
	<-s.Start()
}

// sweepOverdueInstallments notifies members about installments past their
// due date. Nothing terminal happens here: the loan stays repayable and
// the penalty arithmetic lives in the repayment path.
func sweepOverdueInstallments() {
	var installments []*models.LoanInstallment

	config.DataBase.
		Where("status = ? AND due_date < NOW()", models.InstallmentPending).
		Order("loan_id asc, number asc").
		Find(&installments)

	notified := 0

	for _, installment := range installments {
		var loan *models.Loan
		if err := config.DataBase.First(&loan, "id = ?", installment.LoanID).Error; err != nil {
			continue
		}

		member := loan.Member()
		payload_message, _ := json.Marshal(map[string]interface{}{
			"loan_id":         loan.ID,
			"number":          installment.Number,
			"expected_amount": installment.ExpectedAmount,
			"due_date":        installment.DueDate,
		})

		mq_client.EnqueueEvent("private", member.UID, "installment_overdue", payload_message)
		notified++
	}

	if notified > 0 {
		config.Logger.Infof("Overdue sweep notified %d installments", notified)
	}
}

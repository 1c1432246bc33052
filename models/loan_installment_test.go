package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func buildLoan(total string, count int32) *Loan {
	amount, _ := decimal.NewFromString(total)

	return &Loan{ID: 1, TotalRepayment: amount, InstallmentCount: count}
}

func TestBuildScheduleSumsExactly(t *testing.T) {
	totals := []string{"1060.50", "333.33", "0.01", "999.99", "50.00"}
	counts := []int32{1, 3, 7, 12, 36}

	for _, total := range totals {
		for _, count := range counts {
			loan := buildLoan(total, count)
			schedule := BuildSchedule(loan, time.Now())

			sum := decimal.Zero
			for _, installment := range schedule {
				sum = sum.Add(installment.ExpectedAmount)
			}

			assert.Len(t, schedule, int(count))
			assert.True(t, sum.Equal(loan.TotalRepayment), "total %s over %d installments summed to %s", total, count, sum)
		}
	}
}

func TestBuildScheduleResidualOnLast(t *testing.T) {
	loan := buildLoan("100.00", 3)

	schedule := BuildSchedule(loan, time.Now())

	assert.True(t, schedule[0].ExpectedAmount.Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, schedule[1].ExpectedAmount.Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, schedule[2].ExpectedAmount.Equal(decimal.NewFromFloat(33.34)))
}

func TestBuildScheduleMonthlyDueDates(t *testing.T) {
	from := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	loan := buildLoan("300.00", 3)

	schedule := BuildSchedule(loan, from)

	assert.Equal(t, time.February, schedule[0].DueDate.Month())
	assert.Equal(t, time.March, schedule[1].DueDate.Month())
	assert.Equal(t, time.April, schedule[2].DueDate.Month())

	for i, installment := range schedule {
		assert.Equal(t, int32(i+1), installment.Number)
		assert.Equal(t, InstallmentPending, installment.Status)
	}
}

func TestBuildScheduleClampsZeroCount(t *testing.T) {
	loan := buildLoan("100.00", 0)

	schedule := BuildSchedule(loan, time.Now())

	assert.Len(t, schedule, 1)
	assert.True(t, schedule[0].ExpectedAmount.Equal(loan.TotalRepayment))
}

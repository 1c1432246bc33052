package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mutuoclub/mutuo/controllers/helpers"
	"github.com/mutuoclub/mutuo/types"
)

func TestTransactionFiltersAcceptKnownValues(t *testing.T) {
	errors := new(helpers.Errors)
	helpers.Vaildate(&TransactionFilters{Status: "completed", OrderBy: types.OrderByAsc}, errors)

	assert.Zero(t, errors.Size())
}

func TestTransactionFiltersRejectUnknownOrderBy(t *testing.T) {
	errors := new(helpers.Errors)
	helpers.Vaildate(&TransactionFilters{OrderBy: "asc; DROP TABLE transactions"}, errors)

	assert.NotZero(t, errors.Size())
	assert.Contains(t, errors.Errors, "account.transaction.invalid_order_by")
}

func TestTransactionFiltersRejectUnknownStatus(t *testing.T) {
	errors := new(helpers.Errors)
	helpers.Vaildate(&TransactionFilters{Status: "completed' OR 1=1"}, errors)

	assert.NotZero(t, errors.Size())
	assert.Contains(t, errors.Errors, "account.transaction.invalid_status")
}

func TestLoanFiltersRejectUnknownOrderBy(t *testing.T) {
	errors := new(helpers.Errors)
	helpers.Vaildate(&LoanFilters{OrderBy: "created_at; --"}, errors)

	assert.NotZero(t, errors.Size())
	assert.Contains(t, errors.Errors, "loan.invalid_order_by")
}

func TestLoanFiltersAcceptEmpty(t *testing.T) {
	errors := new(helpers.Errors)
	helpers.Vaildate(&LoanFilters{}, errors)

	assert.Zero(t, errors.Size())
}

package queries

import (
	"github.com/mutuoclub/mutuo/types"
)

type TransactionFilters struct {
	Type     types.TransactionType `query:"type"`
	Status   string                `query:"status" validate:"ValidateStatus"`
	Limit    int                   `query:"limit" validate:"uint"`
	Page     int                   `query:"page" validate:"uint"`
	TimeFrom int64                 `query:"time_from" validate:"uint"`
	TimeTo   int64                 `query:"time_to" validate:"uint"`
	OrderBy  types.OrderBy         `query:"order_by" validate:"ValidateOrderBy"`
}

func (t TransactionFilters) ValidateOrderBy(val types.OrderBy) bool {
	return len(val) == 0 || val == types.OrderByAsc || val == types.OrderByDesc
}

func (t TransactionFilters) ValidateStatus(val string) bool {
	switch val {
	case "", "pending", "completed", "rejected":
		return true
	}

	return false
}

func (t TransactionFilters) Messages() map[string]string {
	return map[string]string{
		"ValidateOrderBy": "account.transaction.invalid_order_by",
		"ValidateStatus":  "account.transaction.invalid_status",
		"uint":            "account.transaction.non_integer_{field}",
	}
}

type LoanFilters struct {
	Status  string        `query:"status" validate:"ValidateStatus"`
	Limit   int           `query:"limit" validate:"uint"`
	Page    int           `query:"page" validate:"uint"`
	OrderBy types.OrderBy `query:"order_by" validate:"ValidateOrderBy"`
}

func (t LoanFilters) ValidateOrderBy(val types.OrderBy) bool {
	return len(val) == 0 || val == types.OrderByAsc || val == types.OrderByDesc
}

func (t LoanFilters) ValidateStatus(val string) bool {
	switch val {
	case "", "pending", "waiting_guarantor", "approved", "rejected", "payment_pending", "paid":
		return true
	}

	return false
}

func (t LoanFilters) Messages() map[string]string {
	return map[string]string{
		"ValidateOrderBy": "loan.invalid_order_by",
		"ValidateStatus":  "loan.invalid_status",
		"uint":            "loan.non_integer_{field}",
	}
}

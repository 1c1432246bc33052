package helpers

import (
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/mutuoclub/mutuo/models/concerns"
	"github.com/mutuoclub/mutuo/types"
)

var precision_validator = concerns.PrecisionValidator{}

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Vaildate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}

type BuyQuotaParams struct {
	Quantity      int64               `json:"quantity" form:"quantity" validate:"required|VaildateQuantity"`
	PaymentMethod types.PaymentMethod `json:"payment_method" form:"payment_method" validate:"VaildateMethod"`
}

func (p BuyQuotaParams) Messages() map[string]string {
	return validate.MS{
		"required":         "quota.purchase.invalid_{field}",
		"VaildateQuantity": "quota.purchase.non_positive_quantity",
		"VaildateMethod":   "quota.purchase.invalid_payment_method",
	}
}

func (p BuyQuotaParams) VaildateQuantity(Quantity int64) bool {
	return Quantity > 0
}

func (p BuyQuotaParams) VaildateMethod(PaymentMethod types.PaymentMethod) bool {
	if len(PaymentMethod) == 0 {
		return true
	}

	return PaymentMethod == types.MethodBalance || PaymentMethod == types.MethodGateway
}

type LoanRequestParams struct {
	Amount        decimal.Decimal `json:"amount" form:"amount" validate:"required|VaildateAmount"`
	Installments  int32           `json:"installments" form:"installments" validate:"required|VaildateInstallments"`
	CollateralPct decimal.Decimal `json:"collateral_pct" form:"collateral_pct" validate:"VaildateCollateral"`
	GuarantorID   int64           `json:"guarantor_id" form:"guarantor_id"`
	LegalAccepted bool            `json:"legal_accepted" form:"legal_accepted"`
}

func (p LoanRequestParams) Messages() map[string]string {
	return validate.MS{
		"required":             "loan.request.invalid_{field}",
		"VaildateAmount":       "loan.request.non_positive_amount",
		"VaildateInstallments": "loan.request.invalid_installments",
		"VaildateCollateral":   "loan.request.invalid_collateral",
	}
}

func (p LoanRequestParams) VaildateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive() && precision_validator.LessThanOrEqTo(Amount, 2)
}

func (p LoanRequestParams) VaildateInstallments(Installments int32) bool {
	return Installments >= 1
}

func (p LoanRequestParams) VaildateCollateral(CollateralPct decimal.Decimal) bool {
	return !CollateralPct.IsNegative() && CollateralPct.LessThanOrEqual(decimal.NewFromInt(1))
}

type GuarantorParams struct {
	Approve bool `json:"approve" form:"approve"`
}

type RepayParams struct {
	PaymentMethod types.PaymentMethod `json:"payment_method" form:"payment_method" validate:"VaildateMethod"`
}

func (p RepayParams) Messages() map[string]string {
	return validate.MS{
		"VaildateMethod": "loan.repay.invalid_payment_method",
	}
}

func (p RepayParams) VaildateMethod(PaymentMethod types.PaymentMethod) bool {
	if len(PaymentMethod) == 0 {
		return true
	}

	return PaymentMethod == types.MethodBalance || PaymentMethod == types.MethodGateway
}

type InstallmentPaymentParams struct {
	Amount        decimal.Decimal     `json:"amount" form:"amount" validate:"required|VaildateAmount"`
	PaymentMethod types.PaymentMethod `json:"payment_method" form:"payment_method" validate:"VaildateMethod"`
}

func (p InstallmentPaymentParams) Messages() map[string]string {
	return validate.MS{
		"required":       "loan.installment.invalid_{field}",
		"VaildateAmount": "loan.installment.non_positive_amount",
		"VaildateMethod": "loan.installment.invalid_payment_method",
	}
}

func (p InstallmentPaymentParams) VaildateAmount(Amount decimal.Decimal) bool {
	return Amount.IsPositive() && precision_validator.LessThanOrEqTo(Amount, 2)
}

func (p InstallmentPaymentParams) VaildateMethod(PaymentMethod types.PaymentMethod) bool {
	if len(PaymentMethod) == 0 {
		return true
	}

	return PaymentMethod == types.MethodBalance || PaymentMethod == types.MethodGateway
}

type CreateListingParams struct {
	QuotaID int64           `json:"quota_id" form:"quota_id" validate:"required"`
	Price   decimal.Decimal `json:"price" form:"price" validate:"required|VaildatePrice"`
}

func (p CreateListingParams) Messages() map[string]string {
	return validate.MS{
		"required":      "marketplace.listing.invalid_{field}",
		"VaildatePrice": "marketplace.listing.non_positive_price",
	}
}

func (p CreateListingParams) VaildatePrice(Price decimal.Decimal) bool {
	return Price.IsPositive() && precision_validator.LessThanOrEqTo(Price, 2)
}

type GatewayWebhookParams struct {
	PaymentID string `json:"payment_id" form:"payment_id" validate:"required"`
	Status    string `json:"status" form:"status"`
}

func (p GatewayWebhookParams) Messages() map[string]string {
	return validate.MS{
		"required": "webhook.gateway.invalid_{field}",
	}
}

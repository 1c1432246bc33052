package types

type PaymentMethod = string

var (
	MethodBalance PaymentMethod = "balance"
	MethodGateway PaymentMethod = "gateway"
)

type TransactionType = string

var (
	TxQuotaPurchase   TransactionType = "quota_purchase"
	TxQuotaRedemption TransactionType = "quota_redemption"
	TxQuotaTransfer   TransactionType = "quota_transfer"
	TxLoanDisburse    TransactionType = "loan_disbursement"
	TxLoanRepayment   TransactionType = "loan_repayment"
	TxInstallment     TransactionType = "installment_payment"
	TxDividend        TransactionType = "dividend"
)

type ReserveBucket = string

var (
	BucketOperationalCash   ReserveBucket = "operational_cash"
	BucketProfitPool        ReserveBucket = "profit_pool"
	BucketInvestmentReserve ReserveBucket = "investment_reserve"
	BucketTaxReserve        ReserveBucket = "tax_reserve"
	BucketOperationalRes    ReserveBucket = "operational_reserve"
	BucketOwnerReserve      ReserveBucket = "owner_reserve"
	BucketCorporateReserve  ReserveBucket = "corporate_reserve"
)

type OrderBy = string

var (
	OrderByAsc  OrderBy = "asc"
	OrderByDesc OrderBy = "desc"
)

// Package domain defines the canonical models shared by every gateway family:
// accounts, cards, per-operation order inputs and the normalized response.
package domain

// TxType is the canonical transaction type. Each gateway translates it to its
// own wire token through its translation tables.
type TxType string

const (
	TxPay     TxType = "pay"
	TxPrePay  TxType = "pre"
	TxPostPay TxType = "post"
	TxCancel  TxType = "cancel"
	TxRefund  TxType = "refund"
	TxStatus  TxType = "status"
	TxHistory TxType = "history"
)

// Currency is the canonical ISO 4217 alpha code.
type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyJPY Currency = "JPY"
	CurrencyRUB Currency = "RUB"
)

// SecureModel selects the payment security flow for a transaction.
type SecureModel string

const (
	ModelNonSecure    SecureModel = "regular"
	Model3DSecure     SecureModel = "3d"
	Model3DPay        SecureModel = "3d_pay"
	Model3DPayHosting SecureModel = "3d_pay_hosting"
	Model3DHost       SecureModel = "3d_host"
)

// CardBrand is the canonical card scheme identifier.
type CardBrand string

const (
	BrandVisa       CardBrand = "visa"
	BrandMasterCard CardBrand = "master"
	BrandTroy       CardBrand = "troy"
	BrandAmex       CardBrand = "amex"
)

// RecurringUnit is the canonical recurring-frequency unit.
type RecurringUnit string

const (
	UnitDay   RecurringUnit = "DAY"
	UnitWeek  RecurringUnit = "WEEK"
	UnitMonth RecurringUnit = "MONTH"
	UnitYear  RecurringUnit = "YEAR"
)

// Status is the unified outcome vocabulary. Every gateway reports at least
// approved and declined; the remaining values refine "declined".
type Status string

const (
	StatusApproved            Status = "approved"
	StatusDeclined            Status = "declined"
	StatusBankCall            Status = "bank_call"
	StatusReject              Status = "reject"
	StatusTransactionNotFound Status = "transaction_not_found"
)

// Transaction security classifications derived from a gateway's 3-D Secure
// authentication status code.
const (
	Secure3DFull     = "Full 3D Secure"
	Secure3DHalf     = "Half 3D Secure"
	Secure3DFallback = "MPI fallback"
)

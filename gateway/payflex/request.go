// Package payflex maps canonical orders to the PayFlex V4 host-to-host wire
// format and PayFlex raw replies back to the canonical response.
package payflex

import (
	"strconv"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
)

var tables = gateway.Tables{
	TxTypes: map[domain.TxType]string{
		domain.TxPay:     "Sale",
		domain.TxPrePay:  "Auth",
		domain.TxPostPay: "Capture",
		domain.TxCancel:  "Cancel",
		domain.TxRefund:  "Refund",
		domain.TxStatus:  "status",
	},
	CardBrands: map[domain.CardBrand]string{
		domain.BrandVisa:       "100",
		domain.BrandMasterCard: "200",
		domain.BrandTroy:       "300",
		domain.BrandAmex:       "400",
	},
	Currencies: map[domain.Currency]string{
		domain.CurrencyTRY: "949",
		domain.CurrencyUSD: "840",
		domain.CurrencyEUR: "978",
		domain.CurrencyGBP: "826",
		domain.CurrencyJPY: "392",
		domain.CurrencyRUB: "643",
	},
	RecurringUnits: map[domain.RecurringUnit]string{
		domain.UnitDay:   "Day",
		domain.UnitMonth: "Month",
		domain.UnitYear:  "Year",
	},
}

// MapInstallment encodes the installment count the PayFlex way:
// 0 -> "0", 1 -> "0", 2 -> "2". Distinct from the EstPos policy on purpose.
func MapInstallment(installment int) string {
	if installment > 1 {
		return strconv.Itoa(installment)
	}
	return "0"
}

// RequestDataMapper builds PayFlex V4 request payloads. PayFlex receives its
// 3-D form data from a prior enrollment step, so no Crypt capability is
// consumed here.
type RequestDataMapper struct{}

func NewRequestDataMapper() *RequestDataMapper {
	return &RequestDataMapper{}
}

func (m *RequestDataMapper) NonSecurePaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, card *domain.Card) (gateway.RequestData, error) {
	if card == nil {
		return nil, domain.NewMissingRequiredInputError("card")
	}
	mappedTxType, err := tables.TxType(txType)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["OrderId"] = order.ID
	data["CurrencyAmount"] = gateway.FormatAmount(order.Amount)
	data["CurrencyCode"] = currency
	data["ClientIp"] = order.IP
	data["TransactionDeviceSource"] = "0"
	data["Pan"] = card.Number
	data["Expiry"] = card.ExpiryYYYYMM()
	data["Cvv"] = card.CVV
	return data, nil
}

// ThreeDPaymentRequest completes the payment with the enrollment proofs.
// PayFlex requires the card to be re-submitted alongside them.
func (m *RequestDataMapper) ThreeDPaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, auth *domain.ThreeDAuthResult, card *domain.Card) (gateway.RequestData, error) {
	if card == nil {
		return nil, domain.NewMissingRequiredInputError("card")
	}
	if auth == nil || auth.ECI == "" || auth.CAVV == "" || auth.TransactionID == "" {
		return nil, domain.NewMissingRequiredInputError("3-D Secure authentication result")
	}
	mappedTxType, err := tables.TxType(txType)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["TransactionId"] = order.ID
	data["CurrencyAmount"] = gateway.FormatAmount(order.Amount)
	data["CurrencyCode"] = currency
	data["ECI"] = auth.ECI
	data["CAVV"] = auth.CAVV
	data["MpiTransactionId"] = auth.TransactionID
	data["OrderId"] = order.ID
	data["ClientIp"] = order.IP
	data["TransactionDeviceSource"] = "0"
	data["CardHoldersName"] = card.HolderName
	data["Cvv"] = card.CVV
	data["Pan"] = card.Number
	data["Expiry"] = card.ExpiryYYYYMM()

	if order.Installment > 0 {
		data["NumberOfInstallments"] = MapInstallment(order.Installment)
	}
	return data, nil
}

func (m *RequestDataMapper) NonSecurePostAuthRequest(account *domain.Account, order *domain.PostAuthOrder) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(domain.TxPostPay)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["ReferenceTransactionId"] = order.ID
	data["CurrencyAmount"] = gateway.FormatAmount(order.Amount)
	data["CurrencyCode"] = currency
	data["ClientIp"] = order.IP
	return data, nil
}

func (m *RequestDataMapper) CancelRequest(account *domain.Account, order *domain.CancelOrder) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(domain.TxCancel)
	if err != nil {
		return nil, err
	}
	return gateway.RequestData{
		"MerchantId":             account.ClientID,
		"Password":               account.Password,
		"TransactionType":        mappedTxType,
		"ReferenceTransactionId": order.ID,
		"ClientIp":               order.IP,
	}, nil
}

func (m *RequestDataMapper) RefundRequest(account *domain.Account, order *domain.RefundOrder) (gateway.RequestData, error) {
	if order.Amount == nil {
		return nil, domain.NewMissingRequiredInputError("amount")
	}
	mappedTxType, err := tables.TxType(domain.TxRefund)
	if err != nil {
		return nil, err
	}
	return gateway.RequestData{
		"MerchantId":             account.ClientID,
		"Password":               account.Password,
		"TransactionType":        mappedTxType,
		"ReferenceTransactionId": order.ID,
		"ClientIp":               order.IP,
		"CurrencyAmount":         gateway.FormatAmount(*order.Amount),
	}, nil
}

// StatusRequest queries by order id. When both a transaction id and an order
// id are sent the gateway considers the transaction id, so only the order id
// is populated here.
func (m *RequestDataMapper) StatusRequest(account *domain.Account, order *domain.StatusOrder) (gateway.RequestData, error) {
	return gateway.RequestData{
		"MerchantCriteria": map[string]string{
			"HostMerchantId":   account.ClientID,
			"MerchantPassword": account.Password,
		},
		"TransactionCriteria": map[string]string{
			"TransactionId": "",
			"OrderId":       order.ID,
			"AuthCode":      "",
		},
	}, nil
}

func (m *RequestDataMapper) HistoryRequest(account *domain.Account, order *domain.HistoryOrder) (gateway.RequestData, error) {
	return nil, domain.NewNotImplementedError("history query")
}

// ThreeDEnrollmentRequest builds the enrollment/lookup payload that starts
// the 3-D Secure handshake, separate from the final payment request.
func (m *RequestDataMapper) ThreeDEnrollmentRequest(account *domain.Account, order *domain.PaymentOrder, card *domain.Card) (gateway.RequestData, error) {
	if card == nil {
		return nil, domain.NewMissingRequiredInputError("card")
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}
	brand, err := tables.CardBrand(card.Brand)
	if err != nil {
		return nil, err
	}

	data := gateway.RequestData{
		"MerchantId":                account.ClientID,
		"MerchantPassword":          account.Password,
		"MerchantType":              account.MerchantType,
		"PurchaseAmount":            gateway.FormatAmount(order.Amount),
		"VerifyEnrollmentRequestId": order.Rand,
		"Currency":                  currency,
		"SuccessUrl":                order.SuccessURL,
		"FailureUrl":                order.FailURL,
		"Pan":                       card.Number,
		"ExpiryDate":                card.ExpiryYYMM(),
		"BrandName":                 brand,
		"IsRecurring":               "false",
	}
	if order.Installment > 0 {
		data["InstallmentCount"] = MapInstallment(order.Installment)
	}
	if account.IsSubBranch() {
		data["SubMerchantId"] = account.SubMerchantID
	}
	if order.Recurring != nil {
		if err := m.appendRecurringData(data, order.Recurring); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// ThreeDFormData repackages the PaReq/TermUrl/MD/ACSUrl bundle the enrollment
// step returned. Pure pass-through; no hash is computed locally.
func (m *RequestDataMapper) ThreeDFormData(account *domain.Account, order *domain.PaymentOrder, model domain.SecureModel, txType domain.TxType, gatewayURL string, card *domain.Card, enrollment *domain.EnrollmentResult) (*gateway.FormData, error) {
	if enrollment == nil {
		return nil, domain.NewMissingRequiredInputError("enrollment result")
	}
	return &gateway.FormData{
		Gateway: enrollment.ACSURL,
		Method:  "POST",
		Fields: []gateway.FormField{
			{Key: "PaReq", Value: enrollment.PaReq},
			{Key: "TermUrl", Value: enrollment.TermURL},
			{Key: "MD", Value: enrollment.MD},
		},
	}, nil
}

func (m *RequestDataMapper) accountData(account *domain.Account) gateway.RequestData {
	return gateway.RequestData{
		"MerchantId": account.ClientID,
		"Password":   account.Password,
		"TerminalNo": account.TerminalID,
	}
}

func (m *RequestDataMapper) appendRecurringData(data gateway.RequestData, recurring *domain.RecurringOrder) error {
	unit, err := tables.RecurringUnit(recurring.FrequencyUnit)
	if err != nil {
		return err
	}
	data["IsRecurring"] = "true"
	data["RecurringFrequency"] = strconv.Itoa(recurring.Frequency)
	data["RecurringFrequencyType"] = unit
	data["RecurringInstallmentCount"] = strconv.Itoa(recurring.InstallmentCount)
	if recurring.EndDate != nil {
		// The ACS rejects the transaction when this date exceeds the card
		// expiry.
		data["RecurringEndDate"] = recurring.EndDate.Format("20060102")
	}
	return nil
}

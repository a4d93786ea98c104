// Package posnet maps canonical orders to the PosNet V1 JSON wire format and
// PosNet raw replies back to the canonical response. PosNet is a minor-unit
// gateway: amounts travel as integer kuruş strings.
package posnet

import (
	"strconv"
	"strings"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
)

// orderIDLength is the fixed width PosNet expects; shorter ids are left
// padded with zeros.
const orderIDLength = 24

var tables = gateway.Tables{
	TxTypes: map[domain.TxType]string{
		domain.TxPay:     "Sale",
		domain.TxPrePay:  "Auth",
		domain.TxPostPay: "Capt",
		domain.TxCancel:  "Reverse",
		domain.TxRefund:  "Return",
		domain.TxStatus:  "TransactionInquiry",
	},
	Currencies: map[domain.Currency]string{
		domain.CurrencyTRY: "TL",
		domain.CurrencyUSD: "US",
		domain.CurrencyEUR: "EU",
		domain.CurrencyGBP: "GB",
		domain.CurrencyJPY: "JP",
		domain.CurrencyRUB: "RU",
	},
}

// MapInstallment encodes the installment count the PosNet way:
// 0 -> "0", 1 -> "0", 2 -> "2".
func MapInstallment(installment int) string {
	if installment > 1 {
		return strconv.Itoa(installment)
	}
	return "0"
}

// FormatOrderID left-pads an order id to the fixed width PosNet requires.
func FormatOrderID(id string) string {
	if len(id) >= orderIDLength {
		return id
	}
	return strings.Repeat("0", orderIDLength-len(id)) + id
}

// RequestDataMapper builds PosNet V1 request payloads. The Crypt capability
// computes the MAC attached to 3-D form data.
type RequestDataMapper struct {
	crypt gateway.Crypt
}

func NewRequestDataMapper(crypt gateway.Crypt) *RequestDataMapper {
	return &RequestDataMapper{crypt: crypt}
}

func (m *RequestDataMapper) NonSecurePaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, card *domain.Card) (gateway.RequestData, error) {
	if card == nil {
		return nil, domain.NewMissingRequiredInputError("card")
	}

	data, err := m.paymentEnvelope(account, order, txType)
	if err != nil {
		return nil, err
	}
	data["CardInformationData"] = map[string]string{
		"CardNo":         card.Number,
		"ExpireDate":     card.ExpiryYYMM(),
		"Ccv2":           card.CVV,
		"CardHolderName": card.HolderName,
	}
	return data, nil
}

func (m *RequestDataMapper) ThreeDPaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, auth *domain.ThreeDAuthResult, card *domain.Card) (gateway.RequestData, error) {
	if auth == nil || auth.ECI == "" || auth.CAVV == "" || auth.TransactionID == "" {
		return nil, domain.NewMissingRequiredInputError("3-D Secure authentication result")
	}

	data, err := m.paymentEnvelope(account, order, txType)
	if err != nil {
		return nil, err
	}
	data["ThreeDSecureData"] = map[string]string{
		"SecureTransactionId": auth.TransactionID,
		"Eci":                 auth.ECI,
		"CavvData":            auth.CAVV,
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
	data["ReferenceCode"] = order.ID
	data["Amount"] = gateway.FormatMinorUnits(order.Amount)
	data["CurrencyCode"] = currency
	return data, nil
}

func (m *RequestDataMapper) CancelRequest(account *domain.Account, order *domain.CancelOrder) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(domain.TxCancel)
	if err != nil {
		return nil, err
	}
	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["ReferenceCode"] = order.ID
	return data, nil
}

// RefundRequest refunds by reference code. The amount travels only for
// partial refunds; an absent amount means the full transaction amount.
func (m *RequestDataMapper) RefundRequest(account *domain.Account, order *domain.RefundOrder) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(domain.TxRefund)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["ReferenceCode"] = order.ID
	data["CurrencyCode"] = currency
	if order.Amount != nil {
		data["Amount"] = gateway.FormatMinorUnits(*order.Amount)
	}
	return data, nil
}

func (m *RequestDataMapper) StatusRequest(account *domain.Account, order *domain.StatusOrder) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(domain.TxStatus)
	if err != nil {
		return nil, err
	}
	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["OrderId"] = FormatOrderID(order.ID)
	return data, nil
}

func (m *RequestDataMapper) HistoryRequest(account *domain.Account, order *domain.HistoryOrder) (gateway.RequestData, error) {
	return nil, domain.NewNotImplementedError("history query")
}

func (m *RequestDataMapper) ThreeDEnrollmentRequest(account *domain.Account, order *domain.PaymentOrder, card *domain.Card) (gateway.RequestData, error) {
	return nil, domain.NewNotImplementedError("3-D enrollment check")
}

// ThreeDFormData builds the OOS redirect form. The MAC the bank verifies is
// computed by the injected Crypt over the field values being sent.
func (m *RequestDataMapper) ThreeDFormData(account *domain.Account, order *domain.PaymentOrder, model domain.SecureModel, txType domain.TxType, gatewayURL string, card *domain.Card, _ *domain.EnrollmentResult) (*gateway.FormData, error) {
	mappedTxType, err := tables.TxType(txType)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	fields := []gateway.FormField{
		{Key: "MerchantNo", Value: account.ClientID},
		{Key: "TerminalNo", Value: account.TerminalID},
		{Key: "TransactionType", Value: mappedTxType},
		{Key: "OrderId", Value: FormatOrderID(order.ID)},
		{Key: "Amount", Value: gateway.FormatMinorUnits(order.Amount)},
		{Key: "CurrencyCode", Value: currency},
		{Key: "InstallmentCount", Value: MapInstallment(order.Installment)},
		{Key: "MerchantReturnURL", Value: order.SuccessURL},
	}

	if card != nil {
		fields = append(fields,
			gateway.FormField{Key: "CardNo", Value: card.Number},
			gateway.FormField{Key: "ExpiredDate", Value: card.ExpiryYYMM()},
			gateway.FormField{Key: "Cvv", Value: card.CVV},
			gateway.FormField{Key: "CardHolderName", Value: card.HolderName},
		)
	}

	mac, err := m.crypt.ComputeThreeDHash(account, order, mappedTxType)
	if err != nil {
		return nil, err
	}
	fields = append(fields, gateway.FormField{Key: "Mac", Value: mac})

	return &gateway.FormData{
		Gateway: gatewayURL,
		Method:  "POST",
		Fields:  fields,
	}, nil
}

func (m *RequestDataMapper) paymentEnvelope(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(txType)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	installmentType := "N"
	if order.Installment > 1 {
		installmentType = "Y"
	}

	data := m.accountData(account)
	data["TransactionType"] = mappedTxType
	data["OrderId"] = FormatOrderID(order.ID)
	data["Amount"] = gateway.FormatMinorUnits(order.Amount)
	data["CurrencyCode"] = currency
	data["InstallmentCount"] = MapInstallment(order.Installment)
	data["InstallmentType"] = installmentType
	return data, nil
}

func (m *RequestDataMapper) accountData(account *domain.Account) gateway.RequestData {
	return gateway.RequestData{
		"ApiType":    "JSON",
		"MerchantNo": account.ClientID,
		"TerminalNo": account.TerminalID,
	}
}

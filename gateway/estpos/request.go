// Package estpos maps canonical orders to the EstPos gateway wire format and
// EstPos raw replies back to the canonical response.
package estpos

import (
	"strconv"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
)

var tables = gateway.Tables{
	TxTypes: map[domain.TxType]string{
		domain.TxPay:     "Auth",
		domain.TxPrePay:  "PreAuth",
		domain.TxPostPay: "PostAuth",
		domain.TxCancel:  "Void",
		domain.TxRefund:  "Credit",
		domain.TxStatus:  "ORDERSTATUS",
		domain.TxHistory: "ORDERHISTORY",
	},
	CardBrands: map[domain.CardBrand]string{
		domain.BrandVisa:       "1",
		domain.BrandMasterCard: "2",
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
		domain.UnitDay:   "D",
		domain.UnitWeek:  "W",
		domain.UnitMonth: "M",
		domain.UnitYear:  "Y",
	},
	SecureModels: map[domain.SecureModel]string{
		domain.ModelNonSecure:    "regular",
		domain.Model3DSecure:     "3d",
		domain.Model3DPay:        "3d_pay",
		domain.Model3DPayHosting: "3d_pay_hosting",
		domain.Model3DHost:       "3d_host",
	},
}

// MapInstallment encodes the installment count the EstPos way:
// 0 -> "", 1 -> "", 2 -> "2".
func MapInstallment(installment int) string {
	if installment > 1 {
		return strconv.Itoa(installment)
	}
	return ""
}

// RequestDataMapper builds EstPos request payloads. The Crypt capability is
// injected and only used for 3-D form hashes.
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
	data["Number"] = card.Number
	data["Expires"] = card.ExpiryMMYY()
	data["Cvv2Val"] = card.CVV
	data["BillTo"] = map[string]string{"Name": order.Name}

	if err := m.appendRecurringData(data, order); err != nil {
		return nil, err
	}
	return data, nil
}

func (m *RequestDataMapper) ThreeDPaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, auth *domain.ThreeDAuthResult, card *domain.Card) (gateway.RequestData, error) {
	if auth == nil || auth.MD == "" || auth.ECI == "" || auth.CAVV == "" || auth.TransactionID == "" {
		return nil, domain.NewMissingRequiredInputError("3-D Secure authentication result")
	}

	data, err := m.paymentEnvelope(account, order, txType)
	if err != nil {
		return nil, err
	}
	data["Number"] = auth.MD
	data["PayerTxnId"] = auth.TransactionID
	data["PayerSecurityLevel"] = auth.ECI
	data["PayerAuthenticationCode"] = auth.CAVV
	if order.Name != "" {
		data["BillTo"] = map[string]string{"Name": order.Name}
	}

	if err := m.appendRecurringData(data, order); err != nil {
		return nil, err
	}
	return data, nil
}

func (m *RequestDataMapper) NonSecurePostAuthRequest(account *domain.Account, order *domain.PostAuthOrder) (gateway.RequestData, error) {
	txType, err := tables.TxType(domain.TxPostPay)
	if err != nil {
		return nil, err
	}
	data := m.accountData(account)
	data["Type"] = txType
	data["OrderId"] = order.ID
	return data, nil
}

// CancelRequest voids a whole order, or a single pending installment of a
// recurring series when the order carries an installment number. The two
// shapes differ structurally and are both preserved.
func (m *RequestDataMapper) CancelRequest(account *domain.Account, order *domain.CancelOrder) (gateway.RequestData, error) {
	data := m.accountData(account)

	if order.RecurringInstallmentNumber > 0 {
		// Cancels only the pending installment; fulfilled transactions of
		// the series are untouched. Installment order ids follow the
		// "{orderId}-{n}" convention of the gateway.
		data["Extra"] = map[string]string{
			"RECORDTYPE":         "Order",
			"RECURRINGOPERATION": "Cancel",
			"RECORDID":           order.ID + "-" + strconv.Itoa(order.RecurringInstallmentNumber),
		}
		return data, nil
	}

	txType, err := tables.TxType(domain.TxCancel)
	if err != nil {
		return nil, err
	}
	data["OrderId"] = order.ID
	data["Type"] = txType
	return data, nil
}

// RefundRequest refunds an order. The amount is emitted only for partial
// refunds; leaving it out tells the gateway to refund the full amount.
func (m *RequestDataMapper) RefundRequest(account *domain.Account, order *domain.RefundOrder) (gateway.RequestData, error) {
	txType, err := tables.TxType(domain.TxRefund)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	data := m.accountData(account)
	data["OrderId"] = order.ID
	data["Currency"] = currency
	data["Type"] = txType
	if order.Amount != nil {
		data["Total"] = gateway.FormatAmount(*order.Amount)
	}
	return data, nil
}

// StatusRequest queries by order id, falling back to the recurring-series id
// only when no order id is present.
func (m *RequestDataMapper) StatusRequest(account *domain.Account, order *domain.StatusOrder) (gateway.RequestData, error) {
	txType, err := tables.TxType(domain.TxStatus)
	if err != nil {
		return nil, err
	}

	extra := map[string]string{txType: "QUERY"}
	data := m.accountData(account)
	data["Extra"] = extra

	if order.ID != "" {
		data["OrderId"] = order.ID
	} else if order.RecurringID != "" {
		extra["RECURRINGID"] = order.RecurringID
	}
	return data, nil
}

func (m *RequestDataMapper) HistoryRequest(account *domain.Account, order *domain.HistoryOrder) (gateway.RequestData, error) {
	txType, err := tables.TxType(domain.TxHistory)
	if err != nil {
		return nil, err
	}
	data := m.accountData(account)
	data["OrderId"] = order.ID
	data["Extra"] = map[string]string{txType: "QUERY"}
	return data, nil
}

func (m *RequestDataMapper) ThreeDEnrollmentRequest(account *domain.Account, order *domain.PaymentOrder, card *domain.Card) (gateway.RequestData, error) {
	return nil, domain.NewNotImplementedError("3-D enrollment check")
}

// ThreeDFormData builds the redirect form and attaches the authentication
// hash the bank verifies. The hash covers the exact field values below, so
// their order must stay stable.
func (m *RequestDataMapper) ThreeDFormData(account *domain.Account, order *domain.PaymentOrder, model domain.SecureModel, txType domain.TxType, gatewayURL string, card *domain.Card, _ *domain.EnrollmentResult) (*gateway.FormData, error) {
	storeType, err := tables.SecureModel(model)
	if err != nil {
		return nil, err
	}
	mappedTxType, err := tables.TxType(txType)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	fields := []gateway.FormField{
		{Key: "clientid", Value: account.ClientID},
		{Key: "storetype", Value: storeType},
		{Key: "amount", Value: gateway.FormatAmount(order.Amount)},
		{Key: "oid", Value: order.ID},
		{Key: "okUrl", Value: order.SuccessURL},
		{Key: "failUrl", Value: order.FailURL},
		{Key: "rnd", Value: order.Rand},
		{Key: "lang", Value: m.lang(account, order)},
		{Key: "currency", Value: currency},
		{Key: "taksit", Value: MapInstallment(order.Installment)},
		{Key: "islemtipi", Value: mappedTxType},
		{Key: "firmaadi", Value: order.Name},
		{Key: "Email", Value: order.Email},
	}

	if card != nil {
		brand, err := tables.CardBrand(card.Brand)
		if err != nil {
			return nil, err
		}
		fields = append(fields,
			gateway.FormField{Key: "cardType", Value: brand},
			gateway.FormField{Key: "pan", Value: card.Number},
			gateway.FormField{Key: "Ecom_Payment_Card_ExpDate_Month", Value: card.ExpiryMonth()},
			gateway.FormField{Key: "Ecom_Payment_Card_ExpDate_Year", Value: card.ExpiryYearShort()},
			gateway.FormField{Key: "cv2", Value: card.CVV},
		)
	}

	hash, err := m.crypt.ComputeThreeDHash(account, order, mappedTxType)
	if err != nil {
		return nil, err
	}
	fields = append(fields, gateway.FormField{Key: "hash", Value: hash})

	return &gateway.FormData{
		Gateway: gatewayURL,
		Method:  "POST",
		Fields:  fields,
	}, nil
}

// paymentEnvelope is the field set shared by non-secure and 3-D payment
// requests.
func (m *RequestDataMapper) paymentEnvelope(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType) (gateway.RequestData, error) {
	mappedTxType, err := tables.TxType(txType)
	if err != nil {
		return nil, err
	}
	currency, err := tables.Currency(order.Currency)
	if err != nil {
		return nil, err
	}

	data := m.accountData(account)
	data["Type"] = mappedTxType
	data["IPAddress"] = order.IP
	data["Email"] = order.Email
	data["OrderId"] = order.ID
	data["UserId"] = order.UserID
	data["Total"] = gateway.FormatAmount(order.Amount)
	data["Currency"] = currency
	data["Taksit"] = MapInstallment(order.Installment)
	data["Mode"] = "P"
	return data, nil
}

func (m *RequestDataMapper) accountData(account *domain.Account) gateway.RequestData {
	return gateway.RequestData{
		"Name":     account.Username,
		"Password": account.Password,
		"ClientId": account.ClientID,
	}
}

func (m *RequestDataMapper) appendRecurringData(data gateway.RequestData, order *domain.PaymentOrder) error {
	if order.Recurring == nil {
		return nil
	}
	unit, err := tables.RecurringUnit(order.Recurring.FrequencyUnit)
	if err != nil {
		return err
	}
	data["PbOrder"] = map[string]string{
		"OrderType":              "0",
		"OrderFrequencyInterval": strconv.Itoa(order.Recurring.Frequency),
		"OrderFrequencyCycle":    unit,
		"TotalNumberPayments":    strconv.Itoa(order.Recurring.InstallmentCount),
	}
	return nil
}

func (m *RequestDataMapper) lang(account *domain.Account, order *domain.PaymentOrder) string {
	if order.Lang != "" {
		return order.Lang
	}
	if account.Lang != "" {
		return account.Lang
	}
	return "tr"
}

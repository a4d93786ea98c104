package estpos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
	"github.com/finpays/posbridge/gateway/estpos"
)

type stubCrypt struct {
	hash string
	err  error
}

func (s *stubCrypt) ComputeThreeDHash(account *domain.Account, order *domain.PaymentOrder, txType string) (string, error) {
	return s.hash, s.err
}

func testAccount() *domain.Account {
	return &domain.Account{
		Bank:     "akbank",
		ClientID: "700655000200",
		Username: "ISBANKAPI",
		Password: "ISBANK07",
		Model:    domain.Model3DSecure,
	}
}

func testCard() *domain.Card {
	return &domain.Card{
		Number:      "5555444433332222",
		ExpireMonth: 1,
		ExpireYear:  2022,
		CVV:         "122",
		HolderName:  "siipsah",
		Brand:       domain.BrandVisa,
	}
}

func testPaymentOrder() *domain.PaymentOrder {
	return &domain.PaymentOrder{
		ID:         "order222",
		Amount:     100.25,
		Currency:   domain.CurrencyTRY,
		IP:         "127.0.0.1",
		Email:      "test@test.com",
		Name:       "siparis veren",
		UserID:     "u-1",
		SuccessURL: "https://domain.com/success",
		FailURL:    "https://domain.com/fail_url",
		Rand:       "rand-123",
	}
}

func TestMapInstallment(t *testing.T) {
	tests := []struct {
		installment int
		expected    string
	}{
		{0, ""},
		{1, ""},
		{2, "2"},
		{5, "5"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, estpos.MapInstallment(tt.installment))
	}
}

func TestNonSecurePaymentRequest(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.NonSecurePaymentRequest(testAccount(), testPaymentOrder(), domain.TxPay, testCard())
	require.NoError(t, err)

	assert.Equal(t, "ISBANKAPI", data["Name"])
	assert.Equal(t, "ISBANK07", data["Password"])
	assert.Equal(t, "700655000200", data["ClientId"])
	assert.Equal(t, "Auth", data["Type"])
	assert.Equal(t, "127.0.0.1", data["IPAddress"])
	assert.Equal(t, "order222", data["OrderId"])
	assert.Equal(t, "100.25", data["Total"])
	assert.Equal(t, "949", data["Currency"])
	assert.Equal(t, "", data["Taksit"])
	assert.Equal(t, "5555444433332222", data["Number"])
	assert.Equal(t, "01/22", data["Expires"])
	assert.Equal(t, "122", data["Cvv2Val"])
	assert.Equal(t, "P", data["Mode"])
	assert.Equal(t, map[string]string{"Name": "siparis veren"}, data["BillTo"])
	assert.NotContains(t, data, "PbOrder")
}

func TestNonSecurePaymentRequest_MissingCard(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	_, err := mapper.NonSecurePaymentRequest(testAccount(), testPaymentOrder(), domain.TxPay, nil)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredInput))
}

func TestNonSecurePaymentRequest_Recurring(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})
	order := testPaymentOrder()
	order.Recurring = &domain.RecurringOrder{
		Frequency:        3,
		FrequencyUnit:    domain.UnitMonth,
		InstallmentCount: 4,
	}

	data, err := mapper.NonSecurePaymentRequest(testAccount(), order, domain.TxPay, testCard())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"OrderType":              "0",
		"OrderFrequencyInterval": "3",
		"OrderFrequencyCycle":    "M",
		"TotalNumberPayments":    "4",
	}, data["PbOrder"])
	// the augmentation must not remove non-recurring fields
	assert.Equal(t, "Auth", data["Type"])
	assert.Equal(t, "5555444433332222", data["Number"])
}

func TestThreeDPaymentRequest(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})
	auth := &domain.ThreeDAuthResult{
		ECI:           "05",
		CAVV:          "AAABBBCCC=",
		TransactionID: "xid-0001",
		MD:            "md-payload",
	}

	data, err := mapper.ThreeDPaymentRequest(testAccount(), testPaymentOrder(), domain.TxPay, auth, nil)
	require.NoError(t, err)

	assert.Equal(t, "md-payload", data["Number"])
	assert.Equal(t, "xid-0001", data["PayerTxnId"])
	assert.Equal(t, "05", data["PayerSecurityLevel"])
	assert.Equal(t, "AAABBBCCC=", data["PayerAuthenticationCode"])
	assert.Equal(t, "Auth", data["Type"])
}

func TestThreeDPaymentRequest_MissingAuth(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	tests := []*domain.ThreeDAuthResult{
		nil,
		{ECI: "05", CAVV: "AAA", TransactionID: "xid"}, // no MD
		{MD: "md", CAVV: "AAA", TransactionID: "xid"},  // no ECI
		{MD: "md", ECI: "05", TransactionID: "xid"},    // no CAVV
		{MD: "md", ECI: "05", CAVV: "AAA"},             // no transaction id
	}

	for _, auth := range tests {
		_, err := mapper.ThreeDPaymentRequest(testAccount(), testPaymentOrder(), domain.TxPay, auth, nil)
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredInput))
	}
}

func TestNonSecurePostAuthRequest(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.NonSecurePostAuthRequest(testAccount(), &domain.PostAuthOrder{
		ID:       "order222",
		Amount:   100.25,
		Currency: domain.CurrencyTRY,
	})
	require.NoError(t, err)

	assert.Equal(t, "PostAuth", data["Type"])
	assert.Equal(t, "order222", data["OrderId"])
}

func TestCancelRequest_FullOrder(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.CancelRequest(testAccount(), &domain.CancelOrder{ID: "order222"})
	require.NoError(t, err)

	assert.Equal(t, "order222", data["OrderId"])
	assert.Equal(t, "Void", data["Type"])
	assert.NotContains(t, data, "Extra")
}

func TestCancelRequest_SingleRecurringInstallment(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.CancelRequest(testAccount(), &domain.CancelOrder{
		ID:                         "202210121ABC",
		RecurringInstallmentNumber: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"RECORDTYPE":         "Order",
		"RECURRINGOPERATION": "Cancel",
		"RECORDID":           "202210121ABC-3",
	}, data["Extra"])
	assert.NotContains(t, data, "OrderId")
	assert.NotContains(t, data, "Type")
}

func TestRefundRequest(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	// full refund: no amount field at all
	data, err := mapper.RefundRequest(testAccount(), &domain.RefundOrder{
		ID:       "order222",
		Currency: domain.CurrencyTRY,
	})
	require.NoError(t, err)
	assert.Equal(t, "Credit", data["Type"])
	assert.Equal(t, "949", data["Currency"])
	assert.NotContains(t, data, "Total")

	// partial refund
	amount := 5.0
	data, err = mapper.RefundRequest(testAccount(), &domain.RefundOrder{
		ID:       "order222",
		Currency: domain.CurrencyTRY,
		Amount:   &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", data["Total"])
}

func TestStatusRequest_OrderIDTakesPrecedence(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.StatusRequest(testAccount(), &domain.StatusOrder{
		ID:          "order222",
		RecurringID: "series-9",
	})
	require.NoError(t, err)

	assert.Equal(t, "order222", data["OrderId"])
	extra := data["Extra"].(map[string]string)
	assert.Equal(t, "QUERY", extra["ORDERSTATUS"])
	assert.NotContains(t, extra, "RECURRINGID")
}

func TestStatusRequest_RecurringID(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.StatusRequest(testAccount(), &domain.StatusOrder{RecurringID: "series-9"})
	require.NoError(t, err)

	assert.NotContains(t, data, "OrderId")
	extra := data["Extra"].(map[string]string)
	assert.Equal(t, "series-9", extra["RECURRINGID"])
}

func TestHistoryRequest(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	data, err := mapper.HistoryRequest(testAccount(), &domain.HistoryOrder{ID: "order222"})
	require.NoError(t, err)

	assert.Equal(t, "order222", data["OrderId"])
	assert.Equal(t, map[string]string{"ORDERHISTORY": "QUERY"}, data["Extra"])
}

func TestThreeDEnrollmentRequest_NotImplemented(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{})

	_, err := mapper.ThreeDEnrollmentRequest(testAccount(), testPaymentOrder(), testCard())
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNotImplemented))
}

func TestThreeDFormData(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{hash: "computed-hash"})
	order := testPaymentOrder()
	order.Installment = 2

	form, err := mapper.ThreeDFormData(testAccount(), order, domain.Model3DSecure, domain.TxPay, "https://bank.test/fim/est3Dgate", testCard(), nil)
	require.NoError(t, err)

	assert.Equal(t, "https://bank.test/fim/est3Dgate", form.Gateway)
	assert.Equal(t, "POST", form.Method)
	assert.Equal(t, []gateway.FormField{
		{Key: "clientid", Value: "700655000200"},
		{Key: "storetype", Value: "3d"},
		{Key: "amount", Value: "100.25"},
		{Key: "oid", Value: "order222"},
		{Key: "okUrl", Value: "https://domain.com/success"},
		{Key: "failUrl", Value: "https://domain.com/fail_url"},
		{Key: "rnd", Value: "rand-123"},
		{Key: "lang", Value: "tr"},
		{Key: "currency", Value: "949"},
		{Key: "taksit", Value: "2"},
		{Key: "islemtipi", Value: "Auth"},
		{Key: "firmaadi", Value: "siparis veren"},
		{Key: "Email", Value: "test@test.com"},
		{Key: "cardType", Value: "1"},
		{Key: "pan", Value: "5555444433332222"},
		{Key: "Ecom_Payment_Card_ExpDate_Month", Value: "01"},
		{Key: "Ecom_Payment_Card_ExpDate_Year", Value: "22"},
		{Key: "cv2", Value: "122"},
		{Key: "hash", Value: "computed-hash"},
	}, form.Fields)
}

func TestThreeDFormData_WithoutCard(t *testing.T) {
	mapper := estpos.NewRequestDataMapper(&stubCrypt{hash: "h"})

	form, err := mapper.ThreeDFormData(testAccount(), testPaymentOrder(), domain.Model3DHost, domain.TxPay, "https://bank.test/gate", nil, nil)
	require.NoError(t, err)

	for _, field := range form.Fields {
		assert.NotEqual(t, "pan", field.Key)
	}
	last := form.Fields[len(form.Fields)-1]
	assert.Equal(t, "hash", last.Key)
}

package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finpays/posbridge/domain"
)

func TestPreparePaymentOrder_Defaults(t *testing.T) {
	order, err := domain.PreparePaymentOrder(domain.Order{
		"id":     "order-1",
		"amount": 10.1,
	})

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, 10.1, order.Amount)
	assert.Equal(t, domain.CurrencyTRY, order.Currency)
	assert.Equal(t, 0, order.Installment)
	assert.NotEmpty(t, order.Rand)
	assert.Nil(t, order.Recurring)
}

func TestPreparePaymentOrder_MissingID(t *testing.T) {
	_, err := domain.PreparePaymentOrder(domain.Order{"amount": 10.0})

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidOrder))
}

func TestPreparePaymentOrder_Recurring(t *testing.T) {
	order, err := domain.PreparePaymentOrder(domain.Order{
		"id":                        "order-1",
		"amount":                    100.0,
		"installment":               "3",
		"recurringFrequency":        3,
		"recurringFrequencyType":    "MONTH",
		"recurringInstallmentCount": 4,
		"recurringEndDate":          time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, order.Installment)
	require.NotNil(t, order.Recurring)
	assert.Equal(t, 3, order.Recurring.Frequency)
	assert.Equal(t, domain.UnitMonth, order.Recurring.FrequencyUnit)
	assert.Equal(t, 4, order.Recurring.InstallmentCount)
	require.NotNil(t, order.Recurring.EndDate)
	assert.Equal(t, "20251014", order.Recurring.EndDate.Format("20060102"))
}

func TestPreparePaymentOrder_RecurringIncomplete(t *testing.T) {
	_, err := domain.PreparePaymentOrder(domain.Order{
		"id":                 "order-1",
		"amount":             100.0,
		"recurringFrequency": 3,
		// missing unit and count
	})

	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidOrder))
}

func TestPrepareRefundOrder_AmountStaysAbsent(t *testing.T) {
	order, err := domain.PrepareRefundOrder(domain.Order{"id": "order-1"})

	require.NoError(t, err)
	assert.Nil(t, order.Amount, "a missing amount must stay absent, not default to zero")
	assert.Equal(t, domain.CurrencyTRY, order.Currency)
}

func TestPrepareRefundOrder_PartialAmount(t *testing.T) {
	order, err := domain.PrepareRefundOrder(domain.Order{
		"id":     "order-1",
		"ip":     "127.0.0.1",
		"amount": 5,
	})

	require.NoError(t, err)
	require.NotNil(t, order.Amount)
	assert.Equal(t, 5.0, *order.Amount)
	assert.Equal(t, "127.0.0.1", order.IP)
}

func TestPrepareStatusOrder(t *testing.T) {
	order, err := domain.PrepareStatusOrder(domain.Order{
		"id":          "order-1",
		"recurringId": "series-9",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "series-9", order.RecurringID)

	_, err = domain.PrepareStatusOrder(domain.Order{})
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredInput))
}

func TestPrepareCancelOrder(t *testing.T) {
	order, err := domain.PrepareCancelOrder(domain.Order{
		"id":                              "202210121ABC",
		"ip":                              "127.0.0.1",
		"recurringOrderInstallmentNumber": 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "202210121ABC", order.ID)
	assert.Equal(t, 3, order.RecurringInstallmentNumber)
}

func TestPreparePostAuthOrder(t *testing.T) {
	order, err := domain.PreparePostAuthOrder(domain.Order{
		"id":     "order-1",
		"amount": 20.5,
		"ip":     "127.0.0.1",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyTRY, order.Currency)
	assert.Equal(t, 20.5, order.Amount)
}

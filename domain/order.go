package domain

import (
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Order is the loosely-typed key/value bag callers submit. A Prepare*Order
// constructor normalizes it into the typed input struct of one operation;
// mappers only ever read the typed struct, never the bag.
type Order map[string]any

var validate = validator.New()

// RecurringOrder describes a recurring payment series.
type RecurringOrder struct {
	Frequency        int           `validate:"gt=0"`
	FrequencyUnit    RecurringUnit `validate:"required"`
	InstallmentCount int           `validate:"gt=0"`
	EndDate          *time.Time
}

// PaymentOrder is the normalized input for payment, 3-D payment and 3-D form
// operations.
type PaymentOrder struct {
	ID          string   `validate:"required"`
	Amount      float64  `validate:"gt=0"`
	Currency    Currency `validate:"required"`
	Installment int
	IP          string
	Email       string
	Name        string
	UserID      string
	SuccessURL  string
	FailURL     string
	Rand        string
	Lang        string
	Recurring   *RecurringOrder
}

// PostAuthOrder captures a previously authorized transaction by reference id.
type PostAuthOrder struct {
	ID       string   `validate:"required"`
	Amount   float64  `validate:"gt=0"`
	Currency Currency `validate:"required"`
	IP       string
}

// CancelOrder voids a transaction. RecurringInstallmentNumber selects a single
// installment of a recurring series; zero means the whole order.
type CancelOrder struct {
	ID                         string `validate:"required"`
	IP                         string
	RecurringInstallmentNumber int
}

// RefundOrder refunds a transaction. A nil Amount means full refund; the
// mappers must not default it to zero.
type RefundOrder struct {
	ID       string   `validate:"required"`
	Currency Currency `validate:"required"`
	IP       string
	Amount   *float64
}

// StatusOrder queries a transaction either by order id or by recurring-series
// id. When both are present the order id wins.
type StatusOrder struct {
	ID          string
	RecurringID string
}

// HistoryOrder queries the transaction history of one order.
type HistoryOrder struct {
	ID string `validate:"required"`
}

// PreparePaymentOrder normalizes the order bag for payment-family operations.
// Currency defaults to TRY, installment to 0; a missing rand value is
// generated so 3-D form data always carries one.
func PreparePaymentOrder(o Order) (*PaymentOrder, error) {
	order := &PaymentOrder{
		ID:          cast.ToString(o["id"]),
		Amount:      cast.ToFloat64(o["amount"]),
		Currency:    Currency(cast.ToString(o["currency"])),
		Installment: cast.ToInt(o["installment"]),
		IP:          cast.ToString(o["ip"]),
		Email:       cast.ToString(o["email"]),
		Name:        cast.ToString(o["name"]),
		UserID:      cast.ToString(o["user_id"]),
		SuccessURL:  cast.ToString(o["success_url"]),
		FailURL:     cast.ToString(o["fail_url"]),
		Rand:        cast.ToString(o["rand"]),
		Lang:        cast.ToString(o["lang"]),
	}
	if order.Currency == "" {
		order.Currency = CurrencyTRY
	}
	if order.Rand == "" {
		order.Rand = uuid.NewString()
	}

	if _, ok := o["recurringFrequency"]; ok {
		recurring := &RecurringOrder{
			Frequency:        cast.ToInt(o["recurringFrequency"]),
			FrequencyUnit:    RecurringUnit(cast.ToString(o["recurringFrequencyType"])),
			InstallmentCount: cast.ToInt(o["recurringInstallmentCount"]),
		}
		if raw, ok := o["recurringEndDate"]; ok {
			endDate, err := cast.ToTimeE(raw)
			if err != nil {
				return nil, NewInvalidOrderError(err)
			}
			recurring.EndDate = &endDate
		}
		if err := validate.Struct(recurring); err != nil {
			return nil, NewInvalidOrderError(err)
		}
		order.Recurring = recurring
	}

	if err := validate.Struct(order); err != nil {
		return nil, NewInvalidOrderError(err)
	}
	return order, nil
}

// PreparePostAuthOrder normalizes the order bag for a post-authorization.
func PreparePostAuthOrder(o Order) (*PostAuthOrder, error) {
	order := &PostAuthOrder{
		ID:       cast.ToString(o["id"]),
		Amount:   cast.ToFloat64(o["amount"]),
		Currency: Currency(cast.ToString(o["currency"])),
		IP:       cast.ToString(o["ip"]),
	}
	if order.Currency == "" {
		order.Currency = CurrencyTRY
	}
	if err := validate.Struct(order); err != nil {
		return nil, NewInvalidOrderError(err)
	}
	return order, nil
}

// PrepareCancelOrder normalizes the order bag for a cancel.
func PrepareCancelOrder(o Order) (*CancelOrder, error) {
	order := &CancelOrder{
		ID:                         cast.ToString(o["id"]),
		IP:                         cast.ToString(o["ip"]),
		RecurringInstallmentNumber: cast.ToInt(o["recurringOrderInstallmentNumber"]),
	}
	if err := validate.Struct(order); err != nil {
		return nil, NewInvalidOrderError(err)
	}
	return order, nil
}

// PrepareRefundOrder normalizes the order bag for a refund. The amount stays
// absent unless the caller supplied a partial amount.
func PrepareRefundOrder(o Order) (*RefundOrder, error) {
	order := &RefundOrder{
		ID:       cast.ToString(o["id"]),
		Currency: Currency(cast.ToString(o["currency"])),
		IP:       cast.ToString(o["ip"]),
	}
	if order.Currency == "" {
		order.Currency = CurrencyTRY
	}
	if raw, ok := o["amount"]; ok {
		amount := cast.ToFloat64(raw)
		order.Amount = &amount
	}
	if err := validate.Struct(order); err != nil {
		return nil, NewInvalidOrderError(err)
	}
	return order, nil
}

// PrepareStatusOrder normalizes the order bag for a status query. One of the
// order id or the recurring-series id is required.
func PrepareStatusOrder(o Order) (*StatusOrder, error) {
	order := &StatusOrder{
		ID:          cast.ToString(o["id"]),
		RecurringID: cast.ToString(o["recurringId"]),
	}
	if order.ID == "" && order.RecurringID == "" {
		return nil, NewMissingRequiredInputError("id")
	}
	return order, nil
}

// PrepareHistoryOrder normalizes the order bag for a history query.
func PrepareHistoryOrder(o Order) (*HistoryOrder, error) {
	order := &HistoryOrder{
		ID: cast.ToString(o["id"]),
	}
	if err := validate.Struct(order); err != nil {
		return nil, NewInvalidOrderError(err)
	}
	return order, nil
}

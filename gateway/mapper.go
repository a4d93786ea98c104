// Package gateway defines the mapper contracts every gateway family satisfies
// and the shared translation/assembly machinery they are built on.
package gateway

import (
	"github.com/finpays/posbridge/domain"
)

// RequestData is the gateway-shaped payload of one operation: a flat or
// singly-nested mapping of gateway-specific keys to string values, handed to
// an external transport for serialization and sending.
type RequestData map[string]any

// FormField is one input of a 3-D Secure redirect form. Field order is
// significant: some gateways hash the ordered concatenation of values.
type FormField struct {
	Key   string
	Value string
}

// FormData describes the HTML form an external renderer auto-submits to the
// bank's ACS endpoint.
type FormData struct {
	Gateway string
	Method  string // always POST
	Fields  []FormField
}

// Crypt computes gateway-specific 3-D Secure hashes. It is injected at mapper
// construction; the mapping layer never owns a hashing implementation.
// Implementations must hash the exact field values the form payload carries,
// in the gateway-defined concatenation order. The order arrives in canonical
// form, so an implementation must apply the gateway's own encoding to each
// field it hashes: the family's installment policy (EstPos hashes "" for 0 or
// 1 installments, never "0") and its amount format (two-decimal string on
// EstPos, minor units on PosNet), matching what ThreeDFormData emits.
type Crypt interface {
	ComputeThreeDHash(account *domain.Account, order *domain.PaymentOrder, txType string) (string, error)
}

// RequestMapper builds the exact field set a gateway expects per operation.
// Operations a family does not offer return a NOT_IMPLEMENTED error.
type RequestMapper interface {
	// NonSecurePaymentRequest builds a direct card payment. The card is
	// mandatory.
	NonSecurePaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, card *domain.Card) (RequestData, error)

	// ThreeDPaymentRequest completes a payment after a 3-D Secure redirect
	// returned authentication proofs. Families that re-submit the card
	// require a non-nil card.
	ThreeDPaymentRequest(account *domain.Account, order *domain.PaymentOrder, txType domain.TxType, auth *domain.ThreeDAuthResult, card *domain.Card) (RequestData, error)

	// NonSecurePostAuthRequest captures a previously authorized transaction.
	NonSecurePostAuthRequest(account *domain.Account, order *domain.PostAuthOrder) (RequestData, error)

	CancelRequest(account *domain.Account, order *domain.CancelOrder) (RequestData, error)
	RefundRequest(account *domain.Account, order *domain.RefundOrder) (RequestData, error)
	StatusRequest(account *domain.Account, order *domain.StatusOrder) (RequestData, error)
	HistoryRequest(account *domain.Account, order *domain.HistoryOrder) (RequestData, error)

	// ThreeDEnrollmentRequest initiates the 3-D Secure handshake on families
	// that run a separate enrollment step before the payment itself.
	ThreeDEnrollmentRequest(account *domain.Account, order *domain.PaymentOrder, card *domain.Card) (RequestData, error)

	// ThreeDFormData builds the redirect form the caller renders and
	// auto-submits. Families with a prior enrollment step repackage its
	// result; the others compute an authentication hash through Crypt.
	ThreeDFormData(account *domain.Account, order *domain.PaymentOrder, model domain.SecureModel, txType domain.TxType, gatewayURL string, card *domain.Card, enrollment *domain.EnrollmentResult) (*FormData, error)
}

// ResponseMapper parses raw gateway replies into the canonical response.
// Mapping never fails: anomalies resolve to nil fields and an empty reply
// yields a fully-shaped declined response.
type ResponseMapper interface {
	MapPaymentResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response
	Map3DPaymentResponse(raw3D, rawPayment map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response
	Map3DPayResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response
	Map3DHostResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response
	MapCancelResponse(raw map[string]any) *domain.Response
	MapRefundResponse(raw map[string]any) *domain.Response
	MapStatusResponse(raw map[string]any) *domain.Response
	MapHistoryResponse(raw map[string]any) *domain.Response
}

package payflex

import (
	"log/slog"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
)

// procedureSuccessCode is the ResultCode value PayFlex reports on success.
// PayFlex has no secondary status-detail table; the single code decides.
const procedureSuccessCode = "0000"

// ResponseDataMapper parses PayFlex V4 raw replies into the canonical
// response.
type ResponseDataMapper struct {
	logger *slog.Logger
}

func NewResponseDataMapper(logger *slog.Logger) *ResponseDataMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseDataMapper{logger: logger}
}

func (m *ResponseDataMapper) MapPaymentResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	m.logger.Debug("mapping payment response", "raw", raw)

	def := gateway.DefaultResponse()
	if len(raw) == 0 {
		return def
	}

	normalized := gateway.EmptyStringsToNil(raw)
	resultCode := gateway.Str(normalized, "ResultCode")

	status := domain.StatusDeclined
	if resultCode != nil && *resultCode == procedureSuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		RemoteOrderID:  gateway.Str(normalized, "OrderId"),
		TransID:        gateway.Str(normalized, "TransactionId"),
		AuthCode:       gateway.Str(normalized, "AuthCode"),
		RefRetNum:      gateway.Str(normalized, "Rrn"),
		ProcReturnCode: resultCode,
		Status:         status,
		StatusDetail:   statusDetail(resultCode),
		Raw:            normalized,
	}
	if order != nil {
		overlay.OrderID = gateway.String(order.ID)
		overlay.Currency = gateway.CurrencyOf(order.Currency)
		overlay.Amount = gateway.Float64(order.Amount)
		overlay.Installment = gateway.Int(order.Installment)
	}
	if status != domain.StatusApproved {
		overlay.ErrorCode = resultCode
		overlay.ErrorMessage = gateway.Str(normalized, "ResultDetail")
	}

	return gateway.MergePreferNonNil(def, overlay)
}

func (m *ResponseDataMapper) Map3DPaymentResponse(raw3D, rawPayment map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	m.logger.Debug("mapping 3D payment response", "auth", raw3D, "provision", rawPayment)

	normalized3D := gateway.EmptyStringsToNil(raw3D)
	authStatus := gateway.Str(normalized3D, "Status")

	threeD := &domain.Response{
		Status:              domain.StatusDeclined,
		MdStatus:            authStatus,
		TransactionSecurity: gateway.String(mapTransactionSecurity(authStatus)),
		ECI:                 gateway.Str(normalized3D, "Eci"),
		CAVV:                gateway.Str(normalized3D, "Cavv"),
		Raw3D:               normalized3D,
	}
	if order != nil {
		threeD.OrderID = gateway.String(order.ID)
	}
	if authStatus == nil || *authStatus != "Y" {
		threeD.MdErrorMessage = gateway.Str(normalized3D, "ErrorMessage")
	}

	payment := m.MapPaymentResponse(rawPayment, txType, order)
	return gateway.MergePreferNonNil(threeD, payment)
}

func (m *ResponseDataMapper) Map3DPayResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	return m.Map3DPaymentResponse(raw, raw, txType, order)
}

func (m *ResponseDataMapper) Map3DHostResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	return m.Map3DPayResponse(raw, txType, order)
}

func (m *ResponseDataMapper) MapCancelResponse(raw map[string]any) *domain.Response {
	return m.mapOrderActionResponse(raw)
}

func (m *ResponseDataMapper) MapRefundResponse(raw map[string]any) *domain.Response {
	return m.mapOrderActionResponse(raw)
}

func (m *ResponseDataMapper) MapStatusResponse(raw map[string]any) *domain.Response {
	return m.mapOrderActionResponse(raw)
}

// MapHistoryResponse is unreachable through the request side, which rejects
// history queries, but still decodes defensively to the default shape.
func (m *ResponseDataMapper) MapHistoryResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	def.Raw = gateway.EmptyStringsToNil(raw)
	return def
}

func (m *ResponseDataMapper) mapOrderActionResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	if len(raw) == 0 {
		return def
	}

	normalized := gateway.EmptyStringsToNil(raw)
	resultCode := gateway.Str(normalized, "ResultCode")

	status := domain.StatusDeclined
	if resultCode != nil && *resultCode == procedureSuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		RemoteOrderID:  gateway.Str(normalized, "OrderId"),
		TransID:        gateway.Str(normalized, "TransactionId"),
		AuthCode:       gateway.Str(normalized, "AuthCode"),
		RefRetNum:      gateway.Str(normalized, "Rrn"),
		ProcReturnCode: resultCode,
		Status:         status,
		StatusDetail:   statusDetail(resultCode),
		Raw:            normalized,
	}
	if status != domain.StatusApproved {
		overlay.ErrorCode = resultCode
		overlay.ErrorMessage = gateway.Str(normalized, "ResultDetail")
	}
	return gateway.MergePreferNonNil(def, overlay)
}

func statusDetail(resultCode *string) *string {
	if resultCode != nil && *resultCode == procedureSuccessCode {
		return gateway.String(string(domain.StatusApproved))
	}
	return nil
}

// mapTransactionSecurity classifies the VERes/PARes status PayFlex relays:
// Y means the cardholder fully authenticated, A is an authentication attempt,
// anything else (N, U, E, absent) falls back.
func mapTransactionSecurity(authStatus *string) string {
	if authStatus == nil {
		return domain.Secure3DFallback
	}
	switch *authStatus {
	case "Y":
		return domain.Secure3DFull
	case "A":
		return domain.Secure3DHalf
	}
	return domain.Secure3DFallback
}

package estpos

import (
	"log/slog"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
)

// procedureSuccessCode is the ProcReturnCode value EstPos reports on success.
const procedureSuccessCode = "00"

// codes interprets EstPos procedure return codes. Codes outside the table map
// to a plain declined status with no status detail.
var codes = map[string]domain.Status{
	procedureSuccessCode: domain.StatusApproved,
	"01":                 domain.StatusBankCall,
	"02":                 domain.StatusBankCall,
	"04":                 domain.StatusReject,
	"05":                 domain.StatusReject,
	"12":                 domain.StatusReject,
	"41":                 domain.StatusReject,
	"43":                 domain.StatusReject,
	"51":                 domain.StatusDeclined,
	"54":                 domain.StatusDeclined,
	"57":                 domain.StatusDeclined,
	"62":                 domain.StatusDeclined,
	"77":                 domain.StatusDeclined,
	"99":                 domain.StatusDeclined,
}

// ResponseDataMapper parses EstPos raw replies into the canonical response.
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
	procReturnCode := gateway.Str(normalized, "ProcReturnCode")

	status := domain.StatusDeclined
	if procReturnCode != nil && *procReturnCode == procedureSuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		TransID:        gateway.Str(normalized, "TransId"),
		AuthCode:       gateway.Str(normalized, "AuthCode"),
		RefRetNum:      gateway.Str(normalized, "HostRefNum"),
		GroupID:        gateway.Str(normalized, "GroupId"),
		ProcReturnCode: procReturnCode,
		Status:         status,
		StatusDetail:   statusDetail(procReturnCode),
		Raw:            normalized,
	}
	if order != nil {
		overlay.OrderID = gateway.String(order.ID)
		overlay.Currency = gateway.CurrencyOf(order.Currency)
		overlay.Amount = gateway.Float64(order.Amount)
		overlay.Installment = gateway.Int(order.Installment)
	}
	if status != domain.StatusApproved {
		overlay.ErrorCode = procReturnCode
		overlay.ErrorMessage = gateway.Str(normalized, "ErrMsg")
	}

	return gateway.MergePreferNonNil(def, overlay)
}

func (m *ResponseDataMapper) Map3DPaymentResponse(raw3D, rawPayment map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	m.logger.Debug("mapping 3D payment response", "auth", raw3D, "provision", rawPayment)

	normalized3D := gateway.EmptyStringsToNil(raw3D)
	mdStatus := gateway.Str(normalized3D, "mdStatus")

	threeD := &domain.Response{
		Status:              domain.StatusDeclined,
		MdStatus:            mdStatus,
		TransactionSecurity: gateway.String(mapTransactionSecurity(mdStatus)),
		MaskedNumber:        gateway.Str(normalized3D, "maskedCreditCard"),
		ECI:                 gateway.Str(normalized3D, "eci"),
		CAVV:                gateway.Str(normalized3D, "cavv"),
		Raw3D:               normalized3D,
	}
	if order != nil {
		threeD.OrderID = gateway.String(order.ID)
	}
	if !threeDAuthApproved(mdStatus) {
		threeD.MdErrorMessage = gateway.Str(normalized3D, "mdErrorMsg")
	}

	payment := m.MapPaymentResponse(rawPayment, txType, order)
	return gateway.MergePreferNonNil(threeD, payment)
}

// Map3DPayResponse decodes a 3D-pay reply, where the authentication reply
// doubles as the provisioning result.
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

// MapHistoryResponse normalizes the history reply; the transaction list stays
// in Raw verbatim.
func (m *ResponseDataMapper) MapHistoryResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	if len(raw) == 0 {
		return def
	}

	normalized := gateway.EmptyStringsToNil(raw)
	procReturnCode := gateway.Str(normalized, "ProcReturnCode")

	status := domain.StatusDeclined
	if procReturnCode != nil && *procReturnCode == procedureSuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		OrderID:        gateway.Str(normalized, "OrderId"),
		ProcReturnCode: procReturnCode,
		Status:         status,
		StatusDetail:   statusDetail(procReturnCode),
		Raw:            normalized,
	}
	return gateway.MergePreferNonNil(def, overlay)
}

// mapOrderActionResponse covers the cancel, refund and status replies, which
// share one shape on EstPos.
func (m *ResponseDataMapper) mapOrderActionResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	if len(raw) == 0 {
		return def
	}

	normalized := gateway.EmptyStringsToNil(raw)
	procReturnCode := gateway.Str(normalized, "ProcReturnCode")

	status := domain.StatusDeclined
	if procReturnCode != nil && *procReturnCode == procedureSuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		OrderID:        gateway.Str(normalized, "OrderId"),
		GroupID:        gateway.Str(normalized, "GroupId"),
		TransID:        gateway.Str(normalized, "TransId"),
		AuthCode:       gateway.Str(normalized, "AuthCode"),
		RefRetNum:      gateway.Str(normalized, "HostRefNum"),
		ProcReturnCode: procReturnCode,
		Status:         status,
		StatusDetail:   statusDetail(procReturnCode),
		Raw:            normalized,
	}
	if status != domain.StatusApproved {
		overlay.ErrorCode = procReturnCode
		overlay.ErrorMessage = gateway.Str(normalized, "ErrMsg")
	}
	return gateway.MergePreferNonNil(def, overlay)
}

func statusDetail(procReturnCode *string) *string {
	if procReturnCode == nil {
		return nil
	}
	if detail, ok := codes[*procReturnCode]; ok {
		return gateway.String(string(detail))
	}
	return nil
}

func threeDAuthApproved(mdStatus *string) bool {
	if mdStatus == nil {
		return false
	}
	switch *mdStatus {
	case "1", "2", "3", "4":
		return true
	}
	return false
}

// mapTransactionSecurity classifies the 3-D authentication outcome. Only
// mdStatus 1 means the cardholder fully authenticated; 2-4 are the half
// authentication cases; everything else falls back to MPI fallback.
func mapTransactionSecurity(mdStatus *string) string {
	if mdStatus == nil {
		return domain.Secure3DFallback
	}
	switch *mdStatus {
	case "1":
		return domain.Secure3DFull
	case "2", "3", "4":
		return domain.Secure3DHalf
	}
	return domain.Secure3DFallback
}

package posnet

import (
	"log/slog"

	"github.com/spf13/cast"

	"github.com/finpays/posbridge/domain"
	"github.com/finpays/posbridge/gateway"
)

// procedureSuccessCode is the ResponseCode value PosNet reports on success
// for payment, cancel and refund operations. Status queries succeed with
// statusQuerySuccessCode instead.
const (
	procedureSuccessCode   = "00"
	statusQuerySuccessCode = "0000"
)

// codes interprets PosNet procedure return codes. Approval requires the
// return code to be the success code AND this table to agree; the two code
// spaces are maintained independently by the bank and are not collapsed here.
var codes = map[string]domain.Status{
	procedureSuccessCode: domain.StatusApproved,
	"0":                  domain.StatusDeclined,
	"2":                  domain.StatusDeclined,
	"0001":               domain.StatusBankCall,
	"0005":               domain.StatusReject,
	"0007":               domain.StatusBankCall,
	"0012":               domain.StatusReject,
	"0014":               domain.StatusReject,
	"0030":               domain.StatusBankCall,
	"0041":               domain.StatusReject,
	"0043":               domain.StatusReject,
	"0051":               domain.StatusReject,
	"0053":               domain.StatusBankCall,
	"0054":               domain.StatusReject,
	"0057":               domain.StatusReject,
	"0058":               domain.StatusReject,
	"0062":               domain.StatusReject,
	"0065":               domain.StatusReject,
	"0091":               domain.StatusBankCall,
	"0123":               domain.StatusTransactionNotFound,
	"0444":               domain.StatusBankCall,
}

// responseCurrencies decodes the numeric ISO currency codes PosNet replies
// carry back to the canonical alpha codes.
var responseCurrencies = map[string]domain.Currency{
	"949": domain.CurrencyTRY,
	"840": domain.CurrencyUSD,
	"978": domain.CurrencyEUR,
	"826": domain.CurrencyGBP,
	"392": domain.CurrencyJPY,
	"643": domain.CurrencyRUB,
}

// ResponseDataMapper parses PosNet V1 raw replies into the canonical
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
	procReturnCode := procReturnCodeOf(normalized)

	status := domain.StatusDeclined
	if isProcedureApproved(procReturnCode) {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		AuthCode:       gateway.Str(normalized, "AuthCode"),
		RefRetNum:      gateway.Str(normalized, "ReferenceCode"),
		ProcReturnCode: procReturnCode,
		Status:         status,
		StatusDetail:   statusDetail(procReturnCode),
		Raw:            normalized,
	}
	if order != nil {
		overlay.OrderID = gateway.String(order.ID)
		overlay.Currency = gateway.CurrencyOf(order.Currency)
		overlay.Amount = gateway.Float64(order.Amount)
	}
	if status == domain.StatusApproved {
		if installmentData := gateway.Nested(normalized, "InstallmentData"); installmentData != nil {
			overlay.Installment = gateway.Int(cast.ToInt(installmentData["InstallmentCount"]))
		}
	} else {
		overlay.ErrorCode = procReturnCode
		overlay.ErrorMessage = responseDescription(normalized)
	}

	return gateway.MergePreferNonNil(def, overlay)
}

func (m *ResponseDataMapper) Map3DPaymentResponse(raw3D, rawPayment map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	m.logger.Debug("mapping 3D payment response", "auth", raw3D, "provision", rawPayment)

	normalized3D := gateway.EmptyStringsToNil(raw3D)
	mdStatus := gateway.Str(normalized3D, "MdStatus")

	threeD := &domain.Response{
		Status: domain.StatusDeclined,
		// Credit card number prefix, e.g. 450634.
		MaskedNumber:        gateway.Str(normalized3D, "CCPrefix"),
		RemoteOrderID:       gateway.Str(normalized3D, "OrderId"),
		MdStatus:            mdStatus,
		TransactionSecurity: gateway.String(mapTransactionSecurity(mdStatus)),
		Raw3D:               normalized3D,
	}
	if order != nil {
		threeD.OrderID = gateway.String(order.ID)
	}
	if currency := gateway.Str(normalized3D, "CurrencyCode"); currency != nil {
		if mapped, ok := responseCurrencies[*currency]; ok {
			threeD.Currency = gateway.CurrencyOf(mapped)
		}
	}
	if amount := gateway.Str(normalized3D, "Amount"); amount != nil {
		threeD.Amount = gateway.Float64(gateway.ParseMinorUnits(*amount))
	}
	if !threeDAuthApproved(mdStatus) {
		threeD.MdErrorMessage = gateway.Str(normalized3D, "MdErrorMessage")
	}

	payment := m.MapPaymentResponse(rawPayment, txType, order)
	return gateway.MergePreferNonNil(threeD, payment)
}

// Map3DPayResponse decodes a 3D-pay reply by delegating to the 3D-payment
// mapping with the authentication reply doubling as the provisioning result.
func (m *ResponseDataMapper) Map3DPayResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	return m.Map3DPaymentResponse(raw, raw, txType, order)
}

func (m *ResponseDataMapper) Map3DHostResponse(raw map[string]any, txType domain.TxType, order *domain.PaymentOrder) *domain.Response {
	return m.Map3DPayResponse(raw, txType, order)
}

func (m *ResponseDataMapper) MapCancelResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	if len(raw) == 0 {
		return def
	}

	normalized := gateway.EmptyStringsToNil(raw)
	procReturnCode := procReturnCodeOf(normalized)

	status := domain.StatusDeclined
	if procReturnCode != nil && *procReturnCode == procedureSuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		ProcReturnCode: procReturnCode,
		Status:         status,
		StatusDetail:   statusDetail(procReturnCode),
		Raw:            normalized,
	}
	if status != domain.StatusApproved {
		overlay.ErrorCode = procReturnCode
		overlay.ErrorMessage = responseDescription(normalized)
	}
	return gateway.MergePreferNonNil(def, overlay)
}

func (m *ResponseDataMapper) MapRefundResponse(raw map[string]any) *domain.Response {
	return m.MapCancelResponse(raw)
}

func (m *ResponseDataMapper) MapStatusResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	if len(raw) == 0 {
		return def
	}

	normalized := gateway.EmptyStringsToNil(raw)
	procReturnCode := procReturnCodeOf(normalized)

	status := domain.StatusDeclined
	if procReturnCode != nil && *procReturnCode == statusQuerySuccessCode {
		status = domain.StatusApproved
	}

	overlay := &domain.Response{
		ProcReturnCode: procReturnCode,
		Status:         status,
		StatusDetail:   statusDetail(procReturnCode),
		Raw:            normalized,
	}
	if status != domain.StatusApproved {
		overlay.ErrorCode = procReturnCode
		overlay.ErrorMessage = responseDescription(normalized)
	}
	return gateway.MergePreferNonNil(def, overlay)
}

// MapHistoryResponse normalizes the raw history reply; the transaction list
// stays in Raw verbatim.
func (m *ResponseDataMapper) MapHistoryResponse(raw map[string]any) *domain.Response {
	def := gateway.DefaultResponse()
	def.Raw = gateway.EmptyStringsToNil(raw)
	return def
}

// procReturnCodeOf extracts the procedure return code, which PosNet nests
// under the service-response sub-structure.
func procReturnCodeOf(normalized map[string]any) *string {
	serviceResponse := gateway.Nested(normalized, "ServiceResponseData")
	if serviceResponse == nil {
		return nil
	}
	return gateway.Str(serviceResponse, "ResponseCode")
}

func responseDescription(normalized map[string]any) *string {
	serviceResponse := gateway.Nested(normalized, "ServiceResponseData")
	if serviceResponse == nil {
		return nil
	}
	return gateway.Str(serviceResponse, "ResponseDescription")
}

// isProcedureApproved applies the dual success check: the return code must be
// the success code and the status-detail table must also resolve to approved.
func isProcedureApproved(procReturnCode *string) bool {
	if procReturnCode == nil || *procReturnCode != procedureSuccessCode {
		return false
	}
	return codes[*procReturnCode] == domain.StatusApproved
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

// mapTransactionSecurity classifies the MdStatus code: 1 is a successful
// cardholder verification, 2-4 mean the card or its bank is not enrolled and
// only an authentication attempt happened.
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

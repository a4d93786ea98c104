package gateway

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"

	"github.com/finpays/posbridge/domain"
)

// FormatAmount encodes an amount as a fixed-point string with exactly two
// decimal digits and no grouping, e.g. 10.1 -> "10.10".
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatMinorUnits encodes an amount as an integer minor-unit string,
// e.g. 1000.01 -> "100001".
func FormatMinorUnits(amount float64) string {
	return strconv.FormatInt(int64(amount*100+0.5), 10)
}

// ParseMinorUnits decodes an integer minor-unit string, e.g. "100001" ->
// 1000.01. Malformed input decodes to 0.
func ParseMinorUnits(s string) float64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / 100
}

// EmptyStringsToNil normalizes a raw gateway reply: empty string values,
// which banks use inconsistently for "not applicable", become nil so the
// canonical model never conflates them with real data. Nested maps are
// normalized recursively; the input is not modified.
func EmptyStringsToNil(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	normalized := make(map[string]any, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			if v == "" {
				normalized[key] = nil
			} else {
				normalized[key] = v
			}
		case map[string]any:
			normalized[key] = EmptyStringsToNil(v)
		default:
			normalized[key] = value
		}
	}
	return normalized
}

// Str reads a string field from a normalized raw reply; absent or nil fields
// read as nil.
func Str(raw map[string]any, key string) *string {
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}
	s := cast.ToString(value)
	if s == "" {
		return nil
	}
	return &s
}

// Nested reads a sub-structure of a raw reply, nil when absent.
func Nested(raw map[string]any, key string) map[string]any {
	if sub, ok := raw[key].(map[string]any); ok {
		return sub
	}
	return nil
}

// DefaultResponse is the neutral canonical response every mapping starts
// from: status declined, every other field present and nil. Guarantees a
// complete, uniformly-shaped result even on an empty raw reply.
func DefaultResponse() *domain.Response {
	return &domain.Response{Status: domain.StatusDeclined}
}

// MergePreferNonNil overlays gateway-derived values onto a default response.
// An overlay field replaces the default only when it is non-nil, so overlay
// nils never erase default values.
func MergePreferNonNil(def, overlay *domain.Response) *domain.Response {
	merged := &domain.Response{
		OrderID:        prefer(overlay.OrderID, def.OrderID),
		RemoteOrderID:  prefer(overlay.RemoteOrderID, def.RemoteOrderID),
		Currency:       prefer(overlay.Currency, def.Currency),
		Amount:         prefer(overlay.Amount, def.Amount),
		Installment:    prefer(overlay.Installment, def.Installment),
		TransID:        prefer(overlay.TransID, def.TransID),
		AuthCode:       prefer(overlay.AuthCode, def.AuthCode),
		RefRetNum:      prefer(overlay.RefRetNum, def.RefRetNum),
		GroupID:        prefer(overlay.GroupID, def.GroupID),
		ProcReturnCode: prefer(overlay.ProcReturnCode, def.ProcReturnCode),

		Status:       def.Status,
		StatusDetail: prefer(overlay.StatusDetail, def.StatusDetail),
		ErrorCode:    prefer(overlay.ErrorCode, def.ErrorCode),
		ErrorMessage: prefer(overlay.ErrorMessage, def.ErrorMessage),

		MdStatus:            prefer(overlay.MdStatus, def.MdStatus),
		TransactionSecurity: prefer(overlay.TransactionSecurity, def.TransactionSecurity),
		MaskedNumber:        prefer(overlay.MaskedNumber, def.MaskedNumber),
		MdErrorMessage:      prefer(overlay.MdErrorMessage, def.MdErrorMessage),
		ECI:                 prefer(overlay.ECI, def.ECI),
		CAVV:                prefer(overlay.CAVV, def.CAVV),

		Raw:   def.Raw,
		Raw3D: def.Raw3D,
	}
	if overlay.Status != "" {
		merged.Status = overlay.Status
	}
	if overlay.Raw != nil {
		merged.Raw = overlay.Raw
	}
	if overlay.Raw3D != nil {
		merged.Raw3D = overlay.Raw3D
	}
	return merged
}

func prefer[T any](overlay, def *T) *T {
	if overlay != nil {
		return overlay
	}
	return def
}

// Pointer helpers for response assembly.

func String(s string) *string { return &s }

func Float64(f float64) *float64 { return &f }

func Int(i int) *int { return &i }

func CurrencyOf(c domain.Currency) *domain.Currency { return &c }

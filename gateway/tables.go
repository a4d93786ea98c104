package gateway

import "github.com/finpays/posbridge/domain"

// Tables is the static translation record of one gateway family: canonical
// value → gateway wire token. Misses are programming errors, not runtime
// conditions; every lookup is explicit about that via UNSUPPORTED_VALUE.
type Tables struct {
	TxTypes        map[domain.TxType]string
	CardBrands     map[domain.CardBrand]string
	Currencies     map[domain.Currency]string
	RecurringUnits map[domain.RecurringUnit]string
	SecureModels   map[domain.SecureModel]string
}

func (t Tables) TxType(tx domain.TxType) (string, error) {
	if mapped, ok := t.TxTypes[tx]; ok {
		return mapped, nil
	}
	return "", domain.NewUnsupportedValueError("transaction type", string(tx))
}

func (t Tables) CardBrand(brand domain.CardBrand) (string, error) {
	if mapped, ok := t.CardBrands[brand]; ok {
		return mapped, nil
	}
	return "", domain.NewUnsupportedValueError("card brand", string(brand))
}

func (t Tables) Currency(currency domain.Currency) (string, error) {
	if mapped, ok := t.Currencies[currency]; ok {
		return mapped, nil
	}
	return "", domain.NewUnsupportedValueError("currency", string(currency))
}

func (t Tables) RecurringUnit(unit domain.RecurringUnit) (string, error) {
	if mapped, ok := t.RecurringUnits[unit]; ok {
		return mapped, nil
	}
	return "", domain.NewUnsupportedValueError("recurring frequency unit", string(unit))
}

func (t Tables) SecureModel(model domain.SecureModel) (string, error) {
	if mapped, ok := t.SecureModels[model]; ok {
		return mapped, nil
	}
	return "", domain.NewUnsupportedValueError("secure model", string(model))
}

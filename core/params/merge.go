// Package params - Parameter Resolver
// Merges three input layers (sheet defaults, caller overrides, system
// overrides) into one complete, validated CalculationParameters. Precedence
// per field: system, then caller, then defaults. The resolver is a pure
// function of its inputs; no partial bundle ever escapes this stage.
package params

import (
	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

// Resolve merges the three parameter layers and validates the result.
// user and system may be nil. On any violation it returns a validation
// error enumerating every violated field.
func Resolve(defaults types.Defaults, user, system *types.Override) (*types.CalculationParameters, error) {
	if user == nil {
		user = &types.Override{}
	}
	if system == nil {
		system = &types.Override{}
	}

	merged := &types.CalculationParameters{
		Rates:             mergeRates(defaults.Rates, user.Rates, system.Rates),
		Fabric:            mergeFabric(defaults.Fabric, user.Fabric, system.Fabric),
		OverheadPercent:   mergeRangeValues(defaults.OverheadPercent, user.OverheadPercent, system.OverheadPercent),
		ProfitPercent:     mergeRangeValues(defaults.ProfitPercent, user.ProfitPercent, system.ProfitPercent),
		VATPercent:        pickScalar(defaults.VATPercent, user.VATPercent, system.VATPercent),
		CommissionPercent: pickScalar(defaults.CommissionPercent, user.CommissionPercent, system.CommissionPercent),
		Operations:        mergeOperations(defaults.Operations, user.Operations, system.Operations),
		BatchSizes:        mergeBatchSizes(user.BatchSizes, system.BatchSizes),
	}

	if violations := validate(merged); len(violations) > 0 {
		return nil, errors.Validation(violations)
	}

	return merged, nil
}

// pickScalar applies scalar precedence: system over user over default
func pickScalar(def float64, user, system *float64) float64 {
	if system != nil {
		return *system
	}
	if user != nil {
		return *user
	}
	return def
}

// mergeRates shallow-merges rate tables key by key
func mergeRates(def, user, system types.ExchangeRates) types.ExchangeRates {
	out := make(types.ExchangeRates, len(def))
	for c, v := range def {
		out[c] = v
	}
	for c, v := range user {
		out[c] = v
	}
	for c, v := range system {
		out[c] = v
	}
	return out
}

// mergeFabric applies precedence field by field on the fabric price card
func mergeFabric(def types.FabricPricing, user, system *types.FabricPricing) types.FabricPricing {
	out := def
	if user != nil {
		if user.UnitPrice != nil {
			out.UnitPrice = user.UnitPrice
		}
		if user.BasePrice != nil {
			out.BasePrice = user.BasePrice
		}
		if user.MetrePrice != nil {
			out.MetrePrice = user.MetrePrice
		}
	}
	if system != nil {
		if system.UnitPrice != nil {
			out.UnitPrice = system.UnitPrice
		}
		if system.BasePrice != nil {
			out.BasePrice = system.BasePrice
		}
		if system.MetrePrice != nil {
			out.MetrePrice = system.MetrePrice
		}
	}
	return out
}

// mergeRangeValues merges per-range percentages. Every configured range is
// present in the result; ranges absent from all layers resolve to 0.
func mergeRangeValues(def, user, system types.RangeValues) types.RangeValues {
	out := make(types.RangeValues)
	for _, id := range types.RangeIDs() {
		out[id] = 0
		if v, ok := def[id]; ok {
			out[id] = v
		}
		if v, ok := user[id]; ok {
			out[id] = v
		}
		if v, ok := system[id]; ok {
			out[id] = v
		}
	}
	return out
}

// mergeOperations merges the operation cost tables. The operation name set is
// the union of all layers; per-range costs within an operation merge with the
// same precedence, with absent ranges resolving to 0.
func mergeOperations(def, user, system types.OperationCosts) types.OperationCosts {
	names := make(map[string]struct{})
	for name := range def {
		names[name] = struct{}{}
	}
	for name := range user {
		names[name] = struct{}{}
	}
	for name := range system {
		names[name] = struct{}{}
	}

	out := make(types.OperationCosts, len(names))
	for name := range names {
		out[name] = mergeRangeValues(def[name], user[name], system[name])
	}
	return out
}

// mergeBatchSizes merges batch sizes over the engine-internal defaults.
// Batch defaults never come from the sheet.
func mergeBatchSizes(user, system types.BatchSizes) types.BatchSizes {
	out := types.DefaultBatchSizes()
	for _, id := range types.RangeIDs() {
		if n, ok := user[id]; ok {
			out[id] = n
		}
		if n, ok := system[id]; ok {
			out[id] = n
		}
	}
	return out
}

package calc

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
	"garment-cost/internal/logging"
)

// ComputeRange computes the cost breakdown for a single batch range from a
// validated parameter bundle. Ranges are independent: no range's result
// depends on another's, so callers may compute them in any order or in
// parallel.
func ComputeRange(p *types.CalculationParameters, id types.RangeID) (*types.RangeResult, error) {
	if _, ok := types.RangeByID(id); !ok {
		return nil, errors.Calculation(string(id), "range", "unknown batch range")
	}

	baseRate := p.Rates[types.BaseCurrency]
	if !isFinite(baseRate) || baseRate <= 0 {
		return nil, errors.Calculation(string(id), fmt.Sprintf("rates.%s", types.BaseCurrency),
			"base currency rate must be a positive finite number")
	}

	n := p.BatchSizes[id]
	result := &types.RangeResult{
		Range:     id,
		BatchSize: n,
	}

	// Whole-batch operation cost, local currency.
	var opsLocal float64
	for _, costs := range p.Operations {
		opsLocal += costs[id]
	}

	// Per-unit operation cost. Batch size 0 is guarded, not an error.
	if n <= 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("batch size is 0 for range %s; per-unit figures reported as 0", id))
		logging.Warn("guarded division by zero batch size",
			zap.String("range", string(id)))
	}
	perUnitOpsLocal := safeDiv(opsLocal, float64(n))
	perUnitOpsBase := perUnitOpsLocal / baseRate

	fabricCost := p.Fabric.UnitCost()
	perUnit := fabricCost + perUnitOpsBase
	rawCost := perUnit * float64(n)

	overhead := rawCost * p.OverheadPercent[id] / 100
	profit := rawCost * p.ProfitPercent[id] / 100
	taxable := rawCost + overhead + profit
	vat := taxable * p.VATPercent / 100
	commission := taxable * p.CommissionPercent / 100

	finalBase := taxable + vat + commission
	finalLocal := finalBase * baseRate

	totals := map[types.Currency]float64{
		types.BaseCurrency:  finalBase,
		types.LocalCurrency: finalLocal,
	}
	for _, c := range types.ForeignCurrencies() {
		if c == types.BaseCurrency {
			continue
		}
		rate := p.Rates[c]
		if !isFinite(rate) || rate <= 0 {
			return nil, errors.Calculation(string(id), fmt.Sprintf("rates.%s", c),
				"currency rate must be a positive finite number")
		}
		totals[c] = finalLocal / rate
	}

	perUnitTotals := make(map[types.Currency]float64, len(totals))
	for c, total := range totals {
		if !isFinite(total) {
			return nil, errors.Calculation(string(id), fmt.Sprintf("totals.%s", c),
				"computed total is not a finite number")
		}
		perUnitTotals[c] = safeDiv(total, float64(n))
	}

	result.FabricCost = Round2(fabricCost)
	result.OperationsTotal = Round2(opsLocal)
	result.PerUnitOperations = Round2(perUnitOpsBase)
	result.PerUnitCost = Round2(perUnit)
	result.RawCost = Round2(rawCost)
	result.Overhead = Round2(overhead)
	result.Profit = Round2(profit)
	result.Taxable = Round2(taxable)
	result.VAT = Round2(vat)
	result.Commission = Round2(commission)

	result.Totals = make(map[types.Currency]float64, len(totals))
	result.PerUnitTotals = make(map[types.Currency]float64, len(perUnitTotals))
	for c, v := range totals {
		result.Totals[c] = Round2(v)
	}
	for c, v := range perUnitTotals {
		result.PerUnitTotals[c] = Round2(v)
	}

	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package params

import (
	"fmt"
	"math"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

// validate checks the merged bundle and collects every violation.
// It never stops at the first failure.
func validate(p *types.CalculationParameters) []errors.FieldViolation {
	var violations []errors.FieldViolation

	add := func(field, reason string) {
		violations = append(violations, errors.FieldViolation{Field: field, Reason: reason})
	}

	for _, c := range types.ForeignCurrencies() {
		rate, ok := p.Rates[c]
		field := fmt.Sprintf("rates.%s", c)
		switch {
		case !ok:
			add(field, "rate is missing")
		case math.IsNaN(rate) || math.IsInf(rate, 0):
			add(field, "rate is not a finite number")
		case rate <= 0:
			add(field, "rate must be strictly positive")
		}
	}

	checkFabric := func(field string, v *float64) {
		if v == nil {
			return
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			add(field, "price is not a finite number")
		} else if *v < 0 {
			add(field, "price must not be negative")
		}
	}
	checkFabric("fabric.unit_price", p.Fabric.UnitPrice)
	checkFabric("fabric.base_price", p.Fabric.BasePrice)
	checkFabric("fabric.metre_price", p.Fabric.MetrePrice)

	checkPercent := func(field string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			add(field, "percentage is not a finite number")
		} else if v < 0 || v > 100 {
			add(field, "percentage must be between 0 and 100")
		}
	}
	for _, id := range types.RangeIDs() {
		checkPercent(fmt.Sprintf("overhead_percent.%s", id), p.OverheadPercent[id])
		checkPercent(fmt.Sprintf("profit_percent.%s", id), p.ProfitPercent[id])
	}
	checkPercent("vat_percent", p.VATPercent)
	checkPercent("commission_percent", p.CommissionPercent)

	for name, costs := range p.Operations {
		for _, id := range types.RangeIDs() {
			v := costs[id]
			field := fmt.Sprintf("operations.%s.%s", name, id)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				add(field, "cost is not a finite number")
			} else if v < 0 {
				add(field, "cost must not be negative")
			}
		}
	}

	for _, r := range types.Ranges() {
		n := p.BatchSizes[r.ID]
		if n < r.MinUnits || n > r.MaxUnits {
			add(fmt.Sprintf("batch_sizes.%s", r.ID),
				fmt.Sprintf("batch size must be between %d and %d", r.MinUnits, r.MaxUnits))
		}
	}

	return violations
}

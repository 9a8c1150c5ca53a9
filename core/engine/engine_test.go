package engine

import (
	"context"
	"testing"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

func fptr(v float64) *float64 { return &v }

func sheetDefaults() types.Defaults {
	return types.Defaults{
		Rates: types.ExchangeRates{
			types.CurrencyEUR: 38.50,
			types.CurrencyUSD: 34.20,
			types.CurrencyGBP: 45.10,
		},
		Fabric: types.FabricPricing{UnitPrice: fptr(5.00)},
		OverheadPercent: types.RangeValues{
			types.RangeSmall:  15,
			types.RangeMedium: 12,
			types.RangeLarge:  10,
		},
		ProfitPercent: types.RangeValues{
			types.RangeSmall:  25,
			types.RangeMedium: 22,
			types.RangeLarge:  20,
		},
		VATPercent:        18,
		CommissionPercent: 3,
		Operations: types.OperationCosts{
			"cutting": {
				types.RangeSmall:  1500,
				types.RangeMedium: 2500,
				types.RangeLarge:  4000,
			},
		},
	}
}

// TestCalculateCoversEveryRange proves the output always contains every
// configured range for valid defaults
func TestCalculateCoversEveryRange(t *testing.T) {
	calculation, err := Calculate(context.Background(), sheetDefaults(), nil, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if len(calculation.Results) != len(types.RangeIDs()) {
		t.Fatalf("Expected %d range results, got %d", len(types.RangeIDs()), len(calculation.Results))
	}
	for _, id := range types.RangeIDs() {
		result, ok := calculation.Results[id]
		if !ok {
			t.Errorf("Result missing range %s", id)
			continue
		}
		if result.Range != id {
			t.Errorf("Result keyed %s reports range %s", id, result.Range)
		}
		for _, c := range []types.Currency{types.CurrencyEUR, types.CurrencyTRY, types.CurrencyUSD, types.CurrencyGBP} {
			if _, ok := result.Totals[c]; !ok {
				t.Errorf("range %s: missing final total for %s", id, c)
			}
		}
	}
}

// TestCalculateAppliesOverrideLayers proves the engine runs the full
// precedence chain before computing
func TestCalculateAppliesOverrideLayers(t *testing.T) {
	user := &types.Override{
		VATPercent: fptr(20),
		Operations: types.OperationCosts{
			"packaging": {types.RangeSmall: 250},
		},
	}
	system := &types.Override{
		VATPercent: fptr(8),
	}

	calculation, err := Calculate(context.Background(), sheetDefaults(), user, system)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if calculation.Parameters.VATPercent != 8 {
		t.Errorf("Expected system vat_percent 8, got %v", calculation.Parameters.VATPercent)
	}
	if _, ok := calculation.Parameters.Operations["packaging"]; !ok {
		t.Error("user operation missing from merged parameters")
	}
	if _, ok := calculation.Parameters.Operations["cutting"]; !ok {
		t.Error("default operation missing from merged parameters")
	}
}

// TestCalculateAbortsOnValidationFailure proves no range is computed when
// the merged parameters are invalid
func TestCalculateAbortsOnValidationFailure(t *testing.T) {
	user := &types.Override{
		Rates: types.ExchangeRates{types.CurrencyGBP: 0},
	}

	calculation, err := Calculate(context.Background(), sheetDefaults(), user, nil)
	if err == nil {
		t.Fatal("Expected validation error, got none")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Fatalf("Expected VALIDATION_ERROR, got %v", err)
	}
	if calculation != nil {
		t.Errorf("Expected no partial results, got %+v", calculation)
	}
}

// TestCalculateCollectsRangeWarnings proves guarded-division warnings
// surface on the calculation
func TestCalculateCollectsRangeWarnings(t *testing.T) {
	user := &types.Override{
		BatchSizes: types.BatchSizes{types.RangeSmall: 0},
	}

	calculation, err := Calculate(context.Background(), sheetDefaults(), user, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	warnings := calculation.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected exactly one warning, got %v", warnings)
	}
}

// TestCalculateIsDeterministic proves repeated runs over the same inputs
// produce identical totals regardless of per-range scheduling
func TestCalculateIsDeterministic(t *testing.T) {
	first, err := Calculate(context.Background(), sheetDefaults(), nil, nil)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		next, err := Calculate(context.Background(), sheetDefaults(), nil, nil)
		if err != nil {
			t.Fatalf("Calculate failed on run %d: %v", i, err)
		}
		for _, id := range types.RangeIDs() {
			if next.Results[id].Totals[types.CurrencyTRY] != first.Results[id].Totals[types.CurrencyTRY] {
				t.Fatalf("range %s: totals differ between runs", id)
			}
		}
	}
}

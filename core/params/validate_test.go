package params

import (
	"math"
	"testing"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

func violationFields(err error) map[string]string {
	e, ok := errors.AsError(err)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		fields[v.Field] = v.Reason
	}
	return fields
}

// TestZeroRateRejected proves a currency rate of exactly 0 fails validation
// naming that currency field, before any range is computed
func TestZeroRateRejected(t *testing.T) {
	defaults := sheetDefaults()
	user := &types.Override{
		Rates: types.ExchangeRates{types.CurrencyEUR: 0},
	}

	_, err := Resolve(defaults, user, nil)
	if err == nil {
		t.Fatal("Expected validation error for zero rate, got none")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Fatalf("Expected VALIDATION_ERROR, got %v", err)
	}

	fields := violationFields(err)
	if _, ok := fields["rates.EUR"]; !ok {
		t.Errorf("Expected violation naming rates.EUR, got %v", fields)
	}
}

// TestValidationCollectsAllViolations proves validation enumerates every
// violated field instead of failing fast
func TestValidationCollectsAllViolations(t *testing.T) {
	defaults := sheetDefaults()
	user := &types.Override{
		Rates:             types.ExchangeRates{types.CurrencyUSD: -1},
		VATPercent:        fptr(180),
		CommissionPercent: fptr(-3),
		OverheadPercent:   types.RangeValues{types.RangeSmall: 101},
		BatchSizes:        types.BatchSizes{types.RangeMedium: 5},
	}

	_, err := Resolve(defaults, user, nil)
	if err == nil {
		t.Fatal("Expected validation error, got none")
	}

	fields := violationFields(err)
	expected := []string{
		"rates.USD",
		"vat_percent",
		"commission_percent",
		"overhead_percent.0-50",
		"batch_sizes.51-100",
	}
	for _, f := range expected {
		if _, ok := fields[f]; !ok {
			t.Errorf("Expected violation for %s, got %v", f, fields)
		}
	}
	if len(fields) != len(expected) {
		t.Errorf("Expected exactly %d violations, got %d: %v", len(expected), len(fields), fields)
	}
}

func TestValidationRules(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*types.Override)
		expectedField string
	}{
		{
			name: "negative fabric price",
			mutate: func(o *types.Override) {
				o.Fabric = &types.FabricPricing{UnitPrice: fptr(-0.5)}
			},
			expectedField: "fabric.unit_price",
		},
		{
			name: "non-finite rate",
			mutate: func(o *types.Override) {
				o.Rates = types.ExchangeRates{types.CurrencyGBP: math.Inf(1)}
			},
			expectedField: "rates.GBP",
		},
		{
			name: "negative operation cost",
			mutate: func(o *types.Override) {
				o.Operations = types.OperationCosts{
					"sewing": {types.RangeSmall: -100},
				}
			},
			expectedField: "operations.sewing.0-50",
		},
		{
			name: "profit above 100 percent",
			mutate: func(o *types.Override) {
				o.ProfitPercent = types.RangeValues{types.RangeLarge: 100.5}
			},
			expectedField: "profit_percent.101-200",
		},
		{
			name: "batch size above range maximum",
			mutate: func(o *types.Override) {
				o.BatchSizes = types.BatchSizes{types.RangeSmall: 51}
			},
			expectedField: "batch_sizes.0-50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &types.Override{}
			tt.mutate(user)

			_, err := Resolve(sheetDefaults(), user, nil)
			if err == nil {
				t.Fatal("Expected validation error, got none")
			}
			fields := violationFields(err)
			if _, ok := fields[tt.expectedField]; !ok {
				t.Errorf("Expected violation for %s, got %v", tt.expectedField, fields)
			}
		})
	}
}

// TestZeroBatchSizeAllowedAtRangeFloor proves a batch size of 0 passes
// validation for the range whose lower bound is 0
func TestZeroBatchSizeAllowedAtRangeFloor(t *testing.T) {
	user := &types.Override{
		BatchSizes: types.BatchSizes{types.RangeSmall: 0},
	}

	merged, err := Resolve(sheetDefaults(), user, nil)
	if err != nil {
		t.Fatalf("Expected batch size 0 to validate for range 0-50, got %v", err)
	}
	if merged.BatchSizes[types.RangeSmall] != 0 {
		t.Errorf("Expected batch size 0, got %d", merged.BatchSizes[types.RangeSmall])
	}
}

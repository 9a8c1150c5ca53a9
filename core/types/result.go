// Package types - Calculation result types
package types

// RangeResult is the computed cost breakdown for one batch range.
// All monetary fields are rounded to 2 decimal places at construction;
// a result is never mutated after the calculator returns it.
type RangeResult struct {
	// Range is the batch range this result belongs to
	Range RangeID `json:"range"`

	// BatchSize is the number of units the result was computed for
	BatchSize int `json:"batch_size"`

	// FabricCost is the per-unit fabric cost in base currency
	FabricCost float64 `json:"fabric_cost"`

	// OperationsTotal is the whole-batch operation cost in local currency
	OperationsTotal float64 `json:"operations_total"`

	// PerUnitOperations is the per-unit operation cost in base currency
	PerUnitOperations float64 `json:"per_unit_operations"`

	// PerUnitCost is fabric plus operations per unit, in base currency
	PerUnitCost float64 `json:"per_unit_cost"`

	// RawCost is the whole-batch cost before markups, in base currency
	RawCost float64 `json:"raw_cost"`

	// Overhead is the overhead markup amount in base currency
	Overhead float64 `json:"overhead"`

	// Profit is the profit margin amount in base currency
	Profit float64 `json:"profit"`

	// Taxable is raw cost plus overhead plus profit, in base currency
	Taxable float64 `json:"taxable"`

	// VAT is the VAT amount in base currency
	VAT float64 `json:"vat"`

	// Commission is the commission amount in base currency
	Commission float64 `json:"commission"`

	// Totals holds the final batch total per supported currency,
	// local currency included
	Totals map[Currency]float64 `json:"totals"`

	// PerUnitTotals holds the final per-unit price per supported currency
	PerUnitTotals map[Currency]float64 `json:"per_unit_totals"`

	// Warnings carries non-fatal anomalies, such as a guarded division
	// by a zero batch size
	Warnings []string `json:"warnings,omitempty"`
}

// ResultSet maps every configured range to its computed breakdown
type ResultSet map[RangeID]*RangeResult

// Package types - Domain value objects for production cost calculation
package types

// Currency represents a currency code
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
	CurrencyTRY Currency = "TRY"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// BaseCurrency is the pivot currency for all intermediate per-unit cost math.
const BaseCurrency = CurrencyEUR

// LocalCurrency is the currency operation costs and the final local total are
// denominated in. Exchange rates are quoted as local units per 1 foreign unit.
const LocalCurrency = CurrencyTRY

// ForeignCurrencies returns the fixed set of supported foreign currencies.
func ForeignCurrencies() []Currency {
	return []Currency{CurrencyEUR, CurrencyUSD, CurrencyGBP}
}

// RangeID identifies a batch-size bracket
type RangeID string

const (
	RangeSmall  RangeID = "0-50"
	RangeMedium RangeID = "51-100"
	RangeLarge  RangeID = "101-200"
)

// BatchRange describes one batch-size bracket
type BatchRange struct {
	// ID is the range identifier (e.g. "0-50")
	ID RangeID `json:"id"`

	// MinUnits is the lowest permitted batch size for this range
	MinUnits int `json:"min_units"`

	// MaxUnits is the highest permitted batch size for this range
	MaxUnits int `json:"max_units"`

	// DefaultBatch is the batch size assumed when the caller supplies none
	DefaultBatch int `json:"default_batch"`
}

// Ranges returns the configured batch ranges in display order
func Ranges() []BatchRange {
	return []BatchRange{
		{ID: RangeSmall, MinUnits: 0, MaxUnits: 50, DefaultBatch: 25},
		{ID: RangeMedium, MinUnits: 51, MaxUnits: 100, DefaultBatch: 75},
		{ID: RangeLarge, MinUnits: 101, MaxUnits: 200, DefaultBatch: 150},
	}
}

// RangeIDs returns the range identifiers in display order
func RangeIDs() []RangeID {
	ranges := Ranges()
	ids := make([]RangeID, len(ranges))
	for i, r := range ranges {
		ids[i] = r.ID
	}
	return ids
}

// RangeByID looks up a configured range by identifier
func RangeByID(id RangeID) (BatchRange, bool) {
	for _, r := range Ranges() {
		if r.ID == id {
			return r, true
		}
	}
	return BatchRange{}, false
}

// ExchangeRates maps a currency code to its rate in local currency
// (e.g. TRY per 1 EUR)
type ExchangeRates map[Currency]float64

// Clone returns a copy of the rate table
func (r ExchangeRates) Clone() ExchangeRates {
	out := make(ExchangeRates, len(r))
	for c, v := range r {
		out[c] = v
	}
	return out
}

// FabricPricing holds the named fabric price fields, denominated in the base
// currency. A nil field means the price is absent.
type FabricPricing struct {
	// UnitPrice is the finished per-unit fabric price
	UnitPrice *float64 `json:"unit_price,omitempty"`

	// BasePrice is the fallback per-unit price when no unit price is set
	BasePrice *float64 `json:"base_price,omitempty"`

	// MetrePrice is the raw per-metre fabric price
	MetrePrice *float64 `json:"metre_price,omitempty"`
}

// UnitCost returns the effective per-unit fabric cost: the unit price when
// present and positive, otherwise the base price when present, otherwise 0.
// The priority order is fixed; prices are never averaged or summed.
func (f FabricPricing) UnitCost() float64 {
	if f.UnitPrice != nil && *f.UnitPrice > 0 {
		return *f.UnitPrice
	}
	if f.BasePrice != nil {
		return *f.BasePrice
	}
	return 0
}

// RangeValues maps each batch range to a numeric value (a percentage or a cost)
type RangeValues map[RangeID]float64

// OperationCosts maps an operation name to its whole-batch cost per range,
// denominated in local currency. The operation set is free-form.
type OperationCosts map[string]RangeValues

// BatchSizes maps each range to the number of units produced in that range
type BatchSizes map[RangeID]int

// DefaultBatchSizes returns the engine-internal default batch size per range
func DefaultBatchSizes() BatchSizes {
	sizes := make(BatchSizes)
	for _, r := range Ranges() {
		sizes[r.ID] = r.DefaultBatch
	}
	return sizes
}

// Defaults is the complete parameter set sourced from the costing sheet.
// Batch sizes are not part of the sheet; their defaults are engine-internal.
type Defaults struct {
	// Rates is the exchange rate table
	Rates ExchangeRates `json:"rates"`

	// Fabric is the fabric price card
	Fabric FabricPricing `json:"fabric"`

	// OverheadPercent is the overhead markup per range, in percent
	OverheadPercent RangeValues `json:"overhead_percent"`

	// ProfitPercent is the profit margin per range, in percent
	ProfitPercent RangeValues `json:"profit_percent"`

	// VATPercent is the VAT percentage applied to the taxable amount
	VATPercent float64 `json:"vat_percent"`

	// CommissionPercent is the sales commission percentage
	CommissionPercent float64 `json:"commission_percent"`

	// Operations is the per-operation cost table
	Operations OperationCosts `json:"operations"`
}

// Override is a partial parameter set supplied by a caller or an operator.
// Every field is optional; nil fields and missing keys fall through to the
// layer below.
type Override struct {
	Rates             ExchangeRates  `json:"rates,omitempty"`
	Fabric            *FabricPricing `json:"fabric,omitempty"`
	OverheadPercent   RangeValues    `json:"overhead_percent,omitempty"`
	ProfitPercent     RangeValues    `json:"profit_percent,omitempty"`
	VATPercent        *float64       `json:"vat_percent,omitempty"`
	CommissionPercent *float64       `json:"commission_percent,omitempty"`
	Operations        OperationCosts `json:"operations,omitempty"`
	BatchSizes        BatchSizes     `json:"batch_sizes,omitempty"`
}

// CalculationParameters is the fully merged and validated parameter bundle.
// It is built fresh per request, immutable once resolved, and never persisted.
type CalculationParameters struct {
	Rates             ExchangeRates  `json:"rates"`
	Fabric            FabricPricing  `json:"fabric"`
	OverheadPercent   RangeValues    `json:"overhead_percent"`
	ProfitPercent     RangeValues    `json:"profit_percent"`
	VATPercent        float64        `json:"vat_percent"`
	CommissionPercent float64        `json:"commission_percent"`
	Operations        OperationCosts `json:"operations"`
	BatchSizes        BatchSizes     `json:"batch_sizes"`
}

// Package sheet provides the costing-sheet defaults source.
// The sheet is an HCL document with named fields; the engine never sees
// cell coordinates or file paths, only the decoded defaults bundle.
package sheet

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

// sheetFile mirrors the HCL document structure
type sheetFile struct {
	Rates      *ratesBlock      `hcl:"rates,block"`
	Fabric     *fabricBlock     `hcl:"fabric,block"`
	Costing    *costingBlock    `hcl:"costing,block"`
	Ranges     []rangeBlock     `hcl:"range,block"`
	Operations []operationBlock `hcl:"operation,block"`
}

type ratesBlock struct {
	EUR float64 `hcl:"eur"`
	USD float64 `hcl:"usd"`
	GBP float64 `hcl:"gbp"`
}

type fabricBlock struct {
	UnitPrice  *float64 `hcl:"unit_price,optional"`
	BasePrice  *float64 `hcl:"base_price,optional"`
	MetrePrice *float64 `hcl:"metre_price,optional"`
}

type costingBlock struct {
	VATPercent        float64 `hcl:"vat_percent"`
	CommissionPercent float64 `hcl:"commission_percent"`
}

type rangeBlock struct {
	ID              string  `hcl:"id,label"`
	OverheadPercent float64 `hcl:"overhead_percent"`
	ProfitPercent   float64 `hcl:"profit_percent"`
}

type operationBlock struct {
	Name string             `hcl:"name,label"`
	Cost map[string]float64 `hcl:"cost"`
}

// Load reads and decodes a costing sheet into a defaults bundle.
// A missing file is a source-unavailable condition; an unparsable or
// structurally invalid file is a malformed-source condition.
func Load(path string) (types.Defaults, error) {
	if _, err := os.Stat(path); err != nil {
		return types.Defaults{}, errors.SourceUnavailable(
			fmt.Sprintf("costing sheet %s unavailable", path), err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return types.Defaults{}, errors.MalformedSource(
			fmt.Sprintf("costing sheet %s failed to parse", path), diags)
	}

	var doc sheetFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return types.Defaults{}, errors.MalformedSource(
			fmt.Sprintf("costing sheet %s failed to decode", path), diags)
	}

	return extract(path, &doc)
}

// extract maps the decoded document onto the defaults bundle, checking the
// named blocks the contract requires
func extract(path string, doc *sheetFile) (types.Defaults, error) {
	if doc.Rates == nil {
		return types.Defaults{}, errors.MalformedSource(
			fmt.Sprintf("costing sheet %s has no rates block", path), nil)
	}
	if doc.Costing == nil {
		return types.Defaults{}, errors.MalformedSource(
			fmt.Sprintf("costing sheet %s has no costing block", path), nil)
	}

	defaults := types.Defaults{
		Rates: types.ExchangeRates{
			types.CurrencyEUR: doc.Rates.EUR,
			types.CurrencyUSD: doc.Rates.USD,
			types.CurrencyGBP: doc.Rates.GBP,
		},
		OverheadPercent:   make(types.RangeValues),
		ProfitPercent:     make(types.RangeValues),
		VATPercent:        doc.Costing.VATPercent,
		CommissionPercent: doc.Costing.CommissionPercent,
		Operations:        make(types.OperationCosts),
	}

	if doc.Fabric != nil {
		defaults.Fabric = types.FabricPricing{
			UnitPrice:  doc.Fabric.UnitPrice,
			BasePrice:  doc.Fabric.BasePrice,
			MetrePrice: doc.Fabric.MetrePrice,
		}
	}

	for _, block := range doc.Ranges {
		id := types.RangeID(block.ID)
		if _, ok := types.RangeByID(id); !ok {
			return types.Defaults{}, errors.MalformedSource(
				fmt.Sprintf("costing sheet %s names unknown range %q", path, block.ID), nil)
		}
		defaults.OverheadPercent[id] = block.OverheadPercent
		defaults.ProfitPercent[id] = block.ProfitPercent
	}

	for _, block := range doc.Operations {
		costs := make(types.RangeValues, len(block.Cost))
		for rawID, cost := range block.Cost {
			id := types.RangeID(rawID)
			if _, ok := types.RangeByID(id); !ok {
				return types.Defaults{}, errors.MalformedSource(
					fmt.Sprintf("costing sheet %s: operation %q names unknown range %q",
						path, block.Name, rawID), nil)
			}
			costs[id] = cost
		}
		defaults.Operations[block.Name] = costs
	}

	return defaults, nil
}

// Fallback returns the hard-coded defaults used by hosts that opt into
// provider-level fallback when the sheet cannot be read
func Fallback() types.Defaults {
	unitPrice := 5.00
	basePrice := 4.20
	return types.Defaults{
		Rates: types.ExchangeRates{
			types.CurrencyEUR: 38.50,
			types.CurrencyUSD: 34.20,
			types.CurrencyGBP: 45.10,
		},
		Fabric: types.FabricPricing{
			UnitPrice: &unitPrice,
			BasePrice: &basePrice,
		},
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
			"sewing": {
				types.RangeSmall:  3000,
				types.RangeMedium: 5000,
				types.RangeLarge:  8000,
			},
		},
	}
}

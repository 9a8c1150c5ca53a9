package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"garment-cost/adapters/sheet"
	"garment-cost/core/engine"
	"garment-cost/core/types"
	"garment-cost/internal/errors"
)

var (
	calculateSheetPath string
	calculateInput     string
	calculateFormat    string
)

// calculateCmd computes the full per-range cost breakdown
var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute the cost breakdown for every batch range",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := sheet.Load(calculateSheetPath)
		if err != nil {
			return err
		}

		var user *types.Override
		if calculateInput != "" {
			data, err := os.ReadFile(calculateInput)
			if err != nil {
				return fmt.Errorf("read input file: %w", err)
			}
			user = &types.Override{}
			if err := json.Unmarshal(data, user); err != nil {
				return fmt.Errorf("parse input file: %w", err)
			}
		}

		calculation, err := engine.Calculate(context.Background(), defaults, user, nil)
		if err != nil {
			if e, ok := errors.AsError(err); ok && len(e.Violations) > 0 {
				fmt.Fprintln(os.Stderr, "Invalid parameters:")
				for _, v := range e.Violations {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", v.Field, v.Reason)
				}
			}
			return err
		}

		switch calculateFormat {
		case "json":
			return printJSON(calculation)
		case "table":
			printTable(calculation)
			return nil
		default:
			return fmt.Errorf("unknown format %q", calculateFormat)
		}
	},
}

func init() {
	calculateCmd.Flags().StringVar(&calculateSheetPath, "sheet", "costing.hcl", "costing sheet file")
	calculateCmd.Flags().StringVar(&calculateInput, "input", "", "JSON file with parameter overrides")
	calculateCmd.Flags().StringVar(&calculateFormat, "format", "table", "output format (table, json)")
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printTable(calculation *engine.Calculation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANGE\tUNITS\tRAW EUR\tTAXABLE EUR\tFINAL EUR\tFINAL TRY\tPER UNIT EUR")

	for _, id := range types.RangeIDs() {
		r := calculation.Results[id]
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.Range, r.BatchSize, r.RawCost, r.Taxable,
			r.Totals[types.CurrencyEUR], r.Totals[types.CurrencyTRY],
			r.PerUnitTotals[types.CurrencyEUR])
	}
	w.Flush()

	warnings := calculation.Warnings()
	sort.Strings(warnings)
	for _, warning := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}

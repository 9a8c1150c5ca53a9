package cmd

import (
	"github.com/spf13/cobra"

	"garment-cost/adapters/sheet"
)

var defaultsSheetPath string

// defaultsCmd prints the parsed costing sheet
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the parsed costing sheet defaults as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := sheet.Load(defaultsSheetPath)
		if err != nil {
			return err
		}
		return printJSON(defaults)
	},
}

func init() {
	defaultsCmd.Flags().StringVar(&defaultsSheetPath, "sheet", "costing.hcl", "costing sheet file")
}

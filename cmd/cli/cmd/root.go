// Package cmd provides the CLI commands for garment-cost.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"garment-cost/internal/config"
	"garment-cost/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "garment-cost",
	Short: "Compute per-unit and batch production costs",
	Long: `garment-cost computes per-unit and batch production costs for garment
manufacturing from a costing sheet, per-range operation costs, and live
exchange rates.

Examples:
  garment-cost calculate --sheet costing.hcl
  garment-cost calculate --sheet costing.hcl --input overrides.json --format json
  garment-cost defaults --sheet costing.hcl
  garment-cost rates --url https://rates.example.com/latest`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.garment-cost/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(defaultsCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("garment-cost version 0.1.0")
	},
}

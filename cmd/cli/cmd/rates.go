package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"garment-cost/adapters/rates"
)

var ratesURL string

// ratesCmd fetches and prints the live rate snapshot
var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Fetch and print the current exchange rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ratesURL == "" {
			return fmt.Errorf("--url is required")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client := rates.NewClient(ratesURL, 10*time.Second)
		table, err := client.Fetch(ctx)
		if err != nil {
			return err
		}
		return printJSON(table)
	},
}

func init() {
	ratesCmd.Flags().StringVar(&ratesURL, "url", "", "rate endpoint URL")
}

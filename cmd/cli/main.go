package main

import (
	"os"

	"garment-cost/cmd/cli/cmd"
	"garment-cost/internal/logging"
)

func main() {
	defer logging.Sync()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main is the goseries demo: it runs a forecasting agent once from
// the command line or serves it behind a small web UI.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "goseries-demo",
	Short:   "Run time series forecasting agents",
	Version: version,
	Long: `goseries-demo loads an agent configuration (a chain of templates that
turn CSV data into time series and forecast them) and either runs it once
on local files or serves an upload form that plots the forecast.`,
	Example: `  # Forecast a local CSV and print a summary
  $ goseries-demo run --agent-config configs/time_series_arima.yml --target data/sales.csv

  # Run an agent that loads its own CSV, printing JSON
  $ goseries-demo run --agent-config configs/csv_loader.yml --json

  # Start the web UI
  $ goseries-demo serve --config configs/config.yaml`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// Package goseries turns tabular data into time series inside a small
// template pipeline and forecasts them.
//
// A pipeline is an agent: an ordered list of templates described in YAML and
// run over a container of packets. Each packet carries four slots (content,
// past covariates, future covariates, predictions) that hold either raw
// tables or constructed series.
//
// # Quick Start
//
// Load an agent and run it on a CSV file:
//
//	a, err := agent.Load("configs/time_series_arima.yml", agent.DefaultRegistry(), nil)
//	if err != nil {
//	    return err
//	}
//	tbl, _ := table.ReadCSVFile("data/sales.csv", nil)
//	out, err := a.Run(ctx, packet.NewContainer(packet.New(packet.TableValue(tbl))))
//	forecast := out.First().Predictions.Series()
//
// Or build a series directly:
//
//	s, err := timeseries.FromCSV("data/sales.csv", &timeseries.CSVOptions{
//	    Options: timeseries.Options{TimeCol: "Date", Freq: "D"},
//	})
//
// # Packages
//
//   - table: string-cell tables read from CSV
//   - timeseries: time-indexed series, frequencies and table conversion
//   - packet: packets, slots and containers
//   - template: the template contract and strict attribute decoding
//   - templates/...: InputTemplate, TimeSeriesDataframeLoader,
//     TimeSeriesFromCSVLoader and ARIMAForecaster
//   - agent: agent configuration, registry and runtime
//   - arima, sarima, autoarima: forecasting models and order search
//   - stats: ACF/PACF, KPSS, differencing and Ljung-Box
//   - plotting: PNG line plots of series
//   - config, logger, webapp: the demo server's configuration, logging and routes
//
// The demo command in ./demo runs an agent once from the command line or
// serves the upload form.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package goseries

// Package autoarima implements automatic ARIMA model selection.
//
// Auto-ARIMA selects the best ARIMA or SARIMA model by searching through
// combinations of model orders and ranking them by an information criterion.
// The differencing order d comes from repeated KPSS tests; for seasonal
// searches the seasonal differencing order comes from the autocorrelation at
// the seasonal lag.
//
// # Basic Usage
//
//	result, err := autoarima.AutoARIMA(values, autoarima.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Best model: %s, AICc %.2f, %d models evaluated\n",
//	    result.Order(), result.AICc, result.ModelsEvaluated)
//	forecasts, _ := result.Predict(10)
//
// # Seasonal Model Selection
//
// Set the seasonal period to also search seasonal AR and MA orders:
//
//	cfg := autoarima.DefaultConfig()
//	cfg.M = 7 // daily data with weekly seasonality
//	cfg.Stepwise = true
//	result, _ := autoarima.AutoARIMA(values, cfg)
//
// # Search Methods
//
// Two search methods are available:
//   - Grid (default): every combination within the bounds
//   - Stepwise: start from a few simple orders and move to better
//     neighbouring orders until none improves the criterion
package autoarima

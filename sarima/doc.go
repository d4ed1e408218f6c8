// Package sarima implements Seasonal ARIMA (SARIMA) models for time series with seasonality.
//
// SARIMA models extend ARIMA to handle seasonal patterns. A SARIMA(p,d,q)(P,D,Q)[m] model includes:
//   - Non-seasonal components: AR(p), I(d), MA(q)
//   - Seasonal components: SAR(P), SI(D), SMA(Q) at seasonal period m
//
// # Basic Usage
//
// Fit a model with weekly seasonality on daily values:
//
//	// SARIMA(1,0,0)(1,1,0)[7]
//	model := sarima.New(1, 0, 0, 1, 1, 0, 7)
//	if err := model.Fit(values); err != nil {
//	    return err
//	}
//
//	// Point forecasts and 95% bounds for the next two weeks
//	forecasts, lower, upper, _ := model.PredictWithInterval(14, 0.95)
//
// # Seasonal Periods
//
// Common seasonal periods:
//   - Daily data with weekly seasonality: m = 7
//   - Monthly data with yearly seasonality: m = 12
//   - Quarterly data: m = 4
//   - Hourly data with daily seasonality: m = 24
//
// The ARIMAForecaster template switches to this package when its period
// attribute is set.
package sarima

// Package arima implements AutoRegressive Integrated Moving Average (ARIMA) models.
//
// An ARIMA(p,d,q) model combines:
//   - AR(p): AutoRegressive component with p lags
//   - I(d): Integration (differencing) of order d
//   - MA(q): Moving Average component with q lags
//
// # Basic Usage
//
//	model := arima.New(1, 1, 0)
//	if err := model.Fit(values); err != nil {
//	    return err
//	}
//	forecasts, _ := model.Predict(10)
//
// Prediction intervals widen with the horizon for integrated models:
//
//	forecasts, lower, upper, _ := model.PredictWithInterval(10, 0.9)
//
// For automatic order selection see package autoarima.
//
// # Residual Analysis
//
//	if lb := model.Diagnose(10); lb != nil && !lb.WhiteNoise() {
//	    // residual autocorrelation left; consider a larger order
//	}
package arima
